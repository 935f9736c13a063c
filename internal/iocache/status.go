package iocache

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/huangsam/blqdash/schema"
)

const statusTimeLayout = "2006-01-02 15:04:05"

// PrintCacheStatus prints figure cache status information.
func PrintCacheStatus(w io.Writer, status schema.CacheStatus) {
	fmt.Fprintf(w, "Cache Backend: %s\n", status.Backend)
	fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Fprintf(w, "Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		fmt.Fprintf(w, "Last Entry: %s\n", status.LastEntryTime.Format(statusTimeLayout))
		fmt.Fprintf(w, "Oldest Entry: %s\n", status.OldestEntryTime.Format(statusTimeLayout))
	}
	fmt.Fprintf(w, "Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintViewStatus prints view log status information.
func PrintViewStatus(w io.Writer, status schema.ViewStatus) {
	fmt.Fprintf(w, "Views Backend: %s\n", status.Backend)
	fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Fprintf(w, "Schema Version: %d\n", status.SchemaVersion)
	fmt.Fprintf(w, "Total Views: %d\n", status.TotalViews)
	if status.TotalViews > 0 {
		fmt.Fprintf(w, "Last View ID: %d\n", status.LastViewID)
		fmt.Fprintf(w, "Last View: %s\n", status.LastViewTime.Format(statusTimeLayout))
		fmt.Fprintf(w, "Oldest View: %s\n", status.OldestViewTime.Format(statusTimeLayout))
		fmt.Fprintf(w, "Cache Hits: %d\n", status.CacheHits)
	}
	fmt.Fprintln(w, "Table Sizes:")
	for _, table := range slices.Sorted(maps.Keys(status.TableSizes)) {
		fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
