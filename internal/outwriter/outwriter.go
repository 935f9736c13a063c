// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteTrends prints the long-format KPI table.
func (ow *OutWriter) WriteTrends(records []schema.MeltedRecord, cfg *contract.Config, duration time.Duration) error {
	return WriteTrends(records, cfg, duration)
}

// WriteVolumes prints the Bologna vs national volume table.
func (ow *OutWriter) WriteVolumes(points []schema.VolumePoint, cfg *contract.Config, duration time.Duration) error {
	return WriteVolumes(points, cfg, duration)
}

// WriteEmissions prints the CO2 per passenger table.
func (ow *OutWriter) WriteEmissions(points []schema.CO2Point, cfg *contract.Config, duration time.Duration) error {
	return WriteEmissions(points, cfg, duration)
}

// WriteEfficiency prints the load efficiency table and its trend line.
func (ow *OutWriter) WriteEfficiency(result schema.EfficiencyResult, cfg *contract.Config, duration time.Duration) error {
	return WriteEfficiency(result, cfg, duration)
}

// WriteAnnotations prints the historical events in range.
func (ow *OutWriter) WriteAnnotations(annotations []schema.Annotation, cfg *contract.Config) error {
	return WriteAnnotations(annotations, cfg)
}

// WriteMetrics prints the KPI definitions.
func (ow *OutWriter) WriteMetrics(model *schema.MetricsRenderModel, cfg *contract.Config) error {
	return PrintMetricsDefinitions(model, cfg)
}

// WriteCheck prints a dataset validation report.
func (ow *OutWriter) WriteCheck(result schema.CheckResult, cfg *contract.Config, duration time.Duration) error {
	return WriteCheck(result, cfg, duration)
}

// LogSelectionHeader prints a concise, 2-line header for a command run to stderr.
func LogSelectionHeader(cfg *contract.Config, ds *schema.Dataset) {
	source := ds.Source
	if source == "" {
		source = "embedded"
	}
	metrics := "none"
	if len(cfg.Metrics) > 0 {
		metrics = strings.Join(cfg.Metrics, ", ")
	}

	// Line 1: The dataset and its fingerprint
	fmt.Fprintf(os.Stderr, "🛫 Dataset: %s (sha256 %s)\n", source, shortHash(ds.Hash))

	// Line 2: The selection being rendered
	fmt.Fprintf(os.Stderr, "📅 Years: %d → %d | Metrics: %s | Volume: %s\n", cfg.Start, cfg.End, metrics, cfg.Volume)
}

// shortHash returns the first 12 characters of a hex digest.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
