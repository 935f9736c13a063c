// Package data embeds the default Bologna airport traffic dataset.
package data

import (
	"bytes"
	_ "embed"
)

// DefaultSource names the embedded dataset in logs and status output.
const DefaultSource = "embedded"

//go:embed blq_traffic.csv
var trafficCSV []byte

// DefaultCSV returns a copy of the embedded dataset.
func DefaultCSV() []byte {
	return bytes.Clone(trafficCSV)
}
