package schema

// EnrichedMeltedRecord adds presentation data to a MeltedRecord.
type EnrichedMeltedRecord struct {
	Label string `json:"level"`
	MeltedRecord
}

// GetPlainLabel returns a plain text level for a normalized value, which is
// the share of the series peak.
func GetPlainLabel(normalized float64) string {
	switch {
	case normalized >= 0.9:
		return "Peak"
	case normalized >= 0.6:
		return "High"
	case normalized >= 0.3:
		return "Moderate"
	default:
		return "Low"
	}
}

// EnrichMelted adds a level label to each melted record.
func EnrichMelted(records []MeltedRecord) []EnrichedMeltedRecord {
	output := make([]EnrichedMeltedRecord, len(records))
	for i, r := range records {
		output[i] = EnrichedMeltedRecord{
			Label:        GetPlainLabel(r.Normalized),
			MeltedRecord: r,
		}
	}
	return output
}
