package server

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/schema"
)

// ParseSelection reads the dashboard controls from query parameters.
// Missing parameters fall back to the full range, no metric and passenger volume.
// metrics may be repeated or comma-separated.
func ParseSelection(q url.Values, kpis []schema.KPI) (schema.Selection, error) {
	sel := schema.DefaultSelection()

	var err error
	if sel.Start, err = intParam(q, "start", sel.Start); err != nil {
		return sel, err
	}
	if sel.End, err = intParam(q, "end", sel.End); err != nil {
		return sel, err
	}
	if err := contract.ValidateYearRange(sel.Start, sel.End); err != nil {
		return sel, err
	}

	var labels []string
	for _, v := range q["metrics"] {
		labels = append(labels, schema.SplitList(v)...)
	}
	if sel.Metrics, err = contract.ParseMetrics(labels, kpis); err != nil {
		return sel, err
	}

	if sel.Volume, err = schema.ParseVolumeType(q.Get("volume")); err != nil {
		return sel, err
	}
	return sel, nil
}

func intParam(q url.Values, name string, fallback int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s': must be a year", name, raw)
	}
	return v, nil
}
