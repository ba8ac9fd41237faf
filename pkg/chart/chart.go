// Package chart defines the chart payload the recipe agent may attach
// to a reply. Payloads are validated exactly once, when they enter the
// system; everything downstream only ever sees a valid chart or none.
package chart

import (
	"encoding/json"
	"fmt"
)

const (
	TypeLine = "line"
	TypeBar  = "bar"
)

// Chart describes a renderable chart: a list of records plus which
// columns to plot. Either YColumn or YColumns must be set.
type Chart struct {
	Data        []map[string]interface{} `json:"data"`
	XColumn     string                   `json:"x_column"`
	YColumn     string                   `json:"y_column,omitempty"`
	YColumns    []string                 `json:"y_columns,omitempty"`
	ChartType   string                   `json:"chart_type"`
	Title       string                   `json:"title,omitempty"`
	Description string                   `json:"description,omitempty"`
	Footer      string                   `json:"footer,omitempty"`
}

// Validate checks the invariants the UI relies on before rendering.
func (c *Chart) Validate() error {
	if c == nil {
		return fmt.Errorf("chart is nil")
	}
	if c.Data == nil {
		return fmt.Errorf("chart data is required")
	}
	if c.XColumn == "" {
		return fmt.Errorf("chart x_column is required")
	}
	if c.ChartType != TypeLine && c.ChartType != TypeBar {
		return fmt.Errorf("unsupported chart_type %q", c.ChartType)
	}
	if c.YColumn == "" && len(c.YColumns) == 0 {
		return fmt.Errorf("chart needs y_column or y_columns")
	}
	for i, col := range c.YColumns {
		if col == "" {
			return fmt.Errorf("chart y_columns[%d] is empty", i)
		}
	}
	for i, record := range c.Data {
		for key, value := range record {
			switch value.(type) {
			case string, float64, int, int64, json.Number:
			default:
				return fmt.Errorf("chart data[%d][%q] has unsupported type %T", i, key, value)
			}
		}
	}
	return nil
}

// Parse decodes and validates a raw chart payload in one step.
func Parse(raw json.RawMessage) (*Chart, error) {
	var c Chart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("could not decode chart payload: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
