package chart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		chart       Chart
		expectedErr bool
	}{
		{
			name: "valid line chart with single y column",
			chart: Chart{
				Data:      []map[string]interface{}{{"week": "2025-01-06", "calories": 1800.0}},
				XColumn:   "week",
				YColumn:   "calories",
				ChartType: TypeLine,
				Title:     "Calories per week",
			},
		},
		{
			name: "valid bar chart with multiple y columns",
			chart: Chart{
				Data:      []map[string]interface{}{{"day": "Mon", "protein": 80.0, "carbs": 200.0}},
				XColumn:   "day",
				YColumns:  []string{"protein", "carbs"},
				ChartType: TypeBar,
			},
		},
		{
			name: "empty data slice is still valid",
			chart: Chart{
				Data:      []map[string]interface{}{},
				XColumn:   "day",
				YColumn:   "calories",
				ChartType: TypeBar,
			},
		},
		{
			name: "missing data",
			chart: Chart{
				XColumn:   "day",
				YColumn:   "calories",
				ChartType: TypeLine,
			},
			expectedErr: true,
		},
		{
			name: "missing x column",
			chart: Chart{
				Data:      []map[string]interface{}{},
				YColumn:   "calories",
				ChartType: TypeLine,
			},
			expectedErr: true,
		},
		{
			name: "unsupported chart type",
			chart: Chart{
				Data:      []map[string]interface{}{},
				XColumn:   "day",
				YColumn:   "calories",
				ChartType: "pie",
			},
			expectedErr: true,
		},
		{
			name: "neither y column nor y columns",
			chart: Chart{
				Data:      []map[string]interface{}{},
				XColumn:   "day",
				ChartType: TypeLine,
			},
			expectedErr: true,
		},
		{
			name: "empty entry in y columns",
			chart: Chart{
				Data:      []map[string]interface{}{},
				XColumn:   "day",
				YColumns:  []string{"protein", ""},
				ChartType: TypeLine,
			},
			expectedErr: true,
		},
		{
			name: "nested object in data record",
			chart: Chart{
				Data:      []map[string]interface{}{{"day": "Mon", "macros": map[string]interface{}{"protein": 80.0}}},
				XColumn:   "day",
				YColumn:   "macros",
				ChartType: TypeBar,
			},
			expectedErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.chart.Validate()
			if tc.expectedErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateNil(t *testing.T) {
	var c *Chart
	assert.Error(t, c.Validate())
}

func TestParse(t *testing.T) {
	raw := json.RawMessage(`{
		"data": [{"week": "W1", "meals": 12}, {"week": "W2", "meals": 9}],
		"x_column": "week",
		"y_column": "meals",
		"chart_type": "bar",
		"title": "Meals cooked",
		"footer": "Last two weeks"
	}`)

	c, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "week", c.XColumn)
	assert.Equal(t, "meals", c.YColumn)
	assert.Equal(t, TypeBar, c.ChartType)
	assert.Len(t, c.Data, 2)
}

func TestParseRejectsInvalidPayloads(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `{"data": [`},
		{name: "wrong shape", raw: `"just a string"`},
		{name: "valid json failing validation", raw: `{"x_column": "day"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(json.RawMessage(tc.raw))
			assert.Error(t, err)
		})
	}
}
