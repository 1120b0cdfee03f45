package insights

import (
	"encoding/json"
	"testing"
)

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		count, total int
		want         string
	}{
		{5, 10, "50"},
		{10, 10, "100"},
		{0, 10, "0"},
		{1, 3, "33.3"},
		{2, 3, "66.7"},
		{1, 8, "12.5"},
		{1, 16, "6.3"},
		{3, 16, "18.8"},
		{0, 0, "null"},
		{3, 0, "null"},
	}

	for _, tt := range tests {
		got := FormatPercent(tt.count, tt.total).String()
		if got != tt.want {
			t.Errorf("FormatPercent(%d, %d): expected %s, got %s", tt.count, tt.total, tt.want, got)
		}
	}
}

func TestPercent_MarshalJSON(t *testing.T) {
	payload := struct {
		A Percent `json:"a"`
		B Percent `json:"b"`
		C Percent `json:"c"`
	}{
		A: FormatPercent(5, 10),
		B: FormatPercent(1, 3),
		C: FormatPercent(0, 0),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	expected := `{"a":50,"b":33.3,"c":null}`
	if string(data) != expected {
		t.Errorf("Expected %s, got %s", expected, string(data))
	}
}
