package cmd

import (
	"reflect"
	"testing"
	"time"
)

func TestParseSessionID(t *testing.T) {
	tests := []struct {
		arg     string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseSessionID(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSessionID(%q) error = %v", tt.arg, err)
			}
			if got != tt.want {
				t.Errorf("parseSessionID(%q) = %d, want %d", tt.arg, got, tt.want)
			}
		})
	}
}

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want interface{}
	}{
		{"bool true", "true", true},
		{"bool false", "false", false},
		{"integer", "8", int64(8)},
		{"float", "0.7", 0.7},
		{"json object", `{"k":1}`, map[string]interface{}{"k": float64(1)}},
		{"json array", `[1,2]`, []interface{}{float64(1), float64(2)}},
		{"plain string", "llama3", "llama3"},
		{"malformed json stays string", "{oops", "{oops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coerceValue(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("coerceValue(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}

	for _, tt := range tests {
		if got := formatFileSize(tt.size); got != tt.want {
			t.Errorf("formatFileSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestDefaultExportName(t *testing.T) {
	if got := defaultExportName(7, "md"); got != "session_7.md" {
		t.Errorf("defaultExportName = %q", got)
	}
}

func TestHumanTimeBuckets(t *testing.T) {
	now := time.Now()

	if got := humanTime(now.Add(-2 * time.Hour)); got != now.Add(-2*time.Hour).Format("Today 15:04") {
		t.Errorf("recent = %q", got)
	}

	threeDays := now.Add(-3 * 24 * time.Hour)
	if got := humanTime(threeDays); got != threeDays.Format("Mon 15:04") {
		t.Errorf("this week = %q", got)
	}

	lastMonth := now.Add(-40 * 24 * time.Hour)
	if got := humanTime(lastMonth); got != lastMonth.Format("Jan 02 15:04") {
		t.Errorf("this year = %q", got)
	}
}
