package internal

import (
	"testing"
	"time"
)

func TestHealthClassify(t *testing.T) {
	tests := []struct {
		name   string
		status *HealthStatus
		want   Health
	}{
		{
			name:   "nil payload",
			status: nil,
			want:   HealthOffline,
		},
		{
			name: "model available",
			status: &HealthStatus{Ollama: &struct {
				Available bool   `json:"available"`
				Model     string `json:"model,omitempty"`
			}{Available: true, Model: "llama3"}},
			want: HealthConnected,
		},
		{
			name: "model unavailable",
			status: &HealthStatus{Ollama: &struct {
				Available bool   `json:"available"`
				Model     string `json:"model,omitempty"`
			}{Available: false}},
			want: HealthBackendReady,
		},
		{
			name:   "bare status",
			status: &HealthStatus{Status: "ok"},
			want:   HealthBackendReady,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.Classify(); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHealthString(t *testing.T) {
	if HealthConnected.String() != "Connected" {
		t.Error("connected label")
	}
	if HealthBackendReady.String() != "Backend Ready" {
		t.Error("backend ready label")
	}
	if HealthOffline.String() != "Offline" {
		t.Error("offline label")
	}
}

func TestSettingsMode(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		want     string
	}{
		{"explicit browser", Settings{"mode": "browser"}, "browser"},
		{"explicit cli", Settings{"mode": "cli"}, "cli"},
		{"missing defaults to cli", Settings{"model": "llama3"}, "cli"},
		{"empty string defaults to cli", Settings{"mode": ""}, "cli"},
		{"wrong type defaults to cli", Settings{"mode": 3}, "cli"},
		{"nil map", nil, "cli"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.settings.Mode(); got != tt.want {
				t.Errorf("Mode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseMessageTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		zero  bool
	}{
		{"rfc3339", "2026-08-28T10:30:00Z", false},
		{"backend format", "2026-08-28 10:30:00", false},
		{"empty", "", true},
		{"garbage", "yesterday", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMessageTime(tt.input)
			if got.IsZero() != tt.zero {
				t.Errorf("ParseMessageTime(%q) = %v", tt.input, got)
			}
			if !tt.zero {
				want := time.Date(2026, 8, 28, 10, 30, 0, 0, got.Location())
				if !got.Equal(want) {
					t.Errorf("parsed = %v, want %v", got, want)
				}
			}
		})
	}
}
