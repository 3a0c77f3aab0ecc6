package internal

import "testing"

func TestParseView(t *testing.T) {
	tests := []struct {
		input string
		want  View
		ok    bool
	}{
		{"dashboard", ViewDashboard, true},
		{"chat", ViewChat, true},
		{"files", ViewFiles, true},
		{"settings", ViewSettings, true},
		{"controls", ViewControls, true},
		{"admin", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseView(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseView(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseView(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestViewRoundTrip(t *testing.T) {
	for _, v := range Views() {
		got, ok := ParseView(v.String())
		if !ok || got != v {
			t.Errorf("round trip failed for %v", v)
		}
	}
}

func TestRefreshOnEnter(t *testing.T) {
	if !ViewFiles.RefreshOnEnter() {
		t.Error("files screen must refresh on entry")
	}
	if !ViewDashboard.RefreshOnEnter() {
		t.Error("dashboard must refresh on entry")
	}
	if ViewChat.RefreshOnEnter() {
		t.Error("chat relies on the poller, not entry refresh")
	}
}
