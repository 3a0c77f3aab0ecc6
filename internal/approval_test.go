package internal

import (
	"encoding/json"
	"errors"
	"testing"
)

func testApprovalRequest() ApprovalRequest {
	return ApprovalRequest{
		Tool:   "delete_file",
		Args:   json.RawMessage(`{"name":"x"}`),
		ID:     "a1",
		Reason: "r",
	}
}

func TestApprovalCardApproveRoundTrip(t *testing.T) {
	card := NewApprovalCard(testApprovalRequest())

	if !card.CanDecide() {
		t.Fatal("fresh card should accept a decision")
	}
	if !card.Begin("approve") {
		t.Fatal("Begin(approve) refused")
	}
	if card.State != ApprovalApproving {
		t.Fatalf("state = %v, want approving", card.State)
	}
	if card.CanDecide() {
		t.Error("controls enabled while a decision is in flight")
	}

	card.Complete(&DecisionResult{
		Status: "success",
		Tool:   "delete_file",
		Result: json.RawMessage(`{"deleted":true}`),
	}, nil)

	if card.State != ApprovalExecuted {
		t.Fatalf("state = %v, want executed", card.State)
	}
	if !card.Terminal() {
		t.Error("executed card is not terminal")
	}
	if card.CanDecide() {
		t.Error("terminal card still accepts decisions")
	}
	if card.Result == "" {
		t.Error("result payload not captured")
	}
}

func TestApprovalCardDeny(t *testing.T) {
	card := NewApprovalCard(testApprovalRequest())

	if !card.Begin("deny") {
		t.Fatal("Begin(deny) refused")
	}
	card.Complete(&DecisionResult{Status: "denied"}, nil)

	if card.State != ApprovalDenied {
		t.Fatalf("state = %v, want denied", card.State)
	}
	if !card.Terminal() {
		t.Error("denied card is not terminal")
	}
}

func TestApprovalCardDoubleSubmitRefused(t *testing.T) {
	card := NewApprovalCard(testApprovalRequest())

	if !card.Begin("approve") {
		t.Fatal("first Begin refused")
	}
	if card.Begin("approve") {
		t.Error("second Begin accepted while in flight")
	}
	if card.Begin("deny") {
		t.Error("opposite decision accepted while in flight")
	}
}

func TestApprovalCardFailureReenablesControls(t *testing.T) {
	card := NewApprovalCard(testApprovalRequest())

	card.Begin("approve")
	card.Complete(nil, errors.New("connection refused"))

	if card.State != ApprovalFailed {
		t.Fatalf("state = %v, want failed", card.State)
	}
	if card.Terminal() {
		t.Error("failed state must not be terminal")
	}
	if !card.CanDecide() {
		t.Error("failed card must re-enable the controls for a retry")
	}
	if card.ErrText == "" {
		t.Error("failure message not captured")
	}

	// Retry succeeds.
	if !card.Begin("approve") {
		t.Fatal("retry refused after failure")
	}
	card.Complete(&DecisionResult{Status: "success"}, nil)
	if card.State != ApprovalExecuted {
		t.Fatalf("state = %v after retry, want executed", card.State)
	}
}

func TestApprovalCardErrorStatus(t *testing.T) {
	card := NewApprovalCard(testApprovalRequest())

	card.Begin("approve")
	card.Complete(&DecisionResult{Status: "error", Error: "tool exploded"}, nil)

	if card.State != ApprovalFailed {
		t.Fatalf("state = %v, want failed", card.State)
	}
	if card.ErrText != "tool exploded" {
		t.Errorf("ErrText = %q", card.ErrText)
	}
}

func TestRefreshAfter(t *testing.T) {
	tests := []struct {
		tool string
		want bool
	}{
		{"delete_file", true},
		{"ingest_document", true},
		{"reingest", true},
		{"search_documents", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			if got := RefreshAfter(tt.tool); got != tt.want {
				t.Errorf("RefreshAfter(%q) = %v, want %v", tt.tool, got, tt.want)
			}
		})
	}
}
