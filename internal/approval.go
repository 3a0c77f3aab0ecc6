package internal

import (
	"encoding/json"
	"strings"
)

// ApprovalState tracks one approval card through its lifecycle:
//
//	Presented -> {Approving, Denying} -> {Executed, Denied, Failed}
//
// Executed and Denied are terminal. Failed re-enables the controls so
// the user may retry the same decision.
type ApprovalState int

const (
	ApprovalPresented ApprovalState = iota
	ApprovalApproving
	ApprovalDenying
	ApprovalExecuted
	ApprovalDenied
	ApprovalFailed
)

func (s ApprovalState) String() string {
	switch s {
	case ApprovalPresented:
		return "presented"
	case ApprovalApproving:
		return "approving"
	case ApprovalDenying:
		return "denying"
	case ApprovalExecuted:
		return "executed"
	case ApprovalDenied:
		return "denied"
	case ApprovalFailed:
		return "failed"
	}
	return "unknown"
}

// ApprovalCard is the interactive card for a pending approval
// request. A request is resolved by exactly one decision; terminal
// states permanently disable both controls.
type ApprovalCard struct {
	Request ApprovalRequest
	State   ApprovalState

	// Result holds the server's result payload after execution,
	// rendered verbatim as opaque diagnostic text.
	Result string
	// ErrText holds the failure message while in the Failed state.
	ErrText string
}

// NewApprovalCard presents an approval request with both controls
// enabled.
func NewApprovalCard(req ApprovalRequest) *ApprovalCard {
	return &ApprovalCard{Request: req, State: ApprovalPresented}
}

// CanDecide reports whether the decision controls are enabled.
func (a *ApprovalCard) CanDecide() bool {
	return a.State == ApprovalPresented || a.State == ApprovalFailed
}

// Terminal reports whether the card can never change again.
func (a *ApprovalCard) Terminal() bool {
	return a.State == ApprovalExecuted || a.State == ApprovalDenied
}

// Begin moves into the in-progress state for the given decision
// ("approve" or "deny"), disabling both controls. It refuses a second
// submission while one is in flight and anything after a terminal
// state.
func (a *ApprovalCard) Begin(decision string) bool {
	if !a.CanDecide() {
		return false
	}
	a.ErrText = ""
	if decision == "deny" {
		a.State = ApprovalDenying
	} else {
		a.State = ApprovalApproving
	}
	return true
}

// Complete records the outcome of the decision call. Errors and
// server-reported failures land in Failed, which re-enables the
// controls.
func (a *ApprovalCard) Complete(res *DecisionResult, err error) {
	if a.Terminal() {
		return
	}
	if err != nil {
		a.State = ApprovalFailed
		a.ErrText = err.Error()
		return
	}
	switch res.Status {
	case "success":
		a.State = ApprovalExecuted
		a.Result = formatResult(res.Result)
	case "denied":
		a.State = ApprovalDenied
	default:
		a.State = ApprovalFailed
		if res.Error != "" {
			a.ErrText = res.Error
		} else {
			a.ErrText = "Unknown error"
		}
	}
}

// formatResult pretty-prints the opaque result payload without
// re-parsing its meaning.
func formatResult(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var buf map[string]interface{}
	if err := json.Unmarshal(raw, &buf); err == nil {
		if pretty, err := json.MarshalIndent(buf, "", "  "); err == nil {
			return string(pretty)
		}
	}
	return string(raw)
}

// RefreshAfter reports whether resolving the named action should
// trigger a refresh of the file listing and stats; deletions and
// ingestions leave those views stale.
func RefreshAfter(tool string) bool {
	return strings.Contains(tool, "delete") || strings.Contains(tool, "ingest")
}
