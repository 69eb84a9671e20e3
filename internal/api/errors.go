package api

import "fmt"

// FetchError wraps failures on the snapshot read path. Polling callers
// keep their prior state, log, and retry on the next tick.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ActionError wraps failures of user-initiated backend commands. Callers
// surface these immediately and leave local state untouched.
type ActionError struct {
	Action    string
	MissionID string
	Err       error
}

func (e *ActionError) Error() string {
	if e.MissionID == "" {
		return fmt.Sprintf("action %s: %v", e.Action, e.Err)
	}
	return fmt.Sprintf("action %s (mission %s): %v", e.Action, e.MissionID, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }
