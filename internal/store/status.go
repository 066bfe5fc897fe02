package store

// State is the phase of a store's request lifecycle.
type State int

const (
	NotYetAttempted State = iota
	Pending
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case NotYetAttempted:
		return "not yet attempted"
	case Pending:
		return "pending"
	case Done:
		return "done"
	case Failed:
		return "error"
	}
	return "unknown"
}

// LoadStatus is a State plus, when Failed, its cause.
type LoadStatus struct {
	state State
	err   error
}

// StatusPending, StatusDone and StatusError build the non-initial states.
// The zero LoadStatus is NotYetAttempted.
func StatusPending() LoadStatus { return LoadStatus{state: Pending} }
func StatusDone() LoadStatus    { return LoadStatus{state: Done} }
func StatusError(err error) LoadStatus {
	return LoadStatus{state: Failed, err: err}
}

func (s LoadStatus) State() State            { return s.state }
func (s LoadStatus) IsNotYetAttempted() bool { return s.state == NotYetAttempted }
func (s LoadStatus) IsPending() bool         { return s.state == Pending }
func (s LoadStatus) IsDone() bool            { return s.state == Done }
func (s LoadStatus) IsError() bool           { return s.state == Failed }

// Err is the failure cause, nil unless the state is Failed.
func (s LoadStatus) Err() error { return s.err }

func (s LoadStatus) String() string {
	if s.state == Failed && s.err != nil {
		return "error: " + s.err.Error()
	}
	return s.state.String()
}

// Combine folds two sub-statuses into one. Either pending wins, then
// either error with primary taking priority, then done only if both are.
func Combine(primary, secondary LoadStatus) LoadStatus {
	switch {
	case primary.IsPending() || secondary.IsPending():
		return StatusPending()
	case primary.IsError():
		return primary
	case secondary.IsError():
		return secondary
	case primary.IsDone() && secondary.IsDone():
		return StatusDone()
	}
	return LoadStatus{}
}
