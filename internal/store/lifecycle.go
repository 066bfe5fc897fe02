package store

import (
	"context"

	"auctioneer/internal/api"
)

// Expirer ends a session that the server no longer accepts.
type Expirer interface {
	Expire(ctx context.Context)
}

// Lifecycle is the request lifecycle every store embeds.
type Lifecycle struct {
	observable
	status LoadStatus
}

// Status returns the current load status.
func (l *Lifecycle) Status() LoadStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// IsLoading reports whether an operation is in flight.
func (l *Lifecycle) IsLoading() bool {
	return l.Status().IsPending()
}

// Begin moves to Pending. It returns false, changing nothing, when an
// operation is already pending.
func (l *Lifecycle) Begin() bool {
	l.mu.Lock()
	if l.status.IsPending() {
		l.mu.Unlock()
		return false
	}
	l.status = StatusPending()
	l.mu.Unlock()

	l.Notify()
	return true
}

// Succeed runs apply under the lock and moves to Done.
func (l *Lifecycle) Succeed(apply func()) {
	l.mu.Lock()
	if apply != nil {
		apply()
	}
	l.status = StatusDone()
	l.mu.Unlock()

	l.Notify()
}

// Fail moves to Failed with err as the cause.
func (l *Lifecycle) Fail(err error) {
	l.set(StatusError(err))
}

// Reset moves back to NotYetAttempted.
func (l *Lifecycle) Reset() {
	l.set(LoadStatus{})
}

func (l *Lifecycle) set(s LoadStatus) {
	l.mu.Lock()
	l.status = s
	l.mu.Unlock()

	l.Notify()
}

// FailWith settles a failed operation and returns err. A rejected session
// token expires the session through sessions and leaves this store in
// NotYetAttempted rather than Failed.
func (l *Lifecycle) FailWith(ctx context.Context, sessions Expirer, err error) error {
	if api.IsUnauthorized(err) && sessions != nil {
		l.Reset()
		sessions.Expire(ctx)
		return err
	}
	l.Fail(err)
	return err
}
