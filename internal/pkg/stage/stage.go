// Package stage describes the outcome of a pipeline step that is allowed to
// degrade instead of failing the request that triggered it.
package stage

// Status reports how a step finished.
type Status string

const (
	// StatusOK means the value is the real output of the step.
	StatusOK Status = "ok"
	// StatusDegraded means the value is a usable substitute, see Reason.
	StatusDegraded Status = "degraded"
	// StatusFailed means the step errored. Value still holds a placeholder
	// so callers that keep going have something to store.
	StatusFailed Status = "failed"
)

// Result carries a step value together with its status.
type Result[T any] struct {
	Value  T
	Status Status
	Reason string
	Err    error
}

func OK[T any](v T) Result[T] {
	return Result[T]{Value: v, Status: StatusOK}
}

func Degraded[T any](v T, reason string) Result[T] {
	return Result[T]{Value: v, Status: StatusDegraded, Reason: reason}
}

func Failed[T any](v T, err error) Result[T] {
	r := Result[T]{Value: v, Status: StatusFailed, Err: err}
	if err != nil {
		r.Reason = err.Error()
	}
	return r
}

func (r Result[T]) IsOK() bool {
	return r.Status == StatusOK
}

func (r Result[T]) IsFailed() bool {
	return r.Status == StatusFailed
}

// Worst returns the more severe of two statuses.
func Worst(a, b Status) Status {
	if rank(a) >= rank(b) {
		return a
	}
	return b
}

func rank(s Status) int {
	switch s {
	case StatusFailed:
		return 2
	case StatusDegraded:
		return 1
	default:
		return 0
	}
}
