package match

import "errors"

var (
	// ErrAlreadyCompleted rejects a repeated completion; the state is left
	// unchanged rather than crashing.
	ErrAlreadyCompleted = errors.New("match is already completed")
	// ErrClosed rejects event recording against a completed match.
	ErrClosed = errors.New("match is closed for event recording")
)

// CanRecordEvents reports whether the lifecycle still accepts events.
func (m Match) CanRecordEvents() bool {
	return m.Status == StatusInProgress
}

// EnsureRecordable is the pre-mutation gate for event recording.
func (m Match) EnsureRecordable() error {
	if !m.CanRecordEvents() {
		return ErrClosed
	}
	return nil
}

// Complete transitions IN_PROGRESS to COMPLETED. The transition is one-way:
// completing twice fails and no other transition exists.
func (m Match) Complete() (Match, error) {
	if m.Status == StatusCompleted {
		return m, ErrAlreadyCompleted
	}
	m.Status = StatusCompleted
	return m, nil
}
