package store

import (
	"time"

	"github.com/pkg/errors"

	"github.com/lhe/foodpollbot/server/poll"
)

// Store is the interface to the authoritative poll registry.
type Store interface {
	Poll() PollStore
}

// PollStore is the concurrency-safe registry of all live polls. It is the
// sole source of truth for whether a poll still exists; callers only ever
// see copies of the stored polls.
type PollStore interface {
	// Create inserts a poll, consuming the reservation for its deadline
	// slot, and flushes the registry. A live poll with the same deadline in
	// the same chat fails the insert with ErrDuplicateDeadline.
	Create(p *poll.Poll) error
	// Remove deletes a poll and flushes the registry. A missing poll is
	// not an error, so the deadline-fire deletion and the emptied-out
	// deletion may race for the same poll.
	Remove(id string) error
	// Get returns a copy of a poll or ErrPollNotFound.
	Get(id string) (*poll.Poll, error)
	// GetByDeadline returns a copy of the live poll of a chat with the
	// given deadline, or ErrPollNotFound.
	GetByDeadline(chatID int64, deadline time.Time) (*poll.Poll, error)
	// List returns copies of all live polls.
	List() []*poll.Poll
	// MutateMembers applies a membership change atomically and flushes the
	// registry. It returns the new member count; a count of zero means the
	// poll has been dropped from the registry, as polls are never kept
	// empty. ErrPollNotFound is returned if the poll vanished concurrently.
	MutateMembers(id string, mutate func(p *poll.Poll)) (int, error)
	// Reserve holds the (chat, deadline) slot before the announcement for
	// a new poll becomes externally visible. The hold is consumed by
	// Create and must be given back with Release if no poll is created.
	Reserve(chatID int64, deadline time.Time) error
	// Release gives back a reservation taken with Reserve.
	Release(chatID int64, deadline time.Time)
}

// ErrPollNotFound is returned when a poll does not or no longer exist.
var ErrPollNotFound = errors.New("poll not found")

// ErrDuplicateDeadline is returned when a chat already has a live poll or a
// reservation for a deadline.
var ErrDuplicateDeadline = errors.New("a poll for this deadline already exists")

// PersistenceError reports a failed snapshot flush. The in-memory change it
// follows has been applied and stays authoritative; the flush is retried on
// the next mutation.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "failed to persist polls: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
