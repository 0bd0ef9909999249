package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/lhe/foodpollbot/server/poll"
	"github.com/lhe/foodpollbot/server/store"
)

// PollStore holds the authoritative poll set. All mutations run under mu
// and end with a full snapshot write; a failed write never rolls back the
// in-memory change.
type PollStore struct {
	mu           sync.RWMutex
	path         string
	polls        map[string]*poll.Poll
	reservations map[string]struct{}
}

func deadlineKey(chatID int64, deadline time.Time) string {
	return fmt.Sprintf("%d/%d", chatID, deadline.Unix())
}

// Create inserts a poll, consuming any reservation for its deadline slot,
// and flushes the snapshot.
func (s *PollStore) Create(p *poll.Poll) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.polls {
		if existing.ChatID == p.ChatID && existing.Time.Equal(p.Time) {
			return store.ErrDuplicateDeadline
		}
	}

	delete(s.reservations, deadlineKey(p.ChatID, p.Time))
	s.polls[p.ID()] = p.Copy()
	return s.save()
}

// Remove deletes a poll and flushes the snapshot. Removing an absent poll
// is a no-op success.
func (s *PollStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.polls[id]; !ok {
		return nil
	}
	delete(s.polls, id)
	return s.save()
}

// Get returns a copy of a poll or store.ErrPollNotFound.
func (s *PollStore) Get(id string) (*poll.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.polls[id]
	if !ok {
		return nil, store.ErrPollNotFound
	}
	return p.Copy(), nil
}

// GetByDeadline returns a copy of the live poll of a chat with the given
// deadline, or store.ErrPollNotFound.
func (s *PollStore) GetByDeadline(chatID int64, deadline time.Time) (*poll.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.polls {
		if p.ChatID == chatID && p.Time.Equal(deadline) {
			return p.Copy(), nil
		}
	}
	return nil, store.ErrPollNotFound
}

// List returns copies of all live polls, ordered by deadline.
func (s *PollStore) List() []*poll.Poll {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.list()
}

func (s *PollStore) list() []*poll.Poll {
	polls := make([]*poll.Poll, 0, len(s.polls))
	for _, p := range s.polls {
		polls = append(polls, p.Copy())
	}
	sort.Slice(polls, func(i, j int) bool {
		if !polls[i].Time.Equal(polls[j].Time) {
			return polls[i].Time.Before(polls[j].Time)
		}
		return polls[i].ID() < polls[j].ID()
	})
	return polls
}

// MutateMembers applies a membership change atomically and flushes the
// snapshot. A poll emptied by the change is dropped in the same critical
// section, so an empty poll is never kept or persisted; the caller's
// follow-up Remove then degrades to a no-op.
func (s *PollStore) MutateMembers(id string, mutate func(p *poll.Poll)) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.polls[id]
	if !ok {
		return 0, store.ErrPollNotFound
	}

	mutate(p)
	if len(p.Members) == 0 {
		delete(s.polls, id)
	}
	return len(p.Members), s.save()
}

// Reserve holds the (chat, deadline) slot for a poll that is about to be
// announced. It fails with store.ErrDuplicateDeadline if a live poll or
// another reservation already owns the slot.
func (s *PollStore) Reserve(chatID int64, deadline time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := deadlineKey(chatID, deadline)
	if _, ok := s.reservations[key]; ok {
		return store.ErrDuplicateDeadline
	}
	for _, p := range s.polls {
		if p.ChatID == chatID && p.Time.Equal(deadline) {
			return store.ErrDuplicateDeadline
		}
	}
	s.reservations[key] = struct{}{}
	return nil
}

// Release gives back a reservation that did not lead to a poll.
func (s *PollStore) Release(chatID int64, deadline time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.reservations, deadlineKey(chatID, deadline))
}

// save writes the full poll set to the snapshot file via a temp file and
// rename, so readers never observe a partial snapshot. Call with mu held.
func (s *PollStore) save() error {
	content, err := json.Marshal(s.list())
	if err != nil {
		return &store.PersistenceError{Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp")
	if err != nil {
		return &store.PersistenceError{Err: err}
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &store.PersistenceError{Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &store.PersistenceError{Err: err}
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return &store.PersistenceError{Err: err}
	}
	return nil
}
