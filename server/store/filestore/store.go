// Package filestore keeps all live polls in memory and mirrors every
// mutation into a single JSON snapshot file, which is re-read on startup.
package filestore

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/lhe/foodpollbot/server/poll"
	"github.com/lhe/foodpollbot/server/store"
)

// Store bundles the poll registry with its snapshot file.
type Store struct {
	pollStore PollStore
}

// NewStore loads the snapshot at path and returns a store backed by it.
// Polls whose deadline has already elapsed are dropped during the load;
// their outcome window has passed and they must not fire late.
func NewStore(path string) (*Store, error) {
	polls, err := loadSnapshot(path)
	if err != nil {
		return nil, err
	}

	s := &Store{
		pollStore: PollStore{
			path:         path,
			polls:        map[string]*poll.Poll{},
			reservations: map[string]struct{}{},
		},
	}
	now := time.Now()
	for _, p := range polls {
		if !now.Before(p.Time) {
			continue
		}
		s.pollStore.polls[p.ID()] = p
	}
	return s, nil
}

// Poll returns the Poll Store
func (s *Store) Poll() store.PollStore { return &s.pollStore }

func loadSnapshot(path string) ([]*poll.Poll, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read poll snapshot")
	}

	var polls []*poll.Poll
	if err := json.Unmarshal(content, &polls); err != nil {
		return nil, errors.Wrap(err, "failed to decode poll snapshot")
	}
	return polls, nil
}
