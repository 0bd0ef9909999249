package mockstore

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/lhe/foodpollbot/server/poll"
	"github.com/lhe/foodpollbot/server/store"
)

// Store is a mock store
type Store struct {
	PollStore PollStore
}

// Poll returns the Poll Store
func (s *Store) Poll() store.PollStore { return &s.PollStore }

// AssertExpectations makes sure the expectations of all stores are meet
func (s *Store) AssertExpectations(t mock.TestingT) {
	s.PollStore.AssertExpectations(t)
}

// PollStore is a mock poll store
type PollStore struct {
	mock.Mock
}

// Create mocks PollStore.Create
func (s *PollStore) Create(p *poll.Poll) error {
	args := s.Called(p)
	return args.Error(0)
}

// Remove mocks PollStore.Remove
func (s *PollStore) Remove(id string) error {
	args := s.Called(id)
	return args.Error(0)
}

// Get mocks PollStore.Get
func (s *PollStore) Get(id string) (*poll.Poll, error) {
	args := s.Called(id)
	if p := args.Get(0); p != nil {
		return p.(*poll.Poll), args.Error(1)
	}
	return nil, args.Error(1)
}

// GetByDeadline mocks PollStore.GetByDeadline
func (s *PollStore) GetByDeadline(chatID int64, deadline time.Time) (*poll.Poll, error) {
	args := s.Called(chatID, deadline)
	if p := args.Get(0); p != nil {
		return p.(*poll.Poll), args.Error(1)
	}
	return nil, args.Error(1)
}

// List mocks PollStore.List
func (s *PollStore) List() []*poll.Poll {
	args := s.Called()
	return args.Get(0).([]*poll.Poll)
}

// MutateMembers mocks PollStore.MutateMembers
func (s *PollStore) MutateMembers(id string, mutate func(p *poll.Poll)) (int, error) {
	args := s.Called(id, mutate)
	return args.Int(0), args.Error(1)
}

// Reserve mocks PollStore.Reserve
func (s *PollStore) Reserve(chatID int64, deadline time.Time) error {
	args := s.Called(chatID, deadline)
	return args.Error(0)
}

// Release mocks PollStore.Release
func (s *PollStore) Release(chatID int64, deadline time.Time) {
	s.Called(chatID, deadline)
}
