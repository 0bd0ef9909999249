package bot

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lhe/foodpollbot/server/poll"
	"github.com/lhe/foodpollbot/server/store"
	"github.com/lhe/foodpollbot/server/store/mockstore"
)

func TestHandleFoodPollCommand(t *testing.T) {
	t.Run("empty args sends usage help", func(t *testing.T) {
		gateway := &MockGateway{}
		gateway.On("SendMessage", int64(1), "foodpoll", "usage: /foodpoll <time> [name]", false).Return(int64(5), nil).Once()
		b := newTestBot(t, newFileStore(t), gateway)

		b.HandleFoodPollCommand(1, 10, "Ann", "foodpoll", nil)

		gateway.AssertExpectations(t)
	})

	t.Run("unrecognized time", func(t *testing.T) {
		gateway := &MockGateway{}
		gateway.On("SendMessage", int64(1), "foodpoll", "Unrecognized time: abc", false).Return(int64(5), nil).Once()
		b := newTestBot(t, newFileStore(t), gateway)

		b.HandleFoodPollCommand(1, 10, "Ann", "foodpoll", []string{"abc"})

		gateway.AssertExpectations(t)
	})

	t.Run("time in past", func(t *testing.T) {
		gateway := &MockGateway{}
		gateway.On("SendMessage", int64(1), "foodpoll", "A FoodPoll cannot be created in the past", false).Return(int64(5), nil).Once()
		b := newTestBot(t, newFileStore(t), gateway)

		// today at 00:00 is never strictly in the future
		b.HandleFoodPollCommand(1, 10, "Ann", "foodpoll", []string{"0"})

		gateway.AssertExpectations(t)
	})

	t.Run("duplicate deadline creates no poll", func(t *testing.T) {
		st := newFileStore(t)
		timeArg, deadline := futureDeadline()
		require.NoError(t, st.Poll().Create(poll.NewPoll(1, 2, "foodpoll", deadline, "", 0, poll.Member{UserID: 10, Name: "Ann"})))

		gateway := &MockGateway{}
		gateway.On("SendMessage", int64(1), "foodpoll", "A FoodPoll for this time already exists", false).Return(int64(5), nil).Once()
		b := newTestBot(t, st, gateway)

		b.HandleFoodPollCommand(1, 11, "Bo", "foodpoll", []string{timeArg})

		gateway.AssertExpectations(t)
		assert.Len(t, st.Poll().List(), 1)
	})

	t.Run("opens a poll with the creator as first member", func(t *testing.T) {
		st := newFileStore(t)
		timeArg, deadline := futureDeadline()

		gateway := &MockGateway{}
		announcement := fmt.Sprintf("FoodPoll at %s with Ann", timeArg)
		gateway.On("SendMessage", int64(1), "foodpoll", announcement, true).Return(int64(42), nil).Once()
		b := newTestBot(t, st, gateway)

		b.HandleFoodPollCommand(1, 10, "Ann", "foodpoll", []string{timeArg})

		gateway.AssertExpectations(t)

		p, err := st.Poll().Get("1/42")
		require.NoError(t, err)
		assert.Equal(t, []string{"Ann"}, p.MemberNames())
		assert.Equal(t, "", p.Name)
		assert.Equal(t, 0, p.TextVariant)
		assert.True(t, deadline.Equal(p.Time))
		assert.True(t, b.scheduler.isArmed("1/42"))
	})

	t.Run("label is the remainder of the command", func(t *testing.T) {
		st := newFileStore(t)
		timeArg, _ := futureDeadline()

		gateway := &MockGateway{}
		announcement := fmt.Sprintf("FoodPoll Lecker Schnitzel at %s with Ann", timeArg)
		gateway.On("SendMessage", int64(1), "foodpoll", announcement, true).Return(int64(42), nil).Once()
		b := newTestBot(t, st, gateway)

		b.HandleFoodPollCommand(1, 10, "Ann", "foodpoll", []string{timeArg, "Lecker", "Schnitzel"})

		gateway.AssertExpectations(t)

		p, err := st.Poll().Get("1/42")
		require.NoError(t, err)
		assert.Equal(t, "Lecker Schnitzel", p.Name)
	})

	t.Run("failed announcement releases the deadline slot", func(t *testing.T) {
		st := newFileStore(t)
		timeArg, deadline := futureDeadline()

		gateway := &MockGateway{}
		gateway.On("SendMessage", int64(1), "foodpoll", mock.AnythingOfType("string"), true).Return(int64(0), errors.New("telegram down")).Once()
		b := newTestBot(t, st, gateway)

		b.HandleFoodPollCommand(1, 10, "Ann", "foodpoll", []string{timeArg})

		gateway.AssertExpectations(t)
		assert.Empty(t, st.Poll().List())
		assert.NoError(t, st.Poll().Reserve(1, deadline))
	})

	t.Run("lost reservation race is reported as duplicate", func(t *testing.T) {
		timeArg, deadline := futureDeadline()

		st := &mockstore.Store{}
		st.PollStore.On("GetByDeadline", int64(1), deadline).Return(nil, store.ErrPollNotFound).Once()
		st.PollStore.On("Reserve", int64(1), deadline).Return(store.ErrDuplicateDeadline).Once()

		gateway := &MockGateway{}
		gateway.On("SendMessage", int64(1), "foodpoll", "A FoodPoll for this time already exists", false).Return(int64(5), nil).Once()
		b := newTestBot(t, st, gateway)

		b.HandleFoodPollCommand(1, 10, "Ann", "foodpoll", []string{timeArg})

		gateway.AssertExpectations(t)
		st.AssertExpectations(t)
	})

	t.Run("lost create race deletes the announcement", func(t *testing.T) {
		timeArg, deadline := futureDeadline()

		st := &mockstore.Store{}
		st.PollStore.On("GetByDeadline", int64(1), deadline).Return(nil, store.ErrPollNotFound).Once()
		st.PollStore.On("Reserve", int64(1), deadline).Return(nil).Once()
		st.PollStore.On("Create", mock.AnythingOfType("*poll.Poll")).Return(store.ErrDuplicateDeadline).Once()

		gateway := &MockGateway{}
		gateway.On("SendMessage", int64(1), "foodpoll", mock.AnythingOfType("string"), true).Return(int64(42), nil).Once()
		gateway.On("DeleteMessage", int64(1), int64(42)).Return(nil).Once()
		gateway.On("SendMessage", int64(1), "foodpoll", "A FoodPoll for this time already exists", false).Return(int64(43), nil).Once()
		b := newTestBot(t, st, gateway)

		b.HandleFoodPollCommand(1, 10, "Ann", "foodpoll", []string{timeArg})

		gateway.AssertExpectations(t)
		st.AssertExpectations(t)
		assert.False(t, b.scheduler.isArmed("1/42"))
	})

	t.Run("persistence failure keeps the poll and arms it", func(t *testing.T) {
		timeArg, deadline := futureDeadline()

		st := &mockstore.Store{}
		st.PollStore.On("GetByDeadline", int64(1), deadline).Return(nil, store.ErrPollNotFound).Once()
		st.PollStore.On("Reserve", int64(1), deadline).Return(nil).Once()
		st.PollStore.On("Create", mock.AnythingOfType("*poll.Poll")).Return(&store.PersistenceError{Err: errors.New("disk full")}).Once()

		gateway := &MockGateway{}
		gateway.On("SendMessage", int64(1), "foodpoll", mock.AnythingOfType("string"), true).Return(int64(42), nil).Once()
		b := newTestBot(t, st, gateway)

		b.HandleFoodPollCommand(1, 10, "Ann", "foodpoll", []string{timeArg})

		gateway.AssertExpectations(t)
		gateway.AssertNotCalled(t, "DeleteMessage", mock.Anything, mock.Anything)
		st.AssertExpectations(t)
		assert.True(t, b.scheduler.isArmed("1/42"))
	})
}
