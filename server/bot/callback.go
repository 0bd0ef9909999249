package bot

import (
	"github.com/pkg/errors"

	"github.com/lhe/foodpollbot/server/poll"
	"github.com/lhe/foodpollbot/server/store"
)

// HandleGetIn adds the pressing user to the poll behind the announcement
// message. A press on a stale button or a second press by a member is a
// no-op.
func (b *FoodPollBot) HandleGetIn(chatID, messageID, userID int64, userName string) {
	id := poll.ID(chatID, messageID)

	var joined bool
	var updated *poll.Poll
	_, err := b.store.Poll().MutateMembers(id, func(p *poll.Poll) {
		joined = p.AddMember(poll.Member{UserID: userID, Name: userName})
		updated = p.Copy()
	})
	if errors.Is(err, store.ErrPollNotFound) {
		return
	}
	if err != nil {
		b.logger.Warn("failed to persist polls", "pollID", id, "error", err.Error())
	}

	if !joined {
		return
	}
	b.editAnnouncement(updated)
}

// HandleGetOut removes the pressing user from the poll behind the
// announcement message. A poll losing its last member is removed, its
// timer cancelled and its announcement replaced by the terminal cancelled
// message.
func (b *FoodPollBot) HandleGetOut(chatID, messageID, userID int64) {
	id := poll.ID(chatID, messageID)

	var left bool
	var updated *poll.Poll
	count, err := b.store.Poll().MutateMembers(id, func(p *poll.Poll) {
		left = p.RemoveMember(userID)
		updated = p.Copy()
	})
	if errors.Is(err, store.ErrPollNotFound) {
		return
	}
	if err != nil {
		b.logger.Warn("failed to persist polls", "pollID", id, "error", err.Error())
	}

	if !left {
		return
	}

	if count == 0 {
		// The store already dropped the emptied poll in the same critical
		// section, so a pending deadline fire finds nothing to act on.
		b.scheduler.Cancel(id)

		text, err := b.canceledText(updated)
		if err != nil {
			b.logger.Error("failed to render cancellation", "pollID", id, "error", err.Error())
			return
		}
		if err := b.gateway.EditMessage(chatID, messageID, updated.Type, text, false); err != nil {
			b.logger.Warn("failed to edit announcement", "pollID", id, "error", err.Error())
		}
		return
	}

	b.editAnnouncement(updated)
}

// startPoll fires the outcome of a poll at its deadline. Claiming the poll
// runs through the same serialized mutation path as the leave handler, so
// when a deadline fire races an emptying leave, exactly one of the two
// produces an outcome.
func (b *FoodPollBot) startPoll(id string) {
	var claimed *poll.Poll
	_, err := b.store.Poll().MutateMembers(id, func(p *poll.Poll) {
		claimed = p.Copy()
		p.Members = nil
	})
	if err != nil {
		var persistErr *store.PersistenceError
		if !errors.As(err, &persistErr) {
			// already gone, emptied out before the deadline
			return
		}
		b.logger.Warn("failed to persist polls", "pollID", id, "error", err.Error())
	}

	if err := b.gateway.DeleteMessage(claimed.ChatID, claimed.MessageID); err != nil {
		b.logger.Warn("failed to delete announcement", "pollID", id, "error", err.Error())
	}

	text, err := b.startText(claimed)
	if err != nil {
		b.logger.Error("failed to render poll start", "pollID", id, "error", err.Error())
		return
	}
	if _, err := b.gateway.SendMessage(claimed.ChatID, claimed.Type, text, false); err != nil {
		b.logger.Warn("failed to send poll start", "pollID", id, "error", err.Error())
	}
}
