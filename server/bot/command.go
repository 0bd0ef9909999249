package bot

import (
	"math/rand"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/lhe/foodpollbot/server/poll"
	"github.com/lhe/foodpollbot/server/store"
	"github.com/lhe/foodpollbot/server/utils"
)

// HandleFoodPollCommand handles "/<pollType> <time> [name...]" and opens a
// new poll with the sender as its first member.
func (b *FoodPollBot) HandleFoodPollCommand(chatID, userID int64, userName, pollType string, args []string) {
	if len(args) == 0 {
		b.sendTranslated(chatID, pollType, utils.MessageKeyHelp, pollType)
		return
	}

	deadline, err := utils.ParseTime(args[0])
	if err != nil {
		b.sendTranslated(chatID, pollType, utils.MessageKeyTimeFormatError, args[0])
		return
	}
	if !deadline.After(time.Now()) {
		b.sendTranslated(chatID, pollType, utils.MessageKeyTimeInPastError)
		return
	}

	name := strings.Join(args[1:], " ")
	pollStore := b.store.Poll()

	if _, err := pollStore.GetByDeadline(chatID, deadline); err == nil {
		b.sendTranslated(chatID, pollType, utils.MessageKeyTimeExistsError)
		return
	}

	// Holding the deadline slot before the announcement goes out keeps the
	// duplicate check and the creation atomic across the send.
	if err := pollStore.Reserve(chatID, deadline); err != nil {
		b.sendTranslated(chatID, pollType, utils.MessageKeyTimeExistsError)
		return
	}

	count, err := b.bundle.VariantCount(pollType, announcementKey(name))
	if err != nil {
		pollStore.Release(chatID, deadline)
		b.logger.Error("failed to look up announcement variants", "pollType", pollType, "error", err.Error())
		return
	}
	textVariant := rand.Intn(count)

	p := poll.NewPoll(chatID, 0, pollType, deadline, name, textVariant, poll.Member{UserID: userID, Name: userName})
	text, err := b.announcementText(p)
	if err != nil {
		pollStore.Release(chatID, deadline)
		b.logger.Error("failed to render announcement", "pollType", pollType, "error", err.Error())
		return
	}

	messageID, err := b.gateway.SendMessage(chatID, pollType, text, true)
	if err != nil {
		pollStore.Release(chatID, deadline)
		b.logger.Warn("failed to send announcement", "chatID", chatID, "error", err.Error())
		return
	}
	p.MessageID = messageID

	if err := pollStore.Create(p); err != nil {
		var persistErr *store.PersistenceError
		if !errors.As(err, &persistErr) {
			// lost the deadline slot after the announcement went out
			if err := b.gateway.DeleteMessage(chatID, messageID); err != nil {
				b.logger.Warn("failed to delete orphaned announcement", "chatID", chatID, "error", err.Error())
			}
			b.sendTranslated(chatID, pollType, utils.MessageKeyTimeExistsError)
			return
		}
		// The poll stays live in memory; the snapshot heals on the next
		// successful mutation.
		b.logger.Warn("failed to persist polls", "pollID", p.ID(), "error", err.Error())
	}

	b.scheduler.Arm(p.ID(), p.Time)
}
