package bot

import (
	"log/slog"

	"github.com/gorilla/mux"

	"github.com/lhe/foodpollbot/server/store"
	"github.com/lhe/foodpollbot/server/utils"
)

// Callback data of the join and leave buttons. They are fixed opaque codes,
// distinct from any poll type command name.
const (
	GetInCallback  = "getIn"
	GetOutCallback = "getOut"
)

// ChatGateway is the transport surface the bot renders through. Message ids
// returned by SendMessage address the message in later edits and deletes.
type ChatGateway interface {
	SendMessage(chatID int64, pollType, text string, withButtons bool) (int64, error)
	EditMessage(chatID, messageID int64, pollType, text string, withButtons bool) error
	DeleteMessage(chatID, messageID int64) error
}

// FoodPollBot coordinates polls between the chat transport, the poll store
// and the deadline scheduler.
type FoodPollBot struct {
	store     store.Store
	bundle    *utils.Bundle
	gateway   ChatGateway
	scheduler *Scheduler
	logger    *slog.Logger
	router    *mux.Router
}

// NewFoodPollBot creates the bot around an already loaded store and bundle.
func NewFoodPollBot(st store.Store, bundle *utils.Bundle, gateway ChatGateway, logger *slog.Logger) *FoodPollBot {
	b := &FoodPollBot{
		store:   st,
		bundle:  bundle,
		gateway: gateway,
		logger:  logger,
	}
	b.scheduler = NewScheduler(b.startPoll)
	b.router = b.initAPI()
	return b
}

// RearmPolls arms a deadline timer for every poll recovered from the store.
// The store drops elapsed polls while loading, so everything listed here is
// still in its outcome window.
func (b *FoodPollBot) RearmPolls() {
	for _, p := range b.store.Poll().List() {
		b.scheduler.Arm(p.ID(), p.Time)
	}
}

// sendTranslated resolves a message for a poll type and sends it without
// buttons, picking a random variant. Used for help and error replies.
func (b *FoodPollBot) sendTranslated(chatID int64, pollType, messageKey string, args ...string) {
	text, err := b.bundle.Resolve(pollType, messageKey, -1, args...)
	if err != nil {
		b.logger.Error("failed to resolve message", "pollType", pollType, "messageKey", messageKey, "error", err.Error())
		return
	}
	if _, err := b.gateway.SendMessage(chatID, pollType, text, false); err != nil {
		b.logger.Warn("failed to send message", "chatID", chatID, "error", err.Error())
	}
}
