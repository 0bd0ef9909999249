package bot

import (
	"strings"
	"time"

	"github.com/lhe/foodpollbot/server/poll"
	"github.com/lhe/foodpollbot/server/utils"
)

const timeFormat = "15:04"

func formatTime(t time.Time) string {
	return t.Format(timeFormat)
}

func memberList(p *poll.Poll) string {
	return strings.Join(p.MemberNames(), ", ")
}

// announcementKey returns the message key the announcement of a poll is
// rendered from. Named polls use a separate key so the label can be part of
// the phrasing.
func announcementKey(name string) string {
	if name != "" {
		return utils.MessageKeyNamedFoodPoll
	}
	return utils.MessageKeyFoodPoll
}

// announcementText renders the announcement of a poll. The text variant was
// fixed at creation, so every re-render keeps the same phrasing.
func (b *FoodPollBot) announcementText(p *poll.Poll) (string, error) {
	if p.Name != "" {
		return b.bundle.Resolve(p.Type, utils.MessageKeyNamedFoodPoll, p.TextVariant, p.Name, formatTime(p.Time), memberList(p))
	}
	return b.bundle.Resolve(p.Type, utils.MessageKeyFoodPoll, p.TextVariant, formatTime(p.Time), memberList(p))
}

// startText renders the deadline outcome of a poll.
func (b *FoodPollBot) startText(p *poll.Poll) (string, error) {
	if p.Name != "" {
		return b.bundle.Resolve(p.Type, utils.MessageKeyNamedFoodPollStart, -1, p.Name, memberList(p))
	}
	return b.bundle.Resolve(p.Type, utils.MessageKeyFoodPollStart, -1, memberList(p))
}

// canceledText renders the terminal message of a poll all members left.
func (b *FoodPollBot) canceledText(p *poll.Poll) (string, error) {
	if p.Name != "" {
		return b.bundle.Resolve(p.Type, utils.MessageKeyNamedFoodPollCanceled, -1, p.Name, formatTime(p.Time))
	}
	return b.bundle.Resolve(p.Type, utils.MessageKeyFoodPollCanceled, -1, formatTime(p.Time))
}

// editAnnouncement re-renders the announcement of a poll in place, keeping
// the join and leave buttons.
func (b *FoodPollBot) editAnnouncement(p *poll.Poll) {
	text, err := b.announcementText(p)
	if err != nil {
		b.logger.Error("failed to render announcement", "pollID", p.ID(), "error", err.Error())
		return
	}
	if err := b.gateway.EditMessage(p.ChatID, p.MessageID, p.Type, text, true); err != nil {
		b.logger.Warn("failed to edit announcement", "pollID", p.ID(), "error", err.Error())
	}
}
