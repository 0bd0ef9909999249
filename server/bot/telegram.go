package bot

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/lhe/foodpollbot/server/utils"
)

// TelegramGateway implements ChatGateway on the Telegram bot API and feeds
// inbound commands and button presses into the bot.
type TelegramGateway struct {
	api    *tgbotapi.BotAPI
	bundle *utils.Bundle
	logger *slog.Logger
}

// NewTelegramGateway connects to Telegram with the given bot token.
func NewTelegramGateway(token string, bundle *utils.Bundle, logger *slog.Logger) (*TelegramGateway, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to telegram")
	}
	return &TelegramGateway{api: api, bundle: bundle, logger: logger}, nil
}

// SendMessage sends a message to a chat and returns its message id.
func (g *TelegramGateway) SendMessage(chatID int64, pollType, text string, withButtons bool) (int64, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if withButtons {
		markup, err := g.getInOutButtons(pollType)
		if err != nil {
			return 0, err
		}
		msg.ReplyMarkup = markup
	}

	sent, err := g.api.Send(msg)
	if err != nil {
		return 0, errors.Wrap(err, "failed to send message")
	}
	return int64(sent.MessageID), nil
}

// EditMessage replaces the text of a sent message.
func (g *TelegramGateway) EditMessage(chatID, messageID int64, pollType, text string, withButtons bool) error {
	edit := tgbotapi.NewEditMessageText(chatID, int(messageID), text)
	if withButtons {
		markup, err := g.getInOutButtons(pollType)
		if err != nil {
			return err
		}
		edit.ReplyMarkup = &markup
	}

	if _, err := g.api.Send(edit); err != nil {
		return errors.Wrap(err, "failed to edit message")
	}
	return nil
}

// DeleteMessage deletes a sent message.
func (g *TelegramGateway) DeleteMessage(chatID, messageID int64) error {
	if _, err := g.api.Request(tgbotapi.NewDeleteMessage(chatID, int(messageID))); err != nil {
		return errors.Wrap(err, "failed to delete message")
	}
	return nil
}

// Listen dispatches inbound updates to the bot until ctx is done. Every
// update is handled on its own goroutine.
func (g *TelegramGateway) Listen(ctx context.Context, b *FoodPollBot) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := g.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			g.api.StopReceivingUpdates()
			return
		case update := <-updates:
			go g.dispatch(update, b)
		}
	}
}

func (g *TelegramGateway) dispatch(update tgbotapi.Update, b *FoodPollBot) {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		pollType := update.Message.Command()
		if !g.bundle.HasType(pollType) {
			return
		}
		from := update.Message.From
		if from == nil {
			return
		}
		args := strings.Fields(update.Message.CommandArguments())
		b.HandleFoodPollCommand(update.Message.Chat.ID, from.ID, firstName(from), pollType, args)

	case update.CallbackQuery != nil:
		query := update.CallbackQuery
		if query.Message == nil {
			return
		}
		if _, err := g.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
			g.logger.Warn("failed to answer callback query", "error", err.Error())
		}

		chatID := query.Message.Chat.ID
		messageID := int64(query.Message.MessageID)
		switch query.Data {
		case GetInCallback:
			b.HandleGetIn(chatID, messageID, query.From.ID, firstName(query.From))
		case GetOutCallback:
			b.HandleGetOut(chatID, messageID, query.From.ID)
		}
	}
}

// getInOutButtons builds the join and leave button row with captions from
// the poll type's translation set.
func (g *TelegramGateway) getInOutButtons(pollType string) (tgbotapi.InlineKeyboardMarkup, error) {
	getIn, err := g.bundle.Resolve(pollType, utils.MessageKeyGetIn, -1)
	if err != nil {
		return tgbotapi.InlineKeyboardMarkup{}, err
	}
	getOut, err := g.bundle.Resolve(pollType, utils.MessageKeyGetOut, -1)
	if err != nil {
		return tgbotapi.InlineKeyboardMarkup{}, err
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(getIn, GetInCallback),
			tgbotapi.NewInlineKeyboardButtonData(getOut, GetOutCallback),
		),
	), nil
}

// Members are addressed by their first name only.
func firstName(u *tgbotapi.User) string {
	return strings.SplitN(u.FirstName, " ", 2)[0]
}
