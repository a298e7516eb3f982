package gateway

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram implements Gateway over the Bot API with long polling.
type Telegram struct {
	api    *tgbotapi.BotAPI
	logger *slog.Logger
}

// NewTelegram connects to the Bot API and verifies the token.
func NewTelegram(token string, logger *slog.Logger) (*Telegram, error) {
	if logger == nil {
		logger = slog.Default()
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect bot api: %w", err)
	}
	return &Telegram{api: api, logger: logger}, nil
}

// Username returns the bot's own username, used for share deep links.
func (t *Telegram) Username() string {
	return t.api.Self.UserName
}

// Updates starts long polling and converts raw updates to the
// normalized form. The returned channel closes when ctx is canceled.
func (t *Telegram) Updates(ctx context.Context) <-chan Update {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30

	raw := t.api.GetUpdatesChan(cfg)
	out := make(chan Update)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				t.api.StopReceivingUpdates()
				return
			case upd, ok := <-raw:
				if !ok {
					return
				}
				converted, ok := convert(upd)
				if !ok {
					continue
				}
				select {
				case out <- converted:
				case <-ctx.Done():
					t.api.StopReceivingUpdates()
					return
				}
			}
		}
	}()

	return out
}

func convert(upd tgbotapi.Update) (Update, bool) {
	switch {
	case upd.CallbackQuery != nil:
		cq := upd.CallbackQuery
		out := Update{
			UserID:    cq.From.ID,
			Username:  cq.From.UserName,
			FirstName: cq.From.FirstName,
			LastName:  cq.From.LastName,
			Callback:  &CallbackEvent{ID: cq.ID, Data: cq.Data},
		}
		if cq.Message != nil {
			out.ChatID = cq.Message.Chat.ID
			out.Callback.MessageID = cq.Message.MessageID
		}
		return out, true

	case upd.Message != nil:
		msg := upd.Message
		if msg.From == nil {
			return Update{}, false
		}
		out := Update{
			ChatID:    msg.Chat.ID,
			UserID:    msg.From.ID,
			Username:  msg.From.UserName,
			FirstName: msg.From.FirstName,
			LastName:  msg.From.LastName,
			MessageID: msg.MessageID,
			Text:      msg.Text,
		}
		if out.Text == "" {
			out.Text = msg.Caption
		}
		if msg.Video != nil {
			size := int64(msg.Video.FileSize)
			out.Video = &FileAttachment{FileRef: msg.Video.FileID, SizeBytes: &size}
		} else if msg.Document != nil && isVideoMime(msg.Document.MimeType) {
			size := int64(msg.Document.FileSize)
			out.Video = &FileAttachment{FileRef: msg.Document.FileID, SizeBytes: &size}
		}
		if len(msg.Photo) > 0 {
			largest := msg.Photo[len(msg.Photo)-1]
			size := int64(largest.FileSize)
			out.Photo = &FileAttachment{FileRef: largest.FileID, SizeBytes: &size}
		}
		return out, true
	}
	return Update{}, false
}

func isVideoMime(mime string) bool {
	return len(mime) > 6 && mime[:6] == "video/"
}

// Send delivers one outbound message.
func (t *Telegram) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	markup := buildMarkup(msg.Buttons)

	var chattable tgbotapi.Chattable
	switch {
	case msg.VideoRef != "":
		video := tgbotapi.NewVideo(msg.ChatID, tgbotapi.FileID(msg.VideoRef))
		video.Caption = msg.Text
		if markup != nil {
			video.ReplyMarkup = markup
		}
		chattable = video
	case msg.PhotoRef != "":
		photo := tgbotapi.NewPhoto(msg.ChatID, tgbotapi.FileID(msg.PhotoRef))
		photo.Caption = msg.Text
		if markup != nil {
			photo.ReplyMarkup = markup
		}
		chattable = photo
	default:
		text := tgbotapi.NewMessage(msg.ChatID, msg.Text)
		if markup != nil {
			text.ReplyMarkup = markup
		}
		chattable = text
	}

	if _, err := t.api.Send(chattable); err != nil {
		return fmt.Errorf("send to chat %d: %w", msg.ChatID, err)
	}
	return nil
}

// EditText replaces a sent message's text and keyboard.
func (t *Telegram) EditText(ctx context.Context, chatID int64, messageID int, text string, buttons [][]Button) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var edit tgbotapi.EditMessageTextConfig
	if markup := buildMarkup(buttons); markup != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, *markup)
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, text)
	}
	if _, err := t.api.Send(edit); err != nil {
		return fmt.Errorf("edit message %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}

// AnswerCallback acknowledges a button tap.
func (t *Telegram) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

// ChatMember reports membership status in a channel.
func (t *Telegram) ChatMember(ctx context.Context, channel string, userID int64) (MemberStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	member, err := t.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: channel,
			UserID:             userID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("get chat member %s: %w", channel, err)
	}
	return MemberStatus(member.Status), nil
}

func buildMarkup(buttons [][]Button) *tgbotapi.InlineKeyboardMarkup {
	if len(buttons) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, row := range buttons {
		converted := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			if b.URL != "" {
				converted = append(converted, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
			} else {
				converted = append(converted, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
			}
		}
		rows = append(rows, converted)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}
