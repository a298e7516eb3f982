// Package bot wires the update stream to the upload conversation,
// browse/search handlers, and the membership gate. All transport access
// goes through the gateway interface.
package bot

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cinegram/cinegram/internal/catalog"
	"github.com/cinegram/cinegram/internal/gateway"
	"github.com/cinegram/cinegram/internal/session"
)

// Options carries the tunables the bot needs beyond its collaborators.
type Options struct {
	Admins         []int64
	BotUsername    string // for share deep links
	PageSize       int
	SearchLimit    int
	AtomicFinalize bool
}

// Bot is the single update-loop controller.
type Bot struct {
	gw       gateway.Gateway
	store    *catalog.Store
	sessions *session.Store
	gate     *Gate
	opts     Options
	admins   map[int64]bool
	logger   *slog.Logger
}

func New(gw gateway.Gateway, store *catalog.Store, sessions *session.Store, gate *Gate, opts Options, logger *slog.Logger) *Bot {
	admins := make(map[int64]bool, len(opts.Admins))
	for _, id := range opts.Admins {
		admins[id] = true
	}
	return &Bot{
		gw:       gw,
		store:    store,
		sessions: sessions,
		gate:     gate,
		opts:     opts,
		admins:   admins,
		logger:   logger.With("component", "bot"),
	}
}

// Run consumes updates until the context is canceled or the stream
// closes. Handler errors are logged, never fatal.
func (b *Bot) Run(ctx context.Context) error {
	updates := b.gw.Updates(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.handle(ctx, upd)
		}
	}
}

func (b *Bot) isAdmin(userID int64) bool { return b.admins[userID] }

func (b *Bot) handle(ctx context.Context, upd gateway.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panic", "chat", upd.ChatID, "user", upd.UserID, "panic", r)
		}
	}()

	user, err := b.touchUser(upd)
	if err != nil {
		b.logger.Error("recording user", "user", upd.UserID, "error", err)
		b.sendText(ctx, upd.ChatID, "Something went wrong, please try again.")
		return
	}

	switch {
	case upd.Callback != nil:
		b.handleCallback(ctx, upd, user)
	case strings.HasPrefix(upd.Text, "/"):
		b.handleCommand(ctx, upd, user)
	default:
		b.handleMessage(ctx, upd, user)
	}
}

// touchUser upserts the sender's display fields and returns the stored
// row, membership verdict included.
func (b *Bot) touchUser(upd gateway.Update) (*catalog.User, error) {
	u := &catalog.User{
		ID:        upd.UserID,
		Username:  upd.Username,
		FirstName: upd.FirstName,
		LastName:  upd.LastName,
	}
	if err := b.store.UpsertUser(u); err != nil {
		return nil, err
	}
	return b.store.GetUser(upd.UserID)
}

func (b *Bot) handleCommand(ctx context.Context, upd gateway.Update, user *catalog.User) {
	cmd, payload, _ := strings.Cut(strings.TrimSpace(upd.Text), " ")
	cmd = strings.TrimPrefix(cmd, "/")
	// Group-style commands arrive as /start@botname.
	cmd, _, _ = strings.Cut(cmd, "@")

	// An armed broadcast owns the next message even when it starts with
	// a slash. Only /cancel still aborts.
	if cmd != "cancel" && b.isAdmin(upd.UserID) {
		if sess := b.sessions.Get(upd.ChatID, upd.UserID); sess != nil && sess.State == session.StateAwaitingBroadcast {
			b.runBroadcast(ctx, upd, sess)
			return
		}
	}

	switch cmd {
	case "start":
		b.handleStart(ctx, upd, user, strings.TrimSpace(payload))
	case "help":
		b.sendText(ctx, upd.ChatID, helpText(b.isAdmin(upd.UserID)))
	case "admin":
		b.handleAdmin(ctx, upd)
	case "search":
		b.sendText(ctx, upd.ChatID, "Send me a title, tag, or keyword to search for.")
	case "cancel":
		b.handleCancel(ctx, upd)
	case "broadcast":
		b.handleBroadcastCommand(ctx, upd)
	case "stats":
		b.handleStats(ctx, upd)
	default:
		b.sendText(ctx, upd.ChatID, "Unknown command. Try /help.")
	}
}

func (b *Bot) handleMessage(ctx context.Context, upd gateway.Update, user *catalog.User) {
	if b.isAdmin(upd.UserID) {
		if sess := b.sessions.Get(upd.ChatID, upd.UserID); sess != nil && sess.State != session.StateIdle {
			if sess.State == session.StateAwaitingBroadcast {
				b.runBroadcast(ctx, upd, sess)
				return
			}
			b.handleUploadInput(ctx, upd, sess)
			return
		}
		if upd.Video != nil {
			b.startUpload(ctx, upd)
			return
		}
	} else if upd.Video != nil || upd.Photo != nil {
		b.sendText(ctx, upd.ChatID, "Access denied: only admins can upload content.")
		return
	}

	if !b.requireMembership(ctx, upd.ChatID, user) {
		return
	}

	if upd.Text != "" {
		b.handleSearch(ctx, upd.ChatID, upd.Text)
		return
	}
	b.sendText(ctx, upd.ChatID, "Send me a title to search for, or use /help.")
}

// requireMembership runs the gate and, when it fails, sends the join
// prompt. Admins are exempt.
func (b *Bot) requireMembership(ctx context.Context, chatID int64, user *catalog.User) bool {
	if b.isAdmin(user.ID) || b.gate.Allow(ctx, user) {
		return true
	}
	b.send(ctx, gateway.Message{
		ChatID:  chatID,
		Text:    "To use this bot you need to join our channel(s) first:",
		Buttons: joinButtons(b.gate.Channels()),
	})
	return false
}

func (b *Bot) handleCancel(ctx context.Context, upd gateway.Update) {
	if sess := b.sessions.Get(upd.ChatID, upd.UserID); sess != nil {
		b.sessions.Delete(upd.ChatID, upd.UserID)
		b.sendText(ctx, upd.ChatID, "Canceled. Nothing was saved.")
		return
	}
	b.sendText(ctx, upd.ChatID, "Nothing to cancel.")
}

func helpText(admin bool) string {
	var b strings.Builder
	b.WriteString("🎬 Movie & series library bot\n\n")
	b.WriteString("/start – main menu\n")
	b.WriteString("/search – find content by title, tag, or keyword\n")
	b.WriteString("/help – this message\n")
	b.WriteString("\nOr just send me any text to search the catalog.")
	if admin {
		b.WriteString("\n\nAdmin:\n")
		b.WriteString("/admin – admin panel\n")
		b.WriteString("/stats – catalog counters\n")
		b.WriteString("/broadcast – message all users\n")
		b.WriteString("/cancel – abort the current upload\n")
		b.WriteString("\nSend a video to start uploading it.")
	}
	return b.String()
}

// send logs rather than propagates: a failed outbound message must not
// take down the loop.
func (b *Bot) send(ctx context.Context, msg gateway.Message) {
	if err := b.gw.Send(ctx, msg); err != nil {
		b.logger.Warn("send failed", "chat", msg.ChatID, "error", err)
	}
}

func (b *Bot) sendText(ctx context.Context, chatID int64, text string) {
	b.send(ctx, gateway.Message{ChatID: chatID, Text: text})
}

func (b *Bot) edit(ctx context.Context, chatID int64, messageID int, text string, buttons [][]gateway.Button) {
	if err := b.gw.EditText(ctx, chatID, messageID, text, buttons); err != nil {
		b.logger.Warn("edit failed", "chat", chatID, "message", messageID, "error", err)
	}
}

func (b *Bot) answer(ctx context.Context, callbackID, text string) {
	if err := b.gw.AnswerCallback(ctx, callbackID, text); err != nil {
		b.logger.Warn("answering callback", "error", err)
	}
}
