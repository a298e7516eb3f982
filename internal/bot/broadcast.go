// internal/bot/broadcast.go
package bot

import (
	"context"
	"fmt"

	"github.com/cinegram/cinegram/internal/gateway"
	"github.com/cinegram/cinegram/internal/session"
)

func (b *Bot) handleAdmin(ctx context.Context, upd gateway.Update) {
	if !b.isAdmin(upd.UserID) {
		b.sendText(ctx, upd.ChatID, "Access denied.")
		return
	}

	stats, err := b.store.GetStats()
	if err != nil {
		b.logger.Error("loading stats", "error", err)
		b.sendText(ctx, upd.ChatID, "Couldn't load the admin panel, please try again.")
		return
	}

	text := fmt.Sprintf(
		"🛠 Admin panel\n\n🎬 Movies: %d\n📺 Series: %d\n🎞 Episodes: %d\n👥 Users: %d\n\nSend a video to start an upload. /broadcast messages every user.",
		stats.Movies, stats.Series, stats.Episodes, stats.Users,
	)
	b.sendText(ctx, upd.ChatID, text)
}

func (b *Bot) handleStats(ctx context.Context, upd gateway.Update) {
	if !b.isAdmin(upd.UserID) {
		b.sendText(ctx, upd.ChatID, "Access denied.")
		return
	}

	stats, err := b.store.GetStats()
	if err != nil {
		b.logger.Error("loading stats", "error", err)
		b.sendText(ctx, upd.ChatID, "Couldn't load stats, please try again.")
		return
	}
	b.sendText(ctx, upd.ChatID, fmt.Sprintf(
		"🎬 %d movies, 📺 %d series, 🎞 %d episodes, 👥 %d users.",
		stats.Movies, stats.Series, stats.Episodes, stats.Users,
	))
}

// handleBroadcastCommand arms the broadcast: the admin's next message is
// the one fanned out.
func (b *Bot) handleBroadcastCommand(ctx context.Context, upd gateway.Update) {
	if !b.isAdmin(upd.UserID) {
		b.sendText(ctx, upd.ChatID, "Access denied.")
		return
	}
	if sess := b.sessions.Get(upd.ChatID, upd.UserID); sess != nil && sess.State != session.StateIdle {
		b.sendText(ctx, upd.ChatID, "Finish or /cancel the current upload first.")
		return
	}

	b.sessions.Put(&session.Session{
		ChatID: upd.ChatID,
		UserID: upd.UserID,
		State:  session.StateAwaitingBroadcast,
	})
	b.sendText(ctx, upd.ChatID, "Send the message to broadcast to all users, or /cancel.")
}

// runBroadcast fans the message out to every known user. Per-user send
// failures (blocked bot, deleted account) are counted, not fatal.
func (b *Bot) runBroadcast(ctx context.Context, upd gateway.Update, sess *session.Session) {
	b.sessions.Delete(upd.ChatID, upd.UserID)

	if upd.Text == "" && upd.Video == nil && upd.Photo == nil {
		b.sendText(ctx, upd.ChatID, "Nothing to broadcast, aborted.")
		return
	}

	users, err := b.store.ListUsers()
	if err != nil {
		b.logger.Error("listing users for broadcast", "error", err)
		b.sendText(ctx, upd.ChatID, "Couldn't load the user list, broadcast aborted.")
		return
	}

	var sent, failed int
	for _, u := range users {
		if u.ID == upd.UserID {
			continue
		}
		msg := gateway.Message{ChatID: u.ID, Text: upd.Text}
		if upd.Video != nil {
			msg.VideoRef = upd.Video.FileRef
		} else if upd.Photo != nil {
			msg.PhotoRef = upd.Photo.FileRef
		}
		if err := b.gw.Send(ctx, msg); err != nil {
			failed++
			continue
		}
		sent++
	}

	b.logger.Info("broadcast finished", "sent", sent, "failed", failed)
	b.sendText(ctx, upd.ChatID, fmt.Sprintf("Broadcast done: %d delivered, %d failed.", sent, failed))
}
