// internal/bot/upload.go
//
// The upload conversation is a strict chain: each state accepts exactly
// one kind of input, stores it in the draft, and advances. Validation
// failures re-prompt without touching the draft. Cancel is the only
// transition out of order.
package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/cinegram/cinegram/internal/catalog"
	"github.com/cinegram/cinegram/internal/gateway"
	"github.com/cinegram/cinegram/internal/session"
)

func cancelRow() []gateway.Button {
	return []gateway.Button{{Text: "✖ Cancel", Data: Callback{Action: ActionCancel}.Encode()}}
}

func skipRow() []gateway.Button {
	return []gateway.Button{
		{Text: "Skip", Data: Callback{Action: ActionSkip}.Encode()},
		{Text: "✖ Cancel", Data: Callback{Action: ActionCancel}.Encode()},
	}
}

// startUpload begins a conversation from an admin's video message. The
// initiating file becomes the first media file of the draft.
func (b *Bot) startUpload(ctx context.Context, upd gateway.Update) {
	sess := &session.Session{
		ChatID: upd.ChatID,
		UserID: upd.UserID,
		State:  session.StateAwaitingType,
		Draft: session.Draft{
			Pending: &session.PendingFile{
				FileRef:   upd.Video.FileRef,
				SizeBytes: upd.Video.SizeBytes,
			},
		},
	}
	b.sessions.Put(sess)

	b.send(ctx, gateway.Message{
		ChatID: upd.ChatID,
		Text:   "Got the file. What are you uploading?",
		Buttons: [][]gateway.Button{
			{
				{Text: "🎬 Movie", Data: Callback{Action: ActionKind, Type: catalog.OwnerMovie}.Encode()},
				{Text: "📺 Series episode", Data: Callback{Action: ActionKind, Type: catalog.OwnerSeries}.Encode()},
			},
			cancelRow(),
		},
	})
}

// handleUploadInput routes a text or media message to the current state.
func (b *Bot) handleUploadInput(ctx context.Context, upd gateway.Update, sess *session.Session) {
	switch sess.State {
	case session.StateAwaitingType:
		b.sendText(ctx, upd.ChatID, "Please pick Movie or Series using the buttons, or /cancel.")

	case session.StateAwaitingTitle:
		b.stepTitle(ctx, upd, sess)

	case session.StateAwaitingYear:
		year, err := parseYear(upd.Text)
		if err != nil {
			b.sendText(ctx, upd.ChatID, "That doesn't look like a year. Send a four digit year, or - if unknown.")
			return
		}
		sess.Draft.Year = year
		b.advance(ctx, sess, session.StateAwaitingDesc, "Now send the description.")

	case session.StateAwaitingDesc:
		if upd.Text == "" {
			b.sendText(ctx, upd.ChatID, "Send the description as text.")
			return
		}
		sess.Draft.Description = upd.Text
		b.advance(ctx, sess, session.StateAwaitingTags, "Send tags, comma separated (e.g. scifi,space).")

	case session.StateAwaitingTags:
		if upd.Text == "" {
			b.sendText(ctx, upd.ChatID, "Send at least one tag.")
			return
		}
		sess.Draft.Tags = upd.Text
		if sess.Draft.Kind == session.KindMovie {
			b.promptCategory(ctx, sess)
		} else {
			b.advance(ctx, sess, session.StateAwaitingSeason, "Which season number is this episode from?")
		}

	case session.StateAwaitingCategory:
		if upd.Text == "" {
			b.sendText(ctx, upd.ChatID, "Send a category name, or tap Skip.")
			return
		}
		cat := upd.Text
		sess.Draft.Category = &cat
		b.promptPoster(ctx, sess)

	case session.StateAwaitingPoster:
		if upd.Photo == nil {
			b.sendText(ctx, upd.ChatID, "Send a poster image, or tap Skip.")
			return
		}
		sess.Draft.PosterRef = &upd.Photo.FileRef
		b.promptQuality(ctx, sess)

	case session.StateAwaitingSeason:
		n, err := parseSeasonNumber(upd.Text)
		if err != nil {
			b.sendText(ctx, upd.ChatID, "Send the season as a positive number, e.g. 2.")
			return
		}
		sess.Draft.SeasonNumber = n
		b.advance(ctx, sess, session.StateAwaitingEpisode, "Send the episode as number|title (title optional).")

	case session.StateAwaitingEpisode:
		meta, err := parseEpisodeMeta(upd.Text)
		if err != nil {
			b.sendText(ctx, upd.ChatID, "Couldn't parse that. Send the episode as number|title, e.g. 3|Pilot.")
			return
		}
		sess.Draft.EpisodeNumber = meta.Number
		sess.Draft.EpisodeTitle = meta.Title
		b.promptQuality(ctx, sess)

	case session.StateAwaitingQuality:
		if upd.Text == "" {
			b.sendText(ctx, upd.ChatID, "Send the quality label as text, e.g. 1080p.")
			return
		}
		if sess.Draft.Pending == nil {
			// Should not happen, quality is only prompted with a file pending.
			b.advanceMedia(ctx, sess)
			return
		}
		sess.Draft.Variants = append(sess.Draft.Variants, session.Variant{
			Quality:   upd.Text,
			FileRef:   sess.Draft.Pending.FileRef,
			SizeBytes: sess.Draft.Pending.SizeBytes,
		})
		sess.Draft.Pending = nil
		b.advanceMedia(ctx, sess)

	case session.StateAwaitingMedia:
		if upd.Video == nil {
			b.sendText(ctx, upd.ChatID, "Send another video file, or tap Done.")
			return
		}
		sess.Draft.Pending = &session.PendingFile{
			FileRef:   upd.Video.FileRef,
			SizeBytes: upd.Video.SizeBytes,
		}
		b.promptQuality(ctx, sess)

	case session.StateAwaitingAltNames:
		names := splitAltNames(upd.Text)
		if len(names) == 0 {
			b.sendText(ctx, upd.ChatID, "Send alternative names comma separated, or tap Skip.")
			return
		}
		sess.Draft.AltNames = names
		b.sessions.Put(sess)
		b.finalize(ctx, sess)

	default:
		b.sendText(ctx, upd.ChatID, "I wasn't expecting that. Use /cancel to start over.")
	}
}

// stepTitle accepts a bare title or the full pipe form and fast-forwards
// the chain when the latter parses.
func (b *Bot) stepTitle(ctx context.Context, upd gateway.Update, sess *session.Session) {
	text := upd.Text
	if text == "" {
		b.sendText(ctx, upd.ChatID, "Send the title as text.")
		return
	}

	if sess.Draft.Kind == session.KindMovie {
		if meta, err := parseMovieMeta(text); err == nil {
			sess.Draft.Title = meta.Title
			sess.Draft.Year = meta.Year
			sess.Draft.Description = meta.Description
			sess.Draft.Tags = meta.Tags
			b.promptCategory(ctx, sess)
			return
		} else if len(splitPipes(text)) > 1 {
			b.sendText(ctx, upd.ChatID, "Couldn't parse that. Use title|year|description|tags, or send just the title.")
			return
		}
		sess.Draft.Title = text
		b.advance(ctx, sess, session.StateAwaitingYear, "What year was it released? Send - if unknown.")
		return
	}

	if meta, err := parseSeriesMeta(text); err == nil {
		sess.Draft.Title = meta.Title
		sess.Draft.Description = meta.Description
		sess.Draft.Tags = meta.Tags
		b.advance(ctx, sess, session.StateAwaitingSeason, "Which season number is this episode from?")
		return
	} else if len(splitPipes(text)) > 1 {
		b.sendText(ctx, upd.ChatID, "Couldn't parse that. Use title|description|tags, or send just the title.")
		return
	}
	sess.Draft.Title = text
	b.advance(ctx, sess, session.StateAwaitingDesc, "Now send the description.")
}

// handleUploadCallback covers the kind choice and the skip/done/cancel
// buttons that appear during the conversation.
func (b *Bot) handleUploadCallback(ctx context.Context, upd gateway.Update, cb Callback) {
	b.answer(ctx, upd.Callback.ID, "")

	if cb.Action == ActionCancel {
		b.sessions.Delete(upd.ChatID, upd.UserID)
		b.sendText(ctx, upd.ChatID, "Canceled. Nothing was saved.")
		return
	}

	sess := b.sessions.Get(upd.ChatID, upd.UserID)
	if sess == nil || sess.State == session.StateIdle {
		b.sendText(ctx, upd.ChatID, "That upload has expired. Send the file again to start over.")
		return
	}

	switch cb.Action {
	case ActionKind:
		if sess.State != session.StateAwaitingType {
			return
		}
		if cb.Type == catalog.OwnerSeries {
			sess.Draft.Kind = session.KindSeries
			b.advance(ctx, sess, session.StateAwaitingTitle,
				"Series it is. Send the title, or everything at once as title|description|tags.")
		} else {
			sess.Draft.Kind = session.KindMovie
			b.advance(ctx, sess, session.StateAwaitingTitle,
				"Movie it is. Send the title, or everything at once as title|year|description|tags.")
		}

	case ActionSkip:
		switch sess.State {
		case session.StateAwaitingCategory:
			b.promptPoster(ctx, sess)
		case session.StateAwaitingPoster:
			b.promptQuality(ctx, sess)
		case session.StateAwaitingAltNames:
			b.finalize(ctx, sess)
		}

	case ActionDone:
		if sess.State != session.StateAwaitingMedia {
			return
		}
		if sess.Draft.Kind == session.KindSeries {
			sess.State = session.StateAwaitingAltNames
			b.sessions.Put(sess)
			b.send(ctx, gateway.Message{
				ChatID:  sess.ChatID,
				Text:    "Any alternative names for this series? Send them comma separated.",
				Buttons: [][]gateway.Button{skipRow()},
			})
			return
		}
		b.finalize(ctx, sess)
	}
}

func (b *Bot) advance(ctx context.Context, sess *session.Session, next session.State, prompt string) {
	sess.State = next
	b.sessions.Put(sess)
	b.send(ctx, gateway.Message{
		ChatID:  sess.ChatID,
		Text:    prompt,
		Buttons: [][]gateway.Button{cancelRow()},
	})
}

func (b *Bot) promptCategory(ctx context.Context, sess *session.Session) {
	sess.State = session.StateAwaitingCategory
	b.sessions.Put(sess)
	b.send(ctx, gateway.Message{
		ChatID:  sess.ChatID,
		Text:    "Category? (e.g. Action, Drama)",
		Buttons: [][]gateway.Button{skipRow()},
	})
}

func (b *Bot) promptPoster(ctx context.Context, sess *session.Session) {
	sess.State = session.StateAwaitingPoster
	b.sessions.Put(sess)
	b.send(ctx, gateway.Message{
		ChatID:  sess.ChatID,
		Text:    "Send a poster image.",
		Buttons: [][]gateway.Button{skipRow()},
	})
}

func (b *Bot) promptQuality(ctx context.Context, sess *session.Session) {
	sess.State = session.StateAwaitingQuality
	b.sessions.Put(sess)
	b.send(ctx, gateway.Message{
		ChatID:  sess.ChatID,
		Text:    "What quality is this file? (e.g. 1080p)",
		Buttons: [][]gateway.Button{cancelRow()},
	})
}

func (b *Bot) advanceMedia(ctx context.Context, sess *session.Session) {
	sess.State = session.StateAwaitingMedia
	b.sessions.Put(sess)
	b.send(ctx, gateway.Message{
		ChatID: sess.ChatID,
		Text:   "Saved. Send another file in a different quality, or tap Done.",
		Buttons: [][]gateway.Button{
			{{Text: "✅ Done", Data: Callback{Action: ActionDone}.Encode()}},
			cancelRow(),
		},
	})
}

// finalize writes the draft to the catalog and clears the session. With
// atomic finalize every row lands in one transaction; otherwise each
// insert stands alone and a late failure can leave the parent behind.
func (b *Bot) finalize(ctx context.Context, sess *session.Session) {
	b.sessions.Delete(sess.ChatID, sess.UserID)

	if len(sess.Draft.Variants) == 0 {
		b.sendText(ctx, sess.ChatID, "No files were attached, nothing to save.")
		return
	}

	var (
		ct  catalog.OwnerType
		id  int64
		err error
	)
	if b.opts.AtomicFinalize {
		ct, id, err = b.finalizeAtomic(&sess.Draft)
	} else {
		ct, id, err = b.finalizeLoose(&sess.Draft)
	}
	if err != nil {
		b.logger.Error("finalize failed", "kind", sess.Draft.Kind, "title", sess.Draft.Title, "error", err)
		b.sendText(ctx, sess.ChatID, "Saving failed, nothing may have been stored. Please try again.")
		return
	}

	text := fmt.Sprintf("✅ Saved %q with %d file(s).", sess.Draft.Title, len(sess.Draft.Variants))
	msg := gateway.Message{ChatID: sess.ChatID, Text: text}
	if b.opts.BotUsername != "" {
		msg.Buttons = [][]gateway.Button{{
			{Text: "🔗 Share", URL: shareLink(b.opts.BotUsername, ct, id)},
		}}
	}
	b.send(ctx, msg)
}

func (b *Bot) finalizeAtomic(d *session.Draft) (catalog.OwnerType, int64, error) {
	tx, err := b.store.Begin()
	if err != nil {
		return "", 0, err
	}
	defer tx.Rollback()

	ct, id, err := writeDraft(tx, d)
	if err != nil {
		return "", 0, err
	}
	if err := tx.Commit(); err != nil {
		return "", 0, err
	}
	return ct, id, nil
}

func (b *Bot) finalizeLoose(d *session.Draft) (catalog.OwnerType, int64, error) {
	return writeDraft(b.store, d)
}

// catalogWriter is satisfied by both Store and Tx, so the two finalize
// policies share one write path.
type catalogWriter interface {
	AddMovie(*catalog.Movie) error
	AddSeries(*catalog.Series) error
	FindSeriesByTitle(title string) (*catalog.Series, error)
	FindOrCreateSeason(seriesID int64, number int) (*catalog.Season, bool, error)
	AddEpisode(*catalog.Episode) error
	AddVariant(*catalog.QualityVariant) error
	AddAlternativeName(*catalog.AlternativeName) error
}

func writeDraft(w catalogWriter, d *session.Draft) (catalog.OwnerType, int64, error) {
	if d.Kind == session.KindSeries {
		return writeSeriesDraft(w, d)
	}

	m := &catalog.Movie{
		Title:       d.Title,
		Year:        d.Year,
		Description: d.Description,
		Tags:        d.Tags,
		Category:    d.Category,
		PosterRef:   d.PosterRef,
	}
	if err := w.AddMovie(m); err != nil {
		return "", 0, fmt.Errorf("movie: %w", err)
	}
	for _, v := range d.Variants {
		qv := &catalog.QualityVariant{
			OwnerType: catalog.OwnerMovie,
			OwnerID:   m.ID,
			Quality:   v.Quality,
			FileRef:   v.FileRef,
			SizeBytes: v.SizeBytes,
		}
		if err := w.AddVariant(qv); err != nil {
			return "", 0, fmt.Errorf("variant %s: %w", v.Quality, err)
		}
	}
	return catalog.OwnerMovie, m.ID, nil
}

// writeSeriesDraft files the episode under an existing series when the
// title matches, so follow-up uploads extend the series instead of
// duplicating it. Stored metadata wins over the draft in that case.
func writeSeriesDraft(w catalogWriter, d *session.Draft) (catalog.OwnerType, int64, error) {
	sr, err := w.FindSeriesByTitle(d.Title)
	created := false
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		sr = &catalog.Series{
			Title:       d.Title,
			Description: d.Description,
			Tags:        d.Tags,
			Category:    d.Category,
			PosterRef:   d.PosterRef,
		}
		if err := w.AddSeries(sr); err != nil {
			return "", 0, fmt.Errorf("series: %w", err)
		}
		created = true
	case err != nil:
		return "", 0, fmt.Errorf("series: %w", err)
	}

	season, _, err := w.FindOrCreateSeason(sr.ID, d.SeasonNumber)
	if err != nil {
		return "", 0, fmt.Errorf("season %d: %w", d.SeasonNumber, err)
	}

	ep := &catalog.Episode{SeasonID: season.ID, Number: d.EpisodeNumber, Title: d.EpisodeTitle}
	if err := w.AddEpisode(ep); err != nil {
		return "", 0, fmt.Errorf("episode %d: %w", d.EpisodeNumber, err)
	}

	for _, v := range d.Variants {
		qv := &catalog.QualityVariant{
			OwnerType: catalog.OwnerEpisode,
			OwnerID:   ep.ID,
			Quality:   v.Quality,
			FileRef:   v.FileRef,
			SizeBytes: v.SizeBytes,
		}
		if err := w.AddVariant(qv); err != nil {
			return "", 0, fmt.Errorf("variant %s: %w", v.Quality, err)
		}
	}

	// Aliases are only written with the series itself; re-filing an
	// episode must not duplicate them.
	if created {
		for _, name := range d.AltNames {
			an := &catalog.AlternativeName{
				OwnerType: catalog.OwnerSeries,
				OwnerID:   sr.ID,
				Name:      name,
			}
			if err := w.AddAlternativeName(an); err != nil {
				return "", 0, fmt.Errorf("alternative name %q: %w", name, err)
			}
		}
	}

	return catalog.OwnerSeries, sr.ID, nil
}
