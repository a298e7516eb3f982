// internal/bot/browse.go
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cinegram/cinegram/internal/catalog"
	"github.com/cinegram/cinegram/internal/gateway"
)

const minQueryLen = 2

func (b *Bot) handleStart(ctx context.Context, upd gateway.Update, user *catalog.User, payload string) {
	if !b.requireMembership(ctx, upd.ChatID, user) {
		return
	}

	if payload != "" {
		if ct, id, ok := parseDeepLink(payload); ok {
			b.showDetail(ctx, upd.ChatID, ct, id)
			return
		}
		b.sendText(ctx, upd.ChatID, "That link doesn't point anywhere I know.")
		return
	}

	name := upd.FirstName
	if name == "" {
		name = "there"
	}
	b.send(ctx, gateway.Message{
		ChatID:  upd.ChatID,
		Text:    fmt.Sprintf("Hi %s! 🎬 Browse the library below, or send me any text to search.", name),
		Buttons: mainMenuButtons(),
	})
}

// parseDeepLink resolves "movie_42", "series_7", and "share_movie_42".
func parseDeepLink(payload string) (catalog.OwnerType, int64, bool) {
	parts := strings.Split(payload, "_")
	if parts[0] == "share" {
		parts = parts[1:]
	}
	if len(parts) != 2 {
		return "", 0, false
	}

	ct := catalog.OwnerType(parts[0])
	if ct != catalog.OwnerMovie && ct != catalog.OwnerSeries {
		return "", 0, false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return ct, id, true
}

func (b *Bot) handleSearch(ctx context.Context, chatID int64, query string) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minQueryLen {
		b.sendText(ctx, chatID, fmt.Sprintf("Search needs at least %d characters.", minQueryLen))
		return
	}

	results, err := b.store.Search(query, b.opts.SearchLimit)
	if err != nil {
		b.logger.Error("search failed", "query", query, "error", err)
		b.sendText(ctx, chatID, "Search failed, please try again.")
		return
	}
	if len(results) == 0 {
		b.sendText(ctx, chatID, fmt.Sprintf("Nothing found for %q.", query))
		return
	}

	var rows [][]gateway.Button
	for _, r := range results {
		icon := "🎬"
		if r.Type == catalog.OwnerSeries {
			icon = "📺"
		}
		rows = append(rows, []gateway.Button{{
			Text: icon + " " + r.Title(),
			Data: Callback{Action: ActionDetail, Type: r.Type, ID: r.ID()}.Encode(),
		}})
	}
	b.send(ctx, gateway.Message{
		ChatID:  chatID,
		Text:    fmt.Sprintf("Found %d result(s) for %q:", len(results), query),
		Buttons: rows,
	})
}

func (b *Bot) handleCallback(ctx context.Context, upd gateway.Update, user *catalog.User) {
	cb, err := DecodeCallback(upd.Callback.Data)
	if err != nil {
		b.logger.Warn("undecodable callback", "data", upd.Callback.Data, "error", err)
		b.answer(ctx, upd.Callback.ID, "This button has expired.")
		return
	}

	// Upload-flow buttons are admin territory and skip the gate.
	switch cb.Action {
	case ActionKind, ActionSkip, ActionDone, ActionCancel:
		if !b.isAdmin(upd.UserID) {
			b.answer(ctx, upd.Callback.ID, "Admins only.")
			return
		}
		b.handleUploadCallback(ctx, upd, cb)
		return
	case ActionJoined:
		b.handleJoined(ctx, upd, user)
		return
	}

	if !b.isAdmin(upd.UserID) && !b.gate.Allow(ctx, user) {
		b.answer(ctx, upd.Callback.ID, "Join the required channel(s) first.")
		b.send(ctx, gateway.Message{
			ChatID:  upd.ChatID,
			Text:    "To use this bot you need to join our channel(s) first:",
			Buttons: joinButtons(b.gate.Channels()),
		})
		return
	}

	b.answer(ctx, upd.Callback.ID, "")

	switch cb.Action {
	case ActionMenu:
		b.edit(ctx, upd.ChatID, upd.Callback.MessageID, "How should I sort them?", sortMenuButtons(cb.Type))
	case ActionList:
		b.showListing(ctx, upd, cb)
	case ActionCategories:
		b.showCategories(ctx, upd, cb)
	case ActionDetail:
		b.showDetail(ctx, upd.ChatID, cb.Type, cb.ID)
	case ActionSeasons:
		b.showSeasons(ctx, upd.ChatID, cb.ID)
	case ActionEpisodes:
		b.showEpisodes(ctx, upd.ChatID, cb.ID)
	case ActionDownload:
		b.handleDownload(ctx, upd, user, cb.ID)
	default:
		b.logger.Warn("unhandled callback action", "action", cb.Action)
	}
}

func (b *Bot) handleJoined(ctx context.Context, upd gateway.Update, user *catalog.User) {
	if b.gate.Recheck(ctx, user) {
		b.answer(ctx, upd.Callback.ID, "Welcome! 🎉")
		b.edit(ctx, upd.ChatID, upd.Callback.MessageID, "You're in! Browse the library:", mainMenuButtons())
		return
	}
	b.answer(ctx, upd.Callback.ID, "You haven't joined all the channels yet.")
}

// showCategories replaces the tapped message with one listing entry per
// category in use.
func (b *Bot) showCategories(ctx context.Context, upd gateway.Update, cb Callback) {
	categories, err := b.store.Categories(cb.Type)
	if err != nil {
		b.logger.Error("listing categories", "type", cb.Type, "error", err)
		b.sendText(ctx, upd.ChatID, "Couldn't load categories, please try again.")
		return
	}
	if len(categories) == 0 {
		b.edit(ctx, upd.ChatID, upd.Callback.MessageID, "No categories yet.", nil)
		return
	}
	b.edit(ctx, upd.ChatID, upd.Callback.MessageID, "Pick a category:", categoryButtons(cb.Type, categories))
}

// showListing renders one page in place of the tapped message.
func (b *Bot) showListing(ctx context.Context, upd gateway.Update, cb Callback) {
	var (
		titles []string
		ids    []int64
		total  int
		err    error
	)
	var category *string
	if cb.Category != "" {
		category = &cb.Category
	}

	if cb.Type == catalog.OwnerSeries {
		var series []*catalog.Series
		series, total, err = b.store.ListSeries(catalog.SeriesFilter{
			Category: category,
			Sort:     cb.Sort,
			Limit:    b.opts.PageSize,
			Offset:   cb.Page * b.opts.PageSize,
		})
		for _, sr := range series {
			titles = append(titles, sr.Title)
			ids = append(ids, sr.ID)
		}
	} else {
		var movies []*catalog.Movie
		movies, total, err = b.store.ListMovies(catalog.MovieFilter{
			Category: category,
			Sort:     cb.Sort,
			Limit:    b.opts.PageSize,
			Offset:   cb.Page * b.opts.PageSize,
		})
		for _, m := range movies {
			label := m.Title
			if m.Year != nil {
				label = fmt.Sprintf("%s (%d)", m.Title, *m.Year)
			}
			titles = append(titles, label)
			ids = append(ids, m.ID)
		}
	}
	if err != nil {
		b.logger.Error("listing failed", "type", cb.Type, "error", err)
		b.sendText(ctx, upd.ChatID, "Couldn't load the list, please try again.")
		return
	}
	if total == 0 {
		b.edit(ctx, upd.ChatID, upd.Callback.MessageID, "Nothing here yet.", nil)
		return
	}

	pages := (total + b.opts.PageSize - 1) / b.opts.PageSize
	header := fmt.Sprintf("Page %d of %d (%d total):", cb.Page+1, pages, total)
	buttons := listButtons(cb.Type, titles, ids, cb.Page, b.opts.PageSize, total, cb.Sort, cb.Category)
	b.edit(ctx, upd.ChatID, upd.Callback.MessageID, header, buttons)
}

// showDetail sends a fresh detail message and bumps the view counter.
func (b *Bot) showDetail(ctx context.Context, chatID int64, ct catalog.OwnerType, id int64) {
	switch ct {
	case catalog.OwnerMovie:
		b.showMovie(ctx, chatID, id)
	case catalog.OwnerSeries:
		b.showSeries(ctx, chatID, id)
	case catalog.OwnerEpisode:
		b.showEpisode(ctx, chatID, id)
	}
}

func (b *Bot) showMovie(ctx context.Context, chatID, id int64) {
	m, err := b.store.GetMovie(id)
	if errors.Is(err, catalog.ErrNotFound) {
		b.sendText(ctx, chatID, "That movie is no longer in the library.")
		return
	}
	if err != nil {
		b.logger.Error("loading movie", "id", id, "error", err)
		b.sendText(ctx, chatID, "Couldn't load that, please try again.")
		return
	}

	if err := b.store.IncrementMovieViews(id); err != nil {
		b.logger.Warn("bumping views", "movie", id, "error", err)
	}

	variants, err := b.store.ListVariants(catalog.OwnerMovie, id)
	if err != nil {
		b.logger.Error("loading variants", "movie", id, "error", err)
	}

	msg := gateway.Message{
		ChatID:  chatID,
		Text:    movieCaption(m),
		Buttons: variantButtons(variants, catalog.OwnerMovie),
	}
	if m.PosterRef != nil {
		msg.PhotoRef = *m.PosterRef
	}
	if b.opts.BotUsername != "" {
		msg.Buttons = append(msg.Buttons, []gateway.Button{{
			Text: "🔗 Share", URL: shareLink(b.opts.BotUsername, catalog.OwnerMovie, id),
		}})
	}
	b.send(ctx, msg)
}

func (b *Bot) showSeries(ctx context.Context, chatID, id int64) {
	sr, err := b.store.GetSeries(id)
	if errors.Is(err, catalog.ErrNotFound) {
		b.sendText(ctx, chatID, "That series is no longer in the library.")
		return
	}
	if err != nil {
		b.logger.Error("loading series", "id", id, "error", err)
		b.sendText(ctx, chatID, "Couldn't load that, please try again.")
		return
	}

	if err := b.store.IncrementSeriesViews(id); err != nil {
		b.logger.Warn("bumping views", "series", id, "error", err)
	}

	stats, err := b.store.GetSeriesStats(id)
	if err != nil {
		b.logger.Warn("loading series stats", "series", id, "error", err)
	}

	msg := gateway.Message{
		ChatID: chatID,
		Text:   seriesCaption(sr, stats),
		Buttons: [][]gateway.Button{{
			{Text: "📂 Seasons", Data: Callback{Action: ActionSeasons, Type: catalog.OwnerSeries, ID: id}.Encode()},
		}},
	}
	if sr.PosterRef != nil {
		msg.PhotoRef = *sr.PosterRef
	}
	if b.opts.BotUsername != "" {
		msg.Buttons = append(msg.Buttons, []gateway.Button{{
			Text: "🔗 Share", URL: shareLink(b.opts.BotUsername, catalog.OwnerSeries, id),
		}})
	}
	b.send(ctx, msg)
}

func (b *Bot) showSeasons(ctx context.Context, chatID, seriesID int64) {
	seasons, err := b.store.ListSeasons(seriesID)
	if err != nil {
		b.logger.Error("loading seasons", "series", seriesID, "error", err)
		b.sendText(ctx, chatID, "Couldn't load seasons, please try again.")
		return
	}
	if len(seasons) == 0 {
		b.sendText(ctx, chatID, "No seasons yet.")
		return
	}

	var rows [][]gateway.Button
	for _, se := range seasons {
		rows = append(rows, []gateway.Button{{
			Text: fmt.Sprintf("Season %d", se.Number),
			Data: Callback{Action: ActionEpisodes, Type: catalog.OwnerSeries, ID: se.ID}.Encode(),
		}})
	}
	b.send(ctx, gateway.Message{ChatID: chatID, Text: "Pick a season:", Buttons: rows})
}

func (b *Bot) showEpisodes(ctx context.Context, chatID, seasonID int64) {
	episodes, err := b.store.ListEpisodes(seasonID)
	if err != nil {
		b.logger.Error("loading episodes", "season", seasonID, "error", err)
		b.sendText(ctx, chatID, "Couldn't load episodes, please try again.")
		return
	}
	if len(episodes) == 0 {
		b.sendText(ctx, chatID, "No episodes in this season yet.")
		return
	}

	var rows [][]gateway.Button
	for _, ep := range episodes {
		label := fmt.Sprintf("Episode %d", ep.Number)
		if ep.Title != "" {
			label += " – " + ep.Title
		}
		rows = append(rows, []gateway.Button{{
			Text: label,
			Data: Callback{Action: ActionDetail, Type: catalog.OwnerEpisode, ID: ep.ID}.Encode(),
		}})
	}
	b.send(ctx, gateway.Message{ChatID: chatID, Text: "Pick an episode:", Buttons: rows})
}

func (b *Bot) showEpisode(ctx context.Context, chatID, id int64) {
	ep, err := b.store.GetEpisode(id)
	if errors.Is(err, catalog.ErrNotFound) {
		b.sendText(ctx, chatID, "That episode is no longer in the library.")
		return
	}
	if err != nil {
		b.logger.Error("loading episode", "id", id, "error", err)
		b.sendText(ctx, chatID, "Couldn't load that, please try again.")
		return
	}

	variants, err := b.store.ListVariants(catalog.OwnerEpisode, id)
	if err != nil {
		b.logger.Error("loading variants", "episode", id, "error", err)
	}

	text := fmt.Sprintf("Episode %d", ep.Number)
	if ep.Title != "" {
		text += " – " + ep.Title
	}
	b.send(ctx, gateway.Message{
		ChatID:  chatID,
		Text:    text,
		Buttons: variantButtons(variants, catalog.OwnerEpisode),
	})
}

// handleDownload re-validates membership regardless of the cache, then
// sends the stored file and bumps the owner's download counter.
func (b *Bot) handleDownload(ctx context.Context, upd gateway.Update, user *catalog.User, variantID int64) {
	if !b.isAdmin(user.ID) && !b.gate.Recheck(ctx, user) {
		b.send(ctx, gateway.Message{
			ChatID:  upd.ChatID,
			Text:    "Downloads are for channel members. Join first:",
			Buttons: joinButtons(b.gate.Channels()),
		})
		return
	}

	v, err := b.store.GetVariant(variantID)
	if errors.Is(err, catalog.ErrNotFound) {
		b.sendText(ctx, upd.ChatID, "That file is no longer available.")
		return
	}
	if err != nil {
		b.logger.Error("loading variant", "id", variantID, "error", err)
		b.sendText(ctx, upd.ChatID, "Couldn't fetch that file, please try again.")
		return
	}

	b.send(ctx, gateway.Message{ChatID: upd.ChatID, VideoRef: v.FileRef, Text: v.Quality})

	switch v.OwnerType {
	case catalog.OwnerMovie:
		err = b.store.IncrementMovieDownloads(v.OwnerID)
	case catalog.OwnerEpisode:
		err = b.store.IncrementEpisodeDownloads(v.OwnerID)
	}
	if err != nil {
		b.logger.Warn("bumping downloads", "variant", variantID, "error", err)
	}
}
