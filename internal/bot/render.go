// internal/bot/render.go
package bot

import (
	"fmt"
	"strings"

	"github.com/cinegram/cinegram/internal/catalog"
	"github.com/cinegram/cinegram/internal/gateway"
)

func mainMenuButtons() [][]gateway.Button {
	return [][]gateway.Button{
		{
			{Text: "🎬 Movies", Data: Callback{Action: ActionMenu, Type: catalog.OwnerMovie}.Encode()},
			{Text: "📺 Series", Data: Callback{Action: ActionMenu, Type: catalog.OwnerSeries}.Encode()},
		},
	}
}

func sortMenuButtons(ct catalog.OwnerType) [][]gateway.Button {
	rows := [][]gateway.Button{
		{
			{Text: "Newest", Data: Callback{Action: ActionList, Type: ct, Sort: catalog.SortNewest}.Encode()},
			{Text: "A–Z", Data: Callback{Action: ActionList, Type: ct, Sort: catalog.SortAlphabetical}.Encode()},
		},
	}
	if ct == catalog.OwnerMovie {
		rows[0] = append(rows[0], gateway.Button{
			Text: "By year", Data: Callback{Action: ActionList, Type: ct, Sort: catalog.SortYearDesc}.Encode(),
		})
	}
	rows = append(rows, []gateway.Button{{
		Text: "🗂 By category", Data: Callback{Action: ActionCategories, Type: ct}.Encode(),
	}})
	return rows
}

// categoryButtons renders one listing entry point per category in use.
func categoryButtons(ct catalog.OwnerType, categories []string) [][]gateway.Button {
	var rows [][]gateway.Button
	for _, c := range categories {
		rows = append(rows, []gateway.Button{{
			Text: c,
			Data: Callback{Action: ActionList, Type: ct, Sort: catalog.SortNewest, Category: c}.Encode(),
		}})
	}
	return rows
}

// listButtons renders one result page: a button per row plus a navigation
// row built from the exact total count.
func listButtons(ct catalog.OwnerType, titles []string, ids []int64, page, pageSize, total int, sort catalog.SortOrder, category string) [][]gateway.Button {
	var rows [][]gateway.Button
	for i := range titles {
		rows = append(rows, []gateway.Button{{
			Text: titles[i],
			Data: Callback{Action: ActionDetail, Type: ct, ID: ids[i]}.Encode(),
		}})
	}
	if nav := navRow(ct, page, pageSize, total, sort, category); nav != nil {
		rows = append(rows, nav)
	}
	return rows
}

// navRow emits prev/next controls. Next appears only when rows remain
// past this page, so a total that is an exact multiple of the page size
// never shows a dead next button.
func navRow(ct catalog.OwnerType, page, pageSize, total int, sort catalog.SortOrder, category string) []gateway.Button {
	var nav []gateway.Button
	if page > 0 {
		nav = append(nav, gateway.Button{
			Text: "« Prev",
			Data: Callback{Action: ActionList, Type: ct, Page: page - 1, Sort: sort, Category: category}.Encode(),
		})
	}
	if (page+1)*pageSize < total {
		nav = append(nav, gateway.Button{
			Text: "Next »",
			Data: Callback{Action: ActionList, Type: ct, Page: page + 1, Sort: sort, Category: category}.Encode(),
		})
	}
	return nav
}

func movieCaption(m *catalog.Movie) string {
	var b strings.Builder
	b.WriteString("🎬 " + m.Title)
	if m.Year != nil {
		fmt.Fprintf(&b, " (%d)", *m.Year)
	}
	b.WriteString("\n")
	if m.Description != "" {
		b.WriteString("\n" + m.Description + "\n")
	}
	if m.Tags != "" {
		b.WriteString("\n🏷 " + m.Tags)
	}
	if m.Category != nil {
		b.WriteString("\n📂 " + *m.Category)
	}
	fmt.Fprintf(&b, "\n👁 %d   ⬇️ %d", m.Views, m.Downloads)
	return b.String()
}

func seriesCaption(sr *catalog.Series, stats *catalog.SeriesStats) string {
	var b strings.Builder
	b.WriteString("📺 " + sr.Title + "\n")
	if sr.Description != "" {
		b.WriteString("\n" + sr.Description + "\n")
	}
	if sr.Tags != "" {
		b.WriteString("\n🏷 " + sr.Tags)
	}
	if stats != nil {
		fmt.Fprintf(&b, "\n%d season(s), %d episode(s)", stats.SeasonCount, stats.EpisodeCount)
	}
	fmt.Fprintf(&b, "\n👁 %d", sr.Views)
	return b.String()
}

// variantButtons renders one download button per quality variant.
func variantButtons(variants []*catalog.QualityVariant, ct catalog.OwnerType) [][]gateway.Button {
	var rows [][]gateway.Button
	for _, v := range variants {
		label := "⬇️ " + v.Quality
		if v.SizeBytes != nil {
			label += " (" + formatSize(*v.SizeBytes) + ")"
		}
		rows = append(rows, []gateway.Button{{
			Text: label,
			Data: Callback{Action: ActionDownload, Type: ct, ID: v.ID}.Encode(),
		}})
	}
	return rows
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.0f MB", float64(n)/(1<<20))
	default:
		return fmt.Sprintf("%d KB", n/(1<<10))
	}
}

// joinButtons links every required channel plus the confirmation tap.
func joinButtons(channels []string) [][]gateway.Button {
	var rows [][]gateway.Button
	for _, ch := range channels {
		rows = append(rows, []gateway.Button{{
			Text: ch,
			URL:  "https://t.me/" + strings.TrimPrefix(ch, "@"),
		}})
	}
	rows = append(rows, []gateway.Button{{
		Text: "✅ I've joined",
		Data: Callback{Action: ActionJoined}.Encode(),
	}})
	return rows
}

func shareLink(botUsername string, ct catalog.OwnerType, id int64) string {
	return fmt.Sprintf("https://t.me/%s?start=share_%s_%d", botUsername, ct, id)
}
