package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cinegram/cinegram/internal/catalog"
)

func init() {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Inspect and maintain catalog content",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog content",
		RunE:  runLibraryList,
	}
	listCmd.Flags().StringP("type", "t", "movie", "Content type (movie, series)")
	listCmd.Flags().StringP("category", "c", "", "Filter by category")
	listCmd.Flags().IntP("limit", "l", 50, "Maximum number of rows")

	showCmd := &cobra.Command{
		Use:   "show <type> <id>",
		Short: "Show one item with its children",
		Args:  cobra.ExactArgs(2),
		RunE:  runLibraryShow,
	}

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search titles, descriptions, tags, and aliases",
		Args:  cobra.ExactArgs(1),
		RunE:  runLibrarySearch,
	}

	editCmd := &cobra.Command{
		Use:   "edit <type> <id>",
		Short: "Update fields on an existing item",
		Long: `Update metadata on a movie, series, or episode.

Only the flags you pass change; everything else keeps its stored value.`,
		Args: cobra.ExactArgs(2),
		RunE: runLibraryEdit,
	}
	editCmd.Flags().String("title", "", "New title")
	editCmd.Flags().Int("year", 0, "New release year, 0 clears it (movies only)")
	editCmd.Flags().String("description", "", "New description")
	editCmd.Flags().String("tags", "", "New comma-separated tags")
	editCmd.Flags().String("category", "", "New category, empty clears it")
	editCmd.Flags().String("poster", "", "New poster file reference")
	editCmd.Flags().Int("number", 0, "New episode number (episodes only)")

	delCmd := &cobra.Command{
		Use:   "del <type> <id>",
		Short: "Delete an item and everything it owns",
		Args:  cobra.ExactArgs(2),
		RunE:  runLibraryDel,
	}

	libraryCmd.AddCommand(listCmd, showCmd, searchCmd, editCmd, delCmd)
	rootCmd.AddCommand(libraryCmd)
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	store, closer, err := openStore()
	if err != nil {
		return err
	}
	defer closer()

	ct, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")
	var category *string
	if c, _ := cmd.Flags().GetString("category"); c != "" {
		category = &c
	}

	switch ct {
	case "movie":
		movies, total, err := store.ListMovies(catalog.MovieFilter{
			Category: category, Sort: catalog.SortNewest, Limit: limit,
		})
		if err != nil {
			return err
		}
		fmt.Printf("%-6s %-40s %-6s %-8s %-8s\n", "ID", "TITLE", "YEAR", "VIEWS", "DLS")
		for _, m := range movies {
			year := "-"
			if m.Year != nil {
				year = strconv.Itoa(*m.Year)
			}
			fmt.Printf("%-6d %-40s %-6s %-8d %-8d\n", m.ID, truncate(m.Title, 40), year, m.Views, m.Downloads)
		}
		fmt.Printf("\n%d of %d movie(s)\n", len(movies), total)

	case "series":
		series, total, err := store.ListSeries(catalog.SeriesFilter{
			Category: category, Sort: catalog.SortNewest, Limit: limit,
		})
		if err != nil {
			return err
		}
		fmt.Printf("%-6s %-40s %-8s\n", "ID", "TITLE", "VIEWS")
		for _, sr := range series {
			fmt.Printf("%-6d %-40s %-8d\n", sr.ID, truncate(sr.Title, 40), sr.Views)
		}
		fmt.Printf("\n%d of %d series\n", len(series), total)

	default:
		return fmt.Errorf("unknown type %q (movie or series)", ct)
	}
	return nil
}

func runLibraryShow(cmd *cobra.Command, args []string) error {
	store, closer, err := openStore()
	if err != nil {
		return err
	}
	defer closer()

	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("bad id %q", args[1])
	}

	switch args[0] {
	case "movie":
		m, err := store.GetMovie(id)
		if err != nil {
			return err
		}
		fmt.Printf("Movie #%d: %s\n", m.ID, m.Title)
		if m.Year != nil {
			fmt.Printf("  Year:     %d\n", *m.Year)
		}
		fmt.Printf("  Tags:     %s\n", m.Tags)
		if m.Category != nil {
			fmt.Printf("  Category: %s\n", *m.Category)
		}
		fmt.Printf("  Views:    %d   Downloads: %d\n", m.Views, m.Downloads)
		fmt.Printf("  Added:    %s\n", m.CreatedAt.Format("2006-01-02 15:04"))
		if m.Description != "" {
			fmt.Printf("\n  %s\n", m.Description)
		}
		return printVariants(store, catalog.OwnerMovie, id)

	case "series":
		sr, err := store.GetSeries(id)
		if err != nil {
			return err
		}
		fmt.Printf("Series #%d: %s\n", sr.ID, sr.Title)
		fmt.Printf("  Tags:  %s\n", sr.Tags)
		fmt.Printf("  Views: %d\n", sr.Views)
		if sr.Description != "" {
			fmt.Printf("\n  %s\n", sr.Description)
		}

		seasons, err := store.ListSeasons(id)
		if err != nil {
			return err
		}
		for _, se := range seasons {
			fmt.Printf("\n  Season %d:\n", se.Number)
			episodes, err := store.ListEpisodes(se.ID)
			if err != nil {
				return err
			}
			for _, ep := range episodes {
				title := ep.Title
				if title == "" {
					title = "(untitled)"
				}
				fmt.Printf("    E%02d  %-36s %d download(s)\n", ep.Number, truncate(title, 36), ep.Downloads)
			}
		}
		return nil

	default:
		return fmt.Errorf("unknown type %q (movie or series)", args[0])
	}
}

func printVariants(store *catalog.Store, ct catalog.OwnerType, id int64) error {
	variants, err := store.ListVariants(ct, id)
	if err != nil {
		return err
	}
	if len(variants) == 0 {
		return nil
	}
	fmt.Println("\n  Files:")
	for _, v := range variants {
		size := "-"
		if v.SizeBytes != nil {
			size = fmt.Sprintf("%.1f MB", float64(*v.SizeBytes)/(1<<20))
		}
		fmt.Printf("    %-8s %-10s %s\n", v.Quality, size, v.FileRef)
	}
	return nil
}

func runLibrarySearch(cmd *cobra.Command, args []string) error {
	store, closer, err := openStore()
	if err != nil {
		return err
	}
	defer closer()

	results, err := store.Search(args[0], 25)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	fmt.Printf("%-6s %-8s %-40s %-6s\n", "ID", "TYPE", "TITLE", "SCORE")
	for _, r := range results {
		fmt.Printf("%-6d %-8s %-40s %.2f\n", r.ID(), r.Type, truncate(r.Title(), 40), r.Score)
	}
	return nil
}

func runLibraryEdit(cmd *cobra.Command, args []string) error {
	store, closer, err := openStore()
	if err != nil {
		return err
	}
	defer closer()

	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("bad id %q", args[1])
	}

	flags := cmd.Flags()
	strFlag := func(name string) (string, bool) {
		v, _ := flags.GetString(name)
		return v, flags.Changed(name)
	}

	switch args[0] {
	case "movie":
		m, err := store.GetMovie(id)
		if err != nil {
			return err
		}
		if v, ok := strFlag("title"); ok {
			m.Title = v
		}
		if flags.Changed("year") {
			y, _ := flags.GetInt("year")
			m.Year = nil
			if y != 0 {
				m.Year = &y
			}
		}
		if v, ok := strFlag("description"); ok {
			m.Description = v
		}
		if v, ok := strFlag("tags"); ok {
			m.Tags = v
		}
		if v, ok := strFlag("category"); ok {
			m.Category = nil
			if v != "" {
				m.Category = &v
			}
		}
		if v, ok := strFlag("poster"); ok {
			m.PosterRef = &v
		}
		if err := store.UpdateMovie(m); err != nil {
			return err
		}
		fmt.Printf("Updated movie #%d: %s\n", m.ID, m.Title)

	case "series":
		sr, err := store.GetSeries(id)
		if err != nil {
			return err
		}
		if v, ok := strFlag("title"); ok {
			sr.Title = v
		}
		if v, ok := strFlag("description"); ok {
			sr.Description = v
		}
		if v, ok := strFlag("tags"); ok {
			sr.Tags = v
		}
		if v, ok := strFlag("category"); ok {
			sr.Category = nil
			if v != "" {
				sr.Category = &v
			}
		}
		if v, ok := strFlag("poster"); ok {
			sr.PosterRef = &v
		}
		if err := store.UpdateSeries(sr); err != nil {
			return err
		}
		fmt.Printf("Updated series #%d: %s\n", sr.ID, sr.Title)

	case "episode":
		ep, err := store.GetEpisode(id)
		if err != nil {
			return err
		}
		if v, ok := strFlag("title"); ok {
			ep.Title = v
		}
		if flags.Changed("number") {
			n, _ := flags.GetInt("number")
			if n < 1 {
				return fmt.Errorf("episode number must be positive")
			}
			ep.Number = n
		}
		if err := store.UpdateEpisode(ep); err != nil {
			return err
		}
		fmt.Printf("Updated episode #%d\n", ep.ID)

	default:
		return fmt.Errorf("unknown type %q (movie, series, or episode)", args[0])
	}
	return nil
}

func runLibraryDel(cmd *cobra.Command, args []string) error {
	store, closer, err := openStore()
	if err != nil {
		return err
	}
	defer closer()

	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("bad id %q", args[1])
	}

	switch args[0] {
	case "movie":
		err = store.DeleteMovie(id)
	case "series":
		err = store.DeleteSeries(id)
	default:
		return fmt.Errorf("unknown type %q (movie or series)", args[0])
	}
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %s %s.\n", args[0], args[1])
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
