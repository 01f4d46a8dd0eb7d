package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/justchokingaround/reel/internal/catalog"
	"github.com/justchokingaround/reel/internal/genre"
	"github.com/justchokingaround/reel/internal/history"
	"github.com/justchokingaround/reel/internal/rating"
	"github.com/justchokingaround/reel/internal/tui/styles"
	"github.com/justchokingaround/reel/internal/tui/utils"
)

var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "Print a page of the popular movies feed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		if err := cfg.RequireCredentials(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout())
		defer cancel()

		movies, err := newCatalog().FetchPopular(ctx, page)
		if err != nil {
			return fmt.Errorf("failed to fetch popular movies: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Popular movies (page %d)\n\n", page)
		printMovies(cmd.OutOrStdout(), movies)
		return nil
	},
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Print a page of movies matching all of the given genres",
	Example: `  reel discover --genres 28,35
  reel discover --genres 878 --page 2`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		raw, _ := cmd.Flags().GetString("genres")

		sel, err := genre.ParseSelection(raw)
		if err != nil {
			return fmt.Errorf("invalid --genres: %w", err)
		}
		if sel.Empty() {
			return fmt.Errorf("--genres needs at least one genre id (see 'reel genres')")
		}
		if err := cfg.RequireCredentials(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout())
		defer cancel()

		movies, err := newCatalog().FetchByGenres(ctx, sel, page)
		if err != nil {
			return fmt.Errorf("failed to discover movies: %w", err)
		}

		names := genre.NewDirectory().Names(sel)
		fmt.Fprintf(cmd.OutOrStdout(), "%s (page %d)\n\n", strings.Join(names, ", "), page)
		printMovies(cmd.OutOrStdout(), movies)
		return nil
	},
}

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the genres accepted by --genres",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, g := range genre.NewDirectory().All() {
			fmt.Fprintf(out, "%6d  %s\n", g.ID, g.Name)
		}
	},
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently viewed movies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		clearHistory, _ := cmd.Flags().GetBool("clear")

		hist := history.NewService(db)
		if clearHistory {
			if err := hist.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Viewing history cleared.")
			return nil
		}

		entries, err := hist.Recent(limit)
		if err != nil {
			return err
		}
		printRecent(cmd.OutOrStdout(), entries, time.Now())
		return nil
	},
}

func init() {
	popularCmd.Flags().IntP("page", "p", 1, "page number")
	discoverCmd.Flags().IntP("page", "p", 1, "page number")
	discoverCmd.Flags().StringP("genres", "g", "", "comma separated genre ids, e.g. 28,35")
	_ = discoverCmd.MarkFlagRequired("genres")
	recentCmd.Flags().IntP("limit", "n", 20, "number of movies to show (0 for all)")
	recentCmd.Flags().Bool("clear", false, "delete the viewing history")
}

// scoreLabel renders the user score, colored by tier unless --no-color is set
func scoreLabel(voteAverage float64) string {
	b := rating.For(voteAverage)
	label := fmt.Sprintf("%d%%", b.Percent)
	if noColor {
		return fmt.Sprintf("%5s", label)
	}
	return styles.BadgeStyle(b).Width(6).Align(lipgloss.Right).Render(label)
}

func printMovies(w io.Writer, movies []catalog.Movie) {
	if len(movies) == 0 {
		fmt.Fprintln(w, "No movies found")
		return
	}

	for _, m := range movies {
		fmt.Fprintf(w, "%s  %8d  %-12s  %s\n",
			scoreLabel(m.VoteAverage),
			m.ID,
			utils.FormatReleaseDate(m.ReleaseDate, "-"),
			utils.TruncateWithWidth(m.Title, 60),
		)
	}
}

func printRecent(w io.Writer, entries []history.Entry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No movies viewed yet")
		return
	}

	for _, e := range entries {
		views := ""
		if e.Views > 1 {
			views = fmt.Sprintf("  (%d views)", e.Views)
		}
		fmt.Fprintf(w, "%s  %-40s  %s%s\n",
			scoreLabel(e.VoteAverage),
			utils.TruncateWithWidth(e.Title, 40),
			e.ViewedAgo(now),
			views,
		)
	}
}
