package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmcdole/popcorn/internal/domain"
)

var (
	noConfirmClear bool
	listMatch      string
	listLimit      int
	warmPages      int
)

// cacheCmd groups the offline cache maintenance commands
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the offline movie cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache location and size",
	Args:  cobra.NoArgs,
	RunE:  runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached movie",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached movies, newest first",
	Long: `List the movies available offline. With --match the titles are
fuzzy-matched against the query and ranked by closeness.`,
	Args: cobra.NoArgs,
	RunE: runCacheList,
}

var cacheWarmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Prefetch popular movies for offline use",
	Long: `Download the first pages of the popular listing so they can be browsed
offline. By default enough pages are fetched to fill the cache limit.`,
	Args: cobra.NoArgs,
	RunE: runCacheWarm,
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd, cacheClearCmd, cacheListCmd, cacheWarmCmd)

	cacheClearCmd.Flags().BoolVarP(&noConfirmClear, "yes", "y", false, "skip confirmation prompt")
	cacheListCmd.Flags().StringVarP(&listMatch, "match", "m", "", "fuzzy-match titles against a query")
	cacheListCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "show at most this many movies (0 for all)")
	cacheWarmCmd.Flags().IntVarP(&warmPages, "pages", "p", 0, "number of pages to fetch (default fills the cache limit)")
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()
	svc := newService(nil, st)

	count, err := svc.CachedCount()
	if err != nil {
		return fmt.Errorf("failed to count cached movies: %w", err)
	}

	fmt.Printf("Location:  %s\n", st.Path())
	fmt.Printf("Movies:    %d of %d\n", count, cfg.Cache.MaxMovies)
	fmt.Printf("Retention: %d days\n", svc.RetentionDays())
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	svc, closeCatalog, err := openCatalog(false)
	if err != nil {
		return err
	}
	defer closeCatalog()

	count, err := svc.CachedCount()
	if err != nil {
		return fmt.Errorf("failed to count cached movies: %w", err)
	}
	if count == 0 {
		fmt.Println("Cache is already empty.")
		return nil
	}

	if !noConfirmClear {
		fmt.Printf("Remove %d cached movies? [y/N]: ", count)
		var response string
		fmt.Scanln(&response)
		if strings.ToLower(strings.TrimSpace(response)) != "y" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := svc.ClearCache(); err != nil {
		return err
	}
	fmt.Printf("✓ Cleared %d cached movies\n", count)
	return nil
}

func runCacheList(cmd *cobra.Command, args []string) error {
	svc, closeCatalog, err := openCatalog(false)
	if err != nil {
		return err
	}
	defer closeCatalog()

	ctx := context.Background()
	var movies []domain.Movie
	if listMatch != "" {
		movies, err = svc.FindCached(ctx, listMatch)
	} else {
		movies, err = svc.GetCachedMovies(ctx)
	}
	if err != nil {
		return err
	}

	if len(movies) == 0 {
		fmt.Println("No cached movies found.")
		return nil
	}
	if listLimit > 0 && len(movies) > listLimit {
		movies = movies[:listLimit]
	}

	for _, m := range movies {
		fmt.Printf("• %s (%s)  ★ %s\n", m.Title, m.ReleaseYear(), m.FormattedRating())
	}
	return nil
}

func runCacheWarm(cmd *cobra.Command, args []string) error {
	if !cfg.IsConfigured() {
		return fmt.Errorf("no TMDB access token configured; run `popcorn setup` first")
	}

	pages := warmPages
	if pages == 0 {
		pages = max(cfg.Cache.MaxMovies/cfg.Browse.PageSize, 1)
	}

	svc, closeCatalog, err := openCatalog(true)
	if err != nil {
		return err
	}
	defer closeCatalog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := svc.Warm(ctx, pages, func(done, total int) {
		fmt.Printf("\rFetching popular movies... %d/%d pages", done, total)
	})
	fmt.Println()
	if err != nil {
		return fmt.Errorf("warm stopped after %d pages: %w", result.Pages, err)
	}

	fmt.Printf("✓ Cached %d movies from %d pages\n", result.Movies, result.Pages)
	return nil
}
