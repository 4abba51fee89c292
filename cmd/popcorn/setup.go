package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmcdole/popcorn/internal/config"
	"github.com/mmcdole/popcorn/internal/domain"
	"github.com/mmcdole/popcorn/internal/tui/styles"
)

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

// setupCmd stores a TMDB access token in the config file
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure your TMDB access token",
	Long: `Prompt for a TMDB API read access token, verify it against the
server and save it to the config file.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println()
	fmt.Println("Welcome to popcorn!")
	fmt.Println()
	fmt.Println("Create a read access token at https://www.themoviedb.org/settings/api")
	fmt.Println()

	var token string
	for {
		input, err := readToken("Enter your TMDB read access token: ")
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		token = strings.TrimSpace(input)

		if token == "" {
			fmt.Println("Token cannot be empty. Please try again.")
			continue
		}

		fmt.Println()
		err = verifyTokenWithSpinner(token)
		if err == nil {
			break
		}

		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			fmt.Println("✗ TMDB rejected this token. Please try again.")
			fmt.Println()
			continue
		}
		if domain.IsNoConnectivity(err) {
			fmt.Println("! Could not reach TMDB; saving the token without verifying it.")
			break
		}
		return fmt.Errorf("failed to verify token: %w", err)
	}

	cfg.TMDB.Token = token

	path, err := config.Save(cfg, cfgFile)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Printf("✓ Configuration saved to %s\n", path)
	fmt.Println()
	fmt.Println("Run popcorn to start browsing.")

	return nil
}

// readToken reads a secret without echo when stdin is a terminal
func readToken(prompt string) (string, error) {
	fmt.Print(prompt)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		return string(b), err
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}

// verifyTokenWithSpinner fetches the first popular page with a visual spinner
func verifyTokenWithSpinner(token string) error {
	client, err := newClient(token)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.TMDB.Timeout)
	defer cancel()

	resultCh := make(chan error, 1)
	go func() {
		_, err := client.PopularMovies(ctx, 1)
		resultCh <- err
	}()

	frame := 0
	fmt.Printf("\r%s Verifying token...", styles.SpinnerFrames[frame])

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-resultCh:
			fmt.Print(clearSpinnerLine)
			if err != nil {
				return err
			}
			fmt.Println("✓ Token verified")
			return nil

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Verifying token...", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])
		}
	}
}
