package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	apiBase   string
	ownerID   string
	cachePath string
)

func main() {
	home, _ := os.UserHomeDir()
	defaultCache := filepath.Join(home, ".snipvault", "library.db")

	rootCmd := &cobra.Command{
		Use:   "snipctl",
		Short: "Command line client for the snipvault code library",
	}

	rootCmd.PersistentFlags().StringVar(&apiBase, "api", envOr("SNIPVAULT_API", "http://localhost:8080"), "base URL of the snipvault API")
	rootCmd.PersistentFlags().StringVar(&ownerID, "owner", os.Getenv("SNIPVAULT_OWNER"), "owner id for library operations")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", defaultCache, "path of the local library cache")

	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(nameCmd())
	rootCmd.AddCommand(similarCmd())
	rootCmd.AddCommand(libraryCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(syncCmd())
	rootCmd.AddCommand(organizeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// readInput returns the content of the file argument, or stdin when the
// argument is absent or "-".
func readInput(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return string(raw), nil
	}
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(raw), nil
}

func requireOwner() error {
	if strings.TrimSpace(ownerID) == "" {
		return fmt.Errorf("owner id is required: pass --owner or set SNIPVAULT_OWNER")
	}
	return nil
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
