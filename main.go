package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"library-dashboard/library"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	configPath string
	apiURL     string
	statePath  string
	noPersist  bool
	verbose    bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "librarian",
		Short:        "Terminal front end for the library management API",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withManager(func(mgr *library.LibraryManager) error {
				runInteractive(cmd.Context(), bufio.NewScanner(os.Stdin), mgr)
				return nil
			})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML config file")
	pf.StringVar(&apiURL, "api-url", "", "API base URL (overrides config and "+library.EnvAPIURL+")")
	pf.StringVar(&statePath, "state", "", "SQLite file holding the session (default "+library.DefaultStatePath+")")
	pf.BoolVar(&noPersist, "no-persist", false, "keep the session in memory only")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newStatusCmd(),
		newTabCmd("stats", "Show library statistics", library.TabOverview),
		newTabCmd("books", "List books", library.TabBooks),
		newTabCmd("students", "List students", library.TabStudents),
		newTabCmd("transactions", "List borrow records", library.TabTransactions),
		newPositionsCmd(),
	)
	return root
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig resolves file and environment settings, then applies flags.
func loadConfig() (library.Config, error) {
	cfg, err := library.LoadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}
	if statePath != "" {
		cfg.StatePath = statePath
	}
	if noPersist {
		cfg.StatePath = ""
	}
	return cfg, cfg.Validate()
}

// withManager opens the manager for the duration of fn.
func withManager(fn func(mgr *library.LibraryManager) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mgr, err := library.NewLibraryManager(cfg, newLogger())
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer mgr.Close()

	mgr.Router.OnNavigate = func(_, to library.Route) {
		switch to {
		case library.RouteLogin:
			fmt.Println("→ Please log in.")
		case library.RouteDashboard:
			fmt.Println("→ Dashboard")
		}
	}
	return fn(mgr)
}

// readPassword securely reads a password with masking. When stdin is not a
// terminal the line is read from sc instead.
func readPassword(sc *bufio.Scanner, prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("no input")
		}
		return strings.TrimSpace(sc.Text()), nil
	}
	bytePassword, err := term.ReadPassword(fd)
	if err != nil {
		return "", err
	}
	fmt.Println() // Add newline after password input
	return strings.TrimSpace(string(bytePassword)), nil
}

// prompt prints label and returns the next trimmed line. ok is false at EOF.
func prompt(sc *bufio.Scanner, label string) (string, bool) {
	fmt.Print(label)
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}
