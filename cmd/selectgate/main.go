// ABOUTME: Entry point for the selectgate authentication gateway
// ABOUTME: Provides serve, health, and account provisioning commands

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"

	"github.com/selectgate/selectgate/internal/config"
	"github.com/selectgate/selectgate/internal/gateway"
	"github.com/selectgate/selectgate/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
           _           _             _
  ___  ___| | ___  ___| |_ __ _  ___| |_ ___
 / __|/ _ \ |/ _ \/ __| __/ _' |/ _' | __/ _ \
 \__ \  __/ |  __/ (__| || (_| | (_| | ||  __/
 |___/\___|_|\___|\___|\__\__, |\__,_|\__\___|
                          |___/
`

// getConfigPath returns the path to the selectgate config file.
// Priority: SELECTGATE_CONFIG env var > XDG_CONFIG_HOME/selectgate/selectgate.yaml > ~/.config/selectgate/selectgate.yaml
func getConfigPath() string {
	if envPath := os.Getenv("SELECTGATE_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "selectgate.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "selectgate", "selectgate.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: selectgate <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve                                    Start the gateway server")
		fmt.Println("  health                                   Check gateway health")
		fmt.Println("  accounts list                            List provisioned accounts")
		fmt.Println("  accounts add --id ID --external EXT --group CODE")
		fmt.Println("                                           Link an application account to an external identity")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "health":
		err = runHealth(ctx)
	case "accounts":
		err = runAccounts(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:     %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:       %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Login path: %s\n", cfg.Auth.LoginPath)
	fmt.Println()

	logger.Info("starting selectgate",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"login_path", cfg.Auth.LoginPath,
	)

	gw, err := gateway.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}

	return gw.Run(ctx)
}

func runHealth(ctx context.Context) error {
	configPath := getConfigPath()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	url := fmt.Sprintf("http://%s/health", cfg.Server.HTTPAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}

func runAccounts(ctx context.Context) error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: selectgate accounts <list|add>")
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	sqlStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer sqlStore.Close()

	switch os.Args[2] {
	case "list":
		return listAccounts(ctx, sqlStore)
	case "add":
		return addAccount(ctx, sqlStore, os.Args[3:])
	default:
		return fmt.Errorf("unknown accounts subcommand: %s", os.Args[2])
	}
}

func listAccounts(ctx context.Context, sqlStore *store.SQLiteStore) error {
	accounts, err := sqlStore.ListAccounts(ctx, 0)
	if err != nil {
		return fmt.Errorf("listing accounts: %w", err)
	}

	if len(accounts) == 0 {
		fmt.Println("no accounts provisioned")
		return nil
	}

	bold := color.New(color.Bold)
	gray := color.New(color.FgHiBlack)
	bold.Printf("%-16s %-24s %s\n", "ACCOUNT", "EXTERNAL IDENTITY", "GROUP")
	for _, a := range accounts {
		fmt.Printf("%-16s ", a.AccountID)
		color.New(color.FgCyan).Printf("%-24s ", a.ExternalID)
		gray.Println(a.GroupCode)
	}
	return nil
}

func addAccount(ctx context.Context, sqlStore *store.SQLiteStore, args []string) error {
	fs := flag.NewFlagSet("accounts add", flag.ContinueOnError)
	id := fs.String("id", "", "application account id")
	external := fs.String("external", "", "external identity to link")
	group := fs.String("group", "", "group code (determines roles)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *id == "" || *external == "" || *group == "" {
		return fmt.Errorf("accounts add requires --id, --external, and --group")
	}

	err := sqlStore.CreateAccount(ctx, &store.AccountCandidate{
		AccountID:  *id,
		ExternalID: *external,
		GroupCode:  *group,
	})
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Print("✓ ")
	fmt.Printf("linked account %s to %s (group %s)\n", *id, *external, *group)
	return nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = &colorHandler{
			level: level,
		}
	}

	return slog.New(handler)
}

// colorHandler provides colorized log output with thread-safe writes.
type colorHandler struct {
	mu     sync.Mutex
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	// Format timestamp
	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	// Colorize level
	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	// Print message
	buf.WriteString(r.Message)

	// Print handler-level attrs first (from WithAttrs)
	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}

	// Print record attrs
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Print(buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}
