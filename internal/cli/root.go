package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/pollready/pollready/internal/core/config"
	"github.com/pollready/pollready/internal/core/domain"
	"github.com/pollready/pollready/internal/infra/fetch"
	"github.com/pollready/pollready/internal/polling"
)

var (
	cfgPath string
	isDebug bool

	flagRetries        int
	flagInterval       time.Duration
	flagStrategy       string
	flagUpdateInterval time.Duration
	flagRetryServer    bool
	flagRetryFormat    bool
	flagLiveUpdates    bool
	flagNoUpdates      bool
	flagTimeout        time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "pollready [url]",
	Short: "Poll an endpoint until its data is ready",
	Long: `pollready issues a GET against an endpoint whose result may not be
available yet and transparently retries until the data is ready, the
retry budget is exhausted, or you interrupt it.`,
	Args: cobra.ExactArgs(1),
	Run:  runGet,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (optional)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")

	rootCmd.Flags().IntVar(&flagRetries, "retries", polling.DefaultRetries, "max retry attempts after the first request (0-10)")
	rootCmd.Flags().DurationVar(&flagInterval, "interval", polling.DefaultInterval, "base delay between attempts (max 60s)")
	rootCmd.Flags().StringVar(&flagStrategy, "strategy", polling.StrategyLinear.String(), "delay growth model: linear|exponential")
	rootCmd.Flags().DurationVar(&flagUpdateInterval, "update-interval", polling.DefaultUpdateInterval, "tick period for the live countdown (max 10s)")
	rootCmd.Flags().BoolVar(&flagRetryServer, "retry-on-server-failure", false, "retry on server/transport failures")
	rootCmd.Flags().BoolVar(&flagRetryFormat, "retry-on-unexpected-format", false, "retry when the body shape is malformed despite a success status")
	rootCmd.Flags().BoolVar(&flagLiveUpdates, "live-updates", true, "emit periodic countdown ticks during waits")
	rootCmd.Flags().BoolVar(&flagNoUpdates, "no-updates", false, "suppress all intermediate events, only the terminal one is printed")
	rootCmd.Flags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "per-attempt HTTP timeout")
}

// loadConfig reads the optional config file and sets up logging.
func loadConfig() *config.AppConfig {
	_ = godotenv.Load()

	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			initLogger(slog.LevelInfo)
			slog.Error("Failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	slogLevel := slog.LevelInfo
	if isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}
	initLogger(slogLevel)

	return cfg
}

func initLogger(level slog.Level) {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	})))
}

func runGet(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	opts := cfg.Poll
	applyFlagOverrides(cmd, &opts)

	client := polling.NewClient(fetch.NewFetcher(flagTimeout), slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	var interrupted atomic.Bool
	go func() {
		<-sigChan
		interrupted.Store(true)
		cancel()
	}()

	events, err := client.Get(ctx, args[0], opts)
	if err != nil {
		slog.Error("Invalid invocation", "error", err)
		os.Exit(1)
	}

	var last *domain.ProgressEvent
	for ev := range events {
		render(ev)
		e := ev
		last = &e
	}

	switch {
	case interrupted.Load():
		os.Exit(130)
	case last != nil && last.Ready:
		os.Exit(0)
	default:
		os.Exit(1)
	}
}

// applyFlagOverrides lets explicitly set flags win over the config file.
func applyFlagOverrides(cmd *cobra.Command, opts *polling.Options) {
	if cmd.Flags().Changed("retries") {
		opts.Retries = flagRetries
	}
	if cmd.Flags().Changed("interval") {
		opts.Interval = flagInterval
	}
	if cmd.Flags().Changed("strategy") {
		opts.Strategy = polling.Strategy(flagStrategy)
	}
	if cmd.Flags().Changed("update-interval") {
		opts.UpdateInterval = flagUpdateInterval
	}
	if cmd.Flags().Changed("retry-on-server-failure") {
		opts.RetryOnServerFailure = flagRetryServer
	}
	if cmd.Flags().Changed("retry-on-unexpected-format") {
		opts.RetryOnUnexpectedFormat = flagRetryFormat
	}
	if cmd.Flags().Changed("live-updates") {
		opts.LiveUpdates = flagLiveUpdates
	}
	if cmd.Flags().Changed("no-updates") {
		opts.NoUpdates = flagNoUpdates
	}
}

// render prints one progress event for human consumption. This is the
// display collaborator: it only consumes the engine's emitted events.
func render(ev domain.ProgressEvent) {
	switch {
	case ev.Ready:
		fmt.Printf("✅ ready: %v\n", ev.Data)
	case ev.Loading:
		fmt.Println("⏳ requesting...")
	case ev.Err != nil && ev.Err.Message != "":
		fmt.Printf("🔄 %s (%s)\n", ev.Err.Message, ev.Err.ErrorCode)
	case ev.Err != nil:
		fmt.Printf("❌ %s: %s\n", ev.Err.ErrorCode, ev.Err.ErrorMessage)
	}
}
