package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pollready/pollready/internal/infra/mockapi"
)

var (
	mockAddr       string
	mockReadyAfter int
	mockReadyDelay time.Duration
	mockMode       string
	mockData       string
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run the mock backend used for manual testing",
	Run:   runMock,
}

func init() {
	mockCmd.Flags().StringVar(&mockAddr, "addr", ":8404", "listen address")
	mockCmd.Flags().IntVar(&mockReadyAfter, "ready-after", 3, "requests to serve not-ready before the data becomes ready")
	mockCmd.Flags().DurationVar(&mockReadyDelay, "ready-delay", 0, "minimum uptime before the data becomes ready")
	mockCmd.Flags().StringVar(&mockMode, "mode", string(mockapi.ModeReady), "response mode: ready|server-error|bad-format|bad-not-ready")
	mockCmd.Flags().StringVar(&mockData, "data", "", "payload served once ready")
	rootCmd.AddCommand(mockCmd)
}

func runMock(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	mock := cfg.Mock
	if cmd.Flags().Changed("addr") || mock.Addr == "" {
		mock.Addr = mockAddr
	}
	if cmd.Flags().Changed("ready-after") {
		mock.ReadyAfter = mockReadyAfter
	}
	if cmd.Flags().Changed("ready-delay") {
		mock.ReadyDelay = mockReadyDelay
	}
	if cmd.Flags().Changed("mode") {
		mock.Mode = mockapi.Mode(mockMode)
	}
	if cmd.Flags().Changed("data") {
		mock.Data = mockData
	}

	server := mockapi.NewServer(mock, slog.Default())

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		slog.Error("Mock backend failed", "error", err)
		os.Exit(1)
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		slog.Error("Error during shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Mock backend stopped gracefully")
}
