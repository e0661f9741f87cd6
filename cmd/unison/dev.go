package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/unison-ui/unison/internal/config"
	"github.com/unison-ui/unison/internal/dev"
	"github.com/unison-ui/unison/internal/errors"
)

func devCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the development loop",
		Long: `Run the application, rebuilding and restarting on file change.

Live sessions reconnect automatically after a restart.

Examples:
  unison dev
  unison dev --port=8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from unison.json)")

	return cmd
}

func runDev(port int) error {
	if _, err := exec.LookPath("go"); err != nil {
		return errors.New("E143").Wrap(err)
	}

	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
		cfg.Dev.Port = port
	}

	printBanner()
	fmt.Println("  dev")
	fmt.Println()
	info("Watching for changes, app at http://%s", cfg.DevAddress())
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	loop := dev.NewLoop(cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\n\n  Shutting down...")
		cancel()
	}()

	if err := loop.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
