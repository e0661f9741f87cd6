package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/unison-ui/unison/internal/build"
	"github.com/unison-ui/unison/internal/config"
)

func buildCmd() *cobra.Command {
	var (
		output string
		target string
		clean  bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build for production",
		Long: `Build the application for production deployment.

This command:
  • Compiles the server binary with optimizations
  • Copies static assets with cache busting
  • Generates the asset manifest

Examples:
  unison build
  unison build --output=dist
  unison build --target=linux/amd64`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(output, target, clean)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from unison.json)")
	cmd.Flags().StringVar(&target, "target", "", "Build target (e.g. linux/amd64)")
	cmd.Flags().BoolVar(&clean, "clean", false, "Clean output directory before build")

	return cmd
}

func runBuild(output, target string, clean bool) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}
	if output != "" {
		cfg.Build.Output = output
	}

	fmt.Println("  Building for production...")
	fmt.Println()

	builder := build.New(cfg, build.Options{
		Target: target,
		OnProgress: func(step string) {
			info(step)
		},
	})

	if clean {
		builder.Clean()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	result, err := builder.Build(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	success("Build complete in %s", result.Duration.Round(time.Millisecond))
	fmt.Println()
	fmt.Println("  Output:")
	fmt.Printf("    %s/\n", cfg.Build.Output)
	fmt.Printf("    ├── server          (%s)\n", formatBytes(result.BinarySize))
	fmt.Printf("    ├── public/         (%d assets)\n", len(result.Manifest))
	fmt.Printf("    └── manifest.json\n")
	fmt.Println()
	fmt.Println("  To run:")
	fmt.Printf("    ./%s/server\n", cfg.Build.Output)
	fmt.Println()

	return nil
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
