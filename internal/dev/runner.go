package dev

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/unison-ui/unison/internal/errors"
)

// RunnerConfig configures the compile-and-run cycle.
type RunnerConfig struct {
	// ProjectDir is the project root containing the main package.
	ProjectDir string

	// BinaryPath is where the compiled binary is written.
	// Defaults to <ProjectDir>/.unison/server.
	BinaryPath string

	// Tags are build tags for go build.
	Tags []string

	// Env are extra environment variables for the running process.
	Env []string
}

// BuildResult is the outcome of one compilation.
type BuildResult struct {
	// Success reports whether the build compiled cleanly.
	Success bool

	// Duration is how long the build took.
	Duration time.Duration

	// Output is the compiler output, usually empty on success.
	Output string

	// Error carries the failure, if any.
	Error error
}

// Runner compiles the project and manages the running process.
type Runner struct {
	config RunnerConfig

	mu      sync.Mutex
	process *processHandle
}

// NewRunner creates a runner for the project.
func NewRunner(config RunnerConfig) *Runner {
	if config.BinaryPath == "" {
		config.BinaryPath = filepath.Join(config.ProjectDir, ".unison", "server")
	}
	return &Runner{config: config}
}

// Build compiles the project into the configured binary path.
func (r *Runner) Build(ctx context.Context) BuildResult {
	start := time.Now()

	if err := os.MkdirAll(filepath.Dir(r.config.BinaryPath), 0o755); err != nil {
		return BuildResult{
			Duration: time.Since(start),
			Error:    errors.New("E142").Wrap(err),
		}
	}

	args := []string{"build", "-o", r.config.BinaryPath}
	if len(r.config.Tags) > 0 {
		args = append(args, "-tags", strings.Join(r.config.Tags, ","))
	}
	args = append(args, ".")

	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = r.config.ProjectDir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	result := BuildResult{
		Success:  err == nil,
		Duration: time.Since(start),
		Output:   out.String(),
	}
	if err != nil {
		result.Error = errors.New("E142").WithDetail(out.String()).Wrap(err)
	}
	return result
}

// Start launches the compiled binary, stopping any previous process.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.process != nil {
		stopProcess(r.process)
		r.process = nil
	}

	env := append(os.Environ(), "UNISON_DEV=1")
	env = append(env, r.config.Env...)

	proc, err := startProcess(ctx, r.config.BinaryPath, r.config.ProjectDir, env)
	if err != nil {
		return errors.New("E142").Wrap(err)
	}
	r.process = proc
	return nil
}

// Stop terminates the running process, if any.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.process != nil {
		stopProcess(r.process)
		r.process = nil
	}
}

// Restart stops the process and starts a fresh one.
func (r *Runner) Restart(ctx context.Context) error {
	r.Stop()
	return r.Start(ctx)
}

// IsRunning reports whether a process is active.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.process != nil
}

// BinaryPath returns where the compiled binary is written.
func (r *Runner) BinaryPath() string {
	return r.config.BinaryPath
}

// Clean stops the process and removes the compiled binary.
func (r *Runner) Clean() error {
	r.Stop()
	if err := os.Remove(r.config.BinaryPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
