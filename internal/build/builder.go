package build

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/unison-ui/unison/internal/config"
	"github.com/unison-ui/unison/internal/errors"
)

// Result contains the build output.
type Result struct {
	// Duration is how long the build took.
	Duration time.Duration

	// Binary is the path to the compiled server binary.
	Binary string

	// Public is the path to the copied static assets.
	Public string

	// Manifest maps original asset paths to their hashed names.
	Manifest map[string]string

	// BinarySize is the size of the server binary in bytes.
	BinarySize int64
}

// Options configures the builder. Zero values fall back to the
// project's build configuration.
type Options struct {
	// StripSymbols strips debug symbols from the binary.
	StripSymbols bool

	// Target is the Go build target (e.g. "linux/amd64").
	Target string

	// Tags are build tags.
	Tags []string

	// OnProgress is called with progress updates.
	OnProgress func(step string)
}

// Builder handles production builds.
type Builder struct {
	config  *config.Config
	options Options
}

// New creates a builder for the project, folding the project's build
// settings into any explicitly supplied options.
func New(cfg *config.Config, options Options) *Builder {
	if !options.StripSymbols && cfg.Build.StripSymbols {
		options.StripSymbols = true
	}
	if options.Target == "" {
		options.Target = cfg.Build.Target
	}
	if len(options.Tags) == 0 {
		options.Tags = cfg.Build.Tags
	}

	return &Builder{
		config:  cfg,
		options: options,
	}
}

// Build performs a production build: compile the server binary, copy
// static assets with content hashes, and write the manifest.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{
		Manifest: make(map[string]string),
	}

	outputDir := b.config.OutputPath()
	publicDir := filepath.Join(outputDir, "public")

	b.progress("Cleaning output directory...")
	if err := os.RemoveAll(outputDir); err != nil {
		return nil, errors.New("E142").Wrap(err)
	}
	if err := os.MkdirAll(publicDir, 0o755); err != nil {
		return nil, errors.New("E142").Wrap(err)
	}

	b.progress("Compiling server...")
	binaryPath := filepath.Join(outputDir, "server")
	if err := b.buildGo(ctx, binaryPath); err != nil {
		return nil, err
	}
	result.Binary = binaryPath
	if info, err := os.Stat(binaryPath); err == nil {
		result.BinarySize = info.Size()
	}

	b.progress("Copying static assets...")
	if err := b.copyAssets(publicDir, result.Manifest); err != nil {
		return nil, err
	}

	b.progress("Writing manifest...")
	if err := writeManifest(outputDir, result.Manifest); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	result.Public = publicDir

	return result, nil
}

// goArgs returns the go build argument list for the given output path.
func (b *Builder) goArgs(output string) []string {
	args := []string{"build", "-o", output, "-trimpath"}

	if b.options.StripSymbols {
		args = append(args, "-ldflags", "-s -w")
	}

	if len(b.options.Tags) > 0 {
		args = append(args, "-tags", strings.Join(b.options.Tags, ","))
	}

	args = append(args, ".")
	return args
}

// goEnv returns the environment for the go build invocation.
func (b *Builder) goEnv() []string {
	env := os.Environ()
	if b.options.Target != "" {
		parts := strings.Split(b.options.Target, "/")
		if len(parts) == 2 {
			env = append(env, "GOOS="+parts[0], "GOARCH="+parts[1])
		}
	}
	env = append(env, "CGO_ENABLED=0")
	return env
}

// buildGo compiles the server binary.
func (b *Builder) buildGo(ctx context.Context, output string) error {
	if _, err := exec.LookPath("go"); err != nil {
		return errors.New("E143").Wrap(err)
	}

	cmd := exec.CommandContext(ctx, "go", b.goArgs(output)...)
	cmd.Dir = b.config.Dir()
	cmd.Env = b.goEnv()

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return errors.New("E142").
			WithDetail(stderr.String()).
			Wrap(err)
	}

	return nil
}

// copyAssets copies the project's static directory into publicDir with
// content-hashed names, recording the mapping in manifest.
func (b *Builder) copyAssets(publicDir string, manifest map[string]string) error {
	srcDir := b.config.StaticPath()
	if srcDir == "" {
		return nil
	}
	if _, err := os.Stat(srcDir); os.IsNotExist(err) {
		return nil
	}

	return filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		hash, err := hashFile(path)
		if err != nil {
			return err
		}

		ext := filepath.Ext(relPath)
		base := strings.TrimSuffix(filepath.Base(relPath), ext)
		hashedName := fmt.Sprintf("%s.%s%s", base, hash[:8], ext)

		destRel := hashedName
		if dir := filepath.Dir(relPath); dir != "." {
			destRel = dir + "/" + hashedName
		}

		destPath := filepath.Join(publicDir, filepath.FromSlash(destRel))
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return err
		}
		if err := copyFile(path, destPath); err != nil {
			return err
		}

		manifest[relPath] = destRel
		return nil
	})
}

// writeManifest writes the asset manifest as JSON.
func writeManifest(outputDir string, manifest map[string]string) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, "manifest.json"), data, 0o644)
}

// progress reports build progress.
func (b *Builder) progress(step string) {
	if b.options.OnProgress != nil {
		b.options.OnProgress(step)
	}
}

// hashFile returns the hex SHA256 of a file's contents.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies src to dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// Clean removes the build output directory.
func (b *Builder) Clean() error {
	return os.RemoveAll(b.config.OutputPath())
}
