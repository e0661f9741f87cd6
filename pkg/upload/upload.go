package upload

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrNotFound is returned when a temp file does not exist.
var ErrNotFound = errors.New("upload: file not found")

// ErrTooLarge is returned when a file exceeds the size limit.
var ErrTooLarge = errors.New("upload: file too large")

// Store is a staging area for uploaded files. Files land in the store
// via the HTTP handler and sit there until a component handler claims
// them by temp ID; unclaimed files are removed by Cleanup.
type Store interface {
	// Save stores an uploaded file and returns its temp ID.
	Save(ctx context.Context, filename, contentType string, size int64, r io.Reader) (string, error)

	// Claim retrieves and consumes a staged file. Claiming an unknown
	// ID returns ErrNotFound.
	Claim(ctx context.Context, tempID string) (*File, error)

	// Cleanup removes staged files older than maxAge.
	Cleanup(ctx context.Context, maxAge time.Duration) error
}

// File is a claimed upload.
type File struct {
	// ID is the temp ID the file was claimed by.
	ID string

	// Filename is the original client-side filename.
	Filename string

	// ContentType is the MIME type reported by the client.
	ContentType string

	// Size is the stored size in bytes.
	Size int64

	// Path is the local filesystem path. Set by DiskStore.
	Path string

	// URL is a presigned remote URL. Set by S3Store.
	URL string

	// Reader streams the file contents. Closing it releases the
	// underlying storage.
	Reader io.ReadCloser
}

// Close closes the file reader if open.
func (f *File) Close() error {
	if f.Reader != nil {
		return f.Reader.Close()
	}
	return nil
}

// Config tunes the upload handler.
type Config struct {
	// MaxFileSize caps uploads in bytes. Default: 10MB.
	MaxFileSize int64

	// TempExpiry is how long staged files live before Cleanup removes
	// them. Default: 1 hour.
	TempExpiry time.Duration

	// Logger receives handler diagnostics. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() *Config {
	return &Config{
		MaxFileSize: 10 * 1024 * 1024,
		TempExpiry:  time.Hour,
		Logger:      slog.Default(),
	}
}

// Handler returns an http.Handler accepting multipart uploads on the
// "file" field. Responses are JSON: {"temp_id": "..."}.
//
// Mount it on the server router:
//
//	srv.Router().Post("/_unison/upload", upload.Handler(store).ServeHTTP)
func Handler(store Store) http.Handler {
	return HandlerWithConfig(store, DefaultConfig())
}

// HandlerWithConfig returns an upload handler with custom configuration.
func HandlerWithConfig(store Store, config *Config) http.Handler {
	if config == nil {
		config = DefaultConfig()
	}
	maxSize := config.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultConfig().MaxFileSize
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// Cap the body before parsing so oversized uploads fail fast
		r.Body = http.MaxBytesReader(w, r.Body, maxSize)

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "malformed multipart form", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "no file provided", http.StatusBadRequest)
			return
		}
		defer file.Close()

		tempID, err := store.Save(r.Context(),
			header.Filename,
			header.Header.Get("Content-Type"),
			header.Size,
			file,
		)
		if err != nil {
			if errors.Is(err, ErrTooLarge) {
				http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
				return
			}
			logger.Error("upload save failed", "filename", header.Filename, "error", err)
			http.Error(w, "upload failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"temp_id": tempID})
	})
}

// RunCleanup sweeps the store every interval until ctx is cancelled.
func RunCleanup(ctx context.Context, store Store, interval, maxAge time.Duration, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.Cleanup(ctx, maxAge); err != nil {
				logger.Warn("upload cleanup failed", "error", err)
			}
		}
	}
}
