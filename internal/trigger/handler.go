package trigger

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/blob-trigger/internal/config"
	"github.com/phrazzld/blob-trigger/internal/worker"
)

// BlobPathSetting is the setting holding the container and prefix the
// trigger watches. It is read again on every invocation.
const BlobPathSetting = "BlobPath"

// BlobOpener opens the content of a stored object for reading.
type BlobOpener interface {
	Open(ctx context.Context, bucket, object string) (io.ReadCloser, error)
}

// loggerBinder is implemented by workers that can write to the logger of the
// invocation they run in.
type loggerBinder interface {
	WithLogger(logger *slog.Logger) worker.Worker
}

// ConfigLoader loads the merged settings for a function app directory.
type ConfigLoader func(appDir string) (*config.Values, error)

// Options configures a Handler.
type Options struct {
	// FunctionName is reported in host log lines and execution contexts.
	FunctionName string

	// AppDirectory is where the local settings file is looked up.
	AppDirectory string

	// LoadConfig defaults to config.Load.
	LoadConfig ConfigLoader
}

// Handler is the blob trigger. All of its dependencies are read-only after
// construction, so one Handler serves concurrent invocations.
type Handler struct {
	worker       worker.Worker
	opener       BlobOpener
	binding      *BindingPath
	logger       *slog.Logger
	loadConfig   ConfigLoader
	functionName string
	appDir       string
}

// NewHandler creates a Handler from explicitly constructed dependencies.
func NewHandler(
	w worker.Worker,
	opener BlobOpener,
	binding *BindingPath,
	logger *slog.Logger,
	opts Options,
) *Handler {
	loadConfig := opts.LoadConfig
	if loadConfig == nil {
		loadConfig = config.Load
	}

	return &Handler{
		worker:       w,
		opener:       opener,
		binding:      binding,
		logger:       logger.With("component", "blob_trigger"),
		loadConfig:   loadConfig,
		functionName: opts.FunctionName,
		appDir:       opts.AppDirectory,
	}
}

// Run is the body of the function. It logs the name and size of the blob,
// logs the current BlobPath setting and hands off to the worker.
//
// The stream is read to the end to measure it. Read and configuration
// failures are returned for the host to retry or dead-letter. Workers
// implementing WithLogger write through log, so their lines carry the
// invocation's attributes.
func (h *Handler) Run(
	ctx context.Context,
	blob io.Reader,
	name string,
	log *slog.Logger,
	exec ExecutionContext,
) error {
	size, err := io.Copy(io.Discard, blob)
	if err != nil {
		return fmt.Errorf("failed to read blob %s: %w", name, err)
	}
	log.InfoContext(ctx, "blob trigger processed blob", "name", name, "size_bytes", size)

	values, err := h.loadConfig(exec.FunctionAppDirectory)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log.InfoContext(ctx, "value of BlobPath setting", "blob_path", values.GetString(BlobPathSetting))

	w := h.worker
	if b, ok := w.(loggerBinder); ok {
		w = b.WithLogger(log)
	}
	w.DoWork()
	return nil
}
