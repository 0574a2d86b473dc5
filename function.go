// Package blobtrigger registers the BlobTrigger cloud function, which fires
// when a new object lands under the configured storage path, logs it and
// hands off to the customer worker.
package blobtrigger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/phrazzld/blob-trigger/internal/config"
	"github.com/phrazzld/blob-trigger/internal/platform/gcs"
	"github.com/phrazzld/blob-trigger/internal/platform/logger"
	"github.com/phrazzld/blob-trigger/internal/redact"
	"github.com/phrazzld/blob-trigger/internal/trigger"
	"github.com/phrazzld/blob-trigger/internal/worker"
)

const (
	// FunctionName is the name the function is registered and logged under.
	FunctionName = "BlobTrigger"

	// BindingTemplate is the trigger path: the BlobPath setting followed by
	// the object name.
	BindingTemplate = "%" + trigger.BlobPathSetting + "%/{name}"

	// ConnectionSetting names the setting holding the storage connection.
	ConnectionSetting = "BlobStorageConnection"

	// AppDirectoryEnv overrides where local.settings.json is looked up.
	AppDirectoryEnv = "FUNCTION_APP_DIRECTORY"
)

var (
	setupOnce sync.Once
	handler   *trigger.Handler
	setupErr  error
)

func init() {
	functions.CloudEvent(FunctionName, BlobTrigger)
}

// BlobTrigger is the CloudEvent entry point. The dependency graph is built on
// the first event and reused for the life of the process; a failure to build
// it is returned from every invocation.
func BlobTrigger(ctx context.Context, e event.Event) error {
	setupOnce.Do(func() {
		// The storage client outlives the first invocation, so it must not
		// inherit that invocation's context.
		handler, setupErr = newHandler(context.Background())
	})
	if setupErr != nil {
		return setupErr
	}
	return handler.HandleCloudEvent(ctx, e)
}

// functionAppDirectory returns where settings are read from.
func functionAppDirectory() (string, error) {
	if dir := os.Getenv(AppDirectoryEnv); dir != "" {
		return dir, nil
	}
	return os.Getwd()
}

// newHandler loads settings and wires the trigger with explicitly constructed
// dependencies.
func newHandler(ctx context.Context) (*trigger.Handler, error) {
	appDir, err := functionAppDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to determine function app directory: %w", err)
	}

	values, err := config.Load(appDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	host, err := config.LoadHost(values)
	if err != nil {
		return nil, fmt.Errorf("failed to load host settings: %w", err)
	}

	log, err := logger.Setup(*host)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	customer, err := config.BindCustomerOptions(values)
	if err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", config.CustomerOptionsSection, err)
	}

	binding, err := trigger.ParseBindingPath(BindingTemplate, values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse binding path: %w", err)
	}

	opener, err := gcs.NewOpener(ctx, values.GetString(ConnectionSetting))
	if err != nil {
		return nil, fmt.Errorf("failed to create blob opener: %w", err)
	}

	log.Info("function configuration loaded",
		"function", FunctionName,
		"app_directory", appDir,
		"binding_path", binding.String(),
		"container", binding.Container(),
		"binding_params", binding.Params(),
		"log_level", host.LogLevel,
		"storage_connection", redact.String(values.GetString(ConnectionSetting)))
	log.Debug("customer options bound",
		slog.Int("customer_number", customer.CustomerNumber))

	w := worker.NewCustomerWorker(log, FunctionName, customer)

	return trigger.NewHandler(w, opener, binding, log, trigger.Options{
		FunctionName: FunctionName,
		AppDirectory: appDir,
	}), nil
}
