package worker

import (
	"log/slog"

	"github.com/phrazzld/blob-trigger/internal/config"
)

// Worker performs the function's work for one invocation.
type Worker interface {
	DoWork()
}

// CustomerWorker reports on the customer described by the bound options.
// It holds no mutable state and is safe for concurrent use.
type CustomerWorker struct {
	logger       *slog.Logger
	functionName string
	options      config.CustomerOptions
}

var _ Worker = (*CustomerWorker)(nil)

// UserCategory is the log category for lines written on behalf of the named
// function, as opposed to lines written by the host around it.
func UserCategory(functionName string) string {
	return "Function." + functionName + ".User"
}

// NewCustomerWorker creates a worker that logs under the user category of
// functionName.
func NewCustomerWorker(logger *slog.Logger, functionName string, options config.CustomerOptions) *CustomerWorker {
	return &CustomerWorker{
		logger:       logger.With("category", UserCategory(functionName)),
		functionName: functionName,
		options:      options,
	}
}

// WithLogger returns a worker for the same customer that writes to logger,
// typically one carrying the attributes of a single invocation.
func (w *CustomerWorker) WithLogger(logger *slog.Logger) Worker {
	return NewCustomerWorker(logger, w.functionName, w.options)
}

// DoWork logs that the worker is running, followed by the customer name and street.
func (w *CustomerWorker) DoWork() {
	w.logger.Info("Worker running")
	w.logger.Info("customer name", "name", w.options.Name)
	w.logger.Info("customer street", "street", w.options.Address.Street)
}
