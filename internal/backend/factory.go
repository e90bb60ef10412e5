package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"smartfinance/internal/amqp"
	"smartfinance/internal/sheets/memory"
	"smartfinance/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
	// dialAMQP is replaced in tests.
	dialAMQP func(url, exchange, queue string) (*amqp.Client, error)
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger:   logger,
		dialAMQP: amqp.NewClient,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		result *BackendResult
		err    error
	)
	switch config.Type {
	case SQLiteBackend:
		result, err = f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		result = f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	f.attachPublisher(ctx, config, result)
	return result, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend",
		"component", "backend",
		"db_path", config.SQLiteDBPath)

	return &BackendResult{
		Backend: repo,
		Checks:  map[string]func(context.Context) error{"storage": repo.Ping},
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() *BackendResult {
	f.logger.Info("Initialized memory backend, data is lost on restart", "component", "backend")
	return &BackendResult{
		Backend: memory.New(),
		Checks:  map[string]func(context.Context) error{},
		Cleanup: func() error { return nil },
	}
}

// attachPublisher connects to AMQP when configured. A broker that is down at
// startup is not fatal: receipts are still stored and the export worker's
// pending sweep picks them up later.
func (f *DefaultFactory) attachPublisher(ctx context.Context, config Config, result *BackendResult) {
	if config.AMQPURL == "" {
		return
	}
	client, err := f.dialAMQP(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events",
			"component", "backend",
			"error", err)
		return
	}

	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"component", "backend",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)

	result.Publisher = client
	result.Checks["amqp"] = func(context.Context) error { return client.Ping() }

	storeCleanup := result.Cleanup
	result.Cleanup = func() error {
		return errors.Join(client.Close(), runCleanup(storeCleanup))
	}
}

func runCleanup(fn CleanupFunc) error {
	if fn == nil {
		return nil
	}
	return fn()
}
