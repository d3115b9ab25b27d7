package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"budget/internal/amqp"
	"budget/internal/log"
	"budget/internal/persist/file"
	"budget/internal/persist/memory"
	"budget/internal/persist/redis"
	"budget/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger.With(log.FieldComponent, log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	result, err := f.createStore(ctx, config)
	if err != nil {
		return nil, err
	}

	client := f.connectAMQP(config)
	if client != nil {
		result.Publisher = client
		storeCleanup := result.Cleanup
		result.Cleanup = func() error {
			var errs []error
			if storeCleanup != nil {
				if err := storeCleanup(); err != nil {
					errs = append(errs, fmt.Errorf("store: %w", err))
				}
			}
			if err := client.Close(); err != nil {
				errs = append(errs, fmt.Errorf("amqp: %w", err))
			}
			return errors.Join(errs...)
		}
	}

	return result, nil
}

func (f *DefaultFactory) createStore(ctx context.Context, config Config) (*BackendResult, error) {
	switch config.Type {
	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return &BackendResult{Store: memory.New()}, nil

	case FileBackend:
		store, err := file.New(config.DataDirectory)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		f.logger.Info("Initialized file backend", "data_directory", config.DataDirectory)
		return &BackendResult{Store: store}, nil

	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return &BackendResult{Store: repo, Cleanup: repo.Close}, nil

	case PostgresBackend:
		repo, err := storage.NewPostgresRepository(config.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL repository: %w", err)
		}
		f.logger.Info("Initialized PostgreSQL backend")
		return &BackendResult{Store: repo, Cleanup: repo.Close}, nil

	case RedisBackend:
		store, err := redis.New(ctx, redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis store: %w", err)
		}
		f.logger.Info("Initialized Redis backend", "addr", config.RedisAddr, "db", config.RedisDB)
		return &BackendResult{Store: store, Cleanup: store.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// connectAMQP returns nil when events are disabled or the broker is
// unreachable; the ledger keeps working without them.
func (f *DefaultFactory) connectAMQP(config Config) *amqp.Client {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}
