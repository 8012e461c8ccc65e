package task

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/slog"
)

// Servicer интерфейс сервиса сверки задач
type Servicer interface {
	// Init восстанавливает курсор сервера из хранилища
	Init(ctx context.Context) error

	// Changes возвращает задачи, измененные после since; nil since означает
	// полную выборку для первичной загрузки клиента
	Changes(ctx context.Context, since *int64) (*ChangesResponse, error)

	// Reconcile сверяет пакет записей клиента с хранилищем и возвращает
	// вердикт по каждой записи
	Reconcile(ctx context.Context, tasks []Task) (*PushResponse, error)

	// Cursor возвращает текущий курсор сервера
	Cursor() int64
}

// Service реализация сервиса сверки. Курсор живет в памяти процесса:
// после рестарта его восстанавливает Init, после каждой сверки он
// пересчитывается по хранилищу.
type Service struct {
	repo   Repository
	log    *slog.Logger
	config *ServiceConfig

	mu     sync.Mutex
	cursor int64
}

// NewService создает новый сервис сверки
func NewService(repo Repository, log *slog.Logger, config *ServiceConfig) *Service {
	if config == nil {
		config = &ServiceConfig{
			MaxBatchSize: 500,
		}
	}

	return &Service{
		repo:   repo,
		log:    log,
		config: config,
	}
}

// Init восстанавливает курсор сервера из хранилища
func (s *Service) Init(ctx context.Context) error {
	maxUpdated, err := s.repo.MaxUpdatedAt(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore cursor: %w", err)
	}

	s.mu.Lock()
	s.cursor = maxUpdated
	s.mu.Unlock()

	s.log.Info("cursor restored", "cursor", maxUpdated)
	return nil
}

// Changes возвращает задачи, измененные после since
func (s *Service) Changes(ctx context.Context, since *int64) (*ChangesResponse, error) {
	if since == nil {
		tasks, err := s.repo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks: %w", err)
		}
		if tasks == nil {
			tasks = []Task{}
		}
		return &ChangesResponse{Tasks: tasks}, nil
	}

	if *since >= s.Cursor() {
		return &ChangesResponse{NoNewData: true}, nil
	}

	tasks, err := s.repo.ChangedSince(ctx, *since)
	if err != nil {
		return nil, fmt.Errorf("failed to get changed tasks: %w", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}

	return &ChangesResponse{Tasks: tasks}, nil
}

// Reconcile сверяет пакет записей клиента с хранилищем. Каждая запись
// обрабатывается независимо: побеждает большая временная метка, равные
// метки дают no-op, проигравшая запись возвращается в Outdated серверной
// копией. Пакеты сериализуются мьютексом, применение к хранилищу
// атомарно.
func (s *Service) Reconcile(ctx context.Context, tasks []Task) (*PushResponse, error) {
	if s.config.MaxBatchSize > 0 && len(tasks) > s.config.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d records, limit %d", ErrBatchTooLarge, len(tasks), s.config.MaxBatchSize)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]string, 0, len(tasks))
	outdated := make([]Task, 0)
	upserts := make([]Task, 0, len(tasks))

	for _, incoming := range tasks {
		if incoming.ID == "" || incoming.UpdatedAt <= 0 {
			s.log.Warn("skipping malformed record", "id", incoming.ID, "updated_at", incoming.UpdatedAt)
			continue
		}
		incoming.Normalize()

		existing, err := s.repo.Get(ctx, incoming.ID)
		switch {
		case errors.Is(err, ErrNotFound):
			upserts = append(upserts, incoming)
			updated = append(updated, incoming.ID)
		case err != nil:
			return nil, fmt.Errorf("failed to get task %s: %w", incoming.ID, err)
		case incoming.UpdatedAt > existing.UpdatedAt:
			upserts = append(upserts, incoming)
			updated = append(updated, incoming.ID)
		case incoming.UpdatedAt < existing.UpdatedAt:
			outdated = append(outdated, *existing)
		default:
			// равные метки: идемпотентный повтор, ничего не делаем
		}
	}

	if len(upserts) > 0 {
		if err := s.repo.ApplyBatch(ctx, upserts); err != nil {
			return nil, fmt.Errorf("failed to apply batch: %w", err)
		}
	}

	maxUpdated, err := s.repo.MaxUpdatedAt(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to recompute cursor: %w", err)
	}
	s.cursor = maxUpdated

	s.log.Debug("batch reconciled",
		"received", len(tasks),
		"updated", len(updated),
		"outdated", len(outdated),
		"cursor", maxUpdated,
	)

	return &PushResponse{
		Status:   "ok",
		Updated:  updated,
		Outdated: outdated,
		LastSync: maxUpdated,
	}, nil
}

// Cursor возвращает текущий курсор сервера
func (s *Service) Cursor() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}
