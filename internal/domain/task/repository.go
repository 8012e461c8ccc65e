package task

import "context"

// Repository хранилище задач на стороне сервера
type Repository interface {
	// List возвращает все задачи в порядке создания
	List(ctx context.Context) ([]Task, error)

	// Get возвращает задачу по идентификатору или ErrNotFound
	Get(ctx context.Context, id string) (*Task, error)

	// ChangedSince возвращает задачи с updated_at строго больше since
	ChangedSince(ctx context.Context, since int64) ([]Task, error)

	// ApplyBatch сохраняет пакет задач атомарно: либо весь, либо ничего
	ApplyBatch(ctx context.Context, tasks []Task) error

	// MaxUpdatedAt возвращает максимальный updated_at по всем задачам,
	// 0 для пустого хранилища
	MaxUpdatedAt(ctx context.Context) (int64, error)
}
