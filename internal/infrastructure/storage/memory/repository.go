package memory

import (
	"context"
	"sync"

	"taskkeeper/internal/domain/task"
)

// Repository хранит задачи в памяти процесса. Используется сервером,
// когда DATABASE_URI не задан, и в тестах. Порядок вставки сохраняется,
// чтобы полная выборка была стабильной.
type Repository struct {
	mu    sync.RWMutex
	tasks map[string]task.Task
	order []string
}

func NewRepository() *Repository {
	return &Repository{
		tasks: make(map[string]task.Task),
	}
}

func (r *Repository) List(_ context.Context) ([]task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]task.Task, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.tasks[id])
	}
	return out, nil
}

func (r *Repository) Get(_ context.Context, id string) (*task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, task.ErrNotFound
	}
	return &t, nil
}

func (r *Repository) ChangedSince(_ context.Context, since int64) ([]task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]task.Task, 0)
	for _, id := range r.order {
		if r.tasks[id].UpdatedAt > since {
			out = append(out, r.tasks[id])
		}
	}
	return out, nil
}

func (r *Repository) ApplyBatch(_ context.Context, tasks []task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range tasks {
		if _, ok := r.tasks[t.ID]; !ok {
			r.order = append(r.order, t.ID)
		}
		r.tasks[t.ID] = t
	}
	return nil
}

func (r *Repository) MaxUpdatedAt(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var max int64
	for _, t := range r.tasks {
		if t.UpdatedAt > max {
			max = t.UpdatedAt
		}
	}
	return max, nil
}
