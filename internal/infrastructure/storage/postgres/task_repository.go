package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"taskkeeper/internal/domain/task"
)

type TaskRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewTaskRepository(pool *pgxpool.Pool, log *slog.Logger) *TaskRepository {
	return &TaskRepository{
		pool: pool,
		log:  log.With("component", "task_repository"),
	}
}

func (r *TaskRepository) List(ctx context.Context) ([]task.Task, error) {
	const query = `
		SELECT id, title, description, completed, priority, created_at, updated_at
		FROM tasks
		ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.log.Error("failed to list tasks", "error", err)
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	return r.scanTasks(rows)
}

func (r *TaskRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	const query = `
		SELECT id, title, description, completed, priority, created_at, updated_at
		FROM tasks
		WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)

	t, err := r.scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, task.ErrNotFound
		}
		r.log.Error("failed to get task", "task_id", id, "error", err)
		return nil, fmt.Errorf("get task: %w", err)
	}

	return t, nil
}

func (r *TaskRepository) ChangedSince(ctx context.Context, since int64) ([]task.Task, error) {
	const query = `
		SELECT id, title, description, completed, priority, created_at, updated_at
		FROM tasks
		WHERE updated_at > $1
		ORDER BY updated_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		r.log.Error("failed to get changed tasks", "since", since, "error", err)
		return nil, fmt.Errorf("get changed tasks: %w", err)
	}
	defer rows.Close()

	return r.scanTasks(rows)
}

// ApplyBatch применяет пакет задач в одной транзакции
func (r *TaskRepository) ApplyBatch(ctx context.Context, tasks []task.Task) error {
	const query = `
		INSERT INTO tasks (id, title, description, completed, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title,
		    description = EXCLUDED.description,
		    completed = EXCLUDED.completed,
		    priority = EXCLUDED.priority,
		    updated_at = EXCLUDED.updated_at`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range tasks {
		_, err = tx.Exec(ctx, query,
			t.ID, t.Title, t.Description, t.Completed, t.Priority, t.CreatedAt, t.UpdatedAt,
		)
		if err != nil {
			r.log.Error("failed to upsert task", "task_id", t.ID, "error", err)
			return fmt.Errorf("upsert task %s: %w", t.ID, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	return nil
}

func (r *TaskRepository) MaxUpdatedAt(ctx context.Context) (int64, error) {
	const query = `SELECT COALESCE(MAX(updated_at), 0) FROM tasks`

	var max int64
	if err := r.pool.QueryRow(ctx, query).Scan(&max); err != nil {
		r.log.Error("failed to get max updated_at", "error", err)
		return 0, fmt.Errorf("get max updated_at: %w", err)
	}

	return max, nil
}

// Вспомогательные методы
func (r *TaskRepository) scanTasks(rows pgx.Rows) ([]task.Task, error) {
	var tasks []task.Task

	for rows.Next() {
		t, err := r.scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}

	return tasks, rows.Err()
}

func (r *TaskRepository) scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*task.Task, error) {
	var t task.Task
	var priority string

	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Completed,
		&priority, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Priority = task.Priority(priority)
	return &t, nil
}
