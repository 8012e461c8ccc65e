package client

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"taskkeeper/internal/domain/task"
)

// SQLiteStorage - локальное хранилище задач поверх SQLite
type SQLiteStorage struct {
	db  *sql.DB
	now func() int64
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}

	storage := &SQLiteStorage{db: db, now: nowMillis}

	// Создаем таблицы
	if err := storage.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка инициализации таблиц: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) initTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			completed BOOLEAN NOT NULL DEFAULT 0,
			priority TEXT NOT NULL DEFAULT 'medium',
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			sync_status TEXT NOT NULL DEFAULT 'pending'
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_sync_status ON tasks(sync_status);
		CREATE INDEX IF NOT EXISTS idx_tasks_updated_at ON tasks(updated_at);

		CREATE TABLE IF NOT EXISTS sync_metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)

	return err
}

func (s *SQLiteStorage) CreateTask(req CreateTaskRequest) (*LocalTask, error) {
	t := newLocalTask(req, s.now())

	_, err := s.db.Exec(`
		INSERT INTO tasks (id, title, description, completed, priority, created_at, updated_at, sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Title, t.Description, t.Completed, string(t.Priority),
		t.CreatedAt, t.UpdatedAt, string(t.SyncStatus))
	if err != nil {
		return nil, fmt.Errorf("ошибка сохранения задачи: %w", err)
	}

	return t, nil
}

func (s *SQLiteStorage) GetTask(id string) (*LocalTask, error) {
	row := s.db.QueryRow(`
		SELECT id, title, description, completed, priority, created_at, updated_at, sync_status
		FROM tasks
		WHERE id = ?
	`, id)

	t, err := scanLocalTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, task.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения задачи: %w", err)
	}

	return t, nil
}

func (s *SQLiteStorage) ListVisible() ([]*LocalTask, error) {
	rows, err := s.db.Query(`
		SELECT id, title, description, completed, priority, created_at, updated_at, sync_status
		FROM tasks
		WHERE sync_status != ?
		ORDER BY created_at ASC, id ASC
	`, string(task.StatusDeleted))
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	return scanLocalTasks(rows)
}

func (s *SQLiteStorage) ListPendingSync() ([]*LocalTask, error) {
	rows, err := s.db.Query(`
		SELECT id, title, description, completed, priority, created_at, updated_at, sync_status
		FROM tasks
		WHERE sync_status != ?
		ORDER BY updated_at ASC, id ASC
	`, string(task.StatusSynced))
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	return scanLocalTasks(rows)
}

func (s *SQLiteStorage) UpdateTask(id string, upd TaskUpdate) (*LocalTask, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия транзакции: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		SELECT id, title, description, completed, priority, created_at, updated_at, sync_status
		FROM tasks
		WHERE id = ?
	`, id)

	t, err := scanLocalTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, task.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения задачи: %w", err)
	}
	if t.SyncStatus == task.StatusDeleted {
		return nil, task.ErrAlreadyDeleted
	}

	applyUpdate(t, upd, s.now())

	_, err = tx.Exec(`
		UPDATE tasks
		SET title = ?, description = ?, completed = ?, priority = ?, updated_at = ?, sync_status = ?
		WHERE id = ?
	`, t.Title, t.Description, t.Completed, string(t.Priority),
		t.UpdatedAt, string(t.SyncStatus), t.ID)
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления задачи: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	return t, nil
}

func (s *SQLiteStorage) SoftDelete(id string) error {
	res, err := s.db.Exec(`
		UPDATE tasks
		SET sync_status = ?, updated_at = ?
		WHERE id = ? AND sync_status != ?
	`, string(task.StatusDeleted), s.now(), id, string(task.StatusDeleted))
	if err != nil {
		return fmt.Errorf("ошибка удаления задачи: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка удаления задачи: %w", err)
	}
	if affected == 0 {
		// Либо задачи нет, либо она уже помечена удаленной
		var exists bool
		if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM tasks WHERE id = ?)", id).Scan(&exists); err != nil {
			return fmt.Errorf("ошибка проверки существования задачи: %w", err)
		}
		if !exists {
			return task.ErrNotFound
		}
	}

	return nil
}

func (s *SQLiteStorage) Restore(id string) error {
	res, err := s.db.Exec(`
		UPDATE tasks
		SET sync_status = ?, updated_at = ?
		WHERE id = ? AND sync_status = ?
	`, string(task.StatusPending), s.now(), id, string(task.StatusDeleted))
	if err != nil {
		return fmt.Errorf("ошибка восстановления задачи: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка восстановления задачи: %w", err)
	}
	if affected == 0 {
		var exists bool
		if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM tasks WHERE id = ?)", id).Scan(&exists); err != nil {
			return fmt.Errorf("ошибка проверки существования задачи: %w", err)
		}
		if !exists {
			return task.ErrNotFound
		}
	}

	return nil
}

func (s *SQLiteStorage) HardDelete(id string) error {
	if _, err := s.db.Exec("DELETE FROM tasks WHERE id = ?", id); err != nil {
		return fmt.Errorf("ошибка удаления задачи: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) ApplyRemote(tasks []task.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции: %w", err)
	}
	defer tx.Rollback()

	for _, remote := range tasks {
		lt := fromRemote(remote, task.StatusSynced)
		_, err := tx.Exec(`
			INSERT INTO tasks (id, title, description, completed, priority, created_at, updated_at, sync_status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				description = excluded.description,
				completed = excluded.completed,
				priority = excluded.priority,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at,
				sync_status = excluded.sync_status
		`, lt.ID, lt.Title, lt.Description, lt.Completed, string(lt.Priority),
			lt.CreatedAt, lt.UpdatedAt, string(lt.SyncStatus))
		if err != nil {
			return fmt.Errorf("ошибка применения серверной копии: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) MarkSynced(ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции: %w", err)
	}
	defer tx.Rollback()

	for _, id := range ids {
		_, err := tx.Exec(`
			UPDATE tasks
			SET sync_status = ?
			WHERE id = ?
		`, string(task.StatusSynced), id)
		if err != nil {
			return fmt.Errorf("ошибка отметки задачи синхронизированной: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) LastSync() (int64, error) {
	var value int64
	err := s.db.QueryRow("SELECT CAST(value AS INTEGER) FROM sync_metadata WHERE key = 'last_sync'").Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка чтения курсора синхронизации: %w", err)
	}
	return value, nil
}

func (s *SQLiteStorage) SetLastSync(ts int64) error {
	_, err := s.db.Exec(`
		INSERT INTO sync_metadata (key, value, updated_at)
		VALUES ('last_sync', ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, fmt.Sprintf("%d", ts), s.now())
	if err != nil {
		return fmt.Errorf("ошибка сохранения курсора синхронизации: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Stats() (*StoreStats, error) {
	stats := &StoreStats{}

	rows, err := s.db.Query("SELECT sync_status, COUNT(*) FROM tasks GROUP BY sync_status")
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчета задач: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("ошибка сканирования статистики: %w", err)
		}
		stats.Total += count
		switch task.SyncStatus(status) {
		case task.StatusSynced:
			stats.Synced = count
		case task.StatusPending:
			stats.Pending = count
		case task.StatusDeleted:
			stats.Deleted = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка подсчета задач: %w", err)
	}

	lastSync, err := s.LastSync()
	if err != nil {
		return nil, err
	}
	stats.LastSync = lastSync

	return stats, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocalTask(row rowScanner) (*LocalTask, error) {
	var t LocalTask
	var priority, status string

	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed,
		&priority, &t.CreatedAt, &t.UpdatedAt, &status)
	if err != nil {
		return nil, err
	}

	t.Priority = task.Priority(priority)
	t.SyncStatus = task.SyncStatus(status)
	return &t, nil
}

func scanLocalTasks(rows *sql.Rows) ([]*LocalTask, error) {
	tasks := make([]*LocalTask, 0)
	for rows.Next() {
		t, err := scanLocalTask(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования задачи: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения задач: %w", err)
	}
	return tasks, nil
}
