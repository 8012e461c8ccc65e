package client

import (
	"sync"

	"taskkeeper/internal/domain/task"
)

// LocalTask локальная модель задачи. В отличие от серверной записи
// несет статус синхронизации.
type LocalTask struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Completed   bool            `json:"completed"`
	Priority    task.Priority   `json:"priority"`
	CreatedAt   int64           `json:"created_at"`
	UpdatedAt   int64           `json:"updated_at"`
	SyncStatus  task.SyncStatus `json:"sync_status"`
}

// Remote возвращает сетевое представление задачи
func (t *LocalTask) Remote() task.Task {
	return task.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    t.Priority,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// fromRemote строит локальную задачу из серверной копии
func fromRemote(t task.Task, status task.SyncStatus) *LocalTask {
	lt := &LocalTask{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    t.Priority,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		SyncStatus:  status,
	}
	if lt.Priority == "" {
		lt.Priority = task.PriorityMedium
	}
	if lt.CreatedAt == 0 {
		lt.CreatedAt = lt.UpdatedAt
	}
	return lt
}

// CreateTaskRequest поля новой задачи
type CreateTaskRequest struct {
	Title       string
	Description string
	Priority    task.Priority
}

// TaskUpdate частичное обновление задачи: nil-поле не меняется
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *task.Priority
}

// StoreStats срез состояния локального хранилища
type StoreStats struct {
	Total    int   `json:"total"`
	Synced   int   `json:"synced"`
	Pending  int   `json:"pending"`
	Deleted  int   `json:"deleted"`
	LastSync int64 `json:"last_sync"`
}

// MemoryStorage - временное in-memory хранилище на случай, когда
// SQLite недоступен. Семантика повторяет SQLiteStorage, данные
// живут до завершения процесса.
type MemoryStorage struct {
	mu       sync.RWMutex
	tasks    map[string]*LocalTask
	order    []string
	lastSync int64
	now      func() int64
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		tasks: make(map[string]*LocalTask),
		now:   nowMillis,
	}
}

func (s *MemoryStorage) CreateTask(req CreateTaskRequest) (*LocalTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := newLocalTask(req, s.now())
	s.tasks[t.ID] = t
	s.order = append(s.order, t.ID)

	copied := *t
	return &copied, nil
}

func (s *MemoryStorage) GetTask(id string) (*LocalTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, task.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (s *MemoryStorage) ListVisible() ([]*LocalTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*LocalTask, 0, len(s.order))
	for _, id := range s.order {
		if s.tasks[id].SyncStatus == task.StatusDeleted {
			continue
		}
		copied := *s.tasks[id]
		out = append(out, &copied)
	}
	return out, nil
}

func (s *MemoryStorage) ListPendingSync() ([]*LocalTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*LocalTask, 0)
	for _, id := range s.order {
		if s.tasks[id].SyncStatus == task.StatusSynced {
			continue
		}
		copied := *s.tasks[id]
		out = append(out, &copied)
	}
	return out, nil
}

func (s *MemoryStorage) UpdateTask(id string, upd TaskUpdate) (*LocalTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, task.ErrNotFound
	}
	if t.SyncStatus == task.StatusDeleted {
		return nil, task.ErrAlreadyDeleted
	}

	applyUpdate(t, upd, s.now())
	copied := *t
	return &copied, nil
}

func (s *MemoryStorage) SoftDelete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return task.ErrNotFound
	}
	if t.SyncStatus == task.StatusDeleted {
		return nil
	}

	t.SyncStatus = task.StatusDeleted
	t.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStorage) Restore(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return task.ErrNotFound
	}
	if t.SyncStatus != task.StatusDeleted {
		return nil
	}

	t.SyncStatus = task.StatusPending
	t.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStorage) HardDelete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return nil
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStorage) ApplyRemote(tasks []task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, remote := range tasks {
		lt := fromRemote(remote, task.StatusSynced)
		if _, ok := s.tasks[lt.ID]; !ok {
			s.order = append(s.order, lt.ID)
		}
		s.tasks[lt.ID] = lt
	}
	return nil
}

func (s *MemoryStorage) MarkSynced(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if t, ok := s.tasks[id]; ok {
			t.SyncStatus = task.StatusSynced
		}
	}
	return nil
}

func (s *MemoryStorage) LastSync() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSync, nil
}

func (s *MemoryStorage) SetLastSync(ts int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSync = ts
	return nil
}

func (s *MemoryStorage) Stats() (*StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &StoreStats{LastSync: s.lastSync}
	for _, t := range s.tasks {
		stats.Total++
		switch t.SyncStatus {
		case task.StatusSynced:
			stats.Synced++
		case task.StatusPending:
			stats.Pending++
		case task.StatusDeleted:
			stats.Deleted++
		}
	}
	return stats, nil
}

func (s *MemoryStorage) Close() error {
	return nil
}
