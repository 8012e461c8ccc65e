package client

import (
	"time"

	"github.com/google/uuid"

	"taskkeeper/internal/domain/task"
)

// Storage - контракт локального хранилища задач
type Storage interface {
	CreateTask(req CreateTaskRequest) (*LocalTask, error)
	GetTask(id string) (*LocalTask, error)
	ListVisible() ([]*LocalTask, error)
	ListPendingSync() ([]*LocalTask, error)
	UpdateTask(id string, upd TaskUpdate) (*LocalTask, error)
	SoftDelete(id string) error
	Restore(id string) error
	HardDelete(id string) error
	ApplyRemote(tasks []task.Task) error
	MarkSynced(ids []string) error
	LastSync() (int64, error)
	SetLastSync(ts int64) error
	Stats() (*StoreStats, error)
	Close() error
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func newLocalTask(req CreateTaskRequest, ts int64) *LocalTask {
	priority := req.Priority
	if priority == "" {
		priority = task.PriorityMedium
	}
	return &LocalTask{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		CreatedAt:   ts,
		UpdatedAt:   ts,
		SyncStatus:  task.StatusPending,
	}
}

// applyUpdate накладывает частичное обновление и помечает задачу
// ожидающей отправки
func applyUpdate(t *LocalTask, upd TaskUpdate, ts int64) {
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.Completed != nil {
		t.Completed = *upd.Completed
	}
	if upd.Priority != nil {
		t.Priority = *upd.Priority
	}
	t.UpdatedAt = ts
	t.SyncStatus = task.StatusPending
}
