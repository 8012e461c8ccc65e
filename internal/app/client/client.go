package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"taskkeeper/internal/app/client/config"
)

// ErrNoApp в контексте команды нет инициализированного приложения
var ErrNoApp = errors.New("приложение не инициализировано")

// App связывает локальное хранилище, HTTP клиент и сервис
// синхронизации. Все мутации выполняются локально, затем выполняется
// попытка фоновой синхронизации.
type App struct {
	config      *config.Config
	log         *slog.Logger
	httpClient  *httpClient
	storage     Storage
	syncService *SyncService
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	// Инициализируем HTTP клиент
	httpCl, err := NewHTTPClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации HTTP клиента: %w", err)
	}

	// Инициализируем локальное хранилище (используем SQLite)
	var storage Storage
	sqliteStorage, err := NewSQLiteStorage(cfg.DataPath)
	if err != nil {
		log.Warn("Не удалось инициализировать SQLite, используем память", "error", err)
		storage = NewMemoryStorage()
	} else {
		storage = sqliteStorage
	}

	app := &App{
		config:     cfg,
		log:        log,
		httpClient: httpCl,
		storage:    storage,
	}

	app.syncService = NewSyncService(storage, httpCl, log)

	return app, nil
}

// CreateTask создает задачу локально и пытается синхронизироваться
func (a *App) CreateTask(ctx context.Context, req CreateTaskRequest) (*LocalTask, error) {
	t, err := a.storage.CreateTask(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания задачи: %w", err)
	}

	a.trySync(ctx)
	return t, nil
}

// ListTasks возвращает все задачи без пометки удаления
func (a *App) ListTasks(ctx context.Context) ([]*LocalTask, error) {
	tasks, err := a.storage.ListVisible()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения задач: %w", err)
	}
	return tasks, nil
}

// GetTask возвращает задачу по идентификатору
func (a *App) GetTask(ctx context.Context, id string) (*LocalTask, error) {
	t, err := a.storage.GetTask(id)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTask применяет частичное обновление и пытается
// синхронизироваться
func (a *App) UpdateTask(ctx context.Context, id string, upd TaskUpdate) (*LocalTask, error) {
	t, err := a.storage.UpdateTask(id, upd)
	if err != nil {
		return nil, err
	}

	a.trySync(ctx)
	return t, nil
}

// ToggleComplete переключает отметку выполнения
func (a *App) ToggleComplete(ctx context.Context, id string) (*LocalTask, error) {
	t, err := a.storage.GetTask(id)
	if err != nil {
		return nil, err
	}

	completed := !t.Completed
	return a.UpdateTask(ctx, id, TaskUpdate{Completed: &completed})
}

// DeleteTask помечает задачу удаленной. Физическое удаление произойдет
// после подтверждения сервером.
func (a *App) DeleteTask(ctx context.Context, id string) error {
	if err := a.storage.SoftDelete(id); err != nil {
		return err
	}

	a.trySync(ctx)
	return nil
}

// RestoreTask снимает пометку удаления, если она еще не подтверждена
// сервером
func (a *App) RestoreTask(ctx context.Context, id string) error {
	if err := a.storage.Restore(id); err != nil {
		return err
	}

	a.trySync(ctx)
	return nil
}

// Sync запускает синхронизацию
func (a *App) Sync(ctx context.Context) (*SyncResult, error) {
	return a.syncService.Sync(ctx)
}

// SyncStats возвращает статистику синхронизаций
func (a *App) SyncStats() SyncStats {
	return a.syncService.Stats()
}

// StoreStats возвращает состояние локального хранилища
func (a *App) StoreStats() (*StoreStats, error) {
	return a.storage.Stats()
}

// CheckConnection проверяет соединение с сервером
func (a *App) CheckConnection() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return a.httpClient.HealthCheck(ctx)
}

// Close закрывает локальное хранилище
func (a *App) Close() error {
	return a.storage.Close()
}

// trySync выполняет попытку синхронизации после локальной мутации.
// Сбой не мешает локальной работе, задача остается в статусе pending
// до следующего прохода.
func (a *App) trySync(ctx context.Context) {
	result, err := a.syncService.Sync(ctx)
	if err != nil {
		a.log.Debug("sync skipped", "error", err)
		return
	}
	if !result.Success {
		a.log.Debug("sync deferred", "message", result.Message)
	}
}

type ctxKey struct{}

// NewContext кладет приложение в контекст команды
func NewContext(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, ctxKey{}, app)
}

// FromContext достает приложение из контекста команды
func FromContext(ctx context.Context) (*App, error) {
	app, ok := ctx.Value(ctxKey{}).(*App)
	if !ok || app == nil {
		return nil, ErrNoApp
	}
	return app, nil
}
