package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"taskkeeper/internal/app/client/config"
	"taskkeeper/internal/app/server/api"
	"taskkeeper/internal/domain/task"
	"taskkeeper/internal/infrastructure/storage/memory"
)

// testEnv связка клиента и реального сервера в одном процессе
type testEnv struct {
	sync    *SyncService
	storage *MemoryStorage
	service task.Servicer
	server  *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := slog.Default()

	repo := memory.NewRepository()
	service := task.NewService(repo, log, nil)
	require.NoError(t, service.Init(context.Background()))

	server := httptest.NewServer(api.New(service, log))
	t.Cleanup(server.Close)

	return newTestEnvWithServer(t, server, service)
}

func newTestEnvWithServer(t *testing.T, server *httptest.Server, service task.Servicer) *testEnv {
	t.Helper()

	u, err := url.Parse(server.URL)
	require.NoError(t, err)

	cfg := &config.Config{ServerAddress: u.Host}
	httpCl, err := NewHTTPClient(cfg, slog.Default())
	require.NoError(t, err)

	storage := NewMemoryStorage()

	return &testEnv{
		sync:    NewSyncService(storage, httpCl, slog.Default()),
		storage: storage,
		service: service,
		server:  server,
	}
}

func TestSyncService_PushThenPull(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.storage.CreateTask(CreateTaskRequest{Title: "написать отчет"})
	require.NoError(t, err)

	result, err := env.sync.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Pushed)

	// Локальная копия помечена синхронизированной
	local, err := env.storage.GetTask(created.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusSynced, local.SyncStatus)

	// Курсор принят от сервера
	cursor, err := env.storage.LastSync()
	require.NoError(t, err)
	assert.Equal(t, created.UpdatedAt, cursor)

	// Повторный проход без изменений
	result, err = env.sync.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "нет изменений для синхронизации", result.Message)
	assert.Zero(t, result.Pulled)
	assert.Zero(t, result.Pushed)
}

func TestSyncService_PullsRemoteChanges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Другой клиент уже загрузил задачу на сервер
	_, err := env.service.Reconcile(ctx, []task.Task{
		{ID: "remote-1", Title: "задача с другого устройства", UpdatedAt: 100},
	})
	require.NoError(t, err)

	result, err := env.sync.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Pulled)

	local, err := env.storage.GetTask("remote-1")
	require.NoError(t, err)
	assert.Equal(t, "задача с другого устройства", local.Title)
	assert.Equal(t, task.StatusSynced, local.SyncStatus)

	cursor, err := env.storage.LastSync()
	require.NoError(t, err)
	assert.Equal(t, int64(100), cursor)
}

func TestSyncService_TombstoneIsHardDeletedAfterAck(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.storage.CreateTask(CreateTaskRequest{Title: "временная"})
	require.NoError(t, err)

	_, err = env.sync.Sync(ctx)
	require.NoError(t, err)

	// Метка удаления должна быть строго новее серверной копии
	env.storage.now = func() int64 { return created.UpdatedAt + 1000 }
	require.NoError(t, env.storage.SoftDelete(created.ID))

	result, err := env.sync.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, result.Success)

	// Пометка удаления после подтверждения превращается в физическое
	// удаление
	_, err = env.storage.GetTask(created.ID)
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestSyncService_OutdatedRecordIsReplacedByServerCopy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// На сервере более свежая версия той же задачи
	_, err := env.service.Reconcile(ctx, []task.Task{
		{ID: "shared", Title: "серверная версия", UpdatedAt: 500},
	})
	require.NoError(t, err)

	// Локально устаревшая несинхронизированная версия
	require.NoError(t, env.storage.ApplyRemote([]task.Task{
		{ID: "shared", Title: "старая локальная версия", UpdatedAt: 100},
	}))
	env.storage.now = func() int64 { return 300 }
	title := "правка поверх старой версии"
	_, err = env.storage.UpdateTask("shared", TaskUpdate{Title: &title})
	require.NoError(t, err)

	// Локальный курсор уже на серверной отметке: pull вернет 204 и
	// конфликт решится только на этапе push
	require.NoError(t, env.storage.SetLastSync(500))

	result, err := env.sync.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, result.Success)

	// Локальная правка была старее и заменена серверной копией
	local, err := env.storage.GetTask("shared")
	require.NoError(t, err)
	assert.Equal(t, "серверная версия", local.Title)
	assert.Equal(t, task.StatusSynced, local.SyncStatus)
}

func TestSyncService_EqualTimestampRetryIsAcknowledged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// У сервера уже есть обе записи с теми же метками времени:
	// предыдущая отправка прошла, но подтверждение не было применено
	_, err := env.service.Reconcile(ctx, []task.Task{
		{ID: "edited", Title: "повтор правки", UpdatedAt: 100},
		{ID: "removed", Title: "повтор удаления", UpdatedAt: 100},
	})
	require.NoError(t, err)

	require.NoError(t, env.storage.ApplyRemote([]task.Task{
		{ID: "edited", Title: "повтор правки", UpdatedAt: 50},
		{ID: "removed", Title: "повтор удаления", UpdatedAt: 50},
	}))
	env.storage.now = func() int64 { return 100 }
	title := "повтор правки"
	_, err = env.storage.UpdateTask("edited", TaskUpdate{Title: &title})
	require.NoError(t, err)
	require.NoError(t, env.storage.SoftDelete("removed"))
	require.NoError(t, env.storage.SetLastSync(100))

	result, err := env.sync.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, result.Success)

	// Совпавшие метки времени — идемпотентный повтор: сервер не
	// включает записи ни в updated, ни в outdated, но пакет считается
	// подтвержденным целиком
	local, err := env.storage.GetTask("edited")
	require.NoError(t, err)
	assert.Equal(t, task.StatusSynced, local.SyncStatus)

	_, err = env.storage.GetTask("removed")
	assert.ErrorIs(t, err, task.ErrNotFound)

	pending, err := env.storage.ListPendingSync()
	require.NoError(t, err)
	assert.Empty(t, pending, "acknowledged batch must not be re-submitted")
}

func TestSyncService_PullFailureAbortsPush(t *testing.T) {
	var pushed bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/records/sync") {
			pushed = true
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	env := newTestEnvWithServer(t, server, nil)
	ctx := context.Background()

	_, err := env.storage.CreateTask(CreateTaskRequest{Title: "останется локальной"})
	require.NoError(t, err)

	result, err := env.sync.Sync(ctx)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "этап pull завершился ошибкой")
	assert.False(t, pushed, "push must not run after a failed pull")

	// Задача осталась ожидающей отправки
	pending, err := env.storage.ListPendingSync()
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestSyncService_PushFailureKeepsPendingState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	env := newTestEnvWithServer(t, server, nil)
	ctx := context.Background()

	created, err := env.storage.CreateTask(CreateTaskRequest{Title: "не дойдет до сервера"})
	require.NoError(t, err)

	result, err := env.sync.Sync(ctx)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "этап push завершился ошибкой")

	// Статус не изменился, повтор отправит задачу снова
	local, err := env.storage.GetTask(created.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusPending, local.SyncStatus)
}

func TestSyncService_NetworkErrorIsReportedNotReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // закрываем сразу: соединение будет отклонено

	env := newTestEnvWithServer(t, server, nil)

	result, err := env.sync.Sync(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)

	stats := env.sync.Stats()
	assert.Equal(t, 1, stats.TotalErrors)
}

func TestSyncService_SecondSyncIsRejectedWhileRunning(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	env := newTestEnvWithServer(t, server, nil)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = env.sync.Sync(ctx)
	}()

	<-started
	_, err := env.sync.Sync(ctx)
	assert.ErrorIs(t, err, ErrSyncInProgress)

	close(release)
	<-done
	assert.False(t, env.sync.IsSyncing())
}

func TestSyncService_TwoClientsConverge(t *testing.T) {
	log := slog.Default()
	repo := memory.NewRepository()
	service := task.NewService(repo, log, nil)
	require.NoError(t, service.Init(context.Background()))

	server := httptest.NewServer(api.New(service, log))
	t.Cleanup(server.Close)

	first := newTestEnvWithServer(t, server, service)
	second := newTestEnvWithServer(t, server, service)
	ctx := context.Background()

	// Разносим метки времени, чтобы порядок изменений был однозначным
	first.storage.now = func() int64 { return 1000 }
	second.storage.now = func() int64 { return 2000 }

	_, err := first.storage.CreateTask(CreateTaskRequest{Title: "от первого клиента"})
	require.NoError(t, err)
	_, err = second.storage.CreateTask(CreateTaskRequest{Title: "от второго клиента"})
	require.NoError(t, err)

	_, err = first.sync.Sync(ctx)
	require.NoError(t, err)
	_, err = second.sync.Sync(ctx)
	require.NoError(t, err)
	_, err = first.sync.Sync(ctx)
	require.NoError(t, err)

	firstTasks, err := first.storage.ListVisible()
	require.NoError(t, err)
	secondTasks, err := second.storage.ListVisible()
	require.NoError(t, err)

	assert.Len(t, firstTasks, 2)
	assert.Len(t, secondTasks, 2)
}
