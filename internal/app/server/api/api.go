//GET  /records        # Изменения после курсора since (204 — данных нет)
//POST /records/sync   # Пакетная сверка записей клиента
//GET  /api/v1/health  # Проверка доступности сервера

package api

import (
	healthAPI "taskkeeper/internal/app/server/api/http/health"
	"taskkeeper/internal/app/server/api/http/middleware"
	"taskkeeper/internal/app/server/api/http/middleware/logger"
	taskAPI "taskkeeper/internal/app/server/api/http/task"
	"taskkeeper/internal/domain/task"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health *healthAPI.Handler
	Task   *taskAPI.Handler
}

// New создает *chi.Mux со всеми операциями через huma.Register
func New(service task.Servicer, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("TaskKeeper API", "1.0.0")

	API := humachi.New(mux, config)

	h := handlers(service, log)
	h.Health.SetupRoutes(API)
	h.Task.SetupRoutes(API)

	return mux
}

func handlers(service task.Servicer, log *slog.Logger) *Handlers {
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	taskHandler := taskAPI.NewHandler(service, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health: healthHandler,
		Task:   taskHandler,
	}
}
