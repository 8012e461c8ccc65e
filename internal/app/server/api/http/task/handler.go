package task

import (
	"context"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"taskkeeper/internal/domain/task"
)

type Handler struct {
	service    task.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service task.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.pullOp(), h.pull)
	huma.Register(api, h.pushOp(), h.push)
}

func (h *Handler) pull(ctx context.Context, input *pullInput) (*pullOutput, error) {
	var since *int64
	if input.Since != "" {
		v, err := strconv.ParseInt(input.Since, 10, 64)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("параметр since должен быть целым числом миллисекунд")
		}
		since = &v
	}

	response, err := h.service.Changes(ctx, since)
	if err != nil {
		h.log.Error("failed to collect changes", "error", err)
		return nil, huma.Error500InternalServerError("не удалось получить изменения")
	}

	if response.NoNewData {
		return &pullOutput{Status: http.StatusNoContent}, nil
	}

	return &pullOutput{
		Status: http.StatusOK,
		Body:   response.Tasks,
	}, nil
}

func (h *Handler) push(ctx context.Context, input *pushInput) (*pushOutput, error) {
	response, err := h.service.Reconcile(ctx, input.Body)
	if err != nil {
		return &pushOutput{
			Body: task.PushResponse{
				Status:   "error",
				Error:    err.Error(),
				Updated:  []string{},
				Outdated: []task.Task{},
			},
		}, nil
	}

	return &pushOutput{
		Body: *response,
	}, nil
}
