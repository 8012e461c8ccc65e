package task

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) pullOp() huma.Operation {
	return huma.Operation{
		OperationID: "records-pull",
		Method:      http.MethodGet,
		Path:        "/records",
		Summary:     "Получить изменения для синхронизации",
		Description: "Возвращает записи, измененные после переданного курсора; 204 — если новых данных нет",
		Tags:        []string{"records"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) pushOp() huma.Operation {
	return huma.Operation{
		OperationID: "records-push",
		Method:      http.MethodPost,
		Path:        "/records/sync",
		Summary:     "Пакетная сверка записей",
		Description: "Принимает пакет записей клиента и сверяет их по правилу последней записи",
		Tags:        []string{"records"},
		Middlewares: h.middleware,
	}
}
