package task

import (
	"fmt"

	"github.com/danielgtaylor/huma/v2"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (Priority) Schema() huma.Schema {
	return huma.Schema{
		Type: "string",
		Enum: []any{
			string(PriorityLow),
			string(PriorityMedium),
			string(PriorityHigh),
		},
		Description: "Приоритет задачи",
		Examples:    []any{PriorityMedium},
	}
}

// Validate реализует интерфейс huma.Validatable.
func (p Priority) Validate() error {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, "":
		return nil
	}
	return fmt.Errorf("неверный приоритет задачи: %s", p)
}

// String возвращает строковое представление приоритета.
func (p Priority) String() string {
	return string(p)
}

// DisplayName возвращает человекочитаемое название приоритета.
func (p Priority) DisplayName() string {
	switch p {
	case PriorityLow:
		return "Низкий"
	case PriorityMedium:
		return "Средний"
	case PriorityHigh:
		return "Высокий"
	default:
		return "Не задан"
	}
}

// SyncStatus статус синхронизации локальной записи. На сервер не передается:
// сервер различает записи только по временным меткам.
type SyncStatus string

const (
	StatusSynced  SyncStatus = "synced"
	StatusPending SyncStatus = "pending"
	StatusDeleted SyncStatus = "deleted"
)

// Validate проверяет, что статус входит в закрытый набор значений.
func (s SyncStatus) Validate() error {
	switch s {
	case StatusSynced, StatusPending, StatusDeleted:
		return nil
	}
	return fmt.Errorf("неверный статус синхронизации: %s", s)
}

// String возвращает строковое представление статуса.
func (s SyncStatus) String() string {
	return string(s)
}
