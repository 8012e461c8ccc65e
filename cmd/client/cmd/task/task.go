// cmd/client/cmd/task/task.go
package task

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"taskkeeper/internal/domain/task"
)

// TaskCmd родительская команда работы с задачами
var TaskCmd = &cobra.Command{
	Use:   "task",
	Short: "Управление задачами",
	Long: `Создание, просмотр и изменение задач.

Все операции выполняются над локальным хранилищем и не требуют сети.
После каждой мутации клиент пытается синхронизироваться с сервером.`,
}

func priorityPrinter(p task.Priority) *color.Color {
	switch p {
	case task.PriorityHigh:
		return color.New(color.FgRed, color.Bold)
	case task.PriorityLow:
		return color.New(color.FgBlue)
	default:
		return color.New(color.FgYellow)
	}
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
