// cmd/client/cmd/task/get.go
package task

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"taskkeeper/internal/app/client"
)

var GetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Показать задачу",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		t, err := app.GetTask(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("ошибка получения задачи: %w", err)
		}

		completed := "нет"
		if t.Completed {
			completed = "да"
		}

		fmt.Printf("Название:   %s\n", t.Title)
		if t.Description != "" {
			fmt.Printf("Описание:   %s\n", t.Description)
		}
		fmt.Printf("Приоритет:  ")
		priorityPrinter(t.Priority).Println(t.Priority.DisplayName())
		fmt.Printf("Выполнена:  %s\n", completed)
		fmt.Printf("Статус:     %s\n", t.SyncStatus)
		fmt.Printf("Создана:    %s\n", time.UnixMilli(t.CreatedAt).Format("2006-01-02 15:04:05"))
		fmt.Printf("Изменена:   %s\n", time.UnixMilli(t.UpdatedAt).Format("2006-01-02 15:04:05"))

		return nil
	},
}
