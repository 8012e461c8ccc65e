// cmd/client/cmd/init.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskkeeper/cmd/client/cmd/sync"
	"taskkeeper/cmd/client/cmd/task"
	"taskkeeper/internal/app/client"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Проверить настройку клиента TaskKeeper",
	Long: `Команда init проверяет готовность клиента к работе:
	1. Локальное хранилище создано и доступно
	2. Сервер синхронизации отвечает

Отсутствие сервера не мешает работе: задачи сохраняются локально и
будут синхронизированы при следующем подключении.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println("=== Проверка TaskKeeper ===")
		fmt.Println()

		stats, err := app.StoreStats()
		if err != nil {
			return fmt.Errorf("ошибка доступа к локальному хранилищу: %w", err)
		}
		fmt.Printf("✓ Локальное хранилище доступно (задач: %d)\n", stats.Total)

		fmt.Println("Проверка соединения с сервером...")
		if err := app.CheckConnection(); err != nil {
			fmt.Printf("⚠️  Предупреждение: не удалось подключиться к серверу: %v\n", err)
			fmt.Println("Вы можете работать в офлайн-режиме, синхронизация выполнится позже.")
		} else {
			fmt.Println("✓ Соединение с сервером установлено")
		}

		fmt.Println()
		fmt.Println("Что дальше:")
		fmt.Println("1. Создайте задачу: taskkeeper task create --title \"...\"")
		fmt.Println("2. Посмотрите список: taskkeeper task list")
		fmt.Println("3. Синхронизируйтесь вручную: taskkeeper sync")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	// Команды работы с задачами
	rootCmd.AddCommand(task.TaskCmd)
	task.TaskCmd.AddCommand(task.CreateCmd)
	task.TaskCmd.AddCommand(task.ListCmd)
	task.TaskCmd.AddCommand(task.GetCmd)
	task.TaskCmd.AddCommand(task.UpdateCmd)
	task.TaskCmd.AddCommand(task.CompleteCmd)
	task.TaskCmd.AddCommand(task.DeleteCmd)
	task.TaskCmd.AddCommand(task.RestoreCmd)

	rootCmd.AddCommand(sync.SyncCmd)
}
