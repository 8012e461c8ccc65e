// cmd/client/cmd/task/create.go
package task

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taskkeeper/internal/app/client"
	"taskkeeper/internal/domain/task"
)

var (
	createTitle       string
	createDescription string
	createPriority    string
)

var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Создать новую задачу",
	Long: `Создание новой задачи.

Задача сохраняется локально со статусом pending и будет отправлена на
сервер при ближайшей синхронизации.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		// Запрашиваем название, если оно не передано флагом
		if createTitle == "" {
			fmt.Print("Название задачи: ")
			scanner := bufio.NewScanner(os.Stdin)
			if scanner.Scan() {
				createTitle = scanner.Text()
			}
			if createTitle == "" {
				return fmt.Errorf("название задачи обязательно")
			}
		}

		priority := task.Priority(createPriority)
		if err := priority.Validate(); err != nil {
			return fmt.Errorf("неверный приоритет: %w", err)
		}

		created, err := app.CreateTask(cmd.Context(), client.CreateTaskRequest{
			Title:       createTitle,
			Description: createDescription,
			Priority:    priority,
		})
		if err != nil {
			return fmt.Errorf("ошибка создания задачи: %w", err)
		}

		fmt.Printf("✅ Задача '%s' создана\n", created.Title)
		fmt.Printf("   ID: %s | Приоритет: %s\n", created.ID, created.Priority.DisplayName())

		return nil
	},
}

func init() {
	CreateCmd.Flags().StringVarP(&createTitle, "title", "t", "", "название задачи")
	CreateCmd.Flags().StringVar(&createDescription, "desc", "", "описание задачи")
	CreateCmd.Flags().StringVarP(&createPriority, "priority", "p", "", "приоритет (low, medium, high)")
}
