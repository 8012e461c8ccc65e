// cmd/client/cmd/task/update.go
package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskkeeper/internal/app/client"
	"taskkeeper/internal/domain/task"
)

var (
	updateTitle       string
	updateDescription string
	updatePriority    string
)

var UpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Изменить задачу",
	Long: `Частичное изменение задачи: меняются только переданные поля.

После изменения задача снова помечается как ожидающая отправки.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		upd := client.TaskUpdate{}
		if cmd.Flags().Changed("title") {
			upd.Title = &updateTitle
		}
		if cmd.Flags().Changed("desc") {
			upd.Description = &updateDescription
		}
		if cmd.Flags().Changed("priority") {
			priority := task.Priority(updatePriority)
			if err := priority.Validate(); err != nil {
				return fmt.Errorf("неверный приоритет: %w", err)
			}
			upd.Priority = &priority
		}

		if upd.Title == nil && upd.Description == nil && upd.Priority == nil {
			return fmt.Errorf("не передано ни одного поля для изменения")
		}

		updated, err := app.UpdateTask(cmd.Context(), args[0], upd)
		if err != nil {
			return fmt.Errorf("ошибка изменения задачи: %w", err)
		}

		fmt.Printf("✅ Задача '%s' изменена\n", updated.Title)

		return nil
	},
}

func init() {
	UpdateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "новое название")
	UpdateCmd.Flags().StringVar(&updateDescription, "desc", "", "новое описание")
	UpdateCmd.Flags().StringVarP(&updatePriority, "priority", "p", "", "новый приоритет (low, medium, high)")
}
