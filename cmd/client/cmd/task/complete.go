// cmd/client/cmd/task/complete.go
package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskkeeper/internal/app/client"
)

var CompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Переключить отметку выполнения",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		t, err := app.ToggleComplete(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("ошибка изменения задачи: %w", err)
		}

		if t.Completed {
			fmt.Printf("✅ Задача '%s' отмечена выполненной\n", t.Title)
		} else {
			fmt.Printf("Задача '%s' снова активна\n", t.Title)
		}

		return nil
	},
}
