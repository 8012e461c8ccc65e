// cmd/client/cmd/task/restore.go
package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskkeeper/internal/app/client"
)

var RestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Вернуть удаленную задачу",
	Long: `Снимает пометку удаления, если она еще не подтверждена сервером.
Возвращенная задача снова ожидает отправки.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		if err := app.RestoreTask(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("ошибка восстановления задачи: %w", err)
		}

		fmt.Println("✅ Задача восстановлена")

		return nil
	},
}
