// cmd/client/cmd/task/delete.go
package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskkeeper/internal/app/client"
)

var DeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Удалить задачу",
	Long: `Задача помечается удаленной и скрывается из списка. Физическое
удаление произойдет после подтверждения сервером. До этого момента
задачу можно вернуть командой restore.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		if err := app.DeleteTask(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("ошибка удаления задачи: %w", err)
		}

		fmt.Println("✅ Задача помечена удаленной")

		return nil
	},
}
