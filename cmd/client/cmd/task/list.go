// cmd/client/cmd/task/list.go
package task

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"taskkeeper/internal/app/client"
)

var listFormat string

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список задач",
	Long:  `Просмотр всех задач без пометки удаления.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		tasks, err := app.ListTasks(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка получения списка задач: %w", err)
		}

		switch listFormat {
		case "json":
			return printTasksJSON(tasks)
		case "table":
			return printTasksTable(tasks)
		default:
			return printTasksSimple(tasks)
		}
	},
}

func printTasksSimple(tasks []*client.LocalTask) error {
	if len(tasks) == 0 {
		fmt.Println("Задачи не найдены")
		return nil
	}

	fmt.Printf("Найдено задач: %d\n\n", len(tasks))

	for i, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "✓"
		}

		fmt.Printf("%d. [%s] %s ", i+1, mark, t.Title)
		priorityPrinter(t.Priority).Printf("(%s)\n", t.Priority.DisplayName())
		fmt.Printf("   ID: %s | Статус: %s | Изменено: %s\n",
			t.ID,
			t.SyncStatus,
			time.UnixMilli(t.UpdatedAt).Format("2006-01-02 15:04"))
		fmt.Println()
	}

	return nil
}

func printTasksTable(tasks []*client.LocalTask) error {
	if len(tasks) == 0 {
		fmt.Println("Задачи не найдены")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tНазвание\tПриоритет\tВыполнена\tСтатус\tИзменено\t\n")
	fmt.Fprintf(w, "---\t---\t---\t---\t---\t---\t\n")

	for _, t := range tasks {
		completed := "нет"
		if t.Completed {
			completed = "да"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			t.ID,
			truncate(t.Title, 30),
			t.Priority.DisplayName(),
			completed,
			t.SyncStatus,
			time.UnixMilli(t.UpdatedAt).Format("2006-01-02"),
		)
	}

	w.Flush()
	fmt.Printf("\nВсего задач: %d\n", len(tasks))
	return nil
}

func printTasksJSON(tasks []*client.LocalTask) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(tasks)
}

func init() {
	ListCmd.Flags().StringVarP(&listFormat, "format", "f", "simple", "формат вывода (simple, table, json)")
}
