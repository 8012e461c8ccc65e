// cmd/client/cmd/sync/sync.go
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"taskkeeper/internal/app/client"
)

var syncStatus bool

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Синхронизация с сервером",
	Long: `Ручной запуск синхронизации.

Сначала клиент забирает изменения с сервера, затем отправляет свои.
Если сервер недоступен, локальные изменения остаются в очереди до
следующего запуска.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		if syncStatus {
			return showSyncStatus(app)
		}

		return runSync(cmd.Context(), app)
	},
}

func runSync(ctx context.Context, app *client.App) error {
	fmt.Println("=== Синхронизация данных ===")
	start := time.Now()

	result, err := app.Sync(ctx)
	if err != nil {
		return fmt.Errorf("ошибка синхронизации: %w", err)
	}

	duration := time.Since(start)

	fmt.Println()
	if result.Success {
		fmt.Println("✅ " + result.Message)
	} else {
		fmt.Println("⚠️  " + result.Message)
	}
	fmt.Printf("Время выполнения: %v\n", duration.Round(time.Millisecond))
	fmt.Printf("Получено с сервера: %d задач\n", result.Pulled)
	fmt.Printf("Отправлено на сервер: %d задач\n", result.Pushed)

	return nil
}

func showSyncStatus(app *client.App) error {
	fmt.Println("=== Статус синхронизации ===")

	store, err := app.StoreStats()
	if err != nil {
		return fmt.Errorf("ошибка получения статистики хранилища: %w", err)
	}

	fmt.Println("📦 Локальное хранилище:")
	fmt.Printf("  Всего задач: %d\n", store.Total)
	fmt.Printf("  Синхронизировано: %d\n", store.Synced)
	fmt.Printf("  Ожидает отправки: %d\n", store.Pending)
	fmt.Printf("  Помечено удаленными: %d\n", store.Deleted)
	if store.LastSync > 0 {
		fmt.Printf("  Курсор синхронизации: %s\n",
			time.UnixMilli(store.LastSync).Format("2006-01-02 15:04:05"))
	} else {
		fmt.Println("  Синхронизация еще не выполнялась")
	}

	stats := app.SyncStats()
	fmt.Println("\n📊 Статистика сеанса:")
	fmt.Printf("  Всего синхронизаций: %d\n", stats.TotalSyncs)
	fmt.Printf("  С ошибками: %d\n", stats.TotalErrors)
	fmt.Printf("  Отправлено задач: %d\n", stats.TotalUploaded)
	fmt.Printf("  Получено задач: %d\n", stats.TotalDownloaded)
	if !stats.LastSuccessful.IsZero() {
		fmt.Printf("  Последняя успешная: %s\n",
			stats.LastSuccessful.Format("2006-01-02 15:04:05"))
	}

	fmt.Printf("\n🌐 Соединение с сервером: ")
	if err := app.CheckConnection(); err != nil {
		fmt.Printf("❌ Ошибка: %v\n", err)
	} else {
		fmt.Printf("✅ OK\n")
	}

	return nil
}

func init() {
	SyncCmd.Flags().BoolVar(&syncStatus, "status", false, "показать статус синхронизации")
}
