// cmd/client/cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"taskkeeper/internal/app/client"
	"taskkeeper/internal/app/client/config"
	"taskkeeper/internal/utils/logger"
)

var (
	cfgDir    string
	cfg       *config.Config
	log       *slog.Logger
	app       *client.App
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "taskkeeper",
	Short: "TaskKeeper - менеджер задач с офлайн-синхронизацией",
	Long: `TaskKeeper — это клиентское приложение для ведения списка задач.

Все изменения сначала сохраняются локально и остаются доступными без
сети. При появлении соединения клиент сверяет изменения с сервером:
побеждает версия с более поздней отметкой времени.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	// Загружаем конфигурацию
	if cfgDir != "" {
		os.Setenv("CONFIG_DIR", cfgDir)
	}
	cfg = config.MustLoad()

	// Переопределяем настройки из флагов командной строки
	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}

	// Настраиваем логгер
	log = logger.New(cfg.Env)

	// Создаем приложение
	var err error
	app, err = client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	cmd.SetContext(client.NewContext(cmd.Context(), app))

	return nil
}

func init() {
	cobra.OnInitialize()

	// Глобальные флаги
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "", "директория конфигурации")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "адрес сервера TaskKeeper")
}
