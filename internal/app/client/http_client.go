package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/exp/slog"

	"taskkeeper/internal/app/client/config"
	"taskkeeper/internal/domain/task"
)

var (
	// ErrNetwork сервер недоступен, запрос не дошел или завершился
	// ошибочным статусом
	ErrNetwork = errors.New("сервер недоступен")
	// ErrProtocol тело ответа не соответствует протоколу
	ErrProtocol = errors.New("некорректный ответ сервера")
)

type httpClient struct {
	client    *http.Client
	config    *config.Config
	log       *slog.Logger
	baseURL   string
	userAgent string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) (*httpClient, error) {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			DisableCompression:  false,
			DisableKeepAlives:   false,
			MaxIdleConnsPerHost: 10,
		},
	}

	// Определяем протокол
	scheme := "http://"
	if cfg.EnableTLS {
		scheme = "https://"
	}
	baseURL := scheme + cfg.ServerAddress

	return &httpClient{
		client:    client,
		config:    cfg,
		log:       log,
		baseURL:   baseURL,
		userAgent: "TaskKeeper-Client/1.0",
	}, nil
}

// HealthCheck проверяет доступность сервера
func (h *httpClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: статус %d", ErrNetwork, resp.StatusCode)
	}

	return nil
}

// PullChanges запрашивает изменения после курсора since. Нулевой курсор
// означает первый запуск: параметр не передается и сервер возвращает
// полный набор. Второй результат true означает, что новых данных нет.
func (h *httpClient) PullChanges(ctx context.Context, since int64) ([]task.Task, bool, error) {
	url := h.baseURL + "/records"
	if since > 0 {
		url += "?since=" + strconv.FormatInt(since, 10)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("User-Agent", h.userAgent)

	h.log.Debug("pulling changes", "url", url)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, true, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("%w: статус %d", ErrNetwork, resp.StatusCode)
	}

	var tasks []task.Task
	if err := json.NewDecoder(resp.Body).Decode(&tasks); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	return tasks, false, nil
}

// PushChanges отправляет пакет локальных изменений на сверку
func (h *httpClient) PushChanges(ctx context.Context, tasks []task.Task) (*task.PushResponse, error) {
	body, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		h.baseURL+"/records/sync", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", h.userAgent)

	h.log.Debug("pushing changes", "count", len(tasks))

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: статус %d", ErrNetwork, resp.StatusCode)
	}

	var result task.PushResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	if result.Status != "ok" {
		return nil, fmt.Errorf("%w: %s", ErrProtocol, result.Error)
	}

	return &result, nil
}
