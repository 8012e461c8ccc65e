package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"taskkeeper/internal/domain/task"
)

// ErrSyncInProgress повторный запуск при незавершенной синхронизации
var ErrSyncInProgress = errors.New("синхронизация уже выполняется")

// SyncService выполняет двухфазную синхронизацию: сначала забирает
// изменения с сервера, затем отправляет локальные. Ошибка на этапе
// pull отменяет push.
type SyncService struct {
	storage   Storage
	client    *httpClient
	log       *slog.Logger
	now       func() int64
	mu        sync.Mutex
	isSyncing bool
	stats     SyncStats
}

// SyncStats статистика синхронизаций за время жизни процесса
type SyncStats struct {
	TotalSyncs      int       `json:"total_syncs"`
	LastSuccessful  time.Time `json:"last_successful"`
	LastFailed      time.Time `json:"last_failed"`
	TotalUploaded   int       `json:"total_uploaded"`
	TotalDownloaded int       `json:"total_downloaded"`
	TotalErrors     int       `json:"total_errors"`
}

// SyncResult итог одного прохода синхронизации
type SyncResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Pulled  int    `json:"pulled"`
	Pushed  int    `json:"pushed"`
}

// NewSyncService создает сервис синхронизации
func NewSyncService(storage Storage, client *httpClient, log *slog.Logger) *SyncService {
	return &SyncService{
		storage: storage,
		client:  client,
		log:     log,
		now:     nowMillis,
	}
}

// Sync выполняет один проход синхронизации. Сетевые и протокольные
// ошибки не возвращаются наружу: итог всегда в SyncResult, локальное
// состояние при сбое остается пригодным для повтора.
func (s *SyncService) Sync(ctx context.Context) (*SyncResult, error) {
	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		return nil, ErrSyncInProgress
	}
	s.isSyncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	result := &SyncResult{}

	pulled, err := s.pull(ctx)
	if err != nil {
		s.log.Warn("pull failed", "error", err)
		s.recordFailure()
		result.Message = fmt.Sprintf("этап pull завершился ошибкой: %v", err)
		return result, nil
	}
	result.Pulled = pulled

	pushed, err := s.push(ctx)
	if err != nil {
		s.log.Warn("push failed", "error", err)
		s.recordFailure()
		result.Message = fmt.Sprintf("этап push завершился ошибкой: %v", err)
		return result, nil
	}
	result.Pushed = pushed

	result.Success = true
	if pulled == 0 && pushed == 0 {
		result.Message = "нет изменений для синхронизации"
	} else {
		result.Message = "синхронизация завершена успешно"
	}

	s.recordSuccess(pulled, pushed)
	s.log.Info("sync finished", "pulled", pulled, "pushed", pushed)

	return result, nil
}

// pull забирает серверные изменения после локального курсора и
// применяет их без сравнения: сервер уже провел сверку по правилу
// последней записи
func (s *SyncService) pull(ctx context.Context) (int, error) {
	since, err := s.storage.LastSync()
	if err != nil {
		return 0, fmt.Errorf("ошибка чтения курсора синхронизации: %w", err)
	}

	tasks, noNewData, err := s.client.PullChanges(ctx, since)
	if err != nil {
		return 0, err
	}
	if noNewData || len(tasks) == 0 {
		return 0, nil
	}

	if err := s.storage.ApplyRemote(tasks); err != nil {
		return 0, fmt.Errorf("ошибка применения серверных изменений: %w", err)
	}

	// Курсор двигается только вперед
	maxUpdated := since
	for _, t := range tasks {
		if t.UpdatedAt > maxUpdated {
			maxUpdated = t.UpdatedAt
		}
	}
	if maxUpdated > since {
		if err := s.storage.SetLastSync(maxUpdated); err != nil {
			return 0, fmt.Errorf("ошибка сохранения курсора синхронизации: %w", err)
		}
	}

	return len(tasks), nil
}

// push отправляет несинхронизированные задачи пакетом и разбирает
// вердикт сервера: принятые помечаются синхронизированными, локальные
// пометки удаления превращаются в физическое удаление, отклоненные
// заменяются серверными копиями
func (s *SyncService) push(ctx context.Context) (int, error) {
	pending, err := s.storage.ListPendingSync()
	if err != nil {
		return 0, fmt.Errorf("ошибка выборки локальных изменений: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	batch := make([]task.Task, 0, len(pending))
	for _, t := range pending {
		batch = append(batch, t.Remote())
	}

	resp, err := s.client.PushChanges(ctx, batch)
	if err != nil {
		return 0, err
	}

	// Успешный ответ подтверждает весь пакет: запись либо принята,
	// либо у сервера уже была эта или более свежая версия. Только
	// отклоненные как устаревшие ждут серверной копии.
	outdated := make(map[string]bool, len(resp.Outdated))
	for _, t := range resp.Outdated {
		outdated[t.ID] = true
	}

	synced := make([]string, 0, len(pending))
	for _, t := range pending {
		if outdated[t.ID] {
			continue
		}
		if t.SyncStatus == task.StatusDeleted {
			if err := s.storage.HardDelete(t.ID); err != nil {
				return 0, fmt.Errorf("ошибка удаления задачи после подтверждения: %w", err)
			}
			continue
		}
		synced = append(synced, t.ID)
	}
	if err := s.storage.MarkSynced(synced); err != nil {
		return 0, fmt.Errorf("ошибка отметки задач синхронизированными: %w", err)
	}

	// Отклоненные записи: на сервере более свежая версия, принимаем ее
	if len(resp.Outdated) > 0 {
		if err := s.storage.ApplyRemote(resp.Outdated); err != nil {
			return 0, fmt.Errorf("ошибка применения серверных копий: %w", err)
		}
	}

	lastSync := resp.LastSync
	if lastSync <= 0 {
		lastSync = s.now()
	}
	if err := s.storage.SetLastSync(lastSync); err != nil {
		return 0, fmt.Errorf("ошибка сохранения курсора синхронизации: %w", err)
	}

	return len(batch), nil
}

func (s *SyncService) recordSuccess(pulled, pushed int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.TotalSyncs++
	s.stats.LastSuccessful = time.Now()
	s.stats.TotalDownloaded += pulled
	s.stats.TotalUploaded += pushed
}

func (s *SyncService) recordFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.TotalSyncs++
	s.stats.LastFailed = time.Now()
	s.stats.TotalErrors++
}

// Stats возвращает копию статистики синхронизаций
func (s *SyncService) Stats() SyncStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// IsSyncing проверяет, выполняется ли синхронизация
func (s *SyncService) IsSyncing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isSyncing
}
