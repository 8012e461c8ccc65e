package task

// ChangesResponse результат инкрементальной выборки. NoNewData означает,
// что курсор клиента не отстает от курсора сервера и передавать нечего.
type ChangesResponse struct {
	Tasks     []Task
	NoNewData bool
}

// PushResponse ответ сервера на пакетную сверку. Updated содержит
// идентификаторы принятых записей, Outdated — серверные копии записей,
// отклоненных как устаревшие, LastSync — курсор сервера после сверки.
type PushResponse struct {
	Status   string   `json:"status"`
	Error    string   `json:"error,omitempty"`
	Updated  []string `json:"updated"`
	Outdated []Task   `json:"outdated"`
	LastSync int64    `json:"lastSync"`
}

// ServiceConfig настройки сервиса сверки
type ServiceConfig struct {
	MaxBatchSize int
}
