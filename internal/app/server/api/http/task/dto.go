package task

import (
	"taskkeeper/internal/domain/task"
)

// Request/Response структуры для выборки изменений.
// Параметр since передается строкой: отсутствие параметра означает
// первичную загрузку и его нужно отличать от нулевого значения.
type pullInput struct {
	Since string `query:"since" doc:"Курсор клиента: миллисекунды Unix-времени последней синхронизации"`
}

type pullOutput struct {
	Status int
	Body   []task.Task
}

// Request/Response структуры для пакетной сверки
type pushInput struct {
	Body []task.Task
}

type pushOutput struct {
	Body task.PushResponse
}
