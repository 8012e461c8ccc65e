package task

// Task запись списка задач в том виде, в котором она ходит по сети и
// хранится на сервере. Идентификатор назначается клиентом, временные метки
// заданы в миллисекундах Unix-времени.
type Task struct {
	ID          string   `json:"id" doc:"Идентификатор задачи, назначается клиентом"`
	Title       string   `json:"title" doc:"Заголовок задачи"`
	Description string   `json:"description,omitempty" doc:"Описание задачи"`
	Completed   bool     `json:"completed" doc:"Признак выполнения"`
	Priority    Priority `json:"priority,omitempty" doc:"Приоритет задачи"`
	CreatedAt   int64    `json:"created_at,omitempty" doc:"Время создания, мс Unix-времени"`
	UpdatedAt   int64    `json:"updated_at" doc:"Время последнего изменения, мс Unix-времени"`
}

// Normalize выставляет значения по умолчанию для необязательных полей.
func (t *Task) Normalize() {
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.CreatedAt == 0 {
		t.CreatedAt = t.UpdatedAt
	}
}
