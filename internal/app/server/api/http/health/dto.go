package health

// Input входные данные проверки доступности
type Input struct{}

// Output ответ проверки доступности
type Output struct {
	Body Response
}

// Response состояние сервера синхронизации. Клиент проверяет его перед
// push-фазой, чтобы не отправлять пакет на заведомо недоступный сервер.
type Response struct {
	Status  string `json:"status" example:"OK" doc:"Состояние сервера"`
	Service string `json:"service" example:"taskkeeper" doc:"Имя сервиса"`
}
