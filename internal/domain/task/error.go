package task

import "errors"

var (
	// ErrNotFound запись не найдена в хранилище
	ErrNotFound = errors.New("task not found")

	// ErrAlreadyDeleted запись уже помечена удаленной
	ErrAlreadyDeleted = errors.New("task already deleted")

	// ErrBatchTooLarge пакет превышает допустимый размер
	ErrBatchTooLarge = errors.New("batch too large")
)
