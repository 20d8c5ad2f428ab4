package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда сессия игры, результат или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrValidation используется для ошибок валидации входных данных:
	// неверная ставка, неизвестная команда, несуществующий вопрос.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition используется, когда команда пришла в состоянии игры,
	// которое её не допускает (например, ставка без выбранного Daily Double).
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrDataLoad используется, когда данные доски не удалось загрузить:
	// после пропуска битых записей в обычном раунде не осталось ни одного вопроса.
	ErrDataLoad = errors.New("board data load failed")

	// ErrConflict используется для конфликтов состояния (например, повторное архивирование одной игры).
	ErrConflict = errors.New("resource state conflict")
)
