package service

import "errors"

// Определяем кастомные ошибки для сервисов
var (
	// ErrTooManySessions — достигнут предел одновременно открытых игр
	ErrTooManySessions = errors.New("too many active game sessions")
)
