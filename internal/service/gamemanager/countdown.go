package gamemanager

import (
	"context"
	"log"
	"sync"
	"time"
)

// CountdownHandler получает события рекомендательного таймера.
// OnTick вызывается на каждом тике с оставшимся временем, OnExpire: один раз по истечении.
type CountdownHandler interface {
	OnTick(remaining time.Duration, deadline time.Time)
	OnExpire()
}

// Countdown — рекомендательный таймер вопроса. Истечение таймера не меняет состояние игры,
// решение о результате ответа всегда принимает ведущий.
type Countdown struct {
	mu       sync.Mutex
	tick     time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
	deadline time.Time
}

// NewCountdown создает таймер с заданным шагом тиков
func NewCountdown(tick time.Duration) *Countdown {
	if tick <= 0 {
		tick = DefaultCountdownTick
	}
	return &Countdown{tick: tick}
}

// Start запускает отсчёт на duration. Предыдущий отсчёт, если он был, останавливается.
func (c *Countdown) Start(ctx context.Context, duration time.Duration, handler CountdownHandler) time.Time {
	c.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()

	timerCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	deadline := time.Now().Add(duration)

	c.cancel = cancel
	c.done = done
	c.deadline = deadline

	go c.run(timerCtx, deadline, handler, done)
	return deadline
}

func (c *Countdown) run(ctx context.Context, deadline time.Time, handler CountdownHandler, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			remaining := time.Until(deadline)
			if remaining <= 0 {
				c.clear(done)
				if handler != nil {
					handler.OnExpire()
				}
				return
			}
			if handler != nil {
				handler.OnTick(remaining.Round(time.Second), deadline)
			}
		case <-ctx.Done():
			return
		}
	}
}

// clear сбрасывает дедлайн, если таймер не был перезапущен
func (c *Countdown) clear(done chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done == done {
		c.deadline = time.Time{}
		c.cancel = nil
		c.done = nil
	}
}

// Stop останавливает отсчёт и дожидается завершения горутины таймера.
// Безопасно вызывать, если таймер не запущен.
func (c *Countdown) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.deadline = time.Time{}
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Printf("[Countdown] Таймер остановлен")
}

// Deadline возвращает время истечения текущего отсчёта; false, если таймер не запущен
func (c *Countdown) Deadline() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deadline.IsZero() {
		return time.Time{}, false
	}
	return c.deadline, true
}
