package websocket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	defaultWriteWait      = 10 * time.Second
	defaultPongWait       = 60 * time.Second
	defaultMaxMessageSize = 4096 // Клиенты шлют только короткие служебные сообщения
	defaultClientBuffer   = 64

	// Сколько переполнений буфера подряд терпим до отключения клиента
	maxBufferWarnings = 3

	registerTimeout = 5 * time.Second
)

// ClientConfig содержит настройки соединения одного клиента
type ClientConfig struct {
	BufferSize     int           // Размер очереди исходящих событий
	PingInterval   time.Duration // Должен быть меньше PongWait
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
}

// DefaultClientConfig возвращает конфигурацию клиента по умолчанию
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BufferSize:     defaultClientBuffer,
		PingInterval:   defaultPongWait * 9 / 10,
		PongWait:       defaultPongWait,
		WriteWait:      defaultWriteWait,
		MaxMessageSize: defaultMaxMessageSize,
	}
}

// normalize заменяет нулевые и противоречивые значения на значения по умолчанию
func (c ClientConfig) normalize() ClientConfig {
	def := DefaultClientConfig()
	if c.BufferSize <= 0 {
		c.BufferSize = def.BufferSize
	}
	if c.PongWait <= 0 {
		c.PongWait = def.PongWait
	}
	if c.PingInterval <= 0 || c.PingInterval >= c.PongWait {
		c.PingInterval = c.PongWait * 9 / 10
	}
	if c.WriteWait <= 0 {
		c.WriteWait = def.WriteWait
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = def.MaxMessageSize
	}
	return c
}

// MessageHandler обрабатывает входящее сообщение; ошибка закрывает соединение
type MessageHandler func(message []byte, client *Client) error

// Client связывает одно WebSocket соединение с комнатой игры в хабе
type Client struct {
	GameID       string
	ConnectionID string
	// Host — экран ведущего: получает ответы и расположение Daily Double
	Host bool

	hub    *Hub
	conn   *websocket.Conn
	config ClientConfig

	// send пишется и закрывается только циклом хаба
	send       chan []byte
	sendClosed atomic.Bool

	registrationComplete chan struct{}
	bufferWarnings       atomic.Int32
}

// NewClient создает клиента игры gameID; conn может быть nil в тестах хаба
func NewClient(hub *Hub, conn *websocket.Conn, gameID string, host bool, config ClientConfig) *Client {
	config = config.normalize()
	return &Client{
		GameID:               gameID,
		ConnectionID:         uuid.NewString(),
		Host:                 host,
		hub:                  hub,
		conn:                 conn,
		config:               config,
		send:                 make(chan []byte, config.BufferSize),
		registrationComplete: make(chan struct{}, 1),
	}
}

// StartPumps регистрирует клиента в хабе и запускает горутины чтения и записи.
// false означает, что регистрация не удалась и соединение закрыто.
func (c *Client) StartPumps(handler MessageHandler) bool {
	if c.GameID == "" {
		log.Printf("[WebSocket] Клиент %s без GameID, соединение закрыто", c.ConnectionID)
		c.conn.Close()
		return false
	}
	if !c.hub.RegisterSync(c, registerTimeout) {
		log.Printf("[WebSocket] Таймаут регистрации клиента game=%s conn=%s", c.GameID, c.ConnectionID)
		c.conn.Close()
		return false
	}

	go c.writePump()
	go c.readPump(handler)
	return true
}

// readPump читает сообщения клиента до ошибки соединения или ошибки обработчика
func (c *Client) readPump(handler MessageHandler) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
		log.Printf("[WebSocket] Чтение остановлено: game=%s conn=%s", c.GameID, c.ConnectionID)
	}()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	extend := func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	}
	_ = extend("")
	c.conn.SetPongHandler(extend)

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Printf("[WebSocket] Ошибка чтения (game=%s conn=%s): %v", c.GameID, c.ConnectionID, err)
			}
			return
		}
		if err := c.dispatch(message, handler); err != nil {
			log.Printf("[WebSocket] Закрываем соединение game=%s conn=%s: %v", c.GameID, c.ConnectionID, err)
			return
		}
	}
}

// dispatch вызывает обработчик, превращая panic в ошибку
func (c *Client) dispatch(message []byte, handler MessageHandler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WebSocket] PANIC в обработчике game=%s conn=%s: %v\n%s", c.GameID, c.ConnectionID, r, debug.Stack())
			err = fmt.Errorf("panic recovered: %v", r)
		}
	}()
	if handler == nil {
		return nil
	}
	return handler(bytes.TrimSpace(message), c)
}

// writePump отправляет события из send и периодические ping
func (c *Client) writePump() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				// Хаб отключил клиента
				c.writeFrame(websocket.CloseMessage, nil)
				return
			}
			if err := c.writeFrame(websocket.TextMessage, message); err != nil {
				log.Printf("[WebSocket] Ошибка записи (game=%s conn=%s): %v", c.GameID, c.ConnectionID, err)
				return
			}
		case <-ticker.C:
			if err := c.writeFrame(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) writeFrame(messageType int, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}

// enqueue кладет сообщение в очередь клиента, не блокируя. Вызывается только циклом хаба.
func (c *Client) enqueue(message []byte) bool {
	if c.IsSendClosed() {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

func (c *Client) incrementBufferWarningCount() int32 {
	return c.bufferWarnings.Add(1)
}

func (c *Client) resetBufferWarningCount() {
	c.bufferWarnings.Store(0)
}

// CloseSend закрывает канал send один раз; true, если закрыл этот вызов
func (c *Client) CloseSend() bool {
	if c.sendClosed.CompareAndSwap(false, true) {
		close(c.send)
		return true
	}
	return false
}

// IsSendClosed сообщает, отключен ли клиент хабом
func (c *Client) IsSendClosed() bool {
	return c.sendClosed.Load()
}

// messageTypeFromBytes извлекает тип события из JSON для метрик и логов
func messageTypeFromBytes(message []byte) string {
	var event struct {
		Type string `json:"type"`
	}
	if json.Unmarshal(message, &event) == nil && event.Type != "" {
		return event.Type
	}
	return "unknown"
}
