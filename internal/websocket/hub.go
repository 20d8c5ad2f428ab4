package websocket

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// roomMessage — сообщение для клиентов одной игры
type roomMessage struct {
	gameID   string
	audience Audience
	payload  []byte
	close    bool // После рассылки отключить всех клиентов игры
}

// directMessage — сообщение одному клиенту
type directMessage struct {
	client  *Client
	payload []byte
	result  chan bool
}

// Hub держит комнаты игр: каждый клиент подписан ровно на одну игровую сессию.
// Все изменения комнат и записи в каналы клиентов выполняются в цикле Run.
type Hub struct {
	rooms map[string]map[*Client]struct{} // Только внутри Run

	register   chan *Client
	unregister chan *Client
	broadcast  chan roomMessage
	direct     chan directMessage
	done       chan struct{}
	stopOnce   sync.Once

	clientCount atomic.Int64
	roomCount   atomic.Int64
	roomSizes   sync.Map // gameID -> int, для чтения вне цикла

	observer ConnectionObserver
}

// NewHub создает хаб; observer может быть nil
func NewHub(broadcastBuffer int, observer ConnectionObserver) *Hub {
	if broadcastBuffer <= 0 {
		broadcastBuffer = 256
	}
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client, 16),
		broadcast:  make(chan roomMessage, broadcastBuffer),
		direct:     make(chan directMessage, broadcastBuffer),
		done:       make(chan struct{}),
		observer:   observer,
	}
}

// Run обрабатывает события хаба до вызова Stop
func (h *Hub) Run() {
	log.Printf("[WebSocketHub] Запущен")
	for {
		select {
		case client := <-h.register:
			h.handleRegister(client)
		case client := <-h.unregister:
			h.handleUnregister(client)
		case msg := <-h.broadcast:
			h.handleBroadcast(msg)
		case msg := <-h.direct:
			msg.result <- h.deliver(msg.client, msg.payload)
		case <-h.done:
			log.Printf("[WebSocketHub] Получен сигнал завершения работы, отключаем клиентов")
			for gameID := range h.rooms {
				h.handleCloseGame(gameID)
			}
			return
		}
	}
}

// Stop останавливает цикл хаба
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// RegisterSync регистрирует клиента и ждет подтверждения от цикла хаба
func (h *Hub) RegisterSync(client *Client, timeout time.Duration) bool {
	select {
	case h.register <- client:
	case <-time.After(timeout):
		return false
	case <-h.done:
		return false
	}
	select {
	case <-client.registrationComplete:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Unregister ставит клиента в очередь на отключение
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) handleRegister(client *Client) {
	room, ok := h.rooms[client.GameID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[client.GameID] = room
		h.roomCount.Add(1)
	}
	room[client] = struct{}{}
	h.roomSizes.Store(client.GameID, len(room))
	h.clientCount.Add(1)
	if h.observer != nil {
		h.observer.ConnectionOpened()
	}

	log.Printf("[WebSocketHub] Клиент %s подключен к игре %s (host=%t)", client.ConnectionID, client.GameID, client.Host)

	select {
	case client.registrationComplete <- struct{}{}:
	default:
	}
}

// handleUnregister удаляет клиента из комнаты; повторный вызов ничего не делает
func (h *Hub) handleUnregister(client *Client) {
	room, ok := h.rooms[client.GameID]
	if !ok {
		return
	}
	if _, ok := room[client]; !ok {
		return
	}
	delete(room, client)
	if len(room) == 0 {
		delete(h.rooms, client.GameID)
		h.roomSizes.Delete(client.GameID)
		h.roomCount.Add(-1)
	} else {
		h.roomSizes.Store(client.GameID, len(room))
	}

	h.clientCount.Add(-1)
	if h.observer != nil {
		h.observer.ConnectionClosed()
	}
	if client.conn != nil {
		client.conn.Close()
	}
	client.CloseSend()
	log.Printf("[WebSocketHub] Клиент %s отключен от игры %s", client.ConnectionID, client.GameID)
}

func (h *Hub) handleBroadcast(msg roomMessage) {
	if msg.close {
		h.handleCloseGame(msg.gameID)
		return
	}
	room := h.rooms[msg.gameID]
	sent := 0
	for client := range room {
		if !msg.audience.accepts(client) {
			continue
		}
		if h.deliver(client, msg.payload) {
			sent++
		}
	}
	if h.observer != nil && sent > 0 {
		h.observer.EventSent(messageTypeFromBytes(msg.payload))
	}
}

// deliver кладет сообщение в буфер клиента. Клиент, у которого буфер
// переполнялся maxBufferWarnings раз подряд, отключается.
func (h *Hub) deliver(client *Client, payload []byte) bool {
	if client.enqueue(payload) {
		client.resetBufferWarningCount()
		return true
	}
	if client.IsSendClosed() {
		return false
	}

	count := client.incrementBufferWarningCount()
	log.Printf("[WebSocketHub] Буфер клиента %s переполнен (%d/%d)", client.ConnectionID, count, maxBufferWarnings)
	if count >= maxBufferWarnings {
		h.handleUnregister(client)
	}
	return false
}

func (h *Hub) handleCloseGame(gameID string) {
	for client := range h.rooms[gameID] {
		h.handleUnregister(client)
	}
}

// BroadcastToGame ставит сообщение в очередь рассылки комнаты игры
func (h *Hub) BroadcastToGame(gameID string, audience Audience, message []byte) {
	select {
	case h.broadcast <- roomMessage{gameID: gameID, audience: audience, payload: message}:
	case <-h.done:
	default:
		log.Printf("[WebSocketHub] Очередь рассылки переполнена, событие %s для игры %s отброшено",
			messageTypeFromBytes(message), gameID)
	}
}

// SendToClient отправляет сообщение одному клиенту через цикл хаба
func (h *Hub) SendToClient(client *Client, message []byte) bool {
	result := make(chan bool, 1)
	select {
	case h.direct <- directMessage{client: client, payload: message, result: result}:
	case <-h.done:
		return false
	}
	select {
	case ok := <-result:
		return ok
	case <-h.done:
		return false
	}
}

// CloseGame отключает всех клиентов игры после уже поставленных в очередь событий
func (h *Hub) CloseGame(gameID string) {
	select {
	case h.broadcast <- roomMessage{gameID: gameID, close: true}:
	case <-h.done:
	}
}

// ClientCount возвращает количество подключенных клиентов
func (h *Hub) ClientCount() int {
	return int(h.clientCount.Load())
}

// RoomCount возвращает количество игр с подключенными клиентами
func (h *Hub) RoomCount() int {
	return int(h.roomCount.Load())
}

// GameClientCount возвращает количество клиентов игры
func (h *Hub) GameClientCount(gameID string) int {
	if v, ok := h.roomSizes.Load(gameID); ok {
		return v.(int)
	}
	return 0
}
