package websocket

import (
	"encoding/json"
	"fmt"
	"log"
)

// Event представляет структуру WebSocket-сообщения
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Manager обрабатывает входящие сообщения и рассылает события игр
type Manager struct {
	hub            HubInterface
	messageHandler map[string]func(data json.RawMessage, client *Client) error
}

// NewManager создает новый менеджер WebSocket
func NewManager(hub HubInterface) *Manager {
	m := &Manager{
		hub:            hub,
		messageHandler: make(map[string]func(data json.RawMessage, client *Client) error),
	}
	m.RegisterHandler(CLIENT_PING, func(_ json.RawMessage, client *Client) error {
		return m.SendEventToClient(client, SERVER_PONG, nil)
	})
	return m
}

// RegisterHandler регистрирует обработчик для определенного типа сообщений
func (m *Manager) RegisterHandler(eventType string, handler func(data json.RawMessage, client *Client) error) {
	m.messageHandler[eventType] = handler
	log.Printf("[WebSocketManager] Зарегистрирован обработчик для сообщений типа: %s", eventType)
}

// HandleMessage обрабатывает входящее сообщение от клиента.
// Возвращает error, если соединение нужно закрыть.
func (m *Manager) HandleMessage(message []byte, client *Client) error {
	var event struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(message, &event); err != nil {
		log.Printf("[WebSocketManager] Некорректное сообщение от %s: %v", client.ConnectionID, err)
		m.SendErrorToClient(client, "invalid_message_format", "Invalid JSON format")
		return err
	}

	handler, ok := m.messageHandler[event.Type]
	if !ok {
		m.SendErrorToClient(client, "unknown_message_type", fmt.Sprintf("Unknown message type: %s", event.Type))
		return nil
	}

	if err := handler(event.Data, client); err != nil {
		log.Printf("[WebSocketManager] Обработчик '%s' вернул ошибку для %s: %v", event.Type, client.ConnectionID, err)
		return err
	}
	return nil
}

// SendErrorToClient отправляет клиенту сообщение об ошибке, не закрывая соединение
func (m *Manager) SendErrorToClient(client *Client, code string, message string) {
	err := m.SendEventToClient(client, SERVER_ERROR, map[string]string{
		"code":    code,
		"message": message,
	})
	if err != nil {
		log.Printf("[WebSocketManager] Не удалось отправить ошибку клиенту %s: %v", client.ConnectionID, err)
	}
}

// SendEventToClient отправляет событие одному клиенту
func (m *Manager) SendEventToClient(client *Client, eventType string, data interface{}) error {
	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", eventType, err)
	}
	if !m.hub.SendToClient(client, payload) {
		return fmt.Errorf("client %s is not accepting messages", client.ConnectionID)
	}
	return nil
}

// BroadcastToGame отправляет одно и то же событие всем клиентам игры
func (m *Manager) BroadcastToGame(gameID string, eventType string, data interface{}) error {
	return m.BroadcastToAudience(gameID, AudienceAll, eventType, data)
}

// BroadcastToAudience отправляет событие клиентам игры с указанной ролью
func (m *Manager) BroadcastToAudience(gameID string, audience Audience, eventType string, data interface{}) error {
	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal event %s for game %s: %w", eventType, gameID, err)
	}
	m.hub.BroadcastToGame(gameID, audience, payload)
	return nil
}

// BroadcastSplit отправляет ведущему и зрителям разные версии события
func (m *Manager) BroadcastSplit(gameID string, eventType string, hostData, publicData interface{}) error {
	if err := m.BroadcastToAudience(gameID, AudienceHost, eventType, hostData); err != nil {
		return err
	}
	return m.BroadcastToAudience(gameID, AudiencePublic, eventType, publicData)
}

// CloseGame уведомляет клиентов о закрытии сессии и отключает их
func (m *Manager) CloseGame(gameID string) {
	if err := m.BroadcastToGame(gameID, GAME_CLOSED, map[string]string{"game_id": gameID}); err != nil {
		log.Printf("[WebSocketManager] %v", err)
	}
	m.hub.CloseGame(gameID)
}

// Stats возвращает текущую загрузку хаба
func (m *Manager) Stats() HubStats {
	return HubStats{Clients: m.hub.ClientCount(), Rooms: m.hub.RoomCount()}
}

// GameClientCount возвращает количество клиентов игры
func (m *Manager) GameClientCount(gameID string) int {
	return m.hub.GameClientCount(gameID)
}
