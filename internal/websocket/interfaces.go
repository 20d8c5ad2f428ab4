package websocket

// Audience определяет, кому в комнате игры адресовано сообщение
type Audience int

const (
	// AudienceAll — всем подключённым к игре
	AudienceAll Audience = iota
	// AudienceHost — только экранам ведущего
	AudienceHost
	// AudiencePublic — только зрителям
	AudiencePublic
)

func (a Audience) accepts(c *Client) bool {
	switch a {
	case AudienceHost:
		return c.Host
	case AudiencePublic:
		return !c.Host
	default:
		return true
	}
}

// HubInterface — возможности хаба, которыми пользуется Manager
type HubInterface interface {
	// BroadcastToGame ставит сообщение в очередь всем клиентам игры с подходящей ролью
	BroadcastToGame(gameID string, audience Audience, message []byte)

	// SendToClient отправляет сообщение одному клиенту, не блокируя
	SendToClient(client *Client, message []byte) bool

	// CloseGame отключает всех клиентов игры
	CloseGame(gameID string)

	// ClientCount возвращает количество подключённых клиентов
	ClientCount() int

	// RoomCount возвращает количество игр с клиентами
	RoomCount() int

	// GameClientCount возвращает количество клиентов одной игры
	GameClientCount(gameID string) int
}

// ConnectionObserver получает уведомления о подключениях и рассылках (метрики)
type ConnectionObserver interface {
	ConnectionOpened()
	ConnectionClosed()
	EventSent(eventType string)
}
