package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/google/uuid"

	"github.com/yourusername/jeopardy-api/internal/service"
	"github.com/yourusername/jeopardy-api/internal/websocket"
)

// WSHandler подключает экраны ведущего и зрителей к потоку событий игры
type WSHandler struct {
	wsHub        *websocket.Hub
	wsManager    *websocket.Manager
	gameService  *service.GameService
	clientConfig websocket.ClientConfig
	upgrader     gorillaws.Upgrader
}

// NewWSHandler создает новый обработчик WebSocket.
// Пустой allowedOrigins разрешает любой Origin.
func NewWSHandler(
	wsHub *websocket.Hub,
	wsManager *websocket.Manager,
	gameService *service.GameService,
	clientConfig websocket.ClientConfig,
	allowedOrigins []string,
) *WSHandler {
	handler := &WSHandler{
		wsHub:        wsHub,
		wsManager:    wsManager,
		gameService:  gameService,
		clientConfig: clientConfig,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:    4096,
			WriteBufferSize:   4096,
			CheckOrigin:       originChecker(allowedOrigins),
			EnableCompression: true,
		},
	}

	// Регистрируем обработчики сообщений один раз при создании обработчика
	handler.registerMessageHandlers()

	return handler
}

// originChecker пропускает клиентов без Origin (не браузеры) и Origin из списка
func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		if _, ok := allowed[origin]; ok {
			return true
		}
		log.Printf("[WSHandler] Отклонен Origin: %s", origin)
		return false
	}
}

// HandleConnection подключает клиента к игре ?game=<id>. С верным host_key клиент
// получает представление ведущего.
// GET /ws?game=<id>&host_key=<key>
func (h *WSHandler) HandleConnection(c *gin.Context) {
	id, err := uuid.Parse(c.Query("game"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid game parameter"})
		return
	}
	gameID := id.String()

	// НЕ логируем host_key
	key := hostKey(c)
	host := false
	if key != "" {
		if !h.gameService.IsHost(gameID, key) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid host key"})
			return
		}
		host = true
	}

	// Подключиться можно только к открытой игре
	if _, err := h.gameService.SnapshotFor(gameID, host); err != nil {
		handleGameError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже записал ответ клиенту
		log.Printf("[WSHandler] Ошибка upgrade для игры %s: %v", gameID, err)
		return
	}

	client := websocket.NewClient(h.wsHub, conn, gameID, host, h.clientConfig)
	if !client.StartPumps(h.wsManager.HandleMessage) {
		return
	}
	log.Printf("[WSHandler] Клиент %s подключен к игре %s (host=%t)", client.ConnectionID, gameID, host)

	// Снимок после регистрации: последующие события клиент получит из рассылки
	h.sendState(client)
}

func (h *WSHandler) sendState(client *websocket.Client) {
	snapshot, err := h.gameService.SnapshotFor(client.GameID, client.Host)
	if err != nil {
		h.wsManager.SendErrorToClient(client, "state_unavailable", err.Error())
		return
	}
	if err := h.wsManager.SendEventToClient(client, websocket.GAME_STATE, snapshot); err != nil {
		log.Printf("[WSHandler] Не удалось отправить снимок клиенту %s: %v", client.ConnectionID, err)
	}
}

// registerMessageHandlers регистрирует обработчики для входящих сообщений клиентов
func (h *WSHandler) registerMessageHandlers() {
	// Повторный запрос снимка, например после потери части событий
	h.wsManager.RegisterHandler(websocket.CLIENT_REQUEST_STATE, func(_ json.RawMessage, client *websocket.Client) error {
		h.sendState(client)
		return nil
	})
}
