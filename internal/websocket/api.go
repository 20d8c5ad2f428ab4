package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// HubStats — загрузка хаба для проверки состояния
type HubStats struct {
	Clients int `json:"client_count"`
	Rooms   int `json:"active_rooms"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	HubStats
}

// HealthCheckHandler отвечает 200 с числом клиентов и комнат, либо 503 без менеджера
func HealthCheckHandler(manager *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "healthy", Timestamp: time.Now().UTC().Format(time.RFC3339)}
		code := http.StatusOK
		if manager == nil {
			resp.Status = "unavailable"
			code = http.StatusServiceUnavailable
		} else {
			resp.HubStats = manager.Stats()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Printf("[WebSocketAPI] Ошибка кодирования ответа health check: %v", err)
		}
	}
}
