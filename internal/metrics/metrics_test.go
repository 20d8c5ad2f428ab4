package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGinMiddleware_CountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(m.GinMiddleware())
	router.GET("/api/games/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/games/abc", nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/api/games/:id", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RequestsInFlight))
}

func TestHandler_ExposesGameMetrics(t *testing.T) {
	m := NewMetrics()
	m.ActiveSessions.Set(3)
	m.GameCommands.WithLabelValues("select", "ok").Inc()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "jeopardy_game_active_sessions 3"))
	assert.True(t, strings.Contains(body, `jeopardy_game_commands_total{command="select",result="ok"} 1`))
}

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.GamesFinished.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.GamesFinished))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.GamesFinished))
}

func TestConnectionObserver(t *testing.T) {
	m := NewMetrics()

	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()
	m.EventSent("GAME_STATE")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.WSConnections))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsBroadcast.WithLabelValues("GAME_STATE")))
}
