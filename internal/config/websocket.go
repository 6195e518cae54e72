package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

type WebSocket struct {
	Upgrader   websocket.Upgrader
	WriteWait  time.Duration
	PongWait   time.Duration
	PingPeriod time.Duration
	ReadLimit  int64
}

// NewWebSocket accepts any origin unless WS_ALLOWED_ORIGINS lists the
// allowed ones, comma separated.
func NewWebSocket() (*WebSocket, error) {
	var origins []string
	if s, ok := os.LookupEnv("WS_ALLOWED_ORIGINS"); ok {
		origins = lo.Compact(lo.Map(strings.Split(s, ","), func(o string, _ int) string {
			return strings.TrimSpace(o)
		}))
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if len(origins) == 0 {
				return true
			}
			return lo.Contains(origins, r.Header.Get("Origin"))
		},
	}

	pongWait, err := envDuration("WS_PONG_WAIT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	if pongWait <= 0 {
		return nil, fmt.Errorf("WS_PONG_WAIT must be positive")
	}

	ws := &WebSocket{
		Upgrader:   upgrader,
		WriteWait:  10 * time.Second,
		PongWait:   pongWait,
		PingPeriod: pongWait * 9 / 10,
		ReadLimit:  4096,
	}

	return ws, nil
}
