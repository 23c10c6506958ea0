package presence

import (
	"context"
	"errors"
	"time"

	apiErrors "github.com/SaurabhKarki-25/Music-Platform/internal/errors"
	"github.com/SaurabhKarki-25/Music-Platform/internal/logger"
	"github.com/SaurabhKarki-25/Music-Platform/internal/metrics"
	"github.com/SaurabhKarki-25/Music-Platform/internal/mood"
	"github.com/SaurabhKarki-25/Music-Platform/internal/util"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// Time allowed to write an event to the peer
	writeWait = 10 * time.Second

	// Idle connections are pinged at this interval
	pingPeriod = 30 * time.Second
)

// Handler upgrades HTTP requests into mood room WebSocket sessions.
type Handler struct {
	manager *Manager
}

// NewHandler creates a WebSocket handler for mood rooms.
func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// HandleRoom upgrades the connection, joins the requested mood room, and
// streams room events until the client disconnects. Requires auth
// middleware to have set the user in the context.
func (h *Handler) HandleRoom(c *gin.Context) {
	m, err := mood.Parse(c.Param("mood"))
	if err != nil {
		util.RespondWithAPIError(c, apiErrors.UnknownMood(c.Param("mood")))
		return
	}

	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		// Browser clients connect from the web player origin
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		logger.Log.Warn("websocket upgrade failed",
			zap.String("mood", string(m)),
			zap.Error(err),
		)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	metrics.Get().PresenceConnections.WithLabelValues(string(m)).Inc()
	defer metrics.Get().PresenceConnections.WithLabelValues(string(m)).Dec()

	if err := h.manager.Join(ctx, m, user.ID, user.Username); err != nil {
		logger.Log.Warn("failed to join mood room",
			zap.String("mood", string(m)),
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		conn.Close(websocket.StatusInternalError, "could not join room")
		return
	}
	defer func() {
		// Use a fresh context: the request context is already cancelled
		// by the time the client disconnects.
		leaveCtx, leaveCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer leaveCancel()
		if err := h.manager.Leave(leaveCtx, m, user.ID, user.Username); err != nil {
			logger.Log.Warn("failed to leave mood room",
				zap.String("mood", string(m)),
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
		}
	}()

	events, err := h.manager.Subscribe(ctx, m)
	if err != nil {
		conn.Close(websocket.StatusInternalError, "could not subscribe")
		return
	}

	// Reader goroutine: we ignore client payloads but need to observe
	// close frames so the session ends promptly.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			writeCtx, writeCancel := context.WithTimeout(ctx, writeWait)
			err := wsjson.Write(writeCtx, conn, event)
			writeCancel()
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.Log.Debug("presence write failed",
						zap.String("mood", string(m)),
						zap.Error(err),
					)
				}
				return
			}

		case <-ticker.C:
			pingCtx, pingCancel := context.WithTimeout(ctx, writeWait)
			err := conn.Ping(pingCtx)
			pingCancel()
			if err != nil {
				return
			}
		}
	}
}
