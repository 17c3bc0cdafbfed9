package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stcolombus/campus-portal/internal/middleware"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/response"
	ws "github.com/stcolombus/campus-portal/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// AuthEventSource streams the auth events of one user.
type AuthEventSource interface {
	Events(ctx context.Context, userID uuid.UUID) (<-chan model.AuthEvent, error)
}

// AuthEventsHandler streams auth state changes over a WebSocket.
type AuthEventsHandler struct {
	events   AuthEventSource
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewAuthEventsHandler creates a new AuthEventsHandler.
func NewAuthEventsHandler(events AuthEventSource, log zerolog.Logger, allowedOrigins []string) *AuthEventsHandler {
	return &AuthEventsHandler{
		events:   events,
		log:      log.With().Str("component", "auth_events_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// StreamAuthEvents godoc
// WS /ws/v1/auth/events?token=
// Forwards SIGNED_IN and SIGNED_OUT events of the signed-in user. The stream
// closes after the SIGNED_OUT of the session that opened it, or when that
// session expires.
func (h *AuthEventsHandler) StreamAuthEvents(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	wsLog := h.log.With().
		Str("user_id", session.UserID.String()).
		Str("session_id", session.ID).
		Logger()

	events, err := h.events.Events(ctx, session.UserID)
	if err != nil {
		wsLog.Error().Err(err).Msg("Auth event subscription failed")
		ws.WriteError(conn, "subscription failed")
		return
	}

	var expired <-chan time.Time
	if !session.ExpiresAt.IsZero() {
		timer := time.NewTimer(time.Until(session.ExpiresAt))
		defer timer.Stop()
		expired = timer.C
	}

	pings := make(chan struct{}, 1)
	go h.readLoop(conn, wsLog, pings, cancel)

	wsLog.Debug().Msg("Auth stream connected")

	for {
		select {
		case <-ctx.Done():
			return
		case <-expired:
			wsLog.Debug().Msg("Session expired, closing auth stream")
			ws.WriteClose(conn, "session expired")
			return
		case <-pings:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := ws.WriteTyped(conn, ev); err != nil {
				wsLog.Debug().Err(err).Msg("Auth event write failed")
				return
			}
			if ev.Event == model.AuthEventSignedOut && ev.SessionID == session.ID {
				ws.WriteClose(conn, "signed out")
				return
			}
		}
	}
}

// readLoop consumes client frames so close frames are noticed and pings are
// answered. Writes stay on the stream goroutine.
func (h *AuthEventsHandler) readLoop(conn *websocket.Conn, log zerolog.Logger, pings chan<- struct{}, cancel context.CancelFunc) {
	defer cancel()
	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}
		switch msg.Action {
		case ws.ActionPing:
			select {
			case pings <- struct{}{}:
			default:
			}
		default:
			log.Debug().Str("action", string(msg.Action)).Msg("Ignoring unknown action")
		}
	}
}
