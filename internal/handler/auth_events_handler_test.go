package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stcolombus/campus-portal/internal/model"
	ws "github.com/stcolombus/campus-portal/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanEvents struct {
	ch chan model.AuthEvent
}

func (c chanEvents) Events(ctx context.Context, _ uuid.UUID) (<-chan model.AuthEvent, error) {
	out := make(chan model.AuthEvent)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-c.ch:
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func TestStreamAuthEvents(t *testing.T) {
	session := &model.Session{ID: "sess-1", UserID: uuid.New(), Role: model.RoleStudent}
	source := chanEvents{ch: make(chan model.AuthEvent)}

	h := NewAuthEventsHandler(source, zerolog.Nop(), nil)
	r := gin.New()
	r.GET("/events", withSession(session), h.StreamAuthEvents)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/events", nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	require.NoError(t, conn.WriteJSON(ws.RequestEnvelope{Action: ws.ActionPing}))
	var pong ws.PongResponse
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, ws.EventPong, pong.Event)

	// Another device signing out does not end this stream.
	source.ch <- model.AuthEvent{Event: model.AuthEventSignedOut, SessionID: "sess-2", UserID: session.UserID}
	var ev model.AuthEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "sess-2", ev.SessionID)

	source.ch <- model.AuthEvent{Event: model.AuthEventSignedOut, SessionID: session.ID, UserID: session.UserID}
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, model.AuthEventSignedOut, ev.Event)
	assert.Equal(t, session.ID, ev.SessionID)

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestStreamAuthEvents_ClosesAtSessionExpiry(t *testing.T) {
	session := &model.Session{
		ID:        "sess-1",
		UserID:    uuid.New(),
		Role:      model.RoleAdmin,
		ExpiresAt: time.Now().Add(150 * time.Millisecond),
	}
	source := chanEvents{ch: make(chan model.AuthEvent)}

	h := NewAuthEventsHandler(source, zerolog.Nop(), nil)
	r := gin.New()
	r.GET("/events", withSession(session), h.StreamAuthEvents)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/events", nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	_, _, err = conn.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.Contains(t, err.Error(), "session expired")
}
