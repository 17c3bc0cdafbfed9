package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	readWait  = 5 * time.Minute
)

// WriteTyped sends a strongly-typed response payload over the WebSocket.
func WriteTyped(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

// WriteError sends a typed ErrorResponse over the WebSocket.
func WriteError(conn *websocket.Conn, errMsg string) error {
	return WriteTyped(conn, ErrorResponse{
		Event: EventError,
		Error: errMsg,
	})
}

// WriteClose sends a normal close frame carrying reason.
func WriteClose(conn *websocket.Conn, reason string) error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
	return conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

// ReadJSON reads and decodes a message into the provided structure.
// It sets a read deadline.
func ReadJSON(conn *websocket.Conn, v interface{}) error {
	conn.SetReadDeadline(time.Now().Add(readWait))
	return conn.ReadJSON(v)
}
