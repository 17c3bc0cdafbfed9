package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/stcolombus/campus-portal/internal/model"
)

// Login signs in with email and password and keeps the session token.
func (c *Client) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	var res model.AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/login",
		model.LoginRequest{Email: email, Password: password}, &res)
	if err != nil {
		return nil, err
	}
	c.setToken(res.Token)
	return &res, nil
}

// Register creates a student account and keeps the session token.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	var res model.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/register", req, &res); err != nil {
		return nil, err
	}
	c.setToken(res.Token)
	return &res, nil
}

// Logout ends the current session. The token is dropped even when the
// server call fails.
func (c *Client) Logout(ctx context.Context) error {
	if c.Token() == "" {
		return nil
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil)
	c.setToken("")
	if err != nil && !IsUnauthorized(err) {
		return err
	}
	return nil
}

// GetSession returns the live session, or nil when signed out or the
// session has ended.
func (c *Client) GetSession(ctx context.Context) (*model.Session, error) {
	if c.Token() == "" {
		return nil, nil
	}
	var res struct {
		Session model.Session `json:"session"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/auth/session", nil, &res); err != nil {
		if IsUnauthorized(err) {
			return nil, nil
		}
		return nil, err
	}
	return &res.Session, nil
}

// GetProfile returns the profile of the signed-in user. The server only
// serves the caller's own profile, so userID guards against a token swap.
func (c *Client) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	var res struct {
		Profile model.Profile `json:"profile"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/auth/me", nil, &res); err != nil {
		return nil, err
	}
	if res.Profile.ID.String() != userID {
		return nil, &APIError{Status: http.StatusNotFound, Code: "PROFILE_NOT_FOUND", Message: "Profile not found."}
	}
	return &res.Profile, nil
}

// Subscribe opens the auth event stream of the current session. The
// channel is closed when ctx is done or the server ends the stream.
func (c *Client) Subscribe(ctx context.Context) (<-chan model.AuthEvent, error) {
	token := c.Token()
	if token == "" {
		return nil, &APIError{Status: http.StatusUnauthorized, Code: "TOKEN_REQUIRED", Message: "Authentication token is required."}
	}

	wsURL, err := url.Parse(c.baseURL + "/ws/v1/auth/events")
	if err != nil {
		return nil, fmt.Errorf("parse stream url: %w", err)
	}
	wsURL.Scheme = strings.Replace(wsURL.Scheme, "http", "ws", 1)
	wsURL.RawQuery = url.Values{"token": {token}}.Encode()

	conn, res, err := websocket.DefaultDialer.DialContext(ctx, wsURL.String(), nil)
	if err != nil {
		if res != nil && res.StatusCode == http.StatusUnauthorized {
			return nil, &APIError{Status: http.StatusUnauthorized, Code: "SESSION_INVALIDATED", Message: "Your session has ended."}
		}
		return nil, fmt.Errorf("open auth stream: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	out := make(chan model.AuthEvent)
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	go func() {
		defer close(out)
		defer cancel()
		for {
			var ev model.AuthEvent
			if err := conn.ReadJSON(&ev); err != nil {
				if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					c.log.Warn().Err(err).Msg("Auth stream ended")
				}
				return
			}
			if ev.Event != model.AuthEventSignedIn && ev.Event != model.AuthEventSignedOut {
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
