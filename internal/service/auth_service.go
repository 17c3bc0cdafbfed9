package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stcolombus/campus-portal/internal/config"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Claims extends JWT standard claims with the profile role. The JWT ID is the
// session ID and the subject is the profile ID.
type Claims struct {
	jwt.RegisteredClaims
	Role model.Role `json:"role"`
}

// SessionVerifier resolves a bearer token into a live session.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*model.Session, error)
}

// AuthService handles sign-in, sessions and the auth event channel.
// Every session lives in Redis under its own key, so one user may be signed
// in on several devices and each sign-out ends only its own session.
type AuthService struct {
	cfg      *config.Config
	rdb      *redis.Client
	profiles repository.ProfileRepository
	log      zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client, profiles repository.ProfileRepository, log zerolog.Logger) *AuthService {
	return &AuthService{
		cfg:      cfg,
		rdb:      rdb,
		profiles: profiles,
		log:      log.With().Str("component", "auth_service").Logger(),
	}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Register creates a student profile and signs it in.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	p := &model.Profile{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         model.RoleStudent,
		Phone:        req.Phone,
		PasswordHash: hash,
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	s.log.Info().Str("profile_id", p.ID.String()).Msg("Profile registered")
	return s.openSession(ctx, p)
}

// Login checks the credentials and opens a new session.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	p, err := s.profiles.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if err := s.CheckPassword(p.PasswordHash, req.Password); err != nil {
		return nil, err
	}
	return s.openSession(ctx, p)
}

func (s *AuthService) openSession(ctx context.Context, p *model.Profile) (*model.AuthResponse, error) {
	now := time.Now()
	session := model.Session{
		ID:        uuid.New().String(),
		UserID:    p.ID,
		Role:      p.Role,
		ExpiresAt: now.Add(s.cfg.JWTExpiry),
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   p.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
		Role: p.Role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	key := config.CacheKey.SessionKey(p.ID, session.ID)
	if err := s.rdb.Set(ctx, key, string(p.Role), s.cfg.JWTExpiry).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.publish(ctx, model.AuthEvent{Event: model.AuthEventSignedIn, SessionID: session.ID, UserID: p.ID, At: now})

	return &model.AuthResponse{Token: signed, Session: session, Profile: p}, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Verify validates the token and checks that its session is still stored.
// A token whose session was signed out returns ErrSessionInvalidated. The
// returned role is the profile's current role, not the one seen at sign-in.
func (s *AuthService) Verify(ctx context.Context, tokenStr string) (*model.Session, error) {
	claims, err := s.ValidateToken(tokenStr)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("token subject: %w", err)
	}

	role, err := s.rdb.Get(ctx, config.CacheKey.SessionKey(userID, claims.ID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionInvalidated
		}
		return nil, fmt.Errorf("check session: %w", err)
	}

	return s.withCurrentRole(ctx, &model.Session{
		ID:        claims.ID,
		UserID:    userID,
		Role:      model.Role(role),
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

// withCurrentRole sets session.Role from the profile row. A deleted profile
// invalidates the session.
func (s *AuthService) withCurrentRole(ctx context.Context, session *model.Session) (*model.Session, error) {
	p, err := s.profiles.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionInvalidated
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if p.Role != session.Role {
		s.log.Info().
			Str("profile_id", session.UserID.String()).
			Str("session_role", string(session.Role)).
			Str("role", string(p.Role)).
			Msg("Role changed since sign-in")
	}
	session.Role = p.Role
	return session, nil
}

// Logout ends one session and tells its listeners.
func (s *AuthService) Logout(ctx context.Context, session *model.Session) error {
	if err := s.rdb.Del(ctx, config.CacheKey.SessionKey(session.UserID, session.ID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.publish(ctx, model.AuthEvent{
		Event:     model.AuthEventSignedOut,
		SessionID: session.ID,
		UserID:    session.UserID,
		At:        time.Now(),
	})
	return nil
}

// Profile returns exactly one profile for the session's user.
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", userID, err)
	}
	return p, nil
}

// Events streams the auth events of a user until ctx is done. The returned
// channel is closed when the subscription ends.
func (s *AuthService) Events(ctx context.Context, userID uuid.UUID) (<-chan model.AuthEvent, error) {
	sub := s.rdb.Subscribe(ctx, config.CacheKey.AuthChannel(userID))
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribe auth events: %w", err)
	}

	out := make(chan model.AuthEvent)
	go func() {
		defer close(out)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var ev model.AuthEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("Dropping malformed auth event")
					continue
				}
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

func (s *AuthService) publish(ctx context.Context, ev model.AuthEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := s.rdb.Publish(ctx, config.CacheKey.AuthChannel(ev.UserID), payload).Err(); err != nil {
		s.log.Warn().Err(err).Str("event", string(ev.Event)).Msg("Failed to publish auth event")
	}
}
