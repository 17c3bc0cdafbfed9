package config

import (
	"fmt"

	"github.com/google/uuid"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionKey returns the cache key for one sign-in session of a user.
func (r *CacheKeyStruct) SessionKey(userID uuid.UUID, sessionID string) string {
	return fmt.Sprintf("session:%s:%s", userID, sessionID)
}

// AuthChannel returns the Redis PubSub channel carrying a user's auth events.
func (r *CacheKeyStruct) AuthChannel(userID uuid.UUID) string {
	return fmt.Sprintf("auth:%s:events", userID)
}

// PublicNoticesKey returns the cache key for the published notice board.
func (r *CacheKeyStruct) PublicNoticesKey() string {
	return "notices:public"
}

var CacheKey = NewCacheKeyStruct()
