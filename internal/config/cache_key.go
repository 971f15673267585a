package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// LoginSessionKey returns the cache key for a pending login session
func (r *CacheKeyStruct) LoginSessionKey(sessionID string) string {
	return fmt.Sprintf("auth:session:%s", sessionID)
}

// UserDataKey returns the cache key for a one-time user data token
func (r *CacheKeyStruct) UserDataKey(token string) string {
	return fmt.Sprintf("auth:user:%s", token)
}

var CacheKey = NewCacheKeyStruct()
