package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores serialized annotation results so re-running analysis skips
// unchanged turns
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// AnnotationKey derives the cache key for one turn's annotation. The key
// binds provider and model so switching annotators never serves stale
// annotations, and hashes the turn text so edited transcripts miss.
func AnnotationKey(provider, annotationModel, turnText string) string {
	hash := sha256.Sum256([]byte(provider + "\x00" + annotationModel + "\x00" + turnText))
	return "voces:v1:" + hex.EncodeToString(hash[:])
}
