package utils

import (
	"context" // Context for Redis operations
	"strconv" // String conversion for stored user IDs
	"time"    // Session lifetime

	"github.com/golang-jwt/jwt/v5" // JWT library
	"github.com/google/uuid"       // Session identifiers
	"github.com/redis/go-redis/v9" // Redis client
)

// SessionCookieName is the cookie that carries the signed session token
const SessionCookieName = "pigment_session"

// sessionKey builds the Redis key for a session record
func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

// SessionClaims are the claims embedded in the session cookie token
type SessionClaims struct {
	UserID               uint   `json:"user_id"`    // Authenticated user ID
	SessionID            string `json:"session_id"` // Server-side session record ID
	jwt.RegisteredClaims        // Standard JWT claims
}

// StartSession creates a server-side session record in Redis and returns
// a signed token for the cookie. The record is what makes logout real:
// a token whose record is gone no longer authenticates.
func StartSession(ctx context.Context, rdb *redis.Client, userID uint, secret string, ttl time.Duration) (string, error) {
	sessionID := uuid.NewString() // Fresh session identifier
	// Store the session record with the configured TTL
	if err := rdb.Set(ctx, sessionKey(sessionID), strconv.FormatUint(uint64(userID), 10), ttl).Err(); err != nil {
		return "", err // Redis write failed
	}
	// Sign a token carrying both the user and the session record ID
	claims := SessionClaims{
		UserID:    userID,    // Authenticated user
		SessionID: sessionID, // Session record ID
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)), // Token expires with the session
			IssuedAt:  jwt.NewNumericDate(time.Now()),          // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ResolveSession validates a session token and checks that its server-side
// record still exists. Returns the user ID and whether the session is live.
func ResolveSession(ctx context.Context, rdb *redis.Client, tokenStr, secret string) (uint, bool) {
	claims, err := parseSessionToken(tokenStr, secret)
	if err != nil {
		return 0, false // Bad signature or expired token
	}
	// The record must still exist in Redis; logout deletes it
	val, err := rdb.Get(ctx, sessionKey(claims.SessionID)).Result()
	if err != nil {
		return 0, false // Session revoked, expired, or Redis unavailable
	}
	storedID, err := strconv.ParseUint(val, 10, 64)
	if err != nil || uint(storedID) != claims.UserID {
		return 0, false // Record does not match the token
	}
	return claims.UserID, true
}

// EndSession deletes the server-side session record. Deleting a missing
// record is not an error, which keeps logout idempotent.
func EndSession(ctx context.Context, rdb *redis.Client, tokenStr, secret string) error {
	claims, err := parseSessionToken(tokenStr, secret)
	if err != nil {
		return nil // Nothing to end for an invalid token
	}
	return rdb.Del(ctx, sessionKey(claims.SessionID)).Err()
}

// parseSessionToken parses and validates a session token string
func parseSessionToken(tokenStr, secret string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	})
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil // Return claims if valid
	}
	// Return error if token is invalid
	return nil, jwt.ErrSignatureInvalid
}
