// internal/auth/session.go
package auth

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	signingKey ed25519.PrivateKey
	verifyKey  ed25519.PublicKey

	// sessionTTL is how long an issued token stays valid. Zero means the
	// token carries no expiry claim.
	sessionTTL time.Duration
)

const defaultSessionTTL = 72 * time.Hour

// parseSessionTTL reads SESSION_TTL ("never" or a Go duration) and falls back
// to the default when unset.
func parseSessionTTL() error {
	raw := os.Getenv("SESSION_TTL")
	switch raw {
	case "":
		sessionTTL = defaultSessionTTL
		return nil
	case "never", "0":
		sessionTTL = 0
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse SESSION_TTL: %w", err)
	}
	sessionTTL = d
	return nil
}

// Init generates a fresh ed25519 key pair for this process. Tokens do not
// survive a restart; clients simply log in again.
func Init() error {
	var err error
	verifyKey, signingKey, err = ed25519.GenerateKey(nil)
	if err != nil {
		return fmt.Errorf("generate ed25519 key pair: %w", err)
	}
	return parseSessionTTL()
}

// InitFromPath loads a persistent ed25519 key pair from disk so sessions
// survive restarts.
func InitFromPath(privatePath, publicPath string) error {
	priv, err := os.ReadFile(privatePath)
	if err != nil {
		return fmt.Errorf("read private key: %w", err)
	}
	pub, err := os.ReadFile(publicPath)
	if err != nil {
		return fmt.Errorf("read public key: %w", err)
	}
	signingKey = ed25519.PrivateKey(priv)
	verifyKey = ed25519.PublicKey(pub)
	return parseSessionTTL()
}

// SessionTTLSeconds reports the configured token lifetime in whole seconds,
// zero when tokens never expire. Used for cookie MaxAge.
func SessionTTLSeconds() int {
	return int(sessionTTL.Seconds())
}

// CreateJWT issues a signed session token whose "sub" claim is the user ID.
func CreateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{"sub": userID}
	if sessionTTL > 0 {
		claims["exp"] = time.Now().Add(sessionTTL).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(signingKey)
}

// AuthenticateJWT verifies a session token and returns the user ID it was
// issued for.
func AuthenticateJWT(tokenString string) (string, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return verifyKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("jwt parse error: %w", err)
	}
	if !t.Valid {
		return "", fmt.Errorf("invalid token")
	}
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid jwt claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return "", fmt.Errorf("missing sub in jwt")
	}
	return sub, nil
}
