package auth

import (
	"crypto/ecdsa"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sejinpark/tracklift/core"
)

const (
	// Apple caps developer tokens at six months; stay under that.
	cDeveloperTokenTTL = 180 * 24 * time.Hour
	// Re-mint this long before the cached token expires.
	cRefreshMargin = 24 * time.Hour
)

// NewDeveloperTokenMinter parses the PEM-encoded ES256 private key issued for
// an Apple Music developer account. Minted tokens are cached and reused until
// shortly before expiry.
func NewDeveloperTokenMinter(teamId, keyId, privateKeyPem string) (*DeveloperTokenMinter, error) {
	if teamId == "" || keyId == "" || privateKeyPem == "" {
		return nil, core.NewError("apple music developer credentials are not configured")
	}
	key, err := jwt.ParseECPrivateKeyFromPEM([]byte(privateKeyPem))
	if err != nil {
		return nil, core.WrappedError(err, "failed to parse apple music private key")
	}
	return &DeveloperTokenMinter{
		teamId: teamId,
		keyId:  keyId,
		key:    key,
	}, nil
}

type DeveloperTokenMinter struct {
	teamId string
	keyId  string
	key    *ecdsa.PrivateKey

	mu          sync.Mutex
	cachedToken string
	expiresAt   time.Time
}

// Token returns a valid developer token, minting a fresh one when the cached
// token is missing or close to expiry.
func (m *DeveloperTokenMinter) Token() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cachedToken != "" && time.Now().Before(m.expiresAt.Add(-cRefreshMargin)) {
		return m.cachedToken, nil
	}

	now := time.Now()
	expiresAt := now.Add(cDeveloperTokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iss": m.teamId,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	})
	token.Header["kid"] = m.keyId

	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", core.WrappedError(err, "failed to sign apple music developer token")
	}
	m.cachedToken = signed
	m.expiresAt = expiresAt
	return signed, nil
}
