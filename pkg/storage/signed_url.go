package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrTokenMalformed = errors.New("signed url: malformed token")
	ErrTokenSignature = errors.New("signed url: invalid signature")
	ErrTokenExpired   = errors.New("signed url: token expired")
)

// SignedURLSigner creates and validates download tokens of the form
// owner.expiry.base64(path).hmac.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner constructs a signer with the provided secret and TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &SignedURLSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Generate returns a token granting access to relPath on behalf of owner.
func (s *SignedURLSigner) Generate(owner, relPath string) (string, time.Time, error) {
	if owner == "" || relPath == "" {
		return "", time.Time{}, fmt.Errorf("owner and path required")
	}
	if strings.Contains(owner, ".") {
		return "", time.Time{}, fmt.Errorf("owner must not contain '.'")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	encodedPath := base64.RawURLEncoding.EncodeToString([]byte(relPath))
	token := strings.Join([]string{owner, ts, encodedPath, s.sign(owner, ts, encodedPath)}, ".")
	return token, expiresAt, nil
}

// Parse validates token and returns the owner and path it grants.
func (s *SignedURLSigner) Parse(token string) (owner, relPath string, expiresAt time.Time, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return "", "", time.Time{}, ErrTokenMalformed
	}
	owner, ts, encodedPath, signature := parts[0], parts[1], parts[2], parts[3]

	expUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return "", "", time.Time{}, ErrTokenMalformed
	}
	rawPath, err := base64.RawURLEncoding.DecodeString(encodedPath)
	if err != nil {
		return "", "", time.Time{}, ErrTokenMalformed
	}
	if !hmac.Equal([]byte(s.sign(owner, ts, encodedPath)), []byte(signature)) {
		return "", "", time.Time{}, ErrTokenSignature
	}
	expiresAt = time.Unix(expUnix, 0)
	if s.now().After(expiresAt) {
		return "", "", time.Time{}, ErrTokenExpired
	}
	return owner, string(rawPath), expiresAt, nil
}

func (s *SignedURLSigner) sign(owner, ts, encodedPath string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(owner + "|" + ts + "|" + encodedPath))
	return hex.EncodeToString(mac.Sum(nil))
}
