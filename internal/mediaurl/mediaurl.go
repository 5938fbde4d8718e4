// Package mediaurl turns server-relative media URLs into links a media
// player can fetch without a session cookie.
//
// Relative paths are signed with a short-lived HS256 token carried in the
// authSig query parameter and, when an external base URL is configured,
// made absolute. Absolute URLs are returned unchanged.
package mediaurl

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"media-source/internal/logging"
)

// SignatureParam is the query parameter holding the token.
const SignatureParam = "authSig"

const issuer = "media-source"

// ErrPathMismatch is returned when a valid token was issued for another path.
var ErrPathMismatch = errors.New("signature does not cover this path")

// Claims are the claims of a signed media URL.
type Claims struct {
	Path string `json:"path"`
	jwt.RegisteredClaims
}

// Processor signs and verifies media URLs.
type Processor struct {
	secret      []byte
	ttl         time.Duration
	externalURL string
	now         func() time.Time
}

// NewProcessor returns a Processor signing with secret. Tokens expire after
// ttl. externalURL, if set, is prefixed to every signed path.
func NewProcessor(secret []byte, ttl time.Duration, externalURL string) *Processor {
	return &Processor{
		secret:      secret,
		ttl:         ttl,
		externalURL: strings.TrimRight(externalURL, "/"),
		now:         time.Now,
	}
}

// NewRandomSecret returns a 32 byte key for processes without a configured
// secret. URLs signed with it stop working on restart.
func NewRandomSecret() ([]byte, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate signing secret: %w", err)
	}
	return secret, nil
}

// ProcessURL implements catalog.URLProcessor. It never fails: URLs it cannot
// sign are returned as given.
func (p *Processor) ProcessURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return rawURL
	}

	query := u.Query()
	if !query.Has(SignatureParam) {
		token, err := p.Sign(u.Path)
		if err != nil {
			logging.Error("Failed to sign media URL %s: %v", u.Path, err)
			return rawURL
		}
		query.Set(SignatureParam, token)
		u.RawQuery = query.Encode()
	}

	return p.externalURL + u.String()
}

// Sign returns a token granting access to path until the TTL elapses.
func (p *Processor) Sign(path string) (string, error) {
	now := p.now()
	claims := Claims{
		Path: path,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

// Verify checks that token is a valid, unexpired signature for path.
func (p *Processor) Verify(path, token string) error {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return p.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return fmt.Errorf("invalid media signature: %w", err)
	}
	if claims.Path != path {
		return ErrPathMismatch
	}
	return nil
}
