// Package session stores the logged-in identity in a client-side signed
// cookie. The cookie value is an HS256 JWT; nothing is kept server side.
package session

import (
	"errors"
	"fmt"
	"time"

	"innovalley/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

const issuer = "innovalley"

var (
	// ErrNoSession is returned by Decode for an empty cookie value.
	ErrNoSession = errors.New("no session")
	// ErrInvalidSession covers bad signatures, expiry and malformed claims.
	ErrInvalidSession = errors.New("invalid session")
)

type claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Store signs and verifies session cookies.
type Store struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewStore returns a Store signing with secret. Cookies expire after ttl and
// carry the Secure attribute when secure is set.
func NewStore(secret string, ttl time.Duration, secure bool) *Store {
	return &Store{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

// Encode signs the identity into a cookie value.
func (s *Store) Encode(id *models.Identity) (string, error) {
	if id == nil {
		return "", fmt.Errorf("encode session: nil identity")
	}
	if len(s.secret) == 0 {
		return "", fmt.Errorf("encode session: secret not configured")
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: id.Username,
		Email:    id.Email,
		Role:     id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.secret)
}

// Decode verifies a cookie value and returns the identity it carries.
func (s *Store) Decode(value string) (*models.Identity, error) {
	if value == "" {
		return nil, ErrNoSession
	}

	var c claims
	token, err := jwt.ParseWithClaims(value, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if c.Username == "" {
		return nil, fmt.Errorf("%w: missing username", ErrInvalidSession)
	}

	return &models.Identity{
		Username: c.Username,
		Email:    c.Email,
		Role:     c.Role,
	}, nil
}

// Get returns the identity of the request, or nil when anonymous.
func (s *Store) Get(c *fiber.Ctx) *models.Identity {
	id, err := s.Decode(c.Cookies(CookieName))
	if err != nil {
		return nil
	}
	return id
}

// Set writes a fresh session cookie for id.
func (s *Store) Set(c *fiber.Ctx, id *models.Identity) error {
	value, err := s.Encode(id)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  s.now().Add(s.ttl),
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (s *Store) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
