package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

var (
	ErrInvalidToken   = errors.New("token: invalid")
	ErrTokenExpired   = errors.New("token: expired")
	ErrWrongTokenType = errors.New("token: wrong type")
	ErrWeakSecret     = fmt.Errorf("token: secret must be at least %d bytes", internal.MinSecretLength)
)

// Claims is the payload of both access and refresh tokens.
type Claims struct {
	Username    string   `json:"username"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	Type        Type     `json:"type"`
	jwt.RegisteredClaims
}

// UserID parses the numeric subject.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// Subject is the identity an Issuer signs.
type Subject struct {
	UserID      int64
	Username    string
	Roles       []string
	Permissions []string
}

type Pair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// Verifier checks HS256 tokens against a shared secret. It holds no
// per-request state and is safe for concurrent use.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

func NewVerifier(secret string) (*Verifier, error) {
	if len(secret) < internal.MinSecretLength {
		return nil, ErrWeakSecret
	}
	return &Verifier{secret: []byte(secret), now: time.Now}, nil
}

// WithClock overrides the verification clock.
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	cp := *v
	cp.now = now
	return &cp
}

// Verify checks signature, algorithm, expiry and claim structure.
func (v *Verifier) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, v.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if _, err := claims.UserID(); err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}
	if claims.Type != TypeAccess && claims.Type != TypeRefresh {
		return nil, fmt.Errorf("%w: unknown token type %q", ErrInvalidToken, claims.Type)
	}

	return claims, nil
}

// VerifyType is Verify plus a check of the type claim.
func (v *Verifier) VerifyType(raw string, want Type) (*Claims, error) {
	claims, err := v.Verify(raw)
	if err != nil {
		return nil, err
	}
	if claims.Type != want {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

func (v *Verifier) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return v.secret, nil
}

// Issuer signs access and refresh tokens.
type Issuer struct {
	*Verifier
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	v, err := NewVerifier(secret)
	if err != nil {
		return nil, err
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token: lifetimes must be positive")
	}
	return &Issuer{Verifier: v, accessTTL: accessTTL, refreshTTL: refreshTTL}, nil
}

// WithClock overrides the clock used for both issuing and verifying.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	cp := *i
	cp.Verifier = i.Verifier.WithClock(now)
	return &cp
}

func (i *Issuer) AccessTTL() time.Duration  { return i.accessTTL }
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// Issue signs a fresh access/refresh pair for s. Both tokens carry the same
// identity claims and differ in type and lifetime.
func (i *Issuer) Issue(s Subject) (Pair, error) {
	now := i.now()

	access, accessExp, err := i.sign(s, TypeAccess, now, i.accessTTL)
	if err != nil {
		return Pair{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh, refreshExp, err := i.sign(s, TypeRefresh, now, i.refreshTTL)
	if err != nil {
		return Pair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return Pair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (i *Issuer) sign(s Subject, typ Type, now time.Time, ttl time.Duration) (string, time.Time, error) {
	exp := now.Add(ttl)

	roles := s.Roles
	if roles == nil {
		roles = []string{}
	}
	perms := s.Permissions
	if perms == nil {
		perms = []string{}
	}

	claims := Claims{
		Username:    s.Username,
		Roles:       roles,
		Permissions: perms,
		Type:        typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(s.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}
