package session

import (
	"hash"
	"io"
	"time"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/o1egl/paseto/v2"
	"github.com/pkg/errors"
	"github.com/slsmu/slsmu/internal/model"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/hkdf"
)

const (
	// FormatJWT issues HS256 signed JWT.
	FormatJWT = "jwt"
	// FormatPASETO issues v2.local PASETO.
	FormatPASETO = "paseto"

	// DefaultIssuer is the issuer claim used when none is configured.
	DefaultIssuer = "slsmu"

	claimRole = "role"
)

type (
	// A TokenService issues and validates self-contained bearer tokens.
	TokenService interface {
		// Issue returns a signed token for the given caller.
		Issue(caller *model.Caller) (string, error)
		// Validate returns the caller embedded in the token.
		// It returns false when the token is malformed, tampered or expired.
		Validate(token string) (*model.Caller, bool)
	}

	// A TokenConfig defines how tokens are issued.
	TokenConfig struct {
		Format string
		Secret []byte
		Issuer string
		TTL    time.Duration
	}
)

// NewTokenService returns the TokenService of the configured format.
func NewTokenService(cfg TokenConfig) (TokenService, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret not found")
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}

	switch cfg.Format {
	case FormatJWT, "":
		return &jwtTokens{
			key:    cfg.Secret,
			issuer: cfg.Issuer,
			ttl:    cfg.TTL,
		}, nil
	case FormatPASETO:
		return &pasetoTokens{
			v2:     paseto.NewV2(),
			key:    DeriveKey(32, cfg.Secret),
			issuer: cfg.Issuer,
			ttl:    cfg.TTL,
		}, nil
	default:
		return nil, errors.Errorf("unsupported token format %q", cfg.Format)
	}
}

// DeriveKey derives a key of l bytes from the given secret.
func DeriveKey(l int, secret []byte) []byte {
	nhash := func() hash.Hash {
		h, err := blake2b.New256(nil)
		if err != nil {
			panic(err)
		}
		return h
	}

	payload := make([]byte, l)

	kdf := hkdf.New(nhash, secret, nil, nil)
	_, err := io.ReadFull(kdf, payload)
	if err != nil {
		panic(err)
	}

	return payload
}

func caller(subject, role, site string) (*model.Caller, bool) {
	if subject == "" {
		return nil, false
	}

	r, err := model.ParseRole(role)
	if err != nil {
		return nil, false
	}

	return &model.Caller{ID: subject, Role: r, Site: site}, true
}

//
// JWT
//

type (
	jwtTokens struct {
		key    []byte
		issuer string
		ttl    time.Duration
	}

	jwtClaims struct {
		jwt.RegisteredClaims
		Role string `json:"role"`
	}
)

func (s *jwtTokens) Issue(c *model.Caller) (string, error) {
	now := time.Now()

	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.Must(uuid.NewV4()).String(),
			Issuer:    s.issuer,
			Subject:   c.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Role: string(c.Role),
	}
	if c.Site != "" {
		claims.Audience = jwt.ClaimStrings{c.Site}
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	return token, errors.Wrap(err, "could not sign token")
}

func (s *jwtTokens) Validate(token string) (*model.Caller, bool) {
	var claims jwtClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, false
	}

	var site string
	if len(claims.Audience) > 0 {
		site = claims.Audience[0]
	}
	return caller(claims.Subject, claims.Role, site)
}

//
// PASETO
//

type pasetoTokens struct {
	v2     *paseto.V2
	key    []byte
	issuer string
	ttl    time.Duration
}

func (s *pasetoTokens) Issue(c *model.Caller) (string, error) {
	now := time.Now()

	jt := paseto.JSONToken{
		Jti:        uuid.Must(uuid.NewV4()).String(),
		Issuer:     s.issuer,
		Subject:    c.ID,
		Audience:   c.Site,
		IssuedAt:   now,
		NotBefore:  now,
		Expiration: now.Add(s.ttl),
	}
	jt.Set(claimRole, string(c.Role))

	token, err := s.v2.Encrypt(s.key, &jt, nil)
	return token, errors.Wrap(err, "could not encrypt token")
}

func (s *pasetoTokens) Validate(token string) (*model.Caller, bool) {
	var jt paseto.JSONToken
	if err := s.v2.Decrypt(token, s.key, &jt, nil); err != nil {
		return nil, false
	}

	if jt.Expiration.IsZero() {
		return nil, false
	}
	if err := jt.Validate(paseto.IssuedBy(s.issuer), paseto.ValidAt(time.Now())); err != nil {
		return nil, false
	}

	var role string
	if err := jt.Get(claimRole, &role); err != nil {
		return nil, false
	}

	return caller(jt.Subject, role, jt.Audience)
}
