package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/noah-isme/backend-storefront/internal/common"
)

const defaultAccessTTL = 15 * time.Minute

// Verifier validates bearer tokens issued by the identity provider and
// extracts the user subject. The storefront does not manage accounts
// itself; it only trusts HS256 tokens signed with the shared secret.
type Verifier struct {
	secret    []byte
	signer    jwa.SignatureAlgorithm
	validator TokenValidator
	accessTTL time.Duration
	now       func() time.Time
}

// Config configures the token verifier.
type Config struct {
	Secret         string
	Issuer         string
	Audience       string
	ClockSkew      time.Duration
	AccessTokenTTL time.Duration
}

// NewVerifier constructs a Verifier with sane defaults.
func NewVerifier(cfg Config) (*Verifier, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, errors.New("auth: secret is required")
	}
	issuer := strings.TrimSpace(cfg.Issuer)
	if issuer == "" {
		issuer = "backend-storefront"
	}
	audience := strings.TrimSpace(cfg.Audience)
	if audience == "" {
		audience = "storefront-web"
	}
	clockSkew := cfg.ClockSkew
	if clockSkew < 0 {
		clockSkew = 0
	}
	accessTTL := cfg.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	return &Verifier{
		secret: []byte(secret),
		signer: jwa.HS256,
		validator: TokenValidator{
			Issuer:    issuer,
			Audience:  audience,
			ClockSkew: clockSkew,
			Algorithm: jwa.HS256,
		},
		accessTTL: accessTTL,
		now:       time.Now,
	}, nil
}

// ParseAccessToken validates token and returns its subject (the user ID).
func (v *Verifier) ParseAccessToken(token string) (string, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", common.NewAppError("UNAUTHORIZED", "missing token", http.StatusUnauthorized, nil)
	}
	algorithm, err := extractTokenAlgorithm(trimmed)
	if err != nil {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, err)
	}
	if algorithm != v.validator.Algorithm {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, fmt.Errorf("unexpected token algorithm %s", algorithm))
	}
	parsed, err := jwt.ParseString(trimmed, jwt.WithKey(algorithm, v.secret))
	if err != nil {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, err)
	}
	if err := v.validator.Validate(parsed, algorithm, v.now()); err != nil {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, err)
	}
	return parsed.Subject(), nil
}

// Mint signs an access token for userID. Used by the seeder and tests;
// in production tokens come from the identity provider.
func (v *Verifier) Mint(userID string) (string, time.Time, error) {
	now := v.now()
	expiry := now.Add(v.accessTTL)
	tok, err := jwt.NewBuilder().
		Subject(userID).
		Issuer(v.validator.Issuer).
		Audience([]string{v.validator.Audience}).
		IssuedAt(now).
		Expiration(expiry).
		Build()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: build token: %w", err)
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(v.signer, v.secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return string(signed), expiry, nil
}

func extractTokenAlgorithm(token string) (jwa.SignatureAlgorithm, error) {
	message, err := jws.ParseString(token)
	if err != nil {
		return "", err
	}
	signatures := message.Signatures()
	if len(signatures) == 0 {
		return "", errors.New("auth: token contains no signatures")
	}
	var algorithm jwa.SignatureAlgorithm
	for _, sig := range signatures {
		headers := sig.ProtectedHeaders()
		if headers == nil {
			return "", errors.New("auth: token missing protected headers")
		}
		alg := headers.Algorithm()
		if alg == "" {
			return "", errors.New("auth: token missing algorithm")
		}
		if alg == jwa.NoSignature {
			return "", errors.New("auth: token uses none algorithm")
		}
		if algorithm == "" {
			algorithm = alg
		} else if algorithm != alg {
			return "", errors.New("auth: mixed token algorithms detected")
		}
	}
	return algorithm, nil
}
