package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Типизированные отказы валидации — HTTP-слой мапит их все в 401.
var (
	ErrMalformed       = errors.New("auth: malformed token")
	ErrKeyNotFound     = errors.New("auth: signing key not found")
	ErrBadSignature    = errors.New("auth: signature verification failed")
	ErrExpired         = errors.New("auth: token expired")
	ErrInvalidAudience = errors.New("auth: invalid audience")
)

// Validator проверяет подпись и клеймы токена по JWKS издателя.
// Кэш ключей — состояние валидатора, а не глобал модуля: набор
// тянется один раз за время жизни, Invalidate — для ротации.
type Validator struct {
	jwksURL  string
	clientID string
	client   *http.Client
	now      func() time.Time

	mu   sync.Mutex
	keys map[string]*rsa.PublicKey
}

func NewValidator(jwksURL, clientID string) *Validator {
	return &Validator{
		jwksURL:  jwksURL,
		clientID: clientID,
		client:   &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
	}
}

// Invalidate сбрасывает кэш ключей; следующий Validate заберёт набор заново.
func (v *Validator) Invalidate() {
	v.mu.Lock()
	v.keys = nil
	v.mu.Unlock()
}

// Validate: подпись по ключу из JWKS (по kid), затем exp, затем audience.
// Возвращает клеймы либо один из типизированных отказов.
func (v *Validator) Validate(ctx context.Context, token string) (jwt.MapClaims, error) {
	keys, err := v.keyset(ctx)
	if err != nil {
		return nil, err
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"RS256"}),
		// exp/aud проверяем сами, чтобы отдавать типизированные отказы
		jwt.WithoutClaimsValidation(),
	)
	_, err = parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		pub, ok := keys[kid]
		if !ok {
			return nil, ErrKeyNotFound
		}
		return pub, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrKeyNotFound):
		return nil, ErrKeyNotFound
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrBadSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, ErrMalformed
	default:
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrExpired
	}
	if exp.Before(v.now()) {
		return nil, ErrExpired
	}

	// Cognito access-токены несут client_id; id-токены — aud
	if aud, _ := claims["client_id"].(string); aud != "" {
		if aud != v.clientID {
			return nil, ErrInvalidAudience
		}
		return claims, nil
	}
	auds, _ := claims.GetAudience()
	for _, a := range auds {
		if a == v.clientID {
			return claims, nil
		}
	}
	return nil, ErrInvalidAudience
}

func (v *Validator) keyset(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.keys != nil {
		return v.keys, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("jwks request: %w", err)
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jwks fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jwks fetch: unexpected status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("jwks read: %w", err)
	}
	keys, err := parseJWKS(raw)
	if err != nil {
		return nil, err
	}
	v.keys = keys
	return keys, nil
}
