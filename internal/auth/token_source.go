package auth

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/clientcredentials"

	"devicehub/config"
)

// TokenSource выдаёт bearer-токен для исходящих вызовов.
// Вариант выбирается явно конфигом — никаких fallback-цепочек
// по тексту ошибок.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// NewTokenSource собирает источник по auth.token_source.
func NewTokenSource(cfg *config.Config) (TokenSource, error) {
	switch cfg.Auth.TokenSource {
	case "workload":
		return &WorkloadIdentity{File: cfg.Auth.WorkloadTokenFile}, nil
	case "client_credentials":
		var scopes []string
		if cfg.Auth.Scope != "" {
			scopes = strings.Fields(cfg.Auth.Scope)
		}
		return &ClientCredentials{cc: clientcredentials.Config{
			ClientID:     cfg.Auth.ClientID,
			ClientSecret: cfg.Auth.ClientSecret,
			TokenURL:     cfg.Auth.TokenURL,
			Scopes:       scopes,
		}}, nil
	case "":
		return nil, fmt.Errorf("auth.token_source is not configured")
	default:
		return nil, fmt.Errorf("unsupported auth.token_source: %s", cfg.Auth.TokenSource)
	}
}

// WorkloadIdentity читает уже выпущенный токен из примонтированного файла
// (так workload identity отдаётся в контейнерах) либо из env.
type WorkloadIdentity struct {
	File string
}

func (w *WorkloadIdentity) Token(_ context.Context) (string, error) {
	if w.File != "" {
		b, err := os.ReadFile(w.File)
		if err != nil {
			return "", fmt.Errorf("workload token file: %w", err)
		}
		tok := strings.TrimSpace(string(b))
		if tok == "" {
			return "", fmt.Errorf("workload token file %s is empty", w.File)
		}
		return tok, nil
	}
	if tok := strings.TrimSpace(os.Getenv("WORKLOAD_ACCESS_TOKEN")); tok != "" {
		return tok, nil
	}
	return "", fmt.Errorf("workload access token has not been set")
}

// ClientCredentials — OAuth2 client_credentials grant против token endpoint.
type ClientCredentials struct {
	cc clientcredentials.Config
}

func (c *ClientCredentials) Token(ctx context.Context) (string, error) {
	tok, err := c.cc.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("client credentials grant: %w", err)
	}
	return tok.AccessToken, nil
}
