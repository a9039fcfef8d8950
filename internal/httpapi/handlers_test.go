package httpapi

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"devicehub/internal/auth"
	"devicehub/internal/db"
	"devicehub/internal/dispatch"
	"devicehub/internal/logs"
	"devicehub/internal/models"
	"devicehub/internal/repo"
	"devicehub/internal/seed"
)

const testClientID = "client-test-1234"

func newDispatcher(t *testing.T) *dispatch.Dispatcher {
	t.Helper()
	logs.Init(logs.Options{Level: "error"})
	gdb, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := gdb.AutoMigrate(
		&models.Device{}, &models.DeviceSetting{}, &models.WifiNetwork{},
		&models.User{}, &models.UserActivity{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := seed.Seed(context.Background(), gdb); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return dispatch.New(repo.NewDeviceStore(gdb), repo.NewUserStore(gdb))
}

func newIssuer(t *testing.T) (mint func(claims jwt.MapClaims) string, jwksURL string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	const kid = "test-key-1"
	doc := map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA", "kid": kid, "alg": "RS256",
			"n": base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			"e": "AQAB",
		}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(doc)
	}))
	t.Cleanup(srv.Close)

	mint = func(claims jwt.MapClaims) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
		tok.Header["kid"] = kid
		s, err := tok.SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}
	return mint, srv.URL
}

func invoke(t *testing.T, r *mux.Router, bearer string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoke", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestInvokeWithValidToken(t *testing.T) {
	mint, jwksURL := newIssuer(t)
	r := mux.NewRouter()
	RegisterRoutes(r, newDispatcher(t), auth.NewValidator(jwksURL, testClientID))

	token := mint(jwt.MapClaims{
		"client_id": testClientID,
		"exp":       time.Now().Add(time.Hour).Unix(),
	})
	rec := invoke(t, r, token, dispatch.Request{Action: "list_devices"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var env dispatch.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.StatusCode != http.StatusOK {
		t.Errorf("envelope statusCode = %d", env.StatusCode)
	}
	var devices []models.Device
	if err := json.Unmarshal([]byte(env.Body), &devices); err != nil {
		t.Fatalf("envelope body is not a JSON string of devices: %v", err)
	}
	if len(devices) == 0 {
		t.Error("expected seeded devices")
	}
}

func TestInvokeRejectsMissingAndBadTokens(t *testing.T) {
	mint, jwksURL := newIssuer(t)
	r := mux.NewRouter()
	RegisterRoutes(r, newDispatcher(t), auth.NewValidator(jwksURL, testClientID))

	if rec := invoke(t, r, "", dispatch.Request{Action: "list_devices"}); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", rec.Code)
	}

	expired := mint(jwt.MapClaims{
		"client_id": testClientID,
		"exp":       time.Now().Add(-time.Minute).Unix(),
	})
	if rec := invoke(t, r, expired, dispatch.Request{Action: "list_devices"}); rec.Code != http.StatusUnauthorized {
		t.Errorf("expired token: expected 401, got %d", rec.Code)
	}
}

func TestInvokeUnauthenticatedMode(t *testing.T) {
	// validator == nil — dev-режим без авторизации
	r := mux.NewRouter()
	RegisterRoutes(r, newDispatcher(t), nil)

	rec := invoke(t, r, "", dispatch.Request{Action: "invalid_tool"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 envelope status, got %d", rec.Code)
	}
	var env dispatch.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.StatusCode != http.StatusBadRequest {
		t.Errorf("envelope statusCode = %d", env.StatusCode)
	}
}

func TestInvokeBadBody(t *testing.T) {
	r := mux.NewRouter()
	RegisterRoutes(r, newDispatcher(t), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoke", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
