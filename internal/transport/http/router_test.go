package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/gokbeyinac/Trade-Logbook/internal/infra/repository"
	"github.com/gokbeyinac/Trade-Logbook/internal/usecase"
)

func newTestRouter(t *testing.T) (*Router, string) {
	t.Helper()

	auth, err := usecase.NewAuthService(repository.NewMemoryUserRepository(), repository.NewMemorySessionRepository())
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	journal, err := usecase.NewJournalService(repository.NewMemoryTradeRepository())
	if err != nil {
		t.Fatalf("NewJournalService: %v", err)
	}

	user, _, err := auth.Register(context.Background(), "trader", "1234")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	return New(auth, journal), user.WebhookToken
}

func postWebhook(t *testing.T, router *Router, token, body string) int {
	t.Helper()

	req := httptest.NewRequest("POST", "/api/v1/webhook/"+token, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := router.App().Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestWebhookEntrySignal(t *testing.T) {
	router, token := newTestRouter(t)

	status := postWebhook(t, router, token,
		`{"action":"entry","symbol":"BTCUSD","direction":"long","price":50000,"time":"2025-06-01T12:00:00Z"}`)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
}

func TestWebhookRejectsMalformedTime(t *testing.T) {
	router, token := newTestRouter(t)

	status := postWebhook(t, router, token,
		`{"action":"entry","symbol":"BTCUSD","direction":"long","price":50000,"time":"yesterday"}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("malformed time should be rejected with 400, got %d", status)
	}
}

func TestWebhookOmittedTimeDefaults(t *testing.T) {
	router, token := newTestRouter(t)

	status := postWebhook(t, router, token,
		`{"action":"entry","symbol":"BTCUSD","direction":"long","price":50000}`)
	if status != fiber.StatusCreated {
		t.Fatalf("omitted time should default to now, got %d", status)
	}
}

func TestWebhookUnknownToken(t *testing.T) {
	router, _ := newTestRouter(t)

	status := postWebhook(t, router, "bogus-token",
		`{"action":"entry","symbol":"BTCUSD","direction":"long","price":50000}`)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("unknown token should be unauthorized, got %d", status)
	}
}
