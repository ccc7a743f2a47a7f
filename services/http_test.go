package services

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vzorr/musta-website/shared"
)

type apiFixture struct {
	app      *fiber.App
	store    *fakeStore
	gdpr     *gdprStore
	notifier *fakeNotifier
	limiter  *fakeLimiter
}

func newAPIFixture() *apiFixture {
	store := &fakeStore{}
	gdpr := &gdprStore{}
	notifier := newFakeNotifier()
	limiter := &fakeLimiter{allowed: true}

	svc := &HttpService{
		submissionSvc: NewSubmissionService(limiter, store, &AbuseService{}, notifier, &fakeLookup{}),
		gdprSvc:       NewGdprService(limiter, gdpr, &AbuseService{}, notifier, newFakeUploader()),
	}

	return &apiFixture{
		app:      svc.buildApp(),
		store:    store,
		gdpr:     gdpr,
		notifier: notifier,
		limiter:  limiter,
	}
}

func (f *apiFixture) post(t *testing.T, path, body string) (*http.Response, shared.Response) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("User-Agent", "api-test")

	resp, err := f.app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope shared.Response
	require.NoError(t, sonic.Unmarshal(raw, &envelope))
	return resp, envelope
}

func TestContactEndpoint(t *testing.T) {
	f := newAPIFixture()

	resp, envelope := f.post(t, "/api/contact", `{
		"name": "Arben Hoxha",
		"email": "arben@example.com",
		"phone": "+355691234567",
		"message": "Doja të di më shumë rreth platformës suaj."
	}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, envelope.Success)
	assert.Equal(t, "Faleminderit për mesazhin tuaj! Do t'ju përgjigjemi sa më shpejt.", envelope.Message)
	assert.Empty(t, envelope.Error)
	assert.NotEmpty(t, envelope.Timestamp)

	require.Len(t, f.store.contacts, 1)
	record := f.store.contacts[0]
	assert.Equal(t, shared.StatusPending, record.Status)
	assert.Equal(t, "203.0.113.7", record.ClientIP, "first forwarded address wins")
	assert.Equal(t, "api-test", record.UserAgent)

	f.notifier.waitForSends(t, 2)
	confirmations, admins := f.notifier.counts()
	assert.Equal(t, 1, confirmations)
	assert.Equal(t, 1, admins)
}

func TestContactEndpointValidationError(t *testing.T) {
	f := newAPIFixture()

	resp, envelope := f.post(t, "/api/contact", `{
		"name": "Arben Hoxha",
		"email": "not-an-email",
		"phone": "+355691234567",
		"message": "Doja të di më shumë rreth platformës suaj."
	}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, envelope.Success)
	assert.Equal(t, shared.ErrCodeValidation, envelope.Error)
	assert.Empty(t, f.store.contacts)
}

func TestContactEndpointMalformedJSON(t *testing.T) {
	f := newAPIFixture()

	resp, envelope := f.post(t, "/api/contact", `{"name": `)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, envelope.Success)
	assert.Equal(t, shared.ErrCodeValidation, envelope.Error)
}

func TestRegisterEndpointRateLimited(t *testing.T) {
	f := newAPIFixture()
	f.limiter.allowed = false
	f.limiter.retryAfter = 300

	resp, envelope := f.post(t, "/api/register", `{
		"name": "Arben Hoxha",
		"email": "arben@example.com",
		"phone": "+355691234567"
	}`)

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.False(t, envelope.Success)
	assert.Equal(t, shared.ErrCodeRateLimited, envelope.Error)
	assert.Equal(t, 300, envelope.RetryAfter)
	assert.Empty(t, f.store.registrations)
}

func TestWaitlistEndpointAcceptsArrayCategory(t *testing.T) {
	f := newAPIFixture()

	resp, envelope := f.post(t, "/api/waitlist", `{
		"name": "Arben Hoxha",
		"email": "arben@example.com",
		"phone": "+355691234567",
		"category": ["plumber"],
		"location": ["tirana"]
	}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, envelope.Success)

	require.Len(t, f.store.registrations, 1)
	record := f.store.registrations[0]
	assert.Equal(t, shared.CategoryWaitlist, record.Category)
	assert.Equal(t, "plumber", record.TradeCode)
	assert.Equal(t, "tirana", record.CityCode)

	f.notifier.waitForSends(t, 2)
}

func TestRecommendEndpoint(t *testing.T) {
	f := newAPIFixture()

	resp, envelope := f.post(t, "/api/recommend", `{
		"name": "Arben Hoxha",
		"phone": "+355691234567",
		"isRecommendation": true,
		"ustaName": "Besnik Dervishi",
		"ustaPhone": "+355692223344",
		"category": "electrician"
	}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, envelope.Success)
	require.Len(t, f.store.recommendations, 1)

	f.notifier.waitForSends(t, 2)
}

func TestGdprEndpointRectifyMissingDetails(t *testing.T) {
	f := newAPIFixture()

	resp, envelope := f.post(t, "/api/gdpr", `{
		"requestType": "rectify",
		"name": "Arben Hoxha",
		"email": "arben@example.com"
	}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, envelope.Success)
	assert.Equal(t, shared.ErrCodeMissingDetails, envelope.Error)
	assert.Empty(t, f.gdpr.gdprRequests)
}

func TestGdprEndpointAccess(t *testing.T) {
	f := newAPIFixture()

	resp, envelope := f.post(t, "/api/gdpr", `{
		"requestType": "access",
		"name": "Arben Hoxha",
		"email": "arben@example.com"
	}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, envelope.Success)
	require.Len(t, f.gdpr.gdprRequests, 1)

	f.notifier.waitForSends(t, 2)
}

func TestPingEndpoint(t *testing.T) {
	f := newAPIFixture()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	resp, err := f.app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope shared.Response
	require.NoError(t, sonic.Unmarshal(raw, &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "pong", envelope.Message)
}

func TestSecurityHeaders(t *testing.T) {
	f := newAPIFixture()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	resp, err := f.app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Contains(t, resp.Header.Get("Content-Security-Policy"), "frame-src https://www.youtube-nocookie.com")
}

func TestMethodNotAllowed(t *testing.T) {
	f := newAPIFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
	resp, err := f.app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
