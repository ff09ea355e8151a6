package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/rcvillanueva/padeliver-backend/pkg/errors"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func requestWithPattern(method, url, pattern string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, url, body)
	rc := chi.NewRouteContext()
	rc.RoutePatterns = []string{pattern}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

const checkoutPattern = "/api/v1/users/{userId}/checkout"

func TestIdempotencyMiddlewareRequiresHeader(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil, 0)
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusCreated)
	})

	req := requestWithPattern(http.MethodPost, "/api/v1/users/alice/checkout", checkoutPattern, strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if handlerCalled {
		t.Fatalf("handler should not run without idempotency key")
	}
}

func TestIdempotencyMiddlewareSkipsUnguardedRoutes(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil, 0)
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})

	req := requestWithPattern(http.MethodGet, "/api/v1/products", "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)

	if !handlerCalled {
		t.Fatalf("unguarded routes must pass through")
	}
	if len(store.data) != 0 {
		t.Fatalf("no record should be stored for unguarded routes")
	}
}

func TestIdempotencyMiddlewareReplaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil, 0)
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	makeRequest := func() *httptest.ResponseRecorder {
		req := requestWithPattern(http.MethodPost, "/api/v1/users/alice/checkout", checkoutPattern, strings.NewReader(`{}`))
		req.Header.Set("Idempotency-Key", "abc")
		resp := httptest.NewRecorder()
		mw(handler).ServeHTTP(resp, req)
		return resp
	}

	first := makeRequest()
	if first.Code != http.StatusAccepted {
		t.Fatalf("expected first response 202 got %d", first.Code)
	}

	second := makeRequest()
	if second.Code != http.StatusAccepted {
		t.Fatalf("expected replayed response 202 got %d", second.Code)
	}
	if second.Body.String() != `{"ok":true}` {
		t.Fatalf("unexpected replayed body %q", second.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler should run exactly once, ran %d times", calls)
	}
}

func TestIdempotencyMiddlewareRejectsReusedKeyWithDifferentBody(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil, 0)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	send := func(body string) *httptest.ResponseRecorder {
		req := requestWithPattern(http.MethodPost, "/api/v1/users/alice/checkout", checkoutPattern, strings.NewReader(body))
		req.Header.Set("Idempotency-Key", "abc")
		resp := httptest.NewRecorder()
		mw(handler).ServeHTTP(resp, req)
		return resp
	}

	if resp := send(`{"a":1}`); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	resp := send(`{"a":2}`)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
}
