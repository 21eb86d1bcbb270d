package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/signspeak/internal/gesture"
	"github.com/ayusman/signspeak/internal/store"
)

func decodePhrases(t *testing.T, rec *httptest.ResponseRecorder) map[string]PhraseResponse {
	t.Helper()

	var list []PhraseResponse
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	out := make(map[string]PhraseResponse, len(list))
	for _, p := range list {
		out[p.Label] = p
	}
	return out
}

func TestPhraseHandler_List(t *testing.T) {
	s := newTestStore(t)
	if err := s.Phrases().Upsert(&store.Phrase{Label: "ThankYou", Text: "thanks a lot"}); err != nil {
		t.Fatalf("failed to seed phrase: %v", err)
	}
	handler := NewPhraseHandler(s, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/phrases", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	phrases := decodePhrases(t, rec)
	if len(phrases) != len(gesture.Labels) {
		t.Fatalf("expected %d phrases, got %d", len(gesture.Labels), len(phrases))
	}

	thanks := phrases["ThankYou"]
	if thanks.Text != "thanks a lot" || !thanks.Custom || thanks.Name != "Thank You" {
		t.Errorf("unexpected override entry: %+v", thanks)
	}
	hello := phrases["Hello"]
	if hello.Text != "Hello" || hello.Custom {
		t.Errorf("unexpected default entry: %+v", hello)
	}
}

func TestPhraseHandler_Update(t *testing.T) {
	s := newTestStore(t)
	book := &fakeBook{store: s}
	handler := NewPhraseHandler(s, book)

	t.Run("stores override and reloads", func(t *testing.T) {
		body, _ := json.Marshal(UpdatePhraseRequest{Text: "  Yes please "})
		req := httptest.NewRequest(http.MethodPut, "/api/phrases/yes", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}

		p, err := s.Phrases().Get("Yes")
		if err != nil {
			t.Fatalf("expected stored phrase: %v", err)
		}
		if p.Text != "Yes please" {
			t.Errorf("expected trimmed text, got %q", p.Text)
		}
		if book.loads != 1 {
			t.Errorf("expected 1 reload, got %d", book.loads)
		}
		if book.Phrases()[gesture.Yes] != "Yes please" {
			t.Error("expected live phrase to be updated")
		}
	})

	t.Run("accepts display names", func(t *testing.T) {
		body, _ := json.Marshal(UpdatePhraseRequest{Text: "love you"})
		req := httptest.NewRequest(http.MethodPut, "/api/phrases/I%20Love%20You", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if _, err := s.Phrases().Get("ILoveYou"); err != nil {
			t.Errorf("expected phrase stored under key ILoveYou: %v", err)
		}
	})

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"unknown sign", "/api/phrases/wave", `{"text":"hi"}`, http.StatusNotFound},
		{"none is not a sign", "/api/phrases/none", `{"text":"hi"}`, http.StatusNotFound},
		{"empty text", "/api/phrases/Hello", `{"text":"   "}`, http.StatusBadRequest},
		{"invalid JSON", "/api/phrases/Hello", `{not json`, http.StatusBadRequest},
		{"text too long", "/api/phrases/Hello", `{"text":"` + string(bytes.Repeat([]byte("a"), maxPhraseLength+1)) + `"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, tt.path, bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestPhraseHandler_Get(t *testing.T) {
	s := newTestStore(t)
	handler := NewPhraseHandler(s, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/phrases/Peace", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var p PhraseResponse
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if p.Label != "Peace" || p.Text != "Peace" || p.Custom {
		t.Errorf("unexpected phrase: %+v", p)
	}
}

func TestPhraseHandler_Delete(t *testing.T) {
	s := newTestStore(t)
	book := &fakeBook{store: s}
	handler := NewPhraseHandler(s, book)

	if err := s.Phrases().Upsert(&store.Phrase{Label: "Stop", Text: "please stop"}); err != nil {
		t.Fatalf("failed to seed phrase: %v", err)
	}
	book.LoadPhrases()

	req := httptest.NewRequest(http.MethodDelete, "/api/phrases/Stop", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
	if book.Phrases()[gesture.Stop] != "Stop" {
		t.Error("expected live phrase to revert to the display name")
	}

	t.Run("missing override", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/phrases/Stop", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})
}

func TestPhraseHandler_MethodNotAllowed(t *testing.T) {
	handler := NewPhraseHandler(newTestStore(t), nil)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/phrases"},
		{http.MethodDelete, "/api/phrases"},
		{http.MethodPost, "/api/phrases/Hello"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: expected status %d, got %d", tt.method, tt.path, http.StatusMethodNotAllowed, rec.Code)
		}
	}
}
