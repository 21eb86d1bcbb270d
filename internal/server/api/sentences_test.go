package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ayusman/signspeak/internal/store"
)

func seedSentences(t *testing.T, s *store.Store, texts ...string) {
	t.Helper()

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, text := range texts {
		err := s.Sentences().Create(&store.Sentence{
			ID:        text,
			SessionID: "session-1",
			Text:      text,
			Words:     1,
			CreatedAt: start.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("failed to seed sentence: %v", err)
		}
	}
}

func TestSentenceHandler_List(t *testing.T) {
	s := newTestStore(t)
	seedSentences(t, s, "Hello", "Yes", "Help")
	handler := NewSentenceHandler(s)

	t.Run("newest first", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sentences", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		var list []SentenceResponse
		if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(list) != 3 || list[0].Text != "Help" || list[2].Text != "Hello" {
			t.Errorf("unexpected order: %+v", list)
		}
	})

	t.Run("limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sentences?limit=1", nil))

		var list []SentenceResponse
		json.NewDecoder(rec.Body).Decode(&list)
		if len(list) != 1 || list[0].Text != "Help" {
			t.Errorf("expected only the newest sentence, got %+v", list)
		}
	})

	for _, limit := range []string{"0", "-2", "many"} {
		t.Run("invalid limit "+limit, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sentences?limit="+limit, nil))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}
		})
	}
}

func TestSentenceHandler_Empty(t *testing.T) {
	handler := NewSentenceHandler(newTestStore(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sentences", nil))

	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("expected empty JSON array, got %q", body)
	}
}

func TestSentenceHandler_Clear(t *testing.T) {
	s := newTestStore(t)
	seedSentences(t, s, "Hello", "Yes")
	handler := NewSentenceHandler(s)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/sentences", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var resp map[string]int64
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["deleted"] != 2 {
		t.Errorf("expected 2 deleted, got %d", resp["deleted"])
	}

	remaining, _ := s.Sentences().Recent(0)
	if len(remaining) != 0 {
		t.Errorf("expected history cleared, got %d", len(remaining))
	}
}
