package player

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/boucegame/HumanOrNot/internal/store"
)

func setupRouter() (*chi.Mux, store.Store) {
	records := store.NewInMemoryStore()
	handler := New(records)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, records
}

func TestTopPlayersOrdered(t *testing.T) {
	r, records := setupRouter()
	ctx := context.Background()
	records.Upsert(ctx, "alice", 20)
	records.Upsert(ctx, "bob", 50)

	req := httptest.NewRequest(http.MethodGet, "/players", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var got []store.PlayerRecord
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 2 || got[0].Identity != "bob" || got[1].Identity != "alice" {
		t.Fatalf("unexpected leaderboard: %+v", got)
	}
}

func TestTopPlayersLimit(t *testing.T) {
	r, records := setupRouter()
	ctx := context.Background()
	records.Upsert(ctx, "alice", 20)
	records.Upsert(ctx, "bob", 50)

	req := httptest.NewRequest(http.MethodGet, "/players?limit=1", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	var got []store.PlayerRecord
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 || got[0].Identity != "bob" {
		t.Fatalf("unexpected limited leaderboard: %+v", got)
	}
}

func TestTopPlayersInvalidLimit(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/players?limit=zero", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGetPlayerByIdentity(t *testing.T) {
	r, records := setupRouter()
	records.Upsert(context.Background(), "alice", 20)

	req := httptest.NewRequest(http.MethodGet, "/players/alice", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var got store.PlayerRecord
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Identity != "alice" || got.Score != 20 {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestGetPlayerNotFound(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/players/nobody", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
