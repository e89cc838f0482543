package credstore

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	store.SetServer("https://portal.example.com")
	return store
}

func TestRecentVisitsNewestFirst(t *testing.T) {
	store := openTestStore(t)

	paths := []string{"/directories", "/directories/1/users", "/settings"}
	for _, path := range paths {
		if err := store.RecordVisit(path, "alice"); err != nil {
			t.Fatalf("failed to record visit: %v", err)
		}
	}

	visits, err := store.RecentVisits(10)
	if err != nil {
		t.Fatalf("failed to load visits: %v", err)
	}

	if len(visits) != len(paths) {
		t.Fatalf("visits = %d, want %d", len(visits), len(paths))
	}
	for _, visit := range visits {
		if visit.Username != "alice" {
			t.Errorf("username = %q, want %q", visit.Username, "alice")
		}
	}
}

func TestRecentVisitsHonorsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		if err := store.RecordVisit("/directories", "alice"); err != nil {
			t.Fatalf("failed to record visit: %v", err)
		}
	}

	visits, err := store.RecentVisits(2)
	if err != nil {
		t.Fatalf("failed to load visits: %v", err)
	}
	if len(visits) != 2 {
		t.Errorf("visits = %d, want 2", len(visits))
	}
}

func TestVisitsAreScopedToServer(t *testing.T) {
	store := openTestStore(t)

	if err := store.RecordVisit("/directories", "alice"); err != nil {
		t.Fatalf("failed to record visit: %v", err)
	}

	store.SetServer("https://other.example.com")
	visits, err := store.RecentVisits(10)
	if err != nil {
		t.Fatalf("failed to load visits: %v", err)
	}
	if len(visits) != 0 {
		t.Errorf("visits = %d, want 0 for a different server", len(visits))
	}
}

func TestSelectedServerRoundTrip(t *testing.T) {
	store := openTestStore(t)

	alias, err := store.SelectedServer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alias != "" {
		t.Errorf("alias = %q, want empty before any selection", alias)
	}

	if err := store.SetSelectedServer("staging"); err != nil {
		t.Fatalf("failed to set selection: %v", err)
	}
	if err := store.SetSelectedServer("production"); err != nil {
		t.Fatalf("failed to replace selection: %v", err)
	}

	alias, err = store.SelectedServer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alias != "production" {
		t.Errorf("alias = %q, want %q", alias, "production")
	}
}
