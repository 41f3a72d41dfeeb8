package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"github.com/hongminglow/ets-hub/internal/storage"
)

// TestStoreIntegration exercises the store against a live database.
func TestStoreIntegration(t *testing.T) {
	if os.Getenv("RUN_STORAGE_INTEGRATION") != "true" {
		t.Skip("set RUN_STORAGE_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	store, err := NewStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	defer store.Close()

	key := fmt.Sprintf("ets_user:itest_%d", time.Now().UnixNano())
	payload := []byte(`{"id":"itest","role":"client"}`)

	if err := store.Set(ctx, key, payload); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("get mismatch: got %s", got)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, key); err != storage.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func loadDotEnv() {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
