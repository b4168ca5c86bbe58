// ABOUTME: Tests for the vault store
// ABOUTME: Covers encrypted-cache write-through and offline fallback reads
package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"salespad/api"
	"salespad/models"
)

// memItemCache is an in-memory stand-in for the encrypted KV cache.
type memItemCache struct {
	items map[string]models.VaultItem
}

func newMemItemCache() *memItemCache {
	return &memItemCache{items: make(map[string]models.VaultItem)}
}

func (m *memItemCache) PutItem(item models.VaultItem) error {
	m.items[item.ID] = item
	return nil
}

func (m *memItemCache) DeleteItem(id string) error {
	delete(m.items, id)
	return nil
}

func (m *memItemCache) ListItems() ([]models.VaultItem, error) {
	out := make([]models.VaultItem, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func TestVaultFetchMirrorsToCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"vi1","name":"CRM Admin","username":"admin"},{"id":"vi2","name":"SIP Trunk"}]}`))
	}))
	defer server.Close()

	kv := newMemItemCache()
	store := NewVaultStore(api.NewClient(server.URL, "", nil), kv, Options{})

	if err := store.FetchItems(context.Background()); err != nil {
		t.Fatalf("FetchItems failed: %v", err)
	}
	if len(store.Items()) != 2 {
		t.Fatalf("expected 2 items, got %d", len(store.Items()))
	}
	if len(kv.items) != 2 {
		t.Errorf("fetched items should mirror into the KV cache, got %d", len(kv.items))
	}
}

func TestVaultFetchEvictsStaleCacheEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"vi1","name":"CRM Admin"}]}`))
	}))
	defer server.Close()

	kv := newMemItemCache()
	kv.PutItem(models.VaultItem{ID: "vi9", Name: "Retired Key", Secret: "old"})

	store := NewVaultStore(api.NewClient(server.URL, "", nil), kv, Options{})
	if err := store.FetchItems(context.Background()); err != nil {
		t.Fatalf("FetchItems failed: %v", err)
	}

	if _, ok := kv.items["vi9"]; ok {
		t.Error("item deleted on the server should be evicted from the KV cache")
	}
	if _, ok := kv.items["vi1"]; !ok {
		t.Error("fetched item should remain in the KV cache")
	}
}

func TestVaultOfflineFallsBackToCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	kv := newMemItemCache()
	kv.PutItem(models.VaultItem{ID: "vi1", Name: "CRM Admin", Secret: "hunter2"})

	store := NewVaultStore(api.NewClient(server.URL, "", nil), kv, Options{})
	if err := store.FetchItems(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}

	items := store.Items()
	if len(items) != 1 || items[0].ID != "vi1" {
		t.Errorf("expected cached item fallback, got %+v", items)
	}
	if status := store.ItemsStatus(); status.Loading || status.Error == "" {
		t.Errorf("expected recorded error with loading cleared, got %+v", status)
	}
}

func TestVaultCreateWritesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"id":"vi3","name":"Dialer API Key","secret":"sk-123"}}`))
	}))
	defer server.Close()

	kv := newMemItemCache()
	store := NewVaultStore(api.NewClient(server.URL, "", nil), kv, Options{})

	created, err := store.CreateItem(context.Background(), models.VaultItem{Name: "Dialer API Key"})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if created.ID != "vi3" {
		t.Errorf("expected server id, got %q", created.ID)
	}

	if _, ok := kv.items["vi3"]; !ok {
		t.Error("created item should be written through to the KV cache")
	}
	if item := store.Item("vi3"); item == nil || item.Secret != "sk-123" {
		t.Errorf("Item lookup failed: %+v", item)
	}
}

func TestVaultDeleteRemovesEverywhere(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[{"id":"vi1","name":"CRM Admin"}]`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	kv := newMemItemCache()
	store := NewVaultStore(api.NewClient(server.URL, "", nil), kv, Options{})

	ctx := context.Background()
	if err := store.FetchItems(ctx); err != nil {
		t.Fatalf("FetchItems failed: %v", err)
	}
	if err := store.DeleteItem(ctx, "vi1"); err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}

	if len(store.Items()) != 0 {
		t.Error("item should leave the collection")
	}
	if _, ok := kv.items["vi1"]; ok {
		t.Error("item should leave the KV cache")
	}
	if store.Item("vi1") != nil {
		t.Error("Item lookup should return nil after delete")
	}
}
