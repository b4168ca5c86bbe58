// ABOUTME: Vault store for credential items with encrypted local write-through
// ABOUTME: Secrets never touch the plaintext snapshot cache; offline reads come from the KV cache
package store

import (
	"context"
	"log"
	"sync"

	"salespad/activity"
	"salespad/api"
	"salespad/models"
)

// ItemCache is the encrypted device-local copy of the vault. The charm KV
// wrapper implements it; tests substitute an in-memory map.
type ItemCache interface {
	PutItem(item models.VaultItem) error
	DeleteItem(id string) error
	ListItems() ([]models.VaultItem, error)
}

// VaultStore caches credential items. Unlike the other stores it never
// writes to the SQLite snapshot cache: fallback reads come from the
// encrypted KV cache instead.
type VaultStore struct {
	mu   sync.RWMutex
	api  *api.Client
	opts Options
	kv   ItemCache

	items  []models.VaultItem
	status Status
}

func NewVaultStore(client *api.Client, kv ItemCache, opts Options) *VaultStore {
	return &VaultStore{api: client, kv: kv, opts: opts}
}

func (s *VaultStore) FetchItems(ctx context.Context) error {
	s.mu.Lock()
	s.status = Status{Loading: true}
	s.mu.Unlock()

	raw, err := s.api.Get(ctx, "/vault/items")
	var items []models.VaultItem
	if err == nil {
		items, err = api.DecodeList[models.VaultItem](raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status = Status{Error: err.Error()}
		if s.kv != nil {
			cached, kvErr := s.kv.ListItems()
			if kvErr != nil {
				log.Printf("warning: failed to read vault cache: %v", kvErr)
			} else if len(cached) > 0 {
				s.items = cached
			}
		}
		return err
	}

	s.items = items
	s.status = Status{}
	s.mirror(items)
	return nil
}

func (s *VaultStore) Items() []models.VaultItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.VaultItem(nil), s.items...)
}

func (s *VaultStore) ItemsStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Item returns the item with the given identifier, or nil.
func (s *VaultStore) Item(id string) *models.VaultItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.items, id, vaultItemID); i >= 0 {
		item := s.items[i]
		return &item
	}
	return nil
}

// CreateItem posts a new credential and appends the server-returned record,
// writing it through to the encrypted cache.
func (s *VaultStore) CreateItem(ctx context.Context, item models.VaultItem) (models.VaultItem, error) {
	raw, err := s.api.Post(ctx, "/vault/items", item)
	if err != nil {
		return models.VaultItem{}, err
	}
	created, err := api.DecodeItem[models.VaultItem](raw)
	if err != nil {
		return models.VaultItem{}, err
	}

	s.mu.Lock()
	if i := indexOf(s.items, created.ID, vaultItemID); i >= 0 {
		s.items[i] = created
	} else {
		s.items = append(s.items, created)
	}
	s.mu.Unlock()

	s.writeThrough(created)
	s.opts.Recorder.Record(activity.VerbCreated, "vault_item", created.ID, created.Name)
	return created, nil
}

func (s *VaultStore) UpdateItem(ctx context.Context, id string, patch models.VaultItem) (models.VaultItem, error) {
	raw, err := s.api.Put(ctx, "/vault/items/"+id, patch)
	if err != nil {
		return models.VaultItem{}, err
	}
	updated, err := api.DecodeItem[models.VaultItem](raw)
	if err != nil {
		return models.VaultItem{}, err
	}

	s.mu.Lock()
	if i := indexOf(s.items, id, vaultItemID); i >= 0 {
		s.items[i] = updated
	}
	s.mu.Unlock()

	s.writeThrough(updated)
	s.opts.Recorder.Record(activity.VerbUpdated, "vault_item", updated.ID, updated.Name)
	return updated, nil
}

func (s *VaultStore) DeleteItem(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/vault/items/"+id); err != nil {
		return err
	}

	s.mu.Lock()
	if i := indexOf(s.items, id, vaultItemID); i >= 0 {
		s.items = removeAt(s.items, i)
	}
	s.mu.Unlock()

	if s.kv != nil {
		if err := s.kv.DeleteItem(id); err != nil {
			log.Printf("warning: failed to remove cached vault item: %v", err)
		}
	}
	s.opts.Recorder.Record(activity.VerbDeleted, "vault_item", id, "")
	return nil
}

// mirror replaces the encrypted cache contents with the fetched collection.
// Cached items absent from the fetch are evicted so credentials deleted on
// another device do not resurface in the offline fallback.
func (s *VaultStore) mirror(items []models.VaultItem) {
	if s.kv == nil {
		return
	}
	fetched := make(map[string]bool, len(items))
	for _, item := range items {
		fetched[item.ID] = true
		if err := s.kv.PutItem(item); err != nil {
			log.Printf("warning: failed to cache vault item %s: %v", item.ID, err)
			return
		}
	}

	cached, err := s.kv.ListItems()
	if err != nil {
		log.Printf("warning: failed to list vault cache: %v", err)
		return
	}
	for _, item := range cached {
		if fetched[item.ID] {
			continue
		}
		if err := s.kv.DeleteItem(item.ID); err != nil {
			log.Printf("warning: failed to evict stale vault item %s: %v", item.ID, err)
		}
	}
}

func (s *VaultStore) writeThrough(item models.VaultItem) {
	if s.kv == nil {
		return
	}
	if err := s.kv.PutItem(item); err != nil {
		log.Printf("warning: failed to cache vault item %s: %v", item.ID, err)
	}
}

func vaultItemID(v models.VaultItem) string { return v.ID }
