// ABOUTME: Tests for the charm KV vault-item helpers
// ABOUTME: Exercises the vault/ key prefix round-trip against an isolated BadgerDB
package charm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespad/models"
)

func TestVaultItemRoundTrip(t *testing.T) {
	c, cleanup := NewTestClient(t)
	defer cleanup()

	item := models.VaultItem{
		ID:       "vi1",
		Name:     "CRM Admin",
		Username: "admin",
		Secret:   "hunter2",
	}
	require.NoError(t, c.PutItem(item))

	items, err := c.ListItems()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "CRM Admin", items[0].Name)
	assert.Equal(t, "hunter2", items[0].Secret)
}

func TestVaultItemsSortedByID(t *testing.T) {
	c, cleanup := NewTestClient(t)
	defer cleanup()

	for _, id := range []string{"vi3", "vi1", "vi2"} {
		require.NoError(t, c.PutItem(models.VaultItem{ID: id, Name: "item " + id}))
	}

	items, err := c.ListItems()
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"vi1", "vi2", "vi3"}, []string{items[0].ID, items[1].ID, items[2].ID})
}

func TestVaultItemDelete(t *testing.T) {
	c, cleanup := NewTestClient(t)
	defer cleanup()

	require.NoError(t, c.PutItem(models.VaultItem{ID: "vi1", Name: "CRM Admin"}))
	require.NoError(t, c.DeleteItem("vi1"))

	items, err := c.ListItems()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestVaultItemRejectsEmptyID(t *testing.T) {
	c, cleanup := NewTestClient(t)
	defer cleanup()

	err := c.PutItem(models.VaultItem{Name: "nameless"})
	assert.Error(t, err)
}

func TestVaultPrefixIsolatesOtherKeys(t *testing.T) {
	c, cleanup := NewTestClient(t)
	defer cleanup()

	require.NoError(t, c.Set([]byte("device-id"), []byte("01J0000000000000000000000")))
	require.NoError(t, c.PutItem(models.VaultItem{ID: "vi1", Name: "CRM Admin"}))

	items, err := c.ListItems()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "vi1", items[0].ID)
}
