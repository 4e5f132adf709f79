package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "credverify/pkg/domain"
)

const seedJSON = `[
  {
    "id": "6f1c2d9e-8d35-4c1f-9a77-0f1f3f1f7a01",
    "name": "Northfield University",
    "fee": 15,
    "process": "auto",
    "connection": "api",
    "webhook_secret": "nf-hook",
    "api": {"endpoint": "https://api.northfield.example/verify", "auth_method": "api_key", "key": "k", "timeout_ms": 5000}
  },
  {
    "id": "0b8e7c44-3a2b-4e55-8f0e-2d7b8c9e1a02",
    "name": "Old Mill Polytechnic",
    "fee": 0,
    "process": "manual",
    "active": false
  }
]`

func TestSeedFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "institutions.json")
	require.NoError(t, os.WriteFile(path, []byte(seedJSON), 0o600))

	mem := NewInMemory()
	n, err := SeedFromFile(context.Background(), path, mem)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	instID, err := id.ParseInstitutionID("6f1c2d9e-8d35-4c1f-9a77-0f1f3f1f7a01")
	require.NoError(t, err)
	inst, err := mem.FindByID(context.Background(), instID)
	require.NoError(t, err)
	assert.True(t, inst.Active)
	assert.True(t, inst.HasAPICredentials())
	assert.True(t, inst.VerifyWebhookSecret("nf-hook"))

	list, err := mem.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Old Mill Polytechnic", list[1].Name)
	assert.False(t, list[1].Active)
}

func TestSeedFromFile_EmptyPathIsNoop(t *testing.T) {
	n, err := SeedFromFile(context.Background(), "", NewInMemory())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSeedFromFile_InvalidRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"6f1c2d9e-8d35-4c1f-9a77-0f1f3f1f7a01","name":"","process":"auto"}]`), 0o600))

	_, err := SeedFromFile(context.Background(), path, NewInMemory())
	assert.Error(t, err)
}
