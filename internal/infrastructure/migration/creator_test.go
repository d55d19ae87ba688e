package migration

import (
	"os"
	"testing"

	"github.com/masala/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add allocations table", "add_allocations_table"},
		{"Add-Stock-Batches", "add_stock_batches"},
		{"add__batch__index", "add_batch_index"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "create orders")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.FileExists(t, first.UpPath)
	assert.FileExists(t, first.DownPath)

	second, err := CreateMigration(dir, "add batch index")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)
	assert.Contains(t, second.UpPath, "000002_add_batch_index.up.sql")

	entries, err := ListMigrations(os.DirFS(dir))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "create_orders", entries[0].Name)
	assert.Equal(t, "add_batch_index", entries[1].Name)

	_, err = CreateMigration(dir, "!!!")
	assert.Error(t, err)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for i, e := range entries {
		assert.Equal(t, uint(i+1), e.Version, "versions are contiguous")
		assert.True(t, e.HasUp, "%s has an up file", e.Name)
		assert.True(t, e.HasDown, "%s has a down file", e.Name)
	}
}
