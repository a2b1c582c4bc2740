package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/migrations"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add users table", "add_users_table"},
		{"Add-Users-Table", "add_users_table"},
		{"add__orders__index", "add_orders_index"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading and trailing_", "leading_and_trailing"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_NumbersSequentially(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "create wishlists", "saved products per user")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_create_wishlists.up.sql"), first.UpPath)

	second, err := CreateMigration(dir, "Add wishlist index", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)
	assert.FileExists(t, second.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: create_wishlists")
	assert.Contains(t, string(up), "saved products per user")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.ErrorContains(t, err, "no usable characters")
}

func TestListMigrations_MissingDir(t *testing.T) {
	files, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "absent")))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestListMigrations_Embedded(t *testing.T) {
	files, err := ListMigrations(migrations.FS)
	require.NoError(t, err)

	require.Len(t, files, 4)
	names := make([]string, 0, len(files))
	for i, f := range files {
		assert.Equal(t, uint(i+1), f.Version, "versions have no gaps")
		names = append(names, f.Name)
		_, err := migrations.FS.Open(f.DownPath)
		assert.NoError(t, err, "every up migration has a down migration")
	}
	assert.Equal(t, []string{"create_users", "create_products", "create_orders", "create_outbox_events"}, names)
}
