package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/timednotes/pkg/adapters/fs"
	"github.com/aretw0/timednotes/pkg/core"
	"github.com/aretw0/timednotes/pkg/git"
)

func TestSave_Versioning(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	client := git.NewClient(dir, nil)
	_, err := client.Run("init")
	require.NoError(t, err)
	_, err = client.Run("config", "user.email", "test@example.com")
	require.NoError(t, err)
	_, err = client.Run("config", "user.name", "Test")
	require.NoError(t, err)

	var reported []error
	repo := fs.NewRepository(fs.Config{
		Path:         filepath.Join(dir, fs.DefaultFileName),
		Versioning:   true,
		ErrorHandler: func(err error) { reported = append(reported, err) },
	})

	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, []core.Note{{Text: "one", Timestamp: at("2024-01-01 00:00:00")}}))
	require.NoError(t, repo.Save(ctx, []core.Note{{Text: "two", Timestamp: at("2024-01-01 00:00:00")}}))
	assert.Empty(t, reported)

	log, err := client.Run("log", "--format=%s")
	require.NoError(t, err)
	assert.Equal(t, []string{"chore(notes): save 1 notes", "chore(notes): save 1 notes"}, strings.Split(log, "\n"))

	dirty, err := repo.Uncommitted()
	require.NoError(t, err)
	assert.False(t, dirty)

	path := filepath.Join(dir, fs.DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("text,timestamp,completed\n"), 0644))
	dirty, err = repo.Uncommitted()
	require.NoError(t, err)
	assert.True(t, dirty, "an external edit must show as uncommitted")
}

func TestSave_VersioningOutsideRepoIsNoop(t *testing.T) {
	var reported []error
	repo := fs.NewRepository(fs.Config{
		Path:         filepath.Join(t.TempDir(), fs.DefaultFileName),
		Versioning:   true,
		ErrorHandler: func(err error) { reported = append(reported, err) },
	})

	require.NoError(t, repo.Save(context.Background(), nil))
	assert.Empty(t, reported)

	dirty, err := repo.Uncommitted()
	require.NoError(t, err)
	assert.False(t, dirty)
}
