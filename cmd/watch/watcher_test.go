package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRelevantChange(t *testing.T) {
	root := filepath.FromSlash("/app")

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"source write", fsnotify.Event{Name: "/app/src/index.js", Op: fsnotify.Write}, true},
		{"context member created", fsnotify.Event{Name: "/app/src/locales/it.json", Op: fsnotify.Create}, true},
		{"config renamed", fsnotify.Event{Name: "/app/.ctxmap.yaml", Op: fsnotify.Rename}, true},
		{"asset removed", fsnotify.Event{Name: "/app/src/icons/x.svg", Op: fsnotify.Remove}, true},
		{"chmod", fsnotify.Event{Name: "/app/src/index.js", Op: fsnotify.Chmod}, false},
		{"node_modules", fsnotify.Event{Name: "/app/node_modules/react/index.js", Op: fsnotify.Write}, false},
		{"git internals", fsnotify.Event{Name: "/app/.git/index", Op: fsnotify.Write}, false},
		{"editor backup", fsnotify.Event{Name: "/app/src/index.js~", Op: fsnotify.Write}, false},
		{"swap file", fsnotify.Event{Name: "/app/src/.index.js.swp", Op: fsnotify.Create}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.event.Name = filepath.FromSlash(tc.event.Name)
			assert.Equal(t, tc.want, isRelevantChange(root, tc.event))
		})
	}
}

func TestAddWatchDirsWithAdder_SkipsIgnoredDirectories(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"src/locales", "node_modules/react", ".git/objects"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0o755))
	}

	var added []string
	err := addWatchDirsWithAdder(root, func(path string) error {
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		added = append(added, filepath.ToSlash(rel))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{".", "src", "src/locales"}, added)
}

func TestAddWatchDirsWithAdder_IgnoresVanishedDirectories(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "gone")
	require.NoError(t, os.MkdirAll(target, 0o755))

	err := addWatchDirsWithAdder(root, func(path string) error {
		if path == target {
			return fs.ErrNotExist
		}
		return nil
	})

	assert.NoError(t, err)
}
