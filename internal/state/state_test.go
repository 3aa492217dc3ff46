package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.json")

	store, err := NewFlagStore(path)
	require.NoError(t, err)
	assert.False(t, store.TutorialCompleted())

	require.NoError(t, store.SetTutorialCompleted())
	require.NoError(t, store.MarkNotificationRead("n1"))

	reopened, err := NewFlagStore(path)
	require.NoError(t, err)
	assert.True(t, reopened.TutorialCompleted())
	assert.True(t, reopened.IsNotificationRead("n1"))
	assert.False(t, reopened.IsNotificationRead("n2"))
}

func TestFlagStoreMarkReadIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.json")
	store, err := NewFlagStore(path)
	require.NoError(t, err)

	require.NoError(t, store.MarkNotificationRead("n1"))
	require.NoError(t, store.MarkNotificationRead("n1"))

	reopened, err := NewFlagStore(path)
	require.NoError(t, err)
	assert.Len(t, reopened.flags.ReadNotifications, 1)
}

func TestFlagStoreToleratesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store, err := NewFlagStore(path)
	require.NoError(t, err)
	assert.False(t, store.TutorialCompleted())
}

func TestFlagStoreRequiresPath(t *testing.T) {
	_, err := NewFlagStore("")
	assert.Error(t, err)
}
