package core

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illarion/vaultpad/internal/storage"
)

func TestAppNotifications(t *testing.T) {
	app, store, rec := newTestApp(t)
	store.text = []storage.TextRecord{{ID: "t1", Title: "a"}}

	require.NoError(t, app.Unlock(storage.DefaultCredential))
	assert.True(t, rec.has("Vault unlocked"))

	require.NoError(t, app.Reauth(storage.DefaultCredential, SectionText))
	assert.True(t, rec.has("Access granted"))

	_, err := app.SaveText("wifi", "", "hunter2")
	require.NoError(t, err)
	assert.True(t, rec.has("Text saved to Hidden"))

	require.NoError(t, app.DeleteText("t1"))
	assert.Contains(t, rec.messages, "info:Deleted")

	_, err = app.UploadMedia(context.Background(), []QueuedFile{{Path: "/a.jpg", Name: "a.jpg", Type: "image/jpeg"}})
	require.NoError(t, err)
	assert.True(t, rec.has("Uploaded to Hidden Media"))

	require.NoError(t, app.ChangePassword(storage.DefaultCredential, "n3wpass", "n3wpass"))
	assert.True(t, rec.has("Password updated"))
}

func TestAppFailuresDoNotNotifySuccess(t *testing.T) {
	app, _, rec := newTestApp(t)

	require.ErrorIs(t, app.Unlock("nope-nope"), ErrIncorrectCredential)
	require.ErrorIs(t, app.Reauth("nope-nope", SectionMedia), ErrIncorrectCredential)
	assert.Empty(t, rec.messages)
}

func TestUploadMediaReportsFailedFiles(t *testing.T) {
	store := newMemStore()
	rec := &recorder{}
	enc := &fakeEncoder{fail: map[string]bool{"/broken.png": true}}
	app := New(store, WithEncoder(enc), WithNotifier(rec))
	require.NoError(t, app.Unlock(storage.DefaultCredential))

	result, err := app.UploadMedia(context.Background(), []QueuedFile{
		{Path: "/broken.png", Name: "broken.png", Type: "image/png"},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Added)
	assert.Contains(t, rec.messages, "error:Could not add broken.png")
	assert.False(t, rec.has("Uploaded to Hidden Media"))
}

func TestUploadMediaRequiresUnlock(t *testing.T) {
	app, _, _ := newTestApp(t)

	_, err := app.UploadMedia(context.Background(), []QueuedFile{{Path: "/a.jpg", Name: "a.jpg", Type: "image/jpeg"}})
	require.ErrorIs(t, err, ErrLocked)
	assert.Zero(t, app.Media.Queued(), "locked upload must not stage files")
}

func TestChangePasswordRequiresUnlock(t *testing.T) {
	app, store, _ := newTestApp(t)

	err := app.ChangePassword(storage.DefaultCredential, "abcdef", "abcdef")
	require.ErrorIs(t, err, ErrLocked)
	cred, _ := store.GetCredential()
	assert.Equal(t, storage.DefaultCredential, cred)
}

func TestResetAll(t *testing.T) {
	app, store, rec := newTestApp(t)
	store.media = []storage.MediaRecord{{ID: "m1"}}
	store.text = []storage.TextRecord{{ID: "t1"}}

	require.ErrorIs(t, app.ResetAll(), ErrLocked)
	assert.Len(t, store.media, 1)

	require.NoError(t, app.Unlock(storage.DefaultCredential))
	require.NoError(t, app.ChangePassword(storage.DefaultCredential, "changed", "changed"))
	require.NoError(t, app.ResetAll())
	assert.True(t, rec.has("All data wiped"))

	assert.False(t, app.Session().Unlocked())
	assert.Empty(t, store.media)
	assert.Empty(t, store.text)

	require.ErrorIs(t, app.Unlock("changed"), ErrIncorrectCredential)
	require.NoError(t, app.Unlock("Venus!420"))
}

func TestStatusWhileLocked(t *testing.T) {
	app, store, _ := newTestApp(t)
	store.media = []storage.MediaRecord{{ID: "m1"}}
	store.text = []storage.TextRecord{{ID: "t1"}, {ID: "t2"}}

	info, err := app.Status()
	require.NoError(t, err)
	assert.Equal(t, 1, info.MediaCount)
	assert.Equal(t, 2, info.TextCount)
	assert.False(t, info.Unlocked)
	assert.True(t, info.Modified.IsZero(), "memStore has no modification time")
}

func TestAppOverBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.db")

	store, err := storage.Open(path)
	require.NoError(t, err)

	app := New(store, WithEncoder(&fakeEncoder{}))
	require.NoError(t, app.Unlock(storage.DefaultCredential))

	saved, err := app.SaveText("", "https://example.com", "body")
	require.NoError(t, err)
	_, err = app.UploadMedia(context.Background(), []QueuedFile{{Path: "/p.jpg", Name: "p.jpg", Type: "image/jpeg"}})
	require.NoError(t, err)
	require.NoError(t, app.ChangePassword(storage.DefaultCredential, "s3cret", "s3cret"))
	require.NoError(t, store.Close())

	// A second run starts locked and sees the persisted state
	store, err = storage.Open(path)
	require.NoError(t, err)
	defer store.Close()

	app = New(store)
	assert.False(t, app.Session().Unlocked())

	info, err := app.Status()
	require.NoError(t, err)
	assert.Equal(t, 1, info.MediaCount)
	assert.Equal(t, 1, info.TextCount)
	assert.False(t, info.Modified.IsZero())

	require.ErrorIs(t, app.Unlock(storage.DefaultCredential), ErrIncorrectCredential)
	require.NoError(t, app.Unlock("s3cret"))
	require.NoError(t, app.Reauth("s3cret", SectionText))

	got, err := app.ViewText(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Untitled", got.Title)
	assert.Equal(t, "https://example.com", got.Link)

	require.NoError(t, app.ResetAll())
	info, err = app.Status()
	require.NoError(t, err)
	assert.Zero(t, info.MediaCount)
	assert.Zero(t, info.TextCount)
	require.NoError(t, app.Unlock(storage.DefaultCredential))
}
