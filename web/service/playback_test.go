package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxvault/voxvault/util/common"
)

func TestAddPlaybackAndGetRecent(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	audio := NewAudioService(db)
	s := NewPlaybackService(db)

	firstId, err := audio.Create(CreateAudioParams{OwnerId: owner.Id, DisplayName: "First"})
	require.NoError(t, err)
	secondId, err := audio.Create(CreateAudioParams{OwnerId: owner.Id, DisplayName: "Second"})
	require.NoError(t, err)

	// repeated plays each produce their own entry
	for _, id := range []int{firstId, firstId, secondId} {
		_, err := s.AddPlayback(owner.Id, id)
		require.NoError(t, err)
	}

	entries, err := s.GetRecent(owner.Id, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, secondId, entries[0].AudioId)

	limited, err := s.GetRecent(owner.Id, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	_, err = s.AddPlayback(0, firstId)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestPlaybackViewsResolveNames(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	audio := NewAudioService(db)
	s := NewPlaybackService(db)

	id, err := audio.Create(CreateAudioParams{OwnerId: owner.Id, DisplayName: "Bedtime story"})
	require.NoError(t, err)

	_, err = s.AddPlayback(owner.Id, id)
	require.NoError(t, err)
	// history may reference an artifact that no longer exists at all
	_, err = s.AddPlayback(owner.Id, 99999)
	require.NoError(t, err)

	entries, err := s.GetRecent(owner.Id, 10)
	require.NoError(t, err)
	views, err := s.Views(entries)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, DeletedAudioName, views[0].AudioName)
	assert.Equal(t, "Bedtime story", views[1].AudioName)

	// soft-deleting the artifact degrades its name to the placeholder
	require.NoError(t, audio.SoftDelete(id))
	views, err = s.Views(entries)
	require.NoError(t, err)
	assert.Equal(t, DeletedAudioName, views[1].AudioName)
}

func TestClearUserHistory(t *testing.T) {
	db := newTestDB(t)
	alice := newTestUser(t, db, "alice")
	bob := newTestUser(t, db, "bob")
	audio := NewAudioService(db)
	s := NewPlaybackService(db)

	id, err := audio.Create(CreateAudioParams{OwnerId: alice.Id, DisplayName: "Shared"})
	require.NoError(t, err)

	_, err = s.AddPlayback(alice.Id, id)
	require.NoError(t, err)
	_, err = s.AddPlayback(bob.Id, id)
	require.NoError(t, err)

	require.NoError(t, s.ClearUserHistory(alice.Id))

	entries, err := s.GetRecent(alice.Id, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = s.GetRecent(bob.Id, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
