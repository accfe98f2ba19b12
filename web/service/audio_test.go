package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxvault/voxvault/util/common"
)

func TestCreateDefaultsCategoryAndFilename(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	s := NewAudioService(db)

	id, err := s.Create(CreateAudioParams{
		OwnerId:        owner.Id,
		DisplayName:    "Morning note",
		Voice:          "nova",
		Speed:          1.0,
		TextPreview:    "Good morning",
		CharacterCount: 100,
		Cost:           0.0015,
	})
	require.NoError(t, err)

	record, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, DefaultCategory, record.Category)
	assert.NotEmpty(t, record.Filename)
	assert.False(t, record.Deleted())
	assert.False(t, record.CreatedAt.IsZero())

	_, err = s.Create(CreateAudioParams{DisplayName: "no owner"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestSoftDeleteAndRestore(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	s := NewAudioService(db)

	id, err := s.Create(CreateAudioParams{
		OwnerId:        owner.Id,
		DisplayName:    "Keep me",
		Voice:          "echo",
		Speed:          1.25,
		Category:       "Notes",
		TextPreview:    "some text",
		CharacterCount: 42,
		Cost:           0.0006,
	})
	require.NoError(t, err)

	require.NoError(t, s.SoftDelete(id))

	listed, err := s.GetByOwner(owner.Id)
	require.NoError(t, err)
	assert.Empty(t, listed)

	deleted, err := s.Get(id)
	require.NoError(t, err)
	require.True(t, deleted.Deleted())
	firstDeletedAt := *deleted.DeletedAt

	// idempotent: a second delete keeps the original timestamp
	require.NoError(t, s.SoftDelete(id))
	again, err := s.Get(id)
	require.NoError(t, err)
	require.True(t, again.Deleted())
	assert.Equal(t, firstDeletedAt, *again.DeletedAt)

	require.NoError(t, s.Restore(id))
	restored, err := s.Get(id)
	require.NoError(t, err)
	assert.False(t, restored.Deleted())
	assert.Nil(t, restored.DeletedAt)
	assert.Equal(t, "Keep me", restored.DisplayName)
	assert.Equal(t, "Notes", restored.Category)
	assert.Equal(t, "echo", restored.Voice)
	assert.Equal(t, 1.25, restored.Speed)
	assert.Equal(t, int64(42), restored.CharacterCount)

	// idempotent: restoring an Active record is a no-op
	require.NoError(t, s.Restore(id))

	assert.ErrorIs(t, s.SoftDelete(99999), common.ErrNotFound)
	assert.ErrorIs(t, s.Restore(99999), common.ErrNotFound)
}

func TestGetByOwnerOrderAndIsolation(t *testing.T) {
	db := newTestDB(t)
	alice := newTestUser(t, db, "alice")
	bob := newTestUser(t, db, "bob")
	s := NewAudioService(db)

	var ids []int
	for _, name := range []string{"first", "second", "third"} {
		id, err := s.Create(CreateAudioParams{OwnerId: alice.Id, DisplayName: name})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	_, err := s.Create(CreateAudioParams{OwnerId: bob.Id, DisplayName: "not alices"})
	require.NoError(t, err)

	records, err := s.GetByOwner(alice.Id)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "third", records[0].DisplayName)
	assert.Equal(t, "first", records[2].DisplayName)

	require.NoError(t, s.SoftDelete(ids[1]))
	records, err = s.GetByOwner(alice.Id)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.False(t, r.Deleted())
	}
}

func TestSearch(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	s := NewAudioService(db)

	for _, name := range []string{"Test Audio", "Weekly report", "100% done"} {
		_, err := s.Create(CreateAudioParams{OwnerId: owner.Id, DisplayName: name})
		require.NoError(t, err)
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"case-insensitive substring", "test", []string{"Test Audio"}},
		{"uppercase query", "REPORT", []string{"Weekly report"}},
		{"no match", "zzz", nil},
		{"percent is literal", "%", []string{"100% done"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := s.Search(owner.Id, tt.query)
			require.NoError(t, err)
			var names []string
			for _, r := range records {
				names = append(names, r.DisplayName)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestGetGroupsCountsSumToListing(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	s := NewAudioService(db)

	for _, category := range []string{"Notes", "Notes", "Stories", ""} {
		_, err := s.Create(CreateAudioParams{OwnerId: owner.Id, DisplayName: "x", Category: category})
		require.NoError(t, err)
	}

	byGroup, err := s.GetByGroup(owner.Id, "Notes")
	require.NoError(t, err)
	assert.Len(t, byGroup, 2)

	groups, err := s.GetGroups(owner.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), groups["Notes"])
	assert.Equal(t, int64(1), groups["Stories"])
	assert.Equal(t, int64(1), groups[DefaultCategory])

	listed, err := s.GetByOwner(owner.Id)
	require.NoError(t, err)
	var total int64
	for _, count := range groups {
		total += count
	}
	assert.Equal(t, int64(len(listed)), total)
}

func TestUpdateMutableFieldsOnly(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	s := NewAudioService(db)

	id, err := s.Create(CreateAudioParams{OwnerId: owner.Id, DisplayName: "before", Voice: "nova"})
	require.NoError(t, err)

	err = s.Update(id, map[string]string{"voice": "alloy"})
	assert.ErrorIs(t, err, common.ErrValidation)

	err = s.Update(id, map[string]string{"cost": "0"})
	assert.ErrorIs(t, err, common.ErrValidation)

	require.NoError(t, s.Update(id, map[string]string{"display_name": "after", "category": "Stories"}))
	record, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "after", record.DisplayName)
	assert.Equal(t, "Stories", record.Category)
	assert.Equal(t, "nova", record.Voice)

	// clearing the category falls back to the default
	require.NoError(t, s.Update(id, map[string]string{"category": ""}))
	record, err = s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, DefaultCategory, record.Category)

	assert.ErrorIs(t, s.Update(99999, map[string]string{"display_name": "x"}), common.ErrNotFound)
}

func TestGetByFilename(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	s := NewAudioService(db)

	id, err := s.Create(CreateAudioParams{OwnerId: owner.Id, Filename: "speech/greeting.mp3", DisplayName: "Greeting"})
	require.NoError(t, err)

	record, err := s.GetByFilename("speech/greeting.mp3")
	require.NoError(t, err)
	assert.Equal(t, id, record.Id)

	_, err = s.GetByFilename("missing.mp3")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

// End-to-end scenario: create, default category, delete, restore.
func TestArtifactLifecycleScenario(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	s := NewAudioService(db)

	alice, err := users.CreateUser("alice2", "secret1", "")
	require.NoError(t, err)

	id, err := s.Create(CreateAudioParams{
		OwnerId:        alice.Id,
		DisplayName:    "Note to self",
		CharacterCount: 100,
		Cost:           0.0015,
	})
	require.NoError(t, err)

	record, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, DefaultCategory, record.Category)

	require.NoError(t, s.SoftDelete(id))
	listed, err := s.GetByOwner(alice.Id)
	require.NoError(t, err)
	assert.Empty(t, listed)

	require.NoError(t, s.Restore(id))
	listed, err = s.GetByOwner(alice.Id)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Note to self", listed[0].DisplayName)
	assert.Equal(t, int64(100), listed[0].CharacterCount)
	assert.Equal(t, 0.0015, listed[0].Cost)
}
