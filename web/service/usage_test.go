package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxvault/voxvault/database/model"
	"github.com/voxvault/voxvault/util/common"
)

func TestGetOrCreate(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	s := NewUsageService(db)

	first, err := s.GetOrCreate(owner.Id)
	require.NoError(t, err)
	assert.Zero(t, first.TotalCharacters)
	assert.Zero(t, first.FilesGenerated)

	second, err := s.GetOrCreate(owner.Id)
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)

	var count int64
	require.NoError(t, db.Model(model.UsageStats{}).Where("user_id = ?", owner.Id).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err = s.GetOrCreate(0)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestGetOrCreateRace(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	s := NewUsageService(db)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.GetOrCreate(owner.Id)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(model.UsageStats{}).Where("user_id = ?", owner.Id).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateStatsAccumulates(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	s := NewUsageService(db)

	require.NoError(t, s.UpdateStats(owner.Id, 100, 0.0015))
	require.NoError(t, s.UpdateStats(owner.Id, 100, 0.0015))

	view, err := s.GetAllTimeUsage(owner.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(200), view.TotalCharacters)
	assert.InDelta(t, 0.003, view.TotalCost, 1e-9)
	assert.Equal(t, int64(2), view.FilesGenerated)

	month := MonthKey(time.Now())
	bucket, ok := view.Monthly[month]
	require.True(t, ok)
	assert.Equal(t, int64(200), bucket.Characters)
	assert.InDelta(t, 0.003, bucket.Cost, 1e-9)
	assert.Equal(t, int64(2), bucket.Files)

	assert.ErrorIs(t, s.UpdateStats(0, 1, 0), common.ErrValidation)
	assert.ErrorIs(t, s.UpdateStats(owner.Id, -1, 0), common.ErrValidation)
}

func TestUpdateStatsConcurrent(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	s := NewUsageService(db)

	const workers = 50
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.UpdateStats(owner.Id, 10, 0.0001)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	view, err := s.GetAllTimeUsage(owner.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(500), view.TotalCharacters)
	assert.Equal(t, int64(workers), view.FilesGenerated)
	assert.InDelta(t, 0.005, view.TotalCost, 1e-9)

	// monthly buckets always move together with the totals
	var monthlySum int64
	for _, bucket := range view.Monthly {
		monthlySum += bucket.Characters
	}
	assert.Equal(t, view.TotalCharacters, monthlySum)
}

func TestGetAllTimeUsageWithoutActivity(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	s := NewUsageService(db)

	view, err := s.GetAllTimeUsage(owner.Id)
	require.NoError(t, err)
	assert.Zero(t, view.TotalCharacters)
	assert.Zero(t, view.FilesGenerated)
	assert.Empty(t, view.Monthly)
}
