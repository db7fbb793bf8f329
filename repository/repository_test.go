package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/amirphl/tallybook/config"
	"github.com/amirphl/tallybook/models"
	"github.com/amirphl/tallybook/repository"
	testingutil "github.com/amirphl/tallybook/testing"
	"github.com/amirphl/tallybook/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		ctx := testingutil.CreateTestContext()
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewCounterRepository(testDB.DB)

		t.Run("ByIDMissingReturnsNil", func(t *testing.T) {
			counter, err := repo.ByID(ctx, uuid.New())
			require.NoError(t, err)
			assert.Nil(t, counter)
		})

		t.Run("AddThenByID", func(t *testing.T) {
			now := utils.UTCNow().Truncate(time.Millisecond)
			counter := &models.Counter{
				ID:         uuid.New(),
				Name:       "Coffee",
				Color:      "#C6DEF1",
				StartValue: decimal.RequireFromString("2.5"),
				StepValue:  decimal.NewFromInt(1),
				OrderIndex: 3,
				State:      models.LifecycleStateActive,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			require.NoError(t, repo.Add(ctx, counter))

			stored, err := repo.ByID(ctx, counter.ID)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, "Coffee", stored.Name)
			assert.Equal(t, "#C6DEF1", stored.Color)
			assert.Equal(t, "2.5", stored.StartValue.String())
			assert.True(t, stored.StepValue.Equal(decimal.NewFromInt(1)))
			assert.Equal(t, int64(3), stored.OrderIndex)
			assert.Equal(t, models.LifecycleStateActive, stored.State)
			assert.True(t, stored.CreatedAt.Equal(now))
		})

		t.Run("AddDuplicateKey", func(t *testing.T) {
			counter, err := fixtures.CreateTestCounter("Original")
			require.NoError(t, err)

			clone := *counter
			clone.Name = "Impostor"
			err = repo.Add(ctx, &clone)
			assert.ErrorIs(t, err, repository.ErrDuplicateKey)

			stored, err := repo.ByID(ctx, counter.ID)
			require.NoError(t, err)
			assert.Equal(t, "Original", stored.Name)
		})

		t.Run("PutInsertsAndReplaces", func(t *testing.T) {
			now := utils.UTCNow()
			counter := &models.Counter{
				ID:         uuid.New(),
				Name:       "Water",
				Color:      models.DefaultColor,
				StartValue: decimal.NewFromInt(5),
				StepValue:  decimal.NewFromInt(2),
				State:      models.LifecycleStateActive,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			require.NoError(t, repo.Put(ctx, counter))

			counter.Name = "Sparkling water"
			counter.State = models.LifecycleStateArchived
			require.NoError(t, repo.Put(ctx, counter))

			stored, err := repo.ByID(ctx, counter.ID)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, "Sparkling water", stored.Name)
			assert.Equal(t, models.LifecycleStateArchived, stored.State)
			assert.True(t, stored.StartValue.Equal(decimal.NewFromInt(5)))

			count, err := repo.Count(ctx, models.CounterFilter{ID: &counter.ID})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		t.Run("PutStoresTimestampsAsGiven", func(t *testing.T) {
			created := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
			counter := &models.Counter{
				ID:         uuid.New(),
				Name:       "Steps",
				Color:      models.DefaultColor,
				StartValue: decimal.Zero,
				StepValue:  decimal.NewFromInt(1),
				State:      models.LifecycleStateActive,
				CreatedAt:  created,
				UpdatedAt:  created,
			}
			require.NoError(t, repo.Put(ctx, counter))

			updated := created.Add(time.Hour)
			counter.OrderIndex = 7
			counter.UpdatedAt = updated
			require.NoError(t, repo.Put(ctx, counter))

			stored, err := repo.ByID(ctx, counter.ID)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, int64(7), stored.OrderIndex)
			assert.True(t, stored.CreatedAt.Equal(created), "created_at %s", stored.CreatedAt)
			assert.True(t, stored.UpdatedAt.Equal(updated), "updated_at %s", stored.UpdatedAt)
		})

		t.Run("DecimalsKeepFullPrecision", func(t *testing.T) {
			step := decimal.RequireFromString("0.10000000000000000001")
			start := decimal.RequireFromString("12345678901234567890.5")
			counter, err := fixtures.CreateTestCounter("Precise", func(c *models.Counter) {
				c.StartValue = start
				c.StepValue = step
			})
			require.NoError(t, err)

			stored, err := repo.ByID(ctx, counter.ID)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, step.String(), stored.StepValue.String())
			assert.Equal(t, start.String(), stored.StartValue.String())
		})

		t.Run("ByFilterAndAllIncludeDeleted", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			_, err := fixtures.CreateTestCounter("live")
			require.NoError(t, err)
			_, err = fixtures.CreateTestCounter("gone", testingutil.WithState(models.LifecycleStateDeleted))
			require.NoError(t, err)

			all, err := repo.All(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 2)

			deleted := models.LifecycleStateDeleted
			live, err := repo.ByFilter(ctx, models.CounterFilter{ExcludeState: &deleted}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, live, 1)
			assert.Equal(t, "live", live[0].Name)
		})

		t.Run("MaxOrderIndex", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			maxIndex, err := repo.MaxOrderIndex(ctx)
			require.NoError(t, err)
			assert.Nil(t, maxIndex)

			_, err = fixtures.CreateTestCounter("a", testingutil.WithOrderIndex(4))
			require.NoError(t, err)
			_, err = fixtures.CreateTestCounter("b", testingutil.WithOrderIndex(9), testingutil.WithState(models.LifecycleStateArchived))
			require.NoError(t, err)
			_, err = fixtures.CreateTestCounter("c", testingutil.WithOrderIndex(50), testingutil.WithState(models.LifecycleStateDeleted))
			require.NoError(t, err)

			maxIndex, err = repo.MaxOrderIndex(ctx)
			require.NoError(t, err)
			require.NotNil(t, maxIndex)
			assert.Equal(t, int64(9), *maxIndex)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestEventRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		ctx := testingutil.CreateTestContext()
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewEventRepository(testDB.DB)

		counter, err := fixtures.CreateTestCounter("Coffee")
		require.NoError(t, err)
		other, err := fixtures.CreateTestCounter("Tea")
		require.NoError(t, err)

		base := time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)

		t.Run("AddFillsDate", func(t *testing.T) {
			loc := time.FixedZone("UTC-5", -5*60*60)
			event := &models.Event{
				ID:        uuid.New(),
				CounterID: counter.ID,
				Timestamp: time.Date(2026, time.October, 13, 21, 30, 0, 0, loc),
				Delta:     decimal.NewFromInt(1),
			}
			require.NoError(t, repo.Add(ctx, event))
			assert.Equal(t, "2026-10-14", event.Date)

			stored, err := repo.ByID(ctx, event.ID)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, "2026-10-14", stored.Date)
			assert.True(t, stored.Timestamp.Equal(event.Timestamp))
		})

		t.Run("DeltaKeepsFullPrecision", func(t *testing.T) {
			delta := decimal.RequireFromString("-0.10000000000000000001")
			event := &models.Event{
				ID:        uuid.New(),
				CounterID: counter.ID,
				Timestamp: time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC),
				Delta:     delta,
			}
			require.NoError(t, repo.Add(ctx, event))

			stored, err := repo.ByID(ctx, event.ID)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, delta.String(), stored.Delta.String())
		})

		t.Run("AddDuplicateKey", func(t *testing.T) {
			event, err := fixtures.CreateTestEvent(counter.ID, base, 1)
			require.NoError(t, err)

			dup := *event
			dup.Delta = decimal.NewFromInt(100)
			assert.ErrorIs(t, repo.Add(ctx, &dup), repository.ErrDuplicateKey)
		})

		t.Run("ByCounterIDNewestFirst", func(t *testing.T) {
			require.NoError(t, testDB.DB.Exec("DELETE FROM events").Error)
			first, err := fixtures.CreateTestEvent(counter.ID, base, 1)
			require.NoError(t, err)
			second, err := fixtures.CreateTestEvent(counter.ID, base.Add(time.Minute), -1)
			require.NoError(t, err)
			_, err = fixtures.CreateTestEvent(other.ID, base.Add(2*time.Minute), 1)
			require.NoError(t, err)

			events, err := repo.ByCounterID(ctx, counter.ID)
			require.NoError(t, err)
			require.Len(t, events, 2)
			assert.Equal(t, second.ID, events[0].ID)
			assert.Equal(t, first.ID, events[1].ID)
			assert.Equal(t, "-1", events[0].Delta.String())
		})

		t.Run("AllInTimestampOrder", func(t *testing.T) {
			require.NoError(t, testDB.DB.Exec("DELETE FROM events").Error)
			late, err := fixtures.CreateTestEvent(counter.ID, base.Add(time.Hour), 1)
			require.NoError(t, err)
			early, err := fixtures.CreateTestEvent(other.ID, base, 1)
			require.NoError(t, err)

			events, err := repo.All(ctx)
			require.NoError(t, err)
			require.Len(t, events, 2)
			assert.Equal(t, early.ID, events[0].ID)
			assert.Equal(t, late.ID, events[1].ID)
		})

		t.Run("FilterByTimestampAndDate", func(t *testing.T) {
			require.NoError(t, testDB.DB.Exec("DELETE FROM events").Error)
			_, err := fixtures.CreateTestEvent(counter.ID, base.Add(-24*time.Hour), 1)
			require.NoError(t, err)
			_, err = fixtures.CreateTestEvent(counter.ID, base, 1)
			require.NoError(t, err)
			_, err = fixtures.CreateTestEvent(counter.ID, base.Add(30*time.Minute), 1)
			require.NoError(t, err)

			from := base
			count, err := repo.Count(ctx, models.EventFilter{CounterID: &counter.ID, TimestampFrom: &from})
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)

			day := "2026-10-13"
			events, err := repo.ByFilter(ctx, models.EventFilter{Date: &day}, "", 0, 0)
			require.NoError(t, err)
			assert.Len(t, events, 1)
		})

		return nil
	})
	require.NoError(t, err)
}

// Read-modify-put has no optimistic concurrency: the second writer silently wins.
func TestCounterRepositoryLostUpdate(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		ctx := testingutil.CreateTestContext()
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewCounterRepository(testDB.DB)

		counter, err := fixtures.CreateTestCounter("Shared")
		require.NoError(t, err)

		renamer, err := repo.ByID(ctx, counter.ID)
		require.NoError(t, err)
		archiver, err := repo.ByID(ctx, counter.ID)
		require.NoError(t, err)

		renamer.Name = "Renamed"
		require.NoError(t, repo.Put(ctx, renamer))

		archiver.State = models.LifecycleStateArchived
		require.NoError(t, repo.Put(ctx, archiver))

		stored, err := repo.ByID(ctx, counter.ID)
		require.NoError(t, err)
		assert.Equal(t, models.LifecycleStateArchived, stored.State)
		assert.Equal(t, "Shared", stored.Name, "the rename was lost")
		return nil
	})
	require.NoError(t, err)
}

func TestOpenDatabase(t *testing.T) {
	ctx := context.Background()

	t.Run("UnsupportedDriver", func(t *testing.T) {
		_, err := repository.OpenDatabase(ctx, config.DatabaseConfig{Driver: "oracle"}, nil)
		assert.ErrorIs(t, err, repository.ErrStorageUnavailable)
	})

	t.Run("UnreachableLocation", func(t *testing.T) {
		_, err := repository.OpenDatabase(ctx, config.DatabaseConfig{
			Driver: "sqlite",
			Path:   t.TempDir() + "/missing/dir/tally.db",
		}, nil)
		assert.ErrorIs(t, err, repository.ErrStorageUnavailable)
	})

	t.Run("MigrationsAreIdempotent", func(t *testing.T) {
		db, err := repository.OpenDatabase(ctx, config.DatabaseConfig{
			Driver: "sqlite",
			Path:   t.TempDir() + "/tally.db",
		}, nil)
		require.NoError(t, err)
		defer repository.CloseDatabase(db)

		require.NoError(t, repository.RunMigrations(ctx, db))
		require.NoError(t, repository.RunMigrations(ctx, db))
		assert.True(t, db.Migrator().HasTable("counters"))
		assert.True(t, db.Migrator().HasTable("events"))
	})
}
