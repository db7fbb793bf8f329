package businessflow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/amirphl/tallybook/app/dto"
	"github.com/amirphl/tallybook/app/services"
	businessflow "github.com/amirphl/tallybook/business_flow"
	"github.com/amirphl/tallybook/models"
	"github.com/amirphl/tallybook/utils"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPreferenceStore struct{}

func (failingPreferenceStore) Load(context.Context) (map[string]string, error) {
	return nil, errors.New("connection refused")
}

func (failingPreferenceStore) Save(context.Context, map[string]string) error {
	return errors.New("connection refused")
}

func TestPreferenceFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("DefaultsOnFirstVisit", func(t *testing.T) {
		flow := businessflow.NewPreferenceFlow(services.NewMemoryPreferenceStore(), models.DefaultViewState(), nil)

		resp, err := flow.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, dto.ViewStateDTO{Sort: "manual", Period: "day", Visibility: "active"}, resp.View)
		assert.Equal(t, models.DefaultViewState(), flow.Current(ctx))
	})

	t.Run("UpdateIsPartial", func(t *testing.T) {
		flow := businessflow.NewPreferenceFlow(services.NewMemoryPreferenceStore(), models.DefaultViewState(), nil)

		resp, err := flow.Update(ctx, &dto.UpdatePreferencesRequest{
			Sort:    utils.ToPtr("highest"),
			Compact: utils.ToPtr(true),
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "highest", resp.View.Sort)
		assert.True(t, resp.View.Compact)
		assert.Equal(t, "day", resp.View.Period)

		resp, err = flow.Update(ctx, &dto.UpdatePreferencesRequest{Period: utils.ToPtr("W")}, nil)
		require.NoError(t, err)
		assert.Equal(t, "week", resp.View.Period)
		assert.Equal(t, "highest", resp.View.Sort)

		current := flow.Current(ctx)
		assert.Equal(t, models.SortHighest, current.Sort)
		assert.Equal(t, models.PeriodWeek, current.Period)
		assert.True(t, current.Compact)
	})

	t.Run("RejectsUnknownValues", func(t *testing.T) {
		flow := businessflow.NewPreferenceFlow(services.NewMemoryPreferenceStore(), models.DefaultViewState(), nil)

		_, err := flow.Update(ctx, &dto.UpdatePreferencesRequest{Period: utils.ToPtr("decade")}, nil)
		require.Error(t, err)
		assert.True(t, businessflow.IsInvalidInput(err))

		_, err = flow.Update(ctx, &dto.UpdatePreferencesRequest{Sort: utils.ToPtr("random")}, nil)
		assert.True(t, businessflow.IsInvalidInput(err))

		_, err = flow.Update(ctx, &dto.UpdatePreferencesRequest{Visibility: utils.ToPtr("deleted")}, nil)
		assert.True(t, businessflow.IsInvalidInput(err))
	})

	t.Run("CorruptStoredValuesFallBack", func(t *testing.T) {
		store := services.NewMemoryPreferenceStore()
		require.NoError(t, store.Save(ctx, map[string]string{
			services.PreferenceSortMethod:  "alphabetical",
			services.PreferenceTimeframe:   "fortnight",
			services.PreferenceCompactMode: "maybe",
		}))

		defaults := models.ViewState{Sort: models.SortManual, Period: models.PeriodMonth, Visibility: models.VisibilityActive}
		flow := businessflow.NewPreferenceFlow(store, defaults, nil)

		current := flow.Current(ctx)
		assert.Equal(t, models.SortAlphabetical, current.Sort)
		assert.Equal(t, models.PeriodMonth, current.Period)
		assert.False(t, current.Compact)
	})

	t.Run("ResolveViewOverridesWithoutSaving", func(t *testing.T) {
		flow := businessflow.NewPreferenceFlow(services.NewMemoryPreferenceStore(), models.DefaultViewState(), nil)
		_, err := flow.Update(ctx, &dto.UpdatePreferencesRequest{Sort: utils.ToPtr("alphabetical")}, nil)
		require.NoError(t, err)

		view, err := flow.ResolveView(ctx, &dto.BoardQuery{Period: utils.ToPtr("year"), View: utils.ToPtr("archived")})
		require.NoError(t, err)
		assert.Equal(t, models.SortAlphabetical, view.Sort)
		assert.Equal(t, models.PeriodYear, view.Period)
		assert.Equal(t, models.VisibilityArchived, view.Visibility)

		assert.Equal(t, models.PeriodDay, flow.Current(ctx).Period)

		_, err = flow.ResolveView(ctx, &dto.BoardQuery{Sort: utils.ToPtr("loudest")})
		require.Error(t, err)
		assert.True(t, businessflow.IsInvalidInput(err))
	})

	t.Run("StoreFailure", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		flow := businessflow.NewPreferenceFlow(failingPreferenceStore{}, models.DefaultViewState(), logger)

		assert.Equal(t, models.DefaultViewState(), flow.Current(ctx))
		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

		_, err := flow.Get(ctx)
		require.Error(t, err)
		assert.True(t, businessflow.IsPreferencesUnavailable(err))

		_, err = flow.Update(ctx, &dto.UpdatePreferencesRequest{Compact: utils.ToPtr(false)}, nil)
		require.Error(t, err)
		assert.True(t, businessflow.IsPreferencesUnavailable(err))
	})
}
