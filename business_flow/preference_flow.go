package businessflow

import (
	"context"
	"strconv"

	"github.com/amirphl/tallybook/app/dto"
	"github.com/amirphl/tallybook/app/services"
	"github.com/amirphl/tallybook/config"
	"github.com/amirphl/tallybook/models"
	"github.com/sirupsen/logrus"
)

// PreferenceFlow reads and writes the persisted board view state
type PreferenceFlow interface {
	Current(ctx context.Context) models.ViewState
	ResolveView(ctx context.Context, query *dto.BoardQuery) (models.ViewState, error)
	Get(ctx context.Context) (*dto.PreferencesResponse, error)
	Update(ctx context.Context, req *dto.UpdatePreferencesRequest, metadata *ClientMetadata) (*dto.PreferencesResponse, error)
}

// PreferenceFlowImpl implements PreferenceFlow
type PreferenceFlowImpl struct {
	store    services.PreferenceStore
	defaults models.ViewState
	logger   *logrus.Logger
}

func NewPreferenceFlow(store services.PreferenceStore, defaults models.ViewState, logger *logrus.Logger) PreferenceFlow {
	return &PreferenceFlowImpl{
		store:    store,
		defaults: defaults.Normalize(models.DefaultViewState()),
		logger:   orDefaultLogger(logger),
	}
}

// Current returns the stored view state; unreadable or invalid values fall back to the defaults
func (f *PreferenceFlowImpl) Current(ctx context.Context) models.ViewState {
	values, err := f.store.Load(ctx)
	if err != nil {
		f.logger.WithError(err).Warn("Preferences unavailable, using defaults")
		return f.defaults
	}
	return decodeViewState(values, f.defaults)
}

// ResolveView applies the query overrides on top of the stored view state; the store is not written
func (f *PreferenceFlowImpl) ResolveView(ctx context.Context, query *dto.BoardQuery) (models.ViewState, error) {
	view := f.Current(ctx)
	if query == nil {
		return view, nil
	}
	if query.Sort != nil {
		m, err := models.ParseSortMethod(*query.Sort)
		if err != nil {
			return view, NewBusinessError("INVALID_SORT_METHOD", err.Error(), ErrInvalidSortMethod)
		}
		view.Sort = m
	}
	if query.Period != nil {
		p, err := models.ParsePeriod(*query.Period)
		if err != nil {
			return view, NewBusinessError("INVALID_PERIOD", err.Error(), ErrInvalidPeriod)
		}
		view.Period = p
	}
	if query.View != nil {
		v, err := models.ParseVisibility(*query.View)
		if err != nil {
			return view, NewBusinessError("INVALID_VISIBILITY", err.Error(), ErrInvalidVisibility)
		}
		view.Visibility = v
	}
	return view, nil
}

func (f *PreferenceFlowImpl) Get(ctx context.Context) (*dto.PreferencesResponse, error) {
	values, err := f.store.Load(ctx)
	if err != nil {
		config.LogError(f.logger, "PreferenceFlow", "Get", "Load", nil, err)
		return nil, NewBusinessError("PREFERENCES_UNAVAILABLE", "Failed to load preferences", ErrPreferencesUnavailable)
	}

	return &dto.PreferencesResponse{
		Message: "Preferences retrieved successfully",
		View:    ToViewStateDTO(decodeViewState(values, f.defaults)),
	}, nil
}

// Update validates and stores the provided fields; absent fields keep their stored value
func (f *PreferenceFlowImpl) Update(ctx context.Context, req *dto.UpdatePreferencesRequest, metadata *ClientMetadata) (*dto.PreferencesResponse, error) {
	values := make(map[string]string, 4)
	if req.Sort != nil {
		m, err := models.ParseSortMethod(*req.Sort)
		if err != nil {
			return nil, NewBusinessError("INVALID_SORT_METHOD", err.Error(), ErrInvalidSortMethod)
		}
		values[services.PreferenceSortMethod] = string(m)
	}
	if req.Period != nil {
		p, err := models.ParsePeriod(*req.Period)
		if err != nil {
			return nil, NewBusinessError("INVALID_PERIOD", err.Error(), ErrInvalidPeriod)
		}
		values[services.PreferenceTimeframe] = string(p)
	}
	if req.Visibility != nil {
		v, err := models.ParseVisibility(*req.Visibility)
		if err != nil {
			return nil, NewBusinessError("INVALID_VISIBILITY", err.Error(), ErrInvalidVisibility)
		}
		values[services.PreferenceVisibility] = string(v)
	}
	if req.Compact != nil {
		values[services.PreferenceCompactMode] = strconv.FormatBool(*req.Compact)
	}

	if err := f.store.Save(ctx, values); err != nil {
		config.LogError(f.logger.WithFields(metadata.logFields()), "PreferenceFlow", "Update", "Save", values, err)
		return nil, NewBusinessError("PREFERENCES_UNAVAILABLE", "Failed to save preferences", ErrPreferencesUnavailable)
	}

	current, err := f.store.Load(ctx)
	if err != nil {
		config.LogError(f.logger, "PreferenceFlow", "Update", "Load", nil, err)
		return nil, NewBusinessError("PREFERENCES_UNAVAILABLE", "Failed to load preferences", ErrPreferencesUnavailable)
	}

	return &dto.PreferencesResponse{
		Message: "Preferences updated successfully",
		View:    ToViewStateDTO(decodeViewState(current, f.defaults)),
	}, nil
}

func decodeViewState(values map[string]string, defaults models.ViewState) models.ViewState {
	view := defaults
	if m, err := models.ParseSortMethod(values[services.PreferenceSortMethod]); err == nil {
		view.Sort = m
	}
	if p, err := models.ParsePeriod(values[services.PreferenceTimeframe]); err == nil {
		view.Period = p
	}
	if v, err := models.ParseVisibility(values[services.PreferenceVisibility]); err == nil {
		view.Visibility = v
	}
	if c, err := strconv.ParseBool(values[services.PreferenceCompactMode]); err == nil {
		view.Compact = c
	}
	return view
}
