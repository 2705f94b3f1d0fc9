package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/receiptsplit/internal/extraction"
	"github.com/mmynk/receiptsplit/internal/models"
)

// PreferenceStore persists the selected model and auto mode.
type PreferenceStore interface {
	Get() models.Preferences
	Update(selectedModel *string, autoMode *bool) (models.Preferences, error)
}

// ModelService exposes the model catalog and the saved model choice.
type ModelService struct {
	extractor *extraction.Service
	prefs     PreferenceStore
}

// NewModelService creates a ModelService.
func NewModelService(extractor *extraction.Service, prefs PreferenceStore) *ModelService {
	return &ModelService{extractor: extractor, prefs: prefs}
}

// ListModels returns the catalog in fallback order.
func (s *ModelService) ListModels(ctx context.Context, req *connect.Request[ListModelsRequest]) (*connect.Response[ListModelsResponse], error) {
	catalog := s.extractor.Catalog()
	return connect.NewResponse(&ListModelsResponse{
		Models:       catalog.Models(),
		DefaultModel: catalog.Default().ID,
	}), nil
}

// GetPreferences returns the saved choice with the default model filled in.
func (s *ModelService) GetPreferences(ctx context.Context, req *connect.Request[GetPreferencesRequest]) (*connect.Response[GetPreferencesResponse], error) {
	return connect.NewResponse(&GetPreferencesResponse{Preferences: withDefaultModel(s.extractor.Catalog(), s.prefs.Get())}), nil
}

// SelectModel saves a model choice and/or auto mode. The model must be in
// the catalog.
func (s *ModelService) SelectModel(ctx context.Context, req *connect.Request[SelectModelRequest]) (*connect.Response[SelectModelResponse], error) {
	if id := req.Msg.ModelID; id != nil && *id != "" {
		if _, ok := s.extractor.Catalog().Lookup(*id); !ok {
			return nil, invalidArgument("invalid model id: " + *id)
		}
	}

	prefs, err := s.prefs.Update(req.Msg.ModelID, req.Msg.AutoMode)
	if err != nil {
		return nil, toConnectError("SelectModel", err)
	}

	slog.Info("Model preference saved", "model", prefs.SelectedModel, "auto_mode", prefs.AutoMode)
	return connect.NewResponse(&SelectModelResponse{Preferences: withDefaultModel(s.extractor.Catalog(), prefs)}), nil
}

// CheckAvailability probes the requested models, or all of them.
func (s *ModelService) CheckAvailability(ctx context.Context, req *connect.Request[CheckAvailabilityRequest]) (*connect.Response[CheckAvailabilityResponse], error) {
	statuses := s.extractor.CheckAvailability(ctx, req.Msg.ModelIDs)
	return connect.NewResponse(&CheckAvailabilityResponse{Statuses: statuses}), nil
}

// withDefaultModel fills in the catalog default when nothing is selected.
func withDefaultModel(c *extraction.Catalog, p models.Preferences) models.Preferences {
	if p.SelectedModel == "" {
		p.SelectedModel = c.Default().ID
	}
	return p
}
