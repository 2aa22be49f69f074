package vehicles

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/buymove/buymove-go/internal/api"
	"github.com/buymove/buymove-go/internal/config"
	"github.com/buymove/buymove-go/internal/models"
	"github.com/buymove/buymove-go/internal/store"
)

// localVehiclesKey is where user-created listings live in the local store.
const localVehiclesKey = "bm_vehicle_list"

const maxRecommendations = 6

// Service is the mode-switching CRUD + filter + pagination engine over
// vehicle listings. In mock mode it combines locally-stored listings with
// the bundled dataset; in live mode the local store acts as a write-through
// cache layered over the remote API.
type Service struct {
	mock    bool
	latency time.Duration
	store   store.Store
	api     *api.Client
}

// New builds a vehicle service. The operating mode comes from cfg and is
// fixed for the service's lifetime. client may be nil in mock mode.
func New(cfg *config.Config, st store.Store, client *api.Client) *Service {
	return &Service{
		mock:    cfg.Mock(),
		latency: cfg.MockLatency,
		store:   st,
		api:     client,
	}
}

// List returns one page of the catalog matching params.
func (s *Service) List(ctx context.Context, params models.FilterParams) (models.Page, error) {
	if s.mock {
		if err := s.sleep(ctx, s.latency); err != nil {
			return models.Page{}, err
		}
		return applyFilters(s.combined(), params), nil
	}

	remote, err := s.api.ListVehicles(ctx, params)
	if err != nil {
		return models.Page{}, err
	}

	// Locally-created listings not yet visible on the server still show up:
	// locals go first, then the server page, and the same filter pass runs
	// over the merged set.
	merged := append(s.locals(), models.NormalizeAll(remote.Items)...)
	page := applyFilters(merged, params)
	if remote.Total != nil {
		page.Total = *remote.Total
	}
	return page, nil
}

// ListOwned returns the current user's own listings. Mock mode serves the
// local store only; live mode trusts the server and skips the local merge.
func (s *Service) ListOwned(ctx context.Context, params models.FilterParams) (models.Page, error) {
	if s.mock {
		locals := s.locals()
		return models.Page{Items: locals, Total: len(locals)}, nil
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	size := params.PageSize
	if size < 1 {
		size = 50
	}
	remote, err := s.api.MyVehicles(ctx, page, size)
	if err != nil {
		return models.Page{}, err
	}
	items := models.NormalizeAll(remote.Items)
	result := models.Page{Items: items, Total: len(items)}
	if remote.Total != nil {
		result.Total = *remote.Total
	}
	return result, nil
}

// GetByID resolves one listing. A miss in mock mode returns (nil, nil).
func (s *Service) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	if s.mock {
		if err := s.sleep(ctx, s.latency); err != nil {
			return nil, err
		}
		for _, v := range s.combined() {
			if v.ID == id {
				n := models.NormalizeVehicle(v)
				return &n, nil
			}
		}
		return nil, nil
	}

	raw, err := s.api.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	return models.Normalize(raw), nil
}

// Create publishes a new listing. Mock mode assigns a fresh id and appends
// locally; live mode posts to the API and mirrors the result into the local
// store.
func (s *Service) Create(ctx context.Context, payload map[string]any) (*models.Vehicle, error) {
	if s.mock {
		raw := make(map[string]any, len(payload)+1)
		for k, val := range payload {
			raw[k] = val
		}
		raw["id"] = uuid.NewString()
		created := models.Normalize(raw)
		store.WriteList(s.store, localVehiclesKey, append(s.locals(), *created))
		return created, nil
	}

	raw, err := s.api.CreateVehicle(ctx, payload)
	if err != nil {
		return nil, err
	}
	created := models.Normalize(raw)
	s.saveLocal(*created)
	return created, nil
}

// Update applies a partial-field patch to a listing. A mock-mode miss
// returns (nil, nil).
func (s *Service) Update(ctx context.Context, id string, patch map[string]any) (*models.Vehicle, error) {
	if s.mock {
		locals := s.locals()
		var updated *models.Vehicle
		for i, item := range locals {
			if item.ID != id {
				continue
			}
			raw := item.Raw()
			for k, val := range patch {
				raw[k] = val
			}
			merged := models.Normalize(raw)
			locals[i] = *merged
			updated = merged
			break
		}
		if updated == nil {
			return nil, nil
		}
		store.WriteList(s.store, localVehiclesKey, locals)
		return updated, nil
	}

	raw, err := s.api.UpdateVehicle(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	updated := models.Normalize(raw)
	s.saveLocal(*updated)
	return updated, nil
}

// Delete removes a listing by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s.mock {
		s.removeLocal(id)
		return nil
	}
	if err := s.api.DeleteVehicle(ctx, id); err != nil {
		return err
	}
	s.removeLocal(id)
	return nil
}

// Recommendations returns up to six other listings closest in price to the
// base listing, nearest first. Ties keep dataset order.
func (s *Service) Recommendations(ctx context.Context, baseID string) ([]models.Vehicle, error) {
	if s.mock {
		if err := s.sleep(ctx, s.latency); err != nil {
			return nil, err
		}
		all := s.combined()
		var base *models.Vehicle
		for i := range all {
			if all[i].ID == baseID {
				base = &all[i]
				break
			}
		}
		if base == nil {
			return []models.Vehicle{}, nil
		}

		others := make([]models.Vehicle, 0, len(all)-1)
		for _, v := range all {
			if v.ID != base.ID {
				others = append(others, v)
			}
		}
		sort.SliceStable(others, func(i, j int) bool {
			return priceDistance(others[i], *base) < priceDistance(others[j], *base)
		})
		if len(others) > maxRecommendations {
			others = others[:maxRecommendations]
		}
		return others, nil
	}

	raws, err := s.api.Recommendations(ctx, baseID)
	if err != nil {
		return nil, err
	}
	return models.NormalizeAll(raws), nil
}

// locals returns the user-created listings from the local store.
func (s *Service) locals() []models.Vehicle {
	return store.ReadList[models.Vehicle](s.store, localVehiclesKey)
}

// combined is the mock-mode dataset: locals first, bundled catalog after.
func (s *Service) combined() []models.Vehicle {
	return append(s.locals(), bundledVehicles()...)
}

// saveLocal write-throughs v, replacing any stored record with the same id.
func (s *Service) saveLocal(v models.Vehicle) {
	kept := make([]models.Vehicle, 0)
	for _, item := range s.locals() {
		if item.ID != v.ID {
			kept = append(kept, item)
		}
	}
	store.WriteList(s.store, localVehiclesKey, append(kept, v))
}

func (s *Service) removeLocal(id string) {
	kept := make([]models.Vehicle, 0)
	for _, item := range s.locals() {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	store.WriteList(s.store, localVehiclesKey, kept)
}

// sleep simulates network latency in mock mode without ignoring cancellation.
func (s *Service) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func priceDistance(v, base models.Vehicle) float64 {
	d := v.Price - base.Price
	if d < 0 {
		return -d
	}
	return d
}
