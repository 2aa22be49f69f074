package favorites

import (
	"context"
	"encoding/json"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/buymove/buymove-go/internal/api"
	"github.com/buymove/buymove-go/internal/config"
	"github.com/buymove/buymove-go/internal/models"
	"github.com/buymove/buymove-go/internal/store"
)

// localFavoritesKey is where the favorites list mirrors into the local store.
const localFavoritesKey = "bm_favorites"

// UserSource reports the currently authenticated user, or nil. The session
// client provides one; mock-only setups can pass nil.
type UserSource func() *models.User

// Service manages the user's favorited-vehicle set. Mutations mirror the
// whole list to the local store on every change; when the client is live and
// authenticated they additionally go through the remote API first, and a
// remote failure leaves local state untouched.
type Service struct {
	mock  bool
	store store.Store
	api   *api.Client
	user  UserSource

	mu      sync.Mutex
	items   []models.Favorite
	lastErr error
}

// New builds a favorites service seeded from the local store.
func New(cfg *config.Config, st store.Store, client *api.Client, user UserSource) *Service {
	return &Service{
		mock:  cfg.Mock(),
		store: st,
		api:   client,
		user:  user,
		items: store.ReadList[models.Favorite](st, localFavoritesKey),
	}
}

// remote reports whether mutations should go through the API.
func (s *Service) remote() bool {
	return !s.mock && s.user != nil && s.user() != nil
}

// List returns the favorites. On the remote path the in-memory list is
// replaced wholesale by the server's; otherwise the local list is returned.
func (s *Service) List(ctx context.Context) ([]models.Favorite, error) {
	if !s.remote() {
		s.mu.Lock()
		defer s.mu.Unlock()
		return append([]models.Favorite(nil), s.items...), nil
	}

	entries, err := s.api.ListFavorites(ctx)
	if err != nil {
		return nil, s.fail(err)
	}

	fetched := make([]models.Favorite, 0, len(entries))
	for _, entry := range entries {
		vehicle := models.Normalize(entry.Vehicle)
		if vehicle == nil {
			continue
		}
		fetched = append(fetched, models.Favorite{Vehicle: *vehicle, FavoriteID: entry.ID})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = fetched
	s.lastErr = nil
	s.persistLocked()
	return append([]models.Favorite(nil), s.items...), nil
}

// Toggle adds the vehicle to the favorites if absent, removes it otherwise.
// A vehicle without an id is ignored.
func (s *Service) Toggle(ctx context.Context, vehicle models.Vehicle) error {
	if vehicle.ID == "" {
		return nil
	}

	if s.remote() {
		if s.has(vehicle.ID) {
			if err := s.api.RemoveFavorite(ctx, vehicle.ID); err != nil {
				return s.fail(err)
			}
			s.drop(vehicle.ID)
			return nil
		}

		entry, err := s.api.AddFavorite(ctx, vehicle.ID)
		if err != nil {
			return s.fail(err)
		}
		added := models.Normalize(entry.Vehicle)
		if added == nil {
			normalized := models.NormalizeVehicle(vehicle)
			added = &normalized
		}
		s.put(models.Favorite{Vehicle: *added, FavoriteID: entry.ID})
		return nil
	}

	if s.has(vehicle.ID) {
		s.drop(vehicle.ID)
		return nil
	}
	s.put(models.Favorite{Vehicle: models.NormalizeVehicle(vehicle)})
	return nil
}

// Remove unconditionally removes the favorite for the given vehicle id.
func (s *Service) Remove(ctx context.Context, id string) error {
	if s.remote() {
		if err := s.api.RemoveFavorite(ctx, id); err != nil {
			return s.fail(err)
		}
	}
	s.drop(id)
	return nil
}

// UpdateNote shallow-merges patch into the favorite matching id. This is a
// local-only operation in every mode; notes never reach the server.
func (s *Service) UpdateNote(id string, patch map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID != id {
			continue
		}
		raw, err := json.Marshal(item)
		if err != nil {
			return
		}
		var merged map[string]any
		if err := json.Unmarshal(raw, &merged); err != nil {
			return
		}
		for k, v := range patch {
			merged[k] = v
		}
		data, err := json.Marshal(merged)
		if err != nil {
			return
		}
		var next models.Favorite
		if err := json.Unmarshal(data, &next); err != nil {
			log.WithError(err).WithField("id", id).Warn("favorite note patch produced an invalid record")
			return
		}
		s.items[i] = next
		s.persistLocked()
		return
	}
}

// Err returns the failure recorded by the most recent remote call, or nil
// after a success.
func (s *Service) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Service) has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// put appends the favorite after filtering any existing entry with the same
// vehicle id, so duplicates cannot appear.
func (s *Service) put(f models.Favorite) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]models.Favorite, 0, len(s.items)+1)
	for _, item := range s.items {
		if item.ID != f.ID {
			kept = append(kept, item)
		}
	}
	s.items = append(kept, f)
	s.lastErr = nil
	s.persistLocked()
}

func (s *Service) drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]models.Favorite, 0, len(s.items))
	for _, item := range s.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.lastErr = nil
	s.persistLocked()
}

func (s *Service) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	return err
}

// persistLocked mirrors the current list into the local store. Callers hold mu.
func (s *Service) persistLocked() {
	store.WriteList(s.store, localFavoritesKey, s.items)
}
