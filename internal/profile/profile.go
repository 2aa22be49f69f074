package profile

import (
	"strconv"
	"strings"
	"time"

	"github.com/buymove/buymove-go/internal/models"
	"github.com/buymove/buymove-go/internal/store"
)

// Fixed store keys, one per preference field. Booleans are stored as the
// strings "true"/"false".
const (
	keyName      = "bm_profile_name"
	keyPhone     = "bm_profile_phone"
	keyNotify    = "bm_profile_notify"
	keyWhatsApp  = "bm_profile_whatsapp"
	keyNotes     = "bm_profile_notes"
	keyUpdatedAt = "bm_profile_updated_at"
)

// Store reads and writes the flat profile preference record. Last write
// wins; there is no merge logic and no remote counterpart.
type Store struct {
	kv store.Store
}

func New(kv store.Store) *Store {
	return &Store{kv: kv}
}

// Load returns the last saved preferences, applying defaults for absent
// fields: email alerts default on, WhatsApp contact defaults off.
func (s *Store) Load() models.Preferences {
	return models.Preferences{
		Name:        s.get(keyName),
		Phone:       s.get(keyPhone),
		EmailAlerts: s.get(keyNotify) != "false",
		WhatsApp:    s.get(keyWhatsApp) == "true",
		Notes:       s.get(keyNotes),
		UpdatedAt:   s.updatedAt(),
	}
}

// Save persists every field and stamps the update time. The stored record is
// returned.
func (s *Store) Save(p models.Preferences) models.Preferences {
	now := time.Now().UTC()
	s.set(keyName, strings.TrimSpace(p.Name))
	s.set(keyPhone, strings.TrimSpace(p.Phone))
	s.set(keyNotify, strconv.FormatBool(p.EmailAlerts))
	s.set(keyWhatsApp, strconv.FormatBool(p.WhatsApp))
	s.set(keyNotes, strings.TrimSpace(p.Notes))
	s.set(keyUpdatedAt, now.Format(time.RFC3339))
	return s.Load()
}

// Reset discards unsaved edits by re-reading the last saved values. It does
// not restore factory defaults.
func (s *Store) Reset() models.Preferences {
	return s.Load()
}

func (s *Store) updatedAt() time.Time {
	raw := s.get(keyUpdatedAt)
	if raw == "" {
		return time.Time{}
	}
	stamp, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return stamp
}

func (s *Store) get(key string) string {
	if s.kv == nil {
		return ""
	}
	v, _ := s.kv.Get(key)
	return v
}

func (s *Store) set(key, value string) {
	if s.kv == nil {
		return
	}
	_ = s.kv.Set(key, value)
}
