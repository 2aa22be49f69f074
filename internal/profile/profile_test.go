package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buymove/buymove-go/internal/models"
	"github.com/buymove/buymove-go/internal/store"
)

func TestLoad_Defaults(t *testing.T) {
	p := New(store.NewMemoryStore()).Load()
	assert.Empty(t, p.Name)
	assert.Empty(t, p.Phone)
	assert.True(t, p.EmailAlerts, "email alerts default on")
	assert.False(t, p.WhatsApp, "whatsapp contact defaults off")
	assert.True(t, p.UpdatedAt.IsZero())
}

func TestSaveAndLoad(t *testing.T) {
	st := store.NewMemoryStore()
	s := New(st)

	saved := s.Save(models.Preferences{
		Name:        "  Maria Souza  ",
		Phone:       "(31) 90000-0000",
		EmailAlerts: false,
		WhatsApp:    true,
		Notes:       "prefiro contato à tarde",
	})
	assert.Equal(t, "Maria Souza", saved.Name)
	assert.False(t, saved.EmailAlerts)
	assert.True(t, saved.WhatsApp)
	assert.False(t, saved.UpdatedAt.IsZero())

	// booleans are stored as "true"/"false" strings
	raw, ok := st.Get("bm_profile_notify")
	require.True(t, ok)
	assert.Equal(t, "false", raw)
	raw, ok = st.Get("bm_profile_whatsapp")
	require.True(t, ok)
	assert.Equal(t, "true", raw)

	loaded := s.Load()
	assert.Equal(t, saved, loaded)
}

func TestReset_RestoresLastSaved(t *testing.T) {
	s := New(store.NewMemoryStore())
	s.Save(models.Preferences{Name: "Maria", EmailAlerts: true})

	// unsaved edits live with the caller; Reset just re-reads the store
	p := s.Reset()
	assert.Equal(t, "Maria", p.Name)
	assert.True(t, p.EmailAlerts)
}

func TestNilStore(t *testing.T) {
	s := New(nil)
	assert.NotPanics(t, func() {
		s.Save(models.Preferences{Name: "x"})
		p := s.Load()
		assert.Empty(t, p.Name)
	})
}

func TestCorruptTimestamp(t *testing.T) {
	st := store.NewMemoryStore()
	require.NoError(t, st.Set("bm_profile_updated_at", "not a timestamp"))
	p := New(st).Load()
	assert.True(t, p.UpdatedAt.IsZero())
}
