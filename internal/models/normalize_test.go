package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Nil(t *testing.T) {
	assert.Nil(t, Normalize(nil))
}

func TestNormalize_IDPriority(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want string
	}{
		{"id wins", map[string]any{"id": "a", "_id": "b", "vehicle_id": "c"}, "a"},
		{"_id next", map[string]any{"_id": "b", "vehicle_id": "c"}, "b"},
		{"vehicle_id last", map[string]any{"vehicle_id": "c"}, "c"},
		{"numeric id stringified", map[string]any{"id": float64(42)}, "42"},
		{"none present", map[string]any{"title": "x"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Normalize(tt.raw)
			require.NotNil(t, v)
			assert.Equal(t, tt.want, v.ID)
		})
	}
}

func TestNormalize_Images(t *testing.T) {
	v := Normalize(map[string]any{"id": "1"})
	require.NotNil(t, v)
	assert.Equal(t, PlaceholderImage, v.ImageURL)
	assert.Equal(t, []string{PlaceholderImage}, v.Images)

	v = Normalize(map[string]any{"id": "1", "images": []any{"a.jpg", "b.jpg"}})
	require.NotNil(t, v)
	assert.Equal(t, "a.jpg", v.ImageURL)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, v.Images)

	v = Normalize(map[string]any{"id": "1", "imageUrl": "cover.jpg"})
	require.NotNil(t, v)
	assert.Equal(t, "cover.jpg", v.ImageURL)
	assert.Equal(t, []string{"cover.jpg"}, v.Images)

	// explicit imageUrl does not override a non-empty images list
	v = Normalize(map[string]any{"id": "1", "imageUrl": "cover.jpg", "images": []any{"a.jpg"}})
	require.NotNil(t, v)
	assert.Equal(t, "cover.jpg", v.ImageURL)
	assert.Equal(t, []string{"a.jpg"}, v.Images)
}

func TestNormalize_BrandFallback(t *testing.T) {
	v := Normalize(map[string]any{"id": "1", "marca": "Fiat"})
	require.NotNil(t, v)
	assert.Equal(t, "Fiat", v.Brand)

	v = Normalize(map[string]any{"id": "1", "brand": "Ford", "marca": "Fiat"})
	require.NotNil(t, v)
	assert.Equal(t, "Ford", v.Brand)
}

func TestNormalize_NumericCoercion(t *testing.T) {
	v := Normalize(map[string]any{"id": "1", "price": "129900.50", "km": "61000"})
	require.NotNil(t, v)
	assert.Equal(t, 129900.50, v.Price)
	assert.Equal(t, 61000.0, v.Mileage)

	v = Normalize(map[string]any{"id": "1", "price": "not a number", "mileage": nil})
	require.NotNil(t, v)
	assert.Zero(t, v.Price)
	assert.Zero(t, v.Mileage)

	// mileage takes priority over the legacy km field
	v = Normalize(map[string]any{"id": "1", "mileage": float64(100), "km": float64(999)})
	require.NotNil(t, v)
	assert.Equal(t, 100.0, v.Mileage)
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := map[string]any{
		"_id":         "abc-123",
		"title":       "Gol 1.0",
		"marca":       "Volkswagen",
		"year":        float64(2019),
		"price":       "46900",
		"km":          float64(58000),
		"doors":       float64(4),
		"description": "bem cuidado",
		"features":    []any{"Ar-condicionado"},
	}
	first := Normalize(raw)
	require.NotNil(t, first)
	second := Normalize(first.Raw())
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
}

func TestNormalizeVehicle_FillsGuarantees(t *testing.T) {
	v := NormalizeVehicle(Vehicle{ID: "1", Title: "sem foto"})
	assert.Equal(t, []string{PlaceholderImage}, v.Images)
	assert.Equal(t, PlaceholderImage, v.ImageURL)
}

func TestNormalizeAll_DropsNil(t *testing.T) {
	out := NormalizeAll([]map[string]any{{"id": "1"}, nil, {"id": "2"}})
	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "2", out[1].ID)
}
