package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PlaceholderImage is substituted when a listing carries no usable image, so
// normalized vehicles always render with at least one picture.
const PlaceholderImage = "https://images.unsplash.com/photo-1493238792000-8113da705763?auto=format&fit=crop&w=900&q=80"

// Fallback key chains for attributes that arrive under different names
// depending on the source (mock data, local cache, remote API, legacy
// records). Order is priority order.
var (
	idKeys      = []string{"id", "_id", "vehicle_id"}
	brandKeys   = []string{"brand", "marca"}
	mileageKeys = []string{"mileage", "km"}
)

// Normalize maps a loosely-shaped raw record into the canonical Vehicle
// shape. A nil map yields nil. After normalization the id is a non-empty
// string whenever any id field was present, images is never empty, and price
// and mileage are finite. Normalize is idempotent: feeding a normalized
// vehicle's Raw() form back in reproduces it.
func Normalize(raw map[string]any) *Vehicle {
	if raw == nil {
		return nil
	}

	imageURL := stringField(raw, "imageUrl")
	images := stringSlice(raw["images"])
	if imageURL == "" {
		if len(images) > 0 {
			imageURL = images[0]
		} else {
			imageURL = PlaceholderImage
		}
	}
	if len(images) == 0 {
		images = []string{imageURL}
	}

	return &Vehicle{
		ID:           stringField(raw, idKeys...),
		Title:        stringField(raw, "title"),
		Brand:        stringField(raw, brandKeys...),
		Model:        stringField(raw, "model"),
		Version:      stringField(raw, "version"),
		Year:         intField(raw, "year"),
		Price:        numberField(raw, "price"),
		Mileage:      numberField(raw, mileageKeys...),
		Color:        stringField(raw, "color"),
		FuelType:     stringField(raw, "fuelType"),
		Transmission: stringField(raw, "transmission"),
		Doors:        intField(raw, "doors"),
		Location:     stringField(raw, "location"),
		Description:  stringField(raw, "description"),
		Images:       images,
		ImageURL:     imageURL,
		Features:     stringSlice(raw["features"]),
	}
}

// NormalizeVehicle re-applies the normalization guarantees to an already
// typed vehicle.
func NormalizeVehicle(v Vehicle) Vehicle {
	n := Normalize(v.Raw())
	if n == nil {
		return v
	}
	return *n
}

// NormalizeAll normalizes a batch of raw records, dropping nil entries.
func NormalizeAll(raws []map[string]any) []Vehicle {
	out := make([]Vehicle, 0, len(raws))
	for _, raw := range raws {
		if v := Normalize(raw); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func firstPresent(raw map[string]any, keys []string) (any, bool) {
	for _, key := range keys {
		if value, ok := raw[key]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

func stringField(raw map[string]any, keys ...string) string {
	value, ok := firstPresent(raw, keys)
	if !ok {
		return ""
	}
	switch s := value.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprint(s)
	}
}

// numberField coerces the first present key to a finite float64, 0 otherwise.
func numberField(raw map[string]any, keys ...string) float64 {
	value, ok := firstPresent(raw, keys)
	if !ok {
		return 0
	}
	var n float64
	switch v := value.(type) {
	case float64:
		n = v
	case int:
		n = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

func intField(raw map[string]any, keys ...string) int {
	return int(numberField(raw, keys...))
}

func stringSlice(value any) []string {
	var out []string
	switch items := value.(type) {
	case []string:
		for _, item := range items {
			if item != "" {
				out = append(out, item)
			}
		}
	case []any:
		for _, item := range items {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
