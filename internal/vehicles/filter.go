package vehicles

import (
	"strings"

	"github.com/buymove/buymove-go/internal/models"
)

// applyFilters runs the full filter + paginate pass over a combined dataset.
// Price bounds are inclusive, text matches are case-insensitive substrings,
// and Q matches against title and description together. An out-of-range page
// yields an empty slice, never an error.
func applyFilters(list []models.Vehicle, params models.FilterParams) models.Page {
	params = params.Normalized()

	filtered := make([]models.Vehicle, 0, len(list))
	for _, item := range list {
		v := models.NormalizeVehicle(item)
		if !matches(v, params) {
			continue
		}
		filtered = append(filtered, v)
	}

	total := len(filtered)
	start := (params.Page - 1) * params.PageSize
	if start >= total {
		return models.Page{Items: []models.Vehicle{}, Total: total}
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}
	return models.Page{Items: filtered[start:end], Total: total}
}

func matches(v models.Vehicle, params models.FilterParams) bool {
	if v.Price < params.MinPrice {
		return false
	}
	if params.MaxPrice > 0 && v.Price > params.MaxPrice {
		return false
	}
	if !containsFold(v.Brand, params.Brand) {
		return false
	}
	if params.Q != "" && !containsFold(v.Title+" "+v.Description, params.Q) {
		return false
	}
	if !containsFold(v.Color, params.Color) {
		return false
	}
	if params.Doors > 0 && v.Doors != params.Doors {
		return false
	}
	return containsFold(v.Location, params.Location)
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
