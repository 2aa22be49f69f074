package models

import "encoding/json"

// Vehicle represents a marketplace listing.
type Vehicle struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Brand        string   `json:"brand"`
	Model        string   `json:"model,omitempty"`
	Version      string   `json:"version,omitempty"`
	Year         int      `json:"year,omitempty"`
	Price        float64  `json:"price"`
	Mileage      float64  `json:"mileage"`
	Color        string   `json:"color,omitempty"`
	FuelType     string   `json:"fuelType,omitempty"`
	Transmission string   `json:"transmission,omitempty"`
	Doors        int      `json:"doors,omitempty"`
	Location     string   `json:"location,omitempty"`
	Description  string   `json:"description,omitempty"`
	Images       []string `json:"images"`
	ImageURL     string   `json:"imageUrl"`
	Features     []string `json:"features,omitempty"`
}

// Page is one page of listings plus the total match count.
type Page struct {
	Items []Vehicle `json:"items"`
	Total int       `json:"total"`
}

// Raw converts the vehicle back into the loose map shape the normalizer
// accepts. Patch merges during updates operate on this form.
func (v Vehicle) Raw() map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	return raw
}
