package city

import "encoding/json"

// Coordinates is a [lat, lon] pair.
type Coordinates [2]float64

// Record is the City API payload. Pointer and nil-slice fields are absent
// upstream when nil; BuildInfo applies the defaults.
type Record struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Population  *int64       `json:"population,omitempty"`
	KnownFor    []string     `json:"knownFor,omitempty"`
}

// Forecast is the Weather API payload for a city.
// A nil Predictions slice means the field was missing upstream.
// Entries ({when, min, max, ...}) are passed through to clients untouched.
type Forecast struct {
	Predictions []json.RawMessage `json:"predictions"`
}

// Recipe is a user-submitted recipe attached to a city.
type Recipe struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
	CityID  string `json:"cityId"`
}

// Public strips the owning city from r.
func (r Recipe) Public() PublicRecipe {
	return PublicRecipe{ID: r.ID, Content: r.Content}
}

// PublicRecipe is the recipe view embedded in CityInfo.
type PublicRecipe struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
}

// Info is the aggregated city view served to clients.
// Every field is always populated.
type Info struct {
	Coordinates        Coordinates       `json:"coordinates"`
	Population         int64             `json:"population"`
	KnownFor           []string          `json:"knownFor"`
	WeatherPredictions []json.RawMessage `json:"weatherPredictions"`
	Recipes            []PublicRecipe    `json:"recipes"`
}
