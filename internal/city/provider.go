package city

import "context"

// Upstream abstracts the City and Weather APIs.
type Upstream interface {
	FetchCity(ctx context.Context, cityID string) (Record, error)
	FetchWeather(ctx context.Context, cityID string) (Forecast, error)
}

// Store is the contract the in-memory recipe store must satisfy.
type Store interface {
	Create(cityID, content string) Recipe
	ListByCity(cityID string) []Recipe
	Delete(cityID string, recipeID int) bool
}
