package city

import "encoding/json"

// BuildInfo merges the upstream city record, its forecast and the stored
// recipes into an Info. Absent upstream fields fall back to zero coordinates,
// zero population and empty lists.
func BuildInfo(rec Record, forecast Forecast, recipes []Recipe) Info {
	info := Info{
		KnownFor:           []string{},
		WeatherPredictions: []json.RawMessage{},
		Recipes:            make([]PublicRecipe, 0, len(recipes)),
	}

	if rec.Coordinates != nil {
		info.Coordinates = *rec.Coordinates
	}
	if rec.Population != nil {
		info.Population = *rec.Population
	}
	if rec.KnownFor != nil {
		info.KnownFor = rec.KnownFor
	}
	if forecast.Predictions != nil {
		info.WeatherPredictions = forecast.Predictions
	}

	for _, r := range recipes {
		info.Recipes = append(info.Recipes, r.Public())
	}

	return info
}
