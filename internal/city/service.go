package city

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrCityNotFound is returned when the City API lookup fails. The upstream
	// error stays wrapped so upstream.Classify can tell not-found from unavailable.
	ErrCityNotFound = errors.New("city not found")

	// ErrWeatherNotFound is returned when the Weather API lookup fails.
	ErrWeatherNotFound = errors.New("weather not found")

	// ErrRecipeNotFound is returned when no recipe matches both id and city.
	ErrRecipeNotFound = errors.New("recipe not found")
)

// ValidationError reports a recipe payload that violates a content rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RecipeInput is the payload accepted when creating a recipe.
type RecipeInput struct {
	Content string `json:"content" validate:"required,min=10,max=2000"`
}

// Service orchestrates upstream lookups and the recipe store.
type Service struct {
	store    Store
	upstream Upstream
	validate *validator.Validate
}

// NewService creates a new Service.
func NewService(store Store, upstream Upstream) *Service {
	return &Service{
		store:    store,
		upstream: upstream,
		validate: validator.New(),
	}
}

// Info fetches the city and its forecast, then merges them with the city's
// recipes. The Weather API is only queried once the city is known to exist.
func (s *Service) Info(ctx context.Context, cityID string) (Info, error) {
	rec, err := s.upstream.FetchCity(ctx, cityID)
	if err != nil {
		slog.Warn("city lookup failed", "cityId", cityID, "error", err)
		return Info{}, fmt.Errorf("%w: %w", ErrCityNotFound, err)
	}

	forecast, err := s.upstream.FetchWeather(ctx, cityID)
	if err != nil {
		slog.Warn("weather lookup failed", "cityId", cityID, "error", err)
		return Info{}, fmt.Errorf("%w: %w", ErrWeatherNotFound, err)
	}

	return BuildInfo(rec, forecast, s.store.ListByCity(cityID)), nil
}

// AddRecipe validates the input, confirms the city exists and stores the recipe.
func (s *Service) AddRecipe(ctx context.Context, cityID string, in RecipeInput) (Recipe, error) {
	if err := s.Validate(in); err != nil {
		return Recipe{}, err
	}

	if err := s.ensureCity(ctx, cityID); err != nil {
		return Recipe{}, err
	}

	r := s.store.Create(cityID, in.Content)
	slog.Info("recipe added", "cityId", cityID, "recipeId", r.ID)
	return r, nil
}

// RemoveRecipe confirms the city exists and deletes the recipe if it belongs
// to that city.
func (s *Service) RemoveRecipe(ctx context.Context, cityID string, recipeID int) error {
	if err := s.ensureCity(ctx, cityID); err != nil {
		return err
	}

	if !s.store.Delete(cityID, recipeID) {
		return ErrRecipeNotFound
	}

	slog.Info("recipe removed", "cityId", cityID, "recipeId", recipeID)
	return nil
}

// Validate checks the recipe content rules and returns a *ValidationError
// naming the first violated constraint.
func (s *Service) Validate(in RecipeInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Field: "content", Message: err.Error()}
	}

	fe := fieldErrs[0]
	verr := &ValidationError{Field: "content"}
	switch fe.Tag() {
	case "required":
		verr.Message = "content is required"
	case "min":
		verr.Message = fmt.Sprintf("content must be at least %s characters", fe.Param())
	case "max":
		verr.Message = fmt.Sprintf("content must be at most %s characters", fe.Param())
	default:
		verr.Message = fmt.Sprintf("content failed %q validation", fe.Tag())
	}
	return verr
}

func (s *Service) ensureCity(ctx context.Context, cityID string) error {
	if _, err := s.upstream.FetchCity(ctx, cityID); err != nil {
		slog.Warn("city lookup failed", "cityId", cityID, "error", err)
		return fmt.Errorf("%w: %w", ErrCityNotFound, err)
	}
	return nil
}
