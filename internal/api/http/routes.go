package httpapi

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/city-infos/internal/city"
)

const (
	msgCityNotFound    = "city not found"
	msgWeatherNotFound = "weather not found"
	msgRecipeNotFound  = "recipe not found"
	msgExternalAPI     = "city not found or external API problem"
	msgInvalidBody     = "invalid request body: content must be a string"
)

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *city.Service) {
	cities := app.Group("/cities/:cityId")

	cities.Get("/infos", func(c *fiber.Ctx) error {
		info, err := service.Info(c.UserContext(), c.Params("cityId"))
		if err != nil {
			switch {
			case errors.Is(err, city.ErrCityNotFound):
				return fiber.NewError(fiber.StatusNotFound, msgCityNotFound)
			case errors.Is(err, city.ErrWeatherNotFound):
				return fiber.NewError(fiber.StatusNotFound, msgWeatherNotFound)
			default:
				return fiber.NewError(fiber.StatusNotFound, msgExternalAPI)
			}
		}

		return c.JSON(info)
	})

	cities.Post("/recipes", func(c *fiber.Ctx) error {
		var in city.RecipeInput
		if body := c.Body(); len(body) > 0 {
			if err := json.Unmarshal(body, &in); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, msgInvalidBody)
			}
		}

		recipe, err := service.AddRecipe(c.UserContext(), c.Params("cityId"), in)
		if err != nil {
			var verr *city.ValidationError
			switch {
			case errors.As(err, &verr):
				return fiber.NewError(fiber.StatusBadRequest, verr.Message)
			case errors.Is(err, city.ErrCityNotFound):
				return fiber.NewError(fiber.StatusNotFound, msgCityNotFound)
			default:
				return err
			}
		}

		return c.Status(fiber.StatusCreated).JSON(recipe)
	})

	cities.Delete("/recipes/:recipeId", func(c *fiber.Ctx) error {
		// Ids start at 1, so a non-numeric id maps to 0 and only fails after
		// the city check.
		recipeID, err := strconv.Atoi(c.Params("recipeId"))
		if err != nil {
			recipeID = 0
		}

		err = service.RemoveRecipe(c.UserContext(), c.Params("cityId"), recipeID)
		if err != nil {
			switch {
			case errors.Is(err, city.ErrCityNotFound):
				return fiber.NewError(fiber.StatusNotFound, msgCityNotFound)
			case errors.Is(err, city.ErrRecipeNotFound):
				return fiber.NewError(fiber.StatusNotFound, msgRecipeNotFound)
			default:
				return err
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	})
}
