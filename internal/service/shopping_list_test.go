package service

import (
	"testing"

	"foodgram-go/internal/repository"

	"github.com/stretchr/testify/assert"
)

func TestRenderShoppingList(t *testing.T) {
	assert.Equal(t, "Shopping list:", RenderShoppingList(nil))

	text := RenderShoppingList([]repository.IngredientTotal{
		{Name: "flour", MeasurementUnit: "g", Amount: 500},
		{Name: "salt", MeasurementUnit: "g", Amount: 15},
	})
	assert.Equal(t, "Shopping list:\nflour (g) - 500\nsalt (g) - 15", text)
}

func TestValidationErrorMessage(t *testing.T) {
	verr := &ValidationError{}
	assert.NoError(t, verr.OrNil())

	verr.Add("tags", "at least one tag is required")
	verr.Add("cooking_time", "too short")
	verr.Add("cooking_time", "really")
	assert.Equal(t, "validation failed: cooking_time: too short; really, tags: at least one tag is required", verr.Error())
	assert.Error(t, verr.OrNil())
}
