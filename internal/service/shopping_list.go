package service

import (
	"fmt"
	"strings"

	"foodgram-go/internal/repository"
)

const (
	ShoppingListHeader   = "Shopping list:"
	ShoppingListFilename = "shopping_list.txt"
)

// RenderShoppingList 首行为标题，其后每行 "name (unit) - amount"，无结尾换行
func RenderShoppingList(items []repository.IngredientTotal) string {
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, ShoppingListHeader)
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s (%s) - %d", item.Name, item.MeasurementUnit, item.Amount))
	}
	return strings.Join(lines, "\n")
}
