package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"recipe-costing/internal/core"
)

const (
	chickenID = 1
	onionID   = 2
	curryID   = 10
)

func unit(t *testing.T, code string) core.Unit {
	t.Helper()
	u, err := core.GetUnit(code)
	require.NoError(t, err)
	return u
}

func qty(t *testing.T, value float64, code string) core.Quantity {
	t.Helper()
	q, err := core.QuantityOf(value, code)
	require.NoError(t, err)
	return q
}

// kgIngredient is bought per kilogram, stocked in grams, priced tax-included at 10%.
func kgIngredient(t *testing.T, id int, name string, priceMinor int64, yield float64) core.Ingredient {
	t.Helper()
	conv, err := core.ConversionOf("kg", "g", 1000)
	require.NoError(t, err)
	ing, err := core.NewIngredient(core.IngredientProps{
		ID:               id,
		TeamID:           1,
		Name:             name,
		PurchaseQuantity: qty(t, 1, "kg"),
		StockUnit:        unit(t, "g"),
		Conversion:       conv,
		PurchasePrice:    core.OfMinor(priceMinor),
		TaxIncluded:      true,
		TaxRatePercent:   10,
		YieldRatePercent: yield,
		Version:          1,
	})
	require.NoError(t, err)
	return ing
}

func chicken(t *testing.T) core.Ingredient { return kgIngredient(t, chickenID, "鶏もも肉", 980, 90) }

func onion(t *testing.T) core.Ingredient { return kgIngredient(t, onionID, "玉ねぎ", 198, 92) }

func curryProps(t *testing.T) core.RecipeProps {
	t.Helper()
	plating := 100.0
	return core.RecipeProps{
		ID:                      curryID,
		TeamID:                  1,
		Name:                    "チキンカレー",
		BatchOutput:             qty(t, 2000, "g"),
		ServingSize:             qty(t, 200, "g"),
		PlatingYieldRatePercent: &plating,
		Version:                 1,
		Items: []core.RecipeItem{
			{IngredientID: chickenID, Quantity: qty(t, 1200, "g"), WasteRate: 0.03},
			{IngredientID: onionID, Quantity: qty(t, 500, "g"), WasteRate: 0.02},
		},
	}
}

func curry(t *testing.T) core.Recipe {
	t.Helper()
	r, err := core.NewRecipe(curryProps(t))
	require.NoError(t, err)
	return r
}
