package file_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-costing/internal/app"
	"recipe-costing/internal/core"
	"recipe-costing/internal/store/file"
)

func TestLoad_Catalog(t *testing.T) {
	s, err := file.Load("testdata/catalog.yaml")
	require.NoError(t, err)
	ctx := context.Background()

	ings, err := s.ListIngredients(ctx, 1)
	require.NoError(t, err)
	require.Len(t, ings, 2)
	assert.Equal(t, "鶏もも肉", ings[0].Name)
	assert.Equal(t, int64(980), ings[0].PurchasePrice.AmountMinor())
	assert.Equal(t, 1, ings[0].Version)
	require.NotNil(t, ings[0].SupplierID)

	recipes, err := s.ListRecipes(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	require.NotNil(t, recipes[0].SellingPrice)
	assert.Equal(t, int64(880), recipes[0].SellingPrice.AmountMinor())

	cost, err := core.RecipeUnitCost(recipes[0], core.IndexIngredients(ings), core.DefaultCostingPolicy)
	require.NoError(t, err)
	assert.Equal(t, int64(133), cost.UnitCostMinor)

	plan, err := s.GetSalesPlan(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, "October lunch", plan.Name)
	assert.Equal(t, []core.PlanItem{{RecipeID: 10, Servings: 30}}, plan.PlanItems())

	other, err := s.ListIngredients(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, other, "records are scoped to their team")
}

func TestParse_RejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"fractional price", `
team_id: 1
ingredients:
  - {id: 1, name: x, purchase_qty: 1, purchase_unit: kg, stock_unit: g, conversion_factor: 1000, purchase_price_minor: 12.5, yield_rate_percent: 100}
`},
		{"unknown unit", `
team_id: 1
ingredients:
  - {id: 1, name: x, purchase_qty: 1, purchase_unit: lb, stock_unit: g, conversion_factor: 450, purchase_price_minor: 100, yield_rate_percent: 100}
`},
		{"recipe without items", `
team_id: 1
recipes:
  - {id: 1, name: x, batch_output: {qty: 1, unit: kg}, serving_size: {qty: 100, unit: g}, items: []}
`},
		{"bad date", `
team_id: 1
sales_plans:
  - {id: 1, name: x, start_date: "10/01/2026", end_date: "2026-10-31", items: []}
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := file.Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestStore_Writes(t *testing.T) {
	s, err := file.Load("testdata/catalog.yaml")
	require.NoError(t, err)
	ctx := context.Background()

	ing, err := s.GetIngredient(ctx, 1, 2)
	require.NoError(t, err)

	p := ing.Props()
	p.PurchasePrice = core.OfMinor(220)
	next, err := ing.Revise(p)
	require.NoError(t, err)

	_, err = s.UpdateIngredient(ctx, next, ing.Version)
	require.NoError(t, err)

	_, err = s.UpdateIngredient(ctx, next, ing.Version)
	assert.ErrorIs(t, err, app.ErrStaleVersion)

	_, err = s.GetIngredient(ctx, 1, 99)
	assert.ErrorIs(t, err, app.ErrNotFound)

	sup, err := s.CreateSupplier(ctx, core.Supplier{TeamID: 1, Name: "豊洲水産"})
	require.NoError(t, err)
	assert.Greater(t, sup.ID, 20, "new ids never collide with loaded ones")
}

func TestSchema(t *testing.T) {
	data, err := file.Schema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "ingredients")
	assert.Contains(t, props, "recipes")
	assert.Equal(t, "Recipe costing catalog", schema["title"])
}
