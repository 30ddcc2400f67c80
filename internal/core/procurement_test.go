package core_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-costing/internal/core"
)

func procure(t *testing.T, lines ...core.PlanItem) core.ProcurementResult {
	t.Helper()
	res, err := core.CalculateProcurement(core.ProcurementInput{
		PlanItems:   lines,
		Recipes:     []core.Recipe{curry(t)},
		Ingredients: []core.Ingredient{chicken(t), onion(t)},
		Policy:      core.DefaultCostingPolicy,
	})
	require.NoError(t, err)
	return res
}

func TestCalculateProcurement_ThirtyCurries(t *testing.T) {
	res := procure(t, core.PlanItem{RecipeID: curryID, Servings: 30})

	require.Len(t, res.Items, 2)

	c := res.Items[0]
	assert.Equal(t, chickenID, c.IngredientID)
	assert.Equal(t, int64(4), c.RequiredPurchaseUnits)
	assert.Equal(t, int64(3564), c.EstimatedAmountMinor)
	assert.InDelta(t, 3711.34, c.StockQuantity.Value(), 0.01)
	assert.Equal(t, "g", c.StockQuantity.Unit().Code)
	assert.InDelta(t, 4, c.PurchaseQuantity.Value(), 1e-9)
	assert.Equal(t, "kg", c.PurchaseQuantity.Unit().Code)

	o := res.Items[1]
	assert.Equal(t, onionID, o.IngredientID)
	assert.Equal(t, int64(2), o.RequiredPurchaseUnits)
	assert.Equal(t, int64(360), o.EstimatedAmountMinor)
	assert.InDelta(t, 1530.61, o.StockQuantity.Value(), 0.01)

	assert.Equal(t, int64(3924), res.TotalCostMinor)
}

func TestCalculateProcurement_SumsBeforeRounding(t *testing.T) {
	combined := procure(t, core.PlanItem{RecipeID: curryID, Servings: 30})
	split := procure(t,
		core.PlanItem{RecipeID: curryID, Servings: 10},
		core.PlanItem{RecipeID: curryID, Servings: 10},
		core.PlanItem{RecipeID: curryID, Servings: 10},
	)

	require.Len(t, split.Items, len(combined.Items))
	for i := range combined.Items {
		assert.Equal(t, combined.Items[i].RequiredPurchaseUnits, split.Items[i].RequiredPurchaseUnits)
		assert.Equal(t, combined.Items[i].EstimatedAmountMinor, split.Items[i].EstimatedAmountMinor)
	}
	// Rounding each 10-serving line on its own would buy 2 kg of chicken three times.
	assert.Equal(t, int64(4), split.Items[0].RequiredPurchaseUnits)
	assert.Equal(t, combined.TotalCostMinor, split.TotalCostMinor)
}

func TestCalculateProcurement_SharedIngredientAcrossRecipes(t *testing.T) {
	salad, err := core.NewRecipe(core.RecipeProps{
		ID:          11,
		TeamID:      1,
		Name:        "チキンサラダ",
		BatchOutput: qty(t, 1, "kg"),
		ServingSize: qty(t, 250, "g"),
		Version:     1,
		Items: []core.RecipeItem{
			{IngredientID: chickenID, Quantity: qty(t, 400, "g")},
		},
	})
	require.NoError(t, err)

	res, err := core.CalculateProcurement(core.ProcurementInput{
		PlanItems: []core.PlanItem{
			{RecipeID: 11, Servings: 4},
			{RecipeID: curryID, Servings: 10},
		},
		Recipes:     []core.Recipe{curry(t), salad},
		Ingredients: []core.Ingredient{chicken(t), onion(t)},
	})
	require.NoError(t, err)

	require.Len(t, res.Items, 2)
	// Chicken is first encountered through the salad.
	assert.Equal(t, chickenID, res.Items[0].IngredientID)
	// 400 g + 1237.11 g = 1637.11 g → 2 kg, not 1 kg + 2 kg.
	assert.InDelta(t, 1637.11, res.Items[0].StockQuantity.Value(), 0.01)
	assert.Equal(t, int64(2), res.Items[0].RequiredPurchaseUnits)
	assert.Equal(t, int64(1782), res.Items[0].EstimatedAmountMinor)
	assert.Equal(t, onionID, res.Items[1].IngredientID)
}

func TestCalculateProcurement_ZeroServings(t *testing.T) {
	res := procure(t, core.PlanItem{RecipeID: curryID, Servings: 0})
	assert.Empty(t, res.Items)
	assert.Zero(t, res.TotalCostMinor)

	withZero := procure(t,
		core.PlanItem{RecipeID: curryID, Servings: 0},
		core.PlanItem{RecipeID: curryID, Servings: 30},
	)
	assert.Equal(t, int64(3924), withZero.TotalCostMinor)
}

func TestCalculateProcurement_Failures(t *testing.T) {
	tests := []struct {
		name        string
		lines       []core.PlanItem
		ingredients func(t *testing.T) []core.Ingredient
		wantMsg     string
	}{
		{
			name:    "unknown recipe",
			lines:   []core.PlanItem{{RecipeID: 99, Servings: 1}},
			wantMsg: "recipe 99 not found",
		},
		{
			name:    "negative servings",
			lines:   []core.PlanItem{{RecipeID: curryID, Servings: -1}},
			wantMsg: "servings must be a non-negative number",
		},
		{
			name:    "non-finite servings",
			lines:   []core.PlanItem{{RecipeID: curryID, Servings: math.Inf(1)}},
			wantMsg: "servings must be a non-negative number",
		},
		{
			name:  "missing ingredient",
			lines: []core.PlanItem{{RecipeID: curryID, Servings: 30}},
			ingredients: func(t *testing.T) []core.Ingredient {
				return []core.Ingredient{chicken(t)}
			},
			wantMsg: "ingredient 2 missing for procurement calculation",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ings := []core.Ingredient{chicken(t), onion(t)}
			if tt.ingredients != nil {
				ings = tt.ingredients(t)
			}
			res, err := core.CalculateProcurement(core.ProcurementInput{
				PlanItems:   tt.lines,
				Recipes:     []core.Recipe{curry(t)},
				Ingredients: ings,
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Empty(t, res.Items, "no partial plan on failure")
		})
	}
}

func TestCalculateProcurement_WasteBoundary(t *testing.T) {
	noWaste := curryProps(t)
	noWaste.Items = noWaste.Items[:1]
	noWaste.Items[0].WasteRate = 0
	r, err := core.NewRecipe(noWaste)
	require.NoError(t, err)

	res, err := core.CalculateProcurement(core.ProcurementInput{
		PlanItems:   []core.PlanItem{{RecipeID: curryID, Servings: 10}},
		Recipes:     []core.Recipe{r},
		Ingredients: []core.Ingredient{chicken(t)},
	})
	require.NoError(t, err)
	assert.InDelta(t, 1200, res.Items[0].StockQuantity.Value(), 1e-9)

	prev := 0.0
	for _, w := range []float64{0.5, 0.9, 0.99, 0.999} {
		p := curryProps(t)
		p.Items = p.Items[:1]
		p.Items[0].WasteRate = w
		r, err := core.NewRecipe(p)
		require.NoError(t, err)
		cost, err := core.RecipeUnitCost(r, core.IndexIngredients([]core.Ingredient{chicken(t)}), core.DefaultCostingPolicy)
		require.NoError(t, err)
		assert.Greater(t, cost.Breakdown[0].ActualQty, prev)
		prev = cost.Breakdown[0].ActualQty
	}
	assert.Greater(t, prev, 1_000_000.0)
}

func TestSummarizePlan(t *testing.T) {
	p := curryProps(t)
	price := core.OfMinor(880)
	p.SellingPrice = &price
	r, err := core.NewRecipe(p)
	require.NoError(t, err)

	lines := []core.PlanItem{{RecipeID: curryID, Servings: 30}}
	proc, err := core.CalculateProcurement(core.ProcurementInput{
		PlanItems:   lines,
		Recipes:     []core.Recipe{r},
		Ingredients: []core.Ingredient{chicken(t), onion(t)},
	})
	require.NoError(t, err)

	sum, err := core.SummarizePlan(lines, []core.Recipe{r}, proc, core.DefaultCostingPolicy)
	require.NoError(t, err)
	assert.Equal(t, int64(26400), sum.RevenueMinor)
	assert.Equal(t, int64(3924), sum.CostMinor)
	assert.Equal(t, int64(22476), sum.GrossProfitMinor)
	require.NotNil(t, sum.MarginRate)
	assert.InDelta(t, 22476.0/26400.0, *sum.MarginRate, 1e-12)
	require.Len(t, sum.ByRecipe, 1)
	assert.Equal(t, 30.0, sum.ByRecipe[0].Servings)
	assert.Equal(t, int64(3924), sum.ByRecipe[0].CostMinor)
	assert.Equal(t, int64(22476), sum.ByRecipe[0].ProfitMinor)

	empty, err := core.SummarizePlan(lines, []core.Recipe{curry(t)}, proc, core.DefaultCostingPolicy)
	require.NoError(t, err)
	assert.Zero(t, empty.RevenueMinor)
	assert.Nil(t, empty.MarginRate)
}

func TestSummarizePlan_AllocatesCostByDemand(t *testing.T) {
	p := curryProps(t)
	price := core.OfMinor(880)
	p.SellingPrice = &price
	curryWithPrice, err := core.NewRecipe(p)
	require.NoError(t, err)
	salad, err := core.NewRecipe(core.RecipeProps{
		ID:          11,
		TeamID:      1,
		Name:        "チキンサラダ",
		BatchOutput: qty(t, 1, "kg"),
		ServingSize: qty(t, 250, "g"),
		Version:     1,
		Items: []core.RecipeItem{
			{IngredientID: chickenID, Quantity: qty(t, 400, "g")},
		},
	})
	require.NoError(t, err)
	recipes := []core.Recipe{curryWithPrice, salad}

	lines := []core.PlanItem{
		{RecipeID: 11, Servings: 4},
		{RecipeID: curryID, Servings: 10},
	}
	proc, err := core.CalculateProcurement(core.ProcurementInput{
		PlanItems:   lines,
		Recipes:     recipes,
		Ingredients: []core.Ingredient{chicken(t), onion(t)},
	})
	require.NoError(t, err)
	require.Equal(t, int64(1962), proc.TotalCostMinor)

	sum, err := core.SummarizePlan(lines, recipes, proc, core.DefaultCostingPolicy)
	require.NoError(t, err)
	require.Len(t, sum.ByRecipe, 2)

	// Chicken (1782) splits 1237.11 : 400 by grams; onion (180) is all curry.
	c := sum.ByRecipe[0]
	assert.Equal(t, curryID, c.RecipeID)
	assert.Equal(t, int64(8800), c.RevenueMinor)
	assert.Equal(t, int64(1527), c.CostMinor)
	assert.Equal(t, int64(7273), c.ProfitMinor)

	s := sum.ByRecipe[1]
	assert.Equal(t, 11, s.RecipeID)
	assert.Zero(t, s.RevenueMinor)
	assert.Equal(t, int64(435), s.CostMinor)
	assert.Equal(t, int64(-435), s.ProfitMinor)

	assert.Equal(t, sum.CostMinor, c.CostMinor+s.CostMinor)
}

func TestCalculateProcurement_RejectsAmountsBeyondInt64(t *testing.T) {
	tests := []struct {
		name     string
		servings float64
		wantMsg  string
	}{
		{
			name:     "purchase amount overflows",
			servings: 3e17,
			wantMsg:  "purchase amount for ingredient 1 is out of range",
		},
		{
			name:     "purchase units overflow",
			servings: 1e300,
			wantMsg:  "purchase units for ingredient 1 are out of range",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := core.CalculateProcurement(core.ProcurementInput{
				PlanItems:   []core.PlanItem{{RecipeID: curryID, Servings: tt.servings}},
				Recipes:     []core.Recipe{curry(t)},
				Ingredients: []core.Ingredient{chicken(t), onion(t)},
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Empty(t, res.Items)
			assert.Zero(t, res.TotalCostMinor)
		})
	}
}
