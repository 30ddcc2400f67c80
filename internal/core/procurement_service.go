package core

import "math"

// PlanItem asks for a number of servings of one recipe. Zero servings is a no-op.
type PlanItem struct {
	RecipeID int     `json:"recipe_id"`
	Servings float64 `json:"servings"`
}

type ProcurementInput struct {
	PlanItems   []PlanItem
	Recipes     []Recipe
	Ingredients []Ingredient
	// Policy defaults to DefaultCostingPolicy when its Round is nil.
	Policy CostingPolicy
}

// ProcurementLine is the purchase order for one ingredient.
type ProcurementLine struct {
	IngredientID          int      `json:"ingredient_id"`
	StockQuantity         Quantity `json:"stock_quantity"`
	PurchaseQuantity      Quantity `json:"purchase_quantity"`
	RequiredPurchaseUnits int64    `json:"required_purchase_units"`
	EstimatedAmountMinor  int64    `json:"estimated_amount_minor"`

	// DemandByRecipe splits StockQuantity by the recipe that needs it.
	DemandByRecipe map[int]float64 `json:"-"`
}

type ProcurementResult struct {
	Items          []ProcurementLine `json:"items"`
	TotalCostMinor int64             `json:"total_cost_minor"`
}

// demand accumulates stock-unit totals per ingredient in first-encounter order.
type demand struct {
	order    []int
	totals   map[int]float64
	byRecipe map[int]map[int]float64
}

func (d *demand) add(id, recipeID int, qty float64) {
	if _, seen := d.totals[id]; !seen {
		d.order = append(d.order, id)
		d.byRecipe[id] = make(map[int]float64)
	}
	d.totals[id] += qty
	d.byRecipe[id][recipeID] += qty
}

// CalculateProcurement sums ingredient demand across every plan line and then rounds
// each ingredient up to whole purchase units exactly once. Any invalid reference or
// value aborts the whole calculation.
func CalculateProcurement(in ProcurementInput) (ProcurementResult, error) {
	round := in.Policy.round()

	catalog := IndexIngredients(in.Ingredients)
	recipes := make(map[int]Recipe, len(in.Recipes))
	for _, r := range in.Recipes {
		recipes[r.ID] = r
	}

	acc := &demand{totals: make(map[int]float64), byRecipe: make(map[int]map[int]float64)}
	for _, line := range in.PlanItems {
		recipe, ok := recipes[line.RecipeID]
		if !ok {
			return ProcurementResult{}, validationError("recipe %d not found", line.RecipeID)
		}
		if !isFinite(line.Servings) || line.Servings < 0 {
			return ProcurementResult{}, validationError("servings must be a non-negative number, got %v", line.Servings)
		}
		if line.Servings == 0 {
			continue
		}

		portions, err := recipe.ServingsPerBatch()
		if err != nil {
			return ProcurementResult{}, err
		}
		if !isFinite(portions) || portions <= 0 {
			return ProcurementResult{}, validationError("recipe %d portions per batch must be positive", recipe.ID)
		}
		multiplier := line.Servings / portions

		for _, item := range recipe.Items {
			ing, ok := catalog[item.IngredientID]
			if !ok {
				return ProcurementResult{}, validationError("ingredient %d missing for procurement calculation", item.IngredientID)
			}
			perBatch, err := actualStockQuantity(item, ing)
			if err != nil {
				return ProcurementResult{}, err
			}
			acc.add(ing.ID, recipe.ID, perBatch*multiplier)
		}
	}

	result := ProcurementResult{Items: make([]ProcurementLine, 0, len(acc.order))}
	for _, id := range acc.order {
		total := acc.totals[id]
		if total <= 0 {
			continue
		}
		ing := catalog[id]

		perUnit, err := ing.PurchaseQuantityInStockUnits()
		if err != nil {
			return ProcurementResult{}, err
		}
		unitsNeeded := math.Ceil(total / perUnit.Value())
		if !isFinite(unitsNeeded) || unitsNeeded >= math.MaxInt64 {
			return ProcurementResult{}, validationError("purchase units for ingredient %d are out of range", id)
		}
		units := int64(unitsNeeded)

		var amount int64
		if units > 0 {
			net, err := ing.PurchasePriceExcludingTax(round)
			if err != nil {
				return ProcurementResult{}, err
			}
			amount, err = roundMinor(float64(net.AmountMinor())*unitsNeeded, round, "purchase amount for ingredient %d", id)
			if err != nil {
				return ProcurementResult{}, err
			}
		}
		purchase, err := ScaleQuantity(ing.PurchaseQuantity, float64(units))
		if err != nil {
			return ProcurementResult{}, err
		}

		result.TotalCostMinor, err = addMinor(result.TotalCostMinor, amount, "procurement total at ingredient %d", id)
		if err != nil {
			return ProcurementResult{}, err
		}
		result.Items = append(result.Items, ProcurementLine{
			IngredientID:          id,
			StockQuantity:         Quantity{value: total, unit: ing.StockUnit},
			PurchaseQuantity:      purchase,
			RequiredPurchaseUnits: units,
			EstimatedAmountMinor:  amount,
			DemandByRecipe:        acc.byRecipe[id],
		})
	}
	return result, nil
}
