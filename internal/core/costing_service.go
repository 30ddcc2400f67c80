package core

// CostingPolicy carries the rounding strategy used by costing and procurement.
type CostingPolicy struct {
	Round RoundingPolicy
}

// DefaultCostingPolicy rounds half away from zero.
var DefaultCostingPolicy = CostingPolicy{Round: RoundHalfUp}

func (p CostingPolicy) round() RoundingPolicy {
	if p.Round == nil {
		return RoundHalfUp
	}
	return p.Round
}

// IngredientCatalog is the id → ingredient lookup used by costing and procurement.
type IngredientCatalog map[int]Ingredient

// IndexIngredients builds a catalog. A later ingredient with a duplicate id wins.
func IndexIngredients(ingredients []Ingredient) IngredientCatalog {
	catalog := make(IngredientCatalog, len(ingredients))
	for _, ing := range ingredients {
		catalog[ing.ID] = ing
	}
	return catalog
}

func (c IngredientCatalog) lookup(id int) (Ingredient, error) {
	ing, ok := c[id]
	if !ok {
		return Ingredient{}, validationError("Ingredient %d not found in costing context", id)
	}
	return ing, nil
}

type EffectiveUnitCostInput struct {
	PurchasePrice    Money
	PurchaseQty      Quantity
	Conversion       Conversion
	YieldRatePercent float64
}

// EffectiveUnitCost is the cost of one stock unit in minor units after the
// ingredient's own yield loss. The result is not rounded.
func EffectiveUnitCost(in EffectiveUnitCostInput) (float64, error) {
	if !isFinite(in.YieldRatePercent) || in.YieldRatePercent <= 0 || in.YieldRatePercent > 100 {
		return 0, validationError("yield rate must be within (0, 100], got %v", in.YieldRatePercent)
	}
	stock, err := ApplyConversion(in.PurchaseQty, in.Conversion)
	if err != nil {
		return 0, err
	}
	base := float64(in.PurchasePrice.AmountMinor()) / stock.Value()
	return base / (in.YieldRatePercent / 100), nil
}

// CostBreakdownLine is the cost of one recipe item within a batch.
type CostBreakdownLine struct {
	IngredientID  int     `json:"ingredient_id"`
	ItemCostMinor int64   `json:"item_cost_minor"`
	ActualQty     float64 `json:"actual_qty"`
}

type RecipeCostResult struct {
	UnitCostMinor    int64               `json:"unit_cost_minor"`
	BatchCostMinor   int64               `json:"batch_cost_minor"`
	PortionsPerBatch float64             `json:"portions_per_batch"`
	Breakdown        []CostBreakdownLine `json:"breakdown"`
}

// RecipeUnitCost costs one batch of recipe and divides it across the batch's
// portions. Each item is rounded on its own before summing; the per-portion cost
// is rounded once more. Ingredients are priced net of their purchase tax.
func RecipeUnitCost(recipe Recipe, catalog IngredientCatalog, policy CostingPolicy) (RecipeCostResult, error) {
	round := policy.round()

	portions, err := recipe.ServingsPerBatch()
	if err != nil {
		return RecipeCostResult{}, err
	}
	if !isFinite(portions) || portions <= 0 {
		return RecipeCostResult{}, validationError("recipe portions per batch must be positive")
	}

	var batchCost int64
	breakdown := make([]CostBreakdownLine, 0, len(recipe.Items))
	for _, item := range recipe.Items {
		ing, err := catalog.lookup(item.IngredientID)
		if err != nil {
			return RecipeCostResult{}, err
		}
		net, err := ing.PurchasePriceExcludingTax(round)
		if err != nil {
			return RecipeCostResult{}, err
		}
		unitCost, err := EffectiveUnitCost(EffectiveUnitCostInput{
			PurchasePrice:    net,
			PurchaseQty:      ing.PurchaseQuantity,
			Conversion:       ing.Conversion,
			YieldRatePercent: ing.YieldRatePercent,
		})
		if err != nil {
			return RecipeCostResult{}, err
		}

		actualQty, err := actualStockQuantity(item, ing)
		if err != nil {
			return RecipeCostResult{}, err
		}
		itemCost, err := roundMinor(actualQty*unitCost, round, "cost of ingredient %d", item.IngredientID)
		if err != nil {
			return RecipeCostResult{}, err
		}
		batchCost, err = addMinor(batchCost, itemCost, "batch cost of recipe %d", recipe.ID)
		if err != nil {
			return RecipeCostResult{}, err
		}
		breakdown = append(breakdown, CostBreakdownLine{
			IngredientID:  item.IngredientID,
			ItemCostMinor: itemCost,
			ActualQty:     actualQty,
		})
	}

	unitCost, err := roundMinor(float64(batchCost)/portions, round, "unit cost of recipe %d", recipe.ID)
	if err != nil {
		return RecipeCostResult{}, err
	}
	return RecipeCostResult{
		UnitCostMinor:    unitCost,
		BatchCostMinor:   batchCost,
		PortionsPerBatch: portions,
		Breakdown:        breakdown,
	}, nil
}

// actualStockQuantity converts an item's quantity to the ingredient's stock unit and
// inflates it by the item's waste rate.
func actualStockQuantity(item RecipeItem, ing Ingredient) (float64, error) {
	converted, err := ConvertQuantity(item.Quantity, ing.StockUnit)
	if err != nil {
		return 0, err
	}
	return converted.Value() / (1 - item.WasteRate), nil
}

// RecipeCostRatio is the unit cost as a percentage of the tax-exclusive selling
// price. It returns nil when the recipe has no selling price or it is zero.
func RecipeCostRatio(recipe Recipe, cost RecipeCostResult, policy CostingPolicy) (*float64, error) {
	price, ok, err := recipe.SellingPriceExcludingTax(policy.round())
	if err != nil || !ok || price.IsZero() {
		return nil, err
	}
	ratio := float64(cost.UnitCostMinor) / float64(price.AmountMinor()) * 100
	return &ratio, nil
}
