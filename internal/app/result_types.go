package app

import (
	"github.com/shopspring/decimal"

	"recipe-costing/internal/core"
)

type UnitView struct {
	Code        string        `json:"code"`
	Category    core.Category `json:"category"`
	RatioToBase float64       `json:"ratio_to_base"`
}

// UnitsResult holds all registered units.
type UnitsResult struct {
	Units []UnitView `json:"units"`
}

// IngredientView is the presentation shape of an ingredient.
type IngredientView struct {
	ID                     int             `json:"id"`
	Name                   string          `json:"name"`
	PurchaseQuantity       core.Quantity   `json:"purchase_quantity"`
	StockUnit              string          `json:"stock_unit"`
	ConversionFactor       float64         `json:"conversion_factor"`
	PurchasePriceMinor     int64           `json:"purchase_price_minor"`
	PurchasePrice          decimal.Decimal `json:"purchase_price"`
	PurchasePriceNetMinor  int64           `json:"purchase_price_net_minor"`
	TaxIncluded            bool            `json:"tax_included"`
	TaxRatePercent         float64         `json:"tax_rate_percent"`
	YieldRatePercent       float64         `json:"yield_rate_percent"`
	SupplierID             *int            `json:"supplier_id,omitempty"`
	Version                int             `json:"version"`
	EffectiveStockUnitCost float64         `json:"effective_stock_unit_cost"`
}

// IngredientResult holds a single ingredient.
type IngredientResult struct {
	Ingredient IngredientView `json:"ingredient"`
}

// IngredientsResult holds a team's ingredients.
type IngredientsResult struct {
	Ingredients []IngredientView `json:"ingredients"`
}

type RecipeItemView struct {
	IngredientID int           `json:"ingredient_id"`
	Quantity     core.Quantity `json:"quantity"`
	WasteRate    float64       `json:"waste_rate"`
}

// RecipeView is the presentation shape of a recipe.
type RecipeView struct {
	ID                      int              `json:"id"`
	Name                    string           `json:"name"`
	BatchOutput             core.Quantity    `json:"batch_output"`
	ServingSize             core.Quantity    `json:"serving_size"`
	PlatingYieldRatePercent float64          `json:"plating_yield_rate_percent"`
	SellingPriceMinor       *int64           `json:"selling_price_minor,omitempty"`
	SellingPriceTaxIncluded bool             `json:"selling_price_tax_included"`
	SellingTaxRatePercent   *float64         `json:"selling_tax_rate_percent,omitempty"`
	Version                 int              `json:"version"`
	Items                   []RecipeItemView `json:"items"`
}

// RecipesResult holds a team's recipes.
type RecipesResult struct {
	Recipes []RecipeView `json:"recipes"`
}

// RecipeCostResult is the cost of one recipe. CostRatioPercent is nil when the
// recipe has no selling price.
type RecipeCostResult struct {
	Recipe           RecipeView            `json:"recipe"`
	Cost             core.RecipeCostResult `json:"cost"`
	CostRatioPercent *float64              `json:"cost_ratio_percent,omitempty"`
}

// SupplierResult holds a single supplier.
type SupplierResult struct {
	Supplier core.Supplier `json:"supplier"`
}

// SuppliersResult holds a team's suppliers.
type SuppliersResult struct {
	Suppliers []core.Supplier `json:"suppliers"`
}

// ProcurementLineView is one purchase line labelled with the ingredient name.
type ProcurementLineView struct {
	core.ProcurementLine
	IngredientName string `json:"ingredient_name"`
}

// ProcurementResult is a purchase plan plus the plan's revenue summary.
type ProcurementResult struct {
	Items          []ProcurementLineView `json:"items"`
	TotalCostMinor int64                 `json:"total_cost_minor"`
	Summary        core.PlanSummary      `json:"summary"`
}

// SalesPlanResult is the purchase plan for a stored sales plan.
type SalesPlanResult struct {
	Plan        core.SalesPlan    `json:"plan"`
	Procurement ProcurementResult `json:"procurement"`
}
