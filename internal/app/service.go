package app

import (
	"context"
)

// ApplicationService is the single interface all adapters (CLI, Web) call.
// It decouples presentation from the costing engine. Implementations contain no
// formatting or display logic of any kind.
type ApplicationService interface {
	// ListUnits returns every registered measurement unit.
	ListUnits(ctx context.Context) *UnitsResult

	// ListIngredients returns a team's ingredients with their effective stock-unit cost.
	ListIngredients(ctx context.Context, teamID int) (*IngredientsResult, error)

	// RegisterIngredient validates and stores a new ingredient at version 1.
	RegisterIngredient(ctx context.Context, req RegisterIngredientRequest) (*IngredientResult, error)

	// UpdateIngredientPricing revises price, tax and yield of an ingredient.
	// req.Version must equal the stored version, otherwise ErrStaleVersion is returned.
	UpdateIngredientPricing(ctx context.Context, req UpdateIngredientPricingRequest) (*IngredientResult, error)

	// ListRecipes returns a team's recipes.
	ListRecipes(ctx context.Context, teamID int) (*RecipesResult, error)

	// GetRecipeCost costs a stored recipe against the team's current ingredients.
	GetRecipeCost(ctx context.Context, teamID, recipeID int) (*RecipeCostResult, error)

	// PreviewRecipeCost costs an unsaved recipe against the team's current ingredients.
	PreviewRecipeCost(ctx context.Context, req PreviewRecipeCostRequest) (*RecipeCostResult, error)

	// ListSuppliers returns a team's suppliers.
	ListSuppliers(ctx context.Context, teamID int) (*SuppliersResult, error)

	// RegisterSupplier validates and stores a new supplier.
	RegisterSupplier(ctx context.Context, req RegisterSupplierRequest) (*SupplierResult, error)

	// CalculateProcurement builds a purchase plan and a revenue summary for ad-hoc plan lines.
	CalculateProcurement(ctx context.Context, req ProcurementRequest) (*ProcurementResult, error)

	// CalculateSalesPlan builds a purchase plan for a stored sales plan.
	CalculateSalesPlan(ctx context.Context, teamID, planID int) (*SalesPlanResult, error)
}
