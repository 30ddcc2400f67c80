package app

import (
	"context"
	"errors"

	"recipe-costing/internal/core"
)

var (
	// ErrNotFound is returned when a referenced row does not exist for the team.
	ErrNotFound = errors.New("not found")
	// ErrStaleVersion is returned when an update was based on an outdated version.
	ErrStaleVersion = errors.New("stale version")
)

// CatalogRepository loads and stores team-scoped catalog data. Implementations
// return values already validated through the core constructors.
type CatalogRepository interface {
	ListIngredients(ctx context.Context, teamID int) ([]core.Ingredient, error)
	GetIngredient(ctx context.Context, teamID, id int) (core.Ingredient, error)
	// CreateIngredient stores ing and returns it with its assigned ID.
	CreateIngredient(ctx context.Context, ing core.Ingredient) (core.Ingredient, error)
	// UpdateIngredient replaces the row whose version is expectedVersion.
	UpdateIngredient(ctx context.Context, ing core.Ingredient, expectedVersion int) (core.Ingredient, error)

	ListRecipes(ctx context.Context, teamID int) ([]core.Recipe, error)
	GetRecipe(ctx context.Context, teamID, id int) (core.Recipe, error)

	ListSuppliers(ctx context.Context, teamID int) ([]core.Supplier, error)
	CreateSupplier(ctx context.Context, s core.Supplier) (core.Supplier, error)

	GetSalesPlan(ctx context.Context, teamID, id int) (core.SalesPlan, error)
}
