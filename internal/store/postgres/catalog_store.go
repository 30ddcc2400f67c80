// Package postgres implements the catalog repository on PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"recipe-costing/internal/app"
	"recipe-costing/internal/core"
)

// CatalogStore reads and writes team-scoped catalog rows.
type CatalogStore struct {
	pool *pgxpool.Pool
}

var _ app.CatalogRepository = (*CatalogStore)(nil)

func NewCatalogStore(pool *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{pool: pool}
}

const ingredientColumns = `id, team_id, name, purchase_qty, purchase_unit, stock_unit,
	conv_purchase_to_stock, purchase_price_minor, currency, tax_included,
	tax_rate_percent, yield_rate_percent, supplier_id, version`

type ingredientRow struct {
	ID               int
	TeamID           int
	Name             string
	PurchaseQty      decimal.Decimal
	PurchaseUnit     string
	StockUnit        string
	Conversion       decimal.Decimal
	PriceMinor       int64
	Currency         string
	TaxIncluded      bool
	TaxRatePercent   decimal.Decimal
	YieldRatePercent decimal.Decimal
	SupplierID       *int
	Version          int
}

func scanIngredient(row pgx.Row) (core.Ingredient, error) {
	var r ingredientRow
	if err := row.Scan(
		&r.ID, &r.TeamID, &r.Name, &r.PurchaseQty, &r.PurchaseUnit, &r.StockUnit,
		&r.Conversion, &r.PriceMinor, &r.Currency, &r.TaxIncluded,
		&r.TaxRatePercent, &r.YieldRatePercent, &r.SupplierID, &r.Version,
	); err != nil {
		return core.Ingredient{}, err
	}
	return r.toCore()
}

func (r ingredientRow) toCore() (core.Ingredient, error) {
	purchase, err := core.QuantityOf(r.PurchaseQty.InexactFloat64(), r.PurchaseUnit)
	if err != nil {
		return core.Ingredient{}, fmt.Errorf("ingredient %d: %w", r.ID, err)
	}
	stock, err := core.GetUnit(r.StockUnit)
	if err != nil {
		return core.Ingredient{}, fmt.Errorf("ingredient %d: %w", r.ID, err)
	}
	conv, err := core.NewConversion(purchase.Unit(), stock, r.Conversion.InexactFloat64())
	if err != nil {
		return core.Ingredient{}, fmt.Errorf("ingredient %d: %w", r.ID, err)
	}
	ing, err := core.NewIngredient(core.IngredientProps{
		ID:               r.ID,
		TeamID:           r.TeamID,
		Name:             r.Name,
		PurchaseQuantity: purchase,
		StockUnit:        stock,
		Conversion:       conv,
		PurchasePrice:    core.OfMinor(r.PriceMinor, core.Currency(r.Currency)),
		TaxIncluded:      r.TaxIncluded,
		TaxRatePercent:   r.TaxRatePercent.InexactFloat64(),
		YieldRatePercent: r.YieldRatePercent.InexactFloat64(),
		SupplierID:       r.SupplierID,
		Version:          r.Version,
	})
	if err != nil {
		return core.Ingredient{}, fmt.Errorf("ingredient %d: %w", r.ID, err)
	}
	return ing, nil
}

func (s *CatalogStore) ListIngredients(ctx context.Context, teamID int) ([]core.Ingredient, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE team_id = $1 ORDER BY id`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()

	var out []core.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

func (s *CatalogStore) GetIngredient(ctx context.Context, teamID, id int) (core.Ingredient, error) {
	ing, err := scanIngredient(s.pool.QueryRow(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE team_id = $1 AND id = $2`, teamID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Ingredient{}, fmt.Errorf("ingredient %d: %w", id, app.ErrNotFound)
	}
	if err != nil {
		return core.Ingredient{}, fmt.Errorf("get ingredient %d: %w", id, err)
	}
	return ing, nil
}

func (s *CatalogStore) CreateIngredient(ctx context.Context, ing core.Ingredient) (core.Ingredient, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO ingredients (team_id, name, purchase_qty, purchase_unit, stock_unit,
			conv_purchase_to_stock, purchase_price_minor, currency, tax_included,
			tax_rate_percent, yield_rate_percent, supplier_id, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`,
		ing.TeamID, ing.Name,
		decimal.NewFromFloat(ing.PurchaseQuantity.Value()), ing.PurchaseQuantity.Unit().Code, ing.StockUnit.Code,
		decimal.NewFromFloat(ing.Conversion.Factor()), ing.PurchasePrice.AmountMinor(), string(ing.PurchasePrice.Currency()),
		ing.TaxIncluded, decimal.NewFromFloat(ing.TaxRatePercent), decimal.NewFromFloat(ing.YieldRatePercent),
		ing.SupplierID, ing.Version,
	).Scan(&ing.ID)
	if err != nil {
		return core.Ingredient{}, fmt.Errorf("insert ingredient: %w", err)
	}
	return ing, nil
}

func (s *CatalogStore) UpdateIngredient(ctx context.Context, ing core.Ingredient, expectedVersion int) (core.Ingredient, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE ingredients SET
			name = $1, purchase_qty = $2, purchase_unit = $3, stock_unit = $4,
			conv_purchase_to_stock = $5, purchase_price_minor = $6, currency = $7,
			tax_included = $8, tax_rate_percent = $9, yield_rate_percent = $10,
			supplier_id = $11, version = $12, updated_at = NOW()
		WHERE team_id = $13 AND id = $14 AND version = $15`,
		ing.Name, decimal.NewFromFloat(ing.PurchaseQuantity.Value()), ing.PurchaseQuantity.Unit().Code, ing.StockUnit.Code,
		decimal.NewFromFloat(ing.Conversion.Factor()), ing.PurchasePrice.AmountMinor(), string(ing.PurchasePrice.Currency()),
		ing.TaxIncluded, decimal.NewFromFloat(ing.TaxRatePercent), decimal.NewFromFloat(ing.YieldRatePercent),
		ing.SupplierID, ing.Version,
		ing.TeamID, ing.ID, expectedVersion,
	)
	if err != nil {
		return core.Ingredient{}, fmt.Errorf("update ingredient %d: %w", ing.ID, err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.GetIngredient(ctx, ing.TeamID, ing.ID); err != nil {
			return core.Ingredient{}, err
		}
		return core.Ingredient{}, fmt.Errorf("ingredient %d: %w", ing.ID, app.ErrStaleVersion)
	}
	return ing, nil
}

const recipeColumns = `id, team_id, name, batch_output_qty, batch_output_unit,
	serving_size_qty, serving_size_unit, plating_yield_rate_percent,
	selling_price_minor, selling_price_tax_included, selling_tax_rate_percent, version`

type recipeRow struct {
	ID                    int
	TeamID                int
	Name                  string
	BatchQty              decimal.Decimal
	BatchUnit             string
	ServingQty            decimal.Decimal
	ServingUnit           string
	PlatingYield          decimal.NullDecimal
	SellingPriceMinor     *int64
	SellingTaxIncluded    bool
	SellingTaxRatePercent decimal.NullDecimal
	Version               int
}

func scanRecipe(row pgx.Row) (recipeRow, error) {
	var r recipeRow
	err := row.Scan(
		&r.ID, &r.TeamID, &r.Name, &r.BatchQty, &r.BatchUnit,
		&r.ServingQty, &r.ServingUnit, &r.PlatingYield,
		&r.SellingPriceMinor, &r.SellingTaxIncluded, &r.SellingTaxRatePercent, &r.Version,
	)
	return r, err
}

type recipeItemRow struct {
	ID           int
	RecipeID     int
	IngredientID int
	Quantity     decimal.Decimal
	Unit         string
	WasteRate    decimal.Decimal
}

func nullFloat(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	v := d.Decimal.InexactFloat64()
	return &v
}

func (r recipeRow) toCore(items []recipeItemRow) (core.Recipe, error) {
	batch, err := core.QuantityOf(r.BatchQty.InexactFloat64(), r.BatchUnit)
	if err != nil {
		return core.Recipe{}, fmt.Errorf("recipe %d: %w", r.ID, err)
	}
	serving, err := core.QuantityOf(r.ServingQty.InexactFloat64(), r.ServingUnit)
	if err != nil {
		return core.Recipe{}, fmt.Errorf("recipe %d: %w", r.ID, err)
	}
	coreItems := make([]core.RecipeItem, 0, len(items))
	for _, it := range items {
		q, err := core.QuantityOf(it.Quantity.InexactFloat64(), it.Unit)
		if err != nil {
			return core.Recipe{}, fmt.Errorf("recipe %d item %d: %w", r.ID, it.ID, err)
		}
		coreItems = append(coreItems, core.RecipeItem{
			ID:           it.ID,
			IngredientID: it.IngredientID,
			Quantity:     q,
			WasteRate:    it.WasteRate.InexactFloat64(),
		})
	}
	props := core.RecipeProps{
		ID:                      r.ID,
		TeamID:                  r.TeamID,
		Name:                    r.Name,
		BatchOutput:             batch,
		ServingSize:             serving,
		PlatingYieldRatePercent: nullFloat(r.PlatingYield),
		SellingPriceTaxIncluded: r.SellingTaxIncluded,
		SellingTaxRatePercent:   nullFloat(r.SellingTaxRatePercent),
		Version:                 r.Version,
		Items:                   coreItems,
	}
	if r.SellingPriceMinor != nil {
		price := core.OfMinor(*r.SellingPriceMinor)
		props.SellingPrice = &price
	}
	recipe, err := core.NewRecipe(props)
	if err != nil {
		return core.Recipe{}, fmt.Errorf("recipe %d: %w", r.ID, err)
	}
	return recipe, nil
}

// recipeItems loads items for every recipe of a team, or for one recipe when
// recipeID is non-zero, keyed by recipe id in position order.
func (s *CatalogStore) recipeItems(ctx context.Context, teamID, recipeID int) (map[int][]recipeItemRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ri.id, ri.recipe_id, ri.ingredient_id, ri.quantity, ri.unit, ri.waste_rate
		FROM recipe_items ri
		JOIN recipes r ON r.id = ri.recipe_id
		WHERE r.team_id = $1 AND ($2 = 0 OR r.id = $2)
		ORDER BY ri.recipe_id, ri.position, ri.id`, teamID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list recipe items: %w", err)
	}
	defer rows.Close()

	out := make(map[int][]recipeItemRow)
	for rows.Next() {
		var it recipeItemRow
		if err := rows.Scan(&it.ID, &it.RecipeID, &it.IngredientID, &it.Quantity, &it.Unit, &it.WasteRate); err != nil {
			return nil, fmt.Errorf("scan recipe item: %w", err)
		}
		out[it.RecipeID] = append(out[it.RecipeID], it)
	}
	return out, rows.Err()
}

func (s *CatalogStore) ListRecipes(ctx context.Context, teamID int) ([]core.Recipe, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE team_id = $1 ORDER BY id`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	var recipeRows []recipeRow
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipeRows = append(recipeRows, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := s.recipeItems(ctx, teamID, 0)
	if err != nil {
		return nil, err
	}
	out := make([]core.Recipe, 0, len(recipeRows))
	for _, r := range recipeRows {
		recipe, err := r.toCore(items[r.ID])
		if err != nil {
			return nil, err
		}
		out = append(out, recipe)
	}
	return out, nil
}

func (s *CatalogStore) GetRecipe(ctx context.Context, teamID, id int) (core.Recipe, error) {
	r, err := scanRecipe(s.pool.QueryRow(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE team_id = $1 AND id = $2`, teamID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Recipe{}, fmt.Errorf("recipe %d: %w", id, app.ErrNotFound)
	}
	if err != nil {
		return core.Recipe{}, fmt.Errorf("get recipe %d: %w", id, err)
	}
	items, err := s.recipeItems(ctx, teamID, id)
	if err != nil {
		return core.Recipe{}, err
	}
	return r.toCore(items[id])
}

func (s *CatalogStore) ListSuppliers(ctx context.Context, teamID int) ([]core.Supplier, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, team_id, name, lead_time_days FROM suppliers WHERE team_id = $1 ORDER BY id`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var out []core.Supplier
	for rows.Next() {
		var sup core.Supplier
		if err := rows.Scan(&sup.ID, &sup.TeamID, &sup.Name, &sup.LeadTimeDays); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		out = append(out, sup)
	}
	return out, rows.Err()
}

func (s *CatalogStore) CreateSupplier(ctx context.Context, sup core.Supplier) (core.Supplier, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO suppliers (team_id, name, lead_time_days) VALUES ($1, $2, $3) RETURNING id`,
		sup.TeamID, sup.Name, sup.LeadTimeDays,
	).Scan(&sup.ID)
	if err != nil {
		return core.Supplier{}, fmt.Errorf("insert supplier: %w", err)
	}
	return sup, nil
}

func (s *CatalogStore) GetSalesPlan(ctx context.Context, teamID, id int) (core.SalesPlan, error) {
	var plan core.SalesPlan
	err := s.pool.QueryRow(ctx,
		`SELECT id, team_id, name, start_date, end_date FROM sales_plans WHERE team_id = $1 AND id = $2`,
		teamID, id,
	).Scan(&plan.ID, &plan.TeamID, &plan.Name, &plan.StartDate, &plan.EndDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.SalesPlan{}, fmt.Errorf("sales plan %d: %w", id, app.ErrNotFound)
	}
	if err != nil {
		return core.SalesPlan{}, fmt.Errorf("get sales plan %d: %w", id, err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, recipe_id, servings FROM sales_plan_items WHERE sales_plan_id = $1 ORDER BY id`, id)
	if err != nil {
		return core.SalesPlan{}, fmt.Errorf("list sales plan items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it core.SalesPlanItem
		if err := rows.Scan(&it.ID, &it.RecipeID, &it.Servings); err != nil {
			return core.SalesPlan{}, fmt.Errorf("scan sales plan item: %w", err)
		}
		plan.Items = append(plan.Items, it)
	}
	if err := rows.Err(); err != nil {
		return core.SalesPlan{}, err
	}
	return core.NewSalesPlan(plan)
}
