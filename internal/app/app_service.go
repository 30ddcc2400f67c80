package app

import (
	"context"
	"fmt"

	"recipe-costing/internal/core"
	"recipe-costing/internal/logger"
)

type appService struct {
	repo   CatalogRepository
	policy core.CostingPolicy
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(repo CatalogRepository, policy core.CostingPolicy) ApplicationService {
	return &appService{repo: repo, policy: policy}
}

// ListUnits returns every registered measurement unit.
func (s *appService) ListUnits(_ context.Context) *UnitsResult {
	units := core.Units()
	out := make([]UnitView, 0, len(units))
	for _, u := range units {
		out = append(out, UnitView{Code: u.Code, Category: u.Category, RatioToBase: u.RatioToBase()})
	}
	return &UnitsResult{Units: out}
}

// ListIngredients returns a team's ingredients.
func (s *appService) ListIngredients(ctx context.Context, teamID int) (*IngredientsResult, error) {
	ings, err := s.repo.ListIngredients(ctx, teamID)
	if err != nil {
		return nil, err
	}
	views := make([]IngredientView, 0, len(ings))
	for _, ing := range ings {
		v, err := s.ingredientView(ing)
		if err != nil {
			return nil, fmt.Errorf("ingredient %d: %w", ing.ID, err)
		}
		views = append(views, v)
	}
	return &IngredientsResult{Ingredients: views}, nil
}

// RegisterIngredient validates and stores a new ingredient.
func (s *appService) RegisterIngredient(ctx context.Context, req RegisterIngredientRequest) (*IngredientResult, error) {
	purchase, err := core.QuantityOf(req.PurchaseQty, req.PurchaseUnit)
	if err != nil {
		return nil, err
	}
	stock, err := core.GetUnit(req.StockUnit)
	if err != nil {
		return nil, err
	}
	conv, err := core.NewConversion(purchase.Unit(), stock, req.ConversionFactor)
	if err != nil {
		return nil, err
	}
	price, err := core.OfMinorDecimal(req.PurchasePrice)
	if err != nil {
		return nil, err
	}

	ing, err := core.NewIngredient(core.IngredientProps{
		TeamID:           req.TeamID,
		Name:             req.Name,
		PurchaseQuantity: purchase,
		StockUnit:        stock,
		Conversion:       conv,
		PurchasePrice:    price,
		TaxIncluded:      req.TaxIncluded,
		TaxRatePercent:   req.TaxRatePercent,
		YieldRatePercent: req.YieldRatePercent,
		SupplierID:       req.SupplierID,
		Version:          1,
	})
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.CreateIngredient(ctx, ing)
	if err != nil {
		return nil, fmt.Errorf("failed to store ingredient: %w", err)
	}
	logger.Info(ctx, "ingredient registered",
		logger.Int("team_id", saved.TeamID), logger.Int("ingredient_id", saved.ID))

	v, err := s.ingredientView(saved)
	if err != nil {
		return nil, err
	}
	return &IngredientResult{Ingredient: v}, nil
}

// UpdateIngredientPricing revises an ingredient's pricing under an optimistic version check.
func (s *appService) UpdateIngredientPricing(ctx context.Context, req UpdateIngredientPricingRequest) (*IngredientResult, error) {
	current, err := s.repo.GetIngredient(ctx, req.TeamID, req.IngredientID)
	if err != nil {
		return nil, err
	}
	if current.Version != req.Version {
		logger.Warn(ctx, "stale ingredient update rejected",
			logger.Int("ingredient_id", current.ID),
			logger.Int("stored_version", current.Version),
			logger.Int("request_version", req.Version))
		return nil, fmt.Errorf("ingredient %d is at version %d, not %d: %w",
			current.ID, current.Version, req.Version, ErrStaleVersion)
	}

	price, err := core.OfMinorDecimal(req.PurchasePrice, current.PurchasePrice.Currency())
	if err != nil {
		return nil, err
	}
	props := current.Props()
	props.PurchasePrice = price
	props.TaxIncluded = req.TaxIncluded
	props.TaxRatePercent = req.TaxRatePercent
	props.YieldRatePercent = req.YieldRatePercent

	next, err := current.Revise(props)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.UpdateIngredient(ctx, next, current.Version)
	if err != nil {
		return nil, err
	}

	v, err := s.ingredientView(saved)
	if err != nil {
		return nil, err
	}
	return &IngredientResult{Ingredient: v}, nil
}

// ListRecipes returns a team's recipes.
func (s *appService) ListRecipes(ctx context.Context, teamID int) (*RecipesResult, error) {
	recipes, err := s.repo.ListRecipes(ctx, teamID)
	if err != nil {
		return nil, err
	}
	views := make([]RecipeView, 0, len(recipes))
	for _, r := range recipes {
		views = append(views, recipeView(r))
	}
	return &RecipesResult{Recipes: views}, nil
}

// GetRecipeCost costs a stored recipe.
func (s *appService) GetRecipeCost(ctx context.Context, teamID, recipeID int) (*RecipeCostResult, error) {
	recipe, err := s.repo.GetRecipe(ctx, teamID, recipeID)
	if err != nil {
		return nil, err
	}
	return s.costRecipe(ctx, recipe)
}

// PreviewRecipeCost validates and costs an unsaved recipe.
func (s *appService) PreviewRecipeCost(ctx context.Context, req PreviewRecipeCostRequest) (*RecipeCostResult, error) {
	recipe, err := recipeFromRequest(req)
	if err != nil {
		return nil, err
	}
	return s.costRecipe(ctx, recipe)
}

func (s *appService) costRecipe(ctx context.Context, recipe core.Recipe) (*RecipeCostResult, error) {
	ings, err := s.repo.ListIngredients(ctx, recipe.TeamID)
	if err != nil {
		return nil, err
	}

	cost, err := core.RecipeUnitCost(recipe, core.IndexIngredients(ings), s.policy)
	if err != nil {
		logger.Warn(ctx, "recipe costing failed",
			logger.Int("recipe_id", recipe.ID), logger.ErrorF(err))
		return nil, err
	}
	ratio, err := core.RecipeCostRatio(recipe, cost, s.policy)
	if err != nil {
		return nil, err
	}

	logger.Debug(ctx, "recipe costed",
		logger.Int("recipe_id", recipe.ID),
		logger.Int64("batch_cost_minor", cost.BatchCostMinor),
		logger.Int64("unit_cost_minor", cost.UnitCostMinor))

	return &RecipeCostResult{
		Recipe:           recipeView(recipe),
		Cost:             cost,
		CostRatioPercent: ratio,
	}, nil
}

// ListSuppliers returns a team's suppliers.
func (s *appService) ListSuppliers(ctx context.Context, teamID int) (*SuppliersResult, error) {
	suppliers, err := s.repo.ListSuppliers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return &SuppliersResult{Suppliers: suppliers}, nil
}

// RegisterSupplier validates and stores a supplier.
func (s *appService) RegisterSupplier(ctx context.Context, req RegisterSupplierRequest) (*SupplierResult, error) {
	supplier, err := core.NewSupplier(core.Supplier{
		TeamID:       req.TeamID,
		Name:         req.Name,
		LeadTimeDays: req.LeadTimeDays,
	})
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.CreateSupplier(ctx, supplier)
	if err != nil {
		return nil, fmt.Errorf("failed to store supplier: %w", err)
	}
	return &SupplierResult{Supplier: saved}, nil
}

// CalculateProcurement builds a purchase plan for ad-hoc plan lines.
func (s *appService) CalculateProcurement(ctx context.Context, req ProcurementRequest) (*ProcurementResult, error) {
	return s.procure(ctx, req.TeamID, req.Items)
}

// CalculateSalesPlan builds a purchase plan for a stored sales plan.
func (s *appService) CalculateSalesPlan(ctx context.Context, teamID, planID int) (*SalesPlanResult, error) {
	plan, err := s.repo.GetSalesPlan(ctx, teamID, planID)
	if err != nil {
		return nil, err
	}
	proc, err := s.procure(ctx, teamID, plan.PlanItems())
	if err != nil {
		return nil, fmt.Errorf("sales plan %d: %w", plan.ID, err)
	}
	return &SalesPlanResult{Plan: plan, Procurement: *proc}, nil
}

func (s *appService) procure(ctx context.Context, teamID int, items []core.PlanItem) (*ProcurementResult, error) {
	recipes, err := s.repo.ListRecipes(ctx, teamID)
	if err != nil {
		return nil, err
	}
	ings, err := s.repo.ListIngredients(ctx, teamID)
	if err != nil {
		return nil, err
	}

	result, err := core.CalculateProcurement(core.ProcurementInput{
		PlanItems:   items,
		Recipes:     recipes,
		Ingredients: ings,
		Policy:      s.policy,
	})
	if err != nil {
		logger.Warn(ctx, "procurement failed", logger.Int("team_id", teamID), logger.ErrorF(err))
		return nil, err
	}
	summary, err := core.SummarizePlan(items, recipes, result, s.policy)
	if err != nil {
		return nil, err
	}

	names := make(map[int]string, len(ings))
	for _, ing := range ings {
		names[ing.ID] = ing.Name
	}
	lines := make([]ProcurementLineView, 0, len(result.Items))
	for _, line := range result.Items {
		lines = append(lines, ProcurementLineView{ProcurementLine: line, IngredientName: names[line.IngredientID]})
	}

	logger.Debug(ctx, "procurement calculated",
		logger.Int("team_id", teamID),
		logger.Int("plan_lines", len(items)),
		logger.Int64("total_cost_minor", result.TotalCostMinor))

	return &ProcurementResult{
		Items:          lines,
		TotalCostMinor: result.TotalCostMinor,
		Summary:        summary,
	}, nil
}

func (s *appService) ingredientView(ing core.Ingredient) (IngredientView, error) {
	net, err := ing.PurchasePriceExcludingTax(s.policy.Round)
	if err != nil {
		return IngredientView{}, err
	}
	unitCost, err := core.EffectiveUnitCost(core.EffectiveUnitCostInput{
		PurchasePrice:    net,
		PurchaseQty:      ing.PurchaseQuantity,
		Conversion:       ing.Conversion,
		YieldRatePercent: ing.YieldRatePercent,
	})
	if err != nil {
		return IngredientView{}, err
	}
	return IngredientView{
		ID:                     ing.ID,
		Name:                   ing.Name,
		PurchaseQuantity:       ing.PurchaseQuantity,
		StockUnit:              ing.StockUnit.Code,
		ConversionFactor:       ing.Conversion.Factor(),
		PurchasePriceMinor:     ing.PurchasePrice.AmountMinor(),
		PurchasePrice:          ing.PurchasePrice.ToMajor(),
		PurchasePriceNetMinor:  net.AmountMinor(),
		TaxIncluded:            ing.TaxIncluded,
		TaxRatePercent:         ing.TaxRatePercent,
		YieldRatePercent:       ing.YieldRatePercent,
		SupplierID:             ing.SupplierID,
		Version:                ing.Version,
		EffectiveStockUnitCost: unitCost,
	}, nil
}

func recipeView(r core.Recipe) RecipeView {
	v := RecipeView{
		ID:                      r.ID,
		Name:                    r.Name,
		BatchOutput:             r.BatchOutput,
		ServingSize:             r.ServingSize,
		PlatingYieldRatePercent: r.PlatingYield(),
		SellingPriceTaxIncluded: r.SellingPriceTaxIncluded,
		SellingTaxRatePercent:   r.SellingTaxRatePercent,
		Version:                 r.Version,
		Items:                   make([]RecipeItemView, 0, len(r.Items)),
	}
	if r.SellingPrice != nil {
		amount := r.SellingPrice.AmountMinor()
		v.SellingPriceMinor = &amount
	}
	for _, it := range r.Items {
		v.Items = append(v.Items, RecipeItemView{IngredientID: it.IngredientID, Quantity: it.Quantity, WasteRate: it.WasteRate})
	}
	return v
}

func recipeFromRequest(req PreviewRecipeCostRequest) (core.Recipe, error) {
	batch, err := core.QuantityOf(req.BatchOutputQty, req.BatchOutputUnit)
	if err != nil {
		return core.Recipe{}, fmt.Errorf("batch output: %w", err)
	}
	serving, err := core.QuantityOf(req.ServingSizeQty, req.ServingSizeUnit)
	if err != nil {
		return core.Recipe{}, fmt.Errorf("serving size: %w", err)
	}

	items := make([]core.RecipeItem, 0, len(req.Items))
	for i, it := range req.Items {
		q, err := core.QuantityOf(it.Quantity, it.Unit)
		if err != nil {
			return core.Recipe{}, fmt.Errorf("item %d: %w", i+1, err)
		}
		items = append(items, core.RecipeItem{IngredientID: it.IngredientID, Quantity: q, WasteRate: it.WasteRate})
	}

	props := core.RecipeProps{
		TeamID:                  req.TeamID,
		Name:                    req.Name,
		BatchOutput:             batch,
		ServingSize:             serving,
		PlatingYieldRatePercent: req.PlatingYieldRatePercent,
		SellingPriceTaxIncluded: req.SellingPriceTaxIncluded,
		SellingTaxRatePercent:   req.SellingTaxRatePercent,
		Version:                 1,
		Items:                   items,
	}
	if req.SellingPrice != nil {
		price, err := core.OfMinorDecimal(*req.SellingPrice)
		if err != nil {
			return core.Recipe{}, fmt.Errorf("selling price: %w", err)
		}
		props.SellingPrice = &price
	}
	return core.NewRecipe(props)
}
