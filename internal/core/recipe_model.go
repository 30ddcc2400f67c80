package core

import "strings"

// RecipeItem is one ingredient line of a recipe, measured per batch.
type RecipeItem struct {
	ID           int
	IngredientID int
	Quantity     Quantity
	// WasteRate is the fraction lost in the kitchen before the ingredient reaches
	// the batch, in [0, 1).
	WasteRate float64
}

// NewRecipeItem validates one ingredient line of a recipe.
func NewRecipeItem(item RecipeItem) (RecipeItem, error) {
	if item.IngredientID <= 0 {
		return RecipeItem{}, validationError("ingredient id must be positive")
	}
	if item.Quantity.IsZero() {
		return RecipeItem{}, validationError("quantity of ingredient %d is required", item.IngredientID)
	}
	if !isFinite(item.WasteRate) || item.WasteRate < 0 || item.WasteRate >= 1 {
		return RecipeItem{}, validationError("waste rate must be within [0, 1), got %v", item.WasteRate)
	}
	return item, nil
}

// RecipeProps holds the fields of a recipe before validation.
type RecipeProps struct {
	ID                      int
	TeamID                  int
	Name                    string
	BatchOutput             Quantity
	ServingSize             Quantity
	PlatingYieldRatePercent *float64
	SellingPrice            *Money
	SellingPriceTaxIncluded bool
	SellingTaxRatePercent   *float64
	Version                 int
	Items                   []RecipeItem
}

// Recipe is a validated recipe aggregate. Optional fields are nil when absent.
type Recipe struct {
	ID                      int
	TeamID                  int
	Name                    string
	BatchOutput             Quantity
	ServingSize             Quantity
	PlatingYieldRatePercent *float64
	SellingPrice            *Money
	SellingPriceTaxIncluded bool
	SellingTaxRatePercent   *float64
	Version                 int
	Items                   []RecipeItem
}

// NewRecipe validates props and returns a recipe that owns its own copy of the items.
func NewRecipe(props RecipeProps) (Recipe, error) {
	if props.TeamID <= 0 {
		return Recipe{}, validationError("teamId must be positive")
	}
	if strings.TrimSpace(props.Name) == "" {
		return Recipe{}, validationError("recipe name cannot be empty")
	}
	if props.BatchOutput.IsZero() || props.ServingSize.IsZero() {
		return Recipe{}, validationError("batch output and serving size are required")
	}
	if err := EnsureSameCategory(props.BatchOutput.Unit(), props.ServingSize.Unit()); err != nil {
		return Recipe{}, err
	}
	if p := props.PlatingYieldRatePercent; p != nil && (!isFinite(*p) || *p <= 0 || *p > 100) {
		return Recipe{}, validationError("plating yield rate must be within (0, 100], got %v", *p)
	}
	if t := props.SellingTaxRatePercent; t != nil && (!isFinite(*t) || *t < 0 || *t > 100) {
		return Recipe{}, validationError("selling tax rate must be within [0, 100], got %v", *t)
	}
	if props.Version <= 0 {
		return Recipe{}, validationError("version must be positive")
	}

	items := make([]RecipeItem, 0, len(props.Items))
	for _, it := range props.Items {
		valid, err := NewRecipeItem(it)
		if err != nil {
			return Recipe{}, err
		}
		items = append(items, valid)
	}
	if len(items) == 0 {
		return Recipe{}, validationError("recipe must contain at least one ingredient")
	}

	r := Recipe(props)
	r.Items = items
	r.PlatingYieldRatePercent = copyFloat(props.PlatingYieldRatePercent)
	r.SellingTaxRatePercent = copyFloat(props.SellingTaxRatePercent)
	if props.SellingPrice != nil {
		price := *props.SellingPrice
		r.SellingPrice = &price
	}
	return r, nil
}

// Props returns a copy of the recipe's fields for building a revision.
func (r Recipe) Props() RecipeProps {
	p := RecipeProps(r)
	p.Items = append([]RecipeItem(nil), r.Items...)
	return p
}

// Revise validates props as the next version of r. Identity fields are kept from r.
func (r Recipe) Revise(props RecipeProps) (Recipe, error) {
	props.ID = r.ID
	props.TeamID = r.TeamID
	props.Version = r.Version + 1
	return NewRecipe(props)
}

// PlatingYield returns the plating yield percent, defaulting to 100.
func (r Recipe) PlatingYield() float64 {
	if r.PlatingYieldRatePercent == nil {
		return 100
	}
	return *r.PlatingYieldRatePercent
}

// ServingsPerBatch is the number of servable portions one batch yields after plating
// loss. The result may be fractional.
func (r Recipe) ServingsPerBatch() (float64, error) {
	effective, err := ScaleQuantity(r.BatchOutput, r.PlatingYield()/100)
	if err != nil {
		return 0, err
	}
	serving, err := ConvertQuantity(r.ServingSize, effective.Unit())
	if err != nil {
		return 0, err
	}
	return effective.Value() / serving.Value(), nil
}

// SellingPriceExcludingTax strips the recipe's selling tax. ok is false when the
// recipe has no selling price.
func (r Recipe) SellingPriceExcludingTax(rounding RoundingPolicy) (price Money, ok bool, err error) {
	if r.SellingPrice == nil {
		return Money{}, false, nil
	}
	rate := 0.0
	if r.SellingTaxRatePercent != nil {
		rate = *r.SellingTaxRatePercent
	}
	price, err = PriceExcludingTax(*r.SellingPrice, TaxConfig{
		RatePercent: rate,
		Included:    r.SellingPriceTaxIncluded,
		Rounding:    rounding,
	})
	if err != nil {
		return Money{}, false, err
	}
	return price, true, nil
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
