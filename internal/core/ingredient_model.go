package core

import "strings"

// IngredientProps holds the fields of an ingredient before validation.
type IngredientProps struct {
	ID               int
	TeamID           int
	Name             string
	PurchaseQuantity Quantity
	StockUnit        Unit
	Conversion       Conversion
	PurchasePrice    Money
	TaxIncluded      bool
	TaxRatePercent   float64
	YieldRatePercent float64
	SupplierID       *int
	Version          int
}

// Ingredient is a purchasable raw material. Values are only built by NewIngredient
// or Revise, so every Ingredient satisfies its invariants.
type Ingredient struct {
	ID               int
	TeamID           int
	Name             string
	PurchaseQuantity Quantity
	StockUnit        Unit
	Conversion       Conversion
	PurchasePrice    Money
	TaxIncluded      bool
	TaxRatePercent   float64
	YieldRatePercent float64
	SupplierID       *int
	Version          int
}

// NewIngredient validates props. Checks run in a fixed order and the first failure
// is returned: team, name, required quantities, conversion origin, conversion
// target, category, yield rate, tax rate, version.
func NewIngredient(props IngredientProps) (Ingredient, error) {
	if props.TeamID <= 0 {
		return Ingredient{}, validationError("teamId must be positive")
	}
	if strings.TrimSpace(props.Name) == "" {
		return Ingredient{}, validationError("ingredient name cannot be empty")
	}
	if props.PurchaseQuantity.IsZero() {
		return Ingredient{}, validationError("purchase quantity is required")
	}
	if props.StockUnit.Code == "" {
		return Ingredient{}, validationError("stock unit is required")
	}
	if props.Conversion.From().Code == "" || props.Conversion.To().Code == "" {
		return Ingredient{}, validationError("purchase to stock conversion is required")
	}
	if !SameUnit(props.PurchaseQuantity.Unit(), props.Conversion.From()) {
		return Ingredient{}, validationError("conversion origin %s does not match purchase quantity unit %s",
			props.Conversion.From().Code, props.PurchaseQuantity.Unit().Code)
	}
	if !SameUnit(props.StockUnit, props.Conversion.To()) {
		return Ingredient{}, validationError("conversion target %s does not match stock unit %s",
			props.Conversion.To().Code, props.StockUnit.Code)
	}
	if err := EnsureSameCategory(props.PurchaseQuantity.Unit(), props.StockUnit); err != nil {
		return Ingredient{}, err
	}
	if !isFinite(props.YieldRatePercent) || props.YieldRatePercent <= 0 || props.YieldRatePercent > 100 {
		return Ingredient{}, validationError("yield rate must be within (0, 100], got %v", props.YieldRatePercent)
	}
	if !isFinite(props.TaxRatePercent) || props.TaxRatePercent < 0 {
		return Ingredient{}, validationError("tax rate must be non-negative, got %v", props.TaxRatePercent)
	}
	if props.Version <= 0 {
		return Ingredient{}, validationError("version must be positive")
	}

	ing := Ingredient(props)
	if props.SupplierID != nil {
		id := *props.SupplierID
		ing.SupplierID = &id
	}
	return ing, nil
}

// Props returns the ingredient's fields for building a revision.
func (i Ingredient) Props() IngredientProps {
	return IngredientProps(i)
}

// Revise validates props as the next version of i. Identity fields are kept from i.
func (i Ingredient) Revise(props IngredientProps) (Ingredient, error) {
	props.ID = i.ID
	props.TeamID = i.TeamID
	props.Version = i.Version + 1
	return NewIngredient(props)
}

// PurchaseQuantityInStockUnits is the stock-unit yield of one purchase unit.
func (i Ingredient) PurchaseQuantityInStockUnits() (Quantity, error) {
	return ApplyConversion(i.PurchaseQuantity, i.Conversion)
}

// PurchasePriceExcludingTax applies the ingredient's own tax treatment to its price.
func (i Ingredient) PurchasePriceExcludingTax(rounding RoundingPolicy) (Money, error) {
	return PriceExcludingTax(i.PurchasePrice, TaxConfig{
		RatePercent: i.TaxRatePercent,
		Included:    i.TaxIncluded,
		Rounding:    rounding,
	})
}
