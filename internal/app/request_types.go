package app

import (
	"github.com/shopspring/decimal"

	"recipe-costing/internal/core"
)

// RegisterIngredientRequest is the input for registering a new ingredient.
// Prices are whole minor units; a fractional amount is rejected.
type RegisterIngredientRequest struct {
	TeamID           int             `json:"-"`
	Name             string          `json:"name"`
	PurchaseQty      float64         `json:"purchase_qty"`
	PurchaseUnit     string          `json:"purchase_unit"`
	StockUnit        string          `json:"stock_unit"`
	ConversionFactor float64         `json:"conversion_factor"`
	PurchasePrice    decimal.Decimal `json:"purchase_price_minor"`
	TaxIncluded      bool            `json:"tax_included"`
	TaxRatePercent   float64         `json:"tax_rate_percent"`
	YieldRatePercent float64         `json:"yield_rate_percent"`
	SupplierID       *int            `json:"supplier_id,omitempty"`
}

// UpdateIngredientPricingRequest revises the pricing fields of an ingredient.
type UpdateIngredientPricingRequest struct {
	TeamID           int             `json:"-"`
	IngredientID     int             `json:"-"`
	Version          int             `json:"version"`
	PurchasePrice    decimal.Decimal `json:"purchase_price_minor"`
	TaxIncluded      bool            `json:"tax_included"`
	TaxRatePercent   float64         `json:"tax_rate_percent"`
	YieldRatePercent float64         `json:"yield_rate_percent"`
}

// RegisterSupplierRequest is the input for registering a supplier.
type RegisterSupplierRequest struct {
	TeamID       int    `json:"-"`
	Name         string `json:"name"`
	LeadTimeDays int    `json:"lead_time_days"`
}

type RecipeItemRequest struct {
	IngredientID int     `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	WasteRate    float64 `json:"waste_rate"`
}

// PreviewRecipeCostRequest describes an unsaved recipe.
type PreviewRecipeCostRequest struct {
	TeamID                  int                 `json:"-"`
	Name                    string              `json:"name"`
	BatchOutputQty          float64             `json:"batch_output_qty"`
	BatchOutputUnit         string              `json:"batch_output_unit"`
	ServingSizeQty          float64             `json:"serving_size_qty"`
	ServingSizeUnit         string              `json:"serving_size_unit"`
	PlatingYieldRatePercent *float64            `json:"plating_yield_rate_percent,omitempty"`
	SellingPrice            *decimal.Decimal    `json:"selling_price_minor,omitempty"`
	SellingPriceTaxIncluded bool                `json:"selling_price_tax_included"`
	SellingTaxRatePercent   *float64            `json:"selling_tax_rate_percent,omitempty"`
	Items                   []RecipeItemRequest `json:"items"`
}

// ProcurementRequest asks for a purchase plan over ad-hoc plan lines.
type ProcurementRequest struct {
	TeamID int             `json:"-"`
	Items  []core.PlanItem `json:"items"`
}
