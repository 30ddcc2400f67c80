package file

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"recipe-costing/internal/core"
)

const dateLayout = "2006-01-02"

// Document is the on-disk catalog of one team.
type Document struct {
	TeamID      int                  `yaml:"team_id" json:"team_id" jsonschema_description:"Team that owns every record in this document"`
	Suppliers   []SupplierDocument   `yaml:"suppliers,omitempty" json:"suppliers,omitempty"`
	Ingredients []IngredientDocument `yaml:"ingredients" json:"ingredients"`
	Recipes     []RecipeDocument     `yaml:"recipes" json:"recipes"`
	SalesPlans  []SalesPlanDocument  `yaml:"sales_plans,omitempty" json:"sales_plans,omitempty"`
}

type SupplierDocument struct {
	ID           int    `yaml:"id" json:"id"`
	Name         string `yaml:"name" json:"name" jsonschema_description:"Supplier name, 1-120 characters"`
	LeadTimeDays int    `yaml:"lead_time_days" json:"lead_time_days"`
}

type IngredientDocument struct {
	ID               int             `yaml:"id" json:"id"`
	Name             string          `yaml:"name" json:"name"`
	PurchaseQty      float64         `yaml:"purchase_qty" json:"purchase_qty" jsonschema_description:"Size of one purchase unit, in purchase_unit"`
	PurchaseUnit     string          `yaml:"purchase_unit" json:"purchase_unit"`
	StockUnit        string          `yaml:"stock_unit" json:"stock_unit"`
	ConversionFactor float64         `yaml:"conversion_factor" json:"conversion_factor" jsonschema_description:"Stock units yielded by one purchase_unit"`
	PurchasePrice    decimal.Decimal `yaml:"purchase_price_minor" json:"purchase_price_minor" jsonschema:"type=number" jsonschema_description:"Price of one purchase quantity in whole minor units"`
	TaxIncluded      bool            `yaml:"tax_included" json:"tax_included"`
	TaxRatePercent   float64         `yaml:"tax_rate_percent" json:"tax_rate_percent"`
	YieldRatePercent float64         `yaml:"yield_rate_percent" json:"yield_rate_percent" jsonschema_description:"Usable share after trimming, in (0, 100]"`
	SupplierID       *int            `yaml:"supplier_id,omitempty" json:"supplier_id,omitempty"`
	Version          int             `yaml:"version,omitempty" json:"version,omitempty"`
}

type QuantityDocument struct {
	Qty  float64 `yaml:"qty" json:"qty"`
	Unit string  `yaml:"unit" json:"unit"`
}

type RecipeItemDocument struct {
	IngredientID int     `yaml:"ingredient_id" json:"ingredient_id"`
	Qty          float64 `yaml:"qty" json:"qty"`
	Unit         string  `yaml:"unit" json:"unit"`
	WasteRate    float64 `yaml:"waste_rate,omitempty" json:"waste_rate,omitempty" jsonschema_description:"Kitchen loss fraction in [0, 1)"`
}

type RecipeDocument struct {
	ID                      int                  `yaml:"id" json:"id"`
	Name                    string               `yaml:"name" json:"name"`
	BatchOutput             QuantityDocument     `yaml:"batch_output" json:"batch_output"`
	ServingSize             QuantityDocument     `yaml:"serving_size" json:"serving_size"`
	PlatingYieldRatePercent *float64             `yaml:"plating_yield_rate_percent,omitempty" json:"plating_yield_rate_percent,omitempty"`
	SellingPrice            *int64               `yaml:"selling_price_minor,omitempty" json:"selling_price_minor,omitempty"`
	SellingPriceTaxIncluded bool                 `yaml:"selling_price_tax_included,omitempty" json:"selling_price_tax_included,omitempty"`
	SellingTaxRatePercent   *float64             `yaml:"selling_tax_rate_percent,omitempty" json:"selling_tax_rate_percent,omitempty"`
	Version                 int                  `yaml:"version,omitempty" json:"version,omitempty"`
	Items                   []RecipeItemDocument `yaml:"items" json:"items"`
}

type SalesPlanItemDocument struct {
	RecipeID int `yaml:"recipe_id" json:"recipe_id"`
	Servings int `yaml:"servings" json:"servings"`
}

type SalesPlanDocument struct {
	ID        int                     `yaml:"id" json:"id"`
	Name      string                  `yaml:"name" json:"name"`
	StartDate string                  `yaml:"start_date" json:"start_date" jsonschema:"format=date"`
	EndDate   string                  `yaml:"end_date" json:"end_date" jsonschema:"format=date"`
	Items     []SalesPlanItemDocument `yaml:"items" json:"items"`
}

func versionOrFirst(v int) int {
	if v == 0 {
		return 1
	}
	return v
}

func (d IngredientDocument) build(teamID int) (core.Ingredient, error) {
	purchase, err := core.QuantityOf(d.PurchaseQty, d.PurchaseUnit)
	if err != nil {
		return core.Ingredient{}, err
	}
	stock, err := core.GetUnit(d.StockUnit)
	if err != nil {
		return core.Ingredient{}, err
	}
	conv, err := core.NewConversion(purchase.Unit(), stock, d.ConversionFactor)
	if err != nil {
		return core.Ingredient{}, err
	}
	price, err := core.OfMinorDecimal(d.PurchasePrice)
	if err != nil {
		return core.Ingredient{}, err
	}
	return core.NewIngredient(core.IngredientProps{
		ID:               d.ID,
		TeamID:           teamID,
		Name:             d.Name,
		PurchaseQuantity: purchase,
		StockUnit:        stock,
		Conversion:       conv,
		PurchasePrice:    price,
		TaxIncluded:      d.TaxIncluded,
		TaxRatePercent:   d.TaxRatePercent,
		YieldRatePercent: d.YieldRatePercent,
		SupplierID:       d.SupplierID,
		Version:          versionOrFirst(d.Version),
	})
}

func (d RecipeDocument) build(teamID int) (core.Recipe, error) {
	batch, err := core.QuantityOf(d.BatchOutput.Qty, d.BatchOutput.Unit)
	if err != nil {
		return core.Recipe{}, fmt.Errorf("batch_output: %w", err)
	}
	serving, err := core.QuantityOf(d.ServingSize.Qty, d.ServingSize.Unit)
	if err != nil {
		return core.Recipe{}, fmt.Errorf("serving_size: %w", err)
	}
	items := make([]core.RecipeItem, 0, len(d.Items))
	for i, it := range d.Items {
		q, err := core.QuantityOf(it.Qty, it.Unit)
		if err != nil {
			return core.Recipe{}, fmt.Errorf("items[%d]: %w", i, err)
		}
		items = append(items, core.RecipeItem{ID: i + 1, IngredientID: it.IngredientID, Quantity: q, WasteRate: it.WasteRate})
	}
	props := core.RecipeProps{
		ID:                      d.ID,
		TeamID:                  teamID,
		Name:                    d.Name,
		BatchOutput:             batch,
		ServingSize:             serving,
		PlatingYieldRatePercent: d.PlatingYieldRatePercent,
		SellingPriceTaxIncluded: d.SellingPriceTaxIncluded,
		SellingTaxRatePercent:   d.SellingTaxRatePercent,
		Version:                 versionOrFirst(d.Version),
		Items:                   items,
	}
	if d.SellingPrice != nil {
		price := core.OfMinor(*d.SellingPrice)
		props.SellingPrice = &price
	}
	return core.NewRecipe(props)
}

func (d SalesPlanDocument) build(teamID int) (core.SalesPlan, error) {
	start, err := time.Parse(dateLayout, d.StartDate)
	if err != nil {
		return core.SalesPlan{}, fmt.Errorf("start_date: %w", err)
	}
	end, err := time.Parse(dateLayout, d.EndDate)
	if err != nil {
		return core.SalesPlan{}, fmt.Errorf("end_date: %w", err)
	}
	items := make([]core.SalesPlanItem, 0, len(d.Items))
	for i, it := range d.Items {
		items = append(items, core.SalesPlanItem{ID: i + 1, RecipeID: it.RecipeID, Servings: it.Servings})
	}
	return core.NewSalesPlan(core.SalesPlan{
		ID:        d.ID,
		TeamID:    teamID,
		Name:      d.Name,
		StartDate: start,
		EndDate:   end,
		Items:     items,
	})
}
