package core

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxSalesPlanNameLength = 160

type SalesPlanItem struct {
	ID       int `json:"id"`
	RecipeID int `json:"recipe_id"`
	Servings int `json:"servings"`
}

// SalesPlan is a named forecast of servings per recipe over a date range.
type SalesPlan struct {
	ID        int             `json:"id"`
	TeamID    int             `json:"team_id"`
	Name      string          `json:"name"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	Items     []SalesPlanItem `json:"items"`
}

// NewSalesPlan validates p and returns it with a trimmed name and copied items.
func NewSalesPlan(p SalesPlan) (SalesPlan, error) {
	if p.TeamID <= 0 {
		return SalesPlan{}, validationError("teamId must be positive")
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return SalesPlan{}, validationError("sales plan name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxSalesPlanNameLength {
		return SalesPlan{}, validationError("sales plan name must be %d characters or fewer", MaxSalesPlanNameLength)
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return SalesPlan{}, validationError("sales plan start and end dates are required")
	}
	if p.EndDate.Before(p.StartDate) {
		return SalesPlan{}, validationError("sales plan end date must not be before start date")
	}
	items := make([]SalesPlanItem, 0, len(p.Items))
	for _, it := range p.Items {
		if it.RecipeID <= 0 {
			return SalesPlan{}, validationError("recipe id must be positive")
		}
		if it.Servings < 0 {
			return SalesPlan{}, validationError("servings must be a non-negative integer")
		}
		items = append(items, it)
	}
	p.Name = name
	p.Items = items
	return p, nil
}

// PlanItems converts the plan into procurement input lines.
func (p SalesPlan) PlanItems() []PlanItem {
	out := make([]PlanItem, 0, len(p.Items))
	for _, it := range p.Items {
		out = append(out, PlanItem{RecipeID: it.RecipeID, Servings: float64(it.Servings)})
	}
	return out
}

// RecipeSales is the planned revenue of one recipe and the share of the purchase
// cost its servings account for.
type RecipeSales struct {
	RecipeID     int     `json:"recipe_id"`
	Name         string  `json:"name"`
	Servings     float64 `json:"servings"`
	RevenueMinor int64   `json:"revenue_minor"`
	CostMinor    int64   `json:"cost_minor"`
	ProfitMinor  int64   `json:"profit_minor"`
}

// PlanSummary compares planned revenue against the procurement cost.
type PlanSummary struct {
	RevenueMinor     int64         `json:"revenue_minor"`
	CostMinor        int64         `json:"cost_minor"`
	GrossProfitMinor int64         `json:"gross_profit_minor"`
	MarginRate       *float64      `json:"margin_rate"`
	ByRecipe         []RecipeSales `json:"by_recipe"`
}

// SummarizePlan prices plan lines at each recipe's listed selling price. Recipes
// without a selling price contribute no revenue. MarginRate is a fraction and is nil
// when revenue is zero. ByRecipe is ordered by revenue, highest first.
//
// Each procurement line's amount is split across recipes in proportion to their
// stock demand for that ingredient, so recipe costs add up to the plan cost up to
// rounding.
func SummarizePlan(items []PlanItem, recipes []Recipe, procurement ProcurementResult, policy CostingPolicy) (PlanSummary, error) {
	round := policy.round()
	byID := make(map[int]Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}

	var order []int
	sales := make(map[int]*RecipeSales)
	var revenue int64
	for _, line := range items {
		r, ok := byID[line.RecipeID]
		if !ok {
			return PlanSummary{}, validationError("recipe %d not found", line.RecipeID)
		}
		if !isFinite(line.Servings) || line.Servings < 0 {
			return PlanSummary{}, validationError("servings must be a non-negative number, got %v", line.Servings)
		}
		entry, seen := sales[r.ID]
		if !seen {
			entry = &RecipeSales{RecipeID: r.ID, Name: r.Name}
			sales[r.ID] = entry
			order = append(order, r.ID)
		}
		entry.Servings += line.Servings
		if r.SellingPrice != nil {
			lineRevenue, err := Mul(*r.SellingPrice, line.Servings, round)
			if err != nil {
				return PlanSummary{}, err
			}
			entry.RevenueMinor += lineRevenue.AmountMinor()
			revenue += lineRevenue.AmountMinor()
		}
	}

	summary := PlanSummary{
		RevenueMinor:     revenue,
		CostMinor:        procurement.TotalCostMinor,
		GrossProfitMinor: revenue - procurement.TotalCostMinor,
		ByRecipe:         make([]RecipeSales, 0, len(order)),
	}
	if revenue > 0 {
		rate := float64(summary.GrossProfitMinor) / float64(revenue)
		summary.MarginRate = &rate
	}
	allocated := make(map[int]float64, len(order))
	for _, line := range procurement.Items {
		total := line.StockQuantity.Value()
		if total <= 0 {
			continue
		}
		for recipeID, qty := range line.DemandByRecipe {
			allocated[recipeID] += float64(line.EstimatedAmountMinor) * qty / total
		}
	}
	for _, id := range order {
		entry := *sales[id]
		cost, err := roundMinor(allocated[id], round, "cost of recipe %d", id)
		if err != nil {
			return PlanSummary{}, err
		}
		entry.CostMinor = cost
		entry.ProfitMinor = entry.RevenueMinor - cost
		summary.ByRecipe = append(summary.ByRecipe, entry)
	}
	sort.SliceStable(summary.ByRecipe, func(i, j int) bool {
		return summary.ByRecipe[i].RevenueMinor > summary.ByRecipe[j].RevenueMinor
	})
	return summary, nil
}
