package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"recipe-costing/internal/app"
	"recipe-costing/internal/core"
	"recipe-costing/internal/store/file"
)

func listUnits(cmd *cobra.Command, args []string) error {
	result := app.NewAppService(file.NewStore(), core.DefaultCostingPolicy).ListUnits(cmd.Context())
	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, result)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tCATEGORY\tRATIO TO BASE")
	for _, u := range result.Units {
		fmt.Fprintf(tw, "%s\t%s\t%g\n", u.Code, u.Category, u.RatioToBase)
	}
	return tw.Flush()
}

func costRecipe(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return fmt.Errorf("recipe id must be a positive integer, got %q", args[0])
	}
	s, err := service()
	if err != nil {
		return err
	}
	result, err := s.GetRecipeCost(cmd.Context(), teamFlag, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, result)
	}

	names, err := ingredientNames(cmd, s)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s (batch %s, portion %s)\n\n", result.Recipe.Name, result.Recipe.BatchOutput, result.Recipe.ServingSize)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "INGREDIENT\tSTOCK QTY\tCOST\t")
	for _, line := range result.Cost.Breakdown {
		fmt.Fprintf(tw, "%s\t%.2f\t%d\t\n", names[line.IngredientID], line.ActualQty, line.ItemCostMinor)
	}
	fmt.Fprintf(tw, "batch\t\t%d\t\n", result.Cost.BatchCostMinor)
	fmt.Fprintf(tw, "portions\t\t%g\t\n", result.Cost.PortionsPerBatch)
	fmt.Fprintf(tw, "per portion\t\t%d\t\n", result.Cost.UnitCostMinor)
	if result.CostRatioPercent != nil {
		fmt.Fprintf(tw, "cost ratio\t\t%.1f%%\t\n", *result.CostRatioPercent)
	}
	return tw.Flush()
}

func procure(cmd *cobra.Command, args []string) error {
	s, err := service()
	if err != nil {
		return err
	}

	var result *app.ProcurementResult
	switch {
	case planID > 0:
		if len(args) > 0 {
			return fmt.Errorf("--plan cannot be combined with recipe arguments")
		}
		plan, err := s.CalculateSalesPlan(cmd.Context(), teamFlag, planID)
		if err != nil {
			return err
		}
		result = &plan.Procurement
	case len(args) == 0:
		return fmt.Errorf("give at least one <recipe-id>=<servings> or --plan")
	default:
		items, err := parsePlanArgs(args)
		if err != nil {
			return err
		}
		result, err = s.CalculateProcurement(cmd.Context(), app.ProcurementRequest{TeamID: teamFlag, Items: items})
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, result)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "INGREDIENT\tNEEDED\tUNITS\tPACK\tAMOUNT\t")
	for _, line := range result.Items {
		fmt.Fprintf(tw, "%s\t%.2f %s\t%d\t%s\t%d\t\n",
			line.IngredientName,
			line.StockQuantity.Value(), line.StockQuantity.Unit(),
			line.RequiredPurchaseUnits,
			line.PurchaseQuantity,
			line.EstimatedAmountMinor)
	}
	fmt.Fprintf(tw, "total\t\t\t\t%d\t\n", result.TotalCostMinor)
	fmt.Fprintf(tw, "revenue\t\t\t\t%d\t\n", result.Summary.RevenueMinor)
	fmt.Fprintf(tw, "gross profit\t\t\t\t%d\t\n", result.Summary.GrossProfitMinor)
	if result.Summary.MarginRate != nil {
		fmt.Fprintf(tw, "margin\t\t\t\t%.1f%%\t\n", *result.Summary.MarginRate*100)
	}
	return tw.Flush()
}

// parsePlanArgs reads arguments of the form <recipe-id>=<servings>.
func parsePlanArgs(args []string) ([]core.PlanItem, error) {
	items := make([]core.PlanItem, 0, len(args))
	for _, arg := range args {
		idText, servingsText, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("%q: expected <recipe-id>=<servings>", arg)
		}
		id, err := strconv.Atoi(strings.TrimSpace(idText))
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%q: recipe id must be a positive integer", arg)
		}
		servings, err := strconv.ParseFloat(strings.TrimSpace(servingsText), 64)
		if err != nil {
			return nil, fmt.Errorf("%q: servings must be a number", arg)
		}
		items = append(items, core.PlanItem{RecipeID: id, Servings: servings})
	}
	return items, nil
}

func ingredientNames(cmd *cobra.Command, s app.ApplicationService) (map[int]string, error) {
	result, err := s.ListIngredients(cmd.Context(), teamFlag)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(result.Ingredients))
	for _, ing := range result.Ingredients {
		names[ing.ID] = ing.Name
	}
	return names, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
