// Command costing costs recipes and plans purchases from a YAML catalog file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"recipe-costing/internal/app"
	"recipe-costing/internal/config"
	"recipe-costing/internal/core"
	"recipe-costing/internal/logger"
	"recipe-costing/internal/store/file"
)

var (
	catalogPath string
	unitsPath   string
	teamFlag    int
	jsonOutput  bool
	verbose     bool

	svc app.ApplicationService
)

var rootCmd = &cobra.Command{
	Use:   "costing",
	Short: "Recipe costing and procurement planning",
	Long: `costing reads a catalog of ingredients, recipes and sales plans from a YAML
file and prints per-portion recipe costs and purchase plans.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		if err := logger.Init(level, false); err != nil {
			return err
		}
		if unitsPath == "" {
			unitsPath = os.Getenv("UNITS_FILE")
		}
		return config.RegisterUnits(unitsPath)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List registered measurement units",
	Args:  cobra.NoArgs,
	RunE:  listUnits,
}

var costCmd = &cobra.Command{
	Use:   "cost <recipe-id>",
	Short: "Cost one portion of a recipe",
	Args:  cobra.ExactArgs(1),
	RunE:  costRecipe,
}

var procureCmd = &cobra.Command{
	Use:   "procure <recipe-id>=<servings>...",
	Short: "Plan purchases for a set of recipe servings",
	Example: `  costing procure 10=30 11=12
  costing procure --plan 20`,
	RunE: procure,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the catalog file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := file.Schema()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	},
}

var planID int

func init() {
	rootCmd.PersistentFlags().StringVarP(&catalogPath, "catalog", "c", "catalog.yaml", "YAML catalog file")
	rootCmd.PersistentFlags().StringVar(&unitsPath, "units", "", "YAML file with extra unit definitions (default $UNITS_FILE)")
	rootCmd.PersistentFlags().IntVar(&teamFlag, "team", 1, "team whose records are used")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of a table")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	procureCmd.Flags().IntVar(&planID, "plan", 0, "use a stored sales plan instead of arguments")

	rootCmd.AddCommand(unitsCmd, costCmd, procureCmd, schemaCmd)
}

// service loads the catalog on first use.
func service() (app.ApplicationService, error) {
	if svc != nil {
		return svc, nil
	}
	store, err := file.Load(catalogPath)
	if err != nil {
		return nil, err
	}
	svc = app.NewAppService(store, core.DefaultCostingPolicy)
	return svc, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
