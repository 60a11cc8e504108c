package main

import (
	"delivery-scenario-service/internal/config"
	"delivery-scenario-service/internal/platform/logging"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "planner",
		Short:        "Compare delivery scenarios across driver counts",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			envErr := config.LoadDotEnv()
			// stdout carries the result; logs go to stderr.
			logging.Init(cmd.ErrOrStderr(), config.Get("LOG_LEVEL", "warn"), config.Get("LOG_FORMAT", ""))
			if envErr != nil {
				log := logging.Get()
				log.Debug().Msg("no .env file found (using environment variables)")
			}
		},
	}

	root.AddCommand(compareCmd())
	return root
}

func compareCmd() *cobra.Command {
	var opts compareOptions

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Evaluate candidate driver counts for an order file and recommend one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.depotSet = cmd.Flags().Changed("depot-lon") || cmd.Flags().Changed("depot-lat")
			return runCompare(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.ordersPath, "orders", "", "JSON file with an array of orders")
	f.IntSliceVar(&opts.candidates, "candidates", nil, "driver counts to compare (default from config, else 1,2)")
	f.StringVar(&opts.objective, "objective", "", "minimize_max or minimize_total")
	f.StringVar(&opts.metric, "metric", "", "distance or duration")
	f.StringVar(&opts.provider, "provider", "straightline", "travel cost provider: straightline or ors")
	f.Float64Var(&opts.speedKPH, "speed", 40, "average speed for the straight-line provider (km/h)")
	f.StringVar(&opts.configPath, "config", "", "planner defaults YAML file")
	f.Float64Var(&opts.depot.Lon, "depot-lon", 0, "depot longitude")
	f.Float64Var(&opts.depot.Lat, "depot-lat", 0, "depot latitude")
	f.BoolVar(&opts.asJSON, "json", false, "print the full result as JSON")
	_ = cmd.MarkFlagRequired("orders")
	cmd.MarkFlagsRequiredTogether("depot-lon", "depot-lat")

	return cmd
}
