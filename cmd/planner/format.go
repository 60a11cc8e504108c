package main

import (
	"delivery-scenario-service/internal/domain"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

func printComparison(out io.Writer, res *domain.ComparisonResult) {
	unit := "m"
	if res.Metric == domain.MetricDuration {
		unit = "s"
	}

	fmt.Fprintf(out, "Objective: %s (metric: %s)\n\n", res.Objective, res.Metric)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DRIVERS\tTOTAL\tMAX ROUTE\tSTOPS PER DRIVER\t")
	for i, s := range res.Scenarios {
		mark := ""
		if i == res.Recommended {
			mark = " *"
		}
		counts := make([]string, len(s.StopCounts))
		for j, c := range s.StopCounts {
			counts[j] = fmt.Sprint(c)
		}
		fmt.Fprintf(tw, "%d%s\t%.1f %s\t%.1f %s\t%s\t\n",
			s.DriverCount, mark, s.TotalCost, unit, s.MaxRouteCost, unit, strings.Join(counts, "/"))
	}
	_ = tw.Flush()

	best := res.RecommendedScenario()
	fmt.Fprintf(out, "\nRoutes (%d drivers):\n", best.DriverCount)
	for _, r := range best.Routes {
		fmt.Fprintf(out, "  driver %d: %s  (%.1f %s)\n", r.Driver, strings.Join(r.StopIDs(), " -> "), r.TotalCost, unit)
	}

	fmt.Fprintf(out, "\n%s\n", res.Rationale.Summary)
}
