package config

import (
	"bytes"
	"delivery-scenario-service/internal/domain"
	"delivery-scenario-service/internal/services"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// PlannerDefaults is the optional YAML file named by PLANNER_CONFIG. Unset
// fields keep the planner's built-in defaults.
type PlannerDefaults struct {
	Candidates       []int    `yaml:"candidates"`
	Objective        string   `yaml:"objective"`
	Metric           string   `yaml:"metric"`
	KMeansIterations int      `yaml:"kmeans_iterations"`
	BalanceSlack     *float64 `yaml:"balance_slack"`
	TwoOptPasses     int      `yaml:"two_opt_passes"`
	TieEpsilon       *float64 `yaml:"tie_epsilon"`
	Partition        string   `yaml:"partition"`
}

// LoadPlannerDefaults reads path. An empty path yields zero defaults.
func LoadPlannerDefaults(path string) (PlannerDefaults, error) {
	if path == "" {
		return PlannerDefaults{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return PlannerDefaults{}, fmt.Errorf("planner config: read %q: %w", path, err)
	}
	return ParsePlannerDefaults(data)
}

// ParsePlannerDefaults decodes YAML and rejects unknown keys.
func ParsePlannerDefaults(data []byte) (PlannerDefaults, error) {
	var d PlannerDefaults

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return PlannerDefaults{}, fmt.Errorf("planner config: decode: %w", err)
	}

	if _, err := d.Options(); err != nil {
		return PlannerDefaults{}, err
	}
	return d, nil
}

// Options converts the file into planner options.
func (d PlannerDefaults) Options() (services.Options, error) {
	var opts services.Options

	for _, k := range d.Candidates {
		if k < 1 {
			return opts, fmt.Errorf("planner config: candidates: %w: %d", domain.ErrInvalidDriverCount, k)
		}
	}
	opts.Candidates = d.Candidates

	if d.Objective != "" {
		obj, err := domain.ParseObjective(d.Objective)
		if err != nil {
			return opts, fmt.Errorf("planner config: %w", err)
		}
		opts.Objective = obj
	}

	metric, err := domain.ParseCostMetric(d.Metric)
	if err != nil {
		return opts, fmt.Errorf("planner config: %w", err)
	}
	opts.Sequence.Metric = metric

	strategy, err := services.ParsePartitionStrategy(d.Partition)
	if err != nil {
		return opts, fmt.Errorf("planner config: %w", err)
	}
	opts.Cluster.Strategy = strategy

	if d.KMeansIterations < 0 {
		return opts, fmt.Errorf("planner config: kmeans_iterations must not be negative: %d", d.KMeansIterations)
	}
	opts.Cluster.MaxIterations = d.KMeansIterations
	if d.BalanceSlack != nil {
		opts.Cluster.BalanceSlack = *d.BalanceSlack
		if *d.BalanceSlack == 0 {
			// An explicit zero disables balancing.
			opts.Cluster.BalanceSlack = -1
		}
	}

	opts.Sequence.TwoOptPasses = d.TwoOptPasses

	if d.TieEpsilon != nil {
		if *d.TieEpsilon < 0 {
			return opts, fmt.Errorf("planner config: tie_epsilon must not be negative: %v", *d.TieEpsilon)
		}
		opts.TieEpsilon = *d.TieEpsilon
		if *d.TieEpsilon == 0 {
			// An explicit zero means exact comparison.
			opts.TieEpsilon = -1
		}
	}

	return opts, nil
}
