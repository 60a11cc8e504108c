package config

import (
	"delivery-scenario-service/internal/domain"
	"delivery-scenario-service/internal/services"
	"errors"
	"testing"
	"time"
)

func TestGetters(t *testing.T) {
	t.Setenv("TEST_STR", "  value ")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "forty")
	t.Setenv("TEST_FLOAT", "2.5")
	t.Setenv("TEST_DUR", "90s")

	if got := Get("TEST_STR", "x"); got != "value" {
		t.Fatalf("Get = %q, want value", got)
	}
	if got := Get("TEST_MISSING", "x"); got != "x" {
		t.Fatalf("Get missing = %q, want x", got)
	}
	if got := GetInt("TEST_INT", 1); got != 42 {
		t.Fatalf("GetInt = %d, want 42", got)
	}
	if got := GetInt("TEST_BAD_INT", 7); got != 7 {
		t.Fatalf("GetInt bad = %d, want fallback 7", got)
	}
	if got := GetFloat("TEST_FLOAT", 0); got != 2.5 {
		t.Fatalf("GetFloat = %v, want 2.5", got)
	}
	if got := GetDuration("TEST_DUR", time.Second); got != 90*time.Second {
		t.Fatalf("GetDuration = %v, want 90s", got)
	}
}

func TestParsePlannerDefaults(t *testing.T) {
	data := []byte(`
candidates: [1, 2, 3]
objective: minimize_total
metric: duration
kmeans_iterations: 10
balance_slack: 0
two_opt_passes: 5
tie_epsilon: 0.001
partition: bands
`)

	d, err := ParsePlannerDefaults(data)
	if err != nil {
		t.Fatalf("ParsePlannerDefaults: %v", err)
	}
	opts, err := d.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}

	if len(opts.Candidates) != 3 || opts.Candidates[2] != 3 {
		t.Fatalf("Candidates = %v, want [1 2 3]", opts.Candidates)
	}
	if opts.Objective != domain.ObjectiveMinimizeTotal {
		t.Fatalf("Objective = %q", opts.Objective)
	}
	if opts.Sequence.Metric != domain.MetricDuration {
		t.Fatalf("Metric = %q", opts.Sequence.Metric)
	}
	if opts.Cluster.Strategy != services.PartitionBands {
		t.Fatalf("Strategy = %q", opts.Cluster.Strategy)
	}
	if opts.Cluster.BalanceSlack >= 0 {
		t.Fatalf("BalanceSlack = %v, want disabled", opts.Cluster.BalanceSlack)
	}
	if opts.Cluster.MaxIterations != 10 || opts.Sequence.TwoOptPasses != 5 || opts.TieEpsilon != 0.001 {
		t.Fatalf("opts = %+v", opts)
	}
}

func TestParsePlannerDefaults_Empty(t *testing.T) {
	d, err := ParsePlannerDefaults(nil)
	if err != nil {
		t.Fatalf("ParsePlannerDefaults: %v", err)
	}
	opts, _ := d.Options()
	if opts.Sequence.Metric != domain.MetricDistance || opts.Cluster.Strategy != services.PartitionKMeans {
		t.Fatalf("opts = %+v, want built-in defaults", opts)
	}
}

func TestParsePlannerDefaults_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"unknown key", "drivers: 3\n", nil},
		{"bad objective", "objective: fastest\n", domain.ErrUnknownObjective},
		{"bad metric", "metric: fuel\n", domain.ErrUnknownMetric},
		{"zero candidate", "candidates: [0, 2]\n", domain.ErrInvalidDriverCount},
		{"bad partition", "partition: grid\n", nil},
		{"negative tie epsilon", "tie_epsilon: -0.1\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlannerDefaults([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParsePlannerDefaults_ZeroTieEpsilon(t *testing.T) {
	d, err := ParsePlannerDefaults([]byte("tie_epsilon: 0\n"))
	if err != nil {
		t.Fatalf("ParsePlannerDefaults: %v", err)
	}
	opts, err := d.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if opts.TieEpsilon >= 0 {
		t.Fatalf("TieEpsilon = %v, want exact comparison", opts.TieEpsilon)
	}

	d, _ = ParsePlannerDefaults(nil)
	opts, _ = d.Options()
	if opts.TieEpsilon != 0 {
		t.Fatalf("unset TieEpsilon = %v, want 0 (planner default)", opts.TieEpsilon)
	}
}

func TestLoadPlannerDefaults_NoPath(t *testing.T) {
	d, err := LoadPlannerDefaults("")
	if err != nil {
		t.Fatalf("LoadPlannerDefaults: %v", err)
	}
	if len(d.Candidates) != 0 {
		t.Fatalf("Candidates = %v, want none", d.Candidates)
	}
}
