package main

import (
	"bytes"
	"delivery-scenario-service/internal/api/dto"
	"delivery-scenario-service/internal/platform/logging"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

const twoTownOrders = `[
	{"id": "w1", "coordinates": {"lon": -112.07, "lat": 33.45}},
	{"id": "w2", "coordinates": {"lon": -112.06, "lat": 33.45}},
	{"id": "e1", "coordinates": {"lon": -111.93, "lat": 33.42}},
	{"id": "e2", "coordinates": {"lon": -111.92, "lat": 33.42}}
]`

func writeOrders(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write orders: %v", err)
	}
	return path
}

func TestCompareCommandJSON(t *testing.T) {
	path := writeOrders(t, twoTownOrders)

	cmd := compareCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--orders", path, "--candidates", "1,2", "--json"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var res dto.CompareResponse
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	if len(res.Scenarios) != 2 {
		t.Fatalf("scenarios = %d, want 2", len(res.Scenarios))
	}
	if res.RecommendedDrivers != 2 {
		t.Fatalf("recommended = %d, want 2 for two separated towns", res.RecommendedDrivers)
	}
}

func TestCompareCommandText(t *testing.T) {
	path := writeOrders(t, twoTownOrders)

	cmd := compareCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--orders", path, "--objective", "minimize_total"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, want := range []string{"Objective: minimize_total", "DRIVERS", "driver 1:"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestCompareCommandRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"--orders", filepath.Join(t.TempDir(), "nope.json")}},
		{"not json", []string{"--orders", writeOrders(t, "{")}},
		{"duplicate ids", []string{"--orders", writeOrders(t, `[{"id": "a", "coordinates": {"lon": 0, "lat": 0}}, {"id": "a", "coordinates": {"lon": 1, "lat": 1}}]`)}},
		{"lon only", []string{"--orders", writeOrders(t, `[{"id": "a", "coordinates": {"lon": 5}}, {"id": "b", "coordinates": {"lon": 1, "lat": 1}}]`)}},
		{"empty coordinates", []string{"--orders", writeOrders(t, `[{"id": "a", "coordinates": {}}]`)}},
		{"depot lon only", []string{"--orders", writeOrders(t, twoTownOrders), "--depot-lon", "-112"}},
		{"unknown provider", []string{"--orders", writeOrders(t, twoTownOrders), "--provider", "teleport"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := compareCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.args)
			if err := cmd.Execute(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadOrdersDropsPartialCoordinates(t *testing.T) {
	path := writeOrders(t, `[
		{"id": "a", "coordinates": {"lon": 5}},
		{"id": "b", "coordinates": {}},
		{"id": "c", "coordinates": {"lon": 0, "lat": 0}}
	]`)

	records, err := loadOrders(path)
	if err != nil {
		t.Fatalf("loadOrders: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	for _, r := range records[:2] {
		if r.Coordinates != nil {
			t.Fatalf("%s coordinates = %+v, want nil", r.ID, *r.Coordinates)
		}
	}
	if c := records[2].Coordinates; c == nil || c.Lon != 0 || c.Lat != 0 {
		t.Fatalf("c coordinates = %v, want (0, 0)", c)
	}
}

func TestRootCommandReadsLogLevelFromDotEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=error\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	path := writeOrders(t, twoTownOrders)
	t.Chdir(dir)

	root := rootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"compare", "--orders", path, "--json"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := logging.Get().GetLevel(); got != zerolog.ErrorLevel {
		t.Fatalf("log level = %v, want error from .env", got)
	}
	if !json.Valid(out.Bytes()) {
		t.Fatalf("stdout is not clean JSON:\n%s", out.String())
	}
}
