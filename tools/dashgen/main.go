// Command dashgen generates the Grafana dashboard and Prometheus rule
// artifacts for flipradar from code, so panels and alerts stay in sync
// with the exported metric names.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/flipradar-io/flipradar/tools/dashgen/dashboards"
	"github.com/flipradar-io/flipradar/tools/dashgen/rules"
	"github.com/flipradar-io/flipradar/tools/dashgen/validate"
)

const generatedHeader = "# Code generated by dashgen. DO NOT EDIT.\n"

func main() {
	validateOnly := flag.Bool("validate", false, "validate generated artifacts without writing files")
	outputDir := flag.String("output", "", "override output directory")
	flag.Parse()

	cfg := DefaultConfig()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *validateOnly); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg Config, validateOnly bool) error {
	dash, err := dashboards.BuildOverview().Build()
	if err != nil {
		return fmt.Errorf("building overview dashboard: %w", err)
	}

	result := validate.Dashboard(dash, KnownMetrics)
	result.Merge(validate.RuleFile(rules.RecordingRules(), KnownMetrics))
	result.Merge(validate.RuleFile(rules.AlertRules(), KnownMetrics))
	if !result.Ok() {
		return fmt.Errorf("validation failed: %v", result.Errors)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if validateOnly {
		fmt.Println("validation passed")
		return nil
	}

	if cfg.DashboardEnabled {
		data, err := json.MarshalIndent(dash, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling dashboard: %w", err)
		}
		data = append(data, '\n')
		if err := writeArtifact(filepath.Join(cfg.OutputDir, "grafana", "data", "flipradar-overview.json"), data); err != nil {
			return err
		}
	}

	if cfg.RulesEnabled {
		for name, cr := range map[string]rules.PrometheusRule{
			"flipradar-recording-rules.yaml": rules.RecordingRules(),
			"flipradar-alerts.yaml":          rules.AlertRules(),
		} {
			data, err := yaml.Marshal(cr)
			if err != nil {
				return fmt.Errorf("marshaling %s: %w", name, err)
			}
			data = append([]byte(generatedHeader), data...)
			if err := writeArtifact(filepath.Join(cfg.OutputDir, "prometheus", name), data); err != nil {
				return err
			}
		}
	}

	fmt.Printf("dashgen: artifacts written to %s\n", cfg.OutputDir)
	return nil
}

func writeArtifact(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
