// Command dashgen generates the slash Grafana dashboard and Prometheus rule
// files from Go definitions.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/slash/tools/dashgen/dashboards"
	"github.com/donaldgifford/slash/tools/dashgen/rules"
	"github.com/donaldgifford/slash/tools/dashgen/validate"
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

type artifact struct {
	path string
	data []byte
}

func run(cfg Config, validateOnly bool) error {
	artifacts, err := build(cfg)
	if err != nil {
		return err
	}

	if validateOnly {
		fmt.Println("validation passed")
		return nil
	}

	for _, a := range artifacts {
		path := filepath.Join(cfg.OutputDir, a.path)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, a.data, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("dashgen: wrote %s\n", path)
	}
	return nil
}

// build renders and validates every enabled artifact.
func build(cfg Config) ([]artifact, error) {
	known := make(map[string]bool, len(KnownMetrics))
	for k, v := range KnownMetrics {
		known[k] = v
	}

	var out []artifact

	if cfg.RulesEnabled {
		for _, r := range []struct {
			file string
			cr   rules.PrometheusRule
		}{
			{file: "slash-recording-rules.yaml", cr: rules.RecordingRules()},
			{file: "slash-alerts.yaml", cr: rules.AlertRules()},
		} {
			if res := validate.Rules(&r.cr, known); !res.Ok() {
				return nil, fmt.Errorf("%s: %w", r.file, joinErrors(res.Errors))
			}
			data, err := yaml.Marshal(r.cr)
			if err != nil {
				return nil, fmt.Errorf("marshaling %s: %w", r.file, err)
			}
			out = append(out, artifact{
				path: filepath.Join("prometheus", r.file),
				data: append([]byte(generatedHeader), data...),
			})
		}
	}

	if cfg.DashboardEnabled {
		dash, err := dashboards.BuildOverview().Build()
		if err != nil {
			return nil, fmt.Errorf("building overview dashboard: %w", err)
		}
		res := validate.Dashboard(dash, known)
		if !res.Ok() {
			return nil, fmt.Errorf("slash-overview.json: %w", joinErrors(res.Errors))
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		data, err := json.MarshalIndent(dash, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling dashboard: %w", err)
		}
		out = append(out, artifact{
			path: filepath.Join("grafana", "data", "slash-overview.json"),
			data: append(data, '\n'),
		})
	}

	return out, nil
}

func joinErrors(msgs []string) error {
	return errors.New(strings.Join(msgs, "; "))
}
