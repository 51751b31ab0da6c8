package main

import (
	"fmt"
	"os"

	"github.com/aretw0/weave/internal/demo"
	"github.com/aretw0/weave/pkg/laws"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// samplesFile is the document read by verify --samples:
//
//	samples:
//	  - [1, 2, 3]
//	  - [0, -4]
type samplesFile struct {
	Samples [][]int `mapstructure:"samples"`
}

// eventsFile is the document read by glue --events. Entries with a unit are
// reports, the others are moves:
//
//	events:
//	  - meters: 1000
//	  - unit: km
type eventsFile struct {
	Events []map[string]any `mapstructure:"events"`
}

var defaultSamples = laws.Samples{
	{1, 2, 3},
	{0, -4, 7, 7},
	{10},
}

func readYAML(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if err := mapstructure.Decode(raw, target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func loadSamples(path string) (laws.Samples, error) {
	if path == "" {
		return defaultSamples, nil
	}
	var f samplesFile
	if err := readYAML(path, &f); err != nil {
		return nil, err
	}
	if len(f.Samples) == 0 {
		return nil, fmt.Errorf("%s: no samples", path)
	}
	out := make(laws.Samples, len(f.Samples))
	for i, trace := range f.Samples {
		out[i] = make([]any, len(trace))
		for j, x := range trace {
			out[i][j] = x
		}
	}
	return out, nil
}

func loadEvents(path string) ([]any, error) {
	if path == "" {
		return demo.DistanceSamples()[0], nil
	}
	var f eventsFile
	if err := readYAML(path, &f); err != nil {
		return nil, err
	}
	out := make([]any, 0, len(f.Events))
	for i, raw := range f.Events {
		if _, ok := raw["unit"]; ok {
			var r demo.Report
			if err := mapstructure.Decode(raw, &r); err != nil {
				return nil, fmt.Errorf("%s: event %d: %w", path, i, err)
			}
			out = append(out, r)
			continue
		}
		var m demo.Move
		if err := mapstructure.WeakDecode(raw, &m); err != nil {
			return nil, fmt.Errorf("%s: event %d: %w", path, i, err)
		}
		out = append(out, m)
	}
	return out, nil
}
