// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package scenario reads declarative workload-scenario documents and runs
// whole generation passes over them. A document bundles everything one pass
// needs: a seed, a target cache hit ratio, block-streaming parameters, the
// storage-tier topology, cataloged datasets, and the workloads to sample.
// The document keys follow the configuration format of HEP batch-simulation
// setups: distributions are declared as {type, average, sigma},
// {type, mu}, or {type, bins, counts}.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/petenewcomb/workgen"
)

// Defaults applied by [Parse] to absent document fields.
const (
	// DefaultSeed seeds passes whose document does not pin one.
	DefaultSeed uint64 = 42
	// DefaultBlockSize is one megabyte, the conventional block granularity
	// of XRootD-style streaming.
	DefaultBlockSize float64 = 1000 * 1000
	// DefaultDummyFlops is the smallest positive normal float64, the
	// conventional "as close to free as accounting allows" transfer-task
	// footprint.
	DefaultDummyFlops float64 = 2.2250738585072014e-308
)

// Document is a parsed scenario. Construct one with [Load] or [Parse], which
// also apply defaults; a zero Document is not directly usable.
type Document struct {
	// Seed pins the generation pass's random stream. Omitted means
	// DefaultSeed, not zero; an explicit zero seed is honored.
	Seed *uint64 `yaml:"seed"`

	// Hitrate is the target cached fraction of every task's input volume,
	// in [0,1].
	Hitrate float64 `yaml:"hitrate"`

	Streaming Streaming  `yaml:"streaming"`
	Platform  Platform   `yaml:"platform"`
	Datasets  []Dataset  `yaml:"datasets"`
	Workloads []Workload `yaml:"workloads"`
}

// Streaming configures block streaming for every streaming workload in the
// document. Pointer fields distinguish omitted keys, which take the package
// defaults, from explicit values, which are validated as written.
type Streaming struct {
	// Blockstreaming defaults to on; off transfers each file whole.
	Blockstreaming *bool    `yaml:"blockstreaming"`
	BlockSize      *float64 `yaml:"block_size"`
	DummyFlops     *float64 `yaml:"dummy_flops"`
}

// Platform describes the storage topology available to placement.
type Platform struct {
	Tiers []Tier `yaml:"tiers"`
}

// Tier declares one storage service. Kind is "remote" or "cache".
type Tier struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

// Dataset catalogs pre-existing input files for assignment to copy
// workloads.
type Dataset struct {
	Name  string `yaml:"name"`
	Files []File `yaml:"files"`
}

// File is one cataloged dataset file.
type File struct {
	ID   string  `yaml:"id"`
	Size float64 `yaml:"size"`
}

// Workload describes one batch of jobs. Which distributions are consulted
// depends on the type: streaming workloads use flops, memory, and
// infile_size; copy workloads use cores, flops, memory, and outfile_size
// plus the files assigned from infile_datasets.
type Workload struct {
	NameSuffix     string       `yaml:"name_suffix"`
	Type           string       `yaml:"workload_type"`
	NumJobs        int          `yaml:"num_jobs"`
	InfilesPerJob  int          `yaml:"infiles_per_job"`
	ArrivalTime    float64      `yaml:"arrival_time"`
	InfileDatasets []string     `yaml:"infile_datasets"`
	Cores          Distribution `yaml:"cores"`
	Flops          Distribution `yaml:"flops"`
	Memory         Distribution `yaml:"memory"`
	OutfileSize    Distribution `yaml:"outfile_size"`
	InfileSize     Distribution `yaml:"infile_size"`
}

// Distribution is the document form of a sampling distribution.
type Distribution struct {
	Type    string    `yaml:"type"`
	Average float64   `yaml:"average"`
	Sigma   float64   `yaml:"sigma"`
	Mu      float64   `yaml:"mu"`
	Bins    []float64 `yaml:"bins"`
	Counts  []float64 `yaml:"counts"`
}

// spec maps the document form onto the sampling API's tagged variant.
func (d Distribution) spec() (workgen.DistributionSpec, error) {
	switch d.Type {
	case "gaussian":
		return workgen.Gaussian(d.Average, d.Sigma), nil
	case "poisson":
		return workgen.Poisson(d.Mu), nil
	case "histogram":
		return workgen.Histogram(d.Bins, d.Counts), nil
	case "":
		return workgen.DistributionSpec{}, &workgen.ConfigurationError{
			Reason: "distribution type is required",
		}
	default:
		return workgen.DistributionSpec{}, &workgen.ConfigurationError{
			Reason: fmt.Sprintf("unsupported distribution type %q", d.Type),
		}
	}
}

// Load reads and parses the scenario document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes a scenario document, applies defaults, and validates the
// document's shape. Validation here is structural; whether the distributions
// and tiers can actually drive a pass is checked by [Generate].
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	doc.applyDefaults()
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (doc *Document) applyDefaults() {
	if doc.Seed == nil {
		seed := DefaultSeed
		doc.Seed = &seed
	}
	if doc.Streaming.Blockstreaming == nil {
		on := true
		doc.Streaming.Blockstreaming = &on
	}
	if doc.Streaming.BlockSize == nil {
		size := DefaultBlockSize
		doc.Streaming.BlockSize = &size
	}
	if doc.Streaming.DummyFlops == nil {
		flops := DefaultDummyFlops
		doc.Streaming.DummyFlops = &flops
	}
	for i := range doc.Workloads {
		if doc.Workloads[i].Type == "" {
			doc.Workloads[i].Type = "streaming"
		}
	}
}

func (doc *Document) validate() error {
	if doc.Hitrate < 0 || doc.Hitrate > 1 {
		return &workgen.ConfigurationError{
			Reason: fmt.Sprintf("hitrate must lie in [0,1], got %v", doc.Hitrate),
		}
	}
	if !(*doc.Streaming.BlockSize > 0) {
		return &workgen.ConfigurationError{
			Reason: fmt.Sprintf("block_size must be positive, got %v", *doc.Streaming.BlockSize),
		}
	}
	if !(*doc.Streaming.DummyFlops > 0) {
		return &workgen.ConfigurationError{
			Reason: fmt.Sprintf("dummy_flops must be positive, got %v", *doc.Streaming.DummyFlops),
		}
	}
	for i, w := range doc.Workloads {
		if w.NumJobs < 0 {
			return &workgen.ConfigurationError{
				Reason: fmt.Sprintf("workload %d: num_jobs may not be negative, got %d", i, w.NumJobs),
			}
		}
		if w.InfilesPerJob < 0 {
			return &workgen.ConfigurationError{
				Reason: fmt.Sprintf("workload %d: infiles_per_job may not be negative, got %d", i, w.InfilesPerJob),
			}
		}
		switch w.Type {
		case "streaming":
			if len(w.InfileDatasets) > 0 {
				return &workgen.ConfigurationError{
					Reason: fmt.Sprintf("workload %d: streaming workloads sample their input sizes; infile_datasets applies to copy workloads only", i),
				}
			}
		case "copy":
		default:
			return &workgen.ConfigurationError{
				Reason: fmt.Sprintf("workload %d: unsupported workload type %q", i, w.Type),
			}
		}
	}
	return nil
}

// seed returns the document's seed after defaulting.
func (doc *Document) seed() uint64 {
	if doc.Seed == nil {
		return DefaultSeed
	}
	return *doc.Seed
}

// tierSet maps the platform's tier declarations onto a validated topology.
func (doc *Document) tierSet() (*workgen.TierSet, error) {
	tiers := make([]workgen.StorageTier, 0, len(doc.Platform.Tiers))
	for _, t := range doc.Platform.Tiers {
		var kind workgen.TierKind
		switch t.Kind {
		case "remote":
			kind = workgen.TierRemote
		case "cache":
			kind = workgen.TierCache
		default:
			return nil, &workgen.ConfigurationError{
				Reason: fmt.Sprintf("storage tier %q: unsupported kind %q", t.Name, t.Kind),
			}
		}
		tiers = append(tiers, workgen.StorageTier{Name: t.Name, Kind: kind})
	}
	return workgen.NewTierSet(tiers...)
}
