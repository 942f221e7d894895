// Package config loads such-route's configuration, layering an optional
// YAML file under environment variables the way the rest of the
// ecosystem's koanf-based services do.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const envPrefix = "SUCHROUTE_"

// Log mirrors the logging knobs every component in this repo reads.
type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// BackendConfig describes how to reach one routing-engine backend.
type BackendConfig struct {
	BaseURL string        `json:"baseURL" yaml:"baseURL"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// Config is such-route's full runtime configuration.
type Config struct {
	Log Log `json:"log" yaml:"log"`

	// CachePrefix is the path of the small-tier cache blob; the
	// large-tier sibling directory is "<CachePrefix>_files".
	CachePrefix string `json:"cachePrefix" yaml:"cachePrefix"`

	// ResultsDir is where per-scramble distance_matrix*.json files land.
	ResultsDir string `json:"resultsDir" yaml:"resultsDir"`

	// DistanceCutoffKM is the geodesic cutoff above which C4 never
	// calls the routing engine (spec.md §4.4 step 1).
	DistanceCutoffKM float64 `json:"distanceCutoffKm" yaml:"distanceCutoffKm"`

	// UnreachableSeconds records the sentinel cost. No component reads
	// it: the matrix and the sink row use geo.UnreachableSeconds.
	UnreachableSeconds int `json:"unreachableSeconds" yaml:"unreachableSeconds"`

	// StationRadiusKM bounds the nearest-station search (C5).
	StationRadiusKM float64 `json:"stationRadiusKm" yaml:"stationRadiusKm"`

	// MatrixWorkers overrides the worker-pool size for C7; 0 means
	// "cpu_count - 1" per spec.md §5.
	MatrixWorkers int `json:"matrixWorkers" yaml:"matrixWorkers"`

	// NogoSelectsChosen resolves spec.md §9's open question: true (the
	// default) forbids the regions of the SELECTED checkpoints, false
	// forbids the regions of the non-selected ones.
	NogoSelectsChosen bool `json:"nogoSelectsChosen" yaml:"nogoSelectsChosen"`

	UseFerries bool `json:"useFerries" yaml:"useFerries"`

	OverpassEndpoint string `json:"overpassEndpoint" yaml:"overpassEndpoint"`

	Valhalla BackendConfig `json:"valhalla" yaml:"valhalla"`
	Brouter  BackendConfig `json:"brouter" yaml:"brouter"`
}

// Default returns such-route's defaults, matching original_source's
// such_route.py / routing_service.py constants.
func Default() Config {
	return Config{
		Log:                Log{Level: "info"},
		CachePrefix:        ".such_route_cache",
		ResultsDir:         "results",
		DistanceCutoffKM:   120,
		UnreachableSeconds: 172800,
		StationRadiusKM:    20,
		NogoSelectsChosen:  true,
		OverpassEndpoint:   "https://overpass.kumi.systems/api/",
		Valhalla: BackendConfig{
			BaseURL: "http://localhost:8002",
			Timeout: 30 * time.Second,
		},
		Brouter: BackendConfig{
			BaseURL: "http://localhost:17777",
			Timeout: 30 * time.Second,
		},
	}
}

// Load starts from Default(), optionally layers a YAML file (if path
// is non-empty and exists), then layers environment variables
// prefixed SUCHROUTE_ (e.g. SUCHROUTE_LOG_LEVEL=debug). A missing or
// empty path is not an error — such-route is a short-lived batch tool
// and runs fine on defaults alone.
func Load(path string) (*Config, error) {
	cfg := Default()

	koanfInstance := koanf.New(".")
	if err := koanfInstance.Load(confmap.Provider(defaultsMap(cfg), "."), nil); err != nil {
		return nil, errors.Wrap(err, "seed koanf from defaults")
	}

	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := koanfInstance.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "load config file %s", path)
			}
		}
	}

	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			key := strings.ToLower(strings.TrimPrefix(k, envPrefix))
			key = strings.ReplaceAll(key, "_", ".")

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load environment variables")
	}

	if err := koanfInstance.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	return &cfg, nil
}

// defaultsMap exposes cfg's default values to koanf as a flat map so
// the file and env layers only need to override what changes.
func defaultsMap(cfg Config) map[string]any {
	return map[string]any{
		"log.pretty":         cfg.Log.Pretty,
		"log.level":          cfg.Log.Level,
		"cachePrefix":        cfg.CachePrefix,
		"resultsDir":         cfg.ResultsDir,
		"distanceCutoffKm":   cfg.DistanceCutoffKM,
		"unreachableSeconds": cfg.UnreachableSeconds,
		"stationRadiusKm":    cfg.StationRadiusKM,
		"matrixWorkers":      cfg.MatrixWorkers,
		"nogoSelectsChosen":  cfg.NogoSelectsChosen,
		"useFerries":         cfg.UseFerries,
		"overpassEndpoint":   cfg.OverpassEndpoint,
		"valhalla.baseURL":   cfg.Valhalla.BaseURL,
		"valhalla.timeout":   cfg.Valhalla.Timeout,
		"brouter.baseURL":    cfg.Brouter.BaseURL,
		"brouter.timeout":    cfg.Brouter.Timeout,
	}
}
