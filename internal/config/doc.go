// Package config provides centralized configuration management for posagg.
// It handles loading configuration from multiple sources, validation, and
// resolution of the run folders.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (-config flag, posagg.yaml or configs/posagg.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern POSAGG_<SECTION>_<KEY>:
//
//	POSAGG_LOGGING_LEVEL=debug
//	POSAGG_PROCESSING_SERIES_NAME=Position
//	POSAGG_PROCESSING_EXTENSIONS=.hdf5,.h5
//	POSAGG_PROCESSING_WORKERS=4
//	POSAGG_OUTPUT_FORMATS=csv,xlsx
//	POSAGG_OUTPUT_COMPRESSION=zstd
//	POSAGG_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/posagg.prom
//
// # Validation
//
// Configuration is validated at load time with struct tags
// (go-playground/validator). A failed validation is an ErrTypeConfig error.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	paths, err := config.ResolvePaths(inputDir, outputDir)
package config
