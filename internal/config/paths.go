package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
)

// Paths contains the folders of one run.
// This is the single source of truth for every file path the run touches.
type Paths struct {
	InputDir  string
	OutputDir string
}

// ResolvePaths resolves the input and output folders to absolute paths.
// Relative paths are taken against the current working directory.
func ResolvePaths(inputDir, outputDir string) (*Paths, error) {
	in, err := filepath.Abs(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve input folder %q: %w", inputDir, err)
	}
	out, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output folder %q: %w", outputDir, err)
	}
	return &Paths{InputDir: in, OutputDir: out}, nil
}

// LogPathResolution logs the resolved folders for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("Resolved run folders",
		slog.String("input_dir", p.InputDir),
		slog.String("output_dir", p.OutputDir))
}
