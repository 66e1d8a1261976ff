package utils

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Config holds training configuration
type Config struct {
	Name         string
	Architecture []int
	DataRoot     string // empty means synthetic data
	Epochs       int
	LearningRate float64
	Samples      int
	TestSamples  int
	Seed         uint64
	AnalysisPath string
	Show         int
}

// ParseArchitecture parses architecture string into slice of integers.
// Sizes may be separated by whitespace or commas: "784 128 10", "784,128,10".
func ParseArchitecture(archStr string) ([]int, error) {
	archParts := strings.FieldsFunc(archStr, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(archParts) == 0 {
		return nil, fmt.Errorf("architecture is empty")
	}
	arch := make([]int, len(archParts))
	for i, s := range archParts {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("parsing layer size %q: %w", s, err)
		}
		arch[i] = n
	}
	return arch, nil
}

// FormatArchitecture is the inverse of ParseArchitecture.
func FormatArchitecture(arch []int) string {
	parts := make([]string, len(arch))
	for i, n := range arch {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

// ValidateConfig validates training configuration
func ValidateConfig(config *Config) error {
	if len(config.Architecture) < 2 {
		return fmt.Errorf("architecture must have at least 2 layers (input and output)")
	}
	for i, n := range config.Architecture {
		if n <= 0 {
			return fmt.Errorf("layer %d has non-positive size %d", i, n)
		}
	}

	if config.Epochs < 0 {
		return fmt.Errorf("epochs must be non-negative")
	}

	if config.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive")
	}

	if config.Samples <= 0 {
		return fmt.Errorf("samples must be positive")
	}

	if config.TestSamples < 0 {
		return fmt.Errorf("test samples must be non-negative")
	}

	if config.Show < 0 {
		return fmt.Errorf("show must be non-negative")
	}

	return nil
}
