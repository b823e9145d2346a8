// Package coverage parses aggregate test-coverage percentages out of test
// runner reports and enforces the release gate.
package coverage

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// CoverageBelowThresholdError reports a measured coverage that does not
// meet the gate.
type CoverageBelowThresholdError struct {
	Measured  float64
	Threshold float64
}

func (e *CoverageBelowThresholdError) Error() string {
	return fmt.Sprintf("coverage %.0f%% is below the %.0f%% threshold", e.Measured, e.Threshold)
}

var (
	// pytest-cov summary: "TOTAL    312     18    94%"
	totalLine = regexp.MustCompile(`(?m)^TOTAL\s.*?(\d+(?:\.\d+)?)%\s*$`)
	// go test: "coverage: 94.2% of statements"
	goStatements = regexp.MustCompile(`coverage:\s*(\d+(?:\.\d+)?)%\s+of\s+statements`)
	// last resort: any trailing percentage token
	anyPercent = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)
)

// Parse extracts the aggregate coverage percentage from a test report.
// It understands the pytest-cov TOTAL row and the go test statement
// summary; failing those, the last percentage in the report is used.
func Parse(report string) (float64, error) {
	if m := totalLine.FindStringSubmatch(report); m != nil {
		return parsePercent(m[1])
	}
	if ms := goStatements.FindAllStringSubmatch(report, -1); ms != nil {
		// Multiple packages each print a summary; take the last one.
		return parsePercent(ms[len(ms)-1][1])
	}
	if ms := anyPercent.FindAllStringSubmatch(report, -1); ms != nil {
		return parsePercent(ms[len(ms)-1][1])
	}
	return 0, fmt.Errorf("no coverage percentage found in report")
}

func parsePercent(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse coverage %q: %w", s, err)
	}
	if v < 0 || v > 100 {
		return 0, fmt.Errorf("coverage %v out of range", v)
	}
	return v, nil
}

// Gate checks measured coverage against threshold, returning a
// CoverageBelowThresholdError when it falls short.
func Gate(measured, threshold float64) error {
	if measured < threshold {
		return &CoverageBelowThresholdError{Measured: measured, Threshold: threshold}
	}
	return nil
}
