package conformance

import (
	"calc/eval"

	"gopkg.in/yaml.v3"
)

// TestSuite represents a complete YAML test file
type TestSuite struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Requires    Requirements `yaml:"requires,omitempty"`
	Setup       *SetupBlock  `yaml:"setup,omitempty"`
	Tests       []TestCase   `yaml:"tests"`
}

// Requirements names the bundles a suite installs. Empty means all.
type Requirements struct {
	Bundles []string `yaml:"bundles,omitempty"`
}

// SetupBlock contains code run before a suite or a test
type SetupBlock struct {
	Code    string        `yaml:"code,omitempty"`    // postfix source
	Program *eval.Program `yaml:"program,omitempty"` // instruction listing
}

// TestCase represents a single test within a suite
type TestCase struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Skip        interface{}   `yaml:"skip,omitempty"`    // bool or string
	Bundles     []string      `yaml:"bundles,omitempty"` // overrides the suite's
	Ticks       int64         `yaml:"ticks,omitempty"`
	Code        string        `yaml:"code,omitempty"`    // postfix source
	Program     *eval.Program `yaml:"program,omitempty"` // instruction listing
	Setup       *SetupBlock   `yaml:"setup,omitempty"`
	Expect      Expectation   `yaml:"expect"`
}

// Expectation defines what result is expected from a test. Every field
// that is set must hold.
type Expectation struct {
	Value    yaml.Node `yaml:"value,omitempty"`    // exact match, tag included
	Error    string    `yaml:"error,omitempty"`    // E_TYPE, E_DIV, etc. or "parse"
	Type     string    `yaml:"type,omitempty"`     // integer, string, list, etc.
	Match    string    `yaml:"match,omitempty"`    // regex over the rendering
	Contains string    `yaml:"contains,omitempty"` // substring of the rendering
	Output   *string   `yaml:"output,omitempty"`   // everything print wrote
}

// HasValue reports whether an exact value is expected
func (e *Expectation) HasValue() bool {
	return e.Value.Kind != 0
}

// IsEmpty reports whether no expectation is set
func (e *Expectation) IsEmpty() bool {
	return !e.HasValue() && e.Error == "" && e.Type == "" &&
		e.Match == "" && e.Contains == "" && e.Output == nil
}

// IsSkipped returns true if this test should be skipped
func (tc *TestCase) IsSkipped() (bool, string) {
	if tc.Skip == nil {
		return false, ""
	}

	switch v := tc.Skip.(type) {
	case bool:
		if v {
			return true, "skipped"
		}
		return false, ""
	case string:
		return true, v
	default:
		return false, ""
	}
}
