package conformance

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"calc/builtins"
	"calc/eval"
	"calc/types"
)

// TestResult represents the outcome of running a single test
type TestResult struct {
	Test       LoadedTest
	Passed     bool
	Skipped    bool
	SkipReason string
	Error      error
}

type suiteKey struct {
	suite   *TestSuite
	bundles builtins.Bundle
}

// Runner executes conformance tests. Registries are built once per bundle
// selection; suite setup runs once per suite and registry, and every test
// gets a child of the resulting scope.
type Runner struct {
	registries map[builtins.Bundle]*builtins.Registry
	suites     map[suiteKey]*types.Map
	output     bytes.Buffer
}

// NewRunner creates a new test runner
func NewRunner() *Runner {
	return &Runner{
		registries: make(map[builtins.Bundle]*builtins.Registry),
		suites:     make(map[suiteKey]*types.Map),
	}
}

func (r *Runner) registry(names []string) (*builtins.Registry, builtins.Bundle, error) {
	bundles := builtins.AllBundles
	if len(names) > 0 {
		b, err := builtins.ParseBundles(strings.Join(names, ","))
		if err != nil {
			return nil, 0, err
		}
		bundles = b
	}
	if reg, ok := r.registries[bundles]; ok {
		return reg, bundles, nil
	}
	reg := builtins.New(bundles)
	reg.SetOutput(&r.output)
	r.registries[bundles] = reg
	return reg, bundles, nil
}

// compile returns the program of a block, assembling source when no
// listing is given
func compile(code string, prog *eval.Program, reg *builtins.Registry) (*eval.Program, error) {
	if prog != nil {
		return prog, nil
	}
	return eval.Assemble(code, reg)
}

// runSetupBlock executes a setup block in scope
func (r *Runner) runSetupBlock(block *SetupBlock, reg *builtins.Registry, scope *types.Map) error {
	if block == nil || (block.Code == "" && block.Program == nil) {
		return nil
	}
	prog, err := compile(block.Code, block.Program, reg)
	if err != nil {
		return fmt.Errorf("setup parse error: %w", err)
	}
	if _, err := eval.Exec(prog, scope, reg, eval.Options{}); err != nil {
		return fmt.Errorf("setup error: %w", err)
	}
	return nil
}

func (r *Runner) suiteScope(test LoadedTest, reg *builtins.Registry, bundles builtins.Bundle) (*types.Map, error) {
	key := suiteKey{suite: test.Suite, bundles: bundles}
	if scope, ok := r.suites[key]; ok {
		return scope, nil
	}
	scope := reg.Global().Extend()
	if test.Suite != nil {
		if err := r.runSetupBlock(test.Suite.Setup, reg, scope); err != nil {
			return nil, fmt.Errorf("suite setup failed: %w", err)
		}
	}
	r.suites[key] = scope
	return scope, nil
}

// Run executes a single test case
func (r *Runner) Run(test LoadedTest) TestResult {
	if skipped, reason := test.Test.IsSkipped(); skipped {
		return TestResult{
			Test:       test,
			Skipped:    true,
			SkipReason: reason,
		}
	}
	if test.Test.Code == "" && test.Test.Program == nil {
		return TestResult{
			Test:       test,
			Skipped:    true,
			SkipReason: "no code/program",
		}
	}

	fail := func(err error) TestResult {
		return TestResult{Test: test, Passed: false, Error: err}
	}

	names := test.Test.Bundles
	if len(names) == 0 && test.Suite != nil {
		names = test.Suite.Requires.Bundles
	}
	reg, bundles, err := r.registry(names)
	if err != nil {
		return fail(err)
	}

	parent, err := r.suiteScope(test, reg, bundles)
	if err != nil {
		return fail(err)
	}
	scope := parent.Extend()

	r.output.Reset()
	if err := r.runSetupBlock(test.Test.Setup, reg, scope); err != nil {
		return fail(fmt.Errorf("test setup failed: %w", err))
	}
	r.output.Reset()

	prog, err := compile(test.Test.Code, test.Test.Program, reg)
	if err != nil {
		// a source that does not assemble can still be an expected failure
		if test.Test.Expect.Error == "parse" {
			return TestResult{Test: test, Passed: true}
		}
		return fail(fmt.Errorf("parse error: %w", err))
	}

	val, runErr := eval.Exec(prog, scope, reg, eval.Options{Ticks: test.Test.Ticks})
	passed, err := checkExpectation(test.Test, val, runErr, r.output.String())
	return TestResult{
		Test:   test,
		Passed: passed,
		Error:  err,
	}
}

// RunAll executes all loaded tests
func (r *Runner) RunAll(tests []LoadedTest) []TestResult {
	results := make([]TestResult, len(tests))
	for i, test := range tests {
		results[i] = r.Run(test)
	}
	return results
}

// SummaryStats computes statistics from test results
type SummaryStats struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// ComputeStats generates statistics from test results
func ComputeStats(results []TestResult) SummaryStats {
	stats := SummaryStats{Total: len(results)}
	for _, r := range results {
		if r.Skipped {
			stats.Skipped++
		} else if r.Passed {
			stats.Passed++
		} else {
			stats.Failed++
		}
	}
	return stats
}

// FormatStats returns a human-readable summary
func FormatStats(stats SummaryStats) string {
	return fmt.Sprintf("%d passed, %d failed, %d skipped (%d total)",
		stats.Passed, stats.Failed, stats.Skipped, stats.Total)
}

// checkExpectation checks if the result matches the expected outcome
func checkExpectation(test TestCase, val types.Value, runErr error, output string) (bool, error) {
	expect := test.Expect
	if expect.IsEmpty() {
		return false, fmt.Errorf("no expectation specified")
	}

	if expect.Error != "" {
		expected, ok := errorNameToCode(expect.Error)
		if !ok {
			return false, fmt.Errorf("unknown error code: %s", expect.Error)
		}
		if runErr == nil {
			return false, fmt.Errorf("expected error %s, got value: %s", expect.Error, types.Render(val))
		}
		if code := types.CodeOf(runErr); code != expected {
			return false, fmt.Errorf("expected error %s, got %s (%v)", expected, code, runErr)
		}
	} else if runErr != nil {
		return false, fmt.Errorf("unexpected error: %w", runErr)
	}

	if expect.Output != nil && output != *expect.Output {
		return false, fmt.Errorf("expected output %q, got %q", *expect.Output, output)
	}
	if runErr != nil {
		return true, nil
	}

	rendered := types.Render(val)

	if expect.HasValue() {
		expected, err := eval.Literal(&expect.Value)
		if err != nil {
			return false, fmt.Errorf("failed to convert expected value: %w", err)
		}
		if val.Type() != expected.Type() || !types.Equal(val, expected) {
			return false, fmt.Errorf("expected %s %s, got %s %s",
				types.TypeName(expected), types.Render(expected), types.TypeName(val), rendered)
		}
	}

	if expect.Type != "" && types.TypeName(val) != expect.Type {
		return false, fmt.Errorf("expected type %s, got %s", expect.Type, types.TypeName(val))
	}

	if expect.Match != "" {
		re, err := regexp.Compile(expect.Match)
		if err != nil {
			return false, fmt.Errorf("bad match pattern: %w", err)
		}
		if !re.MatchString(rendered) {
			return false, fmt.Errorf("%s does not match %s", rendered, expect.Match)
		}
	}

	if expect.Contains != "" && !strings.Contains(rendered, expect.Contains) {
		return false, fmt.Errorf("%s does not contain %q", rendered, expect.Contains)
	}

	return true, nil
}

// errorNameToCode converts error name to ErrorCode
func errorNameToCode(name string) (types.ErrorCode, bool) {
	return types.ErrorFromString(strings.ToUpper(name))
}
