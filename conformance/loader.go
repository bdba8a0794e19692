package conformance

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// TestPath is the conformance suite directory, relative to this package
const TestPath = "testdata"

// LoadedTest represents a test with its source file path
type LoadedTest struct {
	File  string
	Suite *TestSuite
	Test  TestCase
}

// LoadAllTests walks dir and loads every test case from its YAML files,
// ordered by file name
func LoadAllTests(dir string) ([]LoadedTest, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var loaded []LoadedTest
	for _, path := range files {
		suite, err := LoadSuite(path)
		if err != nil {
			return nil, err
		}
		relPath, _ := filepath.Rel(dir, path)
		for _, test := range suite.Tests {
			loaded = append(loaded, LoadedTest{
				File:  filepath.ToSlash(relPath),
				Suite: suite,
				Test:  test,
			})
		}
	}
	return loaded, nil
}

// LoadSuite parses a single YAML file
func LoadSuite(path string) (*TestSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSuite(data, path)
}

// ParseSuite decodes a suite. Any decoding error is reported with the
// file name.
func ParseSuite(data []byte, name string) (*TestSuite, error) {
	var suite TestSuite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if suite.Name == "" {
		suite.Name = filepath.Base(name)
	}
	return &suite, nil
}
