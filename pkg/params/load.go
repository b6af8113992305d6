package params

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads parameter overrides from a YAML file. Fields absent from the
// file keep their default values, so a file may override a single tunable.
func Load(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading params file: %w", err)
	}

	p := Defaults()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing params YAML: %w", err)
	}

	return p, nil
}

// LoadProject loads parameters from a project directory.
// It looks for gridcity.yaml in the given directory; a missing file is not
// an error and yields the defaults.
func LoadProject(projectDir string) (*Params, error) {
	path := filepath.Join(projectDir, "gridcity.yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Defaults(), nil
	}
	return Load(path)
}
