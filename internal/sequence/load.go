package sequence

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes a program from YAML. JSON documents parse too, with the same
// keys.
func Parse(b []byte) (Program, error) {
	var prog Program
	if err := yaml.Unmarshal(b, &prog); err != nil {
		return Program{}, fmt.Errorf("parse program: %w", err)
	}
	if err := prog.Validate(); err != nil {
		return Program{}, err
	}
	return prog, nil
}

func LoadFile(path string) (Program, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Program{}, err
	}
	prog, err := Parse(b)
	if err != nil {
		return Program{}, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

func SaveFile(path string, prog Program) error {
	b, err := yaml.Marshal(prog)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
