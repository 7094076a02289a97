package asm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/duet/instr"
)

// programFile is the YAML layout of a program file. Code is either a list of
// instruction lines or a single block string.
type programFile struct {
	Name string    `yaml:"name"`
	Code yaml.Node `yaml:"code"`
}

// LoadFile loads a program, choosing the format by file extension.
func LoadFile(path string) (instr.Program, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadProgramFileFromYAML(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return instr.Program{}, fmt.Errorf("failed to read program file: %w", err)
	}

	return Parse(programName(path), string(data))
}

// LoadProgramFileFromYAML loads a YAML program file.
func LoadProgramFileFromYAML(path string) (instr.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return instr.Program{}, fmt.Errorf("failed to read program file: %w", err)
	}

	prog, err := ParseYAML(data)
	if err != nil {
		return instr.Program{}, fmt.Errorf("%s: %w", path, err)
	}

	if prog.Name == "" {
		prog.Name = programName(path)
	}

	return prog, nil
}

// ParseYAML decodes a YAML program document.
func ParseYAML(data []byte) (instr.Program, error) {
	var f programFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return instr.Program{}, fmt.Errorf("invalid program yaml: %w", err)
	}

	var text string
	switch f.Code.Kind {
	case yaml.ScalarNode:
		text = f.Code.Value
	case yaml.SequenceNode:
		var lines []string
		if err := f.Code.Decode(&lines); err != nil {
			return instr.Program{}, fmt.Errorf("invalid program code: %w", err)
		}
		text = strings.Join(lines, "\n")
	case 0:
		return instr.Program{}, fmt.Errorf("program has no code")
	default:
		return instr.Program{}, fmt.Errorf("program code must be a list or a string")
	}

	return Parse(f.Name, text)
}

func programName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
