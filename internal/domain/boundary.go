package domain

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Boundary is a fixed partition start point
type Boundary struct {
	Index int `yaml:"index"`
	Surah int `yaml:"surah"`
	Ayah  int `yaml:"ayah"`
}

//go:embed boundaries.yaml
var boundariesYAML []byte

type boundaryFile struct {
	Juz  []Boundary `yaml:"juz"`
	Hizb []Boundary `yaml:"hizb"`
}

var boundaries = mustParseBoundaries(boundariesYAML)

func mustParseBoundaries(data []byte) boundaryFile {
	bf, err := parseBoundaries(data)
	if err != nil {
		panic(err)
	}
	return bf
}

// parseBoundaries decodes the boundary table file
func parseBoundaries(data []byte) (boundaryFile, error) {
	var bf boundaryFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return bf, fmt.Errorf("unmarshal boundaries: %w", err)
	}
	return bf, nil
}

// JuzBoundaries returns the 30 Juz start points
func JuzBoundaries() []Boundary {
	return append([]Boundary(nil), boundaries.Juz...)
}

// HizbBoundaries returns the 60 Hizb start points
func HizbBoundaries() []Boundary {
	return append([]Boundary(nil), boundaries.Hizb...)
}
