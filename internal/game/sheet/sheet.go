// Package sheet loads and validates character-sheet records from YAML.
//
// A sheet is the configuration surface for character construction: every
// field is checked here so that no partially valid character is ever
// observable downstream.
package sheet

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// AbilityNames are the six ability keys every sheet must define.
var AbilityNames = []string{"strength", "dexterity", "constitution", "intelligence", "wisdom", "charisma"}

// CoreProficiencyNames are the proficiency keys every sheet must define.
var CoreProficiencyNames = []string{"insight", "investigation", "perception"}

// OptionalProficiencyNames are proficiency keys a sheet may define but is not
// required to.
var OptionalProficiencyNames = []string{"stealth"}

// Sheet is one character-sheet record as stored on disk.
//
// ProficiencyBonus and Darkvision are pointers so a missing field can be told
// apart from a zero value during validation.
type Sheet struct {
	Name                  string         `yaml:"name"`
	Abilities             map[string]int `yaml:"abilities"`
	Proficiencies         map[string]int `yaml:"proficiencies"`
	ProficiencyAdvantages map[string]int `yaml:"proficiency_advantages"`
	ProficiencyBonus      *int           `yaml:"proficiency_bonus"`
	Darkvision            *bool          `yaml:"darkvision"`
}

// Bonus returns the sheet's proficiency bonus.
//
// Precondition: the sheet has passed Validate.
func (s *Sheet) Bonus() int { return *s.ProficiencyBonus }

// HasDarkvision reports whether the character can see in darkness.
//
// Precondition: the sheet has passed Validate.
func (s *Sheet) HasDarkvision() bool { return *s.Darkvision }

// Validate checks every sheet invariant.
//
// Postcondition: Returns nil if the sheet is valid, or an error describing
// all violations with the offending field names.
func (s *Sheet) Validate() error {
	var errs []string

	if s.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	if err := validateAbilities(s.Abilities); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateProficiencies(s.Proficiencies); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateProficiencyAdvantages(s.ProficiencyAdvantages, s.Proficiencies); err != nil {
		errs = append(errs, err.Error())
	}
	if s.ProficiencyBonus == nil {
		errs = append(errs, "proficiency_bonus is required")
	} else if *s.ProficiencyBonus < 0 || *s.ProficiencyBonus > 255 {
		errs = append(errs, fmt.Sprintf("proficiency_bonus must be in [0, 255], got %d", *s.ProficiencyBonus))
	}
	if s.Darkvision == nil {
		errs = append(errs, "darkvision is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("sheet validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateAbilities(abilities map[string]int) error {
	if abilities == nil {
		return fmt.Errorf("abilities is required")
	}
	validNames := map[string]bool{
		"strength": true, "dexterity": true, "constitution": true,
		"intelligence": true, "wisdom": true, "charisma": true,
	}

	var errs []string
	for _, name := range AbilityNames {
		if _, ok := abilities[name]; !ok {
			errs = append(errs, fmt.Sprintf("abilities.%s is required", name))
		}
	}
	for _, key := range sortedKeys(abilities) {
		if !validNames[key] {
			errs = append(errs, fmt.Sprintf("unknown ability %q", key))
			continue
		}
		if v := abilities[key]; v < 0 || v > 255 {
			errs = append(errs, fmt.Sprintf("abilities.%s must be in [0, 255], got %d", key, v))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateProficiencies(proficiencies map[string]int) error {
	if proficiencies == nil {
		return fmt.Errorf("proficiencies is required")
	}
	validNames := map[string]bool{
		"insight": true, "investigation": true, "perception": true, "stealth": true,
	}

	var errs []string
	for _, name := range CoreProficiencyNames {
		if _, ok := proficiencies[name]; !ok {
			errs = append(errs, fmt.Sprintf("proficiencies.%s is required", name))
		}
	}
	for _, key := range sortedKeys(proficiencies) {
		if !validNames[key] {
			errs = append(errs, fmt.Sprintf("unknown proficiency %q", key))
			continue
		}
		if v := proficiencies[key]; v < 0 || v > 255 {
			errs = append(errs, fmt.Sprintf("proficiencies.%s must be in [0, 255], got %d", key, v))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateProficiencyAdvantages(advantages, proficiencies map[string]int) error {
	if advantages == nil {
		return nil // optional field
	}
	validNames := map[string]bool{
		"insight": true, "investigation": true, "perception": true, "stealth": true,
	}

	var errs []string
	for _, key := range sortedKeys(advantages) {
		if !validNames[key] {
			errs = append(errs, fmt.Sprintf("unknown proficiency %q in proficiency_advantages", key))
			continue
		}
		if _, ok := proficiencies[key]; !ok {
			errs = append(errs, fmt.Sprintf("proficiency_advantages.%s refers to a proficiency not in proficiencies", key))
		}
		if v := advantages[key]; v < -1 || v > 1 {
			errs = append(errs, fmt.Sprintf("proficiency_advantages.%s must be in [-1, 1], got %d", key, v))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Load reads and validates one sheet file.
//
// Precondition: path must point to a YAML sheet record.
// Postcondition: Returns a fully validated Sheet or an error naming the file.
func Load(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	var s Sheet
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}
	return &s, nil
}

// LoadDirectory reads every *.yaml/*.yml file in dir as a sheet record.
// Files are visited in lexical order, so the returned slice is deterministic.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns only fully validated sheets, or the first error hit.
func LoadDirectory(dir string) ([]*Sheet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading sheet dir %q: %w", dir, err)
	}
	var sheets []*Sheet
	for _, e := range entries {
		if e.IsDir() || !hasYAMLSuffix(e.Name()) {
			continue
		}
		s, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, s)
	}
	return sheets, nil
}

func hasYAMLSuffix(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
