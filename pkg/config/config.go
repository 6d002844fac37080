// Package config loads optional vocabulary overrides from the nearest
// `.vaultlint.yaml` file above the contract being analyzed.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vaultlint/vaultlint/pkg/vocab"
)

const fileName = ".vaultlint.yaml"

// Overrides holds vocabulary-list replacements read from a project's
// config file. Any field left empty keeps the built-in default for
// that list; a populated field replaces the corresponding default list
// wholesale.
type Overrides struct {
	GateFunctions        []string `yaml:"gate_functions,omitempty"`
	GateMethods          []string `yaml:"gate_methods,omitempty"`
	IdentityIdentifiers  []string `yaml:"identity_identifiers,omitempty"`
	SwapNames            []string `yaml:"swap_names,omitempty"`
	DeserializeNames     []string `yaml:"deserialize_names,omitempty"`
	AccountCreationNames []string `yaml:"account_creation_names,omitempty"`
	RentReceiver         string   `yaml:"rent_receiver,omitempty"`
	RentMethod           string   `yaml:"rent_method,omitempty"`

	ExpectedAmountFragments []string `yaml:"expected_amount_fragments,omitempty"`
	ActualAmountFragments   []string `yaml:"actual_amount_fragments,omitempty"`
	SerializeMethods        []string `yaml:"serialize_methods,omitempty"`
	OwnershipCheckMethods   []string `yaml:"ownership_check_methods,omitempty"`
	OwnerFieldNames         []string `yaml:"owner_field_names,omitempty"`
	AccountBaseFragments    []string `yaml:"account_base_fragments,omitempty"`
}

// Load reads and parses an overrides file.
func Load(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &o, nil
}

// Find searches startDir and its parents for a `.vaultlint.yaml` file,
// returning "" with no error if none is found.
func Find(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, fileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadFromDir finds and loads the nearest `.vaultlint.yaml` above dir,
// returning a nil *Overrides (no error) if none exists.
func LoadFromDir(dir string) (*Overrides, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, nil
	}
	return Load(path)
}

// Apply builds a vocabulary by starting from base and replacing each
// list the overrides populate. base is never mutated.
func (o *Overrides) Apply(base vocab.Vocabulary) vocab.Vocabulary {
	if o == nil {
		return base
	}

	result := base

	if len(o.GateFunctions) > 0 {
		result.GateFunctions = vocab.NewSet(o.GateFunctions...)
	}
	if len(o.GateMethods) > 0 {
		result.GateMethods = vocab.NewSet(o.GateMethods...)
	}
	if len(o.IdentityIdentifiers) > 0 {
		result.IdentityIdentifiers = vocab.NewSet(o.IdentityIdentifiers...)
	}
	if len(o.SwapNames) > 0 {
		result.SwapNames = vocab.NewSet(o.SwapNames...)
	}
	if len(o.DeserializeNames) > 0 {
		result.DeserializeNames = vocab.NewSet(o.DeserializeNames...)
	}
	if len(o.AccountCreationNames) > 0 {
		result.AccountCreationNames = vocab.NewSet(o.AccountCreationNames...)
	}
	if o.RentReceiver != "" {
		result.RentReceiver = o.RentReceiver
	}
	if o.RentMethod != "" {
		result.RentMethod = o.RentMethod
	}
	if len(o.ExpectedAmountFragments) > 0 {
		result.ExpectedAmountFragments = vocab.NewFragmentSet(o.ExpectedAmountFragments...)
	}
	if len(o.ActualAmountFragments) > 0 {
		result.ActualAmountFragments = vocab.NewFragmentSet(o.ActualAmountFragments...)
	}
	if len(o.SerializeMethods) > 0 {
		result.SerializeMethods = vocab.NewSet(o.SerializeMethods...)
	}
	if len(o.OwnershipCheckMethods) > 0 {
		result.OwnershipCheckMethods = vocab.NewSet(o.OwnershipCheckMethods...)
	}
	if len(o.OwnerFieldNames) > 0 {
		result.OwnerFieldNames = vocab.NewSet(o.OwnerFieldNames...)
	}
	if len(o.AccountBaseFragments) > 0 {
		result.AccountBaseFragments = vocab.NewFragmentSet(o.AccountBaseFragments...)
	}

	return result
}
