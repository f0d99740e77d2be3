package roster

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeedYAML []byte

// SeedActivity is one row of the seed table.
type SeedActivity struct {
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	Schedule        string   `yaml:"schedule"`
	MaxParticipants int      `yaml:"max_participants"`
	Participants    []string `yaml:"participants"`
}

// Seed is the immutable initial dataset a Store is built from and reset to.
type Seed struct {
	Activities []SeedActivity `yaml:"activities"`
}

// DefaultSeed returns the bundled Mergington catalog.
func DefaultSeed() (Seed, error) {
	return ParseSeed(defaultSeedYAML)
}

// LoadSeedFile reads a YAML seed table from disk.
func LoadSeedFile(path string) (Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(raw)
}

// ParseSeed decodes and validates a YAML seed table.
func ParseSeed(raw []byte) (Seed, error) {
	var seed Seed
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil && !errors.Is(err, io.EOF) {
		return Seed{}, fmt.Errorf("decode seed: %w", err)
	}
	if err := seed.Validate(); err != nil {
		return Seed{}, err
	}
	return seed, nil
}

// Validate checks the roster invariants over the whole table.
func (s Seed) Validate() error {
	names := make(map[string]struct{}, len(s.Activities))
	for _, a := range s.Activities {
		if strings.TrimSpace(a.Name) == "" {
			return errors.New("seed: activity name is required")
		}
		if _, dup := names[a.Name]; dup {
			return fmt.Errorf("seed: duplicate activity %q", a.Name)
		}
		names[a.Name] = struct{}{}
		if a.MaxParticipants < 0 {
			return fmt.Errorf("seed: activity %q has negative max_participants", a.Name)
		}
		members := make(map[string]struct{}, len(a.Participants))
		for _, email := range a.Participants {
			if email == "" {
				return fmt.Errorf("seed: activity %q has an empty participant", a.Name)
			}
			if _, dup := members[email]; dup {
				return fmt.Errorf("seed: activity %q lists %q twice", a.Name, email)
			}
			members[email] = struct{}{}
		}
	}
	return nil
}
