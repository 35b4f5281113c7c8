// Package settings decodes, validates and serves scoring configuration snapshots.
package settings

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spigell/fitscore/internal/extract"
	"github.com/spigell/fitscore/internal/scoring"
)

// weightTolerance is how far the weight sum may drift from 1.
const weightTolerance = 0.01

var (
	ErrWeightSum     = errors.New("scoring weights must sum to 1")
	ErrUnknownDegree = errors.New("unknown degree level")
	validate         = validator.New()
)

// Settings is the full scoring section of the configuration.
type Settings struct {
	scoring.Config     `mapstructure:",squash"`
	DegreeEquivalences map[string]string `mapstructure:"degree-equivalences" json:"degree_equivalences,omitempty"`
}

// Default returns the stock settings.
func Default() Settings {
	return Settings{Config: scoring.DefaultConfig()}
}

// Decode applies input on top of base. Strings are accepted for numbers and
// unknown keys are rejected. The result is validated.
func Decode(input map[string]any, base Settings) (Settings, error) {
	out := base.clone()
	if len(input) == 0 {
		return out, Validate(out)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &out,
	})
	if err != nil {
		return Settings{}, fmt.Errorf("create settings decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return Settings{}, fmt.Errorf("decode scoring settings: %w", err)
	}

	if err := Validate(out); err != nil {
		return Settings{}, err
	}
	return out, nil
}

// Validate checks ranges, the weight sum and the degree equivalence table.
func Validate(s Settings) error {
	if err := validate.Struct(s.Config); err != nil {
		return fmt.Errorf("invalid scoring settings: %w", err)
	}

	if sum := s.WeightSum(); math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("invalid scoring settings: %w (got %.3f)", ErrWeightSum, sum)
	}

	for phrase, level := range s.DegreeEquivalences {
		if extract.ParseDegreeLevel(level) == extract.DegreeUnknown {
			return fmt.Errorf("invalid degree equivalence %q: %w %q", phrase, ErrUnknownDegree, level)
		}
	}

	return nil
}

func (s Settings) clone() Settings {
	out := s
	if s.DegreeEquivalences != nil {
		out.DegreeEquivalences = maps.Clone(s.DegreeEquivalences)
	}
	return out
}

// Store holds the current validated settings and hands out read-only snapshots.
type Store struct {
	mu      sync.RWMutex
	current Settings
}

// NewStore validates initial and wraps it in a Store.
func NewStore(initial Settings) (*Store, error) {
	if err := Validate(initial); err != nil {
		return nil, err
	}
	return &Store{current: initial.clone()}, nil
}

// Snapshot returns a copy of the current settings.
func (s *Store) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone()
}

// Update applies overrides on top of the current settings. On error the store is unchanged.
func (s *Store) Update(overrides map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Decode(overrides, s.current)
	if err != nil {
		return err
	}
	s.current = next
	return nil
}

// With returns the current settings with overrides applied, leaving the store untouched.
func (s *Store) With(overrides map[string]any) (Settings, error) {
	return Decode(overrides, s.Snapshot())
}
