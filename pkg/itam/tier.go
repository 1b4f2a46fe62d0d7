// SPDX-License-Identifier: MPL-2.0

package itam

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

const (
	// TierProduction covers production and disaster-recovery hosts.
	TierProduction Tier = "Production"
	// TierUAT covers user-acceptance hosts.
	TierUAT Tier = "UAT"
	// TierLower covers development and QA hosts.
	TierLower Tier = "Lower"
)

// ErrInvalidTier is the sentinel error wrapped by InvalidTierError.
var ErrInvalidTier = errors.New("invalid tier")

// tierEnvironments maps each tier to the ITAM Env labels in scope for it.
var tierEnvironments = map[Tier][]string{
	TierProduction: {"Production", "DR"},
	TierUAT:        {"UAT"},
	TierLower:      {"Development", "QA"},
}

type (
	// Tier selects which deployment environments an inventory covers.
	Tier string

	// InvalidTierError is returned when a Tier value is not recognized.
	// It wraps ErrInvalidTier for errors.Is() compatibility.
	InvalidTierError struct {
		Value Tier
	}
)

// Tiers returns every known tier in a stable order.
func Tiers() []Tier {
	return []Tier{TierProduction, TierUAT, TierLower}
}

// String returns the string representation of the Tier.
func (t Tier) String() string { return string(t) }

// IsValid returns whether the Tier is one of the known tiers.
func (t Tier) IsValid() (bool, []error) {
	if _, ok := tierEnvironments[t]; !ok {
		return false, []error{&InvalidTierError{Value: t}}
	}
	return true, nil
}

// Validate returns an error if the Tier is not one of the known tiers.
func (t Tier) Validate() error {
	if valid, errs := t.IsValid(); !valid {
		return errs[0]
	}
	return nil
}

// Environments returns a copy of the Env labels covered by the tier,
// or nil for an unknown tier.
func (t Tier) Environments() []string {
	return slices.Clone(tierEnvironments[t])
}

// Includes reports whether a record with the given Env label is in scope.
func (t Tier) Includes(env string) bool {
	return slices.Contains(tierEnvironments[t], env)
}

// Error implements the error interface for InvalidTierError.
func (e *InvalidTierError) Error() string {
	names := make([]string, 0, len(tierEnvironments))
	for _, t := range Tiers() {
		names = append(names, string(t))
	}
	if e.Value == "" {
		return fmt.Sprintf("invalid tier: no tier specified (must be one of %s)", strings.Join(names, ", "))
	}
	return fmt.Sprintf("invalid tier %q (must be one of %s)", e.Value, strings.Join(names, ", "))
}

// Unwrap returns ErrInvalidTier for errors.Is() compatibility.
func (e *InvalidTierError) Unwrap() error { return ErrInvalidTier }
