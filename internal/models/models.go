// Package models provides domain models shared by the pricing, option and
// spread packages.
package models

import (
	"strings"

	apperrors "spread-analyzer/internal/errors"
)

// OptionType represents the right carried by an option contract.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// ParseOptionType parses "call"/"put" (also "CE"/"PE", "C"/"P").
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c", "ce":
		return Call, nil
	case "put", "p", "pe":
		return Put, nil
	default:
		return "", apperrors.NewPreconditionError("parse option type", "type", s,
			"expected call or put", apperrors.ErrInputMalformed)
	}
}

// IsCall returns true for call options.
func (t OptionType) IsCall() bool {
	return t == Call
}

// Direction represents which side of a trade a leg is on.
type Direction string

const (
	DirectionNone   Direction = ""
	DirectionBought Direction = "Bought"
	DirectionSold   Direction = "Sold"
)

// String returns a readable name, "None" for an untraded contract.
func (d Direction) String() string {
	if d == DirectionNone {
		return "None"
	}
	return string(d)
}

// Sign returns -1 for sold and +1 otherwise.
func (d Direction) Sign() float64 {
	if d == DirectionSold {
		return -1
	}
	return 1
}

// Opposite returns the other side of a trade. An untraded direction stays
// untraded.
func (d Direction) Opposite() Direction {
	switch d {
	case DirectionBought:
		return DirectionSold
	case DirectionSold:
		return DirectionBought
	default:
		return DirectionNone
	}
}
