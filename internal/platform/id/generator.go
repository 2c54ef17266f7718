package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque IDs for sync runs and dedup keys.
type Generator interface {
	NewID() (string, error)
}

// UUIDGenerator issues time-ordered v7 UUIDs so run ids sort by start time.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	value, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return value.String(), nil
}

// Static always returns the same id; useful for deterministic tests.
type Static string

func (s Static) NewID() (string, error) {
	return string(s), nil
}
