// Package utils provides the small collaborators the services depend on:
// identifier generation and phone-number validation.
//
// Go Learning Note — "pkg/" Directory Convention:
// Code under pkg/ is intended to be importable by external projects (unlike
// internal/ which is compiler-enforced private). This is a community
// convention, not a Go language feature.
package utils

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator hands out globally unique, opaque identifiers.
//
// Go Learning Note — Small Interfaces:
// A one-method interface lets production code use random UUIDs while tests
// swap in a deterministic sequence. The consumer (the service) declares what
// it needs; any type with a NextID method satisfies it implicitly.
type IDGenerator interface {
	NextID() string
}

// UUIDGenerator creates UUID v4 strings like
// "550e8400-e29b-41d4-a716-446655440000".
type UUIDGenerator struct{}

func NewUUIDGenerator() UUIDGenerator {
	return UUIDGenerator{}
}

func (UUIDGenerator) NextID() string {
	return uuid.New().String()
}

// SequenceGenerator yields "<prefix>-1", "<prefix>-2", ... and is safe for
// concurrent use.
type SequenceGenerator struct {
	prefix string
	next   atomic.Uint64
}

func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

func (g *SequenceGenerator) NextID() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.next.Add(1))
}
