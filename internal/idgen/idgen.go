package idgen

import "github.com/google/uuid"

// NewFunc produces a new globally unique identifier. It is a package variable
// so tests can install a deterministic generator.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new opaque identifier.
func New() string { return NewFunc() }
