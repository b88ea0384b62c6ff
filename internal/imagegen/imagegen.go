// Package imagegen defines the contract between the studio and text-to-image
// vendors.
package imagegen

import (
	"context"
	"time"
)

type Request struct {
	Prompt         string
	Seed           *int64
	NegativePrompt string
}

type Result struct {
	ImageURL string
	Prompt   string
	Seed     int64
	Duration time.Duration
}

type Generator interface {
	Generate(ctx context.Context, req Request) (Result, error)
}

// Seed returns a pointer to s, for building requests inline.
func Seed(s int64) *int64 {
	return &s
}
