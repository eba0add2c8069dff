package hashing

import (
	"context"
	"slices"
	"testing"
)

func TestEmbed_Deterministic(t *testing.T) {
	e := New(64)

	a, err := e.Embed(context.Background(), "the quick brown fox")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	b, err := e.Embed(context.Background(), "the quick brown fox")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if !slices.Equal(a, b) {
		t.Error("expected identical vectors for identical input")
	}
}

func TestEmbed_CaseInsensitive(t *testing.T) {
	e := New(64)

	a, _ := e.Embed(context.Background(), "Weekend Plans")
	b, _ := e.Embed(context.Background(), "weekend plans")
	if !slices.Equal(a, b) {
		t.Error("expected case-folded tokens to hash identically")
	}
}

func TestEmbed_Dimensions(t *testing.T) {
	e := New(128)
	if e.Dimensions() != 128 {
		t.Errorf("expected 128 dimensions, got %d", e.Dimensions())
	}

	vec, _ := e.Embed(context.Background(), "anything")
	if len(vec) != 128 {
		t.Errorf("expected vector of length 128, got %d", len(vec))
	}
}

func TestEmbed_DefaultDimensions(t *testing.T) {
	if e := New(0); e.Dimensions() != DefaultDimensions {
		t.Errorf("expected default %d, got %d", DefaultDimensions, e.Dimensions())
	}
}

func TestEmbed_CountsRepeatedTokens(t *testing.T) {
	e := New(64)

	single, _ := e.Embed(context.Background(), "fox")
	double, _ := e.Embed(context.Background(), "fox fox")

	var sumSingle, sumDouble float32
	for i := range single {
		sumSingle += single[i]
		sumDouble += double[i]
	}
	if sumDouble != 2*sumSingle {
		t.Errorf("expected doubled counts, got %v vs %v", sumDouble, sumSingle)
	}
}

func TestEmbed_EmptyText(t *testing.T) {
	e := New(32)

	vec, err := e.Embed(context.Background(), "")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	for i, v := range vec {
		if v != 0 {
			t.Errorf("expected zero vector, bucket %d = %v", i, v)
		}
	}
}
