package segment

import (
	"slices"
	"testing"
)

func TestSegment_BasicProse(t *testing.T) {
	s := NewSplitter()

	got := s.Segment("The fox ran. The dog slept! Did the bird sing?")
	want := []string{"The fox ran.", "The dog slept!", "Did the bird sing?"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSegment_TerminatorRunsSplitOnFirst(t *testing.T) {
	s := NewSplitter()

	got := s.Segment("Really?! Yes... sure.")
	want := []string{"Really?", "Yes.", "sure."}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSegment_TrailingFragment(t *testing.T) {
	s := NewSplitter()

	got := s.Segment("First sentence. trailing fragment without terminator")
	want := []string{"First sentence.", "trailing fragment without terminator"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSegment_NoTerminator(t *testing.T) {
	s := NewSplitter()

	got := s.Segment("  just one line  ")
	want := []string{"just one line"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSegment_Empty(t *testing.T) {
	s := NewSplitter()

	if got := s.Segment("   \n\t "); got != nil {
		t.Errorf("expected nil for blank input, got %v", got)
	}
}

func TestSegment_Multiline(t *testing.T) {
	s := NewSplitter()

	got := s.Segment("Line one.\nLine two.\n\nLine three.")
	want := []string{"Line one.", "Line two.", "Line three."}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
