package vakya

import (
	"testing"
)

func TestNewRange_Normalizes(t *testing.T) {
	tests := []struct {
		a, b   int
		lo, hi int
	}{
		{2, 5, 2, 5},
		{5, 2, 2, 5},
		{3, 3, 3, 3},
		{-1, 4, -1, 4},
	}
	for _, tt := range tests {
		r := NewRange(tt.a, tt.b)
		if r.Lo != tt.lo || r.Hi != tt.hi {
			t.Errorf("NewRange(%d, %d) = [%d %d], want [%d %d]", tt.a, tt.b, r.Lo, r.Hi, tt.lo, tt.hi)
		}
	}
}

func TestRange_ContainsIsInclusive(t *testing.T) {
	r := NewRange(2, 5)
	for n, want := range map[int]bool{1: false, 2: true, 3: true, 5: true, 6: false} {
		if got := r.Contains(n); got != want {
			t.Errorf("Contains(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestBuildQuery_DefaultLimit(t *testing.T) {
	q, err := buildQuery(nil)
	if err != nil {
		t.Fatalf("buildQuery: %v", err)
	}
	if q.Limit() != DefaultSemanticResults {
		t.Errorf("expected default limit %d, got %d", DefaultSemanticResults, q.Limit())
	}
	if !q.IsEmpty() {
		t.Error("expected empty query")
	}
}

func TestBuildQuery_ExplicitOptionsWinOverArgs(t *testing.T) {
	q, err := buildQuery([]ReadOption{
		WithSemantic("direct"),
		WithLimit(7),
		WithArgs(map[string]string{
			ArgSemanticKeyword: "from-args",
			ArgResultCount:     "2",
		}),
	})
	if err != nil {
		t.Fatalf("buildQuery: %v", err)
	}
	if q.Semantic() != "direct" {
		t.Errorf("expected explicit semantic term to win, got %q", q.Semantic())
	}
	if q.Limit() != 7 {
		t.Errorf("expected explicit limit to win, got %d", q.Limit())
	}
}

func TestBuildQuery_UnknownArgsPassThrough(t *testing.T) {
	q, err := buildQuery([]ReadOption{
		WithArgs(map[string]string{"custom_flag": "yes"}),
	})
	if err != nil {
		t.Fatalf("buildQuery: %v", err)
	}
	if q.Arg("custom_flag") != "yes" {
		t.Errorf("expected passthrough arg preserved, got %q", q.Arg("custom_flag"))
	}
	if !q.IsEmpty() {
		t.Error("unknown args must not count as filters")
	}
}
