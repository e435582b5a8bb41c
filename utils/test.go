package utils

import (
	"math"
	"testing"
)

func AssertTrue(t *testing.T, a bool) {
	t.Helper()
	if !a {
		t.Fatalf("Expected true, got false")
	}
}

func AssertEqual(t *testing.T, a interface{}, b interface{}) {
	t.Helper()
	if a != b {
		t.Fatalf("Expected equal: %v != %v\n", a, b)
	}
}

// AssertClose fails unless |a-b| <= eps. NaN is close only to NaN.
func AssertClose(t *testing.T, a, b, eps float64) {
	t.Helper()
	if math.IsNaN(a) && math.IsNaN(b) {
		return
	}
	if math.Abs(a-b) > eps {
		t.Fatalf("Expected close (eps %g): %v != %v\n", eps, a, b)
	}
}

// AssertSliceClose applies AssertClose element-wise with a relative
// tolerance scaled by the larger magnitude.
func AssertSliceClose(t *testing.T, a, b []float64, rel float64) {
	t.Helper()
	if len(a) != len(b) {
		t.Fatalf("Expected equal lengths: %d != %d\n", len(a), len(b))
	}
	for i := range a {
		scale := math.Max(1, math.Max(math.Abs(a[i]), math.Abs(b[i])))
		AssertClose(t, a[i], b[i], rel*scale)
	}
}
