package distance

import (
	"context"
	"math"
	"testing"
)

func TestStraightLineProvider(t *testing.T) {
	p, err := NewStraightLineProvider(36, 1)
	if err != nil {
		t.Fatalf("NewStraightLineProvider: %v", err)
	}

	m, err := p.GetCostMatrix(context.Background(), testStops())
	if err != nil {
		t.Fatalf("GetCostMatrix: %v", err)
	}
	if m.Len() != 6 {
		t.Fatalf("m.Len() = %d, want 6", m.Len())
	}

	ab, _ := m.Entry("A", "B")
	ba, _ := m.Entry("B", "A")
	if ab != ba {
		t.Fatalf("A->B = %+v, B->A = %+v, want symmetric", ab, ba)
	}

	// 0.01 degrees of longitude at the equator is roughly 1.11 km.
	if math.Abs(ab.DistanceMeters-1112) > 5 {
		t.Fatalf("A->B distance = %.1f, want ~1112", ab.DistanceMeters)
	}
	// 36 km/h is 10 m/s.
	if math.Abs(ab.DurationSeconds-ab.DistanceMeters/10) > 1e-9 {
		t.Fatalf("A->B duration = %.3f, want %.3f", ab.DurationSeconds, ab.DistanceMeters/10)
	}
}

func TestStraightLineProvider_Detour(t *testing.T) {
	plain, _ := NewStraightLineProvider(40, 1)
	scaled, _ := NewStraightLineProvider(40, 1.3)

	m1, _ := plain.GetCostMatrix(context.Background(), testStops())
	m2, _ := scaled.GetCostMatrix(context.Background(), testStops())

	a, _ := m1.Entry("A", "C")
	b, _ := m2.Entry("A", "C")
	if math.Abs(b.DistanceMeters-1.3*a.DistanceMeters) > 1e-6 {
		t.Fatalf("detour distance = %.3f, want %.3f", b.DistanceMeters, 1.3*a.DistanceMeters)
	}
}

func TestNewStraightLineProvider_RejectsSpeed(t *testing.T) {
	if _, err := NewStraightLineProvider(0, 1); err == nil {
		t.Fatalf("expected error for zero speed")
	}
}
