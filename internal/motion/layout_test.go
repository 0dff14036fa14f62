package motion

import (
	"errors"
	"testing"
)

func TestLayoutDerivedGeometry(t *testing.T) {
	l, err := NewLayout(Layout{ElementWidth: 2, ElementGap: 8, ElementCount: 40, BaseHeight: 24, ActiveHeight: 32})
	if err != nil {
		t.Fatalf("NewLayout() error = %v", err)
	}
	if got := l.Pitch(); got != 10 {
		t.Fatalf("Pitch() = %v, want 10", got)
	}
	if got := l.TravelRange(); got != 390 {
		t.Fatalf("TravelRange() = %v, want 390", got)
	}
	if got := l.Center(3); got != 31 {
		t.Fatalf("Center(3) = %v, want 31", got)
	}
	if got := l.Width(); got != 392 {
		t.Fatalf("Width() = %v, want 392", got)
	}
}

func TestNewLayoutRejectsSingleElement(t *testing.T) {
	for _, n := range []int{-1, 0, 1} {
		_, err := NewLayout(Layout{ElementWidth: 2, ElementGap: 8, ElementCount: n})
		if !errors.Is(err, ErrTooFewElements) {
			t.Fatalf("NewLayout(count=%d) error = %v, want ErrTooFewElements", n, err)
		}
	}
}

func TestLayoutActiveTicks(t *testing.T) {
	l := DefaultOptions().Layout
	if !l.IsActive(0) || !l.IsActive(l.ElementCount-1) {
		t.Fatal("expected first and last lines to be active")
	}
	active := 0
	for i := range l.ElementCount {
		if l.IsActive(i) {
			active++
			if got := l.Height(i); got != l.ActiveHeight {
				t.Fatalf("Height(%d) = %v, want active height", i, got)
			}
		} else if got := l.Height(i); got != l.BaseHeight {
			t.Fatalf("Height(%d) = %v, want base height", i, got)
		}
	}
	if active < 3 || active > l.ElementCount/2 {
		t.Fatalf("unexpected active tick count %d", active)
	}
}
