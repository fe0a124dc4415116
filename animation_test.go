package linkframe

import (
	"testing"
	"time"

	"github.com/tanema/gween/ease"
)

func TestSlideTweenForwardReachesZero(t *testing.T) {
	tw := NewSlideTween(DirectionForward, 250*time.Millisecond, nil)
	if tw.Offset != 1 {
		t.Fatalf("initial offset = %v, want 1", tw.Offset)
	}
	tw.Update(0.1)
	if tw.Offset <= 0 || tw.Offset >= 1 || tw.Done {
		t.Errorf("mid offset = %v done=%v", tw.Offset, tw.Done)
	}
	tw.Update(0.2)
	if !tw.Done || tw.Offset != 0 {
		t.Errorf("final offset = %v done=%v, want 0 true", tw.Offset, tw.Done)
	}
}

func TestSlideTweenBackStartsLeft(t *testing.T) {
	tw := NewSlideTween(DirectionBack, 100*time.Millisecond, ease.Linear)
	if tw.Offset != -1 {
		t.Fatalf("initial offset = %v, want -1", tw.Offset)
	}
	tw.Update(0.05)
	if tw.Offset >= 0 || tw.Offset <= -1 {
		t.Errorf("mid offset = %v, want in (-1, 0)", tw.Offset)
	}
}

func TestSlideTweenDoneIsStable(t *testing.T) {
	tw := NewSlideTween(DirectionForward, 10*time.Millisecond, nil)
	tw.Update(1)
	tw.Update(1)
	if tw.Offset != 0 || !tw.Done {
		t.Errorf("offset = %v done=%v", tw.Offset, tw.Done)
	}
	var nilTween *SlideTween
	nilTween.Update(1)
}

func TestSlideTweenEasingsDiffer(t *testing.T) {
	linear := NewSlideTween(DirectionForward, time.Second, ease.Linear)
	cubic := NewSlideTween(DirectionForward, time.Second, ease.OutCubic)
	linear.Update(0.5)
	cubic.Update(0.5)
	if linear.Offset == cubic.Offset {
		t.Errorf("linear and OutCubic agree at midpoint: %v", linear.Offset)
	}
}
