package scrollctl

import (
	"testing"
	"time"
)

func TestVelocityReportsMovement(t *testing.T) {
	vt := NewVelocityTracker()
	base := time.Now()
	vt.Update(0, base)
	vt.Update(10, base.Add(16*time.Millisecond))
	vt.Update(20, base.Add(32*time.Millisecond))
	vt.Update(30, base.Add(48*time.Millisecond))

	if !vt.IsReliable() {
		t.Errorf("expected tracker to be reliable after 4 samples")
	}
	if vt.GetVelocity() <= 0 {
		t.Errorf("expected positive velocity, got %v", vt.GetVelocity())
	}
}

func TestVelocityStaleGapResetsE6(t *testing.T) {
	vt := NewVelocityTracker()
	base := time.Now()
	vt.Update(0, base)
	vt.Update(16, base.Add(16*time.Millisecond))
	vt.Update(32, base.Add(32*time.Millisecond))
	vt.Update(48, base.Add(48*time.Millisecond))

	// pause 200ms then resume with a single sample
	vt.Update(60, base.Add(48*time.Millisecond+200*time.Millisecond))

	if vt.GetVelocity() != 0 {
		t.Errorf("GetVelocity() after stale gap = %v, want 0", vt.GetVelocity())
	}
	if vt.IsReliable() {
		t.Errorf("IsReliable() should be false immediately after reset")
	}
}

func TestVelocityZeroDtIgnored(t *testing.T) {
	vt := NewVelocityTracker()
	base := time.Now()
	vt.Update(0, base)
	vt.Update(5, base)
	if vt.count != 1 {
		t.Errorf("zero-delta sample should be ignored, count = %d", vt.count)
	}
}
