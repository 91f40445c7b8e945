package scrollctl

import "time"

// StaleGap is the inter-sample gap beyond which the velocity tracker
// discards its history and starts a fresh baseline.
const StaleGap = 100 * time.Millisecond

// MinReliableSamples is the sample count from which a reported velocity
// is considered trustworthy rather than a noisy first guess.
const MinReliableSamples = 3

// VelocitySampleCount is the ring buffer capacity.
const VelocitySampleCount = 8

type sample struct {
	position float64
	at       time.Time
}

// VelocityTracker reports the average scroll speed over a short rolling
// window, derived from a fixed-capacity circular buffer of position
// samples so the scroll hot path never allocates.
type VelocityTracker struct {
	samples     [VelocitySampleCount]sample
	head        int
	count       int
	lastTime    time.Time
	hasLast     bool
	velocity    float64
}

// NewVelocityTracker returns a tracker with no recorded samples.
func NewVelocityTracker() *VelocityTracker {
	return &VelocityTracker{}
}

// Update records a new (position, time) sample, resetting the window if the
// gap since the previous sample exceeded StaleGap.
func (vt *VelocityTracker) Update(position float64, now time.Time) {
	if !vt.hasLast {
		vt.reset(position, now)
		return
	}
	dt := now.Sub(vt.lastTime)
	if dt <= 0 {
		return
	}
	if dt > StaleGap {
		vt.reset(position, now)
		return
	}
	vt.samples[vt.head] = sample{position: position, at: now}
	vt.head = (vt.head + 1) % VelocitySampleCount
	if vt.count < VelocitySampleCount {
		vt.count++
	}
	vt.lastTime = now
	vt.hasLast = true

	if vt.count >= 2 {
		oldest := vt.oldestSample()
		elapsed := now.Sub(oldest.at).Seconds()
		if elapsed > 0 {
			vt.velocity = (position - oldest.position) / elapsed
		}
	}
}

func (vt *VelocityTracker) reset(position float64, now time.Time) {
	vt.head = 1
	vt.count = 1
	vt.samples[0] = sample{position: position, at: now}
	vt.lastTime = now
	vt.hasLast = true
	vt.velocity = 0
}

func (vt *VelocityTracker) oldestSample() sample {
	if vt.count < VelocitySampleCount {
		return vt.samples[0]
	}
	return vt.samples[vt.head]
}

// GetVelocity returns the absolute value of the tracked velocity in units
// per second.
func (vt *VelocityTracker) GetVelocity() float64 {
	if vt.velocity < 0 {
		return -vt.velocity
	}
	return vt.velocity
}

// IsReliable reports whether enough samples have accumulated since the last
// reset for the reported velocity to be trusted.
func (vt *VelocityTracker) IsReliable() bool {
	return vt.count >= MinReliableSamples
}
