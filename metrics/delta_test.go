package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleAt(name string, wall time.Duration, user, system time.Duration, rss uint64) Sample {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return Sample{
		Name:       name,
		Timestamp:  base.Add(wall),
		UserTime:   user,
		SystemTime: system,
		MaxRSS:     rss,
	}
}

func TestDiff(t *testing.T) {
	start := sampleAt("op", 0, 100*time.Millisecond, 10*time.Millisecond, 1<<20)
	end := sampleAt("op", 250*time.Millisecond, 150*time.Millisecond, 25*time.Millisecond, 3<<20)

	d := Diff(end, start)

	assert.Equal(t, "op", d.Name)
	assert.Equal(t, 250*time.Millisecond, d.WallClock)
	assert.Equal(t, 50*time.Millisecond, d.UserTime)
	assert.Equal(t, 15*time.Millisecond, d.SystemTime)
	assert.Equal(t, uint64(2<<20), d.MaxRSS)
}

func TestDiffClampsNegativeComponents(t *testing.T) {
	// Swapped arguments model clock skew or misuse: every component must
	// clamp to zero rather than underflow.
	start := sampleAt("op", 100*time.Millisecond, 50*time.Millisecond, 20*time.Millisecond, 4<<20)
	end := sampleAt("op", 0, 10*time.Millisecond, 5*time.Millisecond, 1<<20)

	d := Diff(end, start)

	assert.Zero(t, d.WallClock)
	assert.Zero(t, d.UserTime)
	assert.Zero(t, d.SystemTime)
	assert.Zero(t, d.MaxRSS)
}

func TestDiffNonNegative(t *testing.T) {
	a := sampleAt("a", 0, 10*time.Millisecond, 2*time.Millisecond, 1<<20)
	b := sampleAt("a", time.Second, 30*time.Millisecond, 4*time.Millisecond, 1<<20)

	d := Diff(b, a)

	assert.GreaterOrEqual(t, d.WallClock, time.Duration(0))
	assert.GreaterOrEqual(t, d.UserTime, time.Duration(0))
	assert.GreaterOrEqual(t, d.SystemTime, time.Duration(0))
}

func TestCombineIsCommutative(t *testing.T) {
	x := Delta{Name: "x", WallClock: time.Second, UserTime: 300 * time.Millisecond, SystemTime: 50 * time.Millisecond, MaxRSS: 8 << 20}
	y := Delta{Name: "y", WallClock: 2 * time.Second, UserTime: 100 * time.Millisecond, SystemTime: 75 * time.Millisecond, MaxRSS: 4 << 20}

	xy := x.Combine(y)
	yx := y.Combine(x)

	// Names are inherited from the receiver and excluded from equality.
	assert.Equal(t, xy.WallClock, yx.WallClock)
	assert.Equal(t, xy.UserTime, yx.UserTime)
	assert.Equal(t, xy.SystemTime, yx.SystemTime)
	assert.Equal(t, xy.MaxRSS, yx.MaxRSS)
}

func TestCombineIsAssociative(t *testing.T) {
	x := Delta{WallClock: time.Second, UserTime: 10 * time.Millisecond, SystemTime: time.Millisecond, MaxRSS: 1 << 20}
	y := Delta{WallClock: 2 * time.Second, UserTime: 20 * time.Millisecond, SystemTime: 2 * time.Millisecond, MaxRSS: 5 << 20}
	z := Delta{WallClock: 3 * time.Second, UserTime: 30 * time.Millisecond, SystemTime: 3 * time.Millisecond, MaxRSS: 3 << 20}

	left := x.Combine(y).Combine(z)
	right := x.Combine(y.Combine(z))

	assert.Equal(t, left, right)
}

func TestCombineZeroIdentity(t *testing.T) {
	x := Delta{Name: "x", WallClock: time.Second, UserTime: 10 * time.Millisecond, SystemTime: time.Millisecond, MaxRSS: 1 << 20}

	assert.Equal(t, x, x.Combine(Delta{}))
}

func TestCombineTakesMaxRSS(t *testing.T) {
	// Peak memory does not accumulate across intervals.
	a := Delta{MaxRSS: 10 << 20}
	b := Delta{MaxRSS: 6 << 20}

	assert.Equal(t, uint64(10<<20), a.Combine(b).MaxRSS)
	assert.Equal(t, uint64(10<<20), b.Combine(a).MaxRSS)
}

func TestCPUPercent(t *testing.T) {
	d := Delta{WallClock: time.Second, UserTime: 400 * time.Millisecond, SystemTime: 100 * time.Millisecond}
	assert.InDelta(t, 50.0, d.CPUPercent(), 0.001)

	// Multi-core intervals can exceed 100%.
	d = Delta{WallClock: time.Second, UserTime: 3 * time.Second, SystemTime: time.Second}
	assert.InDelta(t, 400.0, d.CPUPercent(), 0.001)
}

func TestCPUPercentZeroWallClock(t *testing.T) {
	d := Delta{UserTime: time.Second}
	assert.Zero(t, d.CPUPercent())
}
