// Package sim ties the simulation together: the Clock, the editing tools,
// and the World aggregate that owns the grid, the road network, the ECS and
// every per-tick system, stepped in a fixed dependency order.
package sim

import (
	"github.com/ChicagoDave/gridcity/pkg/movement"
	"github.com/ChicagoDave/gridcity/pkg/params"
)

// Clock is the simulation calendar. One tick advances the hour by
// (1/ticksPerSecond)·speed; the day increments when the hour wraps past 24.
type Clock struct {
	Tick   uint64
	Day    int
	Hour   float64 // [0, 24)
	Speed  float64
	Paused bool
}

// NewClock returns the new-game clock: day 1, 08:00, normal speed.
func NewClock() Clock {
	return Clock{Day: 1, Hour: 8, Speed: 1}
}

// Advance moves the clock forward one tick. Returns false without change
// when paused.
func (c *Clock) Advance(p *params.ClockParams) bool {
	if c.Paused {
		return false
	}
	tps := p.TicksPerSecond
	if tps <= 0 {
		tps = 10
	}
	c.Tick++
	c.Hour += c.Speed / float64(tps)
	for c.Hour >= 24 {
		c.Hour -= 24
		c.Day++
	}
	return true
}

// IsSlowTick reports whether the current tick sits on a slow-tick boundary.
func (c *Clock) IsSlowTick(p *params.ClockParams) bool {
	div := p.SlowTickDivider
	if div <= 0 {
		div = 100
	}
	return c.Tick%uint64(div) == 0
}

// HourOfDay returns the whole hour in [0, 23].
func (c *Clock) HourOfDay() int {
	return int(c.Hour)
}

// TimeOfDay converts the fractional hour into the hour/minute pair the
// citizen state machine schedules against.
func (c *Clock) TimeOfDay() movement.TimeOfDay {
	h := int(c.Hour)
	m := int((c.Hour - float64(h)) * 60)
	return movement.TimeOfDay{Hour: h, Minute: m}
}

// IsMorningCommute reports whether the clock sits in the morning commute
// window.
func (c *Clock) IsMorningCommute() bool {
	return c.TimeOfDay().MorningCommute()
}

// IsEveningCommute reports whether the clock sits in the evening commute
// window.
func (c *Clock) IsEveningCommute() bool {
	return c.TimeOfDay().EveningCommute()
}

// SetSpeed clamps to the supported multipliers {1, 2, 4}.
func (c *Clock) SetSpeed(speed float64) {
	switch {
	case speed >= 4:
		c.Speed = 4
	case speed >= 2:
		c.Speed = 2
	default:
		c.Speed = 1
	}
}
