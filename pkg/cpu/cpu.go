package cpu

import "github.com/ja7ad/dvfs/pkg/system/util"

// Entity is the identity a simulated processor exposes to the surrounding
// discrete-event simulation.
type Entity interface {
	Name() string
	Index() int
}

var _ Entity = (*CPU)(nil)

// CPU is a simulated processor with an optional table of operating
// performance points.
//
// A CPU is not safe for concurrent use; SetSpeed and SelectSpeed mutate the
// current OPP and the switch counter without locking.
type CPU struct {
	name  string
	index int

	powerSaving bool
	opps        []OPP
	current     int
	switches    uint64
}

// New returns a CPU without power saving. It always runs at unit speed and
// reports zero power.
func New(name string) *CPU {
	return &CPU{name: name}
}

// NewScaled returns a CPU with power saving enabled, one OPP per frequency.
// Frequencies must be in ascending order; speeds are computed relative to the
// last entry and are never recomputed. The CPU starts at the fastest OPP.
//
// Input is not validated (see ValidateTable). An empty table yields a CPU
// without power saving.
func NewScaled(name string, volts []float64, freqs []int) *CPU {
	opps := buildTable(volts, freqs)
	if len(opps) == 0 {
		return New(name)
	}
	return &CPU{
		name:        name,
		powerSaving: true,
		opps:        opps,
		current:     len(opps) - 1,
	}
}

// Name returns the CPU name.
func (c *CPU) Name() string { return c.name }

// Index returns the sequential index assigned by the factory.
func (c *CPU) Index() int { return c.index }

// PowerSaving reports whether the CPU can change its speed.
func (c *CPU) PowerSaving() bool { return c.powerSaving }

// NumOPPs returns the size of the OPP table (0 without power saving).
func (c *CPU) NumOPPs() int { return len(c.opps) }

// OPPs returns a copy of the OPP table.
func (c *CPU) OPPs() []OPP {
	out := make([]OPP, len(c.opps))
	copy(out, c.opps)
	return out
}

// CurrentOPP returns the index of the selected OPP, or 0 without power saving.
func (c *CPU) CurrentOPP() int {
	if !c.powerSaving {
		return 0
	}
	return c.current
}

// MaxPowerConsumption returns the power drawn at the last (fastest) OPP.
func (c *CPU) MaxPowerConsumption() float64 {
	if !c.powerSaving {
		return 0
	}
	return c.opps[len(c.opps)-1].Power()
}

// CurrentPowerConsumption returns the power drawn at the selected OPP.
func (c *CPU) CurrentPowerConsumption() float64 {
	if !c.powerSaving {
		return 0
	}
	return c.opps[c.current].Power()
}

// CurrentPowerSaving returns (max - current) / max, in [0,1] for an
// ascending table.
func (c *CPU) CurrentPowerSaving() float64 {
	if !c.powerSaving {
		return 0
	}
	maxP := c.MaxPowerConsumption()
	return util.SafeDiv(maxP-c.CurrentPowerConsumption(), maxP)
}

// SelectSpeed selects the slowest OPP whose speed is at least required and
// returns its speed. The switch counter is incremented only when the
// selected OPP differs from the current one.
//
// It returns ErrScalingDisabled without power saving and ErrNoSuitableOPP
// when required exceeds every speed in the table; the CPU is left unchanged
// in both cases.
func (c *CPU) SelectSpeed(required float64) (float64, error) {
	if !c.powerSaving {
		return 1, ErrScalingDisabled
	}
	for i, o := range c.opps {
		if o.Speed >= required {
			if i != c.current {
				c.switches++
			}
			c.current = i
			return o.Speed, nil
		}
	}
	return 1, ErrNoSuitableOPP
}

// SetSpeed is SelectSpeed with failures folded into the return value: it
// returns 1 when power saving is disabled or no OPP is fast enough.
//
// A result of 1 therefore does not prove that a unit-speed OPP was selected;
// use SelectSpeed when the difference matters.
func (c *CPU) SetSpeed(required float64) float64 {
	speed, err := c.SelectSpeed(required)
	if err != nil {
		return 1
	}
	return speed
}

// Speed returns the speed of the selected OPP, or 1 without power saving.
func (c *CPU) Speed() float64 {
	if !c.powerSaving {
		return 1
	}
	return c.opps[c.current].Speed
}

// SpeedAt returns the speed of OPP i. Out-of-range indices are tolerated and
// return 1, as does a CPU without power saving.
func (c *CPU) SpeedAt(i int) float64 {
	if !c.powerSaving || i < 0 || i >= len(c.opps) {
		return 1
	}
	return c.opps[i].Speed
}

// FrequencySwitching returns how many times the selected OPP has changed.
func (c *CPU) FrequencySwitching() uint64 { return c.switches }
