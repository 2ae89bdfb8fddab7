package types

import "fmt"

// Frequency is an OPP clock frequency in MHz.
type Frequency int

// Humanized returns a human-readable string with automatic unit (MHz, GHz).
func (f Frequency) Humanized() string {
	switch {
	case f >= 1000 || f <= -1000:
		return fmt.Sprintf("%.2f GHz", f.GHz())
	default:
		return fmt.Sprintf("%d MHz", int(f))
	}
}

// String implements fmt.Stringer.
func (f Frequency) String() string { return f.Humanized() }

// MHz returns the frequency in megahertz.
func (f Frequency) MHz() float64 { return float64(f) }

// GHz returns the frequency in gigahertz.
func (f Frequency) GHz() float64 { return float64(f) / 1000 }

// Hz returns the frequency in hertz.
func (f Frequency) Hz() float64 { return float64(f) * 1e6 }

// Voltage is an OPP supply voltage in volts.
type Voltage float64

// Humanized returns the voltage in volts with millivolt resolution.
func (v Voltage) Humanized() string {
	return fmt.Sprintf("%.3f V", float64(v))
}

// String implements fmt.Stringer.
func (v Voltage) String() string { return v.Humanized() }

// MilliVolts returns the voltage in millivolts.
func (v Voltage) MilliVolts() float64 { return float64(v) * 1000 }
