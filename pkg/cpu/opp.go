package cpu

import (
	"fmt"
	"math"
)

// OPP is an operating performance point: a (voltage, frequency) pair the
// processor can run at, plus its speed relative to the fastest point.
type OPP struct {
	Voltage   float64
	Frequency int
	Speed     float64
}

// Power returns F·V², the relative dynamic power drawn at this point.
// It carries no absolute unit; values are only comparable to each other.
func (o OPP) Power() float64 {
	return float64(o.Frequency) * o.Voltage * o.Voltage
}

// ValidateTable checks that volts and freqs describe a usable OPP table:
// same non-zero length, positive values and strictly ascending frequencies.
//
// Constructors and the factory never call it; it exists for callers that
// prefer to fail fast on malformed input (see pkg/platform).
func ValidateTable(volts []float64, freqs []int) error {
	if len(freqs) == 0 {
		return ErrEmptyTable
	}
	if len(volts) != len(freqs) {
		return fmt.Errorf("%w: %d voltages, %d frequencies", ErrLengthMismatch, len(volts), len(freqs))
	}
	for i := range freqs {
		if volts[i] <= 0 || math.IsNaN(volts[i]) || math.IsInf(volts[i], 0) {
			return fmt.Errorf("%w: opp %d has %v", ErrBadVoltage, i, volts[i])
		}
		if freqs[i] <= 0 {
			return fmt.Errorf("%w: opp %d has %d", ErrBadFrequency, i, freqs[i])
		}
		if i > 0 && freqs[i] <= freqs[i-1] {
			return fmt.Errorf("%w: opp %d (%d) after opp %d (%d)", ErrNotAscending, i, freqs[i], i-1, freqs[i-1])
		}
	}
	return nil
}

// buildTable has one entry per frequency. Missing voltages are left at zero
// rather than rejected; malformed input yields a malformed table.
func buildTable(volts []float64, freqs []int) []OPP {
	n := len(freqs)
	if n == 0 {
		return nil
	}
	opps := make([]OPP, n)
	for i := 0; i < n; i++ {
		opps[i].Frequency = freqs[i]
		if i < len(volts) {
			opps[i].Voltage = volts[i]
		}
	}

	// speeds are relative to the last entry, which is assumed to be the fastest
	top := float64(freqs[n-1])
	for i := range opps {
		opps[i].Speed = float64(opps[i].Frequency) / top
	}
	return opps
}
