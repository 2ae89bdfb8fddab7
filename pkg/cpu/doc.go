// Package cpu models a simulated processor with dynamic voltage/frequency
// scaling (DVFS) and the factory used to instantiate processors for a
// discrete-event simulation.
//
// Overview
//
//   - OPP: an operating performance point (Voltage, Frequency) with a derived
//     Speed = Frequency / Frequency[last]. Speeds are computed once, when the
//     CPU is built, so tables must be given in ascending frequency order.
//
//   - CPU:
//     New(name)                     : no power saving, unit speed, zero power
//     NewScaled(name, volts, freqs) : power saving, starts at the fastest OPP
//
//     SelectSpeed(required) picks the first (slowest) OPP with
//     Speed >= required. SetSpeed does the same but reports failures as a
//     returned speed of 1, which is also a valid speed.
//
//   - Power: F·V² of an OPP. It is a relative quantity, not Watts; see
//     pkg/consumption to turn it into power and energy.
//
//   - UniformFactory: assigns indices 0, 1, 2, ... in creation order and
//     takes names from a fixed pool before using caller-supplied names.
//
//   - Errors (errs.go):
//     ErrScalingDisabled : SelectSpeed on a CPU without power saving
//     ErrNoSuitableOPP   : required speed above every OPP (required > 1)
//     ErrEmptyTable, ErrLengthMismatch, ErrNotAscending,
//     ErrBadVoltage, ErrBadFrequency : ValidateTable
//
// Example
//
//	c := cpu.NewScaled("cpu0", []float64{1.0, 1.2, 1.5}, []int{100, 200, 400})
//	speed, err := c.SelectSpeed(0.3) // 0.5, OPP 1
//	if err != nil { ... }
//	fmt.Println(speed, c.CurrentPowerSaving(), c.FrequencySwitching())
//
// Neither CPU nor UniformFactory lock; guard them externally when sharing
// across goroutines.
package cpu
