package cpu

import "errors"

var (
	// ErrScalingDisabled indicates that the CPU was built without an OPP
	// table, so its speed cannot be changed.
	ErrScalingDisabled = errors.New("cpu: power saving disabled")

	// ErrNoSuitableOPP indicates that no OPP in the table reaches the
	// required speed (required > 1).
	ErrNoSuitableOPP = errors.New("cpu: no opp satisfies required speed")

	// ErrEmptyTable indicates an OPP table with no entries.
	ErrEmptyTable = errors.New("cpu: empty opp table")

	// ErrLengthMismatch indicates voltage and frequency slices of different length.
	ErrLengthMismatch = errors.New("cpu: voltage/frequency length mismatch")

	// ErrNotAscending indicates frequencies that are not strictly ascending.
	ErrNotAscending = errors.New("cpu: frequencies not ascending")

	// ErrBadVoltage indicates a non-positive (or NaN) voltage.
	ErrBadVoltage = errors.New("cpu: bad voltage")

	// ErrBadFrequency indicates a non-positive frequency.
	ErrBadFrequency = errors.New("cpu: bad frequency")
)
