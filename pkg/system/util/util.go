package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EMA is an exponential moving average. The first sample passes through.
type EMA struct {
	alpha, prev float64
	ok          bool
}

func NewEMA(alpha float64) *EMA { return &EMA{alpha: alpha} }

func (e *EMA) Next(v float64) float64 {
	if !e.ok {
		e.prev, e.ok = v, true
		return v
	}
	e.prev = e.alpha*v + (1-e.alpha)*e.prev
	return e.prev
}

// Reset forgets the running average; the next sample passes through again.
func (e *EMA) Reset() { e.prev, e.ok = 0, false }

func SafeDiv(n, d float64) float64 {
	const eps = 1e-12
	if d > eps || d < -eps {
		return n / d
	}
	return 0
}

func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	// guard against NaN
	if math.IsNaN(x) {
		return 0
	}
	return x
}

// FmtFloat formats v with the shortest representation that round-trips.
func FmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ParseFloats parses demand values from args. Each arg may hold several
// comma-separated values, and a value may be repeated with a "xN" suffix:
//
//	"0.3,0.5" "1x3"  -> [0.3 0.5 1 1 1]
func ParseFloats(args []string) ([]float64, error) {
	var out []float64
	for _, arg := range args {
		for _, field := range strings.Split(arg, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			n := 1
			if i := strings.LastIndexByte(field, 'x'); i > 0 {
				rep, err := strconv.Atoi(field[i+1:])
				if err != nil || rep < 1 {
					return nil, fmt.Errorf("bad repeat count in %q", field)
				}
				n, field = rep, field[:i]
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("bad value %q: %w", field, err)
			}
			if math.IsNaN(v) {
				return nil, fmt.Errorf("bad value %q: NaN", field)
			}
			for ; n > 0; n-- {
				out = append(out, v)
			}
		}
	}
	return out, nil
}
