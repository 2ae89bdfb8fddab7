// Package trace replays a sequence of speed demands against a simulated CPU
// and accounts the energy it draws at each selected OPP.
package trace

import (
	"errors"

	"github.com/ja7ad/dvfs/pkg/consumption"
	"github.com/ja7ad/dvfs/pkg/cpu"
	"github.com/ja7ad/dvfs/pkg/system/util"
)

// Row is the outcome of one demand sample.
type Row struct {
	Tick        int     `json:"tick"`
	Demand      float64 `json:"demand"`
	Smoothed    float64 `json:"smoothed"`
	OPP         int     `json:"opp"`
	Speed       float64 `json:"speed"`
	Switches    uint64  `json:"switches"`
	Unsatisfied bool    `json:"unsatisfied"`
	PDynamic    float64 `json:"p_dynamic_w"`
	PStatic     float64 `json:"p_static_w"`
	PTotal      float64 `json:"p_total_w"`
	Saving      float64 `json:"saving"`
	EnergyCumJ  float64 `json:"e_cum_j"`
	IntervalSec float64 `json:"interval_sec"`
}

// Options configure a Runner.
type Options struct {
	// Interval is the simulated duration of one demand sample, in seconds.
	// Values <= 0 default to 1.
	Interval float64
	// EMA smooths the demand before it reaches the CPU; 0 disables it.
	EMA float64
	// Model configures the energy accumulator; nil uses its defaults.
	Model *consumption.Config
}

// Runner feeds demands to one CPU.
type Runner struct {
	cpu  *cpu.CPU
	acc  *consumption.Accumulator
	ema  *util.EMA
	dt   float64
	tick int

	unsatisfied int
}

// NewRunner returns a Runner driving c.
func NewRunner(c *cpu.CPU, opts Options) *Runner {
	r := &Runner{
		cpu: c,
		acc: consumption.New(opts.Model),
		dt:  opts.Interval,
	}
	if r.dt <= 0 {
		r.dt = 1
	}
	if opts.EMA > 0 && opts.EMA < 1 {
		r.ema = util.NewEMA(opts.EMA)
	}
	return r
}

// Step requests the (optionally smoothed) demand from the CPU, then charges
// one interval at whatever OPP is selected afterwards. A demand no OPP can
// meet leaves the CPU where it was and is flagged in the row; a CPU without
// power saving simply keeps running at full speed.
func (r *Runner) Step(demand float64) Row {
	smoothed := demand
	if r.ema != nil {
		smoothed = r.ema.Next(demand)
	}

	_, err := r.cpu.SelectSpeed(smoothed)
	unsatisfied := errors.Is(err, cpu.ErrNoSuitableOPP) ||
		(errors.Is(err, cpu.ErrScalingDisabled) && smoothed > 1)
	if unsatisfied {
		r.unsatisfied++
	}

	res := r.acc.Apply(r.cpu, r.dt)
	r.tick++

	return Row{
		Tick:        r.tick,
		Demand:      demand,
		Smoothed:    smoothed,
		OPP:         r.cpu.CurrentOPP(),
		Speed:       res.Speed,
		Switches:    r.cpu.FrequencySwitching(),
		Unsatisfied: unsatisfied,
		PDynamic:    res.PDynamic,
		PStatic:     res.PStatic,
		PTotal:      res.PTotal,
		Saving:      res.Saving,
		EnergyCumJ:  r.acc.EnergyCumJ(),
		IntervalSec: r.dt,
	}
}

// Run steps through every demand and returns the rows.
func (r *Runner) Run(demands []float64) []Row {
	rows := make([]Row, 0, len(demands))
	for _, d := range demands {
		rows = append(rows, r.Step(d))
	}
	return rows
}

// Summary aggregates a run.
type Summary struct {
	Ticks       int                `json:"ticks"`
	Switches    uint64             `json:"switches"`
	Unsatisfied int                `json:"unsatisfied"`
	EnergyCumJ  float64            `json:"e_cum_j"`
	WorkCum     float64            `json:"work"`
	Averages    consumption.Result `json:"averages"`
}

// Summary returns the totals so far.
func (r *Runner) Summary() Summary {
	return Summary{
		Ticks:       r.tick,
		Switches:    r.cpu.FrequencySwitching(),
		Unsatisfied: r.unsatisfied,
		EnergyCumJ:  r.acc.EnergyCumJ(),
		WorkCum:     r.acc.WorkCum(),
		Averages:    r.acc.Averages(),
	}
}
