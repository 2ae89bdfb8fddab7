package consumption

import (
	"math"

	"github.com/ja7ad/dvfs/pkg/system/util"
)

// PowerSource is the query side of a simulated processor; *cpu.CPU
// implements it.
type PowerSource interface {
	CurrentPowerConsumption() float64
	CurrentPowerSaving() float64
	Speed() float64
}

// Accumulator keeps running energy, work and averages.
type Accumulator struct {
	cfg        *Config
	energyCumJ float64
	workCum    float64
	timeCum    float64
	count      int
	sumPDyn    float64
	sumPStatic float64
	sumPTotal  float64
	sumSaving  float64
}

// New creates an accumulator with the given config.
// Fields > 0 (or valid ranges) in cfg override defaults.
// Notes:
//   - PowerScale must be > 0 to override the default.
//   - StaticPower: zero is a valid "no leakage" and is respected; negative
//     values are treated as unset.
//   - Alpha in [0..1] is accepted verbatim.
func New(cfg *Config) *Accumulator {
	base := _defaultConfig()

	// No user cfg: use defaults as-is.
	if cfg == nil {
		return &Accumulator{cfg: base}
	}

	merged := *base

	if cfg.PowerScale > 0 {
		merged.PowerScale = cfg.PowerScale
	}
	if cfg.StaticPower >= 0 {
		merged.StaticPower = cfg.StaticPower
	}
	if cfg.Alpha >= 0 && cfg.Alpha <= 1 {
		merged.Alpha = cfg.Alpha
	}

	return &Accumulator{cfg: &merged}
}

// Config returns a copy of the effective configuration.
func (a *Accumulator) Config() Config { return *a.cfg }

// Apply charges one tick of dt seconds spent at src's current OPP, returns
// the power split and updates cumulative energy, work and averages.
//
//	E_cum += P_total * dt
//	W_cum += speed * dt
func (a *Accumulator) Apply(src PowerSource, dt float64) Result {
	dt = math.Max(dt, 0)
	saving := util.Clamp01(src.CurrentPowerSaving())
	speed := src.Speed()

	pdyn := a.cfg.PowerScale * src.CurrentPowerConsumption()
	pstatic := a.cfg.StaticPower * (1 - a.cfg.Alpha*saving)
	ptot := pdyn + pstatic

	a.energyCumJ += ptot * dt
	a.workCum += speed * dt
	a.timeCum += dt
	a.count++
	a.sumPDyn += pdyn
	a.sumPStatic += pstatic
	a.sumPTotal += ptot
	a.sumSaving += saving

	return Result{PDynamic: pdyn, PStatic: pstatic, PTotal: ptot, Saving: saving, Speed: speed}
}

// EnergyCumJ returns cumulative energy in Joules.
func (a *Accumulator) EnergyCumJ() float64 { return a.energyCumJ }

// WorkCum returns the cumulative work, in seconds at full speed.
func (a *Accumulator) WorkCum() float64 { return a.workCum }

// TimeCum returns the total time charged, in seconds.
func (a *Accumulator) TimeCum() float64 { return a.timeCum }

// Averages returns per-tick averages over all applied ticks. Speed is the
// time-weighted average speed.
func (a *Accumulator) Averages() Result {
	if a.count == 0 {
		return Result{}
	}
	n := float64(a.count)
	return Result{
		PDynamic: a.sumPDyn / n,
		PStatic:  a.sumPStatic / n,
		PTotal:   a.sumPTotal / n,
		Saving:   a.sumSaving / n,
		Speed:    util.SafeDiv(a.workCum, a.timeCum),
	}
}
