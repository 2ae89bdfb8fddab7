package consumption

// Config holds model coefficients.
// Units:
//   - PowerScale: Watts per unit of F·V² (cpu.OPP.Power)
//   - StaticPower: Watts of leakage drawn regardless of the OPP
//   - Alpha: fraction of static power removed by voltage scaling [0..1],
//     applied proportionally to the current power saving
type Config struct {
	PowerScale  float64
	StaticPower float64
	Alpha       float64
}

// _defaultConfig returns a Config pre-filled with default coefficients.
// With PowerScale 1 the dynamic power equals the raw F·V² figure.
func _defaultConfig() *Config {
	return &Config{
		PowerScale:  1.0, // W per F·V² unit
		StaticPower: 0.0, // W of leakage
		Alpha:       0.0, // leakage is not scaled
	}
}

// Result is the instantaneous power breakdown for one tick.
type Result struct {
	PDynamic float64 // W
	PStatic  float64 // W
	PTotal   float64 // W
	Saving   float64 // [0..1], as reported by the CPU
	Speed    float64 // relative speed the CPU ran at
}
