package cpu

import (
	"fmt"
	"io"

	"github.com/ja7ad/dvfs/pkg/types"
)

// Check writes the OPP table to w, then walks the table from the slowest to
// the fastest OPP, selecting each one and reporting the resulting speed,
// power and saving. It is a diagnostic aid for manual inspection.
//
// Check moves the CPU through every OPP, so it leaves the fastest OPP
// selected and the switch counter increased.
func (c *CPU) Check(w io.Writer) {
	fmt.Fprintf(w, "Checking CPU: %s (index %d)\n", c.name, c.index)
	if !c.powerSaving {
		fmt.Fprintln(w, "Power saving disabled")
		return
	}
	fmt.Fprintf(w, "Max Power Consumption: %.4f\n", c.MaxPowerConsumption())
	for i, o := range c.opps {
		fmt.Fprintf(w, "OPP %d: frequency=%s voltage=%s speed=%.4f\n",
			i, types.Frequency(o.Frequency), types.Voltage(o.Voltage), o.Speed)
	}
	for i := range c.opps {
		target := c.SpeedAt(i)
		c.SetSpeed(target)
		fmt.Fprintf(w, "set %.4f -> speed=%.4f opp=%d power=%.4f saving=%.4f\n",
			target, c.Speed(), c.CurrentOPP(), c.CurrentPowerConsumption(), c.CurrentPowerSaving())
	}
}
