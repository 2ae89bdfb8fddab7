package cpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testVolts = []float64{1.0, 1.2, 1.5}
	testFreqs = []int{100, 200, 400}
)

func newTestCPU() *CPU { return NewScaled("cpu0", testVolts, testFreqs) }

func TestNewScaled_Speeds(t *testing.T) {
	c := newTestCPU()
	require.True(t, c.PowerSaving())
	require.Equal(t, 3, c.NumOPPs())

	want := []float64{0.25, 0.5, 1.0}
	for i, w := range want {
		assert.InDelta(t, w, c.SpeedAt(i), 1e-12, "opp %d", i)
	}
	// starts at the fastest OPP
	assert.Equal(t, 2, c.CurrentOPP())
	assert.Equal(t, 1.0, c.Speed())
	assert.Zero(t, c.FrequencySwitching())
	assert.Zero(t, c.CurrentPowerSaving())
}

func TestNewScaled_LastSpeedIsOne(t *testing.T) {
	tables := [][]int{
		{1000},
		{300, 600},
		{200, 400, 800, 1600},
		{533, 800, 1066, 1333, 1600, 1866},
	}
	for _, freqs := range tables {
		volts := make([]float64, len(freqs))
		for i := range volts {
			volts[i] = 0.8 + 0.1*float64(i)
		}
		c := NewScaled("x", volts, freqs)
		assert.Equal(t, 1.0, c.SpeedAt(len(freqs)-1), "freqs=%v", freqs)
	}
}

func TestOPPs_ReturnsCopy(t *testing.T) {
	c := newTestCPU()
	opps := c.OPPs()
	opps[0].Speed = 42
	assert.InDelta(t, 0.25, c.SpeedAt(0), 1e-12, "OPPs must return a copy")
}

func TestNewScaled_EmptyTableDisablesScaling(t *testing.T) {
	c := NewScaled("empty", nil, nil)
	assert.False(t, c.PowerSaving())
	assert.Equal(t, 1.0, c.SetSpeed(0.5))
}

func TestDisabled_Sentinels(t *testing.T) {
	c := New("plain")
	assert.False(t, c.PowerSaving())
	assert.Equal(t, "plain", c.Name())
	assert.Equal(t, 0, c.CurrentOPP())
	assert.Zero(t, c.MaxPowerConsumption())
	assert.Zero(t, c.CurrentPowerConsumption())
	assert.Zero(t, c.CurrentPowerSaving())
	assert.Equal(t, 1.0, c.Speed())
	assert.Equal(t, 1.0, c.SpeedAt(0))
	assert.Equal(t, 1.0, c.SetSpeed(0.1))
	assert.Zero(t, c.FrequencySwitching())

	_, err := c.SelectSpeed(0.1)
	require.ErrorIs(t, err, ErrScalingDisabled)
}

func TestPower(t *testing.T) {
	c := newTestCPU()
	assert.InDelta(t, 400*1.5*1.5, c.MaxPowerConsumption(), 1e-9)
	assert.InDelta(t, c.MaxPowerConsumption(), c.CurrentPowerConsumption(), 1e-9)

	for _, req := range []float64{1.0, 0.6, 0.5, 0.3, 0.25, 0.1, 0} {
		c.SetSpeed(req)
		assert.LessOrEqual(t, c.CurrentPowerConsumption(), c.MaxPowerConsumption(), "req=%.2f", req)
		s := c.CurrentPowerSaving()
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestSetSpeed_Scenario(t *testing.T) {
	c := newTestCPU()

	// 0.3 -> OPP 1 (speed 0.5), one switch from the initial OPP 2
	assert.Equal(t, 0.5, c.SetSpeed(0.3))
	assert.Equal(t, 1, c.CurrentOPP())
	assert.Equal(t, uint64(1), c.FrequencySwitching())
	assert.InDelta(t, (900-288)/900.0, c.CurrentPowerSaving(), 1e-9)

	// 0.4 keeps OPP 1, no switch
	assert.Equal(t, 0.5, c.SetSpeed(0.4))
	assert.Equal(t, 1, c.CurrentOPP())
	assert.Equal(t, uint64(1), c.FrequencySwitching())

	// 1.5 cannot be met: sentinel 1, state untouched
	assert.Equal(t, 1.0, c.SetSpeed(1.5))
	assert.Equal(t, 1, c.CurrentOPP())
	assert.Equal(t, 0.5, c.Speed())
	assert.Equal(t, uint64(1), c.FrequencySwitching())
}

func TestSelectSpeed_NoSuitableOPP(t *testing.T) {
	c := newTestCPU()
	c.SetSpeed(0.2)

	speed, err := c.SelectSpeed(1.01)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSuitableOPP))
	assert.Equal(t, 1.0, speed)
	assert.Equal(t, 0, c.CurrentOPP())
	assert.Equal(t, uint64(1), c.FrequencySwitching())
}

func TestSelectSpeed_PicksSlowestSufficientOPP(t *testing.T) {
	cases := []struct {
		req     float64
		wantIdx int
	}{
		{-1, 0},
		{0, 0},
		{0.1, 0},
		{0.25, 0}, // equality satisfies the requirement
		{0.2500001, 1},
		{0.5, 1},
		{0.75, 2},
		{1.0, 2},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("req_%v", tc.req), func(t *testing.T) {
			c := newTestCPU()
			speed, err := c.SelectSpeed(tc.req)
			require.NoError(t, err)
			assert.Equal(t, tc.wantIdx, c.CurrentOPP())
			assert.Equal(t, c.SpeedAt(tc.wantIdx), speed)
			assert.GreaterOrEqual(t, speed, tc.req)
			// no faster-than-needed OPP below the chosen one
			if tc.wantIdx > 0 {
				assert.Less(t, c.SpeedAt(tc.wantIdx-1), tc.req)
			}
		})
	}
}

func TestSetSpeed_NonDecreasingDemandNeverLowersOPP(t *testing.T) {
	c := NewScaled("big", []float64{0.8, 0.9, 1.0, 1.1, 1.25}, []int{400, 800, 1200, 1600, 2000})
	c.SetSpeed(0) // start from the bottom

	prev := c.CurrentOPP()
	for req := 0.0; req <= 1.0; req += 0.05 {
		c.SetSpeed(req)
		require.GreaterOrEqual(t, c.CurrentOPP(), prev, "req=%.2f", req)
		prev = c.CurrentOPP()
	}
	assert.Equal(t, 4, c.CurrentOPP())
}

func TestCurrentPowerSaving_MonotoneInDemand(t *testing.T) {
	c := NewScaled("big", []float64{0.8, 0.9, 1.0, 1.1, 1.25}, []int{400, 800, 1200, 1600, 2000})

	prev := c.CurrentPowerSaving()
	assert.Zero(t, prev, "saving is zero at the fastest OPP")
	for req := 1.0; req >= 0; req -= 0.1 {
		c.SetSpeed(req)
		s := c.CurrentPowerSaving()
		require.GreaterOrEqual(t, s, prev, "req=%.2f", req)
		if c.CurrentOPP() == c.NumOPPs()-1 {
			assert.Zero(t, s)
		} else {
			assert.Greater(t, s, 0.0)
		}
		prev = s
	}
}

func TestFrequencySwitching_CountsOnlyChanges(t *testing.T) {
	c := newTestCPU()
	seq := []struct {
		req      float64
		switches uint64
	}{
		{1.0, 0}, // already at OPP 2
		{0.9, 0},
		{0.5, 1},
		{0.3, 1},
		{0.2, 2},
		{0.2, 2},
		{2.0, 2}, // unsatisfiable
		{1.0, 3},
	}
	for i, s := range seq {
		c.SetSpeed(s.req)
		assert.Equal(t, s.switches, c.FrequencySwitching(), "step %d req=%.2f", i, s.req)
	}
}

func TestSpeedAt_OutOfRange(t *testing.T) {
	c := newTestCPU()
	assert.Equal(t, 1.0, c.SpeedAt(3))
	assert.Equal(t, 1.0, c.SpeedAt(100))
	assert.Equal(t, 1.0, c.SpeedAt(-1))
}

func TestNewScaled_ShortVoltageSliceIsTolerated(t *testing.T) {
	c := NewScaled("short", []float64{1.0}, []int{100, 200})
	require.True(t, c.PowerSaving())
	assert.Zero(t, c.MaxPowerConsumption())
	assert.InDelta(t, 0.5, c.SpeedAt(0), 1e-12)
}

func ExampleCPU_SelectSpeed() {
	c := NewScaled("cpu0", []float64{1.0, 1.2, 1.5}, []int{100, 200, 400})
	speed, err := c.SelectSpeed(0.3)
	fmt.Println(speed, err, c.CurrentOPP(), c.FrequencySwitching())

	_, err = c.SelectSpeed(1.5)
	fmt.Println(err)
	// Output:
	// 0.5 <nil> 1 1
	// cpu: no opp satisfies required speed
}
