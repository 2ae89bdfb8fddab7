package cpu

// UniformFactory creates CPUs with sequential indices, taking names from a
// fixed pool before falling back to the names supplied by the caller.
//
// A UniformFactory is not safe for concurrent use.
type UniformFactory struct {
	names []string
	curr  int
	index int
}

// NewUniformFactory returns a factory whose first len(names) CPUs are named
// from names, in order. The slice is copied.
func NewUniformFactory(names ...string) *UniformFactory {
	return &UniformFactory{names: append([]string(nil), names...)}
}

// CreateCPU builds a CPU and assigns it the next index, starting at 0.
//
// While the pool has unused names, the next pool name is used and name is
// ignored. Once the pool is exhausted, name is used as given.
//
// numOPPs == 1 creates a CPU without power saving, whatever volts and freqs
// hold. Otherwise the first numOPPs entries of volts and freqs form the OPP
// table (ascending frequency). Nothing is validated and CreateCPU never
// fails; the factory keeps no reference to the returned CPU.
func (f *UniformFactory) CreateCPU(name string, numOPPs int, volts []float64, freqs []int) *CPU {
	if f.curr < len(f.names) {
		name = f.names[f.curr]
		f.curr++
	}

	var c *CPU
	if numOPPs == 1 {
		c = New(name)
	} else {
		c = NewScaled(name, head(volts, numOPPs), head(freqs, numOPPs))
	}

	c.index = f.index
	f.index++
	return c
}

// Remaining returns the number of pool names not yet used.
func (f *UniformFactory) Remaining() int { return len(f.names) - f.curr }

// Created returns the number of CPUs created so far, which is also the index
// the next CPU will get.
func (f *UniformFactory) Created() int { return f.index }

func head[T any](s []T, n int) []T {
	if n < 0 {
		return nil
	}
	if n > len(s) {
		return s
	}
	return s[:n]
}
