// Package platform loads a YAML description of the simulated processors and
// instantiates them through a cpu.UniformFactory.
package platform

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ja7ad/dvfs/pkg/cpu"
)

// ErrNoProcessors indicates a platform that describes no processor.
var ErrNoProcessors = errors.New("platform: no processors")

// OPP is one operating performance point of a processor description.
type OPP struct {
	Voltage   float64 `yaml:"voltage" json:"voltage"`
	Frequency int     `yaml:"frequency" json:"frequency"`
}

// Processor describes Count identical processors. A single OPP (or none)
// yields processors without power saving.
type Processor struct {
	Name  string `yaml:"name" json:"name"`
	Count int    `yaml:"count,omitempty" json:"count,omitempty"`
	OPPs  []OPP  `yaml:"opps,omitempty" json:"opps,omitempty"`
}

// Platform is the root of the YAML document.
type Platform struct {
	// Names is the factory's name pool, consumed before processor names.
	Names      []string    `yaml:"names,omitempty" json:"names,omitempty"`
	Processors []Processor `yaml:"processors" json:"processors"`
}

// Load reads and parses the platform file at path.
func Load(path string) (*Platform, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("platform: read %s: %w", path, err)
	}
	p, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a platform document. Unknown fields are rejected.
func Parse(b []byte) (*Platform, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	var p Platform
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("platform: decode: %w", err)
	}
	return &p, nil
}

// Tables returns the voltage and frequency slices of the processor's OPPs.
func (p Processor) Tables() ([]float64, []int) {
	volts := make([]float64, len(p.OPPs))
	freqs := make([]int, len(p.OPPs))
	for i, o := range p.OPPs {
		volts[i], freqs[i] = o.Voltage, o.Frequency
	}
	return volts, freqs
}

func (p Processor) count() int {
	if p.Count <= 0 {
		return 1
	}
	return p.Count
}

// Validate checks every processor's OPP table with cpu.ValidateTable.
// Processors with fewer than two OPPs do not scale and are not checked.
func (p *Platform) Validate() error {
	if len(p.Processors) == 0 {
		return ErrNoProcessors
	}
	for i, proc := range p.Processors {
		if proc.Count < 0 {
			return fmt.Errorf("platform: processor %d (%s): negative count %d", i, proc.Name, proc.Count)
		}
		if len(proc.OPPs) < 2 {
			continue
		}
		volts, freqs := proc.Tables()
		if err := cpu.ValidateTable(volts, freqs); err != nil {
			return fmt.Errorf("platform: processor %d (%s): %w", i, proc.Name, err)
		}
	}
	return nil
}

// Build creates the processors in document order through a single
// cpu.UniformFactory seeded with Names. Processors repeated with Count get
// the suffixes -0, -1, ... when Count > 1. Build does not validate.
func (p *Platform) Build() []*cpu.CPU {
	f := cpu.NewUniformFactory(p.Names...)
	var out []*cpu.CPU
	for _, proc := range p.Processors {
		volts, freqs := proc.Tables()
		n := proc.count()
		for i := 0; i < n; i++ {
			name := proc.Name
			if n > 1 {
				name = fmt.Sprintf("%s-%d", proc.Name, i)
			}
			out = append(out, f.CreateCPU(name, len(freqs), volts, freqs))
		}
	}
	return out
}
