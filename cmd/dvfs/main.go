package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ja7ad/dvfs/pkg/consumption"
	"github.com/ja7ad/dvfs/pkg/cpu"
	"github.com/ja7ad/dvfs/pkg/platform"
	"github.com/ja7ad/dvfs/pkg/system/util"
	"github.com/ja7ad/dvfs/pkg/trace"
)

type tableOpts struct {
	config string
	cpu    string
	volts  []float64
	freqs  []int
}

type runOpts struct {
	table tableOpts

	interval time.Duration
	ema      float64

	// model
	powerScale  float64
	staticPower float64
	alpha       float64

	// outputs
	pretty   bool
	csvPath  string
	jsonPath string
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "dvfs",
		Short: "Simulated processor DVFS model",
		Long: `The dvfs tool inspects simulated processors with dynamic voltage and
frequency scaling. Processors are described by an ascending table of
operating performance points (voltage, frequency), either on the command
line or in a YAML platform file.

Examples:
  dvfs check --volts 1.0,1.2,1.5 --freqs 100,200,400
  dvfs run --config platform.yaml --cpu big0 0.3 0.4 0.9x5 0.2
  dvfs run --volts 1.0,1.2,1.5 --freqs 100,200,400 --ema 0.5 --csv out.csv 1 0.1x10`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}
		},
	}
	root.SetOut(out)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newCheckCmd(), newRunCmd())
	return root
}

func addTableFlags(fs *pflag.FlagSet, o *tableOpts) {
	fs.StringVarP(&o.config, "config", "c", "", "YAML platform file")
	fs.StringVar(&o.cpu, "cpu", "", "processor name in the platform file (default: all for check, first for run)")
	fs.Float64SliceVar(&o.volts, "volts", nil, "OPP voltages in ascending frequency order")
	fs.IntSliceVar(&o.freqs, "freqs", nil, "OPP frequencies (MHz), ascending")
}

func newCheckCmd() *cobra.Command {
	var o tableOpts
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Print OPP tables and walk every speed transition",
		RunE: func(cmd *cobra.Command, args []string) error {
			cpus, err := loadCPUs(o)
			if err != nil {
				return err
			}
			for i, c := range cpus {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				c.Check(cmd.OutOrStdout())
			}
			return nil
		},
	}
	addTableFlags(cmd.Flags(), &o)
	return cmd
}

func newRunCmd() *cobra.Command {
	var o runOpts
	cmd := &cobra.Command{
		Use:   "run [DEMAND[,DEMAND..][xN]]...",
		Short: "Replay speed demands against one processor and report power/energy",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), o, args)
		},
	}

	fs := cmd.Flags()
	addTableFlags(fs, &o.table)
	fs.DurationVarP(&o.interval, "interval", "i", time.Second, "simulated duration of each demand sample")
	fs.Float64Var(&o.ema, "ema", 0, "EMA alpha for demand smoothing [0..1] (0 = off)")

	fs.Float64Var(&o.powerScale, "power-scale", 1, "Watts per F*V^2 unit")
	fs.Float64Var(&o.staticPower, "static-power", 0, "static (leakage) power in Watts")
	fs.Float64Var(&o.alpha, "alpha", 0, "fraction of static power removed by voltage scaling [0..1]")

	fs.BoolVar(&o.pretty, "pretty", true, "format output as a table instead of CSV-like lines")
	fs.StringVar(&o.csvPath, "csv", "", "write per-tick rows to CSV file")
	fs.StringVar(&o.jsonPath, "json", "", "write per-tick rows and summary to JSON file")
	return cmd
}

// loadCPUs builds processors from the platform file or from --volts/--freqs.
func loadCPUs(o tableOpts) ([]*cpu.CPU, error) {
	if o.config == "" {
		if len(o.freqs) == 0 {
			return nil, errors.New("either --config or --freqs is required")
		}
		if len(o.freqs) > 1 {
			if err := cpu.ValidateTable(o.volts, o.freqs); err != nil {
				return nil, err
			}
		}
		name := o.cpu
		if name == "" {
			name = "cpu0"
		}
		f := cpu.NewUniformFactory()
		return []*cpu.CPU{f.CreateCPU(name, len(o.freqs), o.volts, o.freqs)}, nil
	}

	p, err := platform.Load(o.config)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	cpus := p.Build()
	slog.Debug("platform loaded", "path", o.config, "cpus", len(cpus))
	if o.cpu == "" {
		return cpus, nil
	}
	for _, c := range cpus {
		if c.Name() == o.cpu {
			return []*cpu.CPU{c}, nil
		}
	}
	return nil, fmt.Errorf("cpu %q not found in %s", o.cpu, o.config)
}

func run(ctx context.Context, out io.Writer, o runOpts, args []string) error {
	demands, err := util.ParseFloats(args)
	if err != nil {
		return err
	}
	if len(demands) == 0 {
		return fmt.Errorf("no demands provided")
	}
	if o.interval <= 0 {
		return fmt.Errorf("interval must be > 0")
	}
	if o.ema < 0 || o.ema > 1 {
		return fmt.Errorf("ema must be in [0,1]")
	}
	if o.alpha < 0 || o.alpha > 1 {
		return fmt.Errorf("alpha must be in [0,1]")
	}

	cpus, err := loadCPUs(o.table)
	if err != nil {
		return err
	}
	c := cpus[0]
	if len(cpus) > 1 {
		slog.Debug("several processors described, using the first", "cpu", c.Name())
	}

	runner := trace.NewRunner(c, trace.Options{
		Interval: o.interval.Seconds(),
		EMA:      o.ema,
		Model: &consumption.Config{
			PowerScale:  o.powerScale,
			StaticPower: o.staticPower,
			Alpha:       o.alpha,
		},
	})

	fmt.Fprintf(out, "DVFS trace of %s (index %d, %d OPPs, %d demands of %s)\n\n",
		c.Name(), c.Index(), c.NumOPPs(), len(demands), o.interval)

	var tw *tabwriter.Writer
	if o.pretty {
		tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		printTableHeader(tw)
	} else {
		fmt.Fprintln(out, "# tick, demand, smoothed, opp, speed, switches, P_total, E_cum")
	}

	var csvF *os.File
	var csvW *csv.Writer
	if o.csvPath != "" {
		csvF, err = createFile(o.csvPath)
		if err != nil {
			return fmt.Errorf("csv: %w", err)
		}
		defer csvF.Close()
		csvW = csv.NewWriter(csvF)
		_ = csvW.Write([]string{
			"tick", "demand", "smoothed", "opp", "speed", "switches", "unsatisfied",
			"p_dynamic_w", "p_static_w", "p_total_w", "saving", "e_cum_j", "interval_sec",
		})
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rows := make([]trace.Row, 0, len(demands))
	for _, d := range demands {
		if ctx.Err() != nil {
			slog.Info("interrupted")
			break
		}
		r := runner.Step(d)
		rows = append(rows, r)
		if r.Unsatisfied {
			slog.Warn("demand not satisfiable", "tick", r.Tick, "demand", r.Smoothed, "cpu", c.Name())
		}

		if o.pretty {
			printTableRow(tw, r)
		} else {
			fmt.Fprintf(out, "%d, %.4f, %.4f, %d, %.4f, %d, %.3f, %.3f\n",
				r.Tick, r.Demand, r.Smoothed, r.OPP, r.Speed, r.Switches, r.PTotal, r.EnergyCumJ)
		}

		if csvW != nil {
			_ = csvW.Write([]string{
				strconv.Itoa(r.Tick),
				util.FmtFloat(r.Demand), util.FmtFloat(r.Smoothed),
				strconv.Itoa(r.OPP), util.FmtFloat(r.Speed),
				strconv.FormatUint(r.Switches, 10), strconv.FormatBool(r.Unsatisfied),
				util.FmtFloat(r.PDynamic), util.FmtFloat(r.PStatic), util.FmtFloat(r.PTotal),
				util.FmtFloat(r.Saving), util.FmtFloat(r.EnergyCumJ), util.FmtFloat(r.IntervalSec),
			})
		}
	}

	if tw != nil {
		tw.Flush()
	}
	if csvW != nil {
		csvW.Flush()
		if err := csvW.Error(); err != nil {
			return fmt.Errorf("csv: %w", err)
		}
		slog.Info("wrote csv", "path", o.csvPath, "rows", len(rows))
	}

	sum := runner.Summary()
	if o.jsonPath != "" {
		if err := writeJSON(o.jsonPath, c, rows, sum); err != nil {
			return fmt.Errorf("json: %w", err)
		}
		slog.Info("wrote json", "path", o.jsonPath, "rows", len(rows))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "dvfs summary (over %d samples of %s):\n", sum.Ticks, o.interval)
	fmt.Fprintf(out, "- frequency switches: %d\n", sum.Switches)
	fmt.Fprintf(out, "- unsatisfied:        %d\n", sum.Unsatisfied)
	fmt.Fprintf(out, "- avg speed:          %.4f\n", sum.Averages.Speed)
	fmt.Fprintf(out, "- avg saving:         %.4f\n", sum.Averages.Saving)
	fmt.Fprintf(out, "- watt (total):       %.3f W\n", sum.Averages.PTotal)
	fmt.Fprintf(out, "- energy:             %.3f J\n", sum.EnergyCumJ)
	return nil
}

func createFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

func writeJSON(path string, c *cpu.CPU, rows []trace.Row, sum trace.Summary) error {
	type report struct {
		CPU     string        `json:"cpu"`
		Index   int           `json:"index"`
		OPPs    []cpu.OPP     `json:"opps"`
		Rows    []trace.Row   `json:"rows"`
		Summary trace.Summary `json:"summary"`
	}

	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(report{CPU: c.Name(), Index: c.Index(), OPPs: c.OPPs(), Rows: rows, Summary: sum})
}

func printTableHeader(tw *tabwriter.Writer) {
	fmt.Fprintln(tw, "TICK\tDEMAND\tSMOOTHED\tOPP\tSPEED\tSWITCHES\tP_total (W)\tSAVING\tE_cum (J)")
	fmt.Fprintln(tw, "----\t------\t--------\t---\t-----\t--------\t-----------\t------\t---------")
}

func printTableRow(tw *tabwriter.Writer, r trace.Row) {
	mark := ""
	if r.Unsatisfied {
		mark = " !"
	}
	fmt.Fprintf(tw, "%d\t%.4f\t%.4f%s\t%d\t%.4f\t%d\t%.3f\t%.4f\t%.3f\n",
		r.Tick, r.Demand, r.Smoothed, mark, r.OPP, r.Speed, r.Switches, r.PTotal, r.Saving, r.EnergyCumJ)
}
