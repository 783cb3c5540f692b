// Command alpha runs a sequential hypothesis test over a stream of
// newline-delimited observations read from a file or stdin, printing the
// decision summary when the test stops or the stream ends.
package main

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/go-yaml/yaml"
	"github.com/spf13/pflag"

	"github.com/BTBurke/seqtest/pkg/stat"
)

type config struct {
	Test       string  `yaml:"test"`
	Alpha      float64 `yaml:"alpha"`
	Total      int     `yaml:"total"`
	Bound      float64 `yaml:"bound"`
	Threshold  float64 `yaml:"threshold"`
	Estimator  string  `yaml:"estimator"`
	Lambda     float64 `yaml:"lambda"`
	Beta       float64 `yaml:"beta"`
	Theta0     float64 `yaml:"theta0"`
	Theta1     float64 `yaml:"theta1"`
	Likelihood string  `yaml:"likelihood"`
	Batch      int     `yaml:"batch"`
	Follow     bool    `yaml:"follow"`
}

func defaultConfig() config {
	return config{
		Test:       "alpha",
		Alpha:      0.05,
		Bound:      1,
		Threshold:  0.5,
		Estimator:  "shrink",
		Lambda:     0.5,
		Beta:       0.05,
		Theta0:     0,
		Theta1:     1,
		Likelihood: "normal",
		Batch:      1,
	}
}

func createFlagSet() *pflag.FlagSet {
	pf := pflag.NewFlagSet("alpha", pflag.ContinueOnError)
	pf.Usage = func() {
		fmt.Printf("Usage of alpha:\nalpha <options> [observations-file]\n\nReads one observation per line from the file, or from stdin if no file is given.\n")
		fmt.Printf("\n%s", pf.FlagUsagesWrapped(10))
	}

	pf.StringP("config", "c", "", "Use yaml configuration file")
	pf.String("test", "alpha", "Test to run: alpha (ALPHA martingale) or sprt")
	pf.Float64P("alpha", "a", 0.05, "Significance level for rejection")
	pf.IntP("total", "n", 0, "Population size when sampling without replacement (0 = unbounded)")
	pf.Float64P("bound", "u", 1, "Known upper bound on the observations")
	pf.Float64P("threshold", "t", 0.5, "Hypothesized mean threshold under the null")
	pf.String("estimator", "shrink", "Eta strategy for the ALPHA test: shrink, fixed, or agrapa")
	pf.Float64("lambda", 0.5, "Wagering fraction for the fixed bet")
	pf.Float64P("beta", "b", 0.05, "Type II error rate (sprt only)")
	pf.Float64("theta0", 0, "Null parameter value (sprt only)")
	pf.Float64("theta1", 1, "Alternative parameter value (sprt only)")
	pf.String("likelihood", "normal", "Likelihood for sprt, matched by prefix: normal or exponential")
	pf.Int("batch", 1, "Number of observations fed to the test per update")
	pf.BoolP("follow", "f", false, "Keep polling the file for new observations after EOF")

	return pf
}

// loadConfig merges defaults, an optional YAML configuration file, and any
// flags explicitly set on the command line, in that order of precedence
func loadConfig(pf *pflag.FlagSet) (config, error) {
	cfg := defaultConfig()
	path, err := pf.GetString("config")
	if err != nil {
		return cfg, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("could not read configuration: %v", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("could not parse configuration: %v", err)
		}
	}

	var flagErr error
	pf.Visit(func(flag *pflag.Flag) {
		if err := applyFlag(&cfg, pf, flag.Name); err != nil {
			flagErr = err
		}
	})
	return cfg, flagErr
}

func applyFlag(cfg *config, pf *pflag.FlagSet, name string) error {
	var err error
	switch name {
	case "config":
	case "test":
		cfg.Test, err = pf.GetString(name)
	case "alpha":
		cfg.Alpha, err = pf.GetFloat64(name)
	case "total":
		cfg.Total, err = pf.GetInt(name)
	case "bound":
		cfg.Bound, err = pf.GetFloat64(name)
	case "threshold":
		cfg.Threshold, err = pf.GetFloat64(name)
	case "estimator":
		cfg.Estimator, err = pf.GetString(name)
	case "lambda":
		cfg.Lambda, err = pf.GetFloat64(name)
	case "beta":
		cfg.Beta, err = pf.GetFloat64(name)
	case "theta0":
		cfg.Theta0, err = pf.GetFloat64(name)
	case "theta1":
		cfg.Theta1, err = pf.GetFloat64(name)
	case "likelihood":
		cfg.Likelihood, err = pf.GetString(name)
	case "batch":
		cfg.Batch, err = pf.GetInt(name)
	case "follow":
		cfg.Follow, err = pf.GetBool(name)
	default:
		err = fmt.Errorf("unknown option: %s", name)
	}
	return err
}

func buildTest(cfg config) (stat.SeqTest, error) {
	switch cfg.Test {
	case "alpha":
		opts := []stat.AlphaMartOption{
			stat.WithAlpha(cfg.Alpha),
			stat.WithBound(cfg.Bound),
			stat.WithThreshold(cfg.Threshold),
		}
		if cfg.Total > 0 {
			opts = append(opts, stat.WithPopulation(cfg.Total))
		}
		switch cfg.Estimator {
		case "shrink":
			opts = append(opts, stat.WithEstimator(stat.NewShrinkTrunc(cfg.Bound, cfg.Threshold)))
		case "fixed":
			opts = append(opts, stat.WithBet(stat.NewFixedBet(cfg.Lambda)))
		case "agrapa":
			opts = append(opts, stat.WithBet(stat.NewAGRAPA()))
		default:
			return nil, fmt.Errorf("unknown estimator: %s", cfg.Estimator)
		}
		return stat.NewAlphaMart(opts...)
	case "sprt":
		ll, err := stat.LookupLikelihood(cfg.Likelihood)
		if err != nil {
			return nil, err
		}
		return stat.NewSPRT(cfg.Alpha, cfg.Beta, cfg.Theta0, cfg.Theta1, ll)
	default:
		return nil, fmt.Errorf("unknown test: %s", cfg.Test)
	}
}

// run feeds observations from r into the test in batches until the test
// stops or the stream ends.  In follow mode, EOF triggers exponential
// backoff polling for new data instead of stopping.
func run(t stat.SeqTest, r io.Reader, cfg config) error {
	br := bufio.NewReader(r)
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 0

	var batch []float64
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := t.Update(batch)
		batch = batch[:0]
		return err
	}

	// pending holds a partial line returned at EOF while following, so an
	// observation a writer is still appending is never split in two
	var pending string
	for !t.Stopped() {
		line, err := br.ReadString('\n')
		if err == io.EOF && cfg.Follow {
			pending += line
			time.Sleep(b.NextBackOff())
			continue
		}
		line = pending + line
		pending = ""
		if line = strings.TrimSpace(line); line != "" {
			x, perr := strconv.ParseFloat(line, 64)
			if perr != nil {
				return fmt.Errorf("bad observation %q: %v", line, perr)
			}
			batch = append(batch, x)
			b.Reset()
			if len(batch) >= cfg.Batch {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	if !t.Stopped() {
		if err := flush(); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(t stat.SeqTest) {
	s := t.Summary()
	fmt.Printf("test:         %s\n", s.Test)
	fmt.Printf("null:         %s\n", s.Null)
	fmt.Printf("alternative:  %s\n", s.Alternative)
	fmt.Printf("alpha:        %g\n", s.Alpha)
	fmt.Printf("p:            %g\n", s.P)
	fmt.Printf("observations: %d\n", s.Observations)
	if !math.IsInf(s.PopSize, 1) {
		fmt.Printf("population:   %g\n", s.PopSize)
	}
	fmt.Printf("decision:     %s\n", s.Decision)
}

func main() {
	pf := createFlagSet()
	if err := pf.Parse(os.Args[1:]); err != nil {
		if err != pflag.ErrHelp {
			fmt.Printf("Could not parse options: %s\n\nUse alpha --help for options\n", err)
		}
		os.Exit(1)
	}

	cfg, err := loadConfig(pf)
	if err != nil {
		fmt.Println("Error in config:", err)
		os.Exit(1)
	}

	t, err := buildTest(cfg)
	if err != nil {
		fmt.Println("Error in config:", err)
		os.Exit(1)
	}

	var in io.Reader = os.Stdin
	if args := pf.Args(); len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Println("Could not open observations:", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	if err := run(t, in, cfg); err != nil {
		fmt.Println("Test error:", err)
		os.Exit(1)
	}
	printSummary(t)
}
