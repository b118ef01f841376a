// Command jls-performance generates and profiles JLS files (spec.md §6's
// CLI surface), in the style of the teacher's small flag-based mains
// (cmd/test-lsm, cmd/cli) rather than a cobra/pflag command tree.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jetperch/jls-go/pkg/jls"
	"github.com/jetperch/jls-go/pkg/jls/directory"
)

// genParams mirrors the --config YAML shape and the flag defaults.
type genParams struct {
	SampleRate           uint32 `yaml:"sample_rate"`
	Length               uint64 `yaml:"length"`
	SamplesPerData       uint32 `yaml:"samples_per_data"`
	SampleDecimateFactor uint32 `yaml:"sample_decimate_factor"`
	EntriesPerSummary    uint32 `yaml:"entries_per_summary"`
	SummaryDecimateFactor uint32 `yaml:"summary_decimate_factor"`
}

func defaultGenParams() genParams {
	return genParams{
		SampleRate:            1_000_000,
		Length:                10_000_000,
		SamplesPerData:        100_000,
		SampleDecimateFactor:  100,
		EntriesPerSummary:     20_000,
		SummaryDecimateFactor: 100,
	}
}

func loadConfig(path string, p *genParams) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	return yaml.Unmarshal(data, p)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generate":
		cmdGenerate(os.Args[2:])
	case "profile":
		cmdProfile(os.Args[2:])
	case "help", "--help":
		usage()
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("jls-performance generate <filename> [--sample_rate N] [--length N] [--samples_per_data N] [--sample_decimate_factor N] [--entries_per_summary N] [--summary_decimate_factor N] [--config file.yaml]")
	fmt.Println("jls-performance profile <filename>")
	fmt.Println("jls-performance help|--help")
}

func cmdGenerate(args []string) {
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}
	filename := args[0]
	args = args[1:]

	// A --config file sets the baseline defaults; flags explicitly passed
	// on the command line still override it, so config is loaded before
	// the real flag set is built with its values as defaults.
	p := defaultGenParams()
	preScan := flag.NewFlagSet("generate", flag.ContinueOnError)
	preScan.SetOutput(os.Stderr)
	configPath := preScan.String("config", "", "optional YAML file of defaults")
	_ = preScan.Parse(args)
	if err := loadConfig(*configPath, &p); err != nil {
		log.Fatalf("%v", err)
	}

	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	fs.String("config", *configPath, "optional YAML file of defaults")
	fs.Uint64Var(&p.Length, "length", p.Length, "total sample count")
	sampleRate := fs.Uint("sample_rate", uint(p.SampleRate), "samples per second")
	samplesPerData := fs.Uint("samples_per_data", uint(p.SamplesPerData), "samples per level-0 chunk")
	sampleDecimateFactor := fs.Uint("sample_decimate_factor", uint(p.SampleDecimateFactor), "sample decimate factor stored in the signal definition (the summary layout does not use it)")
	entriesPerSummary := fs.Uint("entries_per_summary", uint(p.EntriesPerSummary), "entries per summary chunk")
	summaryDecimateFactor := fs.Uint("summary_decimate_factor", uint(p.SummaryDecimateFactor), "summary decimate factor stored in the signal definition (the summary layout does not use it)")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parsing flags: %v", err)
	}
	p.SampleRate = uint32(*sampleRate)
	p.SamplesPerData = uint32(*samplesPerData)
	p.SampleDecimateFactor = uint32(*sampleDecimateFactor)
	p.EntriesPerSummary = uint32(*entriesPerSummary)
	p.SummaryDecimateFactor = uint32(*summaryDecimateFactor)

	if err := generate(filename, p); err != nil {
		log.Fatalf("generate: %v", err)
	}
	fmt.Printf("wrote %s: %d samples at %d Hz\n", filename, p.Length, p.SampleRate)
}

// generate writes a triangle-wave FSR signal (spec.md §8 scenario 1's
// waveform): period 1000 samples, amplitude ±1.
func generate(filename string, p genParams) error {
	w, err := jls.Create(filename)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.SourceDef(directory.SourceDef{SourceID: 1, Name: "jls-performance"}); err != nil {
		return err
	}
	if err := w.SignalDef(directory.SignalDef{
		SignalID:              1,
		SourceID:              1,
		SignalType:            directory.SignalTypeFSR,
		DataType:              directory.DataTypeF32,
		SampleRate:            p.SampleRate,
		SamplesPerData:        p.SamplesPerData,
		SampleDecimateFactor:  p.SampleDecimateFactor,
		EntriesPerSummary:     p.EntriesPerSummary,
		SummaryDecimateFactor: p.SummaryDecimateFactor,
		Name:                  "triangle",
	}); err != nil {
		return err
	}

	const batch = 10_000
	buf := make([]float32, batch)
	var sampleID uint64
	for sampleID < p.Length {
		n := uint64(batch)
		if remaining := p.Length - sampleID; remaining < n {
			n = remaining
		}
		for i := uint64(0); i < n; i++ {
			idx := (sampleID + i) % 1000
			buf[i] = float32(-1 + 2*float64(idx)/500)
			if buf[i] > 1 {
				buf[i] = 2 - buf[i]
			}
		}
		if err := w.FSRF32(1, sampleID, buf[:n]); err != nil {
			return err
		}
		sampleID += n
	}
	return nil
}

func cmdProfile(args []string) {
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}
	filename := args[0]

	r, err := jls.Open(filename)
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer r.Close()

	for _, sig := range r.Signals() {
		if sig.SignalType != directory.SignalTypeFSR {
			continue
		}
		length, err := r.FSRLength(sig.SignalID)
		if err != nil {
			log.Fatalf("fsr_length: %v", err)
		}
		fmt.Printf("signal %d %q: length=%d\n", sig.SignalID, sig.Name, length)

		buf := make([]float32, 1<<16)
		start := time.Now()
		var read uint64
		for read < length {
			n := uint64(len(buf))
			if remaining := length - read; remaining < n {
				n = remaining
			}
			if err := r.FSRF32(sig.SignalID, read, buf[:n]); err != nil {
				log.Fatalf("fsr_f32: %v", err)
			}
			read += n
		}
		elapsed := time.Since(start)
		rate := float64(read) / math.Max(elapsed.Seconds(), 1e-9)
		fmt.Printf("  scanned %d samples in %s (%.0f samples/s)\n", read, elapsed, rate)
	}
}
