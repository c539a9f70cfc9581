package dedup

import (
	"fmt"
	"math"
	"strings"

	"github.com/grailbio/fastqdedup/fingerprint"
)

// Mode selects the kind of duplicate to remove.
type Mode int

const (
	// PCR removes reads with near-identical content.
	PCR Mode = iota
	// Optical removes reads imaged from nearby flowcell positions.
	Optical
)

func (m Mode) String() string {
	switch m {
	case PCR:
		return "pcr"
	case Optical:
		return "optical"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses "pcr" or "optical".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "pcr":
		return PCR, nil
	case "optical":
		return Optical, nil
	}
	return PCR, fmt.Errorf("unknown mode %q, expected pcr or optical", s)
}

// Policy selects the survivor of a duplicate group.
type Policy int

const (
	// FirstOccurrence keeps the group's anchor.
	FirstOccurrence Policy = iota
	// BestQuality keeps the member with the highest mean base quality.
	BestQuality
)

func (p Policy) String() string {
	switch p {
	case FirstOccurrence:
		return "first-occurrence"
	case BestQuality:
		return "best-quality"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy parses "first-occurrence" or "best-quality".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "first-occurrence", "first":
		return FirstOccurrence, nil
	case "best-quality", "quality":
		return BestQuality, nil
	}
	return FirstOccurrence, fmt.Errorf("unknown policy %q, expected first-occurrence or best-quality", s)
}

// Opts holds the parameters of a deduplication run.
type Opts struct {
	Mode Mode

	// Threshold is the minimum Jaccard index in PCR mode, and the maximum
	// pixel distance in optical mode.
	Threshold float64

	// KmerSize and WindowSize configure minimizer extraction in PCR mode.
	KmerSize   int
	WindowSize int

	Policy        Policy
	QualityOffset int

	// BatchSize is the number of anchors clustered between progress
	// checks. It has no effect on the result.
	BatchSize int

	// Parallelism is the number of goroutines used to compare an anchor
	// against its candidates. It has no effect on the result.
	Parallelism int

	InputPath   string
	OutputPath  string
	StatsPath   string
	MetricsPath string
}

const (
	defaultPCRThreshold     = 0.8
	defaultOpticalThreshold = 10.0
)

// DefaultOpts are the default options for PCR deduplication.
var DefaultOpts = Opts{
	Mode:          PCR,
	Threshold:     defaultPCRThreshold,
	KmerSize:      21,
	WindowSize:    11,
	Policy:        FirstOccurrence,
	QualityOffset: 33,
	BatchSize:     1000,
	Parallelism:   1,
}

// DefaultOpticalOpts are the default options for optical deduplication.
var DefaultOpticalOpts = func() Opts {
	o := DefaultOpts
	o.Mode = Optical
	o.Threshold = defaultOpticalThreshold
	return o
}()

func defaultStatsPath(m Mode) string {
	return m.String() + "_dedup_stats.json"
}

// validateParams checks the parameters that affect clustering.
func validateParams(opts *Opts) error {
	if math.IsNaN(opts.Threshold) || math.IsInf(opts.Threshold, 0) {
		return fmt.Errorf("threshold must be finite, got %v", opts.Threshold)
	}
	switch opts.Mode {
	case PCR:
		if opts.Threshold < 0 || opts.Threshold > 1 {
			return fmt.Errorf("pcr threshold must be in [0, 1], got %v", opts.Threshold)
		}
		if opts.KmerSize < 1 || opts.KmerSize > fingerprint.MaxKmerSize {
			return fmt.Errorf("kmer-size must be in [1, %d], got %d", fingerprint.MaxKmerSize, opts.KmerSize)
		}
		if opts.WindowSize < 1 {
			return fmt.Errorf("window-size must be positive, got %d", opts.WindowSize)
		}
	case Optical:
		if opts.Threshold < 0 {
			return fmt.Errorf("optical threshold must be non-negative, got %v", opts.Threshold)
		}
	default:
		return fmt.Errorf("unknown mode %v", opts.Mode)
	}
	if opts.Policy != FirstOccurrence && opts.Policy != BestQuality {
		return fmt.Errorf("unknown policy %v", opts.Policy)
	}
	if opts.QualityOffset < 0 || opts.QualityOffset > 255 {
		return fmt.Errorf("quality-offset must be in [0, 255], got %d", opts.QualityOffset)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultOpts.BatchSize
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = 1
	}
	return nil
}

func validate(opts *Opts) error {
	if opts.InputPath == "" {
		return fmt.Errorf("you must specify an input fastq")
	}
	if opts.OutputPath == "" {
		return fmt.Errorf("you must specify an output fastq")
	}
	if opts.InputPath == opts.OutputPath {
		return fmt.Errorf("input and output must differ, both are %s", opts.InputPath)
	}
	if err := validateParams(opts); err != nil {
		return err
	}
	if opts.StatsPath == "" {
		opts.StatsPath = defaultStatsPath(opts.Mode)
	}
	return nil
}
