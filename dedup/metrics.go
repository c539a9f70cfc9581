package dedup

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
)

// groupSizeRanges labels the buckets of Stats.GroupSizeHistogram.
var groupSizeRanges = [...]string{"2", "3-4", "5-7", "8+"}

func groupSizeBucket(size int) int {
	switch {
	case size <= 2:
		return 0
	case size <= 4:
		return 1
	case size <= 7:
		return 2
	default:
		return 3
	}
}

// Stats summarizes one deduplication run.
type Stats struct {
	TotalReads       int     `json:"total_reads"`
	DuplicatesFound  int     `json:"duplicates_found"`
	UniqueReadsKept  int     `json:"unique_reads_kept"`
	DuplicateGroups  int     `json:"duplicate_groups"`
	AverageGroupSize float64 `json:"average_group_size"`
	MaxGroupSize     int     `json:"max_group_size"`

	// GroupSizeHistogram counts groups by size, keyed by the ranges 2,
	// 3-4, 5-7 and 8+.
	GroupSizeHistogram map[string]int `json:"group_size_histogram"`

	// FingerprintErrors counts reads whose fingerprint could not be
	// computed. Those reads are always kept.
	FingerprintErrors int `json:"fingerprint_errors"`

	Mode       string  `json:"mode"`
	Threshold  float64 `json:"threshold"`
	KmerSize   int     `json:"kmer_size,omitempty"`
	WindowSize int     `json:"window_size,omitempty"`
	Policy     string  `json:"policy"`

	ProcessingTimeSeconds float64 `json:"processing_time_seconds"`

	// OutputChecksum is the seahash of the emitted FASTQ text, before
	// compression.
	OutputChecksum string `json:"output_checksum,omitempty"`
}

// newStats initializes the parameter fields of a Stats from opts.
func newStats(opts *Opts) *Stats {
	s := &Stats{
		Mode:               opts.Mode.String(),
		Threshold:          opts.Threshold,
		Policy:             opts.Policy.String(),
		GroupSizeHistogram: make(map[string]int, len(groupSizeRanges)),
	}
	if opts.Mode == PCR {
		s.KmerSize = opts.KmerSize
		s.WindowSize = opts.WindowSize
	}
	for _, r := range groupSizeRanges {
		s.GroupSizeHistogram[r] = 0
	}
	return s
}

// addGroups records the group counts. Removed and kept counts are derived
// from the groups, since every group loses all but one member.
func (s *Stats) addGroups(total int, groups []Group) {
	s.TotalReads = total
	s.DuplicateGroups = len(groups)
	grouped := 0
	for _, g := range groups {
		grouped += len(g)
		if len(g) > s.MaxGroupSize {
			s.MaxGroupSize = len(g)
		}
		s.GroupSizeHistogram[groupSizeRanges[groupSizeBucket(len(g))]]++
	}
	s.DuplicatesFound = grouped - len(groups)
	s.UniqueReadsKept = total - s.DuplicatesFound
	if len(groups) > 0 {
		s.AverageGroupSize = float64(grouped) / float64(len(groups))
	}
}

func (s *Stats) String() string {
	return fmt.Sprintf("%s: %d reads, %d duplicates in %d groups (mean size %.2f, max %d), %d kept, %d fingerprint errors",
		s.Mode, s.TotalReads, s.DuplicatesFound, s.DuplicateGroups, s.AverageGroupSize,
		s.MaxGroupSize, s.UniqueReadsKept, s.FingerprintErrors)
}

func writeStats(ctx context.Context, path string, s *Stats) (err error) {
	js, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.E(err, "marshal stats")
	}
	js = append(js, '\n')
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "Couldn't create stats file:", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	if _, err = out.Writer(ctx).Write(js); err != nil {
		return errors.E(err, "error writing to stats file:", path)
	}
	return nil
}

// metricsRow is one line of the TSV metrics file.
type metricsRow struct {
	Metric string `tsv:"metric"`
	Value  string `tsv:"value"`
}

func (s *Stats) metricsRows() []metricsRow {
	itoa := strconv.Itoa
	ftoa := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	rows := []metricsRow{
		{"mode", s.Mode},
		{"policy", s.Policy},
		{"threshold", ftoa(s.Threshold)},
		{"total_reads", itoa(s.TotalReads)},
		{"duplicates_found", itoa(s.DuplicatesFound)},
		{"unique_reads_kept", itoa(s.UniqueReadsKept)},
		{"duplicate_groups", itoa(s.DuplicateGroups)},
		{"average_group_size", ftoa(s.AverageGroupSize)},
		{"max_group_size", itoa(s.MaxGroupSize)},
		{"fingerprint_errors", itoa(s.FingerprintErrors)},
	}
	for _, r := range groupSizeRanges {
		rows = append(rows, metricsRow{"groups_size_" + r, itoa(s.GroupSizeHistogram[r])})
	}
	return rows
}

func writeMetrics(ctx context.Context, path string, s *Stats) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "Couldn't create metrics file:", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	w := tsv.NewRowWriter(out.Writer(ctx))
	for _, row := range s.metricsRows() {
		row := row
		if err = w.Write(&row); err != nil {
			return errors.E(err, "error writing to metrics file:", path)
		}
	}
	if err = w.Flush(); err != nil {
		return errors.E(err, "error writing to metrics file:", path)
	}
	return nil
}
