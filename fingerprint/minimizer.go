package fingerprint

import (
	"fmt"
	"sort"

	farm "github.com/dgryski/go-farm"
	"github.com/pkg/errors"
)

var (
	// ErrSequenceTooShort is returned when a sequence has no window of
	// consecutive valid k-mers.
	ErrSequenceTooShort = errors.New("sequence too short for a minimizer window")
)

// Minimizers is the content fingerprint of a read: the distinct minimizer
// hashes, sorted in increasing order. An empty set is the unknown
// fingerprint.
type Minimizers []uint64

// Len returns the number of distinct minimizers.
func (m Minimizers) Len() int { return len(m) }

func hashKmer(k Kmer) uint64 {
	return farm.Hash64WithSeed(nil, uint64(k))
}

// MinimizerExtractor computes minimizer fingerprints. It holds scratch
// buffers, so an extractor must not be shared across goroutines.
type MinimizerExtractor struct {
	kmerSize, windowSize int
	kmerizer             *kmerizer
	run                  []uint64
	out                  []uint64
}

// NewMinimizerExtractor creates an extractor for k-mers of length k and
// windows of w consecutive k-mers. It requires 1 <= k <= 32 and w >= 1.
func NewMinimizerExtractor(k, w int) (*MinimizerExtractor, error) {
	if k < 1 || k > MaxKmerSize {
		return nil, fmt.Errorf("kmer size %d out of range [1, %d]", k, MaxKmerSize)
	}
	if w < 1 {
		return nil, fmt.Errorf("window size %d must be at least 1", w)
	}
	return &MinimizerExtractor{
		kmerSize:   k,
		windowSize: w,
		kmerizer:   newKmerizer(k),
	}, nil
}

// Extract returns the minimizer set of seq. A sequence with no run of
// windowSize consecutive valid k-mers yields ErrSequenceTooShort and an
// empty set.
func (e *MinimizerExtractor) Extract(seq string) (Minimizers, error) {
	e.out = e.out[:0]
	e.run = e.run[:0]
	km := e.kmerizer
	km.Reset(seq)
	lastPos := -2
	for km.Scan() {
		if km.Pos() != lastPos+1 {
			e.flushRun()
		}
		lastPos = km.Pos()
		e.run = append(e.run, hashKmer(km.Canonical()))
	}
	e.flushRun()
	if len(e.out) == 0 {
		return Minimizers{}, errors.Wrapf(ErrSequenceTooShort, "length %d, k %d, w %d",
			len(seq), e.kmerSize, e.windowSize)
	}
	sort.Slice(e.out, func(i, j int) bool { return e.out[i] < e.out[j] })
	n := 1
	for i := 1; i < len(e.out); i++ {
		if e.out[i] != e.out[n-1] {
			e.out[n] = e.out[i]
			n++
		}
	}
	m := make(Minimizers, n)
	copy(m, e.out[:n])
	return m, nil
}

// flushRun emits the minimizer of every window in the current run of
// adjacent k-mers, then clears the run.
func (e *MinimizerExtractor) flushRun() {
	w := e.windowSize
	for start := 0; start+w <= len(e.run); start++ {
		lo := e.run[start]
		for _, h := range e.run[start+1 : start+w] {
			if h < lo {
				lo = h
			}
		}
		if n := len(e.out); n == 0 || e.out[n-1] != lo {
			e.out = append(e.out, lo)
		}
	}
	e.run = e.run[:0]
}

// ExtractMinimizers is a convenience wrapper around MinimizerExtractor for
// a single sequence.
func ExtractMinimizers(seq string, k, w int) (Minimizers, error) {
	e, err := NewMinimizerExtractor(k, w)
	if err != nil {
		return Minimizers{}, err
	}
	return e.Extract(seq)
}
