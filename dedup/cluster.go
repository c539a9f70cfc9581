package dedup

import (
	"github.com/grailbio/base/bitset"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

const (
	// progressInterval is the number of anchors between progress logs.
	progressInterval = 10000
	// minParallelCandidates is the smallest candidate range worth
	// splitting across goroutines.
	minParallelCandidates = 4096
)

// Group is a set of duplicate reads, given as ascending read indices.
// Group[0] is the anchor.
type Group []int

// Clusterer partitions reads into duplicate groups.
type Clusterer interface {
	Cluster(fps Fingerprints) []Group
}

// AnchorClusterer groups reads greedily in index order. Each unassigned
// read becomes an anchor and absorbs every later unassigned read that
// matches it. Only groups with at least two reads are returned, sorted by
// anchor.
type AnchorClusterer struct {
	// BatchSize is the number of anchors processed between progress checks.
	BatchSize int

	// Parallelism is the number of goroutines scanning the candidates of
	// one anchor. Values <= 1 scan serially. The result does not depend on
	// it.
	Parallelism int

	// Label prefixes progress logs.
	Label string
}

func newAssigned(n int) []uintptr {
	return make([]uintptr, (n+bitset.BitsPerWord-1)/bitset.BitsPerWord)
}

// Cluster implements Clusterer.
func (c *AnchorClusterer) Cluster(fps Fingerprints) []Group {
	n := fps.Len()
	batchSize := c.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultOpts.BatchSize
	}
	assigned := newAssigned(n)
	nextLog := progressInterval
	var (
		groups   []Group
		grouped  int
		scratch  [][]int
		matchBuf []int
	)
	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}
		for anchor := start; anchor < end; anchor++ {
			if bitset.Test(assigned, anchor) {
				continue
			}
			bitset.Set(assigned, anchor)
			if c.Parallelism > 1 && n-anchor-1 >= minParallelCandidates {
				matchBuf, scratch = c.scanParallel(fps, assigned, anchor, matchBuf[:0], scratch)
			} else {
				matchBuf = scanSerial(fps, assigned, anchor, anchor+1, n, matchBuf[:0])
			}
			if len(matchBuf) == 0 {
				continue
			}
			g := make(Group, 0, len(matchBuf)+1)
			g = append(g, anchor)
			for _, j := range matchBuf {
				bitset.Set(assigned, j)
				g = append(g, j)
			}
			grouped += len(g)
			groups = append(groups, g)
			if log.At(log.Debug) {
				log.Debug.Printf("%sgroup %d: anchor %d, %d members", c.prefix(), len(groups)-1, anchor, len(g))
			}
		}
		if end >= nextLog {
			log.Printf("%sclustered %d/%d anchors, %d groups, %d reads grouped", c.prefix(), end, n, len(groups), grouped)
			for nextLog <= end {
				nextLog += progressInterval
			}
		}
	}
	return groups
}

func (c *AnchorClusterer) prefix() string {
	if c.Label == "" {
		return ""
	}
	return c.Label + ": "
}

// scanSerial appends to matches the unassigned reads in [begin, end) that
// match anchor.
func scanSerial(fps Fingerprints, assigned []uintptr, anchor, begin, end int, matches []int) []int {
	for j := begin; j < end; j++ {
		if !bitset.Test(assigned, j) && fps.Match(anchor, j) {
			matches = append(matches, j)
		}
	}
	return matches
}

// scanParallel is scanSerial over all reads after anchor, split into
// chunks evaluated concurrently. Chunks only read the assigned bitmap, and
// results are concatenated in chunk order, so the output is identical to a
// serial scan.
func (c *AnchorClusterer) scanParallel(fps Fingerprints, assigned []uintptr, anchor int, matches []int, scratch [][]int) ([]int, [][]int) {
	begin, n := anchor+1, fps.Len()
	nChunks := c.Parallelism
	chunkSize := (n - begin + nChunks - 1) / nChunks
	for len(scratch) < nChunks {
		scratch = append(scratch, nil)
	}
	_ = traverse.Each(nChunks, func(i int) error {
		cb := begin + i*chunkSize
		ce := cb + chunkSize
		if ce > n {
			ce = n
		}
		scratch[i] = scanSerial(fps, assigned, anchor, cb, ce, scratch[i][:0])
		return nil
	})
	for i := 0; i < nChunks; i++ {
		matches = append(matches, scratch[i]...)
	}
	return matches, scratch
}
