package dedup

import (
	"github.com/grailbio/base/bitset"
	"github.com/grailbio/fastqdedup/encoding/fastq"
)

// RemovalSet is the set of read indices to drop.
type RemovalSet struct {
	bits []uintptr
	n    int
}

// NewRemovalSet creates an empty set over reads [0, n).
func NewRemovalSet(n int) *RemovalSet {
	return &RemovalSet{bits: newAssigned(n)}
}

// Add adds i to the set.
func (s *RemovalSet) Add(i int) {
	if !bitset.Test(s.bits, i) {
		bitset.Set(s.bits, i)
		s.n++
	}
}

// Contains reports whether i is in the set.
func (s *RemovalSet) Contains(i int) bool {
	return bitset.Test(s.bits, i)
}

// Len returns the number of reads in the set.
func (s *RemovalSet) Len() int { return s.n }

// BuildRemovalSet marks every member of each group except the one chosen
// by sel. It returns the set and the chosen representative of each group.
func BuildRemovalSet(n int, groups []Group, sel Selector) (*RemovalSet, []int) {
	s := NewRemovalSet(n)
	reps := make([]int, len(groups))
	for gi, g := range groups {
		rep := sel.Select(g)
		reps[gi] = rep
		for _, i := range g {
			if i != rep {
				s.Add(i)
			}
		}
	}
	return s, reps
}

// ReadWriter consumes surviving reads.
type ReadWriter interface {
	Write(r *fastq.Read) error
}

// Filter writes, in order, every read not in removed. It returns the number
// of reads written.
func Filter(reads []fastq.Read, removed *RemovalSet, w ReadWriter) (int, error) {
	var kept int
	for i := range reads {
		if removed.Contains(i) {
			continue
		}
		if err := w.Write(&reads[i]); err != nil {
			return kept, err
		}
		kept++
	}
	return kept, nil
}
