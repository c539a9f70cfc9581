package dedup

import (
	"github.com/grailbio/base/simd"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/fastqdedup/encoding/fastq"
)

// Selector picks the surviving member of a duplicate group.
type Selector interface {
	// Select returns the read index that survives, which is always a
	// member of g.
	Select(g Group) int
}

// QualitySource reports the mean base quality of a read.
type QualitySource interface {
	MeanQuality(i int) float64
}

// NewSelector returns the selector for policy p. q is only consulted by
// BestQuality.
func NewSelector(p Policy, q QualitySource) Selector {
	if p == BestQuality {
		return &bestQualitySelector{q}
	}
	return firstOccurrenceSelector{}
}

type firstOccurrenceSelector struct{}

func (firstOccurrenceSelector) Select(g Group) int { return g[0] }

type bestQualitySelector struct {
	q QualitySource
}

// Select returns the member with the highest mean quality. Ties go to the
// earliest member.
func (s *bestQualitySelector) Select(g Group) int {
	best, bestQ := g[0], s.q.MeanQuality(g[0])
	for _, i := range g[1:] {
		if q := s.q.MeanQuality(i); q > bestQ {
			best, bestQ = i, q
		}
	}
	return best
}

// MeanQuality returns the mean of qual[i]-offset. It returns 0 for an
// empty quality string.
func MeanQuality(qual string, offset int) float64 {
	if len(qual) == 0 {
		return 0
	}
	sum := simd.Accumulate8(gunsafe.StringToBytes(qual))
	return float64(sum-offset*len(qual)) / float64(len(qual))
}

// ReadQualities is a QualitySource over FASTQ reads.
type ReadQualities struct {
	Reads  []fastq.Read
	Offset int
}

// MeanQuality implements QualitySource.
func (r *ReadQualities) MeanQuality(i int) float64 {
	return MeanQuality(r.Reads[i].Qual, r.Offset)
}
