package dedup

import (
	"math"

	"github.com/grailbio/fastqdedup/fingerprint"
)

// Jaccard returns |a ∩ b| / |a ∪ b| for two minimizer sets. It returns 0
// if either set is empty.
func Jaccard(a, b fingerprint.Minimizers) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var i, j, inter int
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			inter++
			i++
			j++
		}
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}

// OpticalDistance returns the Euclidean distance between the (x, y)
// coordinates of a and b. It returns +Inf unless both are valid and on the
// same flowcell tile.
func OpticalDistance(a, b *fingerprint.Location) float64 {
	if !a.SameTile(b) {
		return math.Inf(1)
	}
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Fingerprints is an index-aligned collection of read fingerprints with a
// similarity predicate. Match must be safe for concurrent use.
type Fingerprints interface {
	// Len is the number of reads.
	Len() int
	// Match reports whether candidate is a duplicate of anchor.
	Match(anchor, candidate int) bool
}

// MinimizerSets matches reads whose minimizer sets have a Jaccard index of
// at least Threshold. Empty sets never match.
type MinimizerSets struct {
	Sets      []fingerprint.Minimizers
	Threshold float64
}

// Len implements Fingerprints.
func (m *MinimizerSets) Len() int { return len(m.Sets) }

// Match implements Fingerprints.
func (m *MinimizerSets) Match(anchor, candidate int) bool {
	a, b := m.Sets[anchor], m.Sets[candidate]
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	return Jaccard(a, b) >= m.Threshold
}

// Locations matches reads on the same tile that are at most MaxDistance
// pixels apart. Invalid locations never match.
type Locations struct {
	Locs        []fingerprint.Location
	MaxDistance float64
}

// Len implements Fingerprints.
func (l *Locations) Len() int { return len(l.Locs) }

// Match implements Fingerprints.
func (l *Locations) Match(anchor, candidate int) bool {
	return OpticalDistance(&l.Locs[anchor], &l.Locs[candidate]) <= l.MaxDistance
}

// Bucket implements Bucketer.
func (l *Locations) Bucket(i int) (fingerprint.TileKey, bool) {
	loc := &l.Locs[i]
	return loc.Key(), loc.Valid
}
