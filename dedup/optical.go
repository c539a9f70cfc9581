package dedup

import (
	"sort"

	"github.com/grailbio/base/log"
	"github.com/grailbio/fastqdedup/fingerprint"
)

// Bucketer is implemented by fingerprints that can only match within a
// bucket. Bucket returns ok == false for reads that match nothing.
type Bucketer interface {
	Bucket(i int) (key fingerprint.TileKey, ok bool)
}

// TileClusterer clusters optical duplicates one tile at a time. Reads on
// different tiles are never duplicates, so the result equals the global
// AnchorClusterer result while each anchor is only compared against reads on
// its own tile.
type TileClusterer struct {
	AnchorClusterer
}

// subset restricts fps to the reads in idx.
type subset struct {
	fps Fingerprints
	idx []int
}

func (s *subset) Len() int { return len(s.idx) }

func (s *subset) Match(anchor, candidate int) bool {
	return s.fps.Match(s.idx[anchor], s.idx[candidate])
}

// Cluster implements Clusterer. Fingerprints that do not implement
// Bucketer are clustered globally.
func (t *TileClusterer) Cluster(fps Fingerprints) []Group {
	b, ok := fps.(Bucketer)
	if !ok {
		return t.AnchorClusterer.Cluster(fps)
	}

	// Split reads by tile. Indices within a batch stay ascending.
	batches := make(map[fingerprint.TileKey][]int)
	for i := 0; i < fps.Len(); i++ {
		key, valid := b.Bucket(i)
		if !valid {
			continue
		}
		batches[key] = append(batches[key], i)
	}
	log.Printf("optical: %d reads in %d tiles", fps.Len(), len(batches))

	var groups []Group
	for key, batch := range batches {
		if len(batch) < 2 {
			continue
		}
		if log.At(log.Debug) {
			log.Debug.Printf("optical batch size: %d, %v", len(batch), key)
		}
		tile := t.AnchorClusterer
		tile.Label = key.String()
		for _, g := range tile.Cluster(&subset{fps, batch}) {
			for i, j := range g {
				g[i] = batch[j]
			}
			groups = append(groups, g)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
	return groups
}
