package dedup

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/fastqdedup/encoding/fastq"
	"github.com/grailbio/fastqdedup/fingerprint"
	"github.com/klauspost/compress/gzip"
)

// minReadsPerShard is the smallest number of reads fingerprinted by one
// goroutine.
const minReadsPerShard = 1 << 14

// Result is the outcome of deduplicating a batch of reads.
type Result struct {
	// Groups are the duplicate groups, sorted by anchor.
	Groups []Group
	// Representatives[i] is the surviving read of Groups[i].
	Representatives []int
	// Removed holds every grouped read except the representatives.
	Removed *RemovalSet
	Stats   *Stats
}

// Dedup finds the duplicates among reads. Only the clustering parameters
// of opts are used; paths are ignored. reads are not modified.
func Dedup(reads []fastq.Read, opts Opts) (*Result, error) {
	if err := validateParams(&opts); err != nil {
		return nil, err
	}
	stats := newStats(&opts)

	var (
		fps       Fingerprints
		clusterer Clusterer
		nErrs     int
	)
	anchor := AnchorClusterer{
		BatchSize:   opts.BatchSize,
		Parallelism: opts.Parallelism,
		Label:       opts.Mode.String(),
	}
	switch opts.Mode {
	case PCR:
		sets, n, err := computeMinimizers(reads, opts.KmerSize, opts.WindowSize, opts.Parallelism)
		if err != nil {
			return nil, err
		}
		fps, nErrs = &MinimizerSets{Sets: sets, Threshold: opts.Threshold}, n
		clusterer = &anchor
	case Optical:
		locs, n := parseLocations(reads)
		fps, nErrs = &Locations{Locs: locs, MaxDistance: opts.Threshold}, n
		clusterer = &TileClusterer{anchor}
	}
	if nErrs > 0 {
		log.Printf("%v: %d of %d reads have no fingerprint and will be kept", opts.Mode, nErrs, len(reads))
	}

	groups := clusterer.Cluster(fps)
	sel := NewSelector(opts.Policy, &ReadQualities{Reads: reads, Offset: opts.QualityOffset})
	removed, reps := BuildRemovalSet(len(reads), groups, sel)
	if log.At(log.Debug) {
		for i, g := range groups {
			log.Debug.Printf("group %d: %v, keeping %d", i, g, reps[i])
		}
	}
	stats.addGroups(len(reads), groups)
	stats.FingerprintErrors = nErrs
	return &Result{
		Groups:          groups,
		Representatives: reps,
		Removed:         removed,
		Stats:           stats,
	}, nil
}

// computeMinimizers fingerprints every read. Reads that are too short get an
// empty set and are counted in the second return value.
func computeMinimizers(reads []fastq.Read, k, w, parallelism int) ([]fingerprint.Minimizers, int, error) {
	sets := make([]fingerprint.Minimizers, len(reads))
	nShards := (len(reads) + minReadsPerShard - 1) / minReadsPerShard
	if nShards > parallelism {
		nShards = parallelism
	}
	if nShards < 1 {
		nShards = 1
	}
	shardSize := (len(reads) + nShards - 1) / nShards
	shardErrs := make([]int, nShards)
	err := traverse.Each(nShards, func(shard int) error {
		e, err := fingerprint.NewMinimizerExtractor(k, w)
		if err != nil {
			return err
		}
		end := (shard + 1) * shardSize
		if end > len(reads) {
			end = len(reads)
		}
		for i := shard * shardSize; i < end; i++ {
			if sets[i], err = e.Extract(reads[i].Seq); err != nil {
				shardErrs[shard]++
				if log.At(log.Debug) {
					log.Debug.Printf("read %d %s: %v", i, reads[i].Name(), err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	var nErrs int
	for _, n := range shardErrs {
		nErrs += n
	}
	return sets, nErrs, nil
}

// parseLocations parses the flowcell location of every read. Reads with
// unparseable names get an invalid location and are counted.
func parseLocations(reads []fastq.Read) ([]fingerprint.Location, int) {
	locs := make([]fingerprint.Location, len(reads))
	var nErrs int
	for i := range reads {
		var err error
		if locs[i], err = fingerprint.ParseLocation(reads[i].ID); err != nil {
			nErrs++
			if log.At(log.Debug) {
				log.Debug.Printf("read %d: %v", i, err)
			}
		}
	}
	return locs, nErrs
}

// SetupAndDedup reads opts.InputPath, removes duplicates, and writes the
// surviving reads to opts.OutputPath along with the stats report. If any
// step after creating the output fails, the output is removed.
func SetupAndDedup(ctx context.Context, opts Opts) (*Stats, error) {
	start := time.Now()
	if err := validate(&opts); err != nil {
		return nil, err
	}
	log.Printf("%v deduplication: input %s, output %s, stats %s", opts.Mode, opts.InputPath, opts.OutputPath, opts.StatsPath)
	if opts.Mode == PCR {
		log.Printf("threshold %v (jaccard), kmer size %d, window size %d, policy %v",
			opts.Threshold, opts.KmerSize, opts.WindowSize, opts.Policy)
	} else {
		log.Printf("threshold %v (pixels), policy %v", opts.Threshold, opts.Policy)
	}

	reads, err := readFASTQ(ctx, opts.InputPath)
	if err != nil {
		return nil, err
	}
	res, err := Dedup(reads, opts)
	if err != nil {
		return nil, err
	}
	stats := res.Stats
	kept, checksum, err := writeFASTQ(ctx, opts.OutputPath, reads, res.Removed)
	if err != nil {
		return nil, err
	}
	if kept != stats.UniqueReadsKept {
		removeOutput(ctx, opts.OutputPath)
		return nil, fmt.Errorf("wrote %d reads, expected %d", kept, stats.UniqueReadsKept)
	}
	stats.OutputChecksum = fmt.Sprintf("%016x", checksum)
	stats.ProcessingTimeSeconds = time.Since(start).Seconds()

	if err := writeStats(ctx, opts.StatsPath, stats); err != nil {
		removeOutput(ctx, opts.OutputPath)
		return nil, err
	}
	if opts.MetricsPath != "" {
		if err := writeMetrics(ctx, opts.MetricsPath, stats); err != nil {
			removeOutput(ctx, opts.OutputPath)
			return nil, err
		}
	}
	log.Printf("%v", stats)
	return stats, nil
}

func readFASTQ(ctx context.Context, path string) ([]fastq.Read, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open", path)
	}
	var r io.Reader = in.Reader(ctx)
	if u, _ := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	var (
		reads []fastq.Read
		read  fastq.Read
	)
	sc := fastq.NewScanner(r, fastq.All)
	for sc.Scan(&read) {
		reads = append(reads, read)
		if n := len(reads); n%(1024*1024) == 0 {
			log.Printf("%s: %dMi reads", path, n/(1024*1024))
		}
	}
	once := errors.Once{}
	once.Set(sc.Err())
	once.Set(in.Close(ctx))
	if err := once.Err(); err != nil {
		return nil, errors.E(err, "read", path)
	}
	log.Printf("Read %d reads from %s", len(reads), path)
	return reads, nil
}

// writeFASTQ writes the reads not in removed to path, gzip compressed if
// path ends in .gz. It returns the number of reads written and the seahash
// of the uncompressed FASTQ text.
func writeFASTQ(ctx context.Context, path string, reads []fastq.Read, removed *RemovalSet) (int, uint64, error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return 0, 0, errors.E(err, "Couldn't create output file:", path)
	}
	var (
		w  io.Writer = out.Writer(ctx)
		gz *gzip.Writer
	)
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(w)
		w = gz
	}
	h := seahash.New()
	fw := fastq.NewWriter(io.MultiWriter(w, h))
	kept, err := Filter(reads, removed, fw)

	once := errors.Once{}
	once.Set(err)
	once.Set(fw.Flush())
	if gz != nil {
		once.Set(gz.Close())
	}
	once.Set(out.Close(ctx))
	if err := once.Err(); err != nil {
		removeOutput(ctx, path)
		return 0, 0, errors.E(err, "write", path)
	}
	log.Printf("Wrote %d reads to %s", kept, path)
	return kept, h.Sum64(), nil
}

func removeOutput(ctx context.Context, path string) {
	if err := file.Remove(ctx, path); err != nil {
		log.Error.Printf("remove %s: %v", path, err)
	}
}
