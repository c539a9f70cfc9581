// bio-dedup removes PCR (content) or optical (positional) duplicate reads
// from a FASTQ file.
//
// Usage:
//   bio-dedup pcr [flags] input.fastq[.gz] output.fastq[.gz]
//   bio-dedup optical [flags] input.fastq[.gz] output.fastq[.gz]
package main

import (
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/fastqdedup/dedup"
	"v.io/x/lib/cmdline"
)

type flags struct {
	opts   dedup.Opts
	policy string
}

// register adds the flags shared by both modes to cmd, with defaults from
// base.
func register(cmd *cmdline.Command, base dedup.Opts) *flags {
	f := &flags{opts: base, policy: base.Policy.String()}
	cmd.Flags.StringVar(&f.policy, "policy", f.policy, "Survivor of each duplicate group: first-occurrence or best-quality")
	cmd.Flags.IntVar(&f.opts.QualityOffset, "quality-offset", base.QualityOffset, "Offset of FASTQ quality characters")
	cmd.Flags.IntVar(&f.opts.BatchSize, "batch-size", base.BatchSize, "Number of anchors clustered between progress checks")
	cmd.Flags.IntVar(&f.opts.Parallelism, "parallelism", base.Parallelism, "Number of goroutines used for fingerprinting and candidate scans")
	cmd.Flags.StringVar(&f.opts.StatsPath, "stats", "", "JSON stats output path. Defaults to <mode>_dedup_stats.json")
	cmd.Flags.StringVar(&f.opts.MetricsPath, "metrics", "", "Optional TSV metrics output path")
	return f
}

func (f *flags) run(argv []string) error {
	if len(argv) != 2 {
		return fmt.Errorf("%v takes input and output paths, but found %v", f.opts.Mode, argv)
	}
	policy, err := dedup.ParsePolicy(f.policy)
	if err != nil {
		return err
	}
	opts := f.opts
	opts.Policy = policy
	opts.InputPath, opts.OutputPath = argv[0], argv[1]
	_, err = dedup.SetupAndDedup(vcontext.Background(), opts)
	return err
}

func newCmdPCR() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "pcr",
		Short:    "Remove reads with near-identical sequence",
		ArgsName: "input output",
		Long: `
Reads are fingerprinted by their minimizers: the smallest hash in each window
of consecutive canonical k-mers. A read whose minimizer set has a Jaccard
index of at least -threshold with an earlier group anchor is a duplicate.`,
	}
	f := register(cmd, dedup.DefaultOpts)
	cmd.Flags.Float64Var(&f.opts.Threshold, "threshold", dedup.DefaultOpts.Threshold, "Minimum Jaccard index, in [0, 1]")
	cmd.Flags.IntVar(&f.opts.KmerSize, "kmer-size", dedup.DefaultOpts.KmerSize, "K-mer length, in [1, 32]")
	cmd.Flags.IntVar(&f.opts.WindowSize, "window-size", dedup.DefaultOpts.WindowSize, "Number of consecutive k-mers per minimizer window")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		return f.run(argv)
	})
	return cmd
}

func newCmdOptical() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "optical",
		Short:    "Remove reads imaged from nearby flowcell positions",
		ArgsName: "input output",
		Long: `
Reads are located by the flowcell, lane, tile and x/y coordinates of their
Illumina read names. A read on the same tile as an earlier group anchor and
within -threshold pixels of it is a duplicate. Reads whose names cannot be
parsed are kept.`,
	}
	f := register(cmd, dedup.DefaultOpticalOpts)
	cmd.Flags.Float64Var(&f.opts.Threshold, "threshold", dedup.DefaultOpticalOpts.Threshold, "Maximum Euclidean distance in pixels")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		return f.run(argv)
	})
	return cmd
}

func newCmdRoot() *cmdline.Command {
	return &cmdline.Command{
		Name:     "bio-dedup",
		Short:    "Remove duplicate reads from FASTQ files",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdPCR(),
			newCmdOptical(),
		},
	}
}

func main() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(newCmdRoot())
}
