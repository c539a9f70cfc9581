/*Package dedup removes duplicate reads from FASTQ data.

  Two kinds of duplicates are recognized:

  PCR (content) duplicates are reads with near-identical sequence. Each
  read is summarized by its set of minimizers, see package fingerprint,
  and two reads are duplicates if the Jaccard index of their minimizer
  sets is at least the threshold (default 0.8).

  Optical (positional) duplicates are reads imaged from the same spot of
  the flowcell. Each read is summarized by the flowcell coordinates in its
  Illumina read name, and two reads are duplicates if they are on the same
  flowcell, lane and tile, and their Euclidean (x, y) distance is at most
  the threshold (default 10 pixels).

  Grouping:

  Reads are clustered greedily in input order. The first read that has not
  been assigned to a group becomes an anchor. Every later unassigned read
  that is similar to the anchor joins its group. Similarity is only ever
  tested against the anchor, so if A~B and A~C but B is not similar to C,
  A's group is still {A, B, C}, and if only B~C then B and C form their
  own group after A's group is closed. Groups of one read are dropped.

  For optical duplicates the same algorithm runs separately on each tile,
  which gives the same groups as a global scan since reads on different
  tiles never match.

  Selection:

  One representative in each group survives. With the first-occurrence
  policy it is the anchor. With best-quality it is the member with the
  highest mean base quality (Phred+33 by default), ties going to the
  earliest read. Every other member is removed, and the remaining reads
  are written in their original order.

  Reads whose fingerprint cannot be computed (too short for a minimizer
  window, or an unparseable name) are never grouped and are always kept.
  The number of such reads is reported.

  Statistics:

  Each run writes a JSON report with read and group counts, the mean and
  maximum group size, a group size histogram, the parameters used, the
  processing time and a seahash checksum of the emitted records.
*/
package dedup
