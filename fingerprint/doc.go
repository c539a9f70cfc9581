/*Package fingerprint derives compact per-read fingerprints used for
  duplicate detection.

  Two kinds of fingerprint are supported:

  Minimizers summarize the content of a read. Every k-mer of the read is
  reduced to its canonical form (the smaller of the forward and
  reverse-complement 2-bit encodings) and hashed. Within each window of w
  consecutive k-mers, the smallest hash is a minimizer. The fingerprint is
  the set of distinct minimizers, stored as a sorted slice. K-mers that
  contain a base other than ACGT are skipped, and windows never span them.

  Locations summarize where a read was sequenced. They are parsed from
  Illumina read names, e.g.

    @NB500956:89:HW2FHBGX2:1:11101:25648:1069 1:N:0:ATCACG

  carries instrument NB500956, run 89, flowcell HW2FHBGX2, lane 1, tile
  11101, x 25648, y 1069, and (after the space) read 1, not filtered,
  control 0 and index ATCACG.

  Extraction never aborts a batch. A read that yields no fingerprint gets
  an empty Minimizers set or an invalid Location, both of which can never
  be judged similar to anything.
*/
package fingerprint
