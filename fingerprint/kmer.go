package fingerprint

const invalidKmerBits = uint8(255)

// MaxKmerSize is the largest k-mer that fits in a Kmer.
const MaxKmerSize = 32

var (
	asciiToKmerMap                  [256]uint8
	asciiToReverseComplementKmerMap [256]uint8
)

func init() {
	for i := range asciiToKmerMap {
		asciiToKmerMap[i] = invalidKmerBits
		asciiToReverseComplementKmerMap[i] = invalidKmerBits
	}
	for _, c := range []struct {
		lower, upper byte
		bits, rcBits uint8
	}{
		{'a', 'A', 0, 3},
		{'c', 'C', 1, 2},
		{'g', 'G', 2, 1},
		{'t', 'T', 3, 0},
	} {
		asciiToKmerMap[c.lower], asciiToKmerMap[c.upper] = c.bits, c.bits
		asciiToReverseComplementKmerMap[c.lower], asciiToReverseComplementKmerMap[c.upper] = c.rcBits, c.rcBits
	}
}

// Kmer is a compact encoding of a sequence of ACGT, up to 32 bases.
type Kmer uint64

// kmerizer enumerates the canonical k-mers of a sequence, in order of
// position. K-mers that overlap a non-ACGT base are skipped.
type kmerizer struct {
	kmerLength int
	mask       Kmer // covers the low 2*kmerLength bits
	shift      uint // 2*(kmerLength-1)

	seq string
	si  int // start of the next k-mer to emit

	// valid is the number of ACGT bases starting at seq[si] that are already
	// folded into forward and rc.
	valid       int
	forward, rc Kmer
	pos         int
}

func newKmerizer(kmerLength int) *kmerizer {
	k := &kmerizer{
		kmerLength: kmerLength,
		shift:      uint(kmerLength-1) * 2,
	}
	if kmerLength >= MaxKmerSize {
		k.mask = ^Kmer(0)
	} else {
		k.mask = ^(^Kmer(0) << uint(kmerLength*2))
	}
	return k
}

// Reset starts enumerating the k-mers of seq.
func (k *kmerizer) Reset(seq string) {
	k.seq = seq
	k.si = 0
	k.valid = 0
	k.forward, k.rc = 0, 0
}

// Scan advances to the next valid k-mer. It returns false when the sequence
// is exhausted.
func (k *kmerizer) Scan() bool {
	for end := k.si + k.valid; end < len(k.seq); end++ {
		ch := k.seq[end]
		bits := asciiToKmerMap[ch]
		if bits == invalidKmerBits {
			k.si = end + 1
			k.valid = 0
			k.forward, k.rc = 0, 0
			continue
		}
		k.forward = ((k.forward << 2) | Kmer(bits)) & k.mask
		k.rc = (k.rc >> 2) | (Kmer(asciiToReverseComplementKmerMap[ch]) << k.shift)
		k.valid++
		if k.valid == k.kmerLength {
			k.pos = k.si
			k.si++
			k.valid--
			return true
		}
	}
	k.si = len(k.seq)
	k.valid = 0
	return false
}

// Pos returns the 0-based start position of the current k-mer.
func (k *kmerizer) Pos() int { return k.pos }

// Canonical returns the smaller of the forward and reverse-complement
// encodings of the current k-mer.
func (k *kmerizer) Canonical() Kmer {
	if k.forward < k.rc {
		return k.forward
	}
	return k.rc
}
