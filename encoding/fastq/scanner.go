package fastq

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

var (
	// ErrShort is returned when a truncated FASTQ file is encountered.
	ErrShort = errors.New("short FASTQ file")
	// ErrInvalid is returned when an invalid FASTQ file is encountered.
	ErrInvalid = errors.New("invalid FASTQ file")
	// ErrDiscordant is returned when a record's sequence and quality lines
	// have different lengths.
	ErrDiscordant = errors.New("discordant sequence and quality lengths")
)

// maxLineLength bounds a single FASTQ line. Long-read records can be much
// longer than bufio.MaxScanTokenSize.
const maxLineLength = 16 << 20

// A Read is a FASTQ read, comprising an ID, sequence, line 3
// ("unknown"), and a quality string.
type Read struct {
	ID, Seq, Unk, Qual string
}

// Name returns the read ID without the leading '@' and without the
// comment that follows the first space, if any.
func (r *Read) Name() string {
	id := r.ID
	if len(id) > 0 && id[0] == '@' {
		id = id[1:]
	}
	for i := 0; i < len(id); i++ {
		if id[i] == ' ' || id[i] == '\t' {
			return id[:i]
		}
	}
	return id
}

var errEOF = errors.New("eof")

// Scanner provides a convenient interface for reading FASTQ read
// data. The Scan method returns the next read, returning a boolean
// indicating whether the read succeeded. Scanners are not
// threadsafe.
//
// Scanner requires ID lines to begin with "@" and line 3 to begin with
// "+". When both Seq and Qual are requested it also requires the two
// lines to have the same length. Errors carry the 1-based number of the
// offending record; use errors.Cause to compare against ErrShort,
// ErrInvalid or ErrDiscordant.
type Scanner struct {
	b      *bufio.Scanner
	err    error
	fields Field
	n      int
}

// Field enumerates FASTQ fields. It is used to specify fields to read in
// NewScanner.
type Field uint

const (
	// ID causes the Read.ID field to be filled
	ID Field = 1 << iota
	// Seq causes the Read.Seq field to be filled
	Seq
	// Unk causes the Read.Unk field to be filled
	Unk
	// Qual causes the Read.Qual field to be filled
	Qual
	// All equals ID|Seq|Unk|Qual.
	All = ID | Seq | Unk | Qual
)

// NewScanner constructs a new Scanner that reads raw FASTQ data from the
// provided reader. Fields is a bitset of the fields to read. A typical value
// would be All or ID|Seq|Qual.
func NewScanner(r io.Reader, fields Field) *Scanner {
	b := bufio.NewScanner(r)
	b.Buffer(make([]byte, 0, 64<<10), maxLineLength)
	return &Scanner{b: b, fields: fields}
}

// Scan the next read into the provided read. Scan returns a boolean
// indicating whether the scan succeeded. Once Scan returns false, it
// never returns true again. Upon completion, the user should check
// the Err method to determine whether scanning stopped because of an
// error or because the end of the stream was reached.
func (f *Scanner) Scan(read *Read) bool {
	if f.err != nil {
		return false
	}
	if !f.b.Scan() {
		if f.err = f.b.Err(); f.err == nil {
			f.err = errEOF
		}
		return false
	}
	f.n++
	id := f.b.Bytes()
	if len(id) == 0 || id[0] != '@' {
		f.fail(ErrInvalid, "ID line does not start with '@'")
		return false
	}
	if f.fields&ID != 0 {
		read.ID = string(id)
	}
	if !f.scan() {
		return false
	}
	seqLen := len(f.b.Bytes())
	if f.fields&Seq != 0 {
		read.Seq = f.b.Text()
	}
	if !f.scan() {
		return false
	}
	unk := f.b.Bytes()
	if len(unk) == 0 || unk[0] != '+' {
		f.fail(ErrInvalid, "separator line does not start with '+'")
		return false
	}
	if f.fields&Unk != 0 {
		read.Unk = string(unk)
	}
	if !f.scan() {
		return false
	}
	if f.fields&(Seq|Qual) == Seq|Qual && len(f.b.Bytes()) != seqLen {
		f.fail(ErrDiscordant, "sequence has %d bases, quality has %d", seqLen, len(f.b.Bytes()))
		return false
	}
	if f.fields&Qual != 0 {
		read.Qual = f.b.Text()
	}
	return true
}

func (f *Scanner) scan() bool {
	ok := f.b.Scan()
	if !ok {
		if f.err = f.b.Err(); f.err == nil {
			f.fail(ErrShort, "truncated record")
		}
	}
	return ok
}

func (f *Scanner) fail(err error, format string, args ...interface{}) {
	f.err = errors.Wrapf(err, "record %d: "+format, append([]interface{}{f.n}, args...)...)
}

// Err returns the scanning error, if any.
func (f *Scanner) Err() error {
	if f.err == errEOF {
		return nil
	}
	return f.err
}

// Count returns the number of records scanned so far, including a
// malformed record that stopped the scan.
func (f *Scanner) Count() int { return f.n }

// ReadAll scans every record from r into memory, in input order.
func ReadAll(r io.Reader) ([]Read, error) {
	var (
		reads []Read
		read  Read
		sc    = NewScanner(r, All)
	)
	for sc.Scan(&read) {
		reads = append(reads, read)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return reads, nil
}
