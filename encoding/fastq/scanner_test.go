package fastq

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/pkg/errors"
)

const fq = `@NB500956:89:HW2FHBGX2:1:11101:25648:1069 1:N:0:ATCACG
ATACAGGCCTGANCCACTGTGCCCAGNCTANNTNATTANTGAANANAGAATNGTTNTAAATANANNNNNTNTNNNC
+
AAAAAEEEEEEE#EEAEEEEEEEEEE#EEE##E#EEEE#EEEE#E#EEEEE#EEE#EEEAEE#A#####E#E###E
@NB500956:89:HW2FHBGX2:1:11101:13871:1070 1:N:0:ATCACG
CTCAACTCTGAGNCAGACAGAAATACNTTTNNTNTGAGTTACANCNTTCTTTTTCNACATATNCNNNNNTNGNNNT
+
AAAAAEEEEEEE#EEEEEEEEEEEEE#EEE##E#EEEEEEEEE#E#EEEEEEEEE#EAEEEE#A#####E#A###E
@NB500956:89:HW2FHBGX2:1:11101:9975:1070 1:N:0:ATCACG
GAGTAACCACGTNCCCATGGCCACAGNTGANNGNGTCACACCTNANCCGGGAGAGNCAATCCNGNNNNNGNANNNC
+
AAAAAEEEEEEE#EEEEEEEEEAEEE#EEA##E#EEEEEEEE<#E#<EEEEEEEE#<EEEA/#/#####A#E###A
@NB500956:89:HW2FHBGX2:1:11101:20247:1070 1:N:0:ATCACG
GATCGGAAGAGCNCACGTCTGAACTCNAGTNNCNTCCCGATCTNGNATGCCGTCTNCTGCTTNANNNNNANANNNG
+
AAAAAEEEEEEE#EEEEEEEEEEEEE#AEE##E#A////6AE<#E#EEEEEEEEA#A/EE/E#E#####/#E###E
@NB500956:89:HW2FHBGX2:1:11101:17754:1070 1:N:0:ATCACG
CAAGCAACTTACNTTACTTTAGGCTGNAAANNGNCTGCCTGAANTNCCTGCTCACNAATCCCNCNNNNNCNTNNNT
+
AAAAAEEEEEEE#EEAEEEEEEEEEE#EEE##E#EEEEEEEEE#EAEAEA#/#####E#A###E
@NB500956:89:HW2FHBGX2:1:11101:26223:1070 1:N:0:ATCACG
TCAATTTCAGAACTTTTTATTGGTCTNTTCNNGNATTCATCTTNTNCCTGGTTTANTCTTGGNANNNNNTNTNNNT
+
AAAAAEEEEEEEEEEEEEEEEEEEEE#EEA##E#EEEEEEEEE#E#<EAEEEEEE#EEEEEE#E#####E#E###E
`

func stringScanner(s string, fields Field) *Scanner {
	return NewScanner(bytes.NewReader([]byte(s)), fields)
}

func scanErr(s string) error {
	scan := stringScanner(s, All)
	var r Read
	for scan.Scan(&r) {
	}
	return scan.Err()
}

func TestFASTQ(t *testing.T) {
	// The fifth record has a short quality line, so only read IDs and
	// sequences here.
	s := stringScanner(fq, ID|Seq)
	var r Read
	if !s.Scan(&r) {
		t.Fatal(s.Err())
	}
	expect.EQ(t, r.ID, "@NB500956:89:HW2FHBGX2:1:11101:25648:1069 1:N:0:ATCACG")
	expect.EQ(t, r.Seq, "ATACAGGCCTGANCCACTGTGCCCAGNCTANNTNATTANTGAANANAGAATNGTTNTAAATANANNNNNTNTNNNC")
	expect.EQ(t, r.Qual, "")
	expect.EQ(t, r.Name(), "NB500956:89:HW2FHBGX2:1:11101:25648:1069")
	var n int
	for s.Scan(&r) {
		n++
	}
	expect.EQ(t, n, 5)
	expect.NoError(t, s.Err())
	expect.EQ(t, s.Count(), 6)
}

func TestDiscordantFASTQ(t *testing.T) {
	s := stringScanner(fq, All)
	var (
		r Read
		n int
	)
	for s.Scan(&r) {
		n++
	}
	expect.EQ(t, n, 4)
	expect.EQ(t, errors.Cause(s.Err()), ErrDiscordant)
	expect.True(t, strings.HasPrefix(s.Err().Error(), "record 5:"), s.Err())
}

func TestBadFASTQ(t *testing.T) {
	expect.EQ(t, errors.Cause(scanErr("12312#")), ErrInvalid)
	expect.EQ(t, errors.Cause(scanErr("@1234\n123")), ErrShort)
	expect.EQ(t, errors.Cause(scanErr("@1234\nACGT\n-\nAAAA\n")), ErrInvalid)
	expect.NoError(t, scanErr(""))
}

func TestReadAll(t *testing.T) {
	reads, err := ReadAll(strings.NewReader("@a\nACGT\n+\nIIII\n@b comment\nAC\n+b\n##\n"))
	expect.NoError(t, err)
	expect.EQ(t, reads, []Read{
		{ID: "@a", Seq: "ACGT", Unk: "+", Qual: "IIII"},
		{ID: "@b comment", Seq: "AC", Unk: "+b", Qual: "##"},
	})
	expect.EQ(t, reads[1].Name(), "b")

	_, err = ReadAll(strings.NewReader("@a\nACGT\n+\nIII\n"))
	expect.EQ(t, errors.Cause(err), ErrDiscordant)
}

func TestWriter(t *testing.T) {
	var (
		s = stringScanner(fq, ID|Seq|Unk)
		b = new(bytes.Buffer)
		w = NewWriter(b)
		r Read
	)
	for s.Scan(&r) {
		r.Qual = strings.Repeat("I", len(r.Seq))
		if err := w.Write(&r); err != nil {
			t.Fatal(err)
		}
	}
	expect.NoError(t, s.Err())
	expect.NoError(t, w.Flush())
	expect.EQ(t, w.Count(), 6)

	reads, err := ReadAll(b)
	expect.NoError(t, err)
	expect.EQ(t, len(reads), 6)
	expect.EQ(t, reads[5].ID, "@NB500956:89:HW2FHBGX2:1:11101:26223:1070 1:N:0:ATCACG")
}

func TestWriterEmptyUnk(t *testing.T) {
	b := new(bytes.Buffer)
	w := NewWriter(b)
	expect.NoError(t, w.Write(&Read{ID: "@x", Seq: "A", Qual: "I"}))
	expect.NoError(t, w.Flush())
	expect.EQ(t, b.String(), "@x\nA\n+\nI\n")
}
