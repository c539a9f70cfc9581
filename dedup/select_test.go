package dedup

import (
	"strings"
	"testing"

	"github.com/grailbio/fastqdedup/encoding/fastq"
	"github.com/grailbio/testutil/expect"
)

type fixedQualities []float64

func (q fixedQualities) MeanQuality(i int) float64 { return q[i] }

func TestMeanQuality(t *testing.T) {
	expect.EQ(t, MeanQuality("", 33), 0.0)
	expect.EQ(t, MeanQuality("IIII", 33), 40.0)
	expect.EQ(t, MeanQuality("!!!!", 33), 0.0)
	expect.EQ(t, MeanQuality("5?", 33), 25.0)
	expect.EQ(t, MeanQuality("hh", 64), 40.0)
	// Long enough to exercise the vectorized path.
	expect.EQ(t, MeanQuality(strings.Repeat("?", 150)+strings.Repeat("5", 150), 33), 25.0)
}

func TestSelectors(t *testing.T) {
	q := fixedQualities{30, 35, 35, 20}
	first := NewSelector(FirstOccurrence, q)
	best := NewSelector(BestQuality, q)

	expect.EQ(t, first.Select(Group{0, 1}), 0)
	expect.EQ(t, best.Select(Group{0, 1}), 1)
	// Ties go to the earliest member.
	expect.EQ(t, best.Select(Group{0, 1, 2}), 1)
	expect.EQ(t, best.Select(Group{2, 3}), 2)
	expect.EQ(t, best.Select(Group{0, 3}), 0)
}

func TestReadQualities(t *testing.T) {
	reads := []fastq.Read{
		{ID: "@a", Seq: "ACGT", Unk: "+", Qual: "????"},
		{ID: "@b", Seq: "ACGT", Unk: "+", Qual: "DDDD"},
	}
	q := &ReadQualities{Reads: reads, Offset: 33}
	expect.EQ(t, q.MeanQuality(0), 30.0)
	expect.EQ(t, q.MeanQuality(1), 35.0)
	expect.EQ(t, NewSelector(BestQuality, q).Select(Group{0, 1}), 1)
}

func TestParsePolicy(t *testing.T) {
	for s, want := range map[string]Policy{
		"first-occurrence": FirstOccurrence,
		"best-quality":     BestQuality,
		"Best-Quality":     BestQuality,
	} {
		p, err := ParsePolicy(s)
		expect.NoError(t, err)
		expect.EQ(t, p, want)
		if s == strings.ToLower(s) {
			expect.EQ(t, p.String(), s)
		}
	}
	_, err := ParsePolicy("random")
	expect.NotNil(t, err)
}
