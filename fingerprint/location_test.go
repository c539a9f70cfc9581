package fingerprint

import (
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/pkg/errors"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		id   string
		want Location
	}{
		{
			"@NB500956:89:HW2FHBGX2:1:11101:25648:1069 1:N:0:ATCACG",
			Location{Instrument: "NB500956", Run: 89, Flowcell: "HW2FHBGX2", Lane: 1, Tile: 11101,
				Surface: 1, Swath: 1, Section: 1, TileNumber: 1, X: 25648, Y: 1069,
				Read: 1, Filtered: false, Control: 0, Index: "ATCACG", Valid: true},
		},
		{
			"E00456:12:H3CFJCCXY:4:1203:10000:2000 2:Y:18:GATTACA",
			Location{Instrument: "E00456", Run: 12, Flowcell: "H3CFJCCXY", Lane: 4, Tile: 1203,
				Surface: 1, Swath: 2, TileNumber: 3, X: 10000, Y: 2000,
				Read: 2, Filtered: true, Control: 18, Index: "GATTACA", Valid: true},
		},
		{
			"A00123:8:FLOW:2:2304:15:16:ACGTACGT",
			Location{Instrument: "A00123", Run: 8, Flowcell: "FLOW", Lane: 2, Tile: 2304,
				Surface: 2, Swath: 3, TileNumber: 4, X: 15, Y: 16, UMI: "ACGTACGT", Valid: true},
		},
		{
			"@HWUSI-EAS100R:6:73:941:1973#0/1",
			Location{Instrument: "HWUSI-EAS100R", Lane: 6, Tile: 73, TileNumber: 73,
				X: 941, Y: 1973, Index: "0", Read: 1, Valid: true},
		},
		{
			// Malformed comments leave the coordinates alone.
			"I:1:F:1:1101:5:6 garbage",
			Location{Instrument: "I", Run: 1, Flowcell: "F", Lane: 1, Tile: 1101,
				Surface: 1, Swath: 1, TileNumber: 1, X: 5, Y: 6, Valid: true},
		},
	}
	for _, test := range tests {
		got, err := ParseLocation(test.id)
		expect.NoError(t, err, test.id)
		expect.EQ(t, got, test.want, test.id)
	}
}

func TestParseLocationErrors(t *testing.T) {
	for _, id := range []string{
		"",
		"@read1",
		"a:b:c",
		"I:1:F:x:1101:5:6",
		"I:1:F:1:1101:x:6",
		"I:1:F:1:1101:5:y",
		"I:run:F:1:1101:5:6",
		"I:1:F:1:123456:5:6",
		"I:1:F:1:1101:5:6:7:8",
	} {
		loc, err := ParseLocation(id)
		expect.EQ(t, errors.Cause(err), ErrUnparseableName, id)
		expect.False(t, loc.Valid, id)
	}
}

func TestSameTile(t *testing.T) {
	a, err := ParseLocation("I:1:FC1:1:1101:100:100")
	expect.NoError(t, err)
	b, err := ParseLocation("I:1:FC1:1:1101:900:900")
	expect.NoError(t, err)
	c, err := ParseLocation("I:1:FC2:1:1101:100:100")
	expect.NoError(t, err)
	d, err := ParseLocation("I:1:FC1:2:1101:100:100")
	expect.NoError(t, err)
	expect.True(t, a.SameTile(&b))
	expect.False(t, a.SameTile(&c))
	expect.False(t, a.SameTile(&d))
	var invalid Location
	expect.False(t, a.SameTile(&invalid))
	expect.False(t, invalid.SameTile(&invalid))
	expect.EQ(t, a.Key().String(), "FC1:1:1101")
}
