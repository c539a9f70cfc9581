package fingerprint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnparseableName is returned when a read name does not carry Illumina
// flowcell coordinates.
var ErrUnparseableName = errors.New("unparseable Illumina read name")

const (
	// Illumina read names come in 3 varieties: 5, 7, and 8 columns.
	// 5 field names are instrument:lane:tile:x:y, optionally followed by
	// #index/read. 7 field names are
	// instrument:run:flowcell:lane:tile:x:y and 8 field names append a
	// UMI.
	illuminaReadName5Fields = 5
	illuminaReadName7Fields = 7
	illuminaReadName8Fields = 8
)

// Location is the positional fingerprint of a read: where on the flowcell
// it was imaged. Surface, Swath, Section and TileNumber are decoded from
// Tile, which is the 4 or 5 digit Illumina tile name, e.g. 1203 means
// surface 1, swath 2 and tile 3, and 12304 means surface 1, swath 2,
// section 3 and tile 4.
//
// Read, Filtered, Control and Index come from the comment following the
// name, when present.
type Location struct {
	Instrument string
	Run        int
	Flowcell   string
	Lane       int
	Tile       int
	Surface    int
	Swath      int
	Section    int
	TileNumber int
	X          int
	Y          int
	UMI        string

	Read     int
	Filtered bool
	Control  int
	Index    string

	// Valid is false for the sentinel unknown location.
	Valid bool
}

// TileKey identifies one flowcell tile. Only locations with equal keys are
// ever compared.
type TileKey struct {
	Flowcell string
	Lane     int
	Tile     int
}

// Key returns the tile key of l.
func (l *Location) Key() TileKey {
	return TileKey{Flowcell: l.Flowcell, Lane: l.Lane, Tile: l.Tile}
}

// SameTile reports whether both locations are valid and on the same tile.
func (l *Location) SameTile(o *Location) bool {
	return l.Valid && o.Valid && l.Key() == o.Key()
}

func (k TileKey) String() string {
	return fmt.Sprintf("%s:%d:%d", k.Flowcell, k.Lane, k.Tile)
}

func parseError(id, format string, args ...interface{}) error {
	return errors.Wrapf(ErrUnparseableName, "%s: %s", id, fmt.Sprintf(format, args...))
}

// ParseLocation parses an Illumina read name, with or without the leading
// '@' and the space-separated comment. On failure it returns an invalid
// Location and an error wrapping ErrUnparseableName.
func ParseLocation(id string) (Location, error) {
	name := strings.TrimPrefix(id, "@")
	var comment string
	if i := strings.IndexAny(name, " \t"); i >= 0 {
		name, comment = name[:i], strings.TrimSpace(name[i+1:])
	}
	fields := strings.Split(name, ":")

	var (
		loc     Location
		tileIdx int
		err     error
	)
	switch len(fields) {
	case illuminaReadName5Fields:
		tileIdx = 2
		loc.Instrument = fields[0]
		// Strip a trailing #index/read from y.
		y := fields[4]
		if i := strings.IndexByte(y, '#'); i >= 0 {
			suffix := y[i+1:]
			y = y[:i]
			if j := strings.IndexByte(suffix, '/'); j >= 0 {
				if loc.Read, err = strconv.Atoi(suffix[j+1:]); err != nil {
					return Location{}, parseError(id, "could not convert read number to integer: %v", err)
				}
				suffix = suffix[:j]
			}
			loc.Index = suffix
		}
		fields[4] = y
	case illuminaReadName7Fields, illuminaReadName8Fields:
		tileIdx = 4
		loc.Instrument = fields[0]
		if loc.Run, err = strconv.Atoi(fields[1]); err != nil {
			return Location{}, parseError(id, "could not convert run to integer: %v", err)
		}
		loc.Flowcell = fields[2]
		if len(fields) == illuminaReadName8Fields {
			loc.UMI = fields[7]
		}
	default:
		return Location{}, parseError(id, "expected 5, 7, or 8 fields separated by ':', got %d", len(fields))
	}

	if loc.Lane, err = strconv.Atoi(fields[tileIdx-1]); err != nil {
		return Location{}, parseError(id, "could not convert lane to integer: %v", err)
	}
	if loc.Tile, err = strconv.Atoi(fields[tileIdx]); err != nil {
		return Location{}, parseError(id, "could not convert tile to integer: %v", err)
	}
	if loc.X, err = strconv.Atoi(fields[tileIdx+1]); err != nil {
		return Location{}, parseError(id, "could not convert x to integer: %v", err)
	}
	if loc.Y, err = strconv.Atoi(fields[tileIdx+2]); err != nil {
		return Location{}, parseError(id, "could not convert y to integer: %v", err)
	}

	switch {
	case loc.Tile < 0 || loc.Tile > 99999:
		return Location{}, parseError(id, "unexpected tile name %d, expected 4 or 5 digits", loc.Tile)
	case loc.Tile > 9999:
		loc.Surface = loc.Tile / 10000
		loc.Swath = (loc.Tile % 10000) / 1000
		loc.Section = (loc.Tile % 1000) / 100
		loc.TileNumber = loc.Tile % 100
	default:
		loc.Surface = loc.Tile / 1000
		loc.Swath = (loc.Tile % 1000) / 100
		loc.TileNumber = loc.Tile % 100
	}

	if comment != "" {
		parseComment(&loc, comment)
	}
	loc.Valid = true
	return loc, nil
}

// parseComment fills the read, filter, control and index fields from a
// CASAVA 1.8 comment such as "1:N:0:ATCACG". Coordinates do not depend on
// the comment, so malformed comments are ignored.
func parseComment(loc *Location, comment string) {
	if i := strings.IndexAny(comment, " \t"); i >= 0 {
		comment = comment[:i]
	}
	fields := strings.Split(comment, ":")
	if len(fields) != 4 {
		return
	}
	read, err := strconv.Atoi(fields[0])
	if err != nil {
		return
	}
	control, err := strconv.Atoi(fields[2])
	if err != nil {
		return
	}
	switch fields[1] {
	case "Y":
		loc.Filtered = true
	case "N":
		loc.Filtered = false
	default:
		return
	}
	loc.Read = read
	loc.Control = control
	loc.Index = fields[3]
}
