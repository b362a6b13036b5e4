package gazetteer

import (
	"archive/zip"
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/klauspost/compress/zstd"
)

// Column positions in a geonames dump row.
const (
	colID             = 0
	colName           = 1
	colASCIIName      = 2
	colAlternateNames = 3
	colLatitude       = 4
	colLongitude      = 5
	colPopulation     = 14
	colTimezone       = 17

	minFields = 18
)

// maxLineSize bounds a single row. Alternate name lists for large cities run
// well past 64KB; rows longer than this are skipped like any other bad row.
const maxLineSize = 4 << 20

// LoadFile opens path, parses it and builds a Gazetteer. Plain TSV, .gz, .bz2,
// .zst and .zip (the layout geonames publishes) are accepted.
func LoadFile(path string, opts ...Option) (*Gazetteer, error) {
	r, cleanup, err := openDataset(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer cleanup()

	return load(path, r, opts)
}

// Load parses r and builds a Gazetteer. The caller owns r.
func Load(r io.Reader, opts ...Option) (*Gazetteer, error) {
	return load("reader", r, opts)
}

func load(source string, r io.Reader, opts []Option) (*Gazetteer, error) {
	start := time.Now()
	records, err := ParseRecords(r)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	g := New(records, opts...)
	g.config.Logger.Info().
		Str("source", source).
		Int("records", g.Len()).
		Dur("duration", time.Since(start)).
		Msg("gazetteer loaded")
	return g, nil
}

// ParseRecords reads tab-separated rows from r in order. Rows with fewer than
// 18 fields or longer than maxLineSize are skipped; unparseable numbers
// become 0. Only a read failure on r itself is returned as an error.
func ParseRecords(r io.Reader) ([]CityRecord, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	var (
		records []CityRecord
		line    []byte
		tooLong bool
	)
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > maxLineSize {
				line, tooLong = line[:0], true
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading rows: %w", err)
		}

		if !tooLong && len(line) > 0 {
			if c, ok := parseLine(string(line)); ok {
				records = append(records, c)
			}
		}
		line, tooLong = line[:0], false

		if err != nil {
			return records, nil
		}
	}
}

// parseLine maps one row onto a CityRecord, reporting false for rows that do
// not carry enough columns.
func parseLine(line string) (CityRecord, bool) {
	fields := strings.Split(strings.TrimRightFunc(line, unicode.IsSpace), "\t")
	if len(fields) < minFields {
		return CityRecord{}, false
	}

	lat, _ := strconv.ParseFloat(strings.TrimSpace(fields[colLatitude]), 64)
	lng, _ := strconv.ParseFloat(strings.TrimSpace(fields[colLongitude]), 64)
	pop, _ := strconv.ParseInt(strings.TrimSpace(fields[colPopulation]), 10, 64)
	if pop < 0 {
		pop = 0
	}

	return CityRecord{
		ID:             strings.TrimSpace(fields[colID]),
		Name:           fields[colName],
		ASCIIName:      fields[colASCIIName],
		AlternateNames: splitAlternateNames(fields[colAlternateNames]),
		Latitude:       lat,
		Longitude:      lng,
		Population:     pop,
		Timezone:       strings.TrimSpace(fields[colTimezone]),
		Geohash:        geohash.Encode(lat, lng),
	}, true
}

// splitAlternateNames splits the comma-joined alias column, trimming each
// alias and dropping empty ones. Alias order is preserved.
func splitAlternateNames(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// openDataset returns a reader over the decompressed rows of path and a
// cleanup func that releases every handle opened along the way.
func openDataset(path string) (io.Reader, func() error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return openZipDataset(path)
	case ".gz":
		fh, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		gz, err := gzip.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		return gz, func() error {
			return errors.Join(gz.Close(), fh.Close())
		}, nil
	case ".bz2":
		fh, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return bzip2.NewReader(fh), fh.Close, nil
	case ".zst":
		fh, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		dec, err := zstd.NewReader(fh, zstd.WithDecoderConcurrency(1))
		if err != nil {
			fh.Close()
			return nil, nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		return dec, func() error {
			dec.Close()
			return fh.Close()
		}, nil
	default:
		fh, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return fh, fh.Close, nil
	}
}

// openZipDataset picks the rows file out of a geonames archive: the entry
// named after the archive (RU.zip -> RU.txt) if present, otherwise the first
// .txt entry that is not the readme.
func openZipDataset(path string) (io.Reader, func() error, error) {
	rz, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening zip file: %w", err)
	}

	want := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".txt"
	var pick *zip.File
	for _, f := range rz.File {
		base := filepath.Base(f.Name)
		if strings.EqualFold(base, want) {
			pick = f
			break
		}
		if pick == nil && strings.EqualFold(filepath.Ext(base), ".txt") && !strings.EqualFold(base, "readme.txt") {
			pick = f
		}
	}
	if pick == nil {
		rz.Close()
		return nil, nil, fmt.Errorf("no dataset entry in %s", path)
	}

	fi, err := pick.Open()
	if err != nil {
		rz.Close()
		return nil, nil, fmt.Errorf("opening file in zip: %w", err)
	}
	return fi, func() error {
		return errors.Join(fi.Close(), rz.Close())
	}, nil
}
