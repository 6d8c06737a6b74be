package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"Nanopore-HMM-Basecaller/basecaller/common"
)

func splitFields(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == '\t' || r == ' ' || r == ','
	})
}

// ReadModel reads a pore model table from a file.
func ReadModel(filePath string) ([]common.Record, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	records, err := ParseModel(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return records, nil
}

// ParseModel parses "kmer mean stdev [...]" rows. Blank lines, '#' comments
// and a leading header row are skipped; further columns are ignored.
func ParseModel(r io.Reader) ([]common.Record, error) {
	var records []common.Record
	sc := bufio.NewScanner(r)
	lineNo, seenData := 0, false
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := splitFields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("%w: line %d: want kmer, mean and stdev, got %d fields", common.ErrMalformedModel, lineNo, len(fields))
		}
		mean, errMean := strconv.ParseFloat(fields[1], 64)
		stdev, errStdev := strconv.ParseFloat(fields[2], 64)
		if errMean != nil || errStdev != nil {
			if !seenData { // header row
				seenData = true
				continue
			}
			return nil, fmt.Errorf("%w: line %d: bad mean/stdev %q %q", common.ErrMalformedModel, lineNo, fields[1], fields[2])
		}
		seenData = true
		records = append(records, common.Record{Kmer: strings.ToUpper(fields[0]), Mean: mean, Stdev: stdev})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: model table is empty", common.ErrMalformedModel)
	}
	return records, nil
}

// ReadEvents reads one read's event table; the read ID is the file name
// without its extension.
func ReadEvents(filePath string) (common.Read, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return common.Read{}, err
	}
	defer f.Close()
	events, err := ParseEvents(f)
	if err != nil {
		return common.Read{}, fmt.Errorf("%s: %w", filePath, err)
	}
	base := filepath.Base(filePath)
	return common.Read{ID: strings.TrimSuffix(base, filepath.Ext(base)), Events: events}, nil
}

// ParseEvents takes the first column of each row as an event level. A
// non-numeric first row is treated as a header.
func ParseEvents(r io.Reader) ([]float64, error) {
	var events []float64
	sc := bufio.NewScanner(r)
	lineNo, seenData := 0, false
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := splitFields(line)
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			if !seenData {
				seenData = true
				continue
			}
			return nil, fmt.Errorf("line %d: bad event level %q: %w", lineNo, fields[0], err)
		}
		seenData = true
		events = append(events, v)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
