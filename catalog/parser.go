// Package catalog loads the therapy catalog: the statins and add-on
// therapies a caller may select and the LDL-C reduction factor attached to
// each. The catalog is a tab-separated file; a default copy is embedded in
// the binary.
package catalog

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/giygas/cvdrisk-api/interfaces"
	"github.com/giygas/cvdrisk-api/logging"
	"github.com/giygas/cvdrisk-api/therapy"
)

//go:embed therapies.tsv
var defaultCatalogTSV string

// Compile-time check to ensure FileParser implements CatalogParser
var _ interfaces.CatalogParser = (*FileParser)(nil)

// ParseReport summarises one parse run.
type ParseReport struct {
	TotalLines            int
	Statins               int
	AddOns                int
	SkippedEmptyLines     int
	SkippedComments       int
	SkippedMissingColumns int
	SkippedFormatErrors   int
	SkippedUnknownKinds   int
}

// Skipped returns the number of malformed lines.
func (r ParseReport) Skipped() int {
	return r.SkippedMissingColumns + r.SkippedFormatErrors + r.SkippedUnknownKinds
}

// FileParser reads the catalog from a file, or from the embedded default
// when path is empty.
type FileParser struct {
	path string
}

// NewFileParser creates a parser for the catalog at path.
func NewFileParser(path string) *FileParser {
	return &FileParser{path: path}
}

// Source describes where the catalog is read from.
func (p *FileParser) Source() string {
	if p.path == "" {
		return "embedded"
	}
	return p.path
}

// ParseCatalog implements the CatalogParser interface
func (p *FileParser) ParseCatalog() (*therapy.Catalog, error) {
	var r io.Reader
	if p.path == "" {
		r = strings.NewReader(defaultCatalogTSV)
	} else {
		f, err := os.Open(p.path)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog %s: %w", p.path, err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logging.Warn("Failed to close catalog file", "path", p.path, "error", err)
			}
		}()
		r = f
	}

	c, report, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", p.Source(), err)
	}

	logging.Info("Catalog parsed",
		"source", p.Source(),
		"total_lines", report.TotalLines,
		"statins", report.Statins,
		"add_ons", report.AddOns,
		"empty_lines", report.SkippedEmptyLines,
		"comments", report.SkippedComments,
		"missing_columns", report.SkippedMissingColumns,
		"format_errors", report.SkippedFormatErrors,
		"unknown_kinds", report.SkippedUnknownKinds,
	)
	if report.Skipped() > 0 {
		logging.Warn("Catalog lines skipped", "source", p.Source(), "count", report.Skipped())
	}

	return c, nil
}

// Parse reads catalog lines from r. Malformed lines are counted in the
// report and skipped; the catalog itself must still validate.
func Parse(r io.Reader) (*therapy.Catalog, ParseReport, error) {
	var (
		report  ParseReport
		statins []therapy.StatinEntry
		addOns  []therapy.AddOnEntry
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		report.TotalLines++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(line) == "" {
			report.SkippedEmptyLines++
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			report.SkippedComments++
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 4 {
			report.SkippedMissingColumns++
			continue
		}

		id := strings.TrimSpace(fields[1])
		name := strings.TrimSpace(fields[2])
		if id == "" || name == "" {
			report.SkippedFormatErrors++
			continue
		}

		factor, hasFactor, err := parseFactor(fields[3])
		if err != nil {
			report.SkippedFormatErrors++
			continue
		}

		var aliases []string
		if len(fields) > 4 {
			aliases = parseAliases(fields[4])
		}

		switch strings.ToLower(strings.TrimSpace(fields[0])) {
		case "statin":
			if !hasFactor {
				report.SkippedFormatErrors++
				continue
			}
			statins = append(statins, therapy.StatinEntry{
				ID:              therapy.StatinID(id),
				Name:            name,
				ReductionFactor: factor,
				Aliases:         aliases,
			})
			report.Statins++
		case "addon":
			entry := therapy.AddOnEntry{ID: id, Name: name, Aliases: aliases}
			if hasFactor {
				f := factor
				entry.ReductionFactor = &f
			}
			addOns = append(addOns, entry)
			report.AddOns++
		default:
			report.SkippedUnknownKinds++
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, report, fmt.Errorf("failed to read catalog: %w", err)
	}

	c, err := therapy.NewCatalog(statins, addOns)
	if err != nil {
		return nil, report, err
	}
	return c, report, nil
}

func parseFactor(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid reduction factor %q: %w", s, err)
	}
	return f, true, nil
}

func parseAliases(s string) []string {
	var out []string
	for _, a := range strings.Split(s, "|") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
