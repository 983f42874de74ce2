// Package scraper turns the externally fetched markdown listing of
// internship postings into previously unseen job candidates, each with a
// stable content-addressed identity.
package scraper

import (
	"fmt"
	"regexp"
	"strings"
)

// Expected positional column names of the listing table. A source document
// that reorders these columns fails ingestion rather than being misparsed.
var expectedColumns = []string{"company", "role", "location"}

// headerMarker is the literal header fragment that starts the table.
const headerMarker = "| Company | Role | Location |"

var (
	markdownLinkRe = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	hrefRe         = regexp.MustCompile(`href="(.*?)"`)
	parenLinkRe    = regexp.MustCompile(`\((.*?)\)`)
)

// Row is one structured candidate record parsed from the listing table.
type Row struct {
	Company    string
	Role       string
	Location   string
	URL        string
	DatePosted string // empty when the source row carried no date
}

// UnrecognizedSchemaError indicates the document carries a table but never
// the recognized Company/Role/Location header. The whole ingestion fails
// rather than silently misattributing fields.
type UnrecognizedSchemaError struct {
	Columns []string
}

func (e *UnrecognizedSchemaError) Error() string {
	return fmt.Sprintf("unrecognized listing schema: expected columns %v, found %v",
		expectedColumns, e.Columns)
}

// ParseTable scans the markdown document for the job listing table and
// returns its parsed rows.
//
// The scan keeps a single "inside table" flag: it is set when the
// recognized header row appears and never resets, trusting row-level
// validation to reject non-row lines instead of trying to detect the table
// end. Rows with fewer than three cells, or with no resolvable application
// URL, are silently dropped; a heterogeneous document is expected to
// contain such lines and they carry no information.
func ParseTable(markdown string) ([]Row, error) {
	lines := strings.Split(markdown, "\n")

	inTable := false
	var rows []Row
	var strayHeader []string

	for i, line := range lines {
		if strings.Contains(line, headerMarker) {
			inTable = true
			continue
		}
		if strings.Contains(line, "| --- |") {
			continue
		}
		if !inTable {
			// Remember the first table header we did not recognize. It only
			// becomes an error if the recognized header never appears: a
			// document may legitimately carry unrelated tables above the
			// listing, but a lone reshaped table means the source changed
			// under us and must not be misparsed.
			if cols, ok := unexpectedHeader(lines, i); ok && strayHeader == nil {
				strayHeader = cols
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		if row, ok := parseRow(line); ok {
			rows = append(rows, row)
		}
	}

	if !inTable && strayHeader != nil {
		return nil, &UnrecognizedSchemaError{Columns: strayHeader}
	}
	return rows, nil
}

// parseRow splits one table line into a candidate row. The second return
// value is false for lines that are not valid job rows.
func parseRow(line string) (Row, bool) {
	cols := splitCells(line)
	if len(cols) < 3 {
		return Row{}, false
	}

	company := cols[0]
	role := cols[1]
	location := cols[2]

	// The company cell usually embeds a markdown link; the display text is
	// the company name.
	if m := markdownLinkRe.FindStringSubmatch(company); m != nil {
		company = m[1]
	}

	var link string
	if len(cols) > 3 {
		link = extractLink(cols[3])
	}
	if link == "" {
		// No resolvable application URL: the row is not information.
		return Row{}, false
	}

	row := Row{
		Company:  company,
		Role:     role,
		Location: location,
		URL:      link,
	}
	if len(cols) > 4 {
		row.DatePosted = cols[4]
	}
	return row, true
}

// splitCells splits a pipe-delimited line into trimmed, non-empty cells,
// dropping the boundary segments before the first and after the last pipe.
func splitCells(line string) []string {
	parts := strings.Split(line, "|")
	cells := make([]string, 0, len(parts))
	for _, part := range parts {
		cell := strings.TrimSpace(part)
		if cell != "" {
			cells = append(cells, cell)
		}
	}
	return cells
}

// extractLink resolves the application URL from the link cell. The cell may
// contain an HTML href attribute, a markdown-style (url), or a bare URL.
func extractLink(cell string) string {
	if m := hrefRe.FindStringSubmatch(cell); m != nil {
		return m[1]
	}
	if m := parenLinkRe.FindStringSubmatch(cell); m != nil {
		return m[1]
	}
	if strings.HasPrefix(cell, "http") {
		return cell
	}
	return ""
}

// unexpectedHeader reports whether lines[i] looks like a table header row
// (a pipe row immediately followed by a dash separator) that is not the
// recognized listing header. Returns its column names when so.
func unexpectedHeader(lines []string, i int) ([]string, bool) {
	line := lines[i]
	if !strings.Contains(line, "|") {
		return nil, false
	}
	if i+1 >= len(lines) {
		return nil, false
	}
	next := strings.TrimSpace(lines[i+1])
	if !strings.HasPrefix(next, "|") || !strings.Contains(next, "---") {
		return nil, false
	}
	cols := splitCells(line)
	if len(cols) < 3 {
		return nil, false
	}
	return cols, true
}
