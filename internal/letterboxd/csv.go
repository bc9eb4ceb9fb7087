package letterboxd

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/reelwrapped/reelwrapped-server/internal/domain"
)

// Export CSV column headers. All export files share Date/Name/Year;
// diary and reviews add Rewatch and Watched Date, watchlist has neither.
const (
	colDate        = "Date"
	colName        = "Name"
	colYear        = "Year"
	colRating      = "Rating"
	colRewatch     = "Rewatch"
	colWatchedDate = "Watched Date"
)

const dateLayout = "2006-01-02"

func parseFile(path string) ([]domain.FilmEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseEntries(f)
}

// parseEntries reads one export CSV into film entries. Columns are
// located by header name, so files with extra columns (reviews, tags)
// or a different column order parse the same. Rows without a film name
// are skipped; a malformed year, rating, or date degrades that field to
// its zero value instead of rejecting the row.
func parseEntries(r io.Reader) ([]domain.FilmEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var entries []domain.FilmEntry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		title := field(record, cols, colName)
		if title == "" {
			continue
		}

		entry := domain.FilmEntry{
			Title:   title,
			Year:    parseYear(field(record, cols, colYear)),
			Rating:  parseRating(field(record, cols, colRating)),
			Rewatch: field(record, cols, colRewatch) == "Yes",
		}

		// Diary rows carry the actual watch date; ratings rows only have
		// the date the rating was logged. Use whichever is present.
		watched := field(record, cols, colWatchedDate)
		if watched == "" {
			watched = field(record, cols, colDate)
		}
		entry.WatchedDate = parseDate(watched)

		entries = append(entries, entry)
	}

	return entries, nil
}

func field(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func parseYear(s string) int {
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return year
}

func parseRating(s string) *float64 {
	if s == "" {
		return nil
	}
	rating, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &rating
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
