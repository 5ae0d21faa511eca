package stats

// Rows per display page and pages per batch when rendering a dashboard.
const (
	RowsPerPage    = 2
	PagesPerBatch  = 10
	secondsPerHour = 3600
)

// Pages splits rows into chunks of size; the last chunk may be short.
func Pages[T any](rows []T, size int) [][]T {
	if size <= 0 || len(rows) == 0 {
		return nil
	}
	out := make([][]T, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		out = append(out, rows[start:end])
	}
	return out
}

// Batches groups pages the same way Pages groups rows.
func Batches[T any](pages [][]T, size int) [][][]T {
	return Pages(pages, size)
}

// Hours truncates seconds to whole hours.
func Hours(seconds int64) int64 {
	return seconds / secondsPerHour
}
