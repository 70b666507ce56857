package nutrition

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"cafepick/menuworker/internal/model"
)

// FromPairs maps label/value pairs to canonical fields via the keyword
// table. Pairs beyond the shorter slice are ignored. Returns nil when
// nothing was recognized.
func FromPairs(labels, values []string) *model.Nutritions {
	n := &model.Nutritions{}
	for i, label := range labels {
		if i >= len(values) {
			break
		}
		ApplyLabeled(n, label, values[i])
	}
	return n.OrNil()
}

// FromTable zips one header row and one data row by column index and
// applies the label mapping. Units come from the header parentheses,
// e.g. "나트륨(mg)".
func FromTable(headers, cells []string) *model.Nutritions {
	return FromPairs(headers, cells)
}

// BestRowIndex scores every candidate row by counting how many of its
// cells parse as a finite number once the leading run of non-numeric
// "category" cells is skipped, and returns the index of the best row.
// Ties go to the first row encountered, so the choice is deterministic.
// Returns -1 for an empty slice.
func BestRowIndex(rows [][]string) int {
	best := -1
	bestScore := -1
	for i, row := range rows {
		score := rowScore(row)
		if score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best
}

func rowScore(row []string) int {
	start := 0
	for start < len(row) {
		if _, ok := ParseValue(row[start]); ok {
			break
		}
		start++
	}
	score := 0
	for _, cell := range row[start:] {
		if _, ok := ParseValue(cell); ok {
			score++
		}
	}
	return score
}

// FromBestRow picks the highest-scoring data row (size variants often
// produce several) and zips it against the headers.
func FromBestRow(headers []string, rows [][]string) *model.Nutritions {
	i := BestRowIndex(rows)
	if i < 0 {
		return nil
	}
	row := rows[i]
	// Leading category cells shift the numeric columns right of the
	// headers; align the tail of the row with the tail of the headers.
	if len(row) > len(headers) {
		row = row[len(row)-len(headers):]
	}
	return FromTable(headers, row)
}

// FromHTMLTable reads an HTML-like nutrition table scoped by the given
// selection: the header row from th cells (or the first row), every
// following row as a data candidate, best row wins.
func FromHTMLTable(table *goquery.Selection) *model.Nutritions {
	if table.Length() == 0 {
		return nil
	}

	var headers []string
	headerRow := table.Find("thead tr, tr").First()
	headerRow.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(cell.Text()))
	})
	if len(headers) == 0 {
		return nil
	}

	var rows [][]string
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return
		}
		var cells []string
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	if len(rows) == 0 {
		return nil
	}

	return FromBestRow(headers, rows)
}

// FromDefinitionList iterates label/value element pairs inside the
// selection, e.g. <dt>나트륨(mg)</dt><dd>120</dd>.
func FromDefinitionList(root *goquery.Selection, labelSelector, valueSelector string) *model.Nutritions {
	var labels, values []string
	root.Find(labelSelector).Each(func(_ int, s *goquery.Selection) {
		labels = append(labels, strings.TrimSpace(s.Text()))
	})
	root.Find(valueSelector).Each(func(_ int, s *goquery.Selection) {
		values = append(values, strings.TrimSpace(s.Text()))
	})
	return FromPairs(labels, values)
}
