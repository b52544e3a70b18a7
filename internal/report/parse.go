package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"option_book/internal/models"
)

// ParsedRow is one data row read back from a text rendering of an option table.
type ParsedRow struct {
	Expiry   models.Date
	Strike   string
	Right    models.Right
	Quantity int64
	Rest     []string // money columns as printed
}

// ParseGroups reads a text rendering produced by Render and returns its rows with the expiry of
// the group they belong to. Blank keys inherit the key of the previous row; separator rows close a
// group, so a row after a separator must carry its own key.
func ParseGroups(r io.Reader) ([]ParsedRow, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	header := sc.Text()
	start := strings.Index(header, optionHeader[1])
	if !strings.HasPrefix(header, optionHeader[0]) || start < 0 {
		return nil, fmt.Errorf("not an option table header: %q", header)
	}

	var (
		rows    []ParsedRow
		current models.Date
		open    bool
		lineNo  = 1
	)
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.Trim(line, "- ") == "" {
			open = false
			continue
		}
		if len(line) < start {
			return nil, fmt.Errorf("line %d: truncated row %q", lineNo, line)
		}
		if key := strings.TrimSpace(line[:start]); key != "" {
			d, err := models.ParseDate(key)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			current, open = d, true
		} else if !open {
			return nil, fmt.Errorf("line %d: row without a group key", lineNo)
		}

		fields := strings.Fields(line[start:])
		if len(fields) < 3 {
			return nil, fmt.Errorf("line %d: want strike, right and quantity, got %q", lineNo, fields)
		}
		right, ok := models.ParseRight(fields[1])
		if !ok && fields[1] != models.NoRight.String() {
			return nil, fmt.Errorf("line %d: invalid right %q", lineNo, fields[1])
		}
		qty, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid quantity: %w", lineNo, err)
		}
		rows = append(rows, ParsedRow{
			Expiry:   current,
			Strike:   fields[0],
			Right:    right,
			Quantity: qty,
			Rest:     fields[3:],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
