package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"option_book/internal/book"
)

var (
	optionHeader = []string{"EXPIRY", "STRIKE", "RIGHT", "QTY", "AVG COST", "MKT PRICE", "MKT VALUE", "UNRLZD P&L"}
	stockHeader  = []string{"TICKER", "QTY", "AVG COST", "MKT PRICE", "MKT VALUE", "UNRLZD P&L"}
)

// group is a run of rows sharing the same key, printed once.
type group struct {
	key  string
	rows []book.Row
}

// groupsOf splits a table in display order: expiries ascending for option tables,
// one group per ticker in first-seen order for stock tables.
func groupsOf(t *book.PositionTable) []group {
	if t == nil {
		return nil
	}
	if t.Kind() == book.StockTable {
		rows := t.Rows()
		gs := make([]group, len(rows))
		for i, r := range rows {
			gs[i] = group{key: r.Ticker, rows: []book.Row{r}}
		}
		return gs
	}
	expiries := t.Expiries()
	gs := make([]group, len(expiries))
	for i, e := range expiries {
		gs[i] = group{key: e.String(), rows: t.RowsFor(e)}
	}
	return gs
}

// Render writes the table grouped by expiry.
//
// The expiry is printed on the first row of its group and left blank on the next ones,
// and a separator row is written between two groups. An empty table renders its header only.
func Render(w io.Writer, t *book.PositionTable, opts Options) error {
	if opts.GroupBy != "" && opts.GroupBy != ByExpiry {
		return fmt.Errorf("unsupported grouping %q", opts.GroupBy)
	}
	switch opts.Format {
	case Text, "":
		return renderText(w, cellsOf(t, opts))
	case Markdown:
		return renderMarkdown(w, cellsOf(t, opts))
	case JSON:
		return renderJSON(w, t)
	}
	return fmt.Errorf("unknown format %q", opts.Format)
}

// grid is the table as strings; a nil row is a group separator.
type grid struct {
	header []string
	rows   [][]string
	right  []bool // right-aligned columns
}

func cellsOf(t *book.PositionTable, opts Options) grid {
	cur := opts.currency()
	stocks := t != nil && t.Kind() == book.StockTable
	g := grid{header: optionHeader, right: []bool{false, true, false, true, true, true, true, true}}
	if stocks {
		g = grid{header: stockHeader, right: []bool{false, true, true, true, true, true}}
	}

	for i, grp := range groupsOf(t) {
		if i > 0 && !stocks {
			g.rows = append(g.rows, nil)
		}
		for j, r := range grp.rows {
			key := ""
			if j == 0 {
				key = grp.key
			}
			money := []string{
				formatMoney(r.AvgCost, cur),
				formatMoney(r.MarketPrice, cur),
				formatMoney(r.MarketValue, cur),
				formatSigned(r.UnrealizedPnL, cur),
			}
			if stocks {
				g.rows = append(g.rows, append([]string{key, formatQty(r.Quantity)}, money...))
				continue
			}
			g.rows = append(g.rows, append([]string{key, r.Strike.String(), r.Right.String(), formatQty(r.Quantity)}, money...))
		}
	}
	return g
}

func (g grid) widths() []int {
	ws := make([]int, len(g.header))
	for i, h := range g.header {
		ws[i] = utf8.RuneCountInString(h)
	}
	for _, row := range g.rows {
		for i, c := range row {
			ws[i] = max(ws[i], utf8.RuneCountInString(c))
		}
	}
	return ws
}

func pad(s string, width int, right bool) string {
	fill := strings.Repeat(" ", width-utf8.RuneCountInString(s))
	if right {
		return fill + s
	}
	return s + fill
}

func renderText(w io.Writer, g grid) error {
	ws := g.widths()
	// Header cells stay left aligned so that ParseGroups can find where columns start.
	line := func(cells []string, header bool) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = pad(c, ws[i], g.right[i] && !header)
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	var b strings.Builder
	b.WriteString(line(g.header, true) + "\n")
	for _, row := range g.rows {
		if row == nil {
			sep := make([]string, len(ws))
			for i, width := range ws {
				sep[i] = strings.Repeat("-", width)
			}
			b.WriteString(strings.Join(sep, "  ") + "\n")
			continue
		}
		b.WriteString(line(row, false) + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderMarkdown(w io.Writer, g grid) error {
	var b strings.Builder
	b.WriteString("| " + strings.Join(g.header, " | ") + " |\n")
	align := make([]string, len(g.header))
	for i := range align {
		align[i] = ":---"
		if g.right[i] {
			align[i] = "---:"
		}
	}
	b.WriteString("|" + strings.Join(align, "|") + "|\n")
	for _, row := range g.rows {
		if row == nil {
			b.WriteString("|" + strings.Repeat(" |", len(g.header)) + "\n")
			continue
		}
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

type jsonGroup struct {
	Key  string     `json:"key"`
	Rows []book.Row `json:"rows"`
}

func renderJSON(w io.Writer, t *book.PositionTable) error {
	out := struct {
		Ticker string      `json:"ticker,omitempty"`
		Kind   string      `json:"kind"`
		Groups []jsonGroup `json:"groups"`
	}{Kind: book.OptionTable.String(), Groups: []jsonGroup{}}
	if t != nil {
		out.Ticker = t.Ticker()
		out.Kind = t.Kind().String()
	}
	for _, g := range groupsOf(t) {
		out.Groups = append(out.Groups, jsonGroup{Key: g.key, Rows: g.rows})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
