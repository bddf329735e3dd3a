package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ReceiptLine is one purchased product recognised on a grocery receipt.
type ReceiptLine struct {
	Name      string  `json:"name"`
	Count     float64 `json:"count"`      // units bought (e.g. 2 packs)
	PackSize  float64 `json:"pack_size"`  // size of one unit (e.g. 500)
	Unit      string  `json:"unit"`       // normalized unit (g, ml, pc, ...)
	LineTotal float64 `json:"line_total"` // price for the whole line, 0 when unreadable
}

type Receipt struct {
	Store string        `json:"store"`
	Lines []ReceiptLine `json:"lines"`
}

var storeMarkers = map[string][]string{
	"zepto":     {"zepto"},
	"blinkit":   {"blinkit", "grofers"},
	"swiggy":    {"swiggy", "instamart"},
	"bigbasket": {"bigbasket"},
}

// base-unit conversion table; everything collapses onto g, ml or pc.
var unitScale = map[string]struct {
	factor float64
	base   string
}{
	"g":   {1, "g"},
	"kg":  {1000, "g"},
	"ml":  {1, "ml"},
	"l":   {1000, "ml"},
	"pc":  {1, "pc"},
	"pcs": {1, "pc"},
}

var (
	reParenSize  = regexp.MustCompile(`\((\d+(?:\.\d+)?)\s*(g|kg|ml|l|pc|pcs)\)`)
	reInlineSize = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(g|kg|ml|l|pc|pcs|pack|set|bundle)\b`)
	reSizeNoise  = regexp.MustCompile(`(?i)(\(\s*\d*\.?\d*\s*(g|kg|ml|l|pc|pcs)\s*\))|(\d+\.?\d*\s*(g|kg|ml|l|pcs|pc|pack|set|bundle)\b)|(\b\d{4,}\b)`)
	reSqueeze    = regexp.MustCompile(`\s+`)
	reCamelSplit = regexp.MustCompile(`([a-z])([A-Z])`)
)

// parsePackSize pulls the pack size out of a product name, normalized to
// base units. Parenthetical sizes win over inline ones; names with no
// recognisable size count as a single piece.
func parsePackSize(name string) (float64, string) {
	lower := strings.ToLower(name)

	for _, re := range []*regexp.Regexp{reParenSize, reInlineSize} {
		m := re.FindStringSubmatch(lower)
		if len(m) < 3 {
			continue
		}
		val, err := strconv.ParseFloat(m[1], 64)
		if err != nil || val <= 0 {
			continue
		}
		if sc, ok := unitScale[m[2]]; ok {
			return val * sc.factor, sc.base
		}
		return val, m[2]
	}
	return 1, "pc"
}

func cleanLineName(raw string) string {
	name := reSizeNoise.ReplaceAllString(raw, "")
	name = strings.ReplaceAll(name, ".", " ")
	name = reCamelSplit.ReplaceAllString(name, "$1 $2")
	name = reSqueeze.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// ParseReceipt reads a grocery receipt PDF and returns the purchased
// lines it could recognise. Layouts differ per store, so the parser
// works off the Description/Qty column positions rather than fixed
// offsets, and silently skips lines it cannot make sense of.
func ParseReceipt(path string) (*Receipt, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	receipt := &Receipt{Store: "unknown"}

	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		texts := p.Content().Text

		if receipt.Store == "unknown" {
			receipt.Store = detectStore(texts)
		}

		rows := groupIntoRows(texts)
		nameX, qtyX := locateColumns(rows)
		if nameX == 0 || qtyX == 0 {
			continue
		}
		receipt.Lines = append(receipt.Lines, extractLines(rows, nameX, qtyX)...)
	}

	return receipt, nil
}

func detectStore(texts []pdf.Text) string {
	var b strings.Builder
	for _, t := range texts {
		b.WriteString(strings.ToLower(t.S))
	}
	page := b.String()
	for store, markers := range storeMarkers {
		for _, m := range markers {
			if strings.Contains(page, m) {
				return store
			}
		}
	}
	return "unknown"
}

type textRow struct {
	y        float64
	contents []string
	xCoords  []float64
}

// groupIntoRows buckets page fragments into visual rows. PDF text often
// arrives character by character, so fragments within a small vertical
// tolerance belong to the same row.
func groupIntoRows(texts []pdf.Text) []textRow {
	const tolerance = 2.0
	var rows []textRow

	for _, t := range texts {
		content := strings.TrimSpace(t.S)
		if content == "" {
			continue
		}
		placed := false
		for i := range rows {
			if abs(rows[i].y-t.Y) < tolerance {
				rows[i].contents = append(rows[i].contents, content)
				rows[i].xCoords = append(rows[i].xCoords, t.X)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, textRow{y: t.Y, contents: []string{content}, xCoords: []float64{t.X}})
		}
	}
	return rows
}

// locateColumns finds the X positions of the product-name and quantity
// headers. Some stores split the header over two rows, so each column is
// searched independently.
func locateColumns(rows []textRow) (nameX, qtyX float64) {
	for _, row := range rows {
		flat := strings.ReplaceAll(strings.ToLower(strings.Join(row.contents, " ")), " ", "")

		if nameX == 0 && (strings.Contains(flat, "description") || strings.Contains(flat, "item")) {
			nameX = row.xCoords[0]
		}
		if qtyX == 0 && (strings.Contains(flat, "qty") || strings.Contains(flat, "quantity")) {
			for i, c := range row.contents {
				if strings.HasPrefix(strings.ToLower(c), "q") {
					qtyX = row.xCoords[i]
					break
				}
			}
			if qtyX == 0 {
				qtyX = row.xCoords[len(row.xCoords)-1]
			}
		}
	}
	return nameX, qtyX
}

func extractLines(rows []textRow, nameX, qtyX float64) []ReceiptLine {
	var (
		lines      []ReceiptLine
		block      []textRow
		pastHeader bool
	)

	flush := func() {
		if len(block) == 0 {
			return
		}
		if line := lineFromBlock(block, nameX, qtyX); line != nil {
			lines = append(lines, *line)
		}
		block = nil
	}

	for _, row := range rows {
		flat := strings.ReplaceAll(strings.ToLower(strings.Join(row.contents, " ")), " ", "")

		headerRow := (strings.Contains(flat, "description") && strings.Contains(flat, "qty")) ||
			(strings.Contains(flat, "description") && strings.Contains(flat, "mrp")) ||
			(strings.Contains(flat, "hsn") && strings.Contains(flat, "qty"))
		if headerRow {
			pastHeader = true
			continue
		}
		if !pastHeader {
			continue
		}

		if strings.Contains(flat, "total") || strings.Contains(flat, "subtotal") {
			flush()
			break
		}
		if startsNewLine(row) {
			flush()
		}
		block = append(block, row)
	}
	flush()

	return lines
}

// A bare small integer in the first cell is the receipt's running item
// number and marks the start of the next product block.
func startsNewLine(row textRow) bool {
	if len(row.contents) == 0 {
		return false
	}
	n, err := strconv.Atoi(strings.TrimSpace(row.contents[0]))
	return err == nil && n > 0 && n < 100
}

func lineFromBlock(block []textRow, nameX, qtyX float64) *ReceiptLine {
	var nameParts []string
	var count float64

	for _, row := range block {
		for i, content := range row.contents {
			x := row.xCoords[i]
			switch {
			case x >= nameX-5 && x < qtyX-10:
				clean := strings.TrimSpace(content)
				if clean == "" || strings.ContainsAny(clean, "%+₹") {
					continue
				}
				if _, err := strconv.ParseFloat(clean, 64); err == nil {
					continue
				}
				nameParts = append(nameParts, clean)
			case x >= qtyX-5 && x < qtyX+15:
				q, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(content), ",", ""), 64)
				if err == nil && q > 0 && q < 100 {
					count = q
				}
			}
		}
	}

	if len(nameParts) == 0 || count == 0 {
		return nil
	}

	full := strings.Join(nameParts, " ")
	size, unit := parsePackSize(full)
	name := cleanLineName(full)
	if len(name) <= 2 || len(name) >= 200 {
		return nil
	}

	return &ReceiptLine{
		Name:     name,
		Count:    count,
		PackSize: size,
		Unit:     unit,
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
