package workbook

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"mealplan-backend/internal/catalog"
	"mealplan-backend/internal/compliance"
	"mealplan-backend/internal/residents"
)

// MenuSheet is the preferred sheet name of a menu catalog workbook.
const MenuSheet = "category"

// Menu catalog headers.
const (
	colCategory = "Category"
	colMenu     = "Menu"
	colDisease  = "Disease"
)

// Resident table headers. 신장 is height; 신장질환 is the kidney flag.
const (
	colResidentID   = "수급자ID"
	colDysphagia    = "연하곤란"
	colHypertension = "고혈압"
	colKidney       = "신장질환"
	colDiabetes     = "당뇨"
	colSex          = "성별"
	colAge          = "나이"
	colWeight       = "체중"
	colHeight       = "신장"
	colActivity     = "활동정도"
	colRice         = "밥"
	colSide         = "반찬"
)

// ReadMenu loads the menu catalog from the "category" sheet, or the first
// sheet when it is absent. Rows outside the six plan categories are dropped
// and sheet order is preserved.
func ReadMenu(r io.Reader) (catalog.Catalog, error) {
	rows, err := readRows(r, MenuSheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return catalog.Catalog{}, nil
	}
	h := newHeader(rows[0])
	for _, col := range []string{colCategory, colMenu, colDisease} {
		if _, ok := h.index(col); !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	out := make(catalog.Catalog, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		entry := catalog.Entry{
			Category: catalog.Category(h.cell(row, colCategory)),
			Menu:     h.cell(row, colMenu),
			Disease:  h.cell(row, colDisease),
		}
		if entry.Category == "" && entry.Menu == "" {
			continue
		}
		if !catalog.IsRequired(entry.Category) {
			continue
		}
		for _, c := range catalog.Columns {
			raw, ok := h.nutrientCell(row, c.Nutrient)
			if !ok {
				continue
			}
			v, err := parseAmount(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d %s: %v", ErrInvalidCell, line, c.Header, err)
			}
			entry.Nutrients.Set(c.Nutrient, v)
		}
		out = append(out, entry)
	}
	return out, nil
}

// ReadResidents loads the resident table from the first sheet. Rows without
// an identifier are skipped; body metrics are kept as entered.
func ReadResidents(r io.Reader) ([]residents.Resident, error) {
	rows, err := readRows(r, "")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []residents.Resident{}, nil
	}
	h := newHeader(rows[0])
	if _, ok := h.index(colResidentID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, colResidentID)
	}

	out := make([]residents.Resident, 0, len(rows)-1)
	for _, row := range rows[1:] {
		id := h.cell(row, colResidentID)
		if id == "" {
			continue
		}
		out = append(out, residents.Resident{
			ID: id,
			Flags: residents.Flags{
				Dysphagia:    parseFlag(h.cell(row, colDysphagia)),
				Hypertension: parseFlag(h.cell(row, colHypertension)),
				Kidney:       parseFlag(h.cell(row, colKidney)),
				Diabetes:     parseFlag(h.cell(row, colDiabetes)),
			},
			Body: residents.Body{
				Sex:      h.cell(row, colSex),
				Age:      h.cell(row, colAge),
				WeightKg: h.cell(row, colWeight),
				HeightCm: h.cell(row, colHeight),
				Activity: h.cell(row, colActivity),
			},
			RiceType: h.cell(row, colRice),
			SideType: h.cell(row, colSide),
		})
	}
	return out, nil
}

// ReadStandards loads the nutrient standard table from the first sheet. The
// layout is detected from the data: nutrient names across the header row
// give one disease set per row, nutrient names down the first column give
// one disease set per column. A sheet with neither is missing its nutrient
// column.
func ReadStandards(r io.Reader) (compliance.Table, error) {
	rows, err := readRows(r, "")
	if err != nil {
		return nil, err
	}
	table := compliance.Table{}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return table, nil
	}

	across, down := nutrientHeaders(rows)
	switch {
	case across == 0 && down == 0:
		return nil, fmt.Errorf("%w: nutrient", ErrMissingColumn)
	case down > across:
		return readTransposed(rows, table), nil
	}

	nutrients := make(map[int]catalog.Nutrient)
	for i, head := range rows[0][1:] {
		if n, ok := catalog.ParseNutrient(head); ok {
			nutrients[i+1] = n
		}
	}
	for _, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		rules := compliance.Rules{}
		for idx, n := range nutrients {
			if idx < len(row) {
				if text := strings.TrimSpace(row[idx]); text != "" {
					rules[n] = text
				}
			}
		}
		table.Add(row[0], rules)
	}
	return table, nil
}

// nutrientHeaders counts nutrient names in the header row and in the first
// column, the corner cell excluded.
func nutrientHeaders(rows [][]string) (across, down int) {
	for _, head := range rows[0][1:] {
		if _, ok := catalog.ParseNutrient(head); ok {
			across++
		}
	}
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		if _, ok := catalog.ParseNutrient(row[0]); ok {
			down++
		}
	}
	return across, down
}

func readTransposed(rows [][]string, table compliance.Table) compliance.Table {
	header := rows[0]
	byKey := make(map[int]compliance.Rules)
	for col := 1; col < len(header); col++ {
		if strings.TrimSpace(header[col]) != "" {
			byKey[col] = compliance.Rules{}
		}
	}
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		n, ok := catalog.ParseNutrient(row[0])
		if !ok {
			continue
		}
		for col, rules := range byKey {
			if col < len(row) {
				if text := strings.TrimSpace(row[col]); text != "" {
					rules[n] = text
				}
			}
		}
	}
	for col := 1; col < len(header); col++ {
		if rules, ok := byKey[col]; ok {
			table.Add(header[col], rules)
		}
	}
	return table
}

func readRows(r io.Reader, preferred string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrSheetNotFound
	}
	sheet := sheets[0]
	if preferred != "" && slices.Contains(sheets, preferred) {
		sheet = preferred
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return rows, nil
}

type header struct {
	cols      map[string]int
	nutrients map[catalog.Nutrient]int
}

func newHeader(row []string) header {
	h := header{cols: make(map[string]int, len(row)), nutrients: make(map[catalog.Nutrient]int)}
	for i, name := range row {
		name = strings.TrimSpace(name)
		if _, dup := h.cols[name]; !dup {
			h.cols[name] = i
		}
		if n, ok := catalog.ParseNutrient(name); ok {
			if _, dup := h.nutrients[n]; !dup {
				h.nutrients[n] = i
			}
		}
	}
	return h
}

func (h header) index(name string) (int, bool) {
	i, ok := h.cols[name]
	return i, ok
}

func (h header) cell(row []string, name string) string {
	i, ok := h.cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (h header) nutrientCell(row []string, n catalog.Nutrient) (string, bool) {
	i, ok := h.nutrients[n]
	if !ok {
		return "", false
	}
	if i >= len(row) {
		return "", true
	}
	return strings.TrimSpace(row[i]), true
}

func parseAmount(raw string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" || s == "-" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative amount %v", v)
	}
	return v, nil
}

func parseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "1.0", "y", "yes", "true", "o", "○", "예":
		return true
	default:
		return false
	}
}
