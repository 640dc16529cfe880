// Package workbooktest builds small input workbooks for tests.
package workbooktest

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"mealplan-backend/internal/catalog"
)

// Build writes rows into a single-sheet workbook named sheet.
func Build(sheet string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("set row %d: %w", i+1, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MenuHeader is the header row of a menu catalog sheet.
func MenuHeader() []any {
	head := []any{"Category", "Menu", "Disease"}
	for _, c := range catalog.Columns {
		head = append(head, c.Header)
	}
	return head
}

// MenuRow is one catalog row. Nutrients other than energy and the three
// macronutrients get small fixed values.
func MenuRow(cat catalog.Category, menu, disease string, energy, carb, protein, fat float64) []any {
	row := []any{string(cat), menu, disease}
	for _, c := range catalog.Columns {
		switch c.Nutrient {
		case catalog.Energy:
			row = append(row, energy)
		case catalog.Carbohydrate:
			row = append(row, carb)
		case catalog.Protein:
			row = append(row, protein)
		case catalog.Fat:
			row = append(row, fat)
		case catalog.Weight:
			row = append(row, 100)
		case catalog.Sodium:
			row = append(row, 150)
		default:
			row = append(row, 1)
		}
	}
	return row
}

// MenuRows is a catalog covering diabetes and hypertension with one row per
// plan category each.
func MenuRows() [][]any {
	return [][]any{
		MenuHeader(),
		MenuRow(catalog.Rice, "잡곡밥", "당뇨", 300, 65, 6, 1),
		MenuRow(catalog.Soup, "미역국", "당뇨", 40, 3, 3, 2),
		MenuRow(catalog.Main, "고등어구이", "당뇨", 180, 1, 18, 11),
		MenuRow(catalog.Side1, "시금치나물", "당뇨", 30, 4, 2, 1),
		MenuRow(catalog.Side2, "두부조림", "당뇨", 80, 4, 7, 4),
		MenuRow(catalog.Kimchi, "배추김치", "당뇨", 10, 2, 1, 0),
		MenuRow(catalog.Rice, "쌀밥", "고혈압", 310, 68, 5, 1),
		MenuRow(catalog.Soup, "애호박국", "고혈압", 30, 4, 1, 1),
		MenuRow(catalog.Main, "닭가슴살찜", "고혈압", 150, 2, 22, 5),
		MenuRow(catalog.Side1, "무나물", "고혈압", 25, 4, 1, 1),
		MenuRow(catalog.Side2, "계란찜", "고혈압", 70, 1, 6, 5),
		MenuRow(catalog.Kimchi, "백김치", "고혈압", 8, 2, 0, 0),
		{"후식", "사과", "당뇨", 50},
	}
}

// ResidentHeader is the header row of a resident table.
func ResidentHeader() []any {
	return []any{"수급자ID", "연하곤란", "고혈압", "신장질환", "당뇨", "성별", "나이", "체중", "신장", "활동정도", "밥", "반찬"}
}

// ResidentRows covers a planned diabetic, a planned hypertensive resident on
// mashed texture, a resident with no condition and one whose disease has no
// menu coverage.
func ResidentRows() [][]any {
	return [][]any{
		ResidentHeader(),
		{"R001", 0, 0, 0, 1, "남", 70, 65, 165, 2, "일반밥", "일반찬"},
		{"R002", 0, 1, 0, 0, "여", 80, 50, 150, 1, "갈죽", "갈찬"},
		{"R003", 0, 0, 0, 0, "여", 75, 55, 155, 1, "일반밥", "일반찬"},
		{"R004", 0, 0, 1, 0, "남", 82, 60, 160, 1, "일반밥", "다진찬"},
	}
}

// StandardRows is a row-layout standard table for the diabetes and
// hypertension disease sets.
func StandardRows() [][]any {
	return [][]any{
		{"질환", "에너지(kcal)", "나트륨(mg)", "단백질(g)"},
		{"당뇨", "400~800", "≤2000", "15%~20%"},
		{"고혈압", "400 ~ 800", "1000 이하", ""},
	}
}

// Menu builds the MenuRows workbook on the "category" sheet.
func Menu() ([]byte, error) { return Build("category", MenuRows()) }

// Residents builds the ResidentRows workbook.
func Residents() ([]byte, error) { return Build("Sheet1", ResidentRows()) }

// Standards builds the StandardRows workbook.
func Standards() ([]byte, error) { return Build("Sheet1", StandardRows()) }
