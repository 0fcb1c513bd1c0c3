package parser

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ukaji3/sheetgrid-go/pkg/sheetgrid/models"
	"github.com/xuri/excelize/v2"
	"github.com/yamitzky/xlrd-go/xlrd"
)

// firstCustomFormatID is the lowest number format id a workbook may define.
const firstCustomFormatID = 164

// OpenLegacyWorkbook reads an Excel 97-2003 binary workbook into the same raw
// form as an xlsx package. content holds the file bytes; path names the file
// on disk and may be empty, in which case content is spilled to a temporary
// file for the reader. A sheet that fails to load is logged and decodes empty.
func OpenLegacyWorkbook(path string, content []byte, logger *slog.Logger) (*Package, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		tmp, err := spillTemp(content)
		if err != nil {
			return nil, err
		}
		defer os.Remove(tmp)
		path = tmp
	}

	book, err := xlrd.OpenWorkbook(path, &xlrd.OpenWorkbookOptions{
		Logfile:        slog.NewLogLogger(logger.Handler(), slog.LevelDebug).Writer(),
		FileContents:   content,
		FormattingInfo: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open legacy workbook: %w", err)
	}
	defer book.ReleaseResources()

	names := book.SheetNames()
	pkg := &Package{
		Styles:     legacyStyles(book.XFList, book.FormatMap, book.Datemode),
		PrintAreas: legacyPrintAreas(book.NameObjList, names),
	}
	for i := 0; i < book.NSheets; i++ {
		name := fmt.Sprintf("Sheet%d", i+1)
		if i < len(names) {
			name = names[i]
		}
		sheet, err := book.SheetByIndex(i)
		if err != nil {
			logger.Warn("worksheet unreadable, decoding as empty", "sheet", name, "error", err)
			pkg.Sheets = append(pkg.Sheets, models.Sheet{Name: name})
			continue
		}
		pkg.Sheets = append(pkg.Sheets, legacySheet(name, sheet.NRows, sheet.NCols, sheet.Cell))
	}
	return pkg, nil
}

func spillTemp(content []byte) (string, error) {
	f, err := os.CreateTemp("", "sheetgrid-*.xls")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// legacySheet converts a dense sheet addressed by zero-based indexes into
// sparse raw rows. Empty and blank cells are dropped.
func legacySheet(name string, nrows, ncols int, cell func(rowx, colx int) *xlrd.Cell) models.Sheet {
	sheet := models.Sheet{Name: name}
	for rowx := 0; rowx < nrows; rowx++ {
		row := models.RawRow{Number: rowx + 1}
		for colx := 0; colx < ncols; colx++ {
			c := cell(rowx, colx)
			if c == nil {
				continue
			}
			raw, ok := legacyCell(c)
			if !ok {
				continue
			}
			column, err := excelize.ColumnNumberToName(colx + 1)
			if err != nil {
				continue
			}
			raw.Column = column
			raw.Row = rowx + 1
			row.Cells = append(row.Cells, raw)
		}
		if len(row.Cells) > 0 {
			sheet.Rows = append(sheet.Rows, row)
		}
	}
	return sheet
}

func legacyCell(c *xlrd.Cell) (models.RawCell, bool) {
	raw := models.RawCell{}
	if c.XFIndex >= 0 {
		style := c.XFIndex
		raw.StyleIndex = &style
	}

	switch c.CType {
	case xlrd.XL_CELL_EMPTY, xlrd.XL_CELL_BLANK:
		return raw, false
	case xlrd.XL_CELL_TEXT:
		text := fmt.Sprint(c.Value)
		raw.Type = models.CellTypeInlineString
		raw.InnerText = &text
	case xlrd.XL_CELL_NUMBER, xlrd.XL_CELL_DATE:
		literal := legacyNumber(c.Value)
		raw.Value = &literal
	case xlrd.XL_CELL_BOOLEAN:
		literal := "0"
		if truthy(c.Value) {
			literal = "1"
		}
		raw.Type = models.CellTypeBoolean
		raw.Value = &literal
	case xlrd.XL_CELL_ERROR:
		literal := legacyError(c.Value)
		raw.Type = models.CellTypeError
		raw.Value = &literal
	default:
		if c.Value == nil {
			return raw, false
		}
		literal := fmt.Sprint(c.Value)
		raw.Value = &literal
	}
	return raw, true
}

func legacyNumber(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int:
		return b != 0
	case byte:
		return b != 0
	case float64:
		return b != 0
	}
	return false
}

func legacyError(v any) string {
	var code byte
	switch e := v.(type) {
	case byte:
		code = e
	case int:
		code = byte(e)
	case string:
		return e
	default:
		return "#ERROR"
	}
	if text, ok := xlrd.ErrorTextFromCode[code]; ok {
		return text
	}
	return "#ERROR"
}

// legacyStyles resolves the XF records of a binary workbook. Built-in format
// ids use the built-in tables; ids from firstCustomFormatID up use the
// workbook's FORMAT records.
func legacyStyles(xfs []*xlrd.XF, formats map[int]*xlrd.Format, datemode int) *StyleTable {
	ids := make([]int, len(xfs))
	for i, xf := range xfs {
		if xf != nil {
			ids[i] = xf.FormatKey
		}
	}
	custom := make(map[int]string)
	for key, f := range formats {
		if key >= firstCustomFormatID && f != nil {
			custom[key] = f.FormatString
		}
	}
	return NewStyleTable(ids, custom, datemode == 1)
}

// legacyPrintAreas collects Print_Area names. Sheet-scoped names without a
// sheet prefix in their formula fall back to the scope's sheet.
func legacyPrintAreas(names []*xlrd.Name, sheetNames []string) map[string][]models.PrintArea {
	result := make(map[string][]models.PrintArea)
	for _, n := range names {
		if n == nil || !strings.EqualFold(strings.TrimPrefix(n.Name, "_xlnm."), "Print_Area") {
			continue
		}
		sheetName, areas := parsePrintAreaReference(n.Formula)
		if sheetName == "" && n.Scope >= 0 && n.Scope < len(sheetNames) {
			sheetName = sheetNames[n.Scope]
		}
		if sheetName != "" && len(areas) > 0 {
			result[sheetName] = append(result[sheetName], areas...)
		}
	}
	return result
}
