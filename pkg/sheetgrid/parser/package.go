package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"github.com/ukaji3/sheetgrid-go/pkg/sheetgrid/models"
	"github.com/xuri/excelize/v2"
)

const (
	defaultWorkbookPath = "xl/workbook.xml"
	relTypeOfficeDoc    = "/officeDocument"
	relTypeWorksheet    = "/worksheet"
	relTypeSharedString = "/sharedStrings"
	relTypeStyles       = "/styles"
)

// ErrPartNotFound indicates a required package part is missing.
var ErrPartNotFound = errors.New("package part not found")

// Package holds the raw content of a spreadsheet package: its sheets plus the
// shared string and style tables they reference.
type Package struct {
	Sheets        []models.Sheet
	SharedStrings *SharedStrings
	Styles        *StyleTable
	// PrintAreas is filled by readers that parse defined names themselves,
	// keyed by sheet name.
	PrintAreas map[string][]models.PrintArea
}

// SheetRef names a worksheet and the package part that stores it.
type SheetRef struct {
	Name string
	Part string
}

type relationship struct {
	id     string
	typ    string
	target string
}

// OpenPackage reads the workbook, shared string, style and worksheet parts of
// an xlsx package. A worksheet part that fails to parse is logged and yields an
// empty sheet.
func OpenPackage(r io.ReaderAt, size int64, logger *slog.Logger) (*Package, error) {
	if logger == nil {
		logger = slog.Default()
	}
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}

	workbookPath := findWorkbookPath(zr)
	workbookXML, err := readZipFile(zr, workbookPath)
	if err != nil {
		return nil, err
	}
	if workbookXML == nil {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, workbookPath)
	}
	sheetNames, date1904 := parseWorkbook(workbookXML)

	baseDir := path.Dir(workbookPath)
	relsXML, err := readZipFile(zr, relsPathFor(workbookPath))
	if err != nil {
		return nil, err
	}
	rels := parseRelationships(relsXML)

	sstPath := partOfType(rels, relTypeSharedString, baseDir, path.Join(baseDir, "sharedStrings.xml"))
	sst, err := readSharedStrings(zr, sstPath)
	if err != nil {
		logger.Warn("shared strings unreadable, continuing without them", "part", sstPath, "error", err)
		sst = NewSharedStrings(nil)
	}

	stylesPath := partOfType(rels, relTypeStyles, baseDir, path.Join(baseDir, "styles.xml"))
	styles, err := readStyles(zr, stylesPath, date1904)
	if err != nil {
		logger.Warn("styles unreadable, continuing without them", "part", stylesPath, "error", err)
		styles = NewStyleTable(nil, nil, date1904)
	}

	pkg := &Package{SharedStrings: sst, Styles: styles}
	for _, ref := range sheetParts(sheetNames, rels, baseDir) {
		data, err := readZipFile(zr, ref.Part)
		if err == nil && data == nil {
			err = fmt.Errorf("%w: %s", ErrPartNotFound, ref.Part)
		}
		var rows []models.RawRow
		if err == nil {
			rows, err = parseWorksheet(data)
		}
		if err != nil {
			logger.Warn("worksheet unreadable, decoding as empty", "sheet", ref.Name, "part", ref.Part, "error", err)
			rows = nil
		}
		pkg.Sheets = append(pkg.Sheets, models.Sheet{Name: ref.Name, Rows: rows})
	}
	return pkg, nil
}

// SheetNames returns the sheet names in workbook order.
func (p *Package) SheetNames() []string {
	names := make([]string, len(p.Sheets))
	for i, s := range p.Sheets {
		names[i] = s.Name
	}
	return names
}

// Decode decodes every sheet of the package.
func (p *Package) Decode(hook DateFormatter) []models.StringSheet {
	out := make([]models.StringSheet, len(p.Sheets))
	for i, sheet := range p.Sheets {
		out[i] = DecodeSheet(sheet, p.Styles, p.SharedStrings, hook)
	}
	return out
}

func findWorkbookPath(zr *zip.Reader) string {
	data, err := readZipFile(zr, "_rels/.rels")
	if err != nil || data == nil {
		return defaultWorkbookPath
	}
	return partOfType(parseRelationships(data), relTypeOfficeDoc, "", defaultWorkbookPath)
}

// relsPathFor maps "xl/workbook.xml" to "xl/_rels/workbook.xml.rels".
func relsPathFor(part string) string {
	return path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
}

func partOfType(rels []relationship, suffix, baseDir, fallback string) string {
	for _, rel := range rels {
		if strings.HasSuffix(rel.typ, suffix) {
			return resolveRelativePath(rel.target, baseDir)
		}
	}
	return fallback
}

func sheetParts(sheets []SheetRef, rels []relationship, baseDir string) []SheetRef {
	targets := make(map[string]string, len(rels))
	for _, rel := range rels {
		if strings.HasSuffix(rel.typ, relTypeWorksheet) {
			targets[rel.id] = resolveRelativePath(rel.target, baseDir)
		}
	}
	var out []SheetRef
	for _, s := range sheets {
		// Part carries the relationship id until resolved here.
		if target, ok := targets[s.Part]; ok {
			out = append(out, SheetRef{Name: s.Name, Part: target})
		}
	}
	return out
}

func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, nil
}

func readElementText(decoder *xml.Decoder) (string, error) {
	var text strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return text.String(), err
		}
		switch t := token.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return text.String(), nil
}

// readRichText concatenates the <t> runs of a string item, skipping phonetic runs.
func readRichText(decoder *xml.Decoder) (string, error) {
	var text strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return text.String(), err
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				s, err := readElementText(decoder)
				if err != nil {
					return text.String(), err
				}
				text.WriteString(s)
			case "rPh":
				if err := decoder.Skip(); err != nil {
					return text.String(), err
				}
			default:
				depth++
			}
		case xml.EndElement:
			depth--
		}
	}
	return text.String(), nil
}

func resolveRelativePath(target, baseDir string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(baseDir, target)
}

func attr(se xml.StartElement, local string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// parseWorkbook returns the sheets in workbook order (Part holds the
// relationship id) and whether the workbook uses the 1904 date system.
func parseWorkbook(data []byte) ([]SheetRef, bool) {
	var sheets []SheetRef
	date1904 := false
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "workbookPr":
			if v, ok := attr(se, "date1904"); ok {
				date1904 = v == "1" || strings.EqualFold(v, "true")
			}
		case "sheet":
			name, _ := attr(se, "name")
			rID, _ := attr(se, "id")
			if name != "" && rID != "" {
				sheets = append(sheets, SheetRef{Name: name, Part: rID})
			}
		}
	}

	return sheets, date1904
}

func parseRelationships(data []byte) []relationship {
	var rels []relationship
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var rel relationship
			rel.id, _ = attr(se, "Id")
			rel.typ, _ = attr(se, "Type")
			rel.target, _ = attr(se, "Target")
			rels = append(rels, rel)
		}
	}

	return rels
}

func readSharedStrings(zr *zip.Reader, part string) (*SharedStrings, error) {
	data, err := readZipFile(zr, part)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return NewSharedStrings(nil), nil
	}
	items, err := parseSharedStrings(data)
	if err != nil {
		return nil, err
	}
	return NewSharedStrings(items), nil
}

func parseSharedStrings(data []byte) ([]string, error) {
	var items []string
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return items, nil
		}
		if err != nil {
			return items, err
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "si" {
			text, err := readRichText(decoder)
			if err != nil {
				return items, err
			}
			items = append(items, text)
		}
	}
}

func readStyles(zr *zip.Reader, part string, date1904 bool) (*StyleTable, error) {
	data, err := readZipFile(zr, part)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return NewStyleTable(nil, nil, date1904), nil
	}
	numFmtIDs, custom, err := parseStyles(data)
	if err != nil {
		return nil, err
	}
	return NewStyleTable(numFmtIDs, custom, date1904), nil
}

// parseStyles returns the number format id of each cellXfs record and the
// custom number format codes.
func parseStyles(data []byte) ([]int, map[int]string, error) {
	var numFmtIDs []int
	custom := make(map[int]string)
	inNumFmts, inCellXfs := false, false
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return numFmtIDs, custom, nil
		}
		if err != nil {
			return numFmtIDs, custom, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "numFmts":
				inNumFmts = true
			case "cellXfs":
				inCellXfs = true
			case "numFmt":
				if !inNumFmts {
					continue
				}
				idText, _ := attr(t, "numFmtId")
				code, _ := attr(t, "formatCode")
				if id, err := strconv.Atoi(idText); err == nil {
					custom[id] = code
				}
			case "xf":
				if !inCellXfs {
					continue
				}
				idText, _ := attr(t, "numFmtId")
				id, err := strconv.Atoi(idText)
				if err != nil {
					id = 0
				}
				numFmtIDs = append(numFmtIDs, id)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "numFmts":
				inNumFmts = false
			case "cellXfs":
				inCellXfs = false
			}
		}
	}
}

// parseWorksheet reads the sparse rows of a worksheet part. Rows and cells
// without an explicit reference follow their predecessor.
func parseWorksheet(data []byte) ([]models.RawRow, error) {
	var rows []models.RawRow
	decoder := xml.NewDecoder(bytes.NewReader(data))
	lastRow := 0

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "row" {
			continue
		}
		number := lastRow + 1
		if v, ok := attr(se, "r"); ok {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				number = n
			}
		}
		row, err := parseRow(decoder, number)
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
		lastRow = number
	}
}

func parseRow(decoder *xml.Decoder, number int) (models.RawRow, error) {
	row := models.RawRow{Number: number}
	lastCol := 0
	for {
		token, err := decoder.Token()
		if err != nil {
			return row, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local != "c" {
				if err := decoder.Skip(); err != nil {
					return row, err
				}
				continue
			}
			cell, err := parseCell(decoder, t, number, lastCol)
			if err != nil {
				return row, err
			}
			lastCol = int(ColumnNumber(cell.Column))
			row.Cells = append(row.Cells, cell)
		case xml.EndElement:
			return row, nil
		}
	}
}

func parseCell(decoder *xml.Decoder, se xml.StartElement, rowNumber, lastCol int) (models.RawCell, error) {
	cell := models.RawCell{Row: rowNumber}
	if ref, ok := attr(se, "r"); ok {
		if col, _, err := excelize.SplitCellName(ref); err == nil {
			cell.Column = col
		} else {
			cell.Column = ColumnLabel(ref)
		}
	}
	if cell.Column == "" {
		name, err := excelize.ColumnNumberToName(lastCol + 1)
		if err != nil {
			return cell, err
		}
		cell.Column = name
	}
	if v, ok := attr(se, "s"); ok {
		if s, err := strconv.Atoi(v); err == nil {
			cell.StyleIndex = &s
		}
	}
	if v, ok := attr(se, "t"); ok {
		cell.Type = models.ParseCellType(v)
	}

	for {
		token, err := decoder.Token()
		if err != nil {
			return cell, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "v":
				text, err := readElementText(decoder)
				if err != nil {
					return cell, err
				}
				cell.Value = &text
			case "is":
				text, err := readRichText(decoder)
				if err != nil {
					return cell, err
				}
				cell.InnerText = &text
			default:
				if err := decoder.Skip(); err != nil {
					return cell, err
				}
			}
		case xml.EndElement:
			return cell, nil
		}
	}
}
