package sheetgrid

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/sheetgrid-go/pkg/sheetgrid/delimited"
	"github.com/ukaji3/sheetgrid-go/pkg/sheetgrid/models"
	"github.com/ukaji3/sheetgrid-go/pkg/sheetgrid/parser"
	"github.com/xuri/excelize/v2"
	"github.com/yamitzky/xlrd-go/xlrd"
)

// DelimitedSheetName names the single sheet decoded from delimited text when
// the source has no file name.
const DelimitedSheetName = "Sheet1"

var zipMagic = []byte("PK\x03\x04")

// Workbook is a decoded source: one or more sheets of string cells.
type Workbook struct {
	data      *models.WorkbookData
	detection *delimited.Detection
}

// OpenFile decodes the spreadsheet package, legacy binary workbook or
// delimited text file at path.
func OpenFile(path string, opts Options) (*Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	return open(f, info.Size(), path, opts)
}

// Open decodes a spreadsheet read from r. Sources starting with the zip
// signature are read as packages and sources starting with the OLE2 signature
// as legacy binary workbooks; anything else is delimited text.
func Open(r io.ReaderAt, size int64, opts Options) (*Workbook, error) {
	return open(r, size, "", opts)
}

// ReadRows lazily decodes delimited text. It returns the rows and the name of
// the encoding used.
func ReadRows(data []byte, opts Options) (iter.Seq[[]string], string, error) {
	if opts.MaxInputBytes > 0 && int64(len(data)) > opts.MaxInputBytes {
		return nil, "", fmt.Errorf("%w: %d bytes", ErrInputTooLarge, len(data))
	}
	result, err := delimited.Decode(data, delimitedOptions(opts))
	if err != nil {
		return nil, "", NewDecodeError("", "encoding", err)
	}
	return result.Rows, result.Encoding, nil
}

// open sniffs the source format. path is empty when the source is not a file.
func open(r io.ReaderAt, size int64, path string, opts Options) (*Workbook, error) {
	if opts.MaxInputBytes > 0 && size > opts.MaxInputBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrInputTooLarge, size)
	}

	bookName := ""
	if path != "" {
		bookName = filepath.Base(path)
	}

	head := make([]byte, len(xlrd.XLS_SIGNATURE))
	n, err := r.ReadAt(head, 0)
	if err != nil && err != io.EOF {
		return nil, err
	}
	head = head[:n]
	switch {
	case bytes.HasPrefix(head, zipMagic):
		return openPackage(r, size, bookName, opts)
	case bytes.HasPrefix(head, xlrd.XLS_SIGNATURE):
		return openLegacy(r, size, path, bookName, opts)
	}
	return openDelimited(r, size, bookName, opts)
}

func openPackage(r io.ReaderAt, size int64, bookName string, opts Options) (*Workbook, error) {
	logger := opts.logger().With("book", bookName)

	pkg, err := parser.OpenPackage(r, size, logger)
	if err != nil {
		return nil, NewDecodeError("", "package", errors.Join(ErrInvalidFormat, err))
	}

	data := decodeSheets(pkg, bookName, opts)
	if opts.ShouldIncludePrintAreas() || opts.ShouldIncludeProperties() {
		addMetadata(data, r, size, opts)
	}

	return &Workbook{data: data}, nil
}

// openLegacy decodes an Excel 97-2003 workbook. Binary workbooks carry no
// custom properties; print areas come from their Print_Area names.
func openLegacy(r io.ReaderAt, size int64, path, bookName string, opts Options) (*Workbook, error) {
	logger := opts.logger().With("book", bookName)

	raw, err := io.ReadAll(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, err
	}
	pkg, err := parser.OpenLegacyWorkbook(path, raw, logger)
	if err != nil {
		return nil, NewDecodeError("", "legacy", errors.Join(ErrInvalidFormat, err))
	}

	data := decodeSheets(pkg, bookName, opts)
	if opts.ShouldIncludePrintAreas() {
		for i := range data.Sheets {
			data.Sheets[i].PrintAreas = pkg.PrintAreas[data.Sheets[i].Name]
		}
	}

	return &Workbook{data: data}, nil
}

func decodeSheets(pkg *parser.Package, bookName string, opts Options) *models.WorkbookData {
	data := &models.WorkbookData{BookName: bookName}
	for _, sheet := range pkg.Sheets {
		decoded := parser.DecodeSheet(sheet, pkg.Styles, pkg.SharedStrings, opts.DateFormatter)
		if opts.ShouldIncludeTables() {
			decoded.TableCandidates = parser.DetectTables(decoded.Rows, decoded.RowNumbers, decoded.Columns, parser.DefaultTableParams())
		}
		data.Sheets = append(data.Sheets, decoded)
	}
	return data
}

// addMetadata reads workbook-level metadata. Failures are logged and leave the
// grids untouched.
func addMetadata(data *models.WorkbookData, r io.ReaderAt, size int64, opts Options) {
	logger := opts.logger().With("book", data.BookName)

	f, err := excelize.OpenReader(io.NewSectionReader(r, 0, size))
	if err != nil {
		logger.Warn("workbook metadata unreadable", "error", NewDecodeError("", "package", err))
		return
	}
	defer f.Close()

	if opts.ShouldIncludePrintAreas() {
		areas := parser.ExtractPrintAreas(f)
		for i := range data.Sheets {
			data.Sheets[i].PrintAreas = areas[data.Sheets[i].Name]
		}
	}

	if opts.ShouldIncludeProperties() {
		props, err := parser.ExtractCustomProperties(f)
		if err != nil {
			logger.Warn("custom properties unreadable", "error", NewDecodeError("", "properties", err))
		}
		data.Properties = props
	}
}

func openDelimited(r io.ReaderAt, size int64, bookName string, opts Options) (*Workbook, error) {
	raw, err := io.ReadAll(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, err
	}

	result, err := delimited.Decode(raw, delimitedOptions(opts))
	if err != nil {
		return nil, NewDecodeError("", "encoding", err)
	}

	name := DelimitedSheetName
	if bookName != "" {
		name = strings.TrimSuffix(bookName, filepath.Ext(bookName))
	}
	sheet := models.StringSheet{Name: name, Rows: delimited.Collect(result.Rows)}
	if opts.ShouldIncludeTables() {
		sheet.TableCandidates = parser.DetectTables(sheet.Rows, nil, nil, parser.DefaultTableParams())
	}

	wb := &Workbook{data: &models.WorkbookData{
		BookName: bookName,
		Encoding: result.Encoding,
		Sheets:   []models.StringSheet{sheet},
	}}
	if opts.Mode == ModeVerbose {
		wb.detection = result.Detection
	}
	return wb, nil
}

func delimitedOptions(opts Options) delimited.DecodeOptions {
	return delimited.DecodeOptions{
		Delimiter:  opts.Delimiter,
		Encoding:   opts.Encoding,
		Candidates: opts.Candidates,
		Logger:     opts.logger(),
	}
}

// Data returns the decoded workbook.
func (w *Workbook) Data() *models.WorkbookData {
	return w.data
}

// Sheets returns the decoded sheets in workbook order.
func (w *Workbook) Sheets() []models.StringSheet {
	return w.data.Sheets
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.data.Sheets))
	for i, s := range w.data.Sheets {
		names[i] = s.Name
	}
	return names
}

// Sheet returns the sheet with the given name.
func (w *Workbook) Sheet(name string) (models.StringSheet, error) {
	if s, ok := w.data.Sheet(name); ok {
		return s, nil
	}
	return models.StringSheet{}, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
}

// CustomProperties returns the custom document properties (verbose mode only).
func (w *Workbook) CustomProperties() map[string]string {
	return w.data.Properties
}

// Encoding returns the encoding used for delimited text, or "" for packages.
func (w *Workbook) Encoding() string {
	return w.data.Encoding
}

// Detection returns the encoding profiles of delimited text decoded in verbose
// mode without an explicit encoding.
func (w *Workbook) Detection() *delimited.Detection {
	return w.detection
}

// PrintAreaViews returns one view per print area of every sheet.
func (w *Workbook) PrintAreaViews() []models.PrintAreaView {
	var views []models.PrintAreaView
	for _, sheet := range w.data.Sheets {
		for _, area := range sheet.PrintAreas {
			views = append(views, parser.PrintAreaView(w.data.BookName, sheet, area))
		}
	}
	return views
}
