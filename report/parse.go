package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat indicates the file is not one of the supported report formats.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// ErrParse indicates the file matched a supported format but is structurally invalid.
var ErrParse = errors.New("invalid report file")

var zipSignature = []byte{0x50, 0x4b, 0x03, 0x04}
var oleSignature = []byte{0xd0, 0xcf, 0x11, 0xe0}

// Parse reads a downloaded report file and returns its content as a Table. The
// format is detected from the leading bytes of the file (XLSX and the XML
// spreadsheet format NetSuite produces for '.xls' exports), falling back to the
// file extension for CSV.
func Parse(file string) (Table, error) {
	header, err := sniff(file)
	if err != nil {
		return nil, err
	}

	switch {
	case bytes.HasPrefix(header, zipSignature):
		return parseXLSX(file)

	case bytes.HasPrefix(header, oleSignature):
		return nil, fmt.Errorf("%w: legacy binary '.xls' (%s)", ErrUnsupportedFormat, file)

	case looksLikeXML(header):
		return parseSpreadsheetML(file)
	}

	switch strings.ToLower(filepath.Ext(file)) {
	case ".csv":
		return parseCSV(file)

	case ".xls", ".xml":
		return parseSpreadsheetML(file)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, file)
	}
}

func sniff(file string) ([]byte, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	header := make([]byte, 512)
	n, err := f.Read(header)
	if err != nil && err != io.EOF {
		return nil, err
	}

	return header[:n], nil
}

func looksLikeXML(header []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(header, " \t\r\n\xef\xbb\xbf"), []byte("<?xml")) ||
		bytes.Contains(header, []byte("<Workbook"))
}

func parseCSV(file string) (Table, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return Table(records), nil
}
