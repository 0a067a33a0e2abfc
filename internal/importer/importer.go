// Package importer provides TXT, CSV, and Excel import functionality
// for cut lists. It supports automatic delimiter detection, flexible
// column mapping, and case-insensitive header recognition.
package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mnykolaichuk96/WebOptimalCutting/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Request  model.CutRequest
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Length   int
	Quantity int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"length":   {"length", "len", "l", "size", "element", "element length", "piece", "piece length", "cut", "cut length"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces", "repetition"},
}

// ImportFile dispatches on the file extension. TXT files carry the beam
// length on their first line; CSV and Excel files take it from the
// caller, or from an optional "beam,<length>" row in the data.
func ImportFile(path string, beamLength int) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return ImportTXT(path)
	case ".csv":
		return ImportCSV(path, beamLength)
	case ".xlsx", ".xls":
		return ImportExcel(path, beamLength)
	default:
		return ImportResult{Errors: []string{fmt.Sprintf("Unsupported file type: %s", filepath.Ext(path))}}
	}
}

// ImportTXT imports a cut list from a plain text file. The first
// non-empty line holds the beam length; every following non-empty line
// holds one element length. Repeated lengths mean repeated elements.
func ImportTXT(path string) ImportResult {
	result := ImportResult{}

	f, err := os.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	haveBeam := false
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		value, err := strconv.Atoi(line)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: Invalid length '%s'", lineNum, line))
			continue
		}
		if value <= 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: Length must be positive", lineNum))
			continue
		}

		if !haveBeam {
			result.Request.BeamLength = value
			haveBeam = true
			continue
		}
		result.Request.ElementLengths = append(result.Request.ElementLengths, value)
	}
	if err := scanner.Err(); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read file: %v", err))
		return result
	}

	if !haveBeam {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}
	if len(result.Request.ElementLengths) == 0 {
		result.Errors = append(result.Errors, "File lists no element lengths")
	}
	return result
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent column count across lines wins; single-column files keep the comma.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each
// column role. Returns the mapping and true if a header was detected,
// or a default positional mapping (length, quantity) and false if not.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Length: -1, Quantity: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					switch role {
					case "length":
						if mapping.Length == -1 {
							mapping.Length = i
						}
					case "quantity":
						if mapping.Quantity == -1 {
							mapping.Quantity = i
						}
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Length: 0, Quantity: 1}, false
	}

	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts an element length and quantity from a row using the
// given column mapping. A missing quantity column defaults to one
// element. Returns the length, quantity, and any error message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (int, int, string) {
	lengthStr := getCell(row, mapping.Length)
	if lengthStr == "" {
		return 0, 0, fmt.Sprintf("%s: Missing length value", rowLabel)
	}
	length, err := strconv.Atoi(lengthStr)
	if err != nil {
		return 0, 0, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lengthStr)
	}
	if length <= 0 {
		return 0, 0, fmt.Sprintf("%s: Length must be positive", rowLabel)
	}

	qty := 1
	qtyStr := getCell(row, mapping.Quantity)
	if qtyStr != "" {
		qty, err = strconv.Atoi(qtyStr)
		if err != nil {
			return 0, 0, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr)
		}
		if qty <= 0 {
			return 0, 0, fmt.Sprintf("%s: Quantity must be positive", rowLabel)
		}
	}

	return length, qty, ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports a cut list from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string, beamLength int) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", beamLength, warnings)
}

// ImportCSVFromReader imports a cut list from a CSV reader with a
// specific delimiter. This is useful for testing or when the delimiter
// is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune, beamLength int) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", beamLength, nil)
}

// ImportExcel imports a cut list from an Excel (.xlsx, .xls) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string, beamLength int) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", beamLength, nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and expands each row into the
// request's element lengths.
func importFromRows(rows [][]string, rowPrefix string, beamLength int, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	// A "beam,<length>" row inside the data overrides the argument.
	var dataRows [][]string
	for _, row := range rows {
		if strings.EqualFold(getCell(row, 0), "beam") {
			v, err := strconv.Atoi(getCell(row, 1))
			if err != nil || v <= 0 {
				result.Errors = append(result.Errors, fmt.Sprintf("Invalid beam row value '%s'", getCell(row, 1)))
				return result
			}
			beamLength = v
			continue
		}
		dataRows = append(dataRows, row)
	}
	rows = dataRows

	result.Request = model.CutRequest{BeamLength: beamLength}
	if beamLength <= 0 {
		result.Errors = append(result.Errors, "Beam length must be positive")
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		if mapping.Length == -1 {
			result.Errors = append(result.Errors, "Required column not found in header: Length")
			return result
		}
	} else if len(rows[0]) >= 1 {
		if _, err := strconv.Atoi(strings.TrimSpace(rows[0][0])); err != nil {
			// First cell is not numeric: an unrecognized header, skip it
			// but keep the positional mapping.
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		length, qty, errMsg := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}

		if length > beamLength {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: Length %d exceeds beam length %d, skipping", rowLabel, length, beamLength))
			continue
		}

		for n := 0; n < qty; n++ {
			result.Request.ElementLengths = append(result.Request.ElementLengths, length)
		}
	}

	if len(result.Request.ElementLengths) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No element lengths found")
	}

	return result
}
