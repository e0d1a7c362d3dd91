package loader

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "corplinks/internal/errors"
)

// maxLineSize bounds a single packed line in a text source.
const maxLineSize = 1 << 20

// readWorkbook returns the first non-empty cell of every row of sheet, or of
// the first sheet when sheet is empty. Rows with no value give "".
func readWorkbook(ctx context.Context, path, sheet string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError("workbook has no sheets", nil).WithContext("path", path)
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, apperrors.NewNotFoundError("sheet "+sheet).WithContext("path", path)
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read sheet", err).WithContext("sheet", sheet)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.NewCanceledError("load", err)
		}
		cols, err := rows.Columns()
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read row", err).WithContext("row", len(lines)+1)
		}
		lines = append(lines, firstValue(cols))
	}
	if err := rows.Error(); err != nil {
		return nil, apperrors.NewParsingError("failed to iterate rows", err).WithContext("sheet", sheet)
	}

	// excelize reports rows up to the last one holding any cell; drop
	// trailing blanks left by formatting-only rows.
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

func firstValue(cols []string) string {
	for _, c := range cols {
		if c != "" {
			return c
		}
	}
	return ""
}

// readTextLines returns every physical line of a text export with the line
// terminator and a leading UTF-8 BOM removed.
func readTextLines(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open input file", err).WithContext("path", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for scanner.Scan() {
		if len(lines)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, apperrors.NewCanceledError("load", err)
			}
		}
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if len(lines) == 0 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.NewParsingError("failed to read input file", err).WithContext("path", path)
	}
	return lines, nil
}
