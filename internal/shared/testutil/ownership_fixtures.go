package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// SampleLines is a ten-row packed export used across package tests.
// Three rows have an unusable tax id and Acme/111 is owned 120%.
var SampleLines = []string{
	`Ivanov Ivan Ivanovich,Acme,111,50%,Moscow,registry,01.02.2023`,
	`Petrov Petr,Acme,111,0.4,Moscow,registry,2023-02-01`,
	`Sidorov Sergey,Acme,111,30,Moscow,registry,01/02/2023`,
	`Ivanov Ivan Ivanovich,Beta,222,100,Kazan,registry,20230201`,
	`Petrov Petr,Gamma,n/a,25,Kazan,news,01.02.23`,
	`Petrov Petr,Gamma,,35,Kazan,news,2023.02.01`,
	`Kuznetsov Kirill,Delta,444.0,60%,Omsk,registry,`,
	`Kuznetsov Kirill,Delta,444,0.4,Omsk,registry,not a date`,
	`Smirnov,"""Omega"" LLC",abc,10,Perm,news,15.03.2022`,
	`Popov Pavel,Sigma,555,1,Perm,registry,15.03.2022`,
}

// PackLine joins fields into one packed line, quoting fields that contain
// commas or quotes.
func PackLine(fields ...string) string {
	out := make([]string, len(fields))
	for i, f := range fields {
		if strings.ContainsAny(f, `,"`) {
			f = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		}
		out[i] = f
	}
	return strings.Join(out, ",")
}

// WriteLinesFile writes packed lines to name under dir, one per line.
func WriteLinesFile(t *testing.T, dir, name string, lines []string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}

// WriteWorkbook writes packed lines into column A of sheet in a new xlsx
// file. An empty sheet name keeps the default "Sheet1".
func WriteWorkbook(t *testing.T, dir, name, sheet string, lines []string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	} else if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("create sheet %s: %v", sheet, err)
		}
	}

	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetCellStr(sheet, cell, line); err != nil {
			t.Fatalf("set %s: %v", cell, err)
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook %s: %v", path, err)
	}
	return path
}
