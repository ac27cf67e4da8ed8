package collector

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

var ErrMalformedNotebook = errors.New("ugyldig notebook")

// NotebookToScript gjør en .ipynb om til skripttekst. Kodeceller tas med som de er,
// markdown blir kommentarer og andre celletyper ignoreres.
func NotebookToScript(raw []byte) (string, error) {
	if !gjson.ValidBytes(raw) {
		return "", ErrMalformedNotebook
	}
	cells := gjson.GetBytes(raw, "cells")
	if !cells.IsArray() {
		return "", ErrMalformedNotebook
	}

	var blocks []string
	for _, cell := range cells.Array() {
		source := strings.TrimRight(cellSource(cell.Get("source")), "\n")
		switch cell.Get("cell_type").String() {
		case "code":
			blocks = append(blocks, source)
		case "markdown":
			lines := strings.Split(source, "\n")
			for i, line := range lines {
				lines[i] = strings.TrimRight("# "+line, " ")
			}
			blocks = append(blocks, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(blocks, "\n\n") + "\n", nil
}

// source kan være en streng eller en liste av linjer.
func cellSource(v gjson.Result) string {
	if !v.IsArray() {
		return v.String()
	}
	var b strings.Builder
	for _, line := range v.Array() {
		b.WriteString(line.String())
	}
	return b.String()
}
