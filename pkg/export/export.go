package export

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoHeaders is returned when a dataset has no columns.
var ErrNoHeaders = errors.New("dataset requires at least one header")

// Format enumerates supported export encodings.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// Renderer encodes a dataset into a downloadable document.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ParseFormat normalises a user supplied format, defaulting to CSV.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// RendererFor returns the renderer for a format.
func RendererFor(format Format) Renderer {
	switch format {
	case FormatPDF:
		return NewPDFExporter()
	case FormatXLSX:
		return NewXLSXExporter()
	default:
		return NewCSVExporter()
	}
}
