package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Enrollments",
		Headers: []string{"Student", "Offering", "Status"},
		Rows: []map[string]string{
			{"Student": "Ana Pérez", "Offering": "Algebra A", "Status": "accepted"},
			{"Student": "Luis, Jr", "Offering": "Physics B"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Student,Offering,Status\nAna Pérez,Algebra A,accepted\n\"Luis, Jr\",Physics B,\n", string(out))
}

func TestRenderersRejectEmptyHeaders(t *testing.T) {
	for _, format := range []Format{FormatCSV, FormatPDF, FormatXLSX} {
		_, err := RendererFor(format).Render(Dataset{})
		assert.ErrorIs(t, err, ErrNoHeaders, string(format))
	}
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("PK")))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("docx")
	assert.Error(t, err)
}

func TestRenderReceipt(t *testing.T) {
	out, err := RenderReceipt(Receipt{
		Number:      "0001",
		Institution: "Academia",
		StudentName: "Ana Pérez",
		Concept:     "Algebra A",
		Installment: 1,
		Amount:      150,
		PaidAt:      time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = RenderReceipt(Receipt{})
	assert.Error(t, err)
}
