package partition

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"document-query/internal/models"
)

type pdfPageCounter struct{}

func (pdfPageCounter) PageCount(path string) (int, error) {
	f, reader, err := openPDF(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return reader.NumPage(), nil
}

func openPDF(path string) (*os.File, *pdf.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to parse pdf: %w", err)
	}
	return f, reader, nil
}

var disableConfigDir sync.Once

// pdfWriter keeps the selected pages of the source as a new PDF file.
type pdfWriter struct {
	conf *pdfmodel.Configuration
}

func newPDFWriter() *pdfWriter {
	disableConfigDir.Do(api.DisableConfigDir)
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	return &pdfWriter{conf: conf}
}

func (w *pdfWriter) Ext() string      { return ".pdf" }
func (w *pdfWriter) MimeType() string { return models.MimeTypePDF }

func (w *pdfWriter) Write(src, dst string, r models.PageRange) error {
	if r.Empty() {
		return fmt.Errorf("empty page range %s", r.Selection())
	}
	if err := api.TrimFile(src, dst, []string{r.Selection()}, w.conf); err != nil {
		return fmt.Errorf("failed to extract pages %s: %w", r.Selection(), err)
	}
	return nil
}

// textWriter extracts the plain text of the selected pages, for models that
// cannot read PDF input.
type textWriter struct{}

func (textWriter) Ext() string      { return ".txt" }
func (textWriter) MimeType() string { return models.MimeTypeText }

func (textWriter) Write(src, dst string, r models.PageRange) error {
	f, reader, err := openPDF(src)
	if err != nil {
		return err
	}
	defer f.Close()

	var text strings.Builder
	for i := r.Start + 1; i <= r.End && i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return fmt.Errorf("failed to read page %d: %w", i, err)
		}
		text.WriteString(fmt.Sprintf("--- Page %d ---\n", i))
		text.WriteString(strings.TrimSpace(pageText))
		text.WriteString("\n\n")
	}

	return os.WriteFile(dst, []byte(text.String()), 0o644)
}
