// Package testutil builds fixture documents for tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// PageMarker is the text drawn on page n of a document built by WritePDF.
func PageMarker(n int) string {
	return fmt.Sprintf("marker%02d", n)
}

// WritePDF writes a minimal uncompressed PDF with the given number of pages
// to path. Page n shows PageMarker(n) in Helvetica.
func WritePDF(t testing.TB, path string, pages int) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, BuildPDF(pages), 0o644))
}

// BuildPDF returns the bytes of the document WritePDF writes.
func BuildPDF(pages int) []byte {
	// 1 catalog, 2 page tree, 3 font, then a page and its content per page
	objects := []string{
		"", // catalog, filled once the kids are known
		"",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	kids := make([]string, 0, pages)
	for n := 1; n <= pages; n++ {
		pageID := len(objects) + 1
		contentID := pageID + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageID))

		content := fmt.Sprintf("BT /F1 24 Tf 72 700 Td (%s) Tj ET", PageMarker(n))
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", contentID),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}
	objects[0] = "<< /Type /Catalog /Pages 2 0 R >>"
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

