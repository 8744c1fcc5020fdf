// Package partition splits the source document into a fixed number of
// contiguous page ranges and writes each range as a standalone artifact.
package partition

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"document-query/internal/models"
)

// PageCounter reports the number of pages in a document.
type PageCounter interface {
	PageCount(path string) (int, error)
}

// ArtifactWriter materializes one page range of src as the file dst.
type ArtifactWriter interface {
	Ext() string
	MimeType() string
	Write(src, dst string, r models.PageRange) error
}

type Partitioner struct {
	counter PageCounter
	writer  ArtifactWriter
}

func NewPartitioner(counter PageCounter, writer ArtifactWriter) *Partitioner {
	return &Partitioner{counter: counter, writer: writer}
}

// New returns a partitioner for PDF documents. format selects the artifact
// kind: "pdf" keeps each range as a PDF, "text" extracts its plain text.
func New(format string) (*Partitioner, error) {
	counter := pdfPageCounter{}
	switch format {
	case "pdf", "":
		return NewPartitioner(counter, newPDFWriter()), nil
	case "text":
		return NewPartitioner(counter, textWriter{}), nil
	default:
		return nil, fmt.Errorf("unsupported artifact format: %s", format)
	}
}

// Ranges divides total pages into models.PartitionCount ranges of
// total/PartitionCount pages each; the last range absorbs the remainder.
func Ranges(total int) []models.PageRange {
	if total < 0 {
		total = 0
	}
	size := total / models.PartitionCount
	ranges := make([]models.PageRange, models.PartitionCount)
	for i := range ranges {
		ranges[i] = models.PageRange{Start: i * size, End: (i + 1) * size}
	}
	ranges[len(ranges)-1].End = total
	return ranges
}

// Label names a partition for display, e.g. "Second Quarter (Pages 11-20)".
func Label(index int, r models.PageRange) string {
	name := fmt.Sprintf("Section %d", index+1)
	if index >= 0 && index < len(models.QuarterNames) {
		name = models.QuarterNames[index]
	}
	if r.Empty() {
		return name + " (no pages)"
	}
	return fmt.Sprintf("%s (Pages %d-%d)", name, r.Start+1, r.End)
}

// Split partitions the document at documentPath into cacheDir. A missing,
// unreadable or empty document is logged and yields no partitions. Existing
// artifacts are reused only when the manifest in cacheDir matches the
// document's path, size, modification time and page count.
func (p *Partitioner) Split(documentPath, cacheDir string) []models.Partition {
	info, err := os.Stat(documentPath)
	if err != nil {
		log.Error().Err(err).Str("path", documentPath).Msg("Document not found")
		return nil
	}

	total, err := p.counter.PageCount(documentPath)
	if err != nil {
		log.Error().Err(err).Str("path", documentPath).Msg("Error reading document")
		return nil
	}
	if total == 0 {
		log.Error().Str("path", documentPath).Msg("Document has no pages")
		return nil
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		log.Error().Err(err).Str("dir", cacheDir).Msg("Error creating cache directory")
		return nil
	}

	current := newManifest(documentPath, info, total, p.writer.Ext())
	previous, ok := readManifest(cacheDir)
	reuse := ok && previous == current
	if !reuse {
		// the old artifacts may belong to another document
		_ = os.Remove(manifestPath(cacheDir))
	}

	ranges := Ranges(total)
	parts := make([]models.Partition, 0, len(ranges))
	for i, r := range ranges {
		part := models.Partition{
			Index:    i,
			Label:    Label(i, r),
			Range:    r,
			MimeType: p.writer.MimeType(),
		}
		if r.Empty() {
			log.Warn().Int("partition", i).Int("pages", total).Msg("Partition has no pages")
			parts = append(parts, part)
			continue
		}

		dst := filepath.Join(cacheDir, fmt.Sprintf(models.ArtifactPattern, i, p.writer.Ext()))
		if !reuse || !present(dst) {
			if err := p.writer.Write(documentPath, dst, r); err != nil {
				log.Error().Err(err).Int("partition", i).Msg("Error writing partition artifact")
				Remove(parts)
				return nil
			}
		}
		part.Path = dst
		parts = append(parts, part)
	}

	if err := writeManifest(cacheDir, current); err != nil {
		log.Warn().Err(err).Str("dir", cacheDir).Msg("Error writing partition manifest")
	}

	log.Info().Int("pages", total).Bool("reused", reuse).Int("partitions", len(parts)).Str("dir", cacheDir).Msg("Document partitioned")
	return parts
}

// present reports whether dst exists and is non-empty.
func present(dst string) bool {
	info, err := os.Stat(dst)
	return err == nil && info.Size() > 0
}

// Remove deletes partition artifacts and their manifest, ignoring errors.
func Remove(parts []models.Partition) {
	dirs := make(map[string]struct{})
	for _, part := range parts {
		if part.Path == "" {
			continue
		}
		dirs[filepath.Dir(part.Path)] = struct{}{}
		if err := os.Remove(part.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Debug().Err(err).Str("path", part.Path).Msg("Error removing partition artifact")
		}
	}
	for dir := range dirs {
		_ = os.Remove(manifestPath(dir))
	}
}
