package partition

import (
	"encoding/json"
	"os"
	"path/filepath"

	"document-query/internal/models"
)

// manifest identifies the document a set of artifacts was cut from. The
// artifacts in a cache directory are reused only while it still matches.
type manifest struct {
	Source  string `json:"source"`
	Size    int64  `json:"size"`
	ModTime int64  `json:"mod_time"`
	Pages   int    `json:"pages"`
	Ext     string `json:"ext"`
}

func newManifest(documentPath string, info os.FileInfo, pages int, ext string) manifest {
	source, err := filepath.Abs(documentPath)
	if err != nil {
		source = documentPath
	}
	return manifest{
		Source:  source,
		Size:    info.Size(),
		ModTime: info.ModTime().UnixNano(),
		Pages:   pages,
		Ext:     ext,
	}
}

func manifestPath(dir string) string {
	return filepath.Join(dir, models.ManifestFileName)
}

// readManifest returns the manifest in dir, or false when there is none or
// it cannot be decoded.
func readManifest(dir string) (manifest, bool) {
	data, err := os.ReadFile(manifestPath(dir))
	if err != nil {
		return manifest{}, false
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return manifest{}, false
	}
	return m, true
}

func writeManifest(dir string, m manifest) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(manifestPath(dir), data, 0o644)
}
