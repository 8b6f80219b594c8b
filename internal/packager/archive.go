package packager

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"
)

const (
	// PageEntry is the runtime page launched by the LMS.
	PageEntry = "index.html"
	// ManifestEntry is the conventional manifest name LMSs look for.
	ManifestEntry = "imsmanifest.xml"
)

type entry struct {
	name string
	data []byte
}

// writeArchive serializes entries, in order, into a deflated zip.
func writeArchive(entries []entry, modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("creating entry %s: %w", e.name, err)
		}
		if _, err := w.Write(e.data); err != nil {
			return nil, fmt.Errorf("writing entry %s: %w", e.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing archive: %w", err)
	}
	return buf.Bytes(), nil
}
