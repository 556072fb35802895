package zip

import (
	"archive/zip"
	"bytes"
)

// Artifact is one generated image to include in an archive download.
type Artifact struct {
	Filename string
	Data     []byte
}

// ArchiveArtifacts bundles the artifacts into an in-memory zip. Artifacts
// without data are skipped.
func ArchiveArtifacts(artifacts []Artifact) []byte {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, artifact := range artifacts {
		if len(artifact.Data) == 0 {
			continue
		}
		w, err := zw.Create(artifact.Filename)
		if err != nil {
			continue
		}
		if _, err := w.Write(artifact.Data); err != nil {
			return nil
		}
	}
	_ = zw.Close()
	return buf.Bytes()
}
