package zip

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestArchiveArtifacts(t *testing.T) {
	archive := ArchiveArtifacts([]Artifact{
		{Filename: "p1.png", Data: []byte("first")},
		{Filename: "skipped.png"},
		{Filename: "p2.png", Data: []byte("second")},
	})

	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(reader.File) != 2 {
		t.Fatalf("file count = %d, want 2", len(reader.File))
	}

	want := map[string]string{"p1.png": "first", "p2.png": "second"}
	for _, f := range reader.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		if string(data) != want[f.Name] {
			t.Fatalf("%s content = %q, want %q", f.Name, data, want[f.Name])
		}
	}
}
