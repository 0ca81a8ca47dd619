package source

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// exportName is the XML document inside an Apple Health export.
const exportName = "export.xml"

// candidates are the places export.xml is found relative to an export directory.
var candidates = []string{
	exportName,
	filepath.Join("apple_health_export", exportName),
}

// ResolvePath turns a user-supplied path into the concrete file to read.
// Directories are searched for export.xml; files (including .zip archives)
// are returned unchanged.
func ResolvePath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}
	if !info.IsDir() {
		return path, nil
	}

	for _, c := range candidates {
		p := filepath.Join(path, c)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: no %s under %s", ErrSourceNotFound, exportName, path)
}

// Open resolves path and returns a reader over the export document.
// For .zip archives the first entry named export.xml is streamed.
func Open(path string) (io.ReadCloser, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(resolved), ".zip") {
		return openZip(resolved)
	}

	f, err := os.Open(resolved) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}
	return f, nil
}

type zipEntry struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (z zipEntry) Close() error {
	err := z.ReadCloser.Close()
	if cerr := z.archive.Close(); err == nil {
		err = cerr
	}
	return err
}

func openZip(path string) (io.ReadCloser, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceMalformed, err)
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() || filepath.Base(f.Name) != exportName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			_ = zr.Close()
			return nil, fmt.Errorf("%w: %v", ErrSourceMalformed, err)
		}
		return zipEntry{ReadCloser: rc, archive: zr}, nil
	}

	_ = zr.Close()
	return nil, fmt.Errorf("%w: %s has no %s", ErrSourceNotFound, path, exportName)
}
