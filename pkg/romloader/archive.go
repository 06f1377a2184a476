package romloader

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode/v2"
)

var archiveExtensions = map[string]bool{
	".zip": true, ".7z": true, ".gz": true, ".tgz": true, ".tar": true, ".rar": true,
}

// romPicker selects one program from an archive. ROM packs often bundle
// several programs; the one named like the archive wins, otherwise the first
// non-empty ROM entry is used.
type romPicker struct {
	stem       string
	extensions []string

	data []byte
	name string
}

func newROMPicker(archivePath string, extensions []string) *romPicker {
	base := filepath.Base(archivePath)
	for archiveExtensions[strings.ToLower(filepath.Ext(base))] {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return &romPicker{stem: base, extensions: extensions}
}

// wants reports whether an entry is worth reading.
func (p *romPicker) wants(name string, isDir bool) bool {
	return !isDir && isROMFile(name, p.extensions)
}

// offer records a ROM entry and reports whether the search is over.
func (p *romPicker) offer(name string, data []byte) bool {
	if len(data) == 0 {
		return false
	}
	base := filepath.Base(name)
	if strings.EqualFold(strings.TrimSuffix(base, filepath.Ext(base)), p.stem) {
		p.data, p.name = data, base
		return true
	}
	if p.data == nil {
		p.data, p.name = data, base
	}
	return false
}

func (p *romPicker) result() ([]byte, string, error) {
	if p.data == nil {
		return nil, "", ErrNoROMFile
	}
	return p.data, p.name, nil
}

// extractFromZIP extracts a ROM entry from a ZIP archive.
func extractFromZIP(path string, extensions []string) ([]byte, string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()

	picker := newROMPicker(path, extensions)
	for _, f := range r.File {
		if !picker.wants(f.Name, f.FileInfo().IsDir()) {
			continue
		}
		data, err := readEntry(f.Name, f.Open)
		if err != nil {
			return nil, "", err
		}
		if picker.offer(f.Name, data) {
			break
		}
	}
	return picker.result()
}

// extractFrom7z extracts a ROM entry from a 7z archive.
func extractFrom7z(path string, extensions []string) ([]byte, string, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open 7z: %w", err)
	}
	defer r.Close()

	picker := newROMPicker(path, extensions)
	for _, f := range r.File {
		if !picker.wants(f.Name, f.FileInfo().IsDir()) {
			continue
		}
		data, err := readEntry(f.Name, f.Open)
		if err != nil {
			return nil, "", err
		}
		if picker.offer(f.Name, data) {
			break
		}
	}
	return picker.result()
}

func readEntry(name string, open func() (io.ReadCloser, error)) ([]byte, error) {
	rc, err := open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in archive: %w", name, err)
	}
	defer rc.Close()

	data, err := limitedRead(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// extractFromGzip handles plain .gz files and tar.gz archives.
func extractFromGzip(path string, extensions []string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open gzip: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gr.Close()

	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") {
		return extractFromTar(gr, newROMPicker(path, extensions))
	}

	data, err := limitedRead(gr)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decompress gzip: %w", err)
	}
	if len(data) == 0 {
		return nil, "", ErrEmptyROM
	}
	name := filepath.Base(path)
	if strings.HasSuffix(strings.ToLower(name), ".gz") {
		name = name[:len(name)-3]
	}
	return data, name, nil
}

// extractFromTar scans a tar stream for regular ROM files.
func extractFromTar(r io.Reader, picker *romPicker) ([]byte, string, error) {
	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read tar entry: %w", err)
		}
		if header.Typeflag != tar.TypeReg || !picker.wants(header.Name, false) {
			continue
		}

		data, err := limitedRead(tr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s from tar: %w", header.Name, err)
		}
		if picker.offer(header.Name, data) {
			break
		}
	}
	return picker.result()
}

// extractFromRAR scans a RAR archive for ROM entries.
func extractFromRAR(path string, extensions []string) ([]byte, string, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open rar: %w", err)
	}
	defer r.Close()

	picker := newROMPicker(path, extensions)
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read rar entry: %w", err)
		}
		if !picker.wants(header.Name, header.IsDir) {
			continue
		}

		data, err := limitedRead(r)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", header.Name, err)
		}
		if picker.offer(header.Name, data) {
			break
		}
	}
	return picker.result()
}
