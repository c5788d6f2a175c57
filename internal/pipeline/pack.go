package pipeline

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/creachadair/atomicfile"
)

// PackSuffix is appended to the primary base name for multi-file results.
const PackSuffix = "_pack.zip"

// PackName returns <base>_pack.zip.
func PackName(base string) string {
	return base + PackSuffix
}

// Pack zips files flat into dest. dest only appears once complete.
func Pack(files []string, dest string) error {
	return atomicfile.Tx(dest, 0644, func(f *atomicfile.File) error {
		zw := zip.NewWriter(f)
		for _, path := range files {
			if err := addToZip(zw, path); err != nil {
				return err
			}
		}
		return zw.Close()
	})
}

func addToZip(zw *zip.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("pack %s: %w", filepath.Base(path), err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = filepath.Base(path)
	// media is already compressed
	header.Method = zip.Store

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
