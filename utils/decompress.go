package utils

import (
	"bytes"
	"compress/bzip2"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"golang.org/x/xerrors"
)

// Decompress inflates b according to the extension of name. Data with an
// unrecognized extension is returned as is.
func Decompress(name string, b []byte) ([]byte, error) {
	var r io.Reader
	switch strings.ToLower(filepath.Ext(name)) {
	case ".bz2":
		r = bzip2.NewReader(bytes.NewReader(b))
	case ".xz":
		xr, err := xz.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, xerrors.Errorf("xz error: %w", err)
		}
		r = xr
	case ".zst":
		zr, err := zstd.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, xerrors.Errorf("zstd error: %w", err)
		}
		defer zr.Close()
		r = zr
	default:
		return b, nil
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, xerrors.Errorf("failed to decompress %s: %w", name, err)
	}
	return out, nil
}

// TrimExt removes a compression extension from name.
func TrimExt(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".bz2", ".xz", ".zst":
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}
