package utils

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/beevik/etree"
	"golang.org/x/xerrors"

	"github.com/spf13/afero"
)

type Fs struct {
	AppFs afero.Fs
}

func NewFs(appFs afero.Fs) Fs {
	return Fs{AppFs: appFs}
}

// Write creates filePath, along with its parent directories, and fills it
// with whatever write produces.
func (fs Fs) Write(filePath string, write func(io.Writer) error) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := fs.AppFs.MkdirAll(dir, 0755); err != nil {
			return xerrors.Errorf("failed to create %s: %w", dir, err)
		}
	}

	f, err := fs.AppFs.Create(filePath)
	if err != nil {
		return xerrors.Errorf("unable to open a file: %w", err)
	}
	defer f.Close()

	if err = write(f); err != nil {
		return xerrors.Errorf("failed to save a file: %w", err)
	}
	return nil
}

func (fs Fs) WriteJSON(filePath string, data interface{}) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return xerrors.Errorf("failed to marshal JSON: %w", err)
	}

	return fs.Write(filePath, func(w io.Writer) error {
		_, err := w.Write(b)
		return err
	})
}

// WriteXML writes root as an indented XML document with a declaration.
func (fs Fs) WriteXML(filePath string, root *etree.Element) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.AddChild(root.Copy())
	doc.Indent(2)

	return fs.Write(filePath, func(w io.Writer) error {
		_, err := doc.WriteTo(w)
		return err
	})
}

func (fs Fs) ReadFile(filePath string) ([]byte, error) {
	b, err := afero.ReadFile(fs.AppFs, filePath)
	if err != nil {
		return nil, xerrors.Errorf("failed to read %s: %w", filePath, err)
	}
	return b, nil
}
