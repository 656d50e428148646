package eval

import (
	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/cvrf-eval/cvrf"
	"github.com/aquasecurity/cvrf-eval/oval"
	"github.com/aquasecurity/cvrf-eval/utils"
)

// ExportResults evaluates m and writes its results document to path.
func (s *Session) ExportResults(fs afero.Fs, m *cvrf.Model, path string) (*Report, error) {
	r, err := s.Evaluate(m)
	if err != nil {
		return nil, xerrors.Errorf("failed to evaluate: %w", err)
	}
	if err = utils.NewFs(fs).WriteXML(path, r.ResultsElement()); err != nil {
		return nil, xerrors.Errorf("failed to export results: %w", err)
	}
	return r, nil
}

// ExportIndexResults evaluates every advisory of index and writes the
// aggregated results document to path.
func (s *Session) ExportIndexResults(fs afero.Fs, index *cvrf.Index, path string) (*IndexReport, error) {
	ir, err := s.EvaluateIndex(index)
	if err != nil {
		return nil, xerrors.Errorf("failed to evaluate index: %w", err)
	}
	if err = utils.NewFs(fs).WriteXML(path, ir.ResultsElement()); err != nil {
		return nil, xerrors.Errorf("failed to export index results: %w", err)
	}
	return ir, nil
}

// ExportDefinitions writes the definitions as OVAL XML, or as JSON when path
// ends in .json.
func ExportDefinitions(fs afero.Fs, defs *oval.DefinitionModel, path string) error {
	f := utils.NewFs(fs)
	if utils.IsJSON(path) {
		return f.WriteJSON(path, defs)
	}
	return f.Write(path, defs.WriteXML)
}
