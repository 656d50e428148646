// Package eval narrows advisories to one platform, synthesizes OVAL
// definitions for the affected packages and assembles FIXED/VULNERABLE
// results.
package eval

import (
	"log"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/cvrf-eval/cvrf"
	"github.com/aquasecurity/cvrf-eval/oval"
)

type Option func(*Session)

func WithPlatform(platform string) Option {
	return func(s *Session) {
		s.platform = platform
	}
}

// WithNamespace sets the namespace of synthesized OVAL ids.
func WithNamespace(namespace string) Option {
	return func(s *Session) {
		s.namespace = namespace
	}
}

// WithStatusAware makes results treat a product as FIXED only when it is
// listed under a Fixed or First Fixed status.
func WithStatusAware(statusAware bool) Option {
	return func(s *Session) {
		s.statusAware = statusAware
	}
}

// WithProgress shows a progress bar while evaluating an index.
func WithProgress(progress bool) Option {
	return func(s *Session) {
		s.progress = progress
	}
}

// Session evaluates advisories against a single platform. OVAL ids are
// numbered from 1 within each definition model the session fills.
type Session struct {
	platform    string
	namespace   string
	statusAware bool
	progress    bool
}

func NewSession(opts ...Option) *Session {
	s := &Session{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Platform() string {
	return s.platform
}

// Evaluate filters a copy of m to the session platform and synthesizes
// definitions for the platform's packages. m itself is not modified.
func (s *Session) Evaluate(m *cvrf.Model) (*Report, error) {
	return s.evaluate(m, oval.NewDefinitionModel(), oval.NewSynthesizer(s.namespace))
}

func (s *Session) evaluate(m *cvrf.Model, defs *oval.DefinitionModel, synthesizer *oval.Synthesizer) (*Report, error) {
	if s.platform == "" {
		return nil, xerrors.New("no platform given")
	}

	working := m.Clone()
	filtered, err := working.FilterByPlatform(s.platform)
	if err != nil {
		return nil, xerrors.Errorf("%s: %w", m.Identification(), err)
	}

	r := &Report{
		Model:       working,
		Platform:    s.platform,
		ProductID:   filtered.ProductID,
		ProductIDs:  working.ProductTree.ProductIDs(),
		Filter:      filtered,
		Definitions: defs,
		statusAware: s.statusAware,
	}
	r.Warnings = synthesizer.Synthesize(defs, r.ProductIDs, filtered.ProductID, working.ProductTree.PackageName)
	return r, nil
}

// EvaluateIndex evaluates every advisory of the index. Advisories that do not
// apply to the platform are skipped; all definitions go into one model.
func (s *Session) EvaluateIndex(index *cvrf.Index) (*IndexReport, error) {
	if s.platform == "" {
		return nil, xerrors.New("no platform given")
	}

	ir := &IndexReport{Platform: s.platform, Definitions: oval.NewDefinitionModel()}
	synthesizer := oval.NewSynthesizer(s.namespace)
	var bar *pb.ProgressBar
	if s.progress {
		bar = pb.StartNew(len(index.Models))
	}
	for _, m := range index.Models {
		r, err := s.evaluate(m, ir.Definitions, synthesizer)
		switch {
		case err != nil:
			log.Printf("skip %s: %s", m.Identification(), err)
			ir.Skipped = append(ir.Skipped, m.Identification())
		default:
			if r.Warnings != nil {
				log.Printf("%s: %s", m.Identification(), r.Warnings)
			}
			ir.Reports = append(ir.Reports, r)
		}
		if bar != nil {
			bar.Increment()
		}
	}
	if bar != nil {
		bar.Finish()
	}
	return ir, nil
}
