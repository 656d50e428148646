package cvrf

import (
	"time"

	"github.com/araddon/dateparse"
	"github.com/samber/lo"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/cvrf-eval/xmlcursor"
)

func NewIndex(sourceURL, indexFile string) *Index {
	return &Index{SourceURL: sourceURL, IndexFile: indexFile}
}

func (i *Index) Add(m *Model) {
	i.Models = append(i.Models, m)
}

// ReleaseDate returns the current release date of the advisory, falling back
// to the initial release date.
func (m *Model) ReleaseDate() (time.Time, error) {
	if m.Document == nil || m.Document.Tracking == nil {
		return time.Time{}, xerrors.New("document has no tracking information")
	}
	s := m.Document.Tracking.CurrentReleaseDate
	if s == "" {
		s = m.Document.Tracking.InitialReleaseDate
	}
	if s == "" {
		return time.Time{}, xerrors.Errorf("%s: no release date", m.Identification())
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, xerrors.Errorf("%s: invalid release date %q: %w", m.Identification(), s, err)
	}
	return t, nil
}

// Since returns a new index sharing the models released at or after t.
// Models without a usable release date are dropped.
func (i *Index) Since(t time.Time) *Index {
	return &Index{
		SourceURL: i.SourceURL,
		IndexFile: i.IndexFile,
		Models: lo.Filter(i.Models, func(m *Model, _ int) bool {
			released, err := m.ReleaseDate()
			return err == nil && !released.Before(t)
		}),
	}
}

// ParseIndexBytes reads an Index document holding cvrfdoc children.
func ParseIndexBytes(b []byte) (*Index, error) {
	c, err := xmlcursor.FromBytes(b)
	if err != nil {
		return nil, xerrors.Errorf("cvrf index parse error: %w", err)
	}
	return NewParser().ParseIndex(c)
}
