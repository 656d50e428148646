package oval

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"
)

const (
	DefaultNamespace = "oval:org.open-scap.unix"
	DefinitionTitle  = "CVRF RPM Vulnerability Test"

	KindObject     = "obj"
	KindState      = "ste"
	KindTest       = "tst"
	KindDefinition = "def"

	schemaVersion = "5.11.1"
	productName   = "cvrf-eval"
)

// ID builds a synthetic identifier "<namespace>:<kind>:<n>".
func ID(namespace, kind string, n int) string {
	return fmt.Sprintf("%s:%s:%d", namespace, kind, n)
}

func NewDefinitionModel() *DefinitionModel {
	return &DefinitionModel{
		Xmlns:      nsDefinitions,
		XmlnsOval:  nsCommon,
		XmlnsLinux: nsLinux,
		Generator: Generator{
			ProductName:   productName,
			SchemaVersion: schemaVersion,
			Timestamp:     time.Now().UTC().Format("2006-01-02T15:04:05"),
		},
	}
}

func (m *DefinitionModel) AddObject(o RpminfoObject) {
	m.Objects.RpminfoObjects = append(m.Objects.RpminfoObjects, o)
}

func (m *DefinitionModel) AddState(s RpminfoState) {
	m.States.RpminfoStates = append(m.States.RpminfoStates, s)
}

func (m *DefinitionModel) AddTest(t RpminfoTest) {
	m.Tests.RpminfoTests = append(m.Tests.RpminfoTests, t)
}

func (m *DefinitionModel) AddDefinition(d Definition) {
	m.Definitions.Definitions = append(m.Definitions.Definitions, d)
}

func (m *DefinitionModel) Len() int {
	return len(m.Definitions.Definitions)
}

// Validate checks that every reference resolves to a record of the right kind.
func (m *DefinitionModel) Validate() error {
	ids := map[string]bool{}
	for _, o := range m.Objects.RpminfoObjects {
		ids[o.ID] = true
	}
	for _, s := range m.States.RpminfoStates {
		ids[s.ID] = true
	}
	for _, t := range m.Tests.RpminfoTests {
		ids[t.ID] = true
	}

	var errs *multierror.Error
	for _, t := range m.Tests.RpminfoTests {
		if !ids[t.Object.ObjectRef] {
			errs = multierror.Append(errs, xerrors.Errorf("test %s: unknown object %s", t.ID, t.Object.ObjectRef))
		}
		if !ids[t.State.StateRef] {
			errs = multierror.Append(errs, xerrors.Errorf("test %s: unknown state %s", t.ID, t.State.StateRef))
		}
	}
	for _, d := range m.Definitions.Definitions {
		for _, c := range d.Criteria.Criterions {
			if !ids[c.TestRef] {
				errs = multierror.Append(errs, xerrors.Errorf("definition %s: unknown test %s", d.ID, c.TestRef))
			}
		}
	}
	return errs.ErrorOrNil()
}

// WriteXML writes the model as an indented oval_definitions document.
func (m *DefinitionModel) WriteXML(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return xerrors.Errorf("failed to write XML header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(m); err != nil {
		return xerrors.Errorf("failed to encode OVAL definitions: %w", err)
	}
	return enc.Flush()
}

// Synthesizer turns package product ids into linked object, state, test and
// definition records. Indices start at 1 and are never reused by one
// Synthesizer, so it can be shared across several advisories.
type Synthesizer struct {
	namespace string
	last      int
}

func NewSynthesizer(namespace string) *Synthesizer {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Synthesizer{namespace: namespace}
}

func (s *Synthesizer) Namespace() string {
	return s.namespace
}

// Add writes the four records for pkg into m and returns their shared index.
// displayName is used as the state comment.
func (s *Synthesizer) Add(m *DefinitionModel, pkg Package, displayName string) int {
	s.last++
	n := s.last

	objectID := ID(s.namespace, KindObject, n)
	stateID := ID(s.namespace, KindState, n)
	testID := ID(s.namespace, KindTest, n)

	m.AddObject(RpminfoObject{
		ID:      objectID,
		Version: 1,
		Name:    pkg.Name,
	})
	m.AddState(RpminfoState{
		ID:       stateID,
		Version:  1,
		Operator: "AND",
		Comment:  displayName,
		Name:     &Entity{Text: pkg.Name, Operation: "pattern match"},
		Evr:      &Entity{Text: pkg.EVR, Datatype: "evr_string", Operation: "less than"},
	})
	m.AddTest(RpminfoTest{
		ID:             testID,
		Version:        1,
		Check:          "at least one",
		CheckExistence: "at_least_one_exists",
		Object:         ObjectRef{ObjectRef: objectID},
		State:          StateRef{StateRef: stateID},
	})
	m.AddDefinition(Definition{
		ID:       ID(s.namespace, KindDefinition, n),
		Version:  1,
		Class:    "vulnerability",
		Metadata: Metadata{Title: DefinitionTitle, Description: pkg.ProductID},
		Criteria: Criteria{
			Criterions: []Criterion{{
				TestRef: testID,
				Comment: "Check for vulnerability of package " + pkg.Name,
			}},
		},
	})
	return n
}

// Synthesize decomposes every product id against prefix and adds its
// records to m in order. Malformed ids are skipped without consuming an
// index and reported in the returned error.
func (s *Synthesizer) Synthesize(m *DefinitionModel, productIDs []string, prefix string, displayName func(productID string) (string, bool)) error {
	var errs *multierror.Error
	for _, id := range productIDs {
		pkg, err := Decompose(id, prefix)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		name := pkg.Name
		if displayName != nil {
			if n, ok := displayName(id); ok {
				name = n
			}
		}
		s.Add(m, pkg, name)
	}
	return errs.ErrorOrNil()
}
