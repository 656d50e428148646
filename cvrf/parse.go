package cvrf

import (
	"math"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/cvrf-eval/xmlcursor"
)

var (
	ErrNotCVRF        = xerrors.New("root element is not cvrfdoc")
	ErrNotIndex       = xerrors.New("root element is not Index")
	ErrMissingElement = xerrors.New("missing mandatory element")
	ErrMissingAttr    = xerrors.New("missing mandatory attribute")
)

// ParseError is a non-fatal problem found while building one entity. The
// entity is dropped and parsing continues with its parent.
type ParseError struct {
	Element string
	Err     error
}

func (e *ParseError) Error() string {
	return e.Element + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parser builds models from a cursor and collects non-fatal errors.
type Parser struct {
	errs *multierror.Error
}

func NewParser() *Parser {
	return &Parser{}
}

// Errors returns the non-fatal errors collected so far, or nil.
func (p *Parser) Errors() error {
	return p.errs.ErrorOrNil()
}

func (p *Parser) record(element string, err error) {
	p.errs = multierror.Append(p.errs, &ParseError{Element: element, Err: err})
}

// Parse builds a Model from a cursor positioned on a cvrfdoc element.
// Non-fatal errors are discarded; use a Parser to inspect them.
func Parse(c *xmlcursor.Cursor) (*Model, error) {
	return NewParser().ParseModel(c)
}

func ParseBytes(b []byte) (*Model, error) {
	c, err := xmlcursor.FromBytes(b)
	if err != nil {
		return nil, xerrors.Errorf("cvrf parse error: %w", err)
	}
	return Parse(c)
}

func ParseFile(fs afero.Fs, path string) (*Model, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, xerrors.Errorf("failed to read %s: %w", path, err)
	}
	m, err := ParseBytes(b)
	if err != nil {
		return nil, xerrors.Errorf("failed to parse %s: %w", path, err)
	}
	return m, nil
}

type itemParser func(p *Parser, c *xmlcursor.Cursor) (any, error)

func item[T any](fn func(*Parser, *xmlcursor.Cursor) (T, error)) itemParser {
	return func(p *Parser, c *xmlcursor.Cursor) (any, error) {
		v, err := fn(p, c)
		return v, err
	}
}

var itemParsers map[ItemKind]itemParser

func init() {
	itemParsers = map[ItemKind]itemParser{
		ItemRevision:          item(parseRevision),
		ItemDocumentNote:      item(parseNote),
		ItemNote:              item(parseNote),
		ItemDocumentReference: item(parseReference),
		ItemReference:         item(parseReference),
		ItemAcknowledgment:    item(parseAcknowledgment),
		ItemProductName:       item(parseProductName),
		ItemBranch:            item(parseBranch),
		ItemRelationship:      item(parseRelationship),
		ItemGroup:             item(parseGroup),
		ItemVulnerability:     item(parseVulnerability),
		ItemCWE:               item(parseCWE),
		ItemInvolvement:       item(parseInvolvement),
		ItemProductStatus:     item(parseProductStatus),
		ItemThreat:            item(parseThreat),
		ItemScoreSet:          item(parseScoreSet),
		ItemRemediation:       item(parseRemediation),
	}
}

// children visits the start tags nested in the element under the cursor and
// leaves the cursor after its end tag. fn returns true when it consumed the
// element; anything else is descended into.
func children(c *xmlcursor.Cursor, fn func(local string) bool) {
	if !c.IsElement() {
		c.Next()
		return
	}
	depth := c.Depth()
	c.Next()
	for !c.EOF() {
		if c.AtEndOf(depth) {
			c.Next()
			return
		}
		if c.IsElement() && fn(c.Local()) {
			continue
		}
		c.Next()
	}
}

// drain moves the cursor past the end tag at depth.
func drain(c *xmlcursor.Cursor, depth int) {
	for !c.EOF() && !c.AtEndOf(depth) {
		c.Next()
	}
	c.Next()
}

func text(c *xmlcursor.Cursor) string {
	s := c.Text()
	c.Skip()
	return s
}

func parseOrdinal(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func parseScore(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// parseItem parses a single item of kind under the cursor.
func parseItem[T any](p *Parser, c *xmlcursor.Cursor, kind ItemKind) (T, bool) {
	var zero T
	v, err := itemParsers[kind](p, c)
	if err != nil {
		p.record(kind.ItemTag(), err)
		return zero, false
	}
	return v.(T), true
}

// parseItems parses consecutive items of kind until a different start tag or
// the end of the parent at parentDepth. A failing item stops the loop.
func parseItems[T any](p *Parser, c *xmlcursor.Cursor, kind ItemKind, parentDepth int) []T {
	var items []T
	for !c.EOF() && !c.AtEndOf(parentDepth) {
		if !c.IsElement() {
			c.Next()
			continue
		}
		if c.Local() != kind.ItemTag() {
			break
		}
		v, ok := parseItem[T](p, c, kind)
		if !ok {
			break
		}
		items = append(items, v)
	}
	return items
}

// parseContainer parses the wrapper element under the cursor and its items.
func parseContainer[T any](p *Parser, c *xmlcursor.Cursor, kind ItemKind) []T {
	depth := c.Depth()
	c.Next()
	items := parseItems[T](p, c, kind, depth)
	drain(c, depth)
	return items
}

// ParseModel builds a Model from a cursor positioned on a cvrfdoc element.
func (p *Parser) ParseModel(c *xmlcursor.Cursor) (*Model, error) {
	if !c.IsElementNamed("cvrfdoc") {
		return nil, xerrors.Errorf("%s: %w", c.Local(), ErrNotCVRF)
	}

	m := NewModel()
	doc := m.Document
	children(c, func(local string) bool {
		switch local {
		case "DocumentTitle":
			m.Title = text(c)
		case "DocumentType":
			m.Type = text(c)
		case "DocumentPublisher":
			if pub, ok := p.parsePublisher(c); ok {
				doc.Publisher = pub
			}
		case "DocumentTracking":
			if t, ok := p.parseTracking(c); ok {
				doc.Tracking = t
			}
		case "DocumentNotes":
			doc.Notes = parseContainer[*Note](p, c, ItemDocumentNote)
		case "DocumentDistribution":
			doc.Distribution = text(c)
		case "AggregateSeverity":
			doc.Namespace = c.AttrValue("Namespace")
			doc.AggregateSeverity = text(c)
		case "DocumentReferences":
			doc.References = parseContainer[*Reference](p, c, ItemDocumentReference)
		case "Acknowledgments":
			doc.Acknowledgments = parseContainer[*Acknowledgment](p, c, ItemAcknowledgment)
		case "ProductTree":
			if tree := p.parseProductTree(c); tree != nil {
				m.ProductTree = tree
			}
		case "Vulnerability":
			if v, ok := parseItem[*Vulnerability](p, c, ItemVulnerability); ok {
				m.Vulnerabilities = append(m.Vulnerabilities, v)
			}
		default:
			return false
		}
		return true
	})
	return m, nil
}

// ParseIndex builds an Index from a cursor positioned on an Index element
// holding cvrfdoc children.
func (p *Parser) ParseIndex(c *xmlcursor.Cursor) (*Index, error) {
	if !c.IsElementNamed("Index") {
		return nil, xerrors.Errorf("%s: %w", c.Local(), ErrNotIndex)
	}
	index := &Index{}
	var err error
	children(c, func(local string) bool {
		if local != "cvrfdoc" || err != nil {
			return false
		}
		var m *Model
		if m, err = p.ParseModel(c); err == nil {
			index.Models = append(index.Models, m)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return index, nil
}

func (p *Parser) parsePublisher(c *xmlcursor.Cursor) (*Publisher, bool) {
	pub := &Publisher{
		Type:     ParsePublisherType(c.AttrValue("Type")),
		VendorID: c.AttrValue("VendorID"),
	}
	children(c, func(local string) bool {
		switch local {
		case "ContactDetails":
			pub.ContactDetails = text(c)
		case "IssuingAuthority":
			pub.IssuingAuthority = text(c)
		default:
			return false
		}
		return true
	})
	if *pub == (Publisher{}) {
		p.record("DocumentPublisher", ErrMissingAttr)
		return nil, false
	}
	return pub, true
}

func (p *Parser) parseTracking(c *xmlcursor.Cursor) (*Tracking, bool) {
	t := &Tracking{}
	children(c, func(local string) bool {
		switch local {
		case "Identification":
			children(c, func(local string) bool {
				switch local {
				case "ID":
					t.ID = text(c)
				case "Alias":
					t.Aliases = append(t.Aliases, text(c))
				default:
					return false
				}
				return true
			})
		case "Status":
			t.Status = ParseDocumentStatus(text(c))
		case "Version":
			t.Version = text(c)
		case "RevisionHistory":
			t.Revisions = parseContainer[*Revision](p, c, ItemRevision)
		case "InitialReleaseDate":
			t.InitialReleaseDate = text(c)
		case "CurrentReleaseDate":
			t.CurrentReleaseDate = text(c)
		case "Generator":
			children(c, func(local string) bool {
				switch local {
				case "Engine":
					t.GeneratorEngine = text(c)
				case "Date":
					t.GeneratorDate = text(c)
				default:
					return false
				}
				return true
			})
		default:
			return false
		}
		return true
	})
	if t.ID == "" {
		p.record("DocumentTracking", xerrors.Errorf("Identification/ID: %w", ErrMissingElement))
		return nil, false
	}
	return t, true
}

func parseRevision(_ *Parser, c *xmlcursor.Cursor) (*Revision, error) {
	r := &Revision{}
	children(c, func(local string) bool {
		switch local {
		case "Number":
			r.Number = text(c)
		case "Date":
			r.Date = text(c)
		case "Description":
			r.Description = text(c)
		default:
			return false
		}
		return true
	})
	return r, nil
}

func parseNote(_ *Parser, c *xmlcursor.Cursor) (*Note, error) {
	n := &Note{
		Type:     ParseNoteType(c.AttrValue("Type")),
		Ordinal:  parseOrdinal(c.AttrValue("Ordinal")),
		Audience: c.AttrValue("Audience"),
		Title:    c.AttrValue("Title"),
		Contents: c.Text(),
	}
	c.Skip()
	if n.Contents == "" {
		return nil, xerrors.Errorf("note contents: %w", ErrMissingElement)
	}
	return n, nil
}

func parseReference(_ *Parser, c *xmlcursor.Cursor) (*Reference, error) {
	r := &Reference{Type: ParseReferenceType(c.AttrValue("Type"))}
	children(c, func(local string) bool {
		switch local {
		case "URL":
			r.URL = text(c)
		case "Description":
			r.Description = text(c)
		default:
			return false
		}
		return true
	})
	return r, nil
}

func parseAcknowledgment(_ *Parser, c *xmlcursor.Cursor) (*Acknowledgment, error) {
	a := &Acknowledgment{}
	children(c, func(local string) bool {
		switch local {
		case "Name":
			a.Names = append(a.Names, text(c))
		case "Organization":
			a.Organizations = append(a.Organizations, text(c))
		case "Description":
			a.Description = text(c)
		case "URL":
			a.URLs = append(a.URLs, text(c))
		default:
			return false
		}
		return true
	})
	return a, nil
}

func (p *Parser) parseProductTree(c *xmlcursor.Cursor) *ProductTree {
	tree := &ProductTree{}
	children(c, func(local string) bool {
		switch local {
		case "FullProductName":
			if pn, ok := parseItem[*ProductName](p, c, ItemProductName); ok {
				tree.ProductNames = append(tree.ProductNames, pn)
			}
		case "Branch":
			if b, ok := parseItem[*Branch](p, c, ItemBranch); ok {
				tree.Branches = append(tree.Branches, b)
			}
		case "Relationship":
			if r, ok := parseItem[*Relationship](p, c, ItemRelationship); ok {
				tree.Relationships = append(tree.Relationships, r)
			}
		case "ProductGroups":
			tree.Groups = parseContainer[*Group](p, c, ItemGroup)
		default:
			return false
		}
		return true
	})
	if len(tree.ProductNames) == 0 && len(tree.Branches) == 0 && len(tree.Relationships) == 0 && len(tree.Groups) == 0 {
		p.record("ProductTree", ErrMissingElement)
		return nil
	}
	return tree
}

func parseProductName(_ *Parser, c *xmlcursor.Cursor) (*ProductName, error) {
	pn := &ProductName{ProductID: c.AttrValue("ProductID"), CPE: c.Text()}
	c.Skip()
	if pn.ProductID == "" {
		return nil, xerrors.Errorf("ProductID: %w", ErrMissingAttr)
	}
	return pn, nil
}

func parseBranch(p *Parser, c *xmlcursor.Cursor) (*Branch, error) {
	b := &Branch{
		Type: ParseBranchType(c.AttrValue("Type")),
		Name: c.AttrValue("Name"),
	}

	if b.IsFamily() {
		depth := c.Depth()
		c.Next()
		b.Branches = parseItems[*Branch](p, c, ItemBranch, depth)
		drain(c, depth)
		return b, nil
	}

	var err error
	children(c, func(local string) bool {
		if local != "FullProductName" || b.ProductName != nil || err != nil {
			return false
		}
		b.ProductName, err = parseProductName(p, c)
		return true
	})
	if err != nil {
		return nil, xerrors.Errorf("branch %q: %w", b.Name, err)
	}
	if b.ProductName == nil {
		return nil, xerrors.Errorf("branch %q FullProductName: %w", b.Name, ErrMissingElement)
	}
	return b, nil
}

func parseRelationship(p *Parser, c *xmlcursor.Cursor) (*Relationship, error) {
	r := &Relationship{
		ProductReference:          c.AttrValue("ProductReference"),
		RelationType:              ParseRelationshipType(c.AttrValue("RelationType")),
		RelatesToProductReference: c.AttrValue("RelatesToProductReference"),
	}
	var err error
	children(c, func(local string) bool {
		if local != "FullProductName" || r.ProductName != nil || err != nil {
			return false
		}
		r.ProductName, err = parseProductName(p, c)
		return true
	})
	if err != nil {
		return nil, xerrors.Errorf("relationship %q: %w", r.ProductReference, err)
	}
	if r.ProductName == nil {
		return nil, xerrors.Errorf("relationship %q FullProductName: %w", r.ProductReference, ErrMissingElement)
	}
	return r, nil
}

func parseGroup(_ *Parser, c *xmlcursor.Cursor) (*Group, error) {
	g := &Group{GroupID: c.AttrValue("GroupID")}
	children(c, func(local string) bool {
		switch local {
		case "Description":
			g.Description = text(c)
		case "ProductID":
			g.ProductIDs = append(g.ProductIDs, text(c))
		default:
			return false
		}
		return true
	})
	return g, nil
}

func parseVulnerability(p *Parser, c *xmlcursor.Cursor) (*Vulnerability, error) {
	v := &Vulnerability{Ordinal: parseOrdinal(c.AttrValue("Ordinal"))}
	children(c, func(local string) bool {
		switch local {
		case "Title":
			v.Title = text(c)
		case "ID":
			v.SystemName = c.AttrValue("SystemName")
			v.SystemID = text(c)
		case "Notes":
			v.Notes = parseContainer[*Note](p, c, ItemNote)
		case "DiscoveryDate":
			v.DiscoveryDate = text(c)
		case "ReleaseDate":
			v.ReleaseDate = text(c)
		case "Involvements":
			v.Involvements = parseContainer[*Involvement](p, c, ItemInvolvement)
		case "CVE":
			v.CVE = text(c)
		case "CWE":
			if cwe, ok := parseItem[*CWE](p, c, ItemCWE); ok {
				v.CWEs = append(v.CWEs, cwe)
			}
		case "ProductStatuses":
			v.ProductStatuses = append(v.ProductStatuses, parseContainer[*ProductStatus](p, c, ItemProductStatus)...)
		case "Status":
			if s, ok := parseItem[*ProductStatus](p, c, ItemProductStatus); ok {
				v.ProductStatuses = append(v.ProductStatuses, s)
			}
		case "Threats":
			v.Threats = parseContainer[*Threat](p, c, ItemThreat)
		case "CVSSScoreSets":
			v.ScoreSets = parseContainer[*ScoreSet](p, c, ItemScoreSet)
		case "Remediations":
			v.Remediations = parseContainer[*Remediation](p, c, ItemRemediation)
		case "References":
			v.References = parseContainer[*Reference](p, c, ItemReference)
		case "Acknowledgments":
			v.Acknowledgments = parseContainer[*Acknowledgment](p, c, ItemAcknowledgment)
		default:
			return false
		}
		return true
	})
	return v, nil
}

func parseCWE(_ *Parser, c *xmlcursor.Cursor) (*CWE, error) {
	cwe := &CWE{ID: c.AttrValue("ID"), Name: c.Text()}
	c.Skip()
	return cwe, nil
}

func parseInvolvement(_ *Parser, c *xmlcursor.Cursor) (*Involvement, error) {
	i := &Involvement{
		Status: ParseInvolvementStatus(c.AttrValue("Status")),
		Party:  ParsePublisherType(c.AttrValue("Party")),
	}
	children(c, func(local string) bool {
		if local != "Description" {
			return false
		}
		i.Description = text(c)
		return true
	})
	return i, nil
}

func parseProductStatus(_ *Parser, c *xmlcursor.Cursor) (*ProductStatus, error) {
	s := &ProductStatus{Type: ParseProductStatusType(c.AttrValue("Type"))}
	children(c, func(local string) bool {
		if local != "ProductID" {
			return false
		}
		s.ProductIDs = append(s.ProductIDs, text(c))
		return true
	})
	return s, nil
}

func parseThreat(_ *Parser, c *xmlcursor.Cursor) (*Threat, error) {
	t := &Threat{
		Type: ParseThreatType(c.AttrValue("Type")),
		Date: c.AttrValue("Date"),
	}
	children(c, func(local string) bool {
		switch local {
		case "Description":
			t.Description = text(c)
		case "ProductID":
			t.ProductIDs = append(t.ProductIDs, text(c))
		case "GroupID":
			t.GroupIDs = append(t.GroupIDs, text(c))
		default:
			return false
		}
		return true
	})
	return t, nil
}

func parseScoreSet(_ *Parser, c *xmlcursor.Cursor) (*ScoreSet, error) {
	s := NewScoreSet()
	children(c, func(local string) bool {
		switch local {
		case "BaseScore":
			s.BaseScore = parseScore(text(c))
		case "EnvironmentalScore":
			s.EnvironmentalScore = parseScore(text(c))
		case "TemporalScore":
			s.TemporalScore = parseScore(text(c))
		case "Vector":
			s.Vector = text(c)
		case "ProductID":
			s.ProductIDs = append(s.ProductIDs, text(c))
		default:
			return false
		}
		return true
	})
	return s, nil
}

func parseRemediation(_ *Parser, c *xmlcursor.Cursor) (*Remediation, error) {
	r := &Remediation{
		Type: ParseRemediationType(c.AttrValue("Type")),
		Date: c.AttrValue("Date"),
	}
	children(c, func(local string) bool {
		switch local {
		case "Description":
			r.Description = text(c)
		case "URL":
			r.URL = text(c)
		case "Entitlement":
			r.Entitlement = text(c)
		case "ProductID":
			r.ProductIDs = append(r.ProductIDs, text(c))
		case "GroupID":
			r.GroupIDs = append(r.GroupIDs, text(c))
		default:
			return false
		}
		return true
	})
	return r, nil
}
