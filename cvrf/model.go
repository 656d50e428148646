// Package cvrf implements the CVRF 1.1 advisory document model together with
// its parser, serializer and platform filter.
package cvrf

import "math"

const (
	NamespaceCVRF = "http://www.icasi.org/CVRF/schema/cvrf/1.1"
	NamespaceProd = "http://www.icasi.org/CVRF/schema/prod/1.1"
	NamespaceVuln = "http://www.icasi.org/CVRF/schema/vuln/1.1"
)

// Model is one advisory document (cvrfdoc).
type Model struct {
	Title           string
	Type            string
	Document        *Document
	ProductTree     *ProductTree
	Vulnerabilities []*Vulnerability
}

func NewModel() *Model {
	return &Model{Document: &Document{}, ProductTree: &ProductTree{}}
}

// Identification returns the tracking ID of the advisory.
func (m *Model) Identification() string {
	if m.Document == nil || m.Document.Tracking == nil {
		return ""
	}
	return m.Document.Tracking.ID
}

// Document holds the document-level metadata that sits between the title
// and the product tree.
type Document struct {
	Publisher         *Publisher
	Tracking          *Tracking
	Notes             []*Note
	Distribution      string
	AggregateSeverity string
	Namespace         string
	References        []*Reference
	Acknowledgments   []*Acknowledgment
}

type Publisher struct {
	Type             PublisherType
	VendorID         string
	ContactDetails   string
	IssuingAuthority string
}

type Tracking struct {
	ID                 string
	Aliases            []string
	Status             DocumentStatus
	Version            string
	Revisions          []*Revision
	InitialReleaseDate string
	CurrentReleaseDate string
	GeneratorEngine    string
	GeneratorDate      string
}

type Revision struct {
	Number      string
	Date        string
	Description string
}

type Note struct {
	Type     NoteType
	Ordinal  int
	Audience string
	Title    string
	Contents string
}

type Reference struct {
	Type        ReferenceType
	URL         string
	Description string
}

type Acknowledgment struct {
	Names         []string
	Organizations []string
	Description   string
	URLs          []string
}

type ProductTree struct {
	ProductNames  []*ProductName
	Branches      []*Branch
	Relationships []*Relationship
	Groups        []*Group
}

// ProductName is a FullProductName element. CPE holds the element text.
type ProductName struct {
	ProductID string
	CPE       string
}

// Branch is either a family node with child branches or a leaf carrying
// exactly one ProductName.
type Branch struct {
	Type        BranchType
	Name        string
	ProductName *ProductName
	Branches    []*Branch
}

func (b *Branch) IsFamily() bool {
	return b.Type.IsFamily()
}

type Relationship struct {
	ProductReference          string
	RelationType              RelationshipType
	RelatesToProductReference string
	ProductName               *ProductName
}

type Group struct {
	GroupID     string
	Description string
	ProductIDs  []string
}

type Vulnerability struct {
	Ordinal         int
	Title           string
	SystemID        string
	SystemName      string
	Notes           []*Note
	DiscoveryDate   string
	ReleaseDate     string
	Involvements    []*Involvement
	CVE             string
	CWEs            []*CWE
	ProductStatuses []*ProductStatus
	Threats         []*Threat
	ScoreSets       []*ScoreSet
	Remediations    []*Remediation
	References      []*Reference
	Acknowledgments []*Acknowledgment
}

type CWE struct {
	ID   string
	Name string
}

type Involvement struct {
	Status      InvolvementStatus
	Party       PublisherType
	Description string
}

type ProductStatus struct {
	Type       ProductStatusType
	ProductIDs []string
}

type Threat struct {
	Type        ThreatType
	Date        string
	Description string
	ProductIDs  []string
	GroupIDs    []string
}

// ScoreSet is a CVSS score set. Each score is NaN when absent.
type ScoreSet struct {
	BaseScore          float64
	TemporalScore      float64
	EnvironmentalScore float64
	Vector             string
	ProductIDs         []string
}

func NewScoreSet() *ScoreSet {
	return &ScoreSet{
		BaseScore:          math.NaN(),
		TemporalScore:      math.NaN(),
		EnvironmentalScore: math.NaN(),
	}
}

type Remediation struct {
	Type        RemediationType
	Date        string
	Description string
	URL         string
	Entitlement string
	ProductIDs  []string
	GroupIDs    []string
}

// Index is an ordered set of advisories loaded from one source.
type Index struct {
	SourceURL string
	IndexFile string
	Models    []*Model
}
