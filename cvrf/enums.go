package cvrf

// enumTable maps CVRF attribute text to its enum value. Index 0 is the
// unknown value and has no text.
type enumTable []string

func (t enumTable) parse(s string) int {
	for i := 1; i < len(t); i++ {
		if t[i] == s {
			return i
		}
	}
	return 0
}

func (t enumTable) text(i int) string {
	if i <= 0 || i >= len(t) {
		return ""
	}
	return t[i]
}

type DocumentStatus int

const (
	DocumentStatusUnknown DocumentStatus = iota
	DocumentStatusDraft
	DocumentStatusInterim
	DocumentStatusFinal
)

var documentStatuses = enumTable{"", "Draft", "Interim", "Final"}

func ParseDocumentStatus(s string) DocumentStatus { return DocumentStatus(documentStatuses.parse(s)) }
func (s DocumentStatus) String() string          { return documentStatuses.text(int(s)) }

// PublisherType is shared by DocumentPublisher and Involvement parties.
type PublisherType int

const (
	PublisherUnknown PublisherType = iota
	PublisherVendor
	PublisherDiscoverer
	PublisherCoordinator
	PublisherUser
	PublisherOther
)

var publisherTypes = enumTable{"", "Vendor", "Discoverer", "Coordinator", "User", "Other"}

func ParsePublisherType(s string) PublisherType { return PublisherType(publisherTypes.parse(s)) }
func (p PublisherType) String() string         { return publisherTypes.text(int(p)) }

type BranchType int

const (
	BranchUnknown BranchType = iota
	BranchVendor
	BranchProductFamily
	BranchProductName
	BranchProductVersion
	BranchPatchLevel
	BranchServicePack
	BranchArchitecture
	BranchLanguage
	BranchLegacy
	BranchSpecification
)

var branchTypes = enumTable{
	"",
	"Vendor",
	"Product Family",
	"Product Name",
	"Product Version",
	"Patch Level",
	"Service Pack",
	"Architecture",
	"Language",
	"Legacy",
	"Specification",
}

func ParseBranchType(s string) BranchType { return BranchType(branchTypes.parse(s)) }
func (b BranchType) String() string      { return branchTypes.text(int(b)) }

// IsFamily reports whether branches of this type group other branches
// instead of naming a product.
func (b BranchType) IsFamily() bool {
	return b == BranchVendor || b == BranchProductFamily
}

type RelationshipType int

const (
	RelationshipUnknown RelationshipType = iota
	RelationshipDefaultComponentOf
	RelationshipOptionalComponentOf
	RelationshipExternalComponentOf
	RelationshipInstalledOn
	RelationshipInstalledWith
)

var relationshipTypes = enumTable{
	"",
	"Default Component Of",
	"Optional Component Of",
	"External Component Of",
	"Installed On",
	"Installed With",
}

func ParseRelationshipType(s string) RelationshipType {
	return RelationshipType(relationshipTypes.parse(s))
}
func (r RelationshipType) String() string { return relationshipTypes.text(int(r)) }

type NoteType int

const (
	NoteUnknown NoteType = iota
	NoteGeneral
	NoteDetails
	NoteDescription
	NoteSummary
	NoteFAQ
	NoteLegalDisclaimer
	NoteOther
)

var noteTypes = enumTable{"", "General", "Details", "Description", "Summary", "FAQ", "Legal Disclaimer", "Other"}

func ParseNoteType(s string) NoteType { return NoteType(noteTypes.parse(s)) }
func (n NoteType) String() string    { return noteTypes.text(int(n)) }

type ReferenceType int

const (
	ReferenceUnknown ReferenceType = iota
	ReferenceExternal
	ReferenceSelf
)

var referenceTypes = enumTable{"", "External", "Self"}

func ParseReferenceType(s string) ReferenceType { return ReferenceType(referenceTypes.parse(s)) }
func (r ReferenceType) String() string         { return referenceTypes.text(int(r)) }

type InvolvementStatus int

const (
	InvolvementUnknown InvolvementStatus = iota
	InvolvementOpen
	InvolvementDisputed
	InvolvementInProgress
	InvolvementCompleted
	InvolvementContactAttempted
	InvolvementNotContacted
)

var involvementStatuses = enumTable{
	"",
	"Open",
	"Disputed",
	"In Progress",
	"Completed",
	"Contact Attempted",
	"Not Contacted",
}

func ParseInvolvementStatus(s string) InvolvementStatus {
	return InvolvementStatus(involvementStatuses.parse(s))
}
func (i InvolvementStatus) String() string { return involvementStatuses.text(int(i)) }

type ProductStatusType int

const (
	ProductStatusUnknown ProductStatusType = iota
	ProductStatusFirstAffected
	ProductStatusKnownAffected
	ProductStatusKnownNotAffected
	ProductStatusFirstFixed
	ProductStatusFixed
	ProductStatusRecommended
	ProductStatusLastAffected
)

var productStatusTypes = enumTable{
	"",
	"First Affected",
	"Known Affected",
	"Known Not Affected",
	"First Fixed",
	"Fixed",
	"Recommended",
	"Last Affected",
}

func ParseProductStatusType(s string) ProductStatusType {
	return ProductStatusType(productStatusTypes.parse(s))
}
func (p ProductStatusType) String() string { return productStatusTypes.text(int(p)) }

// IsFixed reports whether the status states that a fix is available.
func (p ProductStatusType) IsFixed() bool {
	return p == ProductStatusFixed || p == ProductStatusFirstFixed
}

type ThreatType int

const (
	ThreatUnknown ThreatType = iota
	ThreatImpact
	ThreatExploitStatus
	ThreatTargetSet
)

var threatTypes = enumTable{"", "Impact", "Exploit Status", "Target Set"}

func ParseThreatType(s string) ThreatType { return ThreatType(threatTypes.parse(s)) }
func (t ThreatType) String() string      { return threatTypes.text(int(t)) }

type RemediationType int

const (
	RemediationUnknown RemediationType = iota
	RemediationWorkaround
	RemediationMitigation
	RemediationVendorFix
	RemediationNoneAvailable
	RemediationWillNotFix
)

var remediationTypes = enumTable{"", "Workaround", "Mitigation", "Vendor Fix", "None Available", "Will Not Fix"}

func ParseRemediationType(s string) RemediationType {
	return RemediationType(remediationTypes.parse(s))
}
func (r RemediationType) String() string { return remediationTypes.text(int(r)) }

// ItemKind identifies an entity that appears as a repeated child, usually
// wrapped in a container element.
type ItemKind int

const (
	ItemRevision ItemKind = iota
	ItemDocumentNote
	ItemNote
	ItemDocumentReference
	ItemReference
	ItemAcknowledgment
	ItemProductName
	ItemBranch
	ItemRelationship
	ItemGroup
	ItemVulnerability
	ItemCWE
	ItemInvolvement
	ItemProductStatus
	ItemThreat
	ItemScoreSet
	ItemRemediation
)

type itemTags struct {
	container string
	item      string
}

var itemKindTags = map[ItemKind]itemTags{
	ItemRevision:          {"RevisionHistory", "Revision"},
	ItemDocumentNote:      {"DocumentNotes", "Note"},
	ItemNote:              {"Notes", "Note"},
	ItemDocumentReference: {"DocumentReferences", "Reference"},
	ItemReference:         {"References", "Reference"},
	ItemAcknowledgment:    {"Acknowledgments", "Acknowledgment"},
	ItemProductName:       {"", "FullProductName"},
	ItemBranch:            {"", "Branch"},
	ItemRelationship:      {"", "Relationship"},
	ItemGroup:             {"ProductGroups", "Group"},
	ItemVulnerability:     {"", "Vulnerability"},
	ItemCWE:               {"", "CWE"},
	ItemInvolvement:       {"Involvements", "Involvement"},
	ItemProductStatus:     {"ProductStatuses", "Status"},
	ItemThreat:            {"Threats", "Threat"},
	ItemScoreSet:          {"CVSSScoreSets", "ScoreSet"},
	ItemRemediation:       {"Remediations", "Remediation"},
}

// ContainerTag returns the wrapping element name, empty for items that
// appear directly under their parent.
func (k ItemKind) ContainerTag() string { return itemKindTags[k].container }

func (k ItemKind) ItemTag() string { return itemKindTags[k].item }
