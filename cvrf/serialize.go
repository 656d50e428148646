package cvrf

import (
	"math"
	"strconv"

	"github.com/beevik/etree"
)

func addText(parent *etree.Element, tag, value string) *etree.Element {
	if value == "" {
		return nil
	}
	el := parent.CreateElement(tag)
	el.SetText(value)
	return el
}

func addAttr(el *etree.Element, key, value string) {
	if value != "" {
		el.CreateAttr(key, value)
	}
}

func addTexts(parent *etree.Element, tag string, values []string) {
	for _, v := range values {
		addText(parent, tag, v)
	}
}

func addScore(parent *etree.Element, tag string, score float64) {
	if math.IsNaN(score) {
		return
	}
	addText(parent, tag, strconv.FormatFloat(score, 'f', -1, 64))
}

// appendItems writes items of kind under parent, wrapped in the kind's
// container element when it has one. Nothing is written for an empty list.
func appendItems[T any](parent *etree.Element, kind ItemKind, items []T, toElement func(T) *etree.Element) {
	if len(items) == 0 {
		return
	}
	target := parent
	if tag := kind.ContainerTag(); tag != "" {
		target = parent.CreateElement(tag)
	}
	for _, it := range items {
		target.AddChild(toElement(it))
	}
}

// NewRoot returns an empty cvrfdoc element carrying the advisory namespace
// declarations, the title and the document type.
func NewRoot(title, docType string) *etree.Element {
	root := etree.NewElement("cvrfdoc")
	root.CreateAttr("xmlns", NamespaceCVRF)
	root.CreateAttr("xmlns:cvrf", NamespaceCVRF)
	t := root.CreateElement("DocumentTitle")
	t.CreateAttr("xml:lang", "en")
	t.SetText(title)
	addText(root, "DocumentType", docType)
	return root
}

// ToElement serializes the model into a cvrfdoc element tree.
func (m *Model) ToElement() *etree.Element {
	root := NewRoot(m.Title, m.Type)
	m.Document.AppendTo(root)
	if !m.ProductTree.IsEmpty() {
		root.AddChild(m.ProductTree.ToElement())
	}
	for _, v := range m.Vulnerabilities {
		root.AddChild(v.ToElement())
	}
	return root
}

// ToElement wraps every model of the index in an Index element.
func (i *Index) ToElement() *etree.Element {
	root := etree.NewElement("Index")
	for _, m := range i.Models {
		root.AddChild(m.ToElement())
	}
	return root
}

// AppendTo writes the document-level elements under a cvrfdoc element.
func (d *Document) AppendTo(root *etree.Element) {
	if d == nil {
		return
	}
	if d.Publisher != nil {
		root.AddChild(d.Publisher.toElement())
	}
	if d.Tracking != nil {
		root.AddChild(d.Tracking.toElement())
	}
	appendItems(root, ItemDocumentNote, d.Notes, (*Note).toElement)
	if el := addText(root, "DocumentDistribution", d.Distribution); el != nil {
		el.CreateAttr("xml:lang", "en")
	}
	if el := addText(root, "AggregateSeverity", d.AggregateSeverity); el != nil {
		addAttr(el, "Namespace", d.Namespace)
	}
	appendItems(root, ItemDocumentReference, d.References, (*Reference).toElement)
	appendItems(root, ItemAcknowledgment, d.Acknowledgments, (*Acknowledgment).toElement)
}

func (p *Publisher) toElement() *etree.Element {
	el := etree.NewElement("DocumentPublisher")
	addAttr(el, "Type", p.Type.String())
	addAttr(el, "VendorID", p.VendorID)
	addText(el, "ContactDetails", p.ContactDetails)
	addText(el, "IssuingAuthority", p.IssuingAuthority)
	return el
}

func (t *Tracking) toElement() *etree.Element {
	el := etree.NewElement("DocumentTracking")
	ident := el.CreateElement("Identification")
	addText(ident, "ID", t.ID)
	addTexts(ident, "Alias", t.Aliases)
	addText(el, "Status", t.Status.String())
	addText(el, "Version", t.Version)
	appendItems(el, ItemRevision, t.Revisions, (*Revision).toElement)
	addText(el, "InitialReleaseDate", t.InitialReleaseDate)
	addText(el, "CurrentReleaseDate", t.CurrentReleaseDate)
	if t.GeneratorEngine != "" || t.GeneratorDate != "" {
		gen := el.CreateElement("Generator")
		addText(gen, "Engine", t.GeneratorEngine)
		addText(gen, "Date", t.GeneratorDate)
	}
	return el
}

func (r *Revision) toElement() *etree.Element {
	el := etree.NewElement(ItemRevision.ItemTag())
	addText(el, "Number", r.Number)
	addText(el, "Date", r.Date)
	addText(el, "Description", r.Description)
	return el
}

func (n *Note) toElement() *etree.Element {
	el := etree.NewElement(ItemNote.ItemTag())
	addAttr(el, "Title", n.Title)
	addAttr(el, "Audience", n.Audience)
	addAttr(el, "Type", n.Type.String())
	el.CreateAttr("Ordinal", strconv.Itoa(n.Ordinal))
	el.SetText(n.Contents)
	return el
}

func (r *Reference) toElement() *etree.Element {
	el := etree.NewElement(ItemReference.ItemTag())
	addAttr(el, "Type", r.Type.String())
	addText(el, "URL", r.URL)
	addText(el, "Description", r.Description)
	return el
}

func (a *Acknowledgment) toElement() *etree.Element {
	el := etree.NewElement(ItemAcknowledgment.ItemTag())
	addTexts(el, "Name", a.Names)
	addTexts(el, "Organization", a.Organizations)
	addText(el, "Description", a.Description)
	addTexts(el, "URL", a.URLs)
	return el
}

func (t *ProductTree) IsEmpty() bool {
	return t == nil ||
		len(t.ProductNames) == 0 && len(t.Branches) == 0 && len(t.Relationships) == 0 && len(t.Groups) == 0
}

func (t *ProductTree) ToElement() *etree.Element {
	el := etree.NewElement("ProductTree")
	el.CreateAttr("xmlns", NamespaceProd)
	appendItems(el, ItemProductName, t.ProductNames, (*ProductName).toElement)
	appendItems(el, ItemBranch, t.Branches, (*Branch).toElement)
	appendItems(el, ItemRelationship, t.Relationships, (*Relationship).toElement)
	appendItems(el, ItemGroup, t.Groups, (*Group).toElement)
	return el
}

func (p *ProductName) toElement() *etree.Element {
	el := etree.NewElement(ItemProductName.ItemTag())
	addAttr(el, "ProductID", p.ProductID)
	el.SetText(p.CPE)
	return el
}

func (b *Branch) toElement() *etree.Element {
	el := etree.NewElement(ItemBranch.ItemTag())
	addAttr(el, "Type", b.Type.String())
	addAttr(el, "Name", b.Name)
	if b.IsFamily() {
		appendItems(el, ItemBranch, b.Branches, (*Branch).toElement)
	} else if b.ProductName != nil {
		el.AddChild(b.ProductName.toElement())
	}
	return el
}

func (r *Relationship) toElement() *etree.Element {
	el := etree.NewElement(ItemRelationship.ItemTag())
	addAttr(el, "ProductReference", r.ProductReference)
	addAttr(el, "RelationType", r.RelationType.String())
	addAttr(el, "RelatesToProductReference", r.RelatesToProductReference)
	if r.ProductName != nil {
		el.AddChild(r.ProductName.toElement())
	}
	return el
}

func (g *Group) toElement() *etree.Element {
	el := etree.NewElement(ItemGroup.ItemTag())
	addAttr(el, "GroupID", g.GroupID)
	addText(el, "Description", g.Description)
	addTexts(el, "ProductID", g.ProductIDs)
	return el
}

// ToElement serializes the vulnerability with its own namespace declaration.
func (v *Vulnerability) ToElement() *etree.Element {
	el := etree.NewElement(ItemVulnerability.ItemTag())
	el.CreateAttr("xmlns", NamespaceVuln)
	el.CreateAttr("Ordinal", strconv.Itoa(v.Ordinal))
	addText(el, "Title", v.Title)
	if id := addText(el, "ID", v.SystemID); id != nil {
		addAttr(id, "SystemName", v.SystemName)
	}
	appendItems(el, ItemNote, v.Notes, (*Note).toElement)
	addText(el, "DiscoveryDate", v.DiscoveryDate)
	addText(el, "ReleaseDate", v.ReleaseDate)
	appendItems(el, ItemInvolvement, v.Involvements, (*Involvement).toElement)
	addText(el, "CVE", v.CVE)
	appendItems(el, ItemCWE, v.CWEs, (*CWE).toElement)
	appendItems(el, ItemProductStatus, v.ProductStatuses, (*ProductStatus).toElement)
	appendItems(el, ItemThreat, v.Threats, (*Threat).toElement)
	appendItems(el, ItemScoreSet, v.ScoreSets, (*ScoreSet).toElement)
	appendItems(el, ItemRemediation, v.Remediations, (*Remediation).toElement)
	appendItems(el, ItemReference, v.References, (*Reference).toElement)
	appendItems(el, ItemAcknowledgment, v.Acknowledgments, (*Acknowledgment).toElement)
	return el
}

func (c *CWE) toElement() *etree.Element {
	el := etree.NewElement(ItemCWE.ItemTag())
	addAttr(el, "ID", c.ID)
	el.SetText(c.Name)
	return el
}

func (i *Involvement) toElement() *etree.Element {
	el := etree.NewElement(ItemInvolvement.ItemTag())
	addAttr(el, "Status", i.Status.String())
	addAttr(el, "Party", i.Party.String())
	addText(el, "Description", i.Description)
	return el
}

func (s *ProductStatus) toElement() *etree.Element {
	el := etree.NewElement(ItemProductStatus.ItemTag())
	addAttr(el, "Type", s.Type.String())
	addTexts(el, "ProductID", s.ProductIDs)
	return el
}

func (t *Threat) toElement() *etree.Element {
	el := etree.NewElement(ItemThreat.ItemTag())
	addAttr(el, "Type", t.Type.String())
	addAttr(el, "Date", t.Date)
	addText(el, "Description", t.Description)
	addTexts(el, "ProductID", t.ProductIDs)
	addTexts(el, "GroupID", t.GroupIDs)
	return el
}

func (s *ScoreSet) toElement() *etree.Element {
	el := etree.NewElement(ItemScoreSet.ItemTag())
	addScore(el, "BaseScore", s.BaseScore)
	addScore(el, "EnvironmentalScore", s.EnvironmentalScore)
	addScore(el, "TemporalScore", s.TemporalScore)
	addText(el, "Vector", s.Vector)
	addTexts(el, "ProductID", s.ProductIDs)
	return el
}

func (r *Remediation) toElement() *etree.Element {
	el := etree.NewElement(ItemRemediation.ItemTag())
	addAttr(el, "Type", r.Type.String())
	addAttr(el, "Date", r.Date)
	if d := addText(el, "Description", r.Description); d != nil {
		d.CreateAttr("xml:lang", "en")
	}
	addText(el, "URL", r.URL)
	addText(el, "Entitlement", r.Entitlement)
	addTexts(el, "ProductID", r.ProductIDs)
	addTexts(el, "GroupID", r.GroupIDs)
	return el
}
