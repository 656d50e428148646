package cvrf

import "github.com/samber/lo"

type cloner[T any] interface {
	Clone() T
}

func cloneAll[T cloner[T]](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	return lo.Map(items, func(item T, _ int) T { return item.Clone() })
}

func cloneStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return append([]string(nil), s...)
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	if m == nil {
		return nil
	}
	return &Model{
		Title:           m.Title,
		Type:            m.Type,
		Document:        m.Document.Clone(),
		ProductTree:     m.ProductTree.Clone(),
		Vulnerabilities: cloneAll(m.Vulnerabilities),
	}
}

func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	return &Document{
		Publisher:         d.Publisher.Clone(),
		Tracking:          d.Tracking.Clone(),
		Notes:             cloneAll(d.Notes),
		Distribution:      d.Distribution,
		AggregateSeverity: d.AggregateSeverity,
		Namespace:         d.Namespace,
		References:        cloneAll(d.References),
		Acknowledgments:   cloneAll(d.Acknowledgments),
	}
}

func (p *Publisher) Clone() *Publisher {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func (t *Tracking) Clone() *Tracking {
	if t == nil {
		return nil
	}
	c := *t
	c.Aliases = cloneStrings(t.Aliases)
	c.Revisions = cloneAll(t.Revisions)
	return &c
}

func (r *Revision) Clone() *Revision {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

func (n *Note) Clone() *Note {
	if n == nil {
		return nil
	}
	c := *n
	return &c
}

func (r *Reference) Clone() *Reference {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

func (a *Acknowledgment) Clone() *Acknowledgment {
	if a == nil {
		return nil
	}
	return &Acknowledgment{
		Names:         cloneStrings(a.Names),
		Organizations: cloneStrings(a.Organizations),
		Description:   a.Description,
		URLs:          cloneStrings(a.URLs),
	}
}

func (t *ProductTree) Clone() *ProductTree {
	if t == nil {
		return nil
	}
	return &ProductTree{
		ProductNames:  cloneAll(t.ProductNames),
		Branches:      cloneAll(t.Branches),
		Relationships: cloneAll(t.Relationships),
		Groups:        cloneAll(t.Groups),
	}
}

func (p *ProductName) Clone() *ProductName {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func (b *Branch) Clone() *Branch {
	if b == nil {
		return nil
	}
	return &Branch{
		Type:        b.Type,
		Name:        b.Name,
		ProductName: b.ProductName.Clone(),
		Branches:    cloneAll(b.Branches),
	}
}

func (r *Relationship) Clone() *Relationship {
	if r == nil {
		return nil
	}
	c := *r
	c.ProductName = r.ProductName.Clone()
	return &c
}

func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	return &Group{GroupID: g.GroupID, Description: g.Description, ProductIDs: cloneStrings(g.ProductIDs)}
}

func (v *Vulnerability) Clone() *Vulnerability {
	if v == nil {
		return nil
	}
	c := *v
	c.Notes = cloneAll(v.Notes)
	c.Involvements = cloneAll(v.Involvements)
	c.CWEs = cloneAll(v.CWEs)
	c.ProductStatuses = cloneAll(v.ProductStatuses)
	c.Threats = cloneAll(v.Threats)
	c.ScoreSets = cloneAll(v.ScoreSets)
	c.Remediations = cloneAll(v.Remediations)
	c.References = cloneAll(v.References)
	c.Acknowledgments = cloneAll(v.Acknowledgments)
	return &c
}

func (c *CWE) Clone() *CWE {
	if c == nil {
		return nil
	}
	n := *c
	return &n
}

func (i *Involvement) Clone() *Involvement {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

func (s *ProductStatus) Clone() *ProductStatus {
	if s == nil {
		return nil
	}
	return &ProductStatus{Type: s.Type, ProductIDs: cloneStrings(s.ProductIDs)}
}

func (t *Threat) Clone() *Threat {
	if t == nil {
		return nil
	}
	c := *t
	c.ProductIDs = cloneStrings(t.ProductIDs)
	c.GroupIDs = cloneStrings(t.GroupIDs)
	return &c
}

func (s *ScoreSet) Clone() *ScoreSet {
	if s == nil {
		return nil
	}
	c := *s
	c.ProductIDs = cloneStrings(s.ProductIDs)
	return &c
}

func (r *Remediation) Clone() *Remediation {
	if r == nil {
		return nil
	}
	c := *r
	c.ProductIDs = cloneStrings(r.ProductIDs)
	c.GroupIDs = cloneStrings(r.GroupIDs)
	return &c
}

func (i *Index) Clone() *Index {
	if i == nil {
		return nil
	}
	return &Index{SourceURL: i.SourceURL, IndexFile: i.IndexFile, Models: cloneAll(i.Models)}
}
