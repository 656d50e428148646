package eval

import (
	"github.com/beevik/etree"
	"github.com/samber/lo"

	"github.com/aquasecurity/cvrf-eval/cvrf"
	"github.com/aquasecurity/cvrf-eval/oval"
)

const (
	StatusFixed      = "FIXED"
	StatusVulnerable = "VULNERABLE"
)

// Report is the outcome of evaluating one advisory.
type Report struct {
	// Model is the advisory narrowed to the platform.
	Model      *cvrf.Model
	Platform   string
	ProductID  string
	ProductIDs []string
	Filter     *cvrf.FilterResult
	// Definitions may be shared with other reports of the same index.
	Definitions *oval.DefinitionModel
	// Warnings holds product ids that could not be turned into definitions.
	Warnings error

	statusAware bool
}

// Fixed reports whether productID appears in any product status of v,
// whatever the status type.
func Fixed(v *cvrf.Vulnerability, productID string) bool {
	return lo.ContainsBy(v.ProductStatuses, func(s *cvrf.ProductStatus) bool {
		return lo.Contains(s.ProductIDs, productID)
	})
}

// FixedByStatus reports whether productID is listed under a status stating
// that a fix is available.
func FixedByStatus(v *cvrf.Vulnerability, productID string) bool {
	return lo.ContainsBy(v.ProductStatuses, func(s *cvrf.ProductStatus) bool {
		return s.Type.IsFixed() && lo.Contains(s.ProductIDs, productID)
	})
}

func (r *Report) Status(v *cvrf.Vulnerability, productID string) string {
	fixed := Fixed
	if r.statusAware {
		fixed = FixedByStatus
	}
	if fixed(v, productID) {
		return StatusFixed
	}
	return StatusVulnerable
}

// ResultsElement builds the results document: the advisory without its
// product tree, with a Results element appended to every vulnerability.
func (r *Report) ResultsElement() *etree.Element {
	m := r.Model
	root := cvrf.NewRoot(m.Title, m.Type)
	m.Document.AppendTo(root)
	for _, v := range m.Vulnerabilities {
		el := v.ToElement()
		results := el.CreateElement("Results")
		for _, id := range r.ProductIDs {
			result := results.CreateElement("Result")
			result.CreateElement("ProductID").SetText(id)
			result.CreateElement("VulnerabilityStatus").SetText(r.Status(v, id))
		}
		root.AddChild(el)
	}
	return root
}

// IndexReport is the outcome of evaluating every advisory of an index.
type IndexReport struct {
	Platform    string
	Reports     []*Report
	Skipped     []string
	Definitions *oval.DefinitionModel
}

// ResultsElement wraps the results document of every evaluated advisory in
// an Index element.
func (ir *IndexReport) ResultsElement() *etree.Element {
	root := etree.NewElement("Index")
	for _, r := range ir.Reports {
		root.AddChild(r.ResultsElement())
	}
	return root
}
