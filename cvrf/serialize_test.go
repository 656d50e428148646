package cvrf_test

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/kylelemons/godebug/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasecurity/cvrf-eval/cvrf"
	"github.com/aquasecurity/cvrf-eval/xmlcursor"
)

func roundTrip(t *testing.T, m *cvrf.Model) *cvrf.Model {
	t.Helper()
	doc := etree.NewDocument()
	doc.SetRoot(m.ToElement())
	doc.Indent(2)
	b, err := doc.WriteToBytes()
	require.NoError(t, err)

	got, err := cvrf.ParseBytes(b)
	require.NoError(t, err)
	return got
}

func TestModel_ToElement_RoundTrip(t *testing.T) {
	m := loadModel(t, "testdata/rhsa-2017-3263.xml")

	got := roundTrip(t, m)
	if diff := pretty.Compare(m, got); diff != "" {
		t.Errorf("round trip diff: (-want +got)\n%s", diff)
	}

	// without going through bytes
	p := cvrf.NewParser()
	direct, err := p.ParseModel(xmlcursor.New(m.ToElement()))
	require.NoError(t, err)
	assert.NoError(t, p.Errors())
	if diff := pretty.Compare(m, direct); diff != "" {
		t.Errorf("element round trip diff: (-want +got)\n%s", diff)
	}
}

func TestModel_ToElement_ScorePrecision(t *testing.T) {
	m := loadModel(t, "testdata/rhsa-2017-3263.xml")
	s := m.Vulnerabilities[0].ScoreSets[0]
	s.BaseScore = 5.3123456789
	s.TemporalScore = 0.1

	got := roundTrip(t, m)
	assert.Equal(t, 5.3123456789, got.Vulnerabilities[0].ScoreSets[0].BaseScore)
	assert.Equal(t, 0.1, got.Vulnerabilities[0].ScoreSets[0].TemporalScore)
	assert.Equal(t, "5.3123456789", m.Vulnerabilities[0].ToElement().FindElement("CVSSScoreSets/ScoreSet/BaseScore").Text())
}

func TestModel_ToElement_Sparse(t *testing.T) {
	m := cvrf.NewModel()
	m.Title = "sparse"
	v := &cvrf.Vulnerability{Ordinal: 3, CVE: "CVE-2024-0001"}
	s := cvrf.NewScoreSet()
	s.TemporalScore = 4.2
	v.ScoreSets = []*cvrf.ScoreSet{s}
	m.Vulnerabilities = []*cvrf.Vulnerability{v}

	root := m.ToElement()
	assert.Nil(t, root.FindElement("ProductTree"))
	assert.Nil(t, root.FindElement("DocumentType"))
	assert.Nil(t, root.FindElement("DocumentTracking"))
	assert.Equal(t, "en", root.FindElement("DocumentTitle").SelectAttrValue("xml:lang", ""))
	assert.Equal(t, cvrf.NamespaceCVRF, root.SelectAttrValue("xmlns", ""))
	assert.Equal(t, cvrf.NamespaceCVRF, root.SelectAttrValue("xmlns:cvrf", ""))

	vuln := root.FindElement("Vulnerability")
	require.NotNil(t, vuln)
	assert.Equal(t, cvrf.NamespaceVuln, vuln.SelectAttrValue("xmlns", ""))
	assert.Equal(t, "3", vuln.SelectAttrValue("Ordinal", ""))
	for _, tag := range []string{"Notes", "Involvements", "ProductStatuses", "Threats", "Remediations", "References", "Acknowledgments", "Title", "ID"} {
		assert.Nil(t, vuln.FindElement(tag), tag)
	}
	scoreSet := vuln.FindElement("CVSSScoreSets/ScoreSet")
	require.NotNil(t, scoreSet)
	assert.Nil(t, scoreSet.FindElement("BaseScore"))
	assert.Nil(t, scoreSet.FindElement("EnvironmentalScore"))
	assert.Equal(t, "4.2", scoreSet.FindElement("TemporalScore").Text())

	got := roundTrip(t, m)
	if diff := pretty.Compare(m, got); diff != "" {
		t.Errorf("round trip diff: (-want +got)\n%s", diff)
	}
}

func TestProductTree_ToElement(t *testing.T) {
	tree := &cvrf.ProductTree{
		Branches: []*cvrf.Branch{
			{
				Type: cvrf.BranchVendor,
				Name: "Example",
				Branches: []*cvrf.Branch{
					{Type: cvrf.BranchProductName, Name: "os-1", ProductName: &cvrf.ProductName{ProductID: "os1", CPE: "cpe:/o:example:os:1"}},
				},
			},
		},
	}
	el := tree.ToElement()
	assert.Equal(t, cvrf.NamespaceProd, el.SelectAttrValue("xmlns", ""))
	leaf := el.FindElement("Branch/Branch")
	require.NotNil(t, leaf)
	assert.Equal(t, "Product Name", leaf.SelectAttrValue("Type", ""))
	assert.Equal(t, "os1", leaf.FindElement("FullProductName").SelectAttrValue("ProductID", ""))
	assert.Equal(t, "cpe:/o:example:os:1", leaf.FindElement("FullProductName").Text())
	assert.Nil(t, el.FindElement("ProductGroups"))
	assert.Nil(t, el.FindElement("Relationship"))
}

func TestIndex_ToElement(t *testing.T) {
	m := loadModel(t, "testdata/rhsa-2017-3263.xml")
	index := cvrf.NewIndex("https://example.com/cvrf/", "index.txt")
	index.Add(m)
	index.Add(m.Clone())

	el := index.ToElement()
	assert.Equal(t, "Index", el.Tag)
	assert.Len(t, el.SelectElements("cvrfdoc"), 2)

	p := cvrf.NewParser()
	got, err := p.ParseIndex(xmlcursor.New(el))
	require.NoError(t, err)
	require.Len(t, got.Models, 2)
	if diff := pretty.Compare(m, got.Models[1]); diff != "" {
		t.Errorf("index model diff: (-want +got)\n%s", diff)
	}
}
