package cvrf_test

import (
	"errors"
	"testing"

	"github.com/kylelemons/godebug/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasecurity/cvrf-eval/cvrf"
)

func leaf(name, productID string) *cvrf.Branch {
	return &cvrf.Branch{
		Type:        cvrf.BranchProductName,
		Name:        name,
		ProductName: &cvrf.ProductName{ProductID: productID, CPE: name},
	}
}

func relationship(relatesTo, fullID string) *cvrf.Relationship {
	return &cvrf.Relationship{
		ProductReference:          fullID,
		RelationType:              cvrf.RelationshipDefaultComponentOf,
		RelatesToProductReference: relatesTo,
		ProductName:               &cvrf.ProductName{ProductID: fullID, CPE: fullID},
	}
}

func platformModel() *cvrf.Model {
	m := cvrf.NewModel()
	m.ProductTree = &cvrf.ProductTree{
		Branches: []*cvrf.Branch{
			{
				Type: cvrf.BranchProductFamily,
				Name: "vendor",
				Branches: []*cvrf.Branch{
					leaf("platform-a", "p1"),
					leaf("platform-b", "p2"),
				},
			},
		},
		Relationships: []*cvrf.Relationship{
			relationship("p1", "cpe:/o:vendor:platform-a:pkgname-1.0-1"),
			relationship("p2", "cpe:/o:vendor:platform-b:pkgname-1.0-1"),
		},
	}
	m.Vulnerabilities = []*cvrf.Vulnerability{
		{
			Ordinal: 1,
			ProductStatuses: []*cvrf.ProductStatus{
				{Type: cvrf.ProductStatusFixed, ProductIDs: []string{"p1:pkgname-1.0-1", "p2:pkgname-1.0-1"}},
			},
		},
		{
			Ordinal: 2,
			ProductStatuses: []*cvrf.ProductStatus{
				{Type: cvrf.ProductStatusKnownAffected, ProductIDs: []string{"p2:pkgname-1.0-1"}},
			},
		},
	}
	return m
}

func TestProductTree_FindProductID(t *testing.T) {
	tree := &cvrf.ProductTree{
		Branches: []*cvrf.Branch{
			{
				Type: cvrf.BranchVendor,
				Name: "vendor",
				Branches: []*cvrf.Branch{
					{Type: cvrf.BranchProductFamily, Name: "family", Branches: []*cvrf.Branch{leaf("dup", "first")}},
					leaf("dup", "second"),
				},
			},
			leaf("dup", "third"),
			leaf("other", "p9"),
		},
	}

	tests := []struct {
		name     string
		platform string
		want     string
		found    bool
	}{
		{name: "first in document order wins", platform: "dup", want: "first", found: true},
		{name: "top level leaf", platform: "other", want: "p9", found: true},
		{name: "family names never match", platform: "family", found: false},
		{name: "unknown", platform: "missing", found: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				got, ok := tree.FindProductID(tt.platform)
				assert.Equal(t, tt.found, ok)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestModel_FilterByPlatform(t *testing.T) {
	m := platformModel()

	res, err := m.FilterByPlatform("platform-a")
	require.NoError(t, err)
	assert.Equal(t, "p1", res.ProductID)
	require.Len(t, m.ProductTree.Relationships, 1)
	assert.Equal(t, "p1", m.ProductTree.Relationships[0].RelatesToProductReference)
	assert.Equal(t, []string{"cpe:/o:vendor:platform-a:pkgname-1.0-1"}, m.ProductTree.ProductIDs())

	assert.Equal(t, []string{"p1:pkgname-1.0-1"}, m.Vulnerabilities[0].ProductStatuses[0].ProductIDs)
	// the second vulnerability cannot be narrowed and is left as it was
	assert.Equal(t, []string{"p2:pkgname-1.0-1"}, m.Vulnerabilities[1].ProductStatuses[0].ProductIDs)
	assert.Equal(t, []int{2}, res.Skipped)
	require.Error(t, res.Errors)
	assert.True(t, errors.Is(res.Errors, cvrf.ErrProductStatusEmpty))
}

func TestModel_FilterByPlatform_Unknown(t *testing.T) {
	m := platformModel()
	before := m.Clone()

	_, err := m.FilterByPlatform("platform-z")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cvrf.ErrPlatformNotFound))
	if diff := pretty.Compare(before, m); diff != "" {
		t.Errorf("model changed: (-before +after)\n%s", diff)
	}
}

func TestModel_FilterByPlatform_NotApplicable(t *testing.T) {
	m := platformModel()
	m.ProductTree.Branches[0].Branches = append(m.ProductTree.Branches[0].Branches, leaf("platform-c", "p3"))

	_, err := m.FilterByPlatform("platform-c")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cvrf.ErrNotApplicable))
	assert.Empty(t, m.ProductTree.Relationships)
	// vulnerabilities are not touched once the tree fails
	assert.Len(t, m.Vulnerabilities[0].ProductStatuses[0].ProductIDs, 2)
}

func TestVulnerability_FilterByProduct(t *testing.T) {
	v := &cvrf.Vulnerability{
		ProductStatuses: []*cvrf.ProductStatus{
			{Type: cvrf.ProductStatusFixed, ProductIDs: []string{"p1:a", "p2:a", "p1:b"}},
			{Type: cvrf.ProductStatusKnownAffected, ProductIDs: []string{"p2:c"}},
			{Type: cvrf.ProductStatusKnownNotAffected, ProductIDs: []string{"p1:d", "p2:d"}},
		},
	}
	err := v.FilterByProduct("p1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cvrf.ErrProductStatusEmpty))
	assert.Equal(t, []string{"p1:a", "p1:b"}, v.ProductStatuses[0].ProductIDs)
	assert.Equal(t, []string{"p2:c"}, v.ProductStatuses[1].ProductIDs)
	assert.Equal(t, []string{"p1:d", "p2:d"}, v.ProductStatuses[2].ProductIDs)

	ok := &cvrf.Vulnerability{
		ProductStatuses: []*cvrf.ProductStatus{
			{Type: cvrf.ProductStatusFixed, ProductIDs: []string{"p1:a", "p2:a"}},
		},
	}
	require.NoError(t, ok.FilterByProduct("p1"))
	assert.Equal(t, []string{"p1:a"}, ok.ProductStatuses[0].ProductIDs)
}

func TestModel_FilterByPlatform_Advisory(t *testing.T) {
	m := loadModel(t, "testdata/rhsa-2017-3263.xml")

	res, err := m.FilterByPlatform("Red Hat Enterprise Linux Server (v. 7)")
	require.NoError(t, err)
	assert.Equal(t, "7Server-7.4.Z", res.ProductID)
	assert.Equal(t, []string{
		"7Server-7.4.Z:openssl-1:1.0.2k-8.el7",
		"7Server-7.4.Z:openssl-libs-1:1.0.2k-8.el7",
	}, m.ProductTree.ProductIDs())
	assert.Equal(t, []int{2}, res.Skipped)
	assert.Len(t, m.Vulnerabilities[0].ProductStatuses[0].ProductIDs, 2)
}

func TestProductTree_PackageName(t *testing.T) {
	m := loadModel(t, "testdata/rhsa-2017-3263.xml")
	tree := m.ProductTree

	tests := []struct {
		fullID string
		want   string
		found  bool
	}{
		{fullID: "7Server-7.4.Z:openssl-1:1.0.2k-8.el7", want: "openssl-1:1.0.2k-8.el7", found: true},
		{fullID: "7Server-7.4.Z:openssl-libs-1:1.0.2k-8.el7", want: "openssl-libs-1:1.0.2k-8.el7", found: true},
		{fullID: "7Server-7.4.Z:bash-4.2.46-28.el7", found: false},
	}
	for _, tt := range tests {
		t.Run(tt.fullID, func(t *testing.T) {
			got, ok := tree.PackageName(tt.fullID)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	nested := &cvrf.ProductTree{
		Branches: []*cvrf.Branch{{
			Type: cvrf.BranchVendor,
			Name: "vendor",
			Branches: []*cvrf.Branch{{
				Type:        cvrf.BranchProductVersion,
				Name:        "bash",
				ProductName: &cvrf.ProductName{ProductID: "bash-4.2.46-28.el7", CPE: "bash-4.2.46-28.el7.x86_64"},
			}},
		}},
	}
	got, ok := nested.PackageName("7Server:bash-4.2.46-28.el7")
	assert.True(t, ok)
	assert.Equal(t, "bash-4.2.46-28.el7.x86_64", got)
}
