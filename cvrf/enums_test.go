package cvrf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aquasecurity/cvrf-eval/cvrf"
)

func TestParseBranchType(t *testing.T) {
	tests := map[string]struct {
		want   cvrf.BranchType
		family bool
	}{
		"Vendor":          {want: cvrf.BranchVendor, family: true},
		"Product Family":  {want: cvrf.BranchProductFamily, family: true},
		"Product Name":    {want: cvrf.BranchProductName},
		"Product Version": {want: cvrf.BranchProductVersion},
		"Architecture":    {want: cvrf.BranchArchitecture},
		"Specification":   {want: cvrf.BranchSpecification},
		"product family":  {want: cvrf.BranchUnknown},
		"":                {want: cvrf.BranchUnknown},
	}
	for in, tt := range tests {
		t.Run(in, func(t *testing.T) {
			got := cvrf.ParseBranchType(in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.family, got.IsFamily())
		})
	}
}

func TestEnums_String(t *testing.T) {
	assert.Equal(t, "Known Not Affected", cvrf.ProductStatusKnownNotAffected.String())
	assert.Equal(t, "", cvrf.ProductStatusUnknown.String())
	assert.Equal(t, "", cvrf.ProductStatusType(99).String())
	assert.Equal(t, "Legal Disclaimer", cvrf.NoteLegalDisclaimer.String())
	assert.Equal(t, "Contact Attempted", cvrf.InvolvementContactAttempted.String())
	assert.Equal(t, "Will Not Fix", cvrf.RemediationWillNotFix.String())
	assert.Equal(t, "Exploit Status", cvrf.ThreatExploitStatus.String())
	assert.Equal(t, "Installed With", cvrf.RelationshipInstalledWith.String())

	for _, s := range []string{"Draft", "Interim", "Final"} {
		assert.Equal(t, s, cvrf.ParseDocumentStatus(s).String())
	}
	for _, s := range []string{"Vendor", "Discoverer", "Coordinator", "User", "Other"} {
		assert.Equal(t, s, cvrf.ParsePublisherType(s).String())
	}
	assert.Equal(t, cvrf.ReferenceExternal, cvrf.ParseReferenceType("External"))
	assert.Equal(t, cvrf.RemediationUnknown, cvrf.ParseRemediationType("Upgrade"))
}

func TestProductStatusType_IsFixed(t *testing.T) {
	assert.True(t, cvrf.ProductStatusFixed.IsFixed())
	assert.True(t, cvrf.ProductStatusFirstFixed.IsFixed())
	assert.False(t, cvrf.ProductStatusKnownAffected.IsFixed())
	assert.False(t, cvrf.ProductStatusRecommended.IsFixed())
}

func TestItemKind_Tags(t *testing.T) {
	assert.Equal(t, "ProductStatuses", cvrf.ItemProductStatus.ContainerTag())
	assert.Equal(t, "Status", cvrf.ItemProductStatus.ItemTag())
	assert.Equal(t, "CVSSScoreSets", cvrf.ItemScoreSet.ContainerTag())
	assert.Equal(t, "", cvrf.ItemCWE.ContainerTag())
	assert.Equal(t, "DocumentNotes", cvrf.ItemDocumentNote.ContainerTag())
	assert.Equal(t, "Note", cvrf.ItemDocumentNote.ItemTag())
}
