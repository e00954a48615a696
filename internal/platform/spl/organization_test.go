package spl

import (
	"testing"

	"github.com/ehr/spl/internal/platform/spl/spltest"
)

func TestParser_Parse_Labeler(t *testing.T) {
	rec := parseFixture(t, spltest.PrescriptionXML, "prescription_0001.xml")
	org := rec.Labeler

	if str(org.Name) != "Acme Pharma Inc." {
		t.Errorf("expected labeler name 'Acme Pharma Inc.', got %q", str(org.Name))
	}

	want := []struct{ ext, hint string }{
		{"123456789", "DUNS"},
		{"987654321", "DUNS"},
		{"3001234567", "FEI"},
	}
	if len(org.OrgIDs) != len(want) {
		t.Fatalf("expected %d org ids, got %d: %+v", len(want), len(org.OrgIDs), org.OrgIDs)
	}
	for i, w := range want {
		id := org.OrgIDs[i]
		if str(id.Extension) != w.ext || str(id.TypeHint) != w.hint {
			t.Errorf("org id %d: expected %s/%s, got %s/%s", i, w.ext, w.hint, str(id.Extension), str(id.TypeHint))
		}
	}
}

func TestExtractOrganization_TypeHints(t *testing.T) {
	org := extractOrganization(&organizationElement{
		IDs: []idElement{
			{Root: OIDNDC, Extension: "12345"},
			{Root: "1.2.3.999", Extension: "X-1"},
			{Root: "", Extension: ""},
		},
	})
	if len(org.OrgIDs) != 2 {
		t.Fatalf("expected 2 org ids, got %d", len(org.OrgIDs))
	}
	if str(org.OrgIDs[0].TypeHint) != "NDC_LABELER" {
		t.Errorf("expected NDC_LABELER, got %q", str(org.OrgIDs[0].TypeHint))
	}
	if org.OrgIDs[1].TypeHint != nil {
		t.Errorf("expected nil hint for an unknown root, got %q", *org.OrgIDs[1].TypeHint)
	}
	if org.Name != nil {
		t.Errorf("expected nil name, got %q", *org.Name)
	}
}

func TestExtractLabeler_Missing(t *testing.T) {
	org := extractLabeler(&documentElement{Authors: []authorElement{{}}})
	if org.Name != nil || org.OrgIDs == nil || len(org.OrgIDs) != 0 {
		t.Errorf("expected an empty organization, got %+v", org)
	}
}
