package id_test

import (
	"strings"
	"testing"

	"github.com/terralink/cadastre/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"OrganizationID", id.NewOrganizationID, "org_"},
		{"ProjectID", id.NewProjectID, "proj_"},
		{"PartyID", id.NewPartyID, "party_"},
		{"SpatialUnitID", id.NewSpatialUnitID, "spat_"},
		{"SpatialRelID", id.NewSpatialRelID, "sprel_"},
		{"TenureID", id.NewTenureID, "tenure_"},
		{"PrincipalID", id.NewPrincipalID, "user_"},
		{"PolicyID", id.NewPolicyID, "pol_"},
		{"AssignmentID", id.NewAssignmentID, "asgn_"},
		{"OrgRoleID", id.NewOrgRoleID, "orgrole_"},
		{"ProjectRoleID", id.NewProjectRoleID, "projrole_"},
		{"CheckLogID", id.NewCheckLogID, "chklog_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	i := id.New(id.PrefixOrganization)
	if i.IsNil() {
		t.Fatal("expected non-nil ID")
	}
	if i.Prefix() != id.PrefixOrganization {
		t.Errorf("expected prefix %q, got %q", id.PrefixOrganization, i.Prefix())
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		newFn   func() id.ID
		parseFn func(string) (id.ID, error)
	}{
		{"OrganizationID", id.NewOrganizationID, id.ParseOrganizationID},
		{"ProjectID", id.NewProjectID, id.ParseProjectID},
		{"PartyID", id.NewPartyID, id.ParsePartyID},
		{"SpatialUnitID", id.NewSpatialUnitID, id.ParseSpatialUnitID},
		{"SpatialRelID", id.NewSpatialRelID, id.ParseSpatialRelID},
		{"TenureID", id.NewTenureID, id.ParseTenureID},
		{"PrincipalID", id.NewPrincipalID, id.ParsePrincipalID},
		{"PolicyID", id.NewPolicyID, id.ParsePolicyID},
		{"AssignmentID", id.NewAssignmentID, id.ParseAssignmentID},
		{"OrgRoleID", id.NewOrgRoleID, id.ParseOrgRoleID},
		{"ProjectRoleID", id.NewProjectRoleID, id.ParseProjectRoleID},
		{"CheckLogID", id.NewCheckLogID, id.ParseCheckLogID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := tt.newFn()
			parsed, err := tt.parseFn(original.String())
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if parsed.String() != original.String() {
				t.Errorf("round-trip mismatch: %q != %q", parsed.String(), original.String())
			}
		})
	}
}

func TestCrossTypeRejection(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		parseFn func(string) (id.ID, error)
	}{
		{"ParseOrganizationID rejects proj_", id.NewProjectID().String(), id.ParseOrganizationID},
		{"ParseProjectID rejects party_", id.NewPartyID().String(), id.ParseProjectID},
		{"ParsePartyID rejects spat_", id.NewSpatialUnitID().String(), id.ParsePartyID},
		{"ParseSpatialUnitID rejects tenure_", id.NewTenureID().String(), id.ParseSpatialUnitID},
		{"ParseTenureID rejects pol_", id.NewPolicyID().String(), id.ParseTenureID},
		{"ParsePolicyID rejects asgn_", id.NewAssignmentID().String(), id.ParsePolicyID},
		{"ParseAssignmentID rejects user_", id.NewPrincipalID().String(), id.ParseAssignmentID},
		{"ParsePrincipalID rejects org_", id.NewOrganizationID().String(), id.ParsePrincipalID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.parseFn(tt.input)
			if err == nil {
				t.Errorf("expected error for cross-type parse of %q, got nil", tt.input)
			}
		})
	}
}

func TestParseWithPrefix(t *testing.T) {
	i := id.NewOrganizationID()
	parsed, err := id.ParseWithPrefix(i.String(), id.PrefixOrganization)
	if err != nil {
		t.Fatalf("ParseWithPrefix failed: %v", err)
	}
	if parsed.String() != i.String() {
		t.Errorf("mismatch: %q != %q", parsed.String(), i.String())
	}

	_, err = id.ParseWithPrefix(i.String(), id.PrefixProject)
	if err == nil {
		t.Error("expected error for wrong prefix")
	}
}

func TestParseEmpty(t *testing.T) {
	_, err := id.Parse("")
	if err == nil {
		t.Error("expected error for empty string")
	}
}

func TestNilID(t *testing.T) {
	var i id.ID
	if !i.IsNil() {
		t.Error("zero-value ID should be nil")
	}
	if i.String() != "" {
		t.Errorf("expected empty string, got %q", i.String())
	}
	if i.Prefix() != "" {
		t.Errorf("expected empty prefix, got %q", i.Prefix())
	}
}

func TestMarshalUnmarshalText(t *testing.T) {
	original := id.NewPartyID()
	data, err := original.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}

	var restored id.ID
	if unmarshalErr := restored.UnmarshalText(data); unmarshalErr != nil {
		t.Fatalf("UnmarshalText failed: %v", unmarshalErr)
	}
	if restored.String() != original.String() {
		t.Errorf("mismatch: %q != %q", restored.String(), original.String())
	}

	// Nil round-trip.
	var nilID id.ID
	data, err = nilID.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText(nil) failed: %v", err)
	}
	var restored2 id.ID
	if err := restored2.UnmarshalText(data); err != nil {
		t.Fatalf("UnmarshalText(nil) failed: %v", err)
	}
	if !restored2.IsNil() {
		t.Error("expected nil after round-trip of nil ID")
	}
}

func TestValueScan(t *testing.T) {
	original := id.NewPolicyID()
	val, err := original.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	var scanned id.ID
	if scanErr := scanned.Scan(val); scanErr != nil {
		t.Fatalf("Scan failed: %v", scanErr)
	}
	if scanned.String() != original.String() {
		t.Errorf("mismatch: %q != %q", scanned.String(), original.String())
	}

	// Nil round-trip.
	var nilID id.ID
	val, err = nilID.Value()
	if err != nil {
		t.Fatalf("Value(nil) failed: %v", err)
	}
	if val != nil {
		t.Errorf("expected nil value for nil ID, got %v", val)
	}

	var scanned2 id.ID
	if err := scanned2.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) failed: %v", err)
	}
	if !scanned2.IsNil() {
		t.Error("expected nil after scan of nil")
	}
}

func TestUniqueness(t *testing.T) {
	a := id.NewSpatialUnitID()
	b := id.NewSpatialUnitID()
	if a.String() == b.String() {
		t.Errorf("two consecutive NewSpatialUnitID() calls returned the same ID: %q", a.String())
	}
}
