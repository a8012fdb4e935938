package cadastre

import (
	"testing"

	"github.com/terralink/cadastre/assignment"
)

func TestMatchObject(t *testing.T) {
	vars := []assignment.Variable{
		{Name: "organization", Value: "big-org"},
		{Name: "project", Value: "parcel-survey"},
	}

	tests := []struct {
		name    string
		pattern string
		object  string
		vars    []assignment.Variable
		want    bool
	}{
		{"exact", "organization", "organization", nil, true},
		{"exact mismatch", "organization", "project", nil, false},
		{"wildcard segment", "organization/*", "organization/big-org", nil, true},
		{"wildcard needs a segment", "organization/*", "organization", nil, false},
		{"wildcard is single segment", "project/*", "project/big-org/parcel-survey", nil, false},
		{"two wildcards", "project/*/*", "project/big-org/parcel-survey", nil, true},
		{"segment count must be equal", "project/*/*", "project/big-org", nil, false},
		{"value longer than pattern", "project/big-org", "project/big-org/parcel-survey", nil, false},
		{"bound placeholder", "project/{organization}/*", "project/big-org/parcel-survey", vars, true},
		{"bound placeholder wrong value", "project/{organization}/*", "project/other-org/parcel-survey", vars, false},
		{"two placeholders", "spatial/{organization}/{project}/*", "spatial/big-org/parcel-survey/su_x", vars, true},
		{"unbound placeholder never matches", "project/{organization}/*", "project/big-org/parcel-survey", nil, false},
		{"placeholder matched literally when malformed", "project/{org", "project/{org", nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := matchObject(tc.pattern, tc.object, tc.vars); got != tc.want {
				t.Errorf("matchObject(%q, %q) = %v, want %v", tc.pattern, tc.object, got, tc.want)
			}
		})
	}
}

func TestMatchAction(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		action  string
		want    bool
	}{
		{"exact", "project.view", "project.view", true},
		{"exact mismatch", "project.view", "project.update", false},
		{"wildcard verb", "project.*", "project.view", true},
		{"wildcard depth", "project.*", "project.resources.add", false},
		{"nested wildcard", "project.*.*", "project.resources.add", true},
		{"bare wildcard", "*", "org.create", false},
		{"dots do not cross slashes", "project/view", "project.view", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := matchAction(tc.pattern, tc.action, nil); got != tc.want {
				t.Errorf("matchAction(%q, %q) = %v, want %v", tc.pattern, tc.action, got, tc.want)
			}
		})
	}
}
