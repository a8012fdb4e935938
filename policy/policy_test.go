package policy_test

import (
	"errors"
	"testing"

	"github.com/terralink/cadastre/policy"
)

func TestParseValid(t *testing.T) {
	body := `{
	  "clause": [
	    {"effect": "allow", "action": ["org.view"], "object": ["organization/*"]},
	    {"effect": "deny", "action": ["org.update"], "object": ["organization/archived-org"]}
	  ]
	}`

	doc, err := policy.Parse("test", []byte(body))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc.Name != "test" {
		t.Errorf("expected name %q, got %q", "test", doc.Name)
	}
	if len(doc.Clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(doc.Clauses))
	}
	if doc.Clauses[0].Effect != policy.EffectAllow {
		t.Errorf("expected allow, got %q", doc.Clauses[0].Effect)
	}
	if doc.Clauses[1].Effect != policy.EffectDeny {
		t.Errorf("expected deny, got %q", doc.Clauses[1].Effect)
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid JSON", `{"clause": [`},
		{"empty body", `{}`},
		{"empty clause list", `{"clause": []}`},
		{"missing effect", `{"clause": [{"action": ["a.b"], "object": ["x/y"]}]}`},
		{"unknown effect", `{"clause": [{"effect": "permit", "action": ["a.b"], "object": ["x/y"]}]}`},
		{"no actions", `{"clause": [{"effect": "allow", "action": [], "object": ["x/y"]}]}`},
		{"empty action pattern", `{"clause": [{"effect": "allow", "action": [""], "object": ["x/y"]}]}`},
		{"no objects", `{"clause": [{"effect": "allow", "action": ["a.b"], "object": []}]}`},
		{"empty object pattern", `{"clause": [{"effect": "allow", "action": ["a.b"], "object": [""]}]}`},
		{"unknown field", `{"clauses": [{"effect": "allow", "action": ["a.b"], "object": ["x/y"]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := policy.Parse("bad", []byte(tt.body))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, policy.ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestParseEmptyName(t *testing.T) {
	_, err := policy.Parse("", []byte(`{"clause": [{"effect": "allow", "action": ["a.b"], "object": ["x"]}]}`))
	if !errors.Is(err, policy.ErrMalformed) {
		t.Errorf("expected ErrMalformed for empty name, got %v", err)
	}
}

func TestSeedDocuments(t *testing.T) {
	docs := policy.SeedDocuments()
	if len(docs) != 6 {
		t.Fatalf("expected 6 seed documents, got %d", len(docs))
	}

	want := []string{"default", "org-member", "org-admin", "project-manager", "data-collector", "project-user"}
	for i, name := range want {
		if docs[i].Name != name {
			t.Errorf("seed %d: expected %q, got %q", i, name, docs[i].Name)
		}
		if len(docs[i].Clauses) == 0 {
			t.Errorf("seed %q has no clauses", name)
		}
	}
}
