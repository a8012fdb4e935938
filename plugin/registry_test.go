package plugin

import (
	"context"
	"log/slog"
	"testing"

	"github.com/terralink/cadastre/assignment"
	"github.com/terralink/cadastre/id"
)

// testPlugin implements Plugin + AssignmentCreated + AfterCheck.
type testPlugin struct {
	assignmentCreatedCalled bool
	afterCheckCalled        bool
}

func (t *testPlugin) Name() string { return "test-plugin" }

func (t *testPlugin) OnAssignmentCreated(_ context.Context, _ *assignment.Assignment) error {
	t.assignmentCreatedCalled = true
	return nil
}

func (t *testPlugin) OnAfterCheck(_ context.Context, _, _ any) error {
	t.afterCheckCalled = true
	return nil
}

// minimalPlugin only implements Plugin (no hooks).
type minimalPlugin struct{}

func (m *minimalPlugin) Name() string { return "minimal" }

func TestRegistryDispatch(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(slog.Default())

	tp := &testPlugin{}
	reg.Register(tp)
	reg.Register(&minimalPlugin{})

	if len(reg.Plugins()) != 2 {
		t.Fatalf("expected 2 plugins, got %d", len(reg.Plugins()))
	}

	// Should dispatch AssignmentCreated to testPlugin only.
	reg.EmitAssignmentCreated(ctx, &assignment.Assignment{ID: id.NewAssignmentID(), PolicyName: "org-member"})
	if !tp.assignmentCreatedCalled {
		t.Fatal("OnAssignmentCreated was not called")
	}

	// Should dispatch AfterCheck.
	reg.EmitAfterCheck(ctx, nil, nil)
	if !tp.afterCheckCalled {
		t.Fatal("OnAfterCheck was not called")
	}

	// Should not panic on hooks with no listeners.
	reg.EmitBeforeCheck(ctx, nil)
	reg.EmitAssignmentRevoked(ctx, id.NewPrincipalID(), "org-member", nil)
	reg.EmitShutdown(ctx)
}
