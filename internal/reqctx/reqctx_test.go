package reqctx

import (
	"context"
	"testing"
)

func TestWithRun(t *testing.T) {
	ctx := WithRun(context.Background())
	rc := GetRun(ctx)
	if len(rc.RunID) != 16 {
		t.Fatalf("Expected 16 hex chars, got %q", rc.RunID)
	}

	// Nested runs keep the outer ID
	if again := GetRun(WithRun(ctx)); again.RunID != rc.RunID {
		t.Errorf("Expected run ID %s to be kept, got %s", rc.RunID, again.RunID)
	}
}

func TestGetRunWithoutRun(t *testing.T) {
	if rc := GetRun(context.Background()); rc.RunID != "unknown" {
		t.Errorf("Expected placeholder run ID, got %s", rc.RunID)
	}
}
