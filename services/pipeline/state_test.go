package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yshmodi/eiregate/services/resume"
)

func TestSessionStateMerge(t *testing.T) {
	score := 85.0
	state := &SessionState{
		RawText:    "original raw",
		TargetRole: "AI Engineer",
		Messages:   []string{"first"},
	}

	state.Merge(&SessionState{
		ParsedResume: &resume.Resume{Name: "Ada"},
		MatchScore:   &score,
		Messages:     []string{"second", "third"},
	})

	// Unset scalars in the update leave existing values alone
	assert.Equal(t, "original raw", state.RawText)
	assert.Equal(t, "AI Engineer", state.TargetRole)

	// Set scalars overlay
	assert.Equal(t, "Ada", state.ParsedResume.Name)
	assert.Equal(t, 85.0, *state.MatchScore)

	// Messages append, never replace
	assert.Equal(t, []string{"first", "second", "third"}, state.Messages)
}

func TestSessionStateMerge_OverlayReplacesScalars(t *testing.T) {
	state := &SessionState{TargetRole: "AI Engineer", TargetCompany: "Stripe"}

	state.Merge(&SessionState{TargetRole: "Data Engineer"})

	assert.Equal(t, "Data Engineer", state.TargetRole)
	assert.Equal(t, "Stripe", state.TargetCompany)
}

func TestSessionStateMerge_NilUpdate(t *testing.T) {
	state := &SessionState{RawText: "keep"}
	state.Merge(nil)
	assert.Equal(t, "keep", state.RawText)
}
