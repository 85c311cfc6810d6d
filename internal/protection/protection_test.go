package protection

import (
	"testing"

	"github.com/arjunvg/devclean/internal/model"
)

func withStatus(gs *model.GitStatus) model.Project {
	return model.Project{Root: "/tmp/proj", GitStatus: gs}
}

func TestCheckProjectProtection_NoneAlwaysAllows(t *testing.T) {
	dirty := withStatus(&model.GitStatus{Dirty: true, Branch: "main"})
	c := CheckProjectProtection(dirty, None, false)
	if !c.Allowed {
		t.Error("expected None to always allow")
	}
}

func TestCheckProjectProtection_WarnAllowsButEmitsReasons(t *testing.T) {
	dirty := withStatus(&model.GitStatus{Dirty: true, Branch: "main"})
	c := CheckProjectProtection(dirty, Warn, false)
	if !c.Allowed {
		t.Error("expected Warn to allow")
	}
	if len(c.Reasons) == 0 {
		t.Error("expected Warn to emit a reason for a dirty repo")
	}
}

func TestCheckProjectProtection_BlockDeniesOnDirty(t *testing.T) {
	dirty := withStatus(&model.GitStatus{Dirty: true, Branch: "main"})
	c := CheckProjectProtection(dirty, Block, false)
	if c.Allowed {
		t.Error("expected Block to deny a dirty repo")
	}
}

func TestCheckProjectProtection_BlockDeniesOnUnpushed(t *testing.T) {
	p := withStatus(&model.GitStatus{Unpushed: true, Branch: "main"})
	c := CheckProjectProtection(p, Block, false)
	if c.Allowed {
		t.Error("expected Block to deny unpushed commits")
	}
}

func TestCheckProjectProtection_BlockDeniesOnStashes(t *testing.T) {
	p := withStatus(&model.GitStatus{Stashes: 1, Branch: "main"})
	c := CheckProjectProtection(p, Block, false)
	if c.Allowed {
		t.Error("expected Block to deny stashed changes")
	}
}

func TestCheckProjectProtection_BlockAllowsNoGit(t *testing.T) {
	p := withStatus(&model.GitStatus{})
	c := CheckProjectProtection(p, Block, false)
	if !c.Allowed {
		t.Error("expected Block to allow a no-git project (matrix row: Block/no-git -> allow)")
	}
}

func TestCheckProjectProtection_BlockDeniesOnUnknown(t *testing.T) {
	p := withStatus(&model.GitStatus{Unknown: true})
	c := CheckProjectProtection(p, Block, false)
	if c.Allowed {
		t.Error("expected Block to deny unknown git status as a risk")
	}
}

func TestCheckProjectProtection_ParanoidDeniesNoGit(t *testing.T) {
	p := withStatus(&model.GitStatus{})
	c := CheckProjectProtection(p, Paranoid, false)
	if c.Allowed {
		t.Error("expected Paranoid to deny a no-git project")
	}
}

func TestCheckProjectProtection_ParanoidAllowsCleanRepo(t *testing.T) {
	// a clean repo with no risks still has a branch, so it is not no-git;
	// Paranoid should allow it.
	p := withStatus(&model.GitStatus{Branch: "main"})
	c := CheckProjectProtection(p, Paranoid, false)
	if !c.Allowed {
		t.Error("expected Paranoid to allow a clean, risk-free repository")
	}
}

func TestCheckProjectProtection_ForceOverridesAndRecordsReason(t *testing.T) {
	p := withStatus(&model.GitStatus{Dirty: true, Branch: "main"})
	c := CheckProjectProtection(p, Paranoid, true)
	if !c.Allowed {
		t.Error("expected --force to override Paranoid denial")
	}
	found := false
	for _, r := range c.Reasons {
		if r == "--force override applied" {
			found = true
		}
	}
	if !found {
		t.Error("expected force override to be recorded in reasons")
	}
}

// Invariant 6: monotonicity — allowed(None) >= allowed(Warn) >=
// allowed(Block) >= allowed(Paranoid) for fixed project state.
func TestCheckProjectProtection_Monotonicity(t *testing.T) {
	cases := []model.Project{
		withStatus(nil),
		withStatus(&model.GitStatus{}),
		withStatus(&model.GitStatus{Branch: "main"}),
		withStatus(&model.GitStatus{Dirty: true, Branch: "main"}),
		withStatus(&model.GitStatus{Unpushed: true, Branch: "main"}),
		withStatus(&model.GitStatus{Stashes: 2, Branch: "main"}),
		withStatus(&model.GitStatus{Unknown: true}),
	}
	levels := []ProtectionLevel{None, Warn, Block, Paranoid}
	for _, p := range cases {
		prevAllowed := true
		for _, lvl := range levels {
			c := CheckProjectProtection(p, lvl, false)
			if c.Allowed && !prevAllowed {
				t.Errorf("monotonicity violated for project %+v at level %v: less restrictive level denied but this allows", p.GitStatus, lvl)
			}
			prevAllowed = c.Allowed
		}
	}
}
