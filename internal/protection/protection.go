// Package protection is the Protection Gate (spec.md §4.5, component
// H): a pure decision function that combines a project's git status
// with a policy level to decide whether its artifacts may be deleted.
//
// ProtectionLevel follows the same closed, iota-backed variant pattern
// used throughout internal/model (ArtifactKind, ErrKind) — a fixed enum
// with a String method rather than free-form strings, so callers can
// switch on it exhaustively. The check result is a plain Check struct.
package protection

import "github.com/arjunvg/devclean/internal/model"

// ProtectionLevel is an ordered policy: None < Warn < Block < Paranoid
// (spec.md §4.5, invariant 6 "protection monotonicity").
type ProtectionLevel int

const (
	None ProtectionLevel = iota
	Warn
	Block
	Paranoid
)

func (l ProtectionLevel) String() string {
	switch l {
	case None:
		return "none"
	case Warn:
		return "warn"
	case Block:
		return "block"
	case Paranoid:
		return "paranoid"
	default:
		return "unknown"
	}
}

// Check is the result of evaluating a project against a policy.
type Check struct {
	Allowed bool
	Reasons []string
}

// CheckProjectProtection implements the decision matrix from spec.md
// §4.5. force bypasses the gate entirely but is always recorded in the
// returned reasons, so a caller that logs Check.Reasons never silently
// loses the fact an override happened.
func CheckProjectProtection(p model.Project, level ProtectionLevel, force bool) Check {
	risks := riskReasons(p)

	if force {
		c := Check{Allowed: true, Reasons: append([]string{"--force override applied"}, risks...)}
		return c
	}

	switch level {
	case None:
		return Check{Allowed: true}

	case Warn:
		return Check{Allowed: true, Reasons: risks}

	case Block:
		if len(risks) > 0 {
			return Check{Allowed: false, Reasons: risks}
		}
		return Check{Allowed: true}

	case Paranoid:
		noGit := p.GitStatus == nil || (!p.GitStatus.Unknown && p.GitStatus.Branch == "" && !p.GitStatus.Dirty && !p.GitStatus.Unpushed && p.GitStatus.Stashes == 0)
		if len(risks) > 0 || noGit {
			reasons := risks
			if noGit {
				reasons = append(reasons, "no git repository detected")
			}
			return Check{Allowed: false, Reasons: reasons}
		}
		return Check{Allowed: true}

	default:
		return Check{Allowed: false, Reasons: []string{"unrecognized protection level"}}
	}
}

// riskReasons lists the project's git-derived risks: dirty working
// tree, unpushed commits, stashes, or an oracle that couldn't resolve
// status at all. It does not itself decide no-git, since "no-git" is
// only a risk under Paranoid (spec.md §4.5's matrix row "Block | — |
// — | — | true | allow").
func riskReasons(p model.Project) []string {
	gs := p.GitStatus
	if gs == nil {
		return nil
	}
	var reasons []string
	if gs.Unknown {
		reasons = append(reasons, "git status could not be determined")
	}
	if gs.Dirty {
		reasons = append(reasons, "working tree has uncommitted changes")
	}
	if gs.Unpushed {
		reasons = append(reasons, "branch has unpushed commits")
	}
	if gs.Stashes > 0 {
		reasons = append(reasons, "repository has stashed changes")
	}
	return reasons
}
