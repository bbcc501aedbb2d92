// Package redirect decides where a "Get Started" action takes the
// current user: an external dashboard handoff, a local path, or a
// deferred signup prompt. Exactly one outcome is produced per call.
package redirect

// AuthState is the caller-observed authentication snapshot.
type AuthState struct {
	Authenticated bool
	Role          string
	HasSubmission bool
}

// Outcome is a closed union over the three possible results.
type Outcome interface{ isOutcome() }

// External means the caller performs a full browser navigation to
// another domain; no further local rendering should be attempted.
type External struct{ URL string }

// Internal means the caller navigates locally.
type Internal struct{ Path string }

// Deferred means the caller should fall back to a signup prompt.
type Deferred struct{}

func (External) isOutcome() {}
func (Internal) isOutcome() {}
func (Deferred) isOutcome() {}

// DashboardBase is the external member-dashboard origin.
const DashboardBase = "https://dashboard.cfcommunity.net"

// Resolve maps the current location and auth state to a destination.
// currentPath suppresses self-redirects: resolving to the page the
// user is already on yields Deferred so no navigation happens.
func Resolve(currentPath string, auth AuthState) Outcome {
	if !auth.Authenticated {
		return Deferred{}
	}
	var out Outcome
	switch auth.Role {
	case "founder":
		if auth.HasSubmission {
			out = External{URL: DashboardBase + "/founder"}
		} else {
			out = Internal{Path: "/pitch-tank/apply"}
		}
	case "investor":
		out = External{URL: DashboardBase + "/investor"}
	case "mentor":
		out = Internal{Path: "/mentor/profile"}
	case "":
		out = Internal{Path: "/onboarding"}
	default:
		out = Internal{Path: "/onboarding/" + auth.Role}
	}
	if in, ok := out.(Internal); ok && in.Path == currentPath {
		return Deferred{}
	}
	return out
}
