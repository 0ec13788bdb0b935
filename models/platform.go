package models

// Platform identifies one supported competitive-programming site.
type Platform string

const (
	PlatformLeetCode      Platform = "leetcode"
	PlatformCodeForces    Platform = "codeforces"
	PlatformCodeChef      Platform = "codechef"
	PlatformGeeksForGeeks Platform = "geeksforgeeks"
)

// AllPlatforms returns the supported platforms in a fixed order.
func AllPlatforms() []Platform {
	return []Platform{
		PlatformLeetCode,
		PlatformCodeForces,
		PlatformCodeChef,
		PlatformGeeksForGeeks,
	}
}

// Valid reports whether p is one of the supported platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformLeetCode, PlatformCodeForces, PlatformCodeChef, PlatformGeeksForGeeks:
		return true
	}
	return false
}

// PlatformUsernames maps a platform to the handle a user linked for it.
// An empty or missing entry means the platform is not linked.
type PlatformUsernames map[Platform]string

// Username returns the linked handle for p, or "" when not linked.
func (m PlatformUsernames) Username(p Platform) string {
	if m == nil {
		return ""
	}
	return m[p]
}

// Clone returns an independent copy of the map.
func (m PlatformUsernames) Clone() PlatformUsernames {
	out := make(PlatformUsernames, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
