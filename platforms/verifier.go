package platforms

import (
	"context"
	"log"

	"codefolio/models"
)

// Verifier answers "does this handle exist on that platform". The answer is
// advisory UX for profile editing, not an authorization check: anything that
// prevents verification reads as false.
type Verifier struct {
	adapters map[models.Platform]Adapter
}

func NewVerifier(adapters ...Adapter) *Verifier {
	m := make(map[models.Platform]Adapter, len(adapters))
	for _, a := range adapters {
		m[a.Platform()] = a
	}
	return &Verifier{adapters: m}
}

// Verify reports whether username exists on platform p. Unknown platforms,
// empty usernames, upstream failures, and panics all report false.
func (v *Verifier) Verify(ctx context.Context, p models.Platform, username string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Verification panicked for %s/%q: %v", p, username, r)
			ok = false
		}
	}()

	if username == "" {
		return false
	}
	adapter, found := v.adapters[p]
	if !found {
		return false
	}
	return adapter.Verify(ctx, username)
}
