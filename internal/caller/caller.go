// Package caller performs the real-world action for an approved request:
// placing a phone call whose voice script is served by the gateway.
package caller

import (
	"context"

	"github.com/nextlevelbuilder/thermovote/internal/intent"
)

// Result describes a successfully initiated action.
type Result struct {
	CallID string // provider request/call identifier
}

// Executor places the external call for an intent. Implementations own
// their transport details; retries and backoff are the provider's business,
// never the dispatcher's.
type Executor interface {
	Execute(ctx context.Context, i intent.Intent) (Result, error)
}
