package caller

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	plivo "github.com/plivo/plivo-go/v7"

	"github.com/nextlevelbuilder/thermovote/internal/intent"
)

// PlivoCaller places calls through the Plivo voice API. The spoken content
// is not sent with the call: Plivo fetches it from our answer URL once the
// callee picks up.
type PlivoCaller struct {
	client        *plivo.Client
	fromNumber    string
	targetNumber  string
	publicBaseURL string
}

// NewPlivoCaller creates a caller. publicBaseURL is the externally reachable
// base of the voice-script gateway (e.g. a tunnel URL).
func NewPlivoCaller(authID, authToken, fromNumber, targetNumber, publicBaseURL string) (*PlivoCaller, error) {
	client, err := plivo.NewClient(authID, authToken, &plivo.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("create plivo client: %w", err)
	}
	return &PlivoCaller{
		client:        client,
		fromNumber:    fromNumber,
		targetNumber:  targetNumber,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// AnswerURL returns the voice-script callback URL for an intent.
func (p *PlivoCaller) AnswerURL(i intent.Intent) string {
	return fmt.Sprintf("%s/action-script/%s", p.publicBaseURL, i)
}

// Execute places the call. A None intent is rejected before any API call.
func (p *PlivoCaller) Execute(ctx context.Context, i intent.Intent) (Result, error) {
	if i == intent.None {
		return Result{}, fmt.Errorf("no action required for intent %q", i)
	}

	resp, err := p.client.Calls.Create(plivo.CallCreateParams{
		From:         p.fromNumber,
		To:           p.targetNumber,
		AnswerURL:    p.AnswerURL(i),
		AnswerMethod: "GET",
	})
	if err != nil {
		return Result{}, fmt.Errorf("create call: %w", err)
	}

	callID := fmt.Sprintf("%v", resp.RequestUUID)
	slog.Info("call initiated", "to", p.targetNumber, "intent", i.String(), "request_uuid", callID)
	return Result{CallID: callID}, nil
}
