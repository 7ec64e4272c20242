// Package trigger implements the page service processing trigger: one POST
// to the service, with the outcome mirrored onto a status label.
package trigger

import (
	"context"

	"pagectl/internal/client"
	"pagectl/pkg/logging"
)

// Label literals shown while a trigger is in flight or after it failed.
const (
	StatusConnecting = "Connecting..."
	StatusError      = "Error"
)

// StatusLabel is a mutable text display owned by the caller. The trigger
// holds a non-owning reference and only ever replaces the displayed text.
// Implementations must be safe for concurrent SetText calls, since
// overlapping triggers may complete in any order.
type StatusLabel interface {
	SetText(text string)
}

// Run performs one processing trigger synchronously, in strict order:
// the label is set to "Connecting..." before any network activity, then a
// single POST is issued, and the label ends at the service's message or at
// "Error". Failure causes are deliberately not distinguished on the label.
//
// No retries and no timeout beyond what ctx imposes; a hung request leaves
// the label at "Connecting...".
func Run(ctx context.Context, c *client.Client, label StatusLabel) {
	label.SetText(StatusConnecting)

	result, err := c.Process(ctx)
	if err != nil {
		logging.Debug("Trigger", "process request failed: %v", err)
		label.SetText(StatusError)
		return
	}
	label.SetText(result.Message)
}

// Trigger starts a processing trigger and returns immediately. Each call
// issues an independent request; when triggers overlap, whichever completes
// last determines the final label text.
func Trigger(ctx context.Context, c *client.Client, label StatusLabel) {
	go Run(ctx, c, label)
}
