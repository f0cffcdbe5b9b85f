// Package partner implements the card reader actions attached to a contact.
package partner

import (
	"context"

	cbus "github.com/next-trace/scg-rfid-reader/contract/bus"
	"github.com/next-trace/scg-rfid-reader/reader"
)

// TestWriteData is the value the terminal writes onto a card when a write is
// requested from the contact form.
const TestWriteData = "20500"

// Contact is the part of a partner record the actions read.
type Contact struct {
	ID          int64
	DisplayName string
}

// Dispatcher turns contact actions into bus notifications and log records.
type Dispatcher struct {
	notifier cbus.Notifier
	logger   cbus.InfoLogger
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(notifier cbus.Notifier, logger cbus.InfoLogger) *Dispatcher {
	return &Dispatcher{notifier: notifier, logger: logger}
}

// NotifyWrite asks the terminal identified by the action context to write
// TestWriteData onto a card for c. Without a client token it does nothing.
func (d *Dispatcher) NotifyWrite(ctx context.Context, c Contact, actx cbus.ActionContext) error {
	token, ok := actx.ClientUUID()
	if !ok {
		return nil
	}

	if err := reader.ValidateCardData(TestWriteData); err != nil {
		return err
	}

	return d.notifier.SendOne(ctx, token, cbus.EventNotification, map[string]any{
		"partner_id": c.ID,
		"data":       TestWriteData,
	})
}

// NotifyRead asks the terminal identified by the action context to read a card.
// Without a client token it does nothing.
func (d *Dispatcher) NotifyRead(ctx context.Context, c Contact, actx cbus.ActionContext) error {
	token, ok := actx.ClientUUID()
	if !ok {
		return nil
	}

	return d.notifier.SendOne(ctx, token, cbus.EventReadCard, map[string]any{})
}

// LogCardTopup records money added to c's card. Both amounts are passed through
// as the terminal reported them; if either is empty nothing is logged.
func (d *Dispatcher) LogCardTopup(ctx context.Context, c Contact, currentAmount, addedAmount string) {
	if currentAmount == "" || addedAmount == "" {
		return
	}

	d.logger.InfoContext(ctx,
		"current_money_in_card: "+currentAmount+" add_money: "+addedAmount+" "+c.DisplayName,
		"partner_id", c.ID)
}

// LogCancel records that writing to c's card was cancelled.
func (d *Dispatcher) LogCancel(ctx context.Context, c Contact) {
	d.logger.InfoContext(ctx, "cancel "+c.DisplayName, "partner_id", c.ID)
}
