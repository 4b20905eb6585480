// Package notify sends moderation alerts to the site admin over SMS.
package notify

import (
	"fmt"
	"log"
	"os"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSNotifier wraps a Twilio client. All methods are no-ops when the Twilio
// environment (TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_FROM_NUMBER,
// ADMIN_PHONE_NUMBER) is not configured, so the feature is opt-in.
type SMSNotifier struct {
	client *twilio.RestClient
	from   string
	admin  string
}

// NewSMSNotifier builds a notifier from the environment. Returns a disabled
// notifier when any required variable is missing.
func NewSMSNotifier() *SMSNotifier {
	from := os.Getenv("TWILIO_FROM_NUMBER")
	admin := os.Getenv("ADMIN_PHONE_NUMBER")
	if os.Getenv("TWILIO_ACCOUNT_SID") == "" || from == "" || admin == "" {
		return &SMSNotifier{}
	}
	return &SMSNotifier{
		client: twilio.NewRestClient(),
		from:   from,
		admin:  admin,
	}
}

func (n *SMSNotifier) Enabled() bool {
	return n != nil && n.client != nil
}

// EventSubmitted alerts the admin that a celestial event is waiting for
// review. Failures are logged, never surfaced to the submitting user.
func (n *SMSNotifier) EventSubmitted(eventName, submitter string) {
	n.send(fmt.Sprintf("AstroView: %q submitted by %s is pending review", eventName, submitter))
}

func (n *SMSNotifier) send(body string) {
	if !n.Enabled() {
		return
	}
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(n.admin)
	params.SetFrom(n.from)
	params.SetBody(body)

	if _, err := n.client.Api.CreateMessage(params); err != nil {
		log.Printf("sms notify failed: %v", err)
	}
}
