package notification

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/campuslink/events-api/external/sendgrid"
	"github.com/campuslink/events-api/schema"
)

// Notifier sends event announcement mails to students.
type Notifier struct {
	mail *sendgrid.Client
}

func NewNotifier(mail *sendgrid.Client) *Notifier {
	return &Notifier{mail: mail}
}

// AnnounceEvent mails a new-event announcement to the given recipients.
func (n *Notifier) AnnounceEvent(event *schema.Event, recipients []string) error {
	subject := fmt.Sprintf("New Event: %s", event.Name)
	body := fmt.Sprintf(`<h1>%s</h1>
<p><strong>Date:</strong> %s</p>
<p><strong>Time:</strong> %s</p>
<p><strong>Location:</strong> %s</p>
<p><strong>Description:</strong></p>
<p>%s</p>`,
		event.Name,
		event.Date.Format("2006-01-02"),
		event.Time,
		event.Location,
		event.Description,
	)

	if err := n.mail.Send(recipients, subject, body); err != nil {
		log.WithFields(log.Fields{
			"prefix": "notification",
			"event":  event.Name,
			"error":  err,
		}).Error("send event announcement fail")
		return err
	}
	return nil
}
