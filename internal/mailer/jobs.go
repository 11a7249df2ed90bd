package mailer

import "fmt"

// JobRegistrationConfirmed is the queue message type the worker handles.
const JobRegistrationConfirmed = "registration_confirmed"

// RegistrationJob is the payload enqueued when a student registers.
type RegistrationJob struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	EventTitle string `json:"event_title"`
}

// Render turns the job into a deliverable message.
func (j RegistrationJob) Render() Message {
	return Message{
		ToEmail: j.Email,
		ToName:  j.Name,
		Subject: "Registration confirmed: " + j.EventTitle,
		Body: fmt.Sprintf("Hi %s,\n\nYour registration for %q is confirmed. See you there!\n",
			j.Name, j.EventTitle),
	}
}
