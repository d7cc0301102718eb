package services

import (
	"fmt"
	"strings"
)

type MessageBuilder struct{}

func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{}
}

// BuildShortlistSubject creates the subject line of a shortlist email.
func (mb *MessageBuilder) BuildShortlistSubject() string {
	return "Your application has been shortlisted"
}

// BuildShortlistBody creates the HTML body of a shortlist email. The token
// lets the candidate reference this notification when replying.
func (mb *MessageBuilder) BuildShortlistBody(name, token string) string {
	greeting := "Hello"
	if name = strings.TrimSpace(name); name != "" {
		greeting = fmt.Sprintf("Hello %s", name)
	}

	return fmt.Sprintf(`<p>%s,</p>
<p>Thank you for your application. Your résumé matched the role well and you have been shortlisted for the next round.</p>
<p>Our team will contact you shortly to schedule an interview. Please quote the reference below in any reply.</p>
<p>Reference: <strong>%s</strong></p>
<p>Best regards,<br/>Recruitment Team</p>`, greeting, token)
}
