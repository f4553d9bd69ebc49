package delivery

import (
	"context"
	"strconv"

	"github.com/mrz1836/postmark"
)

const defaultEmailSubject = "Notification"

// PostmarkSender delivers email through Postmark's transactional API.
type PostmarkSender struct {
	client *postmark.Client
	from   string
}

func NewPostmarkSender(serverToken, accountToken, from string) *PostmarkSender {
	return &PostmarkSender{
		client: postmark.NewClient(serverToken, accountToken),
		from:   from,
	}
}

func (s *PostmarkSender) Send(ctx context.Context, to string, msg Message) (*Receipt, error) {
	subject := msg.Subject
	if subject == "" {
		subject = defaultEmailSubject
	}

	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:     s.from,
		To:       to,
		Subject:  subject,
		TextBody: msg.Body,
	})
	if err != nil {
		return nil, &TransportError{Code: "provider_error", Message: err.Error()}
	}
	if resp.ErrorCode > 0 {
		return nil, &TransportError{
			Code:    strconv.FormatInt(resp.ErrorCode, 10),
			Message: resp.Message,
		}
	}

	return &Receipt{ProviderMessageID: resp.MessageID, Status: "sent"}, nil
}
