package delivery

import (
	"context"
	"strconv"
	"time"

	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSender delivers over Twilio's messaging API. The same adapter
// serves SMS and WhatsApp; the channel is determined by the from address
// (whatsapp:-prefixed for WhatsApp).
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender builds a sender for the given from address. The request
// timeout is enforced at the HTTP client level because Twilio's generated
// API does not accept a context.
func NewTwilioSender(accountSID, authToken, from string, timeout time.Duration) *TwilioSender {
	base := &twilioclient.Client{
		Credentials: twilioclient.NewCredentials(accountSID, authToken),
	}
	base.SetTimeout(timeout)

	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
		Client:   base,
	})

	return &TwilioSender{client: rest, from: from}
}

func (s *TwilioSender) Send(ctx context.Context, to string, msg Message) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, &TransportError{Code: "context_canceled", Message: err.Error()}
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(msg.Body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return nil, &TransportError{Code: "provider_error", Message: err.Error()}
	}

	if resp.ErrorCode != nil && *resp.ErrorCode != 0 {
		terr := &TransportError{Code: strconv.Itoa(*resp.ErrorCode)}
		if resp.ErrorMessage != nil {
			terr.Message = *resp.ErrorMessage
		}
		return nil, terr
	}

	receipt := &Receipt{Status: "queued"}
	if resp.Sid != nil {
		receipt.ProviderMessageID = *resp.Sid
	}
	if resp.Status != nil {
		receipt.Status = *resp.Status
	}
	return receipt, nil
}
