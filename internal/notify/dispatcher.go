// internal/notify/dispatcher.go
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"stageconnect/internal/common/config"
	"stageconnect/internal/common/logger"
	"stageconnect/internal/common/metrics"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SESService and SNSService mirror the AWS client methods used here, so
// tests can substitute fakes.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// HTTPDoer posts webhook payloads; *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Dispatcher delivers lifecycle events over the configured channels. Every
// failure is logged and swallowed: a lost email must never undo a committed
// state transition.
type Dispatcher struct {
	cfg     config.NotificationConfig
	logger  logger.Logger
	ses     SESService
	sns     SNSService
	httpc   HTTPDoer
	timeout time.Duration
}

func NewDispatcher(cfg config.NotificationConfig, log logger.Logger, sesClient SESService, snsClient SNSService) *Dispatcher {
	return &Dispatcher{
		cfg:     cfg,
		logger:  log.WithFields(map[string]interface{}{"component": "notify"}),
		ses:     sesClient,
		sns:     snsClient,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		timeout: 10 * time.Second,
	}
}

// DispatchAll delivers each event in order. It never returns an error.
func (d *Dispatcher) DispatchAll(ctx context.Context, events []Event) {
	for _, ev := range events {
		d.Dispatch(ctx, ev)
	}
}

// Dispatch delivers one event over every configured channel.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	if !d.cfg.Enabled {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	d.sendEmails(ctx, ev)
	d.publishTopic(ctx, ev)
	d.postWebhook(ctx, ev)
}

func (d *Dispatcher) sendEmails(ctx context.Context, ev Event) {
	if d.ses == nil {
		return
	}
	for _, msg := range renderEmails(ev) {
		if msg.To == "" {
			continue
		}
		_, err := d.ses.SendEmail(ctx, &ses.SendEmailInput{
			Source: awssdk.String(d.cfg.SenderEmail),
			Destination: &sestypes.Destination{
				ToAddresses: []string{msg.To},
			},
			Message: &sestypes.Message{
				Subject: &sestypes.Content{Data: awssdk.String(msg.Subject)},
				Body: &sestypes.Body{
					Text: &sestypes.Content{Data: awssdk.String(msg.Body)},
				},
			},
		})
		if err != nil {
			metrics.NotificationsFailed.WithLabelValues(string(ev.Type), "email").Inc()
			d.logger.Warn("email delivery failed", map[string]interface{}{
				"eventType": ev.Type,
				"recipient": msg.To,
				"error":     err.Error(),
			})
			continue
		}
		metrics.NotificationsSent.WithLabelValues(string(ev.Type), "email").Inc()
	}
}

func (d *Dispatcher) publishTopic(ctx context.Context, ev Event) {
	if d.sns == nil || d.cfg.TopicARN == "" {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		d.logger.Warn("event marshal failed", map[string]interface{}{
			"eventType": ev.Type,
			"error":     err.Error(),
		})
		return
	}
	_, err = d.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(d.cfg.TopicARN),
		Subject:  awssdk.String(string(ev.Type)),
		Message:  awssdk.String(string(payload)),
	})
	if err != nil {
		metrics.NotificationsFailed.WithLabelValues(string(ev.Type), "sns").Inc()
		d.logger.Warn("topic publish failed", map[string]interface{}{
			"eventType": ev.Type,
			"error":     err.Error(),
		})
		return
	}
	metrics.NotificationsSent.WithLabelValues(string(ev.Type), "sns").Inc()
}

func (d *Dispatcher) postWebhook(ctx context.Context, ev Event) {
	if d.httpc == nil || d.cfg.WebhookURL == "" {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpc.Do(req)
	if err != nil {
		metrics.NotificationsFailed.WithLabelValues(string(ev.Type), "webhook").Inc()
		d.logger.Warn("webhook delivery failed", map[string]interface{}{
			"eventType": ev.Type,
			"error":     err.Error(),
		})
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		metrics.NotificationsFailed.WithLabelValues(string(ev.Type), "webhook").Inc()
		d.logger.Warn("webhook delivery rejected", map[string]interface{}{
			"eventType": ev.Type,
			"status":    fmt.Sprintf("%d", resp.StatusCode),
		})
		return
	}
	metrics.NotificationsSent.WithLabelValues(string(ev.Type), "webhook").Inc()
}
