package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"gymhub/internal/logger"
	"gymhub/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey   = "emails"
	failedKey  = "emails:failed"
	maxTries   = 3
	pollWait   = 2 * time.Second
	timeLayout = "02/01/2006 15:04"
)

type Job struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Kind    string    `json:"kind"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Config struct {
	From     string
	FromName string
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
}

// Service queues notification emails in redis and delivers them over SMTP
// from a single worker.
type Service struct {
	redis      redis.UniversalClient
	cfg        Config
	retryDelay time.Duration
	sendMail   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func New(rdb redis.UniversalClient, cfg Config) *Service {
	return &Service{
		redis:      rdb,
		cfg:        cfg,
		retryDelay: 5 * time.Second,
		sendMail:   smtp.SendMail,
	}
}

func (s *Service) Send(ctx context.Context, kind, to, name, subject, body string) error {
	job := Job{
		To:      to,
		Name:    name,
		Kind:    kind,
		Subject: subject,
		Body:    body,
		Created: time.Now().UTC(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode email job: %w", err)
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Error("failed to queue email", "to", to, "kind", kind, "error", err)
		metrics.RecordEmail(kind, "queue_failed")
		return err
	}

	logger.Debug("email queued", "to", to, "kind", kind)
	return nil
}

// Start runs the delivery worker until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, pollWait, queueKey).Result()
	if err != nil {
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("dropping malformed email job", "error", err)
		return
	}

	job.Tries++
	if err := s.deliver(job); err != nil {
		logger.Error("email delivery failed", "to", job.To, "attempt", job.Tries, "error", err)

		if job.Tries < maxTries {
			time.Sleep(s.retryDelay)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, string(data))
			return
		}
		metrics.RecordEmail(job.Kind, "failed")
		s.saveFailed(job, err)
		return
	}

	metrics.RecordEmail(job.Kind, "success")
	metrics.EmailQueueLength.Set(float64(s.QueueLength(ctx)))
	logger.Info("email sent", "to", job.To, "kind", job.Kind)
}

func (s *Service) deliver(job Job) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, s.cfg.From)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.cfg.SMTPUser != "" && s.cfg.SMTPPass != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	}

	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort
	return s.sendMail(addr, auth, s.cfg.From, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job Job, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now().UTC(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedKey, string(data))
	logger.Error("email moved to failed queue", "to", job.To, "kind", job.Kind)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) SendBookingConfirmation(ctx context.Context, to, name, service, location string, when time.Time) error {
	subject := "Booking Confirmed - " + service
	body := fmt.Sprintf(`Hi %s,

Your booking is confirmed!

Class: %s
Location: %s
Time: %s

One credit has been used for this booking.

See you at the gym!

- GymHub Team`, name, service, location, when.Format(timeLayout))

	return s.Send(ctx, "booking_confirmation", to, name, subject, body)
}

func (s *Service) SendCancellation(ctx context.Context, to, name, service string, when time.Time) error {
	subject := "Booking Cancelled - " + service
	body := fmt.Sprintf(`Hi %s,

Your booking has been cancelled:

Class: %s
Time: %s

Your credit has been refunded.

- GymHub Team`, name, service, when.Format(timeLayout))

	return s.Send(ctx, "booking_cancellation", to, name, subject, body)
}

func (s *Service) SendPaymentReceipt(ctx context.Context, to, name, service string, quantity int, amountCents int64) error {
	subject := "Payment Received - " + service
	body := fmt.Sprintf(`Hi %s,

Thanks for your purchase!

Service: %s
Credits: %d
Amount: EUR %d.%02d

Your credits are ready to use.

- GymHub Team`, name, service, quantity, amountCents/100, amountCents%100)

	return s.Send(ctx, "payment_receipt", to, name, subject, body)
}
