package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"blog-api/internal/core/config"
	"blog-api/internal/core/worker"
)

type Message struct {
	Name    string
	Email   string
	Subject string
	Body    string
}

// Sender 实际投递，SMTP 或仅日志
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// Notifier 异步投递，不阻塞请求
type Notifier struct {
	pool   *worker.Pool
	sender Sender
	log    *zap.Logger
}

func New(pool *worker.Pool, s Sender, l *zap.Logger) *Notifier {
	return &Notifier{pool: pool, sender: s, log: l}
}

// FromConfig smtp.host 为空时只写日志
func FromConfig(c config.SMTP, l *zap.Logger) (*Notifier, error) {
	var s Sender = LogSender{Log: l}
	if c.Host != "" {
		smtp, err := NewSMTPSender(c)
		if err != nil {
			return nil, err
		}
		s = smtp
	}
	return New(worker.NewPool(c.Workers, c.QueueSize, l), s, l), nil
}

func (n *Notifier) Notify(_ context.Context, name, email, subject, body string) {
	m := Message{Name: name, Email: email, Subject: subject, Body: body}
	err := n.pool.TrySubmit(func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		return n.sender.Send(ctx, m)
	})
	if err != nil {
		n.log.Warn("notification dropped",
			zap.String("email", email), zap.String("subject", subject), zap.Error(err))
	}
}

func (n *Notifier) Close(ctx context.Context) error { return n.pool.Stop(ctx) }

type LogSender struct{ Log *zap.Logger }

func (s LogSender) Send(_ context.Context, m Message) error {
	s.Log.Info("notification", zap.String("to", m.Email), zap.String("subject", m.Subject))
	return nil
}

type SMTPSender struct {
	client *mail.Client
	from   string
}

func NewSMTPSender(c config.SMTP) (*SMTPSender, error) {
	opts := []mail.Option{
		mail.WithPort(c.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(15 * time.Second),
	}
	if c.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(c.Username),
			mail.WithPassword(c.Password),
		)
	}
	client, err := mail.NewClient(c.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPSender{client: client, from: c.From}, nil
}

func buildMessage(from string, m Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if err := msg.AddToFormat(m.Name, m.Email); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Body)
	return msg, nil
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	msg, err := buildMessage(s.from, m)
	if err != nil {
		return err
	}
	return s.client.DialAndSendWithContext(ctx, msg)
}
