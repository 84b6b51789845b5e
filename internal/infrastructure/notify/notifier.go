package notify

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/tokenflow-auth/internal/application"
	"github.com/oksasatya/tokenflow-auth/pkg/mailer"
	tpl "github.com/oksasatya/tokenflow-auth/pkg/mailer/templates"
)

func signupJob(b tpl.Brand, msg application.VerificationMessage) mailer.EmailJob {
	data := tpl.NewSignupCodeData(b, msg.FullName, msg.To, msg.Code,
		tpl.WithTime(msg.SentAt),
		tpl.WithExpiresAt(msg.ExpiresAt, msg.SentAt),
		tpl.WithIP(msg.IP),
		tpl.WithUserAgent(msg.UserAgent),
	)
	return mailer.EmailJob{To: msg.To, Template: tpl.SignupCode, Data: data}
}

// MailNotifier renders the signup email and sends it inline, so delivery
// failures reach the caller.
type MailNotifier struct {
	Sender mailer.Sender
	Brand  tpl.Brand
}

func NewMailNotifier(s mailer.Sender, b tpl.Brand) *MailNotifier {
	return &MailNotifier{Sender: s, Brand: b}
}

func (n *MailNotifier) SendVerificationCode(ctx context.Context, msg application.VerificationMessage) error {
	job := signupJob(n.Brand, msg)
	if err := mailer.Resolve(&job); err != nil {
		return fmt.Errorf("render signup email: %w", err)
	}
	return n.Sender.Send(ctx, job.To, job.Subject, job.Text, job.HTML)
}

// QueueNotifier hands the email to the worker through RabbitMQ. Only
// publish failures are visible to the caller.
type QueueNotifier struct {
	Pub   mailer.Publisher
	Brand tpl.Brand
}

func NewQueueNotifier(p mailer.Publisher, b tpl.Brand) *QueueNotifier {
	return &QueueNotifier{Pub: p, Brand: b}
}

func (n *QueueNotifier) SendVerificationCode(ctx context.Context, msg application.VerificationMessage) error {
	return n.Pub.PublishJSON(ctx, signupJob(n.Brand, msg))
}

// LogNotifier is used when MAIL_SEND_ENABLED=false. The code is only logged at debug level.
type LogNotifier struct {
	Logger *logrus.Logger
}

func (n LogNotifier) SendVerificationCode(_ context.Context, msg application.VerificationMessage) error {
	n.Logger.WithField("to", msg.To).Info("mail sending disabled; verification email not sent")
	n.Logger.WithFields(logrus.Fields{"to": msg.To, "code": msg.Code}).Debug("verification code")
	return nil
}

var (
	_ application.Notifier = (*MailNotifier)(nil)
	_ application.Notifier = (*QueueNotifier)(nil)
	_ application.Notifier = LogNotifier{}
)
