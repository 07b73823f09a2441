package email

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"techdigest/app/cfg"
	"techdigest/app/database"
	"techdigest/app/digest"
)

var _ digest.Sender = (*Sender)(nil)

// Sender delivers rendered digest and notification emails over SMTP.
type Sender struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	fromName  string
	now       func() time.Time
}

func NewSender() *Sender {
	appCfg := cfg.Get()

	return &Sender{
		host:      appCfg.SMTPHost,
		port:      appCfg.SMTPPort,
		username:  appCfg.SMTPUsername,
		password:  appCfg.SMTPPassword,
		fromEmail: appCfg.FromEmail,
		fromName:  appCfg.FromName,
		now:       time.Now,
	}
}

// Enabled reports whether SMTP transport is configured. Without a host the
// application runs digest selection and logging but skips actual delivery.
func (s *Sender) Enabled() bool {
	return s.host != ""
}

func (s *Sender) SendDigest(user database.User, groups []digest.Group, digestType string) error {
	subject := fmt.Sprintf("Your Daily Tech Digest - %s", s.now().Format("January 2, 2006"))
	if digestType == digest.TypeWeekly {
		subject = fmt.Sprintf("Your Weekly Tech Digest - %s", s.now().Format("January 2, 2006"))
	}

	body, err := RenderDigest(user, groups, digestType, s.now())
	if err != nil {
		return err
	}

	return s.send(user.Email, subject, body)
}

func (s *Sender) SendInstantNotification(user database.User, article database.Article, categoryNames []string) error {
	body, err := RenderNotification(article, categoryNames)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Breaking: %s", article.Title)

	return s.send(user.Email, subject, body)
}

func (s *Sender) send(to, subject, body string) error {
	if !s.Enabled() {
		slog.Warn("SMTP transport not configured, skipping email", "to", to, "subject", subject)
		return fmt.Errorf("smtp transport not configured")
	}

	msg := s.buildMessage(to, subject, body)

	addr := s.host + ":" + s.port
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	slog.Debug("Email sent", "to", to, "subject", subject)

	return nil
}

func (s *Sender) buildMessage(to, subject, body string) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.fromName, s.fromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	return []byte(b.String())
}
