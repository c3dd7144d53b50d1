package email

import (
	"fmt"
	"strings"

	"github.com/buildform/siteops-backend-go/internal/config"
	"gopkg.in/gomail.v2"
)

// DigestRow is one site line in the manager digest mail.
type DigestRow struct {
	Site            string
	PendingApproval int
	OpenSessions    int
}

// EmailService sends operational mail to project managers.
type EmailService interface {
	SendAttendanceDigest(to []string, date string, rows []DigestRow) error
}

type emailServiceImpl struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
}

func NewEmailService(cfg config.SMTPConfig) EmailService {
	return &emailServiceImpl{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// SendAttendanceDigest mails per-site attendance counts to the given managers.
func (s *emailServiceImpl) SendAttendanceDigest(to []string, date string, rows []DigestRow) error {
	if len(to) == 0 {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h3>Attendance digest for %s</h3>", date)
	b.WriteString("<table border=\"1\" cellpadding=\"4\"><tr><th>Site</th><th>Pending approval</th><th>Open sessions</th></tr>")
	for _, row := range rows {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>%d</td></tr>", row.Site, row.PendingApproval, row.OpenSessions)
	}
	b.WriteString("</table>")

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", fmt.Sprintf("SiteOps attendance digest %s", date))
	m.SetBody("text/html", b.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send attendance digest: %w", err)
	}
	return nil
}
