package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/jordan-wright/email"
	"golang.org/x/time/rate"

	"github.com/donaldgifford/slash/internal/metrics"
	domain "github.com/donaldgifford/slash/pkg/types"
)

// SMTPConfig holds the SMTP relay settings for EmailNotifier.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (c SMTPConfig) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// sendFunc delivers a composed message; swapped out in tests.
type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

func smtpSend(e *email.Email, addr string, auth smtp.Auth) error {
	return e.Send(addr, auth)
}

// EmailNotifier implements Notifier over SMTP. Sends are throttled so a full
// alert pass cannot exceed the relay's rate limit.
type EmailNotifier struct {
	cfg     SMTPConfig
	limiter *rate.Limiter
	send    sendFunc
}

// EmailOption configures an EmailNotifier.
type EmailOption func(*EmailNotifier)

// WithMaxPerSecond sets the send rate. Values <= 0 disable throttling.
func WithMaxPerSecond(perSecond float64) EmailOption {
	return func(n *EmailNotifier) {
		if perSecond <= 0 {
			n.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		n.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

func withSendFunc(f sendFunc) EmailOption {
	return func(n *EmailNotifier) {
		n.send = f
	}
}

// NewEmailNotifier creates an EmailNotifier sending at most one message per
// second unless overridden.
func NewEmailNotifier(cfg SMTPConfig, opts ...EmailOption) *EmailNotifier {
	n := &EmailNotifier{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		send:    smtpSend,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify composes and sends one message to recipient. Relays that do not
// offer AUTH are retried without credentials.
func (n *EmailNotifier) Notify(ctx context.Context, recipient string, items []domain.AlertItem) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for email send slot: %w", err)
	}

	start := time.Now()
	defer func() {
		metrics.NotificationDuration.WithLabelValues("email").Observe(time.Since(start).Seconds())
	}()

	msg, err := composeEmail(n.cfg.From, recipient, items)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	err = n.send(msg, n.cfg.addr(), auth)
	if err != nil && auth != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = n.send(msg, n.cfg.addr(), nil)
	}
	if err != nil {
		return fmt.Errorf("sending email to %s: %w", recipient, err)
	}
	return nil
}

var htmlBody = template.Must(template.New("alert").Parse(`<h2>{{.Subject}}</h2>
{{if .Rows}}<table>
<tr><th>Product</th><th>Price</th><th>Was</th><th>Site</th></tr>
{{range .Rows}}<tr><td>{{if .Link}}<a href="{{.Link}}">{{.Title}}</a>{{else}}{{.Title}}{{end}}</td><td>{{.Price}}</td><td>{{.Was}}</td><td>{{.Site}}</td></tr>
{{end}}</table>{{else}}<p>None of the products on your wishlist are below the price you saved them at.</p>{{end}}
`))

type emailRow struct {
	Title string
	Link  string
	Price string
	Was   string
	Site  string
}

func composeEmail(from, recipient string, items []domain.AlertItem) (*email.Email, error) {
	msg := email.NewEmail()
	msg.From = fmt.Sprintf("Slash <%s>", from)
	msg.To = []string{recipient}
	msg.Subject = subject(items)

	rows := make([]emailRow, 0, len(items))
	var text strings.Builder
	if len(items) == 0 {
		text.WriteString("None of the products on your wishlist are below the price you saved them at.\n")
	}
	for i := range items {
		item := &items[i]
		row := emailRow{
			Title: item.Title,
			Price: livePrice(item),
			Was:   usd(item.ReferencePrice),
			Site:  item.SiteName,
		}
		if hasLink(item.Link) {
			row.Link = item.Link
		}
		rows = append(rows, row)

		fmt.Fprintf(&text, "%s: %s (was %s) at %s\n", row.Title, row.Price, row.Was, row.Site)
		if row.Link != "" {
			fmt.Fprintf(&text, "  %s\n", row.Link)
		}
	}
	msg.Text = []byte(text.String())

	var html bytes.Buffer
	if err := htmlBody.Execute(&html, struct {
		Subject string
		Rows    []emailRow
	}{msg.Subject, rows}); err != nil {
		return nil, fmt.Errorf("rendering email body: %w", err)
	}
	msg.HTML = html.Bytes()

	return msg, nil
}
