package nuggets

import (
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"quoteme/config"
	"quoteme/types"
)

// MailerConfig holds SES settings plus the public URLs baked into each email.
type MailerConfig struct {
	Region    string
	Profile   string
	Sender    string
	WebAppURL string
	AppScheme string
}

// Mailer sends daily nugget emails through SES.
type Mailer struct {
	client    *sesv2.Client
	sender    string
	webAppURL string
	appScheme string
}

// NewMailer builds a Mailer using the default AWS credential chain.
func NewMailer(ctx context.Context, cfg MailerConfig) (*Mailer, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Mailer{
		client:    sesv2.NewFromConfig(awsCfg),
		sender:    cfg.Sender,
		webAppURL: cfg.WebAppURL,
		appScheme: cfg.AppScheme,
	}, nil
}

// ShareLinks are the social share URLs embedded in each nugget.
type ShareLinks struct {
	Twitter  string
	Facebook string
	LinkedIn string
	Email    string
}

// BuildShareLinks derives the share URLs for a quote.
func BuildShareLinks(webAppURL string, q types.Quote) ShareLinks {
	quoteText := fmt.Sprintf("%q — %s", q.Quote, q.Author)
	encoded := url.QueryEscape(quoteText)
	pageURL := fmt.Sprintf("%s/quote/%s", webAppURL, q.ID)

	subject := url.QueryEscape("Check out this inspiring quote!")
	body := url.QueryEscape(quoteText + "\n\nShared from Quote Me Daily Nuggets")

	return ShareLinks{
		Twitter:  fmt.Sprintf("https://twitter.com/intent/tweet?text=%s&hashtag=DailyNugget", encoded),
		Facebook: fmt.Sprintf("https://www.facebook.com/sharer/sharer.php?u=%s&quote=%s", url.QueryEscape(pageURL), encoded),
		LinkedIn: fmt.Sprintf("https://www.linkedin.com/sharing/share-offsite/?url=%s", url.QueryEscape(pageURL)),
		Email:    fmt.Sprintf("mailto:?subject=%s&body=%s", subject, body),
	}
}

type emailData struct {
	Date        string
	Quote       string
	Author      string
	Tags        []string
	PageURL     template.URL
	DeepLink    template.URL
	ProfileLink template.URL
	WebProfile  template.URL
	Share       ShareLinks
}

var emailTmpl = template.Must(template.New("daily").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: 'Georgia', serif; background-color: #f5f5f5; margin: 0; padding: 0; }
.container { max-width: 600px; margin: 40px auto; background: white; border-radius: 10px; overflow: hidden; }
.header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; text-align: center; }
.content { padding: 40px; }
.quote { font-size: 24px; line-height: 1.6; color: #2d3748; font-style: italic; margin: 20px 0; }
.author { font-size: 18px; color: #4a5568; text-align: right; margin: 20px 0; }
.tag { display: inline-block; background: #edf2f7; color: #4a5568; padding: 5px 15px; border-radius: 20px; margin: 5px; font-size: 14px; }
.share-section { background: #f8f9fa; border-radius: 8px; padding: 20px; margin: 30px 0; text-align: center; }
.share-button { display: inline-block; margin: 0 8px; padding: 10px 20px; background: white; border: 1px solid #e2e8f0; border-radius: 6px; text-decoration: none; color: #4a5568; font-size: 14px; }
.action-button { display: inline-block; padding: 12px 30px; background: #667eea; color: white; text-decoration: none; border-radius: 6px; font-size: 16px; font-weight: 600; margin: 0 10px; }
.footer { background: #f7fafc; padding: 20px; text-align: center; color: #718096; font-size: 14px; }
</style>
</head>
<body>
<div class="container">
<div class="header">
<h1 style="margin: 0; font-size: 28px;">✨ Daily Nugget</h1>
<p style="margin: 10px 0 0 0; opacity: 0.9;">Your daily dose of inspiration</p>
</div>
<div class="content">
<div class="quote">"{{.Quote}}"</div>
<div class="author">— {{.Author}}</div>
{{if .Tags}}<div class="tags">{{range .Tags}}<span class="tag">{{.}}</span>{{end}}</div>{{end}}
<div class="share-section">
<div class="share-title">Share this quote</div>
<div class="share-buttons">
<a href="{{.Share.Twitter}}" class="share-button">🐦 Twitter</a>
<a href="{{.Share.Facebook}}" class="share-button">📘 Facebook</a>
<a href="{{.Share.LinkedIn}}" class="share-button">💼 LinkedIn</a>
<a href="{{.Share.Email}}" class="share-button">✉️ Email</a>
</div>
</div>
<div class="action-buttons" style="text-align: center; margin: 30px 0;">
<a href="{{.PageURL}}" class="action-button">View in Browser</a>
<a href="{{.DeepLink}}" class="action-button">Open in App</a>
</div>
</div>
<div class="footer">
<p>You're receiving this because you subscribed to Daily Nuggets.</p>
<p><a href="{{.ProfileLink}}">Manage your subscription</a> in the Quote Me app.</p>
<p style="font-size: 12px; margin-top: 10px;"><a href="{{.WebProfile}}" style="color: #718096;">Or manage in your browser</a></p>
</div>
</div>
</body>
</html>
`))

// buildEmail renders the subject, HTML body and plain-text fallback for a
// daily nugget. Tags are capped at five to keep the layout tidy.
func buildEmail(webAppURL, appScheme string, q types.Quote, now time.Time) (subject, htmlBody, textBody string, err error) {
	subject = fmt.Sprintf("🌟 Your Daily Nugget - %s", now.Format("January 2, 2006"))

	tags := q.Tags
	if len(tags) > config.MaxEmailTags {
		tags = tags[:config.MaxEmailTags]
	}

	share := BuildShareLinks(webAppURL, q)
	data := emailData{
		Date:        now.Format("January 2, 2006"),
		Quote:       q.Quote,
		Author:      q.Author,
		Tags:        tags,
		PageURL:     template.URL(fmt.Sprintf("%s/quote/%s", webAppURL, q.ID)),
		DeepLink:    template.URL(fmt.Sprintf("%squote/%s", appScheme, q.ID)),
		ProfileLink: template.URL(appScheme + "profile"),
		WebProfile:  template.URL(webAppURL + "/profile"),
		Share:       share,
	}

	var sb strings.Builder
	if err := emailTmpl.Execute(&sb, data); err != nil {
		return "", "", "", fmt.Errorf("render daily email: %w", err)
	}
	htmlBody = sb.String()

	textBody = fmt.Sprintf(`Daily Nugget - %s

%q

— %s

Tags: %s

---
Share this quote:
- Twitter: %s
- View in browser: %s/quote/%s
- Open in app: %squote/%s

---
You're receiving this because you subscribed to Daily Nuggets.
Manage your subscription in the Quote Me app.
`,
		now.Format("January 2, 2006"), q.Quote, q.Author, strings.Join(tags, ", "),
		share.Twitter, webAppURL, q.ID, appScheme, q.ID)

	return subject, htmlBody, textBody, nil
}

// SendDaily sends one daily nugget email.
func (m *Mailer) SendDaily(ctx context.Context, to string, q types.Quote) error {
	subject, htmlBody, textBody, err := buildEmail(m.webAppURL, m.appScheme, q, time.Now())
	if err != nil {
		return err
	}

	_, err = m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("Quote Me Daily <%s>", m.sender)),
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(subject)},
				Body: &sestypes.Body{
					Html: &sestypes.Content{Data: aws.String(htmlBody)},
					Text: &sestypes.Content{Data: aws.String(textBody)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}
