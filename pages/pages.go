// Package pages renders the service's outward-facing HTML: the OAuth
// callback result pages and the social-preview quote pages.
package pages

import (
	"fmt"
	"html/template"
	"strings"
	"unicode/utf8"

	"quoteme/types"
)

// Renderer builds HTML pages around the deployment's public URLs.
type Renderer struct {
	webAppURL string
	appScheme string
}

func NewRenderer(webAppURL, appScheme string) *Renderer {
	return &Renderer{webAppURL: webAppURL, appScheme: appScheme}
}

// socialBots are the crawler user-agent fragments that get link previews.
var socialBots = []string{
	"facebookexternalhit",
	"facebookcatalog",
	"twitterbot",
	"linkedinbot",
	"whatsapp",
	"slackbot",
	"discordbot",
	"telegrambot",
	"pinterest",
	"skypeuripreview",
	"outbrain",
	"vkshare",
	"w3c_validator",
	"imessage",
	"messages",
	"com.apple.mobilesms",
	"applebot",
}

// IsSocialBot reports whether a user agent belongs to a known link-preview
// crawler.
func IsSocialBot(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, bot := range socialBots {
		if strings.Contains(ua, bot) {
			return true
		}
	}
	return false
}

// IsMobile reports whether a user agent looks like a phone or tablet.
func IsMobile(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, device := range []string{"iphone", "ipad", "android", "mobile"} {
		if strings.Contains(ua, device) {
			return true
		}
	}
	return false
}

// Description builds the social-preview description, truncating long quotes
// to keep it near the 160-character budget crawlers respect.
func Description(quote, author string) string {
	if author == "" {
		author = "Unknown"
	}
	if utf8.RuneCountInString(quote) > 100 {
		runes := []rune(quote)
		return fmt.Sprintf("%q... - %s", string(runes[:100]), author)
	}
	return fmt.Sprintf("%q - %s", quote, author)
}

type quotePageData struct {
	Quote       string
	Author      string
	ID          string
	Tags        []string
	TagsJoined  string
	Description string
	PageURL     string
	WebAppURL   string
	ImageURL    string
}

var quoteTmpl = template.Must(template.New("quote").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Author}} - Quote Me</title>
<meta name="title" content="{{.Author}} - Quote Me">
<meta name="description" content="{{.Description}}">
<meta property="og:type" content="article">
<meta property="og:url" content="{{.PageURL}}">
<meta property="og:title" content="Quote by {{.Author}}">
<meta property="og:description" content="{{.Description}}">
<meta property="og:image" content="{{.ImageURL}}">
<meta property="og:image:width" content="1200">
<meta property="og:image:height" content="630">
<meta property="og:image:type" content="image/png">
<meta property="og:site_name" content="Quote Me">
<meta property="og:locale" content="en_US">
<meta name="twitter:card" content="summary_large_image">
<meta name="twitter:site" content="@quoteme">
<meta name="twitter:creator" content="@quoteme">
<meta name="twitter:url" content="{{.PageURL}}">
<meta name="twitter:title" content="Quote by {{.Author}}">
<meta name="twitter:description" content="{{.Description}}">
<meta name="twitter:image" content="{{.ImageURL}}">
<meta name="twitter:image:alt" content="Quote Me - Share inspiring quotes">
<meta property="article:author" content="{{.Author}}">
{{range .Tags}}<meta property="article:tag" content="{{.}}">
{{end}}<meta http-equiv="refresh" content="5;url={{.WebAppURL}}">
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; display: flex; justify-content: center; align-items: center; min-height: 100vh; margin: 0; padding: 20px; }
.container { max-width: 800px; text-align: center; background: rgba(255, 255, 255, 0.1); padding: 40px; border-radius: 20px; }
.quote { font-size: 1.5em; font-style: italic; margin-bottom: 20px; line-height: 1.6; }
.author { font-size: 1.2em; font-weight: bold; margin-bottom: 30px; }
.tags { font-size: 0.9em; opacity: 0.9; margin-bottom: 30px; }
a { color: white; text-decoration: underline; }
</style>
</head>
<body>
<div class="container">
<div class="quote">"{{.Quote}}"</div>
<div class="author">— {{.Author}}</div>
{{if .Tags}}<div class="tags">Tags: {{.TagsJoined}}</div>
{{end}}<div class="redirect">Redirecting to Quote Me app... <a href="{{.WebAppURL}}">Click here if not redirected</a></div>
</div>
</body>
</html>
`))

// QuotePage renders the social-preview page for a quote. A nil quote yields
// the fallback page.
func (r *Renderer) QuotePage(q *types.Quote) (string, error) {
	if q == nil {
		return r.FallbackPage()
	}

	author := q.Author
	if author == "" {
		author = "Unknown"
	}

	data := quotePageData{
		Quote:       q.Quote,
		Author:      author,
		ID:          q.ID,
		Tags:        q.Tags,
		TagsJoined:  strings.Join(q.Tags, ", "),
		Description: Description(q.Quote, q.Author),
		PageURL:     fmt.Sprintf("%s/quote/%s", r.webAppURL, q.ID),
		WebAppURL:   r.webAppURL,
		ImageURL:    r.webAppURL + "/images/preview.png",
	}

	var sb strings.Builder
	if err := quoteTmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render quote page: %w", err)
	}
	return sb.String(), nil
}

var fallbackTmpl = template.Must(template.New("fallback").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Quote Me - Share Inspiring Quotes</title>
<meta name="title" content="Quote Me - Share Inspiring Quotes">
<meta name="description" content="Discover and share inspiring, witty, and wise quotes with Quote Me.">
<meta property="og:type" content="website">
<meta property="og:url" content="{{.WebAppURL}}">
<meta property="og:title" content="Quote Me - Share Inspiring Quotes">
<meta property="og:description" content="Discover and share inspiring, witty, and wise quotes with Quote Me.">
<meta property="og:image" content="{{.ImageURL}}">
<meta name="twitter:card" content="summary_large_image">
<meta name="twitter:url" content="{{.WebAppURL}}">
<meta name="twitter:title" content="Quote Me - Share Inspiring Quotes">
<meta name="twitter:description" content="Discover and share inspiring, witty, and wise quotes with Quote Me.">
<meta name="twitter:image" content="{{.ImageURL}}">
<meta http-equiv="refresh" content="5;url={{.WebAppURL}}">
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; display: flex; justify-content: center; align-items: center; min-height: 100vh; margin: 0; padding: 20px; }
.container { max-width: 600px; text-align: center; background: rgba(255, 255, 255, 0.1); padding: 40px; border-radius: 20px; }
a { color: white; text-decoration: underline; }
</style>
</head>
<body>
<div class="container">
<h1>Quote Not Found</h1>
<p>The quote you're looking for doesn't exist or has been removed.</p>
<p>Redirecting to Quote Me... <a href="{{.WebAppURL}}">Click here if not redirected</a></p>
</div>
</body>
</html>
`))

// FallbackPage renders the not-found preview page.
func (r *Renderer) FallbackPage() (string, error) {
	data := struct {
		WebAppURL string
		ImageURL  string
	}{
		WebAppURL: r.webAppURL,
		ImageURL:  r.webAppURL + "/images/preview.png",
	}

	var sb strings.Builder
	if err := fallbackTmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render fallback page: %w", err)
	}
	return sb.String(), nil
}

// ErrorPage is the bare page served when rendering itself fails.
func (r *Renderer) ErrorPage() string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Error - Quote Me</title></head>
<body>
<h1>Error</h1>
<p>An error occurred while loading this quote.</p>
<p><a href="%s">Go to Quote Me</a></p>
</body>
</html>`, r.webAppURL)
}
