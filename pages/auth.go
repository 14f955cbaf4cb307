package pages

import (
	"fmt"
	"html/template"
	"strings"
)

type successPageData struct {
	IsMobile    bool
	DeepLink    template.URL
	RedirectURL string
	SuccessKey  string
}

var successTmpl = template.Must(template.New("auth-success").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Authentication Successful - Quote Me</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; display: flex; justify-content: center; align-items: center; min-height: 100vh; margin: 0; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); }
.container { text-align: center; background: white; padding: 2.5rem; border-radius: 16px; box-shadow: 0 20px 40px rgba(0,0,0,0.1); max-width: 420px; margin: 1rem; }
.success-icon { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; font-size: 3rem; width: 80px; height: 80px; border-radius: 50%; display: inline-flex; align-items: center; justify-content: center; margin-bottom: 1.5rem; }
h1 { color: #333; margin-bottom: 1rem; font-size: 1.8rem; }
p { color: #666; line-height: 1.6; margin-bottom: 1.5rem; }
.btn { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 14px 28px; border: none; border-radius: 8px; cursor: pointer; font-size: 16px; font-weight: 600; text-decoration: none; display: inline-block; margin: 0.5rem; }
.btn-secondary { background: #e0e0e0; color: #333; }
.spinner { display: inline-block; width: 20px; height: 20px; border: 3px solid #f3f3f3; border-top: 3px solid #667eea; border-radius: 50%; animation: spin 1s linear infinite; margin-right: 10px; vertical-align: middle; }
@keyframes spin { 0% { transform: rotate(0deg); } 100% { transform: rotate(360deg); } }
</style>
</head>
<body>
<div class="container">
<div class="success-icon">✓</div>
<h1>Welcome to Quote Me!</h1>
<p>You've successfully signed in with Google.</p>
<div id="mobile-instructions" style="display: {{if .IsMobile}}block{{else}}none{{end}};">
<p><strong>For mobile users:</strong><br>
Return to the Quote Me app - you should now be signed in!</p>
<a href="{{.DeepLink}}" class="btn">Open Quote Me App</a>
</div>
<div id="web-instructions" style="display: {{if .IsMobile}}none{{else}}block{{end}};">
<p>Redirecting to Quote Me...</p>
<div class="loading"><span class="spinner"></span><span>Loading your quotes...</span></div>
</div>
<br>
<a href="{{.RedirectURL}}" class="btn btn-secondary">Continue to Quote Me</a>
</div>
<script>
var isMobile = {{.IsMobile}};
var deepLink = {{.DeepLink}};
var redirectUrl = {{.RedirectURL}};
try {
  localStorage.setItem('oauth_success', 'true');
  localStorage.setItem('oauth_timestamp', Date.now().toString());
  if (!isMobile) {
    setTimeout(function() { window.location.href = redirectUrl; }, 3000);
  } else {
    setTimeout(function() { window.location.href = deepLink; }, 1000);
  }
} catch (e) {
  console.error('script error:', e);
}
</script>
</body>
</html>
`))

// SuccessPage renders the post-login landing page. Mobile browsers get the
// app deep link (carrying the one-time success key when flag storage
// worked); desktop browsers auto-redirect to the web app.
func (r *Renderer) SuccessPage(isMobile bool, successKey string) (string, error) {
	deepLink := r.appScheme + "auth-success"
	if successKey != "" {
		deepLink += "?success_key=" + successKey
	}

	data := successPageData{
		IsMobile:    isMobile,
		DeepLink:    template.URL(deepLink),
		RedirectURL: r.webAppURL + "?auth=success",
		SuccessKey:  successKey,
	}

	var sb strings.Builder
	if err := successTmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render success page: %w", err)
	}
	return sb.String(), nil
}

var authErrorTmpl = template.Must(template.New("auth-error").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Authentication Failed - Quote Me</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; display: flex; justify-content: center; align-items: center; min-height: 100vh; margin: 0; background: linear-gradient(135deg, #f093fb 0%, #f5576c 100%); }
.container { text-align: center; background: white; padding: 2.5rem; border-radius: 16px; box-shadow: 0 20px 40px rgba(0,0,0,0.1); max-width: 420px; margin: 1rem; }
.error-icon { background: #f5576c; color: white; font-size: 3rem; width: 80px; height: 80px; border-radius: 50%; display: inline-flex; align-items: center; justify-content: center; margin-bottom: 1.5rem; }
h1 { color: #333; margin-bottom: 1rem; }
p { color: #666; line-height: 1.6; margin-bottom: 1.5rem; }
.error-details { background: #ffebee; border-left: 4px solid #f5576c; padding: 1rem; text-align: left; margin: 1rem 0; border-radius: 4px; }
.btn { background: #f5576c; color: white; padding: 14px 28px; border: none; border-radius: 8px; cursor: pointer; font-size: 16px; font-weight: 600; text-decoration: none; display: inline-block; }
</style>
</head>
<body>
<div class="container">
<div class="error-icon">✕</div>
<h1>Authentication Failed</h1>
<p>We couldn't complete your sign-in.</p>
<div class="error-details"><strong>Error:</strong><br>
{{.Message}}</div>
<a href="{{.WebAppURL}}" class="btn">Back to Quote Me</a>
</div>
</body>
</html>
`))

// AuthErrorPage renders the failed-login page. The message is escaped by the
// template, so upstream error text can be passed straight through.
func (r *Renderer) AuthErrorPage(message string) (string, error) {
	data := struct {
		Message   string
		WebAppURL string
	}{Message: message, WebAppURL: r.webAppURL}

	var sb strings.Builder
	if err := authErrorTmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render auth error page: %w", err)
	}
	return sb.String(), nil
}
