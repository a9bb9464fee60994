package http

import (
	"html/template"
	"net/http"

	"github.com/libelulasoft/agil-idp/internal/idp/service"
)

// loginPageTmpl is the minimal hosted login form. The original authorization
// request parameters travel through it as hidden inputs so the POST can
// reconstruct the request verbatim.
var loginPageTmpl = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<meta name="viewport" content="width=device-width, initial-scale=1">
	<title>Sign in</title>
	<style>
		body { font-family: sans-serif; background: #f4f4f5; display: flex; justify-content: center; padding-top: 8vh; }
		form { background: #fff; padding: 2rem; border-radius: 8px; box-shadow: 0 1px 4px rgba(0,0,0,.1); width: 20rem; }
		h1 { font-size: 1.25rem; margin-top: 0; }
		label { display: block; margin-top: 1rem; font-size: .875rem; }
		input[type=email], input[type=password] { width: 100%; padding: .5rem; margin-top: .25rem; box-sizing: border-box; }
		button { margin-top: 1.5rem; width: 100%; padding: .6rem; border: 0; border-radius: 4px; background: #2563eb; color: #fff; font-size: 1rem; }
		.error { color: #b91c1c; font-size: .875rem; margin-top: 1rem; }
	</style>
</head>
<body>
	<form method="post" action="/authorize">
		<h1>Sign in</h1>
		{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
		<input type="hidden" name="response_type" value="{{.Req.ResponseType}}">
		<input type="hidden" name="client_id" value="{{.Req.ClientID}}">
		<input type="hidden" name="redirect_uri" value="{{.Req.RedirectURI}}">
		<input type="hidden" name="scope" value="{{.Req.Scope}}">
		<input type="hidden" name="state" value="{{.Req.State}}">
		<input type="hidden" name="nonce" value="{{.Req.Nonce}}">
		<label>Email
			<input type="email" name="email" autocomplete="username" required>
		</label>
		<label>Password
			<input type="password" name="password" autocomplete="current-password" required>
		</label>
		<button type="submit">Continue</button>
	</form>
</body>
</html>
`))

type loginPageData struct {
	Req   service.AuthorizeRequest
	Error string
}

func renderLoginPage(w http.ResponseWriter, req service.AuthorizeRequest, errMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	// Template execution over a fixed struct cannot fail after Must.
	_ = loginPageTmpl.Execute(w, loginPageData{Req: req, Error: errMsg})
}
