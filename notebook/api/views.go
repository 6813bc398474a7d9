package api

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/andrebq/jot/internal/logutil"
	"github.com/andrebq/jot/notebook"
)

// The pages are deliberately bare: just enough markup to exercise every
// route from a browser. Anything nicer belongs to a real frontend.

type (
	signupData struct {
		Message string
	}
	loginData struct {
		Message string
	}
	userData struct {
		Name string
	}
	profileData struct {
		Name  string
		Notes []notebook.Note
	}
)

var (
	homePage = page(`<h1>jot</h1>
<p>A tiny notebook. <a href="/signup">Sign up</a> or <a href="/login">log in</a>.</p>`)

	signupPage = page(`<h1>Sign up</h1>
{{with .Message}}<p>{{.}}</p>{{end}}
<form method="POST" action="/signup">
<input name="username" placeholder="username">
<input name="password" type="password" placeholder="password">
<button type="submit">Sign up</button>
</form>
<p><a href="/login">Log in</a> instead.</p>`)

	loginPage = page(`<h1>Log in</h1>
{{with .Message}}<p>{{.}}</p>{{end}}
<form method="POST" action="/login">
<input name="username" placeholder="username">
<input name="password" type="password" placeholder="password">
<button type="submit">Log in</button>
</form>
<p><a href="/signup">Sign up</a> instead.</p>`)

	dashboardPage = page(`<h1>Welcome, {{.Name}}</h1>
<p><a href="/profile">Your notes</a> | <a href="/logout">Log out</a></p>`)

	profilePage = page(`<h1>{{.Name}}'s notes</h1>
<ul>
{{range .Notes}}<li>{{.Text}}
<form method="POST" action="/delete-note"><input type="hidden" name="id" value="{{.ID}}"><button type="submit">delete</button></form>
</li>
{{else}}<li>No notes yet.</li>
{{end}}</ul>
<form method="POST" action="/add-note">
<input name="note" placeholder="write something">
<button type="submit">Add note</button>
</form>
<p><a href="/dashboard">Dashboard</a> | <a href="/logout">Log out</a></p>`)
)

func page(body string) *template.Template {
	const skeleton = `<!doctype html>
<html><head><meta charset="utf-8"><title>jot</title></head>
<body>
%v
</body></html>`
	return template.Must(template.New("page").Parse(fmt.Sprintf(skeleton, body)))
}

func renderPage(w http.ResponseWriter, r *http.Request, tmpl *template.Template, data interface{}) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		logger := logutil.GetOrDefault(r.Context())
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("Unable to render page")
		http.Error(w, "something went wrong, try again later", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
