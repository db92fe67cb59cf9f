// ABOUTME: Selection submission endpoint and demo application handlers
// ABOUTME: Renders the candidate form for unselected sessions and the resolved identity after

package gateway

import (
	"html/template"
	"net/http"

	"github.com/selectgate/selectgate/internal/auth"
	"github.com/selectgate/selectgate/internal/session"
	"github.com/selectgate/selectgate/internal/store"
)

// Template data types
type selectionPageData struct {
	Title      string
	Name       string
	LoginPath  string
	Candidates []store.AccountCandidate
}

type appPageData struct {
	Title string
	Name  string
	Roles []string
}

// selectionTemplate is what an anonymous-but-verified caller sees: the
// accounts linked to their identity, each posting to the login path.
var selectionTemplate = template.Must(template.New("selection").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
<h1>Select an account</h1>
<p>{{.Name}}, your identity is linked to the application accounts below.
Pick the one to continue as; the choice holds for the rest of this session.</p>
<form method="post" action="{{.LoginPath}}">
<ul>
{{range .Candidates}}
  <li><button type="submit" name="appUserId" value="{{.AccountID}}">{{.AccountID}}</button></li>
{{end}}
</ul>
</form>
</body>
</html>
`))

var appTemplate = template.Must(template.New("app").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p>Signed in as <strong>{{.Name}}</strong></p>
<ul>
{{range .Roles}}
  <li>{{.}}</li>
{{end}}
</ul>
</body>
</html>
`))

// handleLogin serves the login path. The auth middleware has already done
// the work: a request only reaches this handler once its selection was
// accepted and the session authenticated, so all that remains is sending
// the user on. Unselected or tampered submissions never get here.
func (g *Gateway) handleLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleApp is the application surface. For an unselected session it
// presents the selection form (this is the page the default role exists to
// reach); for a selected one it shows the attached identity and roles.
func (g *Gateway) handleApp(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustFromContext(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if principal.Kind != auth.KindSelected {
		sess := session.FromContext(r.Context())
		candidates, _ := auth.CachedCandidates(sess)

		data := selectionPageData{
			Title:      "Select account",
			Name:       principal.Name(),
			LoginPath:  g.cfg.Auth.LoginPath,
			Candidates: candidates,
		}
		if err := selectionTemplate.Execute(w, data); err != nil {
			g.logger.Error("rendering selection page", "error", err)
		}
		return
	}

	data := appPageData{
		Title: "selectgate",
		Name:  principal.Name(),
		Roles: principal.Roles,
	}
	if err := appTemplate.Execute(w, data); err != nil {
		g.logger.Error("rendering app page", "error", err)
	}
}
