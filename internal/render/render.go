// Package render turns store state into escaped HTML fragments, one per
// view. All user-supplied text goes through html/template's contextual
// escaping, so markup in names, posts or messages is rendered inert.
package render

import (
	"bytes"
	"html/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/zdr/communaute/internal/models"
	"github.com/zdr/communaute/internal/store"
)

// Views is one full rendered snapshot: every fragment is rebuilt together on
// any change, so they can never drift apart.
type Views struct {
	Badge       string `json:"badge"`
	Leaderboard string `json:"leaderboard"`
	Feed        string `json:"feed"`
	Chat        string `json:"chat"`
}

// Badge is the data behind the personal score badge.
type Badge struct {
	Name     string
	Posts    int
	Missions int
	Points   int
}

var rankMarkers = []string{"🥇", "🥈", "🥉", "4.", "5."}

var funcs = template.FuncMap{
	"marker": func(i int) string {
		if i < len(rankMarkers) {
			return rankMarkers[i]
		}
		return ""
	},
	"ago": func(iso string) string {
		t, err := time.Parse(time.RFC3339, iso)
		if err != nil {
			return "date inconnue"
		}
		return humanize.Time(t)
	},
	"orElse": func(s, def string) string {
		if s == "" {
			return def
		}
		return s
	},
}

var tmpl = template.Must(template.New("views").Funcs(funcs).Parse(`
{{define "badge" -}}
<div class="me">
  <span class="me-name">{{.Name}}</span>
  <span class="me-points">{{.Points}} pts</span>
  <span class="me-detail">{{.Missions}} missions · {{.Posts}} posts</span>
</div>
{{- end}}

{{define "leaderboard" -}}
{{if not . -}}
<div class="board-empty">Personne au classement pour l’instant.</div>
{{- else -}}
<ol class="board">
{{- range $i, $row := .}}
  <li class="board-row">
    <span class="board-rank">{{marker $i}}</span>
    <span class="board-name">{{$row.Username}}</span>
    <span class="board-points">{{$row.Points}} pts</span>
  </li>
{{- end}}
</ol>
{{- end}}
{{- end}}

{{define "feed" -}}
{{if not . -}}
<div class="feed-empty">Aucun post pour l’instant. Partage ta progression 💪</div>
{{- else -}}
{{range . -}}
<article class="post" data-id="{{.ID}}">
  <div class="post-meta">
    <span class="post-name">{{orElse .Username "Anonyme"}}</span>
    <span class="post-date">{{ago .CreatedAt}}</span>
  </div>
  {{if .Text}}<p class="post-text">{{.Text}}</p>{{end}}
  {{if or .BeforeSrc .AfterSrc -}}
  <div class="post-photos">
    {{if .BeforeSrc}}<figure><img class="post-img" src="{{.BeforeSrc}}" alt="avant"><figcaption>Avant</figcaption></figure>{{end}}
    {{if .AfterSrc}}<figure><img class="post-img" src="{{.AfterSrc}}" alt="après"><figcaption>Après</figcaption></figure>{{end}}
  </div>
  {{- end}}
  <button class="like" data-id="{{.ID}}">❤️ {{.Likes}}</button>
</article>
{{end}}
{{- end}}
{{- end}}

{{define "chat" -}}
{{if not . -}}
<div class="chat-empty">Aucun message pour l’instant. Lance la conversation 👇</div>
{{- else -}}
{{range . -}}
<div class="chat-msg">
  <div class="chat-meta">
    <span class="chat-name">{{orElse .Name "Anonyme"}}</span>
    <span class="chat-time">{{orElse .Time "--:--"}}</span>
  </div>
  <div class="chat-text">{{.Text}}</div>
</div>
{{end}}
{{- end}}
{{- end}}
`))

// postView wraps a post for templating. The data URIs come from our own
// encoder, so they are marked safe; html/template would otherwise refuse
// "data:" as an unsafe URL scheme.
type postView struct {
	models.Post
	BeforeSrc template.URL
	AfterSrc  template.URL
}

type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Render(badge Badge, rows []models.LeaderboardRow, posts []models.Post, msgs []models.ChatMessage) (Views, error) {
	views := Views{}

	pv := make([]postView, len(posts))
	for i, p := range posts {
		pv[i] = postView{
			Post:      p,
			BeforeSrc: template.URL(p.BeforeImg),
			AfterSrc:  template.URL(p.AfterImg),
		}
	}

	var err error
	if views.Badge, err = execute("badge", badge); err != nil {
		return Views{}, err
	}
	if views.Leaderboard, err = execute("leaderboard", rows); err != nil {
		return Views{}, err
	}
	if views.Feed, err = execute("feed", pv); err != nil {
		return Views{}, err
	}
	if views.Chat, err = execute("chat", msgs); err != nil {
		return Views{}, err
	}
	return views, nil
}

func execute(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// BadgeFor builds the badge data for one user from the stats mapping.
func BadgeFor(name string, st models.UserStat) Badge {
	return Badge{Name: name, Posts: st.Posts, Missions: st.Missions, Points: store.Score(st)}
}
