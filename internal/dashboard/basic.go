package dashboard

import (
	"html/template"
	"net/http"
)

var basicTmpl = template.Must(template.New("basic").Parse(`<!DOCTYPE html>
<html>
<head><title>redsift</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
th { background: #eee; }
</style>
</head>
<body>
<h1>Collected posts ({{len .}})</h1>
<table>
<tr><th>Subreddit</th><th>Title</th><th>Author</th><th>Score</th><th>Comments</th><th>Posted</th><th>Keywords</th></tr>
{{range .}}
<tr>
<td>r/{{.Subreddit}}</td>
<td><a href="{{.Permalink}}">{{.Title}}</a></td>
<td>u/{{.Author}}</td>
<td>{{.Score}}</td>
<td>{{.NumComments}}</td>
<td>{{.CreatedAt.Format "2006-01-02 15:04"}}</td>
<td>{{range .KeywordsHit}}{{.}} {{end}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`))

func (s *Server) handleBasic(w http.ResponseWriter, r *http.Request) {
	posts, err := s.data.AllPosts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := basicTmpl.Execute(w, posts); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
