package export

import (
	"fmt"
	"html/template"
	"os"
)

var reportTemplate = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>DC Tech Candidates</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem; color: #222; }
  h1 { margin-bottom: 0.25rem; }
  .meta { color: #666; margin-bottom: 1.5rem; }
  table { border-collapse: collapse; width: 100%; }
  th, td { text-align: left; padding: 0.5rem 0.75rem; border-bottom: 1px solid #ddd; vertical-align: top; }
  th { background: #f5f5f5; }
  .label-match { color: #0a7b34; font-weight: 600; }
  .label-maybe { color: #b57d00; font-weight: 600; }
  .score { font-variant-numeric: tabular-nums; }
  .bio { color: #555; max-width: 24rem; }
</style>
</head>
<body>
<h1>DC Tech Candidates</h1>
<p class="meta">{{.Count}} candidates &middot; exported {{.ExportDate}} &middot; thresholds: match &ge; {{.MatchThreshold}}, maybe &ge; {{.MaybeThreshold}}</p>
<table>
<thead>
<tr><th>Candidate</th><th>Label</th><th>Overall</th><th>Location</th><th>Tech</th><th>Bio</th><th>Rationale</th><th>Sources</th></tr>
</thead>
<tbody>
{{range .Rows}}
<tr>
  <td><a href="{{.ProfileURL}}">{{.DisplayName}}</a><br><small>@{{.Handle}}</small></td>
  <td class="label-{{.Label}}">{{.Label}}</td>
  <td class="score">{{printf "%.2f" .Score}}</td>
  <td class="score">{{printf "%.2f" .LocationScore}}</td>
  <td class="score">{{printf "%.2f" .TechScore}}</td>
  <td class="bio">{{.Bio}}</td>
  <td>{{.Rationale}}</td>
  <td>{{range .DiscoverySources}}{{.}} {{end}}</td>
</tr>
{{end}}
</tbody>
</table>
</body>
</html>
`))

type reportData struct {
	Rows           []Row
	Count          int
	ExportDate     string
	MatchThreshold float64
	MaybeThreshold float64
}

func (e *Exporter) writeHTML(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer f.Close()

	data := reportData{
		Rows:           rows,
		Count:          len(rows),
		ExportDate:     e.now().UTC().Format("2006-01-02 15:04:05 UTC"),
		MatchThreshold: e.thresholds.Match,
		MaybeThreshold: e.thresholds.Maybe,
	}
	if err := reportTemplate.Execute(f, data); err != nil {
		return fmt.Errorf("export: render %s: %w", path, err)
	}
	return f.Close()
}
