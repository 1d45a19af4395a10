package cli

import (
	"mandala-cli/internal/model"
	"mandala-cli/internal/session"
)

// chartView is what every chart command prints: where the session is and the grid
// shown there.
type chartView struct {
	Name       string     `json:"name"`
	Path       model.Path `json:"path"`
	Breadcrumb []string   `json:"breadcrumb"`
	Grid       model.Grid `json:"grid"`
	Dirty      bool       `json:"dirty"`
}

func viewOf(sess *session.Session) chartView {
	return chartView{
		Name:       sess.Name(),
		Path:       sess.Path(),
		Breadcrumb: sess.Labels(),
		Grid:       sess.Grid(),
		Dirty:      sess.Dirty(),
	}
}
