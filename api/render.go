package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/Kirah-Dev/honoriel-solucoes-site/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layoutTemplate = "layout.html"

// pageData is what every page template receives.
type pageData struct {
	Title     string
	Path      string
	User      *models.User
	Flashes   []flashMessage
	Year      int
	RequestID string
	Data      map[string]any
}

// renderer holds one template set per page, each parsed with the layout.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := path.Base(file)
		if name == layoutTemplate {
			continue
		}
		t, err := template.New(layoutTemplate).Funcs(templateFuncs).ParseFS(templateFS, "templates/"+layoutTemplate, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[strings.TrimSuffix(name, ".html")] = t
	}
	return &renderer{pages: pages}, nil
}

// render executes page into a buffer first so a template error never leaves
// a half-written response.
func (r *renderer) render(w io.Writer, page string, data pageData) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, layoutTemplate, data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

var paragraphBreak = regexp.MustCompile(`(?:\r\n|\r|\n){2,}`)

// nl2br escapes text, wraps blank-line separated blocks in <p> and turns the
// remaining newlines into <br>.
func nl2br(text string) template.HTML {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	blocks := paragraphBreak.Split(text, -1)
	var b strings.Builder
	for i, block := range blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		block = strings.ReplaceAll(block, "\r\n", "\n")
		lines := strings.Split(block, "\n")
		for j := range lines {
			lines[j] = template.HTMLEscapeString(lines[j])
		}
		b.WriteString("<p>")
		b.WriteString(strings.Join(lines, "<br>\n"))
		b.WriteString("</p>")
	}
	return template.HTML(b.String())
}

var brazilTZ = func() *time.Location {
	loc, err := time.LoadLocation("America/Fortaleza")
	if err != nil {
		return time.UTC
	}
	return loc
}()

var templateFuncs = template.FuncMap{
	"nl2br":     nl2br,
	"areaIcon":  models.AreaIcon,
	"areaLabel": models.AreaLabel,
	"date": func(t time.Time) string {
		return t.In(brazilTZ).Format("02/01/2006")
	},
	"datetime": func(t time.Time) string {
		return t.In(brazilTZ).Format("02/01/2006 15:04")
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"excerpt": func(text string, limit int) string {
		runes := []rune(strings.Join(strings.Fields(text), " "))
		if len(runes) <= limit {
			return string(runes)
		}
		return strings.TrimSpace(string(runes[:limit])) + "…"
	},
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
}
