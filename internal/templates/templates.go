package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"text/template"

	"github.com/unison-ui/unison/internal/errors"
)

// Config contains template configuration.
type Config struct {
	// ProjectName is the name of the project.
	ProjectName string

	// ModulePath is the Go module path.
	ModulePath string

	// Description is a short project description.
	Description string
}

// Template is a project scaffold.
type Template struct {
	// Name is the template name.
	Name string

	// Description describes the template.
	Description string

	// Files maps relative paths to file contents. Contents are
	// text/template bodies executed against Config.
	Files map[string]string
}

var templates = map[string]*Template{
	"minimal": minimalTemplate(),
	"full":    fullTemplate(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.Newf(errors.CategoryCLI, "template %q not found", name).
			WithSuggestion("Available templates: minimal, full")
	}
	return tmpl, nil
}

// List returns all available template names.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	return names
}

// Create generates a project from the template.
func (t *Template) Create(dir string, cfg Config) error {
	for relPath, content := range t.Files {
		tmpl, err := template.New(relPath).Parse(content)
		if err != nil {
			return errors.Newf(errors.CategoryCLI, "invalid template %s: %v", relPath, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return errors.Newf(errors.CategoryCLI, "template execute error %s: %v", relPath, err)
		}

		fullPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(fullPath, buf.Bytes(), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "Just the essentials for a Unison app",
		Files: map[string]string{
			"go.mod": `module {{.ModulePath}}

go 1.23

require github.com/unison-ui/unison v0.1.0
`,
			"unison.json": `{
  "name": "{{.ProjectName}}",
  "server": {
    "port": 3000
  }
}
`,
			"main.go": `package main

import (
	"context"
	"log"

	"github.com/unison-ui/unison"
)

var home = unison.Define("Home", func(ctx *unison.Ctx) unison.RenderFunc {
	count := unison.NewRef(0)
	return func() *unison.VNode {
		return unison.Div(
			unison.H1(unison.Text("{{.ProjectName}}")),
			unison.Button(
				unison.OnClick(func() { count.Set(count.Get() + 1) }),
				unison.Textf("Clicked %d times", count.Get()),
			),
		)
	}
})

func main() {
	cfg, err := unison.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	app := unison.NewApp(home,
		unison.WithConfig(cfg),
		unison.WithTitle("{{.ProjectName}}"),
	)
	log.Fatal(app.Run(context.Background()))
}
`,
			".gitignore": `dist/
.unison/
`,
		},
	}
}

func fullTemplate() *Template {
	tmpl := minimalTemplate()
	files := make(map[string]string, len(tmpl.Files)+3)
	for k, v := range tmpl.Files {
		files[k] = v
	}

	files["main.go"] = `package main

import (
	"context"
	"log"

	"github.com/unison-ui/unison"

	"{{.ModulePath}}/app"
)

func main() {
	cfg, err := unison.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	a := unison.NewApp(app.Root,
		unison.WithConfig(cfg),
		unison.WithTitle("{{.ProjectName}}"),
		unison.WithStyles("/static/styles.css"),
	)
	log.Fatal(a.Run(context.Background()))
}
`
	files["app/root.go"] = `// Package app holds the application's components.
package app

import "github.com/unison-ui/unison"

// Root is the application shell.
var Root = unison.Define("Root", func(ctx *unison.Ctx) unison.RenderFunc {
	counter := newCounter()
	return func() *unison.VNode {
		return unison.Div(
			unison.Class("container"),
			unison.H1(unison.Text("{{.ProjectName}}")),
			counter(),
		)
	}
})
`
	files["app/counter.go"] = `package app

import "github.com/unison-ui/unison"

// newCounter creates the state and view for the counter widget. Call it
// in setup; call the returned view in render.
func newCounter() func() *unison.VNode {
	count := unison.NewRef(0)
	doubled := unison.NewComputed(func() int { return count.Get() * 2 })

	return func() *unison.VNode {
		return unison.Div(
			unison.Class("counter"),
			unison.Button(
				unison.OnClick(func() { count.Set(count.Get() + 1) }),
				unison.Text("+1"),
			),
			unison.Span(unison.Textf("count=%d doubled=%d", count.Get(), doubled.Get())),
		)
	}
}
`
	files["public/styles.css"] = `.container {
  max-width: 640px;
  margin: 2rem auto;
  font-family: sans-serif;
}
.counter button {
  margin-right: 0.5rem;
}
`
	files["unison.json"] = `{
  "name": "{{.ProjectName}}",
  "server": {
    "port": 3000,
    "metrics": true
  },
  "static": {
    "dir": "public"
  }
}
`

	return &Template{
		Name:        "full",
		Description: "Complete starter with example components",
		Files:       files,
	}
}
