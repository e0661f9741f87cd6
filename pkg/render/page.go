package render

import (
	"fmt"
	"io"

	"github.com/unison-ui/unison/pkg/vdom"
)

// Page describes the HTML document shell wrapped around a rendered
// component tree for the initial server-side response.
type Page struct {
	// Title is the document title.
	Title string

	// Lang is the html lang attribute. Defaults to "en".
	Lang string

	// Meta entries become <meta name="..." content="..."> tags.
	Meta map[string]string

	// Styles are stylesheet URLs.
	Styles []string

	// Scripts are script URLs, loaded deferred after the body.
	Scripts []string

	// Body is the rendered component tree.
	Body *vdom.VNode
}

// WritePage writes the full HTML document to w using the given renderer
// for the body tree.
func WritePage(w io.Writer, r *Renderer, page Page) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n<head>\n", EscapeAttr(lang)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "<meta charset=\"utf-8\">\n<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n"); err != nil {
		return err
	}
	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "<title>%s</title>\n", EscapeHTML(page.Title)); err != nil {
			return err
		}
	}
	for name, content := range page.Meta {
		if _, err := fmt.Fprintf(w, "<meta name=\"%s\" content=\"%s\">\n", EscapeAttr(name), EscapeAttr(content)); err != nil {
			return err
		}
	}
	for _, href := range page.Styles {
		if _, err := fmt.Fprintf(w, "<link rel=\"stylesheet\" href=\"%s\">\n", EscapeAttr(href)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "</head>\n<body>\n<div id=\"app\">"); err != nil {
		return err
	}

	if page.Body != nil {
		if err := r.Render(w, page.Body); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, "</div>\n"); err != nil {
		return err
	}
	for _, src := range page.Scripts {
		if _, err := fmt.Fprintf(w, "<script defer src=\"%s\"></script>\n", EscapeAttr(src)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}
