package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/unison-ui/unison/pkg/vdom"
)

func renderString(t *testing.T, cfg Config, node *vdom.VNode) string {
	t.Helper()
	html, err := New(cfg).RenderHTML(node)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return html
}

func TestRenderElementWithAttrsAndChildren(t *testing.T) {
	tree := vdom.Div(vdom.Class("card"), vdom.ID("main"),
		vdom.Span(vdom.Text("hello")),
	)

	html := renderString(t, Config{}, tree)
	want := `<div class="card" id="main"><span>hello</span></div>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderEscapesText(t *testing.T) {
	html := renderString(t, Config{}, vdom.P(vdom.Text(`<script>alert("x")</script>`)))
	if strings.Contains(html, "<script>") {
		t.Errorf("text not escaped: %q", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("expected entity-escaped text: %q", html)
	}
}

func TestRenderEscapesAttrs(t *testing.T) {
	html := renderString(t, Config{}, vdom.Div(vdom.Class(`a" onload="x`)))
	if strings.Contains(html, `" onload="`) {
		t.Errorf("attribute not escaped: %q", html)
	}
}

func TestRenderRawUnescaped(t *testing.T) {
	html := renderString(t, Config{}, vdom.Div(vdom.Raw("<b>bold</b>")))
	if !strings.Contains(html, "<b>bold</b>") {
		t.Errorf("raw content was escaped: %q", html)
	}
}

func TestRenderVoidElement(t *testing.T) {
	html := renderString(t, Config{}, vdom.Div(vdom.Input(vdom.Type("text")), vdom.Br()))
	if strings.Contains(html, "</input>") || strings.Contains(html, "</br>") {
		t.Errorf("void elements must not close: %q", html)
	}
}

func TestRenderBooleanAttr(t *testing.T) {
	html := renderString(t, Config{}, vdom.Input(vdom.Disabled(true)))
	if !strings.Contains(html, " disabled") {
		t.Errorf("boolean attr missing: %q", html)
	}
	if strings.Contains(html, `disabled="`) {
		t.Errorf("boolean attr should have no value: %q", html)
	}
}

func TestRenderFragmentHasNoWrapper(t *testing.T) {
	html := renderString(t, Config{}, vdom.Fragment(vdom.Span(vdom.Text("a")), vdom.Span(vdom.Text("b"))))
	want := "<span>a</span><span>b</span>"
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderAssignsHIDsToInteractive(t *testing.T) {
	tree := vdom.Div(
		vdom.Button(vdom.OnClick(func() {}), vdom.Text("+")),
		vdom.Span(vdom.Text("static")),
	)

	html := renderString(t, Config{AssignHIDs: true}, tree)

	if !strings.Contains(html, `data-hid="h1"`) {
		t.Errorf("interactive element missing hid: %q", html)
	}
	if strings.Count(html, "data-hid") != 1 {
		t.Errorf("static elements should not get hids: %q", html)
	}
	if !strings.Contains(html, `data-on-click=""`) {
		t.Errorf("event marker missing: %q", html)
	}
	if strings.Contains(html, "onclick") {
		t.Errorf("handler leaked into markup: %q", html)
	}
}

func TestRenderDeterministicAttrOrder(t *testing.T) {
	tree := vdom.Div(vdom.StyleAttr("x"), vdom.Class("c"), vdom.ID("i"))
	first := renderString(t, Config{}, tree)
	for i := 0; i < 5; i++ {
		if got := renderString(t, Config{}, tree); got != first {
			t.Fatalf("attribute order unstable: %q vs %q", got, first)
		}
	}
}

func TestWritePage(t *testing.T) {
	var buf bytes.Buffer
	err := WritePage(&buf, New(Config{AssignHIDs: true}), Page{
		Title:   "Counter <demo>",
		Styles:  []string{"/static/app.css"},
		Scripts: []string{"/static/client.js"},
		Body:    vdom.Div(vdom.Text("hi")),
	})
	if err != nil {
		t.Fatalf("WritePage: %v", err)
	}

	html := buf.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Counter &lt;demo&gt;</title>",
		`<link rel="stylesheet" href="/static/app.css">`,
		`<script defer src="/static/client.js"></script>`,
		`<div id="app"><div>hi</div></div>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q:\n%s", want, html)
		}
	}
}
