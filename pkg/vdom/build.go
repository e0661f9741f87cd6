package vdom

import "fmt"

// El builds an element node. Arguments are interpreted by type:
// Attr and []Attr become props, EventHandler binds a handler, *VNode and
// []*VNode become children, string becomes a text child, nil is skipped.
//
//	vdom.El("div", vdom.Class("card"),
//	    vdom.El("span", "hello"),
//	)
func El(tag string, args ...any) *VNode {
	node := &VNode{
		Kind:  KindElement,
		Tag:   tag,
		Props: Props{},
	}

	for _, arg := range args {
		applyArg(node, arg)
	}

	if len(node.Props) == 0 {
		node.Props = nil
	}
	return node
}

func applyArg(node *VNode, arg any) {
	switch v := arg.(type) {
	case nil:
		// Skipped so conditional args read naturally
	case Attr:
		if v.IsEmpty() {
			return
		}
		if v.Key == "key" {
			node.Key = fmt.Sprint(v.Value)
			return
		}
		node.Props[v.Key] = v.Value
	case []Attr:
		for _, a := range v {
			applyArg(node, a)
		}
	case EventHandler:
		node.Props[v.Event] = v.Handler
	case *VNode:
		if v != nil {
			node.Children = append(node.Children, v)
		}
	case []*VNode:
		for _, child := range v {
			if child != nil {
				node.Children = append(node.Children, child)
			}
		}
	case string:
		node.Children = append(node.Children, Text(v))
	case fmt.Stringer:
		node.Children = append(node.Children, Text(v.String()))
	default:
		node.Children = append(node.Children, Textf("%v", v))
	}
}

// Text creates a text node.
func Text(s string) *VNode {
	return &VNode{Kind: KindText, Text: s}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates a raw HTML node. The content is emitted without escaping;
// never pass user input.
func Raw(html string) *VNode {
	return &VNode{Kind: KindRaw, Text: html}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...*VNode) *VNode {
	kept := make([]*VNode, 0, len(children))
	for _, c := range children {
		if c != nil {
			kept = append(kept, c)
		}
	}
	return &VNode{Kind: KindFragment, Children: kept}
}

// If returns node when cond is true, nil otherwise.
func If(cond bool, node *VNode) *VNode {
	if cond {
		return node
	}
	return nil
}

// IfElse returns then when cond is true, otherwise els.
func IfElse(cond bool, then, els *VNode) *VNode {
	if cond {
		return then
	}
	return els
}

// When lazily builds a node only when cond is true.
func When(cond bool, build func() *VNode) *VNode {
	if cond && build != nil {
		return build()
	}
	return nil
}

// Range maps a slice to child nodes.
//
//	vdom.Ul(vdom.Range(items, func(it Item) *vdom.VNode {
//	    return vdom.Li(vdom.KeyAttr(it.ID), vdom.Text(it.Name))
//	}))
func Range[T any](items []T, fn func(T) *VNode) []*VNode {
	nodes := make([]*VNode, 0, len(items))
	for _, item := range items {
		if n := fn(item); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// RangeIdx is Range with the index passed to fn.
func RangeIdx[T any](items []T, fn func(int, T) *VNode) []*VNode {
	nodes := make([]*VNode, 0, len(items))
	for i, item := range items {
		if n := fn(i, item); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// =============================================================================
// Element constructors
// =============================================================================

func Div(args ...any) *VNode     { return El("div", args...) }
func Span(args ...any) *VNode    { return El("span", args...) }
func P(args ...any) *VNode       { return El("p", args...) }
func A(args ...any) *VNode       { return El("a", args...) }
func Button(args ...any) *VNode  { return El("button", args...) }
func Input(args ...any) *VNode   { return El("input", args...) }
func Textarea(args ...any) *VNode { return El("textarea", args...) }
func Select(args ...any) *VNode  { return El("select", args...) }
func Option(args ...any) *VNode  { return El("option", args...) }
func Form(args ...any) *VNode    { return El("form", args...) }
func Label(args ...any) *VNode   { return El("label", args...) }
func H1(args ...any) *VNode      { return El("h1", args...) }
func H2(args ...any) *VNode      { return El("h2", args...) }
func H3(args ...any) *VNode      { return El("h3", args...) }
func H4(args ...any) *VNode      { return El("h4", args...) }
func Ul(args ...any) *VNode      { return El("ul", args...) }
func Ol(args ...any) *VNode      { return El("ol", args...) }
func Li(args ...any) *VNode      { return El("li", args...) }
func Table(args ...any) *VNode   { return El("table", args...) }
func Thead(args ...any) *VNode   { return El("thead", args...) }
func Tbody(args ...any) *VNode   { return El("tbody", args...) }
func Tr(args ...any) *VNode      { return El("tr", args...) }
func Th(args ...any) *VNode      { return El("th", args...) }
func Td(args ...any) *VNode      { return El("td", args...) }
func Img(args ...any) *VNode     { return El("img", args...) }
func Nav(args ...any) *VNode     { return El("nav", args...) }
func Header(args ...any) *VNode  { return El("header", args...) }
func Footer(args ...any) *VNode  { return El("footer", args...) }
func Main(args ...any) *VNode    { return El("main", args...) }
func Section(args ...any) *VNode { return El("section", args...) }
func Article(args ...any) *VNode { return El("article", args...) }
func Pre(args ...any) *VNode     { return El("pre", args...) }
func Code(args ...any) *VNode    { return El("code", args...) }
func Br(args ...any) *VNode      { return El("br", args...) }
func Hr(args ...any) *VNode      { return El("hr", args...) }

// =============================================================================
// Attribute constructors
// =============================================================================

func attr(key string, value any) Attr { return Attr{Key: key, Value: value} }

func ID(v string) Attr          { return attr("id", v) }
func Class(v string) Attr       { return attr("class", v) }
func StyleAttr(v string) Attr   { return attr("style", v) }
func Href(v string) Attr        { return attr("href", v) }
func Src(v string) Attr         { return attr("src", v) }
func Alt(v string) Attr         { return attr("alt", v) }
func Type(v string) Attr        { return attr("type", v) }
func Value(v string) Attr       { return attr("value", v) }
func Name(v string) Attr        { return attr("name", v) }
func Placeholder(v string) Attr { return attr("placeholder", v) }
func Title(v string) Attr       { return attr("title", v) }
func For(v string) Attr         { return attr("for", v) }

// Data creates a data-* attribute.
func Data(suffix string, v string) Attr { return attr("data-"+suffix, v) }

// Boolean attributes are emitted only when true.

func Disabled(v bool) Attr {
	if !v {
		return Attr{}
	}
	return attr("disabled", true)
}

func Checked(v bool) Attr {
	if !v {
		return Attr{}
	}
	return attr("checked", true)
}

func Selected(v bool) Attr {
	if !v {
		return Attr{}
	}
	return attr("selected", true)
}

func Required(v bool) Attr {
	if !v {
		return Attr{}
	}
	return attr("required", true)
}

// KeyAttr sets the reconciliation key used by the diff to match children
// across renders.
func KeyAttr(v string) Attr { return attr("key", v) }

// =============================================================================
// Event constructors
// =============================================================================

func event(name string, handler any) EventHandler {
	return EventHandler{Event: "on" + name, Handler: handler}
}

// OnClick binds a click handler.
func OnClick(handler func()) EventHandler { return event("click", handler) }

// OnInput binds an input handler receiving the current value.
func OnInput(handler func(value string)) EventHandler { return event("input", handler) }

// OnChange binds a change handler receiving the current value.
func OnChange(handler func(value string)) EventHandler { return event("change", handler) }

// OnSubmit binds a form submit handler. Default submission is always
// prevented on the client.
func OnSubmit(handler func()) EventHandler { return event("submit", handler) }

// OnKeyDown binds a keydown handler receiving the key name.
func OnKeyDown(handler func(key string)) EventHandler { return event("keydown", handler) }

// OnKeyUp binds a keyup handler receiving the key name.
func OnKeyUp(handler func(key string)) EventHandler { return event("keyup", handler) }

// OnFocus binds a focus handler.
func OnFocus(handler func()) EventHandler { return event("focus", handler) }

// OnBlur binds a blur handler.
func OnBlur(handler func()) EventHandler { return event("blur", handler) }

// OnMouseEnter binds a mouseenter handler.
func OnMouseEnter(handler func()) EventHandler { return event("mouseenter", handler) }

// OnMouseLeave binds a mouseleave handler.
func OnMouseLeave(handler func()) EventHandler { return event("mouseleave", handler) }
