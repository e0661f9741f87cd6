// Package unison is the public API for the Unison framework. It
// re-exports the reactive primitives, component model, and element
// builders so most applications need only this import:
//
//	import "github.com/unison-ui/unison"
//
//	var counter = unison.Define("Counter", func(ctx *unison.Ctx) unison.RenderFunc {
//	    count := unison.NewRef(0)
//	    return func() *unison.VNode {
//	        return unison.Div(
//	            unison.Button(unison.OnClick(func() { count.Set(count.Get() + 1) }),
//	                unison.Text("+")),
//	            unison.Span(unison.Textf("%d", count.Get())),
//	        )
//	    }
//	})
//
//	func main() {
//	    app := unison.NewApp(counter)
//	    log.Fatal(app.Run(context.Background()))
//	}
package unison

import (
	"github.com/unison-ui/unison/pkg/component"
	"github.com/unison-ui/unison/pkg/reactive"
	"github.com/unison-ui/unison/pkg/vdom"
)

// Reactive primitives.

// Scope owns watchers and cleanups; disposing it releases them.
type Scope = reactive.Scope

// Cleanup runs before a watcher re-runs and on disposal.
type Cleanup = reactive.Cleanup

// Object is a reactive record with per-property tracking.
type Object = reactive.Object

// Watcher re-runs its effect when a tracked dependency changes.
type Watcher = reactive.Watcher

// WatchOption configures WatchEffect.
type WatchOption = reactive.WatchOption

// NewRef creates a reactive cell holding initial.
func NewRef[T any](initial T) *reactive.Ref[T] {
	return reactive.NewRef(initial)
}

// NewComputed creates a lazily cached derived value.
func NewComputed[T any](compute func() T) *reactive.Computed[T] {
	return reactive.NewComputed(compute)
}

// NewObject creates a reactive record with per-property tracking.
func NewObject(initial map[string]any) *reactive.Object {
	return reactive.NewObject(initial)
}

// WatchEffect runs fn now and re-runs it when its dependencies change.
func WatchEffect(fn func() Cleanup, opts ...WatchOption) *Watcher {
	return reactive.WatchEffect(fn, opts...)
}

// Batch coalesces notifications from all writes inside fn.
func Batch(fn func()) {
	reactive.Batch(fn)
}

// Untracked runs fn without dependency tracking.
func Untracked(fn func()) {
	reactive.Untracked(fn)
}

// OnMount runs fn once after the owning component mounts.
func OnMount(fn func()) {
	reactive.OnMount(fn)
}

// OnUnmount runs fn when the owning component unmounts.
func OnUnmount(fn func()) {
	reactive.OnUnmount(fn)
}

// OnUpdate runs callback whenever a dependency read by deps changes.
// Unlike WatchEffect, callback does not run on registration.
func OnUpdate(deps func(), callback func()) {
	reactive.OnUpdate(deps, callback)
}

// Components.

// Ctx is passed to a component's setup function.
type Ctx = component.Ctx

// RenderFunc produces the component's current tree.
type RenderFunc = component.RenderFunc

// Definition is a reusable component created by Define.
type Definition = component.Definition

// Define declares a component. Setup runs once per mount; the returned
// render closure runs on every update.
func Define(name string, setup component.Setup) *Definition {
	return component.Define(name, setup)
}

// NewContext declares a typed value components provide to descendants.
func NewContext[T any](name string, defaultValue T) *component.Context[T] {
	return component.NewContext(name, defaultValue)
}

// Virtual DOM.

// VNode is a node in the virtual tree.
type VNode = vdom.VNode

// Attr is an element attribute.
type Attr = vdom.Attr

// EventHandler binds a handler to a DOM event.
type EventHandler = vdom.EventHandler

// Element builders. See package vdom for the full set.
var (
	El       = vdom.El
	Text     = vdom.Text
	Textf    = vdom.Textf
	Fragment = vdom.Fragment
	If       = vdom.If
	IfElse   = vdom.IfElse

	Div    = vdom.Div
	Span   = vdom.Span
	P      = vdom.P
	A      = vdom.A
	Button = vdom.Button
	Input  = vdom.Input
	Form   = vdom.Form
	Ul     = vdom.Ul
	Li     = vdom.Li
	H1     = vdom.H1
	H2     = vdom.H2
	H3     = vdom.H3
	Img    = vdom.Img

	Class    = vdom.Class
	ID       = vdom.ID
	Href     = vdom.Href
	Value    = vdom.Value
	Type     = vdom.Type
	Disabled = vdom.Disabled
	KeyAttr  = vdom.KeyAttr

	OnClick  = vdom.OnClick
	OnInput  = vdom.OnInput
	OnChange = vdom.OnChange
	OnSubmit = vdom.OnSubmit
	OnKeyUp  = vdom.OnKeyUp
)

// Range maps a slice to child nodes.
func Range[T any](items []T, fn func(item T) *VNode) []*VNode {
	return vdom.Range(items, fn)
}
