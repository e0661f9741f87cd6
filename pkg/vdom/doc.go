// Package vdom provides the virtual DOM: typed node construction, helper
// element functions, hydration ID assignment, and a keyed diff that
// produces compact patches for the wire protocol.
//
// Trees are built with El or the element helpers:
//
//	tree := vdom.Div(vdom.Class("counter"),
//	    vdom.Button(vdom.OnClick(increment), vdom.Text("+")),
//	    vdom.Span(vdom.Textf("%d", count)),
//	)
//
// Interactive nodes receive hydration IDs via AssignHIDs; Diff compares
// two rendered trees and emits the minimal patch list to reconcile them.
package vdom
