// Package component implements Unison's setup-once component model.
//
// A component is declared from a setup function that runs exactly once
// per mounted instance. Setup creates state and watchers, then returns a
// render closure:
//
//	Counter := component.Define("Counter", func(ctx *component.Ctx) component.RenderFunc {
//	    count := reactive.NewRef(0)
//	    return func() *vdom.VNode {
//	        return vdom.Div(
//	            vdom.Button(vdom.OnClick(func() { count.Update(func(n int) int { return n + 1 }) }),
//	                vdom.Text("+")),
//	            vdom.Span(vdom.Text(strconv.Itoa(count.Get()))),
//	        )
//	    }
//	})
//
// Only the render closure is tracked: state changes re-run render, never
// setup. This differs from re-render component models where the whole
// component function runs again on every update; here local variables in
// setup keep their identity for the life of the instance.
//
// Props are exposed as a reactive record with per-property tracking.
// Copying a value out of the record severs tracking; read through
// ctx.Props() inside render to stay subscribed.
package component
