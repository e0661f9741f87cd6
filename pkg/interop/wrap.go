package interop

import (
	"github.com/unison-ui/unison/pkg/reactive"
)

// WrapOption configures WrapHook.
type WrapOption interface {
	applyWrap(*wrapConfig)
}

type wrapConfig struct {
	shallow bool
}

type wrapOptionFunc func(*wrapConfig)

func (f wrapOptionFunc) applyWrap(c *wrapConfig) { f(c) }

// Shallow makes the wrapped result a shallow record: any change to the
// hook's output notifies every reader of the record, instead of tracking
// each property independently. Use it for hooks whose result is replaced
// wholesale, where per-property diffing buys nothing.
func Shallow() WrapOption {
	return wrapOptionFunc(func(c *wrapConfig) {
		c.shallow = true
	})
}

// WrapHook adapts a re-render style hook for use inside component setup.
// The returned function runs the hook in its own Runtime and exposes the
// result as a reactive record. When the hook's internal state changes,
// the hook re-runs and the record is updated in place, so component
// renders and watchers that read it re-execute.
//
// By default tracking is per property: a render that only read
// result.Get("status") does not re-run when a different property changes.
// With Shallow, any change notifies all readers.
//
// The hook's effect cleanups run when the calling component unmounts.
//
//	useTicker := interop.WrapHook(tickerHook)
//
//	Clock := component.Define("Clock", func(ctx *component.Ctx) component.RenderFunc {
//	    tick := useTicker()
//	    return func() *vdom.VNode {
//	        return vdom.Span(vdom.Textf("%v", tick.Get("now")))
//	    }
//	})
func WrapHook(hook Hook, opts ...WrapOption) func() *reactive.Object {
	var cfg wrapConfig
	for _, opt := range opts {
		opt.applyWrap(&cfg)
	}

	return func() *reactive.Object {
		rt := NewRuntime()

		result := rt.Render(hook)

		var obj *reactive.Object
		if cfg.shallow {
			obj = reactive.NewShallowObject(result)
		} else {
			obj = reactive.NewObject(result)
		}

		rt.onChange = func() {
			next := rt.Render(hook)
			obj.Replace(next)
		}

		if scope := reactive.CurrentScope(); scope != nil {
			scope.OnCleanup(rt.Dispose)
		}

		return obj
	}
}
