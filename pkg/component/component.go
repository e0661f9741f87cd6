package component

import (
	"fmt"
	"sync/atomic"

	"github.com/unison-ui/unison/pkg/reactive"
	"github.com/unison-ui/unison/pkg/vdom"
)

// RenderFunc produces the VNode tree for a component instance.
// The render closure is invoked under dependency tracking: every ref,
// object property, or computed it reads subscribes the instance, and a
// later change to any of them schedules a re-render.
type RenderFunc func() *vdom.VNode

// Setup is the one-time body of a component. It receives the instance
// context, creates state and watchers, and returns the render closure.
//
// Setup runs exactly once per instance, when the instance is mounted.
// State changes re-run the returned render closure, never Setup itself.
type Setup func(ctx *Ctx) RenderFunc

// Definition is a component blueprint: a named setup function.
// Mounting a definition produces an independent Instance.
type Definition struct {
	name  string
	setup Setup
}

// Define declares a component from its setup function.
// The name appears in errors and DevTools entries.
func Define(name string, setup Setup) *Definition {
	if setup == nil {
		panic("component: Define called with nil setup")
	}
	return &Definition{name: name, setup: setup}
}

// Name returns the component's declared name.
func (d *Definition) Name() string {
	return d.name
}

// Scheduler receives instances whose dependencies changed and arranges
// for them to be re-rendered. The server session implements this with
// its event loop; tests use a queue they drain by hand.
type Scheduler interface {
	ScheduleRender(inst *Instance)
}

// Ctx is the setup-time context for a component instance.
type Ctx struct {
	inst *Instance
}

// Props returns the instance's reactive props record.
// Reads through the record are tracked per property; values copied out
// of it are plain Go values and inert.
func (c *Ctx) Props() *reactive.Object {
	return c.inst.props
}

// Scope returns the instance's ownership scope.
// Watchers and cleanups created during setup are owned by it.
func (c *Ctx) Scope() *reactive.Scope {
	return c.inst.scope
}

// OnCleanup registers fn to run when the instance unmounts.
func (c *Ctx) OnCleanup(fn func()) {
	c.inst.scope.OnCleanup(fn)
}

// Env returns the runtime environment established by the server for this
// render or event cycle, or nil outside one.
func (c *Ctx) Env() any {
	return reactive.UseEnv()
}

// Instance is a mounted component: one setup invocation, one scope, one
// render closure.
type Instance struct {
	id uint64

	def *Definition

	// scope owns everything setup created.
	scope *reactive.Scope

	// props is the reactive props record.
	props *reactive.Object

	// render is the closure returned by setup.
	render RenderFunc

	// parent and children mirror the component tree.
	parent   *Instance
	children []*Instance

	// scheduler re-renders the instance on dependency changes. May be nil,
	// in which case only the dirty flag is raised.
	scheduler Scheduler

	// setupRuns counts setup invocations. Must never exceed 1.
	setupRuns atomic.Uint32

	// dirty indicates the instance needs re-rendering.
	dirty atomic.Bool

	// disposed indicates the instance was unmounted.
	disposed atomic.Bool

	// lastTree is the previous render output, kept for diffing.
	lastTree *vdom.VNode
}

var _ reactive.Listener = (*Instance)(nil)

// instanceIDs generates unique instance identifiers.
var instanceIDs atomic.Uint64

// Mount creates an instance of def and runs its setup exactly once.
// parent may be nil for a root instance; scheduler may be nil.
func Mount(def *Definition, parent *Instance, scheduler Scheduler, props map[string]any) *Instance {
	var parentScope *reactive.Scope
	if parent != nil {
		parentScope = parent.scope
	}

	inst := &Instance{
		id:        instanceIDs.Add(1),
		def:       def,
		scope:     reactive.NewScope(parentScope),
		props:     reactive.NewObject(props),
		parent:    parent,
		scheduler: scheduler,
	}

	if parent != nil {
		parent.children = append(parent.children, inst)
	}

	inst.runSetup()

	return inst
}

// MountInScope creates a root instance whose scope is a child of the
// given scope. The server session uses this to tie the component tree to
// the session's lifetime.
func MountInScope(def *Definition, scope *reactive.Scope, scheduler Scheduler, props map[string]any) *Instance {
	inst := &Instance{
		id:        instanceIDs.Add(1),
		def:       def,
		scope:     reactive.NewScope(scope),
		props:     reactive.NewObject(props),
		scheduler: scheduler,
	}

	inst.runSetup()

	return inst
}

// runSetup invokes the setup function. Exactly once, ever.
func (i *Instance) runSetup() {
	if i.setupRuns.Add(1) != 1 {
		panic(fmt.Sprintf("component: setup for %q invoked more than once", i.def.name))
	}

	ctx := &Ctx{inst: i}

	// Setup is not a tracked computation: reads during setup subscribe
	// nothing. Only the returned render closure is tracked.
	reactive.WithScope(i.scope, func() {
		i.render = i.def.setup(ctx)
	})

	if i.render == nil {
		panic(fmt.Sprintf("component: setup for %q returned a nil render function", i.def.name))
	}
}

// Render invokes the render closure under dependency tracking and returns
// the produced tree. The instance subscribes to everything the closure
// reads; a later change schedules a re-render via the scheduler.
func (i *Instance) Render() *vdom.VNode {
	if i.disposed.Load() {
		return nil
	}

	var tree *vdom.VNode

	reactive.WithScope(i.scope, func() {
		i.scope.StartRender()
		defer i.scope.EndRender()

		reactive.WithListener(i, func() {
			tree = i.render()
		})
	})

	i.dirty.Store(false)
	i.lastTree = tree

	return tree
}

// MarkDirty schedules the instance for re-render.
// Implements the reactive.Listener interface.
func (i *Instance) MarkDirty() {
	if i.disposed.Load() {
		return
	}
	if i.dirty.CompareAndSwap(false, true) {
		if i.scheduler != nil {
			i.scheduler.ScheduleRender(i)
		}
	}
}

// ID implements the reactive.Listener interface.
func (i *Instance) ID() uint64 {
	return i.scope.ID()
}

// IsDirty reports whether the instance needs re-rendering.
func (i *Instance) IsDirty() bool {
	return i.dirty.Load()
}

// Definition returns the blueprint this instance was mounted from.
func (i *Instance) Definition() *Definition {
	return i.def
}

// Scope returns the instance's ownership scope.
func (i *Instance) Scope() *reactive.Scope {
	return i.scope
}

// Props returns the instance's reactive props record.
func (i *Instance) Props() *reactive.Object {
	return i.props
}

// Parent returns the parent instance, or nil for a root.
func (i *Instance) Parent() *Instance {
	return i.parent
}

// Children returns the mounted child instances.
func (i *Instance) Children() []*Instance {
	return i.children
}

// LastTree returns the previous render output, for diffing.
func (i *Instance) LastTree() *vdom.VNode {
	return i.lastTree
}

// SetLastTree replaces the stored render output after diffing.
func (i *Instance) SetLastTree(tree *vdom.VNode) {
	i.lastTree = tree
}

// UpdateProps replaces the props record contents in one batch.
// Per-property notification applies: the instance re-renders only if its
// render closure read a property that actually changed. Setup never
// re-runs.
func (i *Instance) UpdateProps(next map[string]any) {
	i.props.Replace(next)
}

// SetupCount returns how many times setup ran for this instance.
// Always 1 for a mounted instance; exposed for the test suite and
// DevTools.
func (i *Instance) SetupCount() int {
	return int(i.setupRuns.Load())
}

// Dispose unmounts the instance: children first (reverse order), then the
// scope with its watchers and cleanups.
func (i *Instance) Dispose() {
	if i.disposed.Swap(true) {
		return
	}

	for n := len(i.children) - 1; n >= 0; n-- {
		i.children[n].Dispose()
	}
	i.children = nil

	if i.parent != nil {
		i.parent.removeChild(i)
		i.parent = nil
	}

	i.scope.Dispose()
	i.lastTree = nil
	i.render = nil
}

// removeChild drops a child from the instance's child list.
func (i *Instance) removeChild(child *Instance) {
	for n, c := range i.children {
		if c == child {
			i.children = append(i.children[:n], i.children[n+1:]...)
			return
		}
	}
}
