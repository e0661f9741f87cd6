// Package interop bridges the setup-once reactive model and re-render
// style hook runtimes, in both directions.
//
// WrapHook takes a hook written for the re-render model (UseState,
// UseMemo, UseEffect against a Runtime) and exposes its result as a
// reactive record usable in component setup. NewHostHook goes the other
// way: it adapts a setup-style Composable into a Hook that re-render
// runtimes can call, with state changes surfaced through the host's own
// state slots.
//
// The Runtime type is a minimal host for the re-render model itself:
// positional slots, a settle loop, and post-render effects.
package interop
