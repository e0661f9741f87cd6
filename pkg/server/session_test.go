package server

import (
	"strconv"
	"sync"
	"testing"

	"github.com/unison-ui/unison/pkg/component"
	"github.com/unison-ui/unison/pkg/protocol"
	"github.com/unison-ui/unison/pkg/reactive"
	"github.com/unison-ui/unison/pkg/vdom"
)

// counterDef is a minimal interactive component for session tests.
func counterDef() *component.Definition {
	return component.Define("Counter", func(ctx *component.Ctx) component.RenderFunc {
		count := reactive.NewRef(0)
		return func() *vdom.VNode {
			return vdom.Div(
				vdom.Button(vdom.OnClick(func() {
					count.Update(func(n int) int { return n + 1 })
				}), vdom.Text("+")),
				vdom.Span(vdom.Text(strconv.Itoa(count.Get()))),
			)
		}
	})
}

func drainPatches(t *testing.T, s *Session) *protocol.PatchesFrame {
	t.Helper()
	select {
	case frame := <-s.Outgoing():
		if frame.Type != protocol.FramePatches {
			t.Fatalf("expected patches frame, got %s", frame.Type)
		}
		pf, err := protocol.DecodePatches(frame.Payload)
		if err != nil {
			t.Fatalf("decode patches: %v", err)
		}
		return pf
	default:
		t.Fatal("no outgoing frame")
		return nil
	}
}

func TestSessionMountRoot(t *testing.T) {
	s := NewSession(nil, nil)
	defer s.Close()

	tree, err := s.MountRoot(counterDef(), nil)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if tree == nil || tree.Tag != "div" {
		t.Fatalf("tree = %+v", tree)
	}

	// The button is interactive and must be in the dispatch table
	btn := tree.Children[0]
	if btn.HID == "" {
		t.Fatal("button has no hid")
	}
	if s.lookupHandler(&protocol.Event{Type: protocol.EventClick, HID: btn.HID}) == nil {
		t.Error("click handler not registered")
	}
}

func TestSessionClickEventProducesPatch(t *testing.T) {
	s := NewSession(nil, nil)
	defer s.Close()

	tree, err := s.MountRoot(counterDef(), nil)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	btnHID := tree.Children[0].HID

	if err := s.HandleEvent(&protocol.Event{Seq: 1, Type: protocol.EventClick, HID: btnHID}); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	pf := drainPatches(t, s)
	if pf.Seq != 1 {
		t.Errorf("seq = %d", pf.Seq)
	}

	found := false
	for _, p := range pf.Patches {
		if p.Op == vdom.OpSetText && p.Value == "1" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected SetText to 1, got %+v", pf.Patches)
	}
}

func TestSessionUnknownHIDIsNoOp(t *testing.T) {
	s := NewSession(nil, nil)
	defer s.Close()

	if _, err := s.MountRoot(counterDef(), nil); err != nil {
		t.Fatalf("mount: %v", err)
	}

	if err := s.HandleEvent(&protocol.Event{Type: protocol.EventClick, HID: "h999"}); err != nil {
		t.Fatalf("stale hid should not error: %v", err)
	}

	select {
	case frame := <-s.Outgoing():
		t.Errorf("unexpected frame: %s", frame.Type)
	default:
	}
}

func TestSessionSetupOnceAcrossEvents(t *testing.T) {
	setups := 0
	def := component.Define("Once", func(ctx *component.Ctx) component.RenderFunc {
		setups++
		count := reactive.NewRef(0)
		return func() *vdom.VNode {
			return vdom.Button(vdom.OnClick(func() {
				count.Update(func(n int) int { return n + 1 })
			}), vdom.Text(strconv.Itoa(count.Get())))
		}
	})

	s := NewSession(nil, nil)
	defer s.Close()

	tree, err := s.MountRoot(def, nil)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := s.HandleEvent(&protocol.Event{Type: protocol.EventClick, HID: tree.HID}); err != nil {
			t.Fatalf("event %d: %v", i, err)
		}
		drainPatches(t, s)
	}

	if setups != 1 {
		t.Errorf("setup ran %d times across events, want 1", setups)
	}
}

func TestSessionInputEventPayload(t *testing.T) {
	var got string
	def := component.Define("Field", func(ctx *component.Ctx) component.RenderFunc {
		text := reactive.NewRef("")
		return func() *vdom.VNode {
			return vdom.Input(
				vdom.Value(text.Get()),
				vdom.OnInput(func(v string) {
					got = v
					text.Set(v)
				}),
			)
		}
	})

	s := NewSession(nil, nil)
	defer s.Close()

	tree, err := s.MountRoot(def, nil)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}

	if err := s.HandleEvent(&protocol.Event{Type: protocol.EventInput, HID: tree.HID, Payload: "abc"}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got != "abc" {
		t.Errorf("handler got %q", got)
	}

	pf := drainPatches(t, s)
	found := false
	for _, p := range pf.Patches {
		if p.Op == vdom.OpSetAttr && p.Key == "value" && p.Value == "abc" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected value attr patch, got %+v", pf.Patches)
	}
}

func TestSessionWatcherRunsInCycle(t *testing.T) {
	var log *reactive.Ref[int]
	runs := 0

	def := component.Define("Watched", func(ctx *component.Ctx) component.RenderFunc {
		log = reactive.NewRef(0)
		reactive.WatchEffect(func() reactive.Cleanup {
			log.Get()
			runs++
			return nil
		})
		return func() *vdom.VNode {
			return vdom.Button(vdom.OnClick(func() {
				log.Update(func(n int) int { return n + 1 })
			}), vdom.Text("go"))
		}
	})

	s := NewSession(nil, nil)
	defer s.Close()

	tree, err := s.MountRoot(def, nil)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if runs != 1 {
		t.Fatalf("watcher initial runs = %d", runs)
	}

	if err := s.HandleEvent(&protocol.Event{Type: protocol.EventClick, HID: tree.HID}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if runs != 2 {
		t.Errorf("watcher should run once per cycle, got %d", runs)
	}
}

func TestSessionResyncSendsFullTree(t *testing.T) {
	s := NewSession(nil, nil)
	defer s.Close()

	if _, err := s.MountRoot(counterDef(), nil); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if err := s.Resync(); err != nil {
		t.Fatalf("resync: %v", err)
	}

	pf := drainPatches(t, s)
	if len(pf.Patches) != 1 || pf.Patches[0].Op != vdom.OpReplaceNode {
		t.Fatalf("expected single replace, got %+v", pf.Patches)
	}
	if pf.Patches[0].Node.Tag != "div" {
		t.Errorf("root node = %+v", pf.Patches[0].Node)
	}
}

func TestSessionCloseDisposesTree(t *testing.T) {
	cleaned := false
	def := component.Define("Teardown", func(ctx *component.Ctx) component.RenderFunc {
		ctx.OnCleanup(func() { cleaned = true })
		return func() *vdom.VNode { return vdom.Div() }
	})

	s := NewSession(nil, nil)
	if _, err := s.MountRoot(def, nil); err != nil {
		t.Fatalf("mount: %v", err)
	}

	s.Close()
	s.Close() // Idempotent

	if !cleaned {
		t.Error("close did not dispose the component tree")
	}
	if err := s.HandleEvent(&protocol.Event{Type: protocol.EventClick, HID: "h1"}); err == nil {
		t.Error("closed session should reject events")
	}
}

func TestSessionEnvIsSession(t *testing.T) {
	var env any
	def := component.Define("EnvReader", func(ctx *component.Ctx) component.RenderFunc {
		env = ctx.Env()
		return func() *vdom.VNode { return vdom.Div() }
	})

	s := NewSession(nil, nil)
	defer s.Close()

	if _, err := s.MountRoot(def, nil); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if env != s {
		t.Errorf("setup env = %v, want the session", env)
	}
}

func TestSessionSendAfterCloseIsSafe(t *testing.T) {
	s := NewSession(nil, nil)
	if _, err := s.MountRoot(counterDef(), nil); err != nil {
		t.Fatalf("mount: %v", err)
	}

	s.Close()

	s.SendError("E100", "late report", false)
	if err := s.Resync(); err == nil {
		t.Error("resync on closed session should error")
	}
	if s.send(protocol.NewFrame(protocol.FrameControl, nil)) {
		t.Error("send on closed session should report failure")
	}
}

func TestSessionConcurrentSendAndClose(t *testing.T) {
	for i := 0; i < 20; i++ {
		s := NewSession(nil, nil)
		if _, err := s.MountRoot(counterDef(), nil); err != nil {
			t.Fatalf("mount: %v", err)
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.SendError("E100", "report", false)
			}
		}()
		go func() {
			defer wg.Done()
			s.Close()
		}()
		wg.Wait()
	}
}

func TestSessionValueLookup(t *testing.T) {
	cfg := DefaultSessionConfig()
	cfg.Values = func(key string) (any, bool) {
		if key == "db" {
			return "conn", true
		}
		return nil, false
	}

	s := NewSession(cfg, nil)
	defer s.Close()

	if v, ok := s.Value("db"); !ok || v != "conn" {
		t.Errorf("Value(db) = %v, %v", v, ok)
	}
	if _, ok := s.Value("missing"); ok {
		t.Error("unexpected value for unknown key")
	}

	bare := NewSession(nil, nil)
	defer bare.Close()
	if _, ok := bare.Value("db"); ok {
		t.Error("session without resolver should return nothing")
	}
}
