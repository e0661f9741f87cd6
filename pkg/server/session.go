package server

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/unison-ui/unison/pkg/component"
	"github.com/unison-ui/unison/pkg/protocol"
	"github.com/unison-ui/unison/pkg/reactive"
	"github.com/unison-ui/unison/pkg/vdom"
)

// maxCyclePasses bounds the flush/render loop within one update cycle.
// Watchers that keep dirtying instances past this carry over to the next
// client event.
const maxCyclePasses = 10

// Session is one live client connection: a mounted component tree, the
// handler dispatch table keyed by hydration ID, and the patch stream
// back to the client.
//
// Session implements component.Scheduler: instances whose dependencies
// changed are queued and re-rendered at the end of the update cycle.
type Session struct {
	id     string
	config *SessionConfig
	logger *slog.Logger

	// scope is the session root scope; the component tree's scopes hang
	// off it, so closing the session disposes everything.
	scope *reactive.Scope

	root *component.Instance
	hids *vdom.HIDGenerator

	mu       sync.Mutex
	dirty    []*component.Instance
	handlers map[string]map[string]any // hid -> "onclick" -> handler

	seq atomic.Uint64

	// sendMu serializes queueing against Close, which is the only place
	// outgoing is closed. Senders hold the read side.
	sendMu   sync.RWMutex
	outgoing chan *protocol.Frame

	lastActive atomic.Int64
	closed     atomic.Bool
	closeOnce  sync.Once
}

var _ component.Scheduler = (*Session)(nil)

// newSessionID returns a URL-safe random identifier.
func newSessionID() string {
	buf := make([]byte, 18)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("server: session id generation failed: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

// NewSession creates a detached session. Call MountRoot before handling
// events.
func NewSession(config *SessionConfig, logger *slog.Logger) *Session {
	if config == nil {
		config = DefaultSessionConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		id:       newSessionID(),
		config:   config,
		scope:    reactive.NewScope(nil),
		hids:     vdom.NewHIDGenerator(),
		handlers: make(map[string]map[string]any),
		outgoing: make(chan *protocol.Frame, config.MaxEventQueue),
	}
	s.logger = logger.With("session", s.id)
	s.touch()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Scope returns the session root scope.
func (s *Session) Scope() *reactive.Scope {
	return s.scope
}

// Root returns the mounted root instance, or nil before MountRoot.
func (s *Session) Root() *component.Instance {
	return s.root
}

// Outgoing returns the channel of frames to deliver to the client.
// Closed when the session closes.
func (s *Session) Outgoing() <-chan *protocol.Frame {
	return s.outgoing
}

// Value resolves an application-provided value by key. Components call
// this through the session environment they get from Ctx.Env.
func (s *Session) Value(key string) (any, bool) {
	if s.config.Values == nil {
		return nil, false
	}
	return s.config.Values(key)
}

// IdleSince returns the time of the last client activity.
func (s *Session) IdleSince() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// ScheduleRender queues an instance for re-render in the current cycle.
// Implements component.Scheduler.
func (s *Session) ScheduleRender(inst *component.Instance) {
	if s.closed.Load() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, queued := range s.dirty {
		if queued.ID() == inst.ID() {
			return
		}
	}
	s.dirty = append(s.dirty, inst)
}

// MountRoot mounts def as the session's root component and performs the
// initial render. Returns the rendered tree for the SSR response.
func (s *Session) MountRoot(def *component.Definition, props map[string]any) (*vdom.VNode, error) {
	if s.root != nil {
		return nil, fmt.Errorf("server: session %s already has a root", s.id)
	}

	var tree *vdom.VNode
	reactive.WithEnv(s, func() {
		s.root = component.MountInScope(def, s.scope, s, props)
		tree = s.root.Render()
	})
	if tree == nil {
		return nil, fmt.Errorf("server: root render for %q returned nil", def.Name())
	}

	vdom.AssignHIDs(tree, s.hids)
	s.rebuildHandlers(tree)

	s.logger.Debug("root mounted", "component", def.Name(), "handlers", len(s.handlers))
	return tree, nil
}

// HandleEvent dispatches a decoded client event to its handler, then
// runs the update cycle and emits any resulting patches.
func (s *Session) HandleEvent(e *protocol.Event) error {
	if s.closed.Load() {
		return fmt.Errorf("server: session %s is closed", s.id)
	}
	s.touch()

	handler := s.lookupHandler(e)
	if handler == nil {
		// Stale HID after a re-render; the client will catch up
		s.logger.Debug("no handler for event", "type", e.Type.String(), "hid", e.HID)
		return nil
	}

	start := time.Now()
	reactive.WithEnv(s, func() {
		reactive.Batch(func() {
			invokeHandler(handler, e)
		})
	})

	err := s.runCycle()
	recordEvent(e.Type.String(), time.Since(start).Seconds())
	return err
}

func (s *Session) lookupHandler(e *protocol.Event) any {
	name := e.Type.DOMName()
	if name == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	byEvent := s.handlers[e.HID]
	if byEvent == nil {
		return nil
	}
	return byEvent["on"+name]
}

// invokeHandler calls a vdom event handler with the payload shape it
// declared.
func invokeHandler(handler any, e *protocol.Event) {
	switch h := handler.(type) {
	case func():
		h()
	case func(string):
		switch p := e.Payload.(type) {
		case string:
			h(p)
		case *protocol.KeyEventData:
			h(p.Key)
		default:
			h("")
		}
	case func(map[string]string):
		if data, ok := e.Payload.(*protocol.SubmitEventData); ok {
			h(data.Fields)
		} else {
			h(nil)
		}
	}
}

// runCycle flushes pending watchers and re-renders dirty instances until
// the tree settles, then sends one patch batch. Watcher runs are capped
// per cycle; anything over budget waits for the next event.
func (s *Session) runCycle() error {
	budget := reactive.NewCycleBudget(s.config.WatcherBudget)
	var patches []vdom.Patch

	for pass := 0; pass < maxCyclePasses; pass++ {
		reactive.WithEnv(s, func() {
			s.scope.Flush(budget)
		})

		s.mu.Lock()
		dirty := s.dirty
		s.dirty = nil
		s.mu.Unlock()

		if len(dirty) == 0 {
			break
		}

		for _, inst := range dirty {
			patches = append(patches, s.renderInstance(inst)...)
		}
	}

	if s.root != nil && s.root.LastTree() != nil {
		s.rebuildHandlers(s.root.LastTree())
	}

	if len(patches) == 0 {
		return nil
	}
	return s.sendPatches(patches)
}

// renderInstance re-renders one instance and diffs against its previous
// tree. The diff carries hydration IDs onto unchanged nodes; newly
// inserted interactive nodes get fresh IDs afterward.
func (s *Session) renderInstance(inst *component.Instance) []vdom.Patch {
	old := inst.LastTree()

	var tree *vdom.VNode
	reactive.WithEnv(s, func() {
		tree = inst.Render()
	})
	if tree == nil {
		return nil
	}

	patches := vdom.Diff(old, tree)
	vdom.AssignHIDs(tree, s.hids)
	return patches
}

// rebuildHandlers replaces the dispatch table from the current tree.
func (s *Session) rebuildHandlers(tree *vdom.VNode) {
	handlers := vdom.CollectHandlers(tree)
	s.mu.Lock()
	s.handlers = handlers
	s.mu.Unlock()
}

// send queues a frame unless the session is closed or the queue is
// full. Reports whether the frame was queued.
func (s *Session) send(frame *protocol.Frame) bool {
	s.sendMu.RLock()
	defer s.sendMu.RUnlock()
	if s.closed.Load() {
		return false
	}
	select {
	case s.outgoing <- frame:
		return true
	default:
		return false
	}
}

// sendPatches queues an encoded patch batch. A full outgoing queue
// drops the session: a client that cannot keep up must resync anyway.
func (s *Session) sendPatches(patches []vdom.Patch) error {
	pf := &protocol.PatchesFrame{
		Seq:     s.seq.Add(1),
		Patches: patches,
	}
	frame := protocol.NewFrame(protocol.FramePatches, protocol.EncodePatches(pf))

	if s.send(frame) {
		recordPatchesSent(len(patches))
		return nil
	}
	if s.closed.Load() {
		return fmt.Errorf("server: session %s is closed", s.id)
	}
	s.logger.Warn("outgoing queue full, closing session")
	s.Close()
	return fmt.Errorf("server: session %s outgoing queue full", s.id)
}

// Resync performs a full re-render and sends a single root replace
// patch, for clients whose DOM has drifted.
func (s *Session) Resync() error {
	if s.closed.Load() {
		return fmt.Errorf("server: session %s is closed", s.id)
	}
	if s.root == nil {
		return fmt.Errorf("server: session %s has no root", s.id)
	}

	var tree *vdom.VNode
	reactive.WithEnv(s, func() {
		tree = s.root.Render()
	})
	vdom.AssignHIDs(tree, s.hids)
	s.rebuildHandlers(tree)

	return s.sendPatches([]vdom.Patch{{Op: vdom.OpReplaceNode, Node: tree}})
}

// SendError queues an error report for the client. A full queue or a
// closed session drops the report.
func (s *Session) SendError(code, message string, fatal bool) {
	s.send(protocol.NewFrame(protocol.FrameError, protocol.EncodeError(&protocol.ErrorReport{
		Code:    code,
		Message: message,
		Fatal:   fatal,
	})))
}

// IsClosed reports whether the session has been closed.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Close disposes the component tree and closes the outgoing channel.
// Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		if s.root != nil {
			s.root.Dispose()
		}
		s.scope.Dispose()
		// Exclusive lock waits out in-flight senders before the close
		s.sendMu.Lock()
		close(s.outgoing)
		s.sendMu.Unlock()
		s.logger.Debug("session closed")
	})
}
