package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/unison-ui/unison/pkg/protocol"
)

// handleWebSocket upgrades the connection, performs the protocol
// handshake, and runs the session's read and write loops.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}
	defer conn.Close()

	cfg := s.config.Session
	conn.SetReadLimit(cfg.MaxMessageSize)

	sess, resumed, err := s.handshake(conn, r)
	if err != nil {
		s.logger.Warn("handshake failed", "error", err, "remote", r.RemoteAddr)
		return
	}
	defer s.sessions.Remove(sess.ID())
	s.logger.Debug("websocket attached", "session", sess.ID(), "resumed", resumed)

	done := make(chan struct{})
	go s.writeLoop(conn, sess, done)

	s.readLoop(conn, sess)
	close(done)
}

// handshake reads the opening frame and either creates a session or
// resumes an existing one by token.
func (s *Server) handshake(conn *websocket.Conn, r *http.Request) (*Session, bool, error) {
	conn.SetReadDeadline(time.Now().Add(s.config.Session.ReadTimeout))

	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, false, err
	}
	frame, err := protocol.DecodeFrame(data)
	if err != nil {
		return nil, false, err
	}
	if frame.Type != protocol.FrameHandshake {
		return nil, false, protocol.ErrUnknownEventType
	}
	hs, err := protocol.DecodeHandshake(frame.Payload)
	if err != nil {
		return nil, false, err
	}

	// Resume when the token names a live session
	if hs.ResumeToken != "" {
		if existing := s.sessions.Get(hs.ResumeToken); existing != nil && !existing.IsClosed() {
			if err := s.sendHandshakeAck(conn, existing.ID(), true); err != nil {
				return nil, false, err
			}
			// Push the full current tree so the resumed client converges
			if err := existing.Resync(); err != nil {
				return nil, false, err
			}
			return existing, true, nil
		}
	}

	sess, err := s.sessions.Create()
	if err != nil {
		return nil, false, err
	}
	if _, err := sess.MountRoot(s.root, map[string]any{"path": hs.Path}); err != nil {
		s.sessions.Remove(sess.ID())
		return nil, false, err
	}
	if err := s.sendHandshakeAck(conn, sess.ID(), false); err != nil {
		s.sessions.Remove(sess.ID())
		return nil, false, err
	}
	// The client starts from the SSR HTML; send the mounted tree so it
	// has the full patch baseline.
	if err := sess.Resync(); err != nil {
		s.sessions.Remove(sess.ID())
		return nil, false, err
	}
	return sess, false, nil
}

func (s *Server) sendHandshakeAck(conn *websocket.Conn, sessionID string, resumed bool) error {
	ack := protocol.EncodeHandshakeAck(&protocol.HandshakeAck{SessionID: sessionID, Resumed: resumed})
	frame := protocol.NewFrame(protocol.FrameHandshake, ack)
	conn.SetWriteDeadline(time.Now().Add(s.config.Session.WriteTimeout))
	return conn.WriteMessage(websocket.BinaryMessage, frame.Encode())
}

// readLoop dispatches incoming frames until the connection drops or the
// session closes.
func (s *Server) readLoop(conn *websocket.Conn, sess *Session) {
	cfg := s.config.Session

	for {
		conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))

		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket closed unexpectedly", "session", sess.ID(), "error", err)
			}
			return
		}
		if sess.IsClosed() {
			return
		}

		frame, err := protocol.DecodeFrame(data)
		if err != nil {
			s.logger.Warn("bad frame", "session", sess.ID(), "error", err)
			sess.SendError("E100", "malformed frame", false)
			continue
		}

		switch frame.Type {
		case protocol.FrameEvent:
			event, err := protocol.DecodeEvent(frame.Payload)
			if err != nil {
				s.logger.Warn("bad event", "session", sess.ID(), "error", err)
				sess.SendError("E101", "malformed event", false)
				continue
			}
			if err := sess.HandleEvent(event); err != nil {
				s.logger.Error("event handling failed", "session", sess.ID(), "error", err)
				return
			}

		case protocol.FrameControl:
			ctrl, err := protocol.DecodeControl(frame.Payload)
			if err != nil {
				continue
			}
			switch ctrl.Type {
			case protocol.ControlPing:
				pong := protocol.EncodeControl(&protocol.Control{Type: protocol.ControlPong, Seq: ctrl.Seq})
				sess.touch()
				sess.send(protocol.NewFrame(protocol.FrameControl, pong))
			case protocol.ControlResync:
				if err := sess.Resync(); err != nil {
					s.logger.Error("resync failed", "session", sess.ID(), "error", err)
					return
				}
			}

		default:
			s.logger.Debug("ignoring frame", "session", sess.ID(), "type", frame.Type.String())
		}
	}
}

// writeLoop drains the session's outgoing queue onto the connection.
func (s *Server) writeLoop(conn *websocket.Conn, sess *Session, done <-chan struct{}) {
	cfg := s.config.Session
	heartbeat := time.NewTicker(cfg.HeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-done:
			return
		case frame, ok := <-sess.Outgoing():
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.BinaryMessage, frame.Encode()); err != nil {
				s.logger.Debug("write failed", "session", sess.ID(), "error", err)
				return
			}
		case <-heartbeat.C:
			ping := protocol.EncodeControl(&protocol.Control{Type: protocol.ControlPing})
			frame := protocol.NewFrame(protocol.FrameControl, ping)
			conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.BinaryMessage, frame.Encode()); err != nil {
				return
			}
		}
	}
}
