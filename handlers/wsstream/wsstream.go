// Package wsstream implements a Handler that pushes parse events to a
// connected websocket client as they happen.
package wsstream

import (
	"encoding/json"
	"log/slog"

	"github.com/gorilla/websocket"

	"github.com/flowmark/corexml"
)

// Event is the JSON shape pushed to the client for every forwarded
// parse event.
type Event struct {
	Kind  string `json:"kind"`
	Name  string `json:"name,omitempty"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// Streamer writes one Event to conn for each document start/end,
// open/close/standalone element start/end, text and parse-error event;
// attributes, whitespace, comments, CDATA, processing instructions,
// declarations and the synthetic auto/unmatched events are not sent.
// It never aborts
// the parse: a write failure is logged and the parse continues, so a
// client going away mid-stream doesn't fail the document.
type Streamer struct {
	corexml.BaseHandler

	conn   *websocket.Conn
	logger *slog.Logger
}

// New wraps conn. A nil logger falls back to slog.Default().
func New(conn *websocket.Conn, logger *slog.Logger) *Streamer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Streamer{conn: conn, logger: logger}
}

func (s *Streamer) send(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error("marshal parse event", "error", err)
		return
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.Warn("write parse event to websocket", "error", err)
	}
}

func (s *Streamer) DocumentStart(int64, int, int) {
	s.send(Event{Kind: "documentStart"})
}

func (s *Streamer) DocumentEnd(int64, int64, int, int) {
	s.send(Event{Kind: "documentEnd"})
}

func (s *Streamer) OpenElementStart(v *corexml.View, name corexml.Partition) {
	s.send(Event{Kind: "openStart", Name: v.Text(name)})
}

func (s *Streamer) OpenElementEnd(v *corexml.View, name corexml.Partition) {
	s.send(Event{Kind: "openEnd", Name: v.Text(name)})
}

func (s *Streamer) CloseElementStart(v *corexml.View, name corexml.Partition) {
	s.send(Event{Kind: "closeStart", Name: v.Text(name)})
}

func (s *Streamer) CloseElementEnd(v *corexml.View, name corexml.Partition) {
	s.send(Event{Kind: "closeEnd", Name: v.Text(name)})
}

func (s *Streamer) StandaloneElementStart(v *corexml.View, name corexml.Partition, _ bool) {
	s.send(Event{Kind: "standaloneStart", Name: v.Text(name)})
}

func (s *Streamer) StandaloneElementEnd(v *corexml.View, name corexml.Partition, _ bool) {
	s.send(Event{Kind: "standaloneEnd", Name: v.Text(name)})
}

func (s *Streamer) Text(v *corexml.View, p corexml.Partition) {
	s.send(Event{Kind: "text", Text: v.Text(p)})
}

func (s *Streamer) ParseError(err error) {
	s.send(Event{Kind: "error", Error: err.Error()})
}
