package main

import (
	"bytes"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/websocket"

	"github.com/flowmark/corexml"
	"github.com/flowmark/corexml/handlers/domtree"
	"github.com/flowmark/corexml/handlers/minify"
	"github.com/flowmark/corexml/handlers/pretty"
	"github.com/flowmark/corexml/handlers/wsstream"
)

func loggerMiddleware(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info("HTTP request", "method", r.Method, "url", r.URL)
		next.ServeHTTP(w, r)
	})
}

var wsUpgrader = websocket.Upgrader{}

// server demonstrates corexml wired to several handlers: /pretty,
// /minify and /dom parse a file on the server's disk, named by the file
// query parameter, and write it back pretty-printed, minified, or as an
// indented DOM tree; /live upgrades to a websocket, takes the document
// from the first message, and streams its parse events back.
type server struct {
	logger *slog.Logger
	cfg    *corexml.Config
}

func (s *server) handlePrettyPrint(w http.ResponseWriter, r *http.Request) {
	body, err := os.ReadFile(r.URL.Query().Get("file"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	printer := pretty.New(w)
	if err := corexml.NewParser(s.cfg).Parse(bytes.NewReader(body), printer); err != nil {
		s.logger.Error("parse for pretty-print", "error", err)
	}
	printer.Flush()
}

func (s *server) handleMinify(w http.ResponseWriter, r *http.Request) {
	body, err := os.ReadFile(r.URL.Query().Get("file"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m := minify.New(w)
	if err := corexml.NewParser(s.cfg).Parse(bytes.NewReader(body), m); err != nil {
		s.logger.Error("parse for minify", "error", err)
	}
	m.Flush()
}

func (s *server) handleDOM(w http.ResponseWriter, r *http.Request) {
	body, err := os.ReadFile(r.URL.Query().Get("file"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	builder := domtree.New()
	if err := corexml.NewParser(s.cfg).Parse(bytes.NewReader(body), builder); err != nil {
		s.logger.Error("parse for dom tree", "error", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	builder.Document().Indent(2)
	if _, err := builder.Document().WriteTo(w); err != nil {
		s.logger.Error("write dom tree", "error", err)
	}
}

func (s *server) handleLiveParse(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		http.Error(w, "expected a websocket upgrade", http.StatusUpgradeRequired)
		return
	}
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("upgrade websocket", "error", err)
		return
	}
	defer conn.Close()

	_, body, err := conn.ReadMessage()
	if err != nil {
		s.logger.Warn("read document from websocket", "error", err)
		return
	}

	streamer := wsstream.New(conn, s.logger)
	if err := corexml.NewParser(s.cfg).Parse(bytes.NewReader(body), streamer); err != nil {
		s.logger.Error("live parse", "error", err)
	}
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	s := &server{logger: logger, cfg: corexml.NewConfig()}

	mux := http.NewServeMux()
	mux.HandleFunc("/pretty", s.handlePrettyPrint)
	mux.HandleFunc("/minify", s.handleMinify)
	mux.HandleFunc("/dom", s.handleDOM)
	mux.HandleFunc("/live", s.handleLiveParse)

	logger.Info("Starting HTTP server", "address", "http://localhost:8080")

	err := http.ListenAndServe(":8080", loggerMiddleware(mux, logger))

	logger.Error("HTTP server error", "error", err)
}
