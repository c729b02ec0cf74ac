// Package sidecar exposes a scroller over line-delimited JSON-RPC on stdio,
// for hosts that own a real scroll container (a browser, a native list) and
// want the position-preservation logic out of process.
//
// Each request is one JSON object per line:
//
//	{"id":"1","method":"set_attribute","params":{"name":"shift","value":"{\"direction\":\"down\"}"}}
//
// and gets exactly one response line with the same id. Every scroll the
// component performs is pushed to the host as a notification:
//
//	{"method":"scroll_top","params":{"top":380}}
//
// The host drives event-queue turns explicitly with flush.
package sidecar

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/miosa/osa-scroll/scroller"
)

// Request is a JSON-RPC request read from the input.
type Request struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC response written to the output.
type Response struct {
	ID     string    `json:"id"`
	Result any       `json:"result,omitempty"`
	Error  *RPCError `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Notification is an unsolicited message to the host.
type Notification struct {
	Method string `json:"method"`
	Params any    `json:"params"`
}

// Error codes.
const (
	CodeParse         = -32700
	CodeUnknownMethod = -32601
	CodeInvalidParams = -32602
)

// AttachParams holds the optional settings for attach.
type AttachParams struct {
	Strategy string `json:"strategy,omitempty"`
	Marker   string `json:"marker,omitempty"`
	Tag      string `json:"tag,omitempty"`
}

// RowsParams holds set_rows.
type RowsParams struct {
	Rows []RowSpec `json:"rows"`
}

// AttributeParams holds set_attribute and remove_attribute.
type AttributeParams struct {
	Name  string  `json:"name"`
	Value *string `json:"value,omitempty"`
}

// ScrollParams holds scroll.
type ScrollParams struct {
	Top int `json:"top"`
}

// FlushParams holds flush. Turns <= 0 drains the queue.
type FlushParams struct {
	Turns int `json:"turns"`
}

// FlushResult is returned by flush.
type FlushResult struct {
	Turns int `json:"turns"`
	Tasks int `json:"tasks"`
}

// StateResult is returned by state.
type StateResult struct {
	Phase             string `json:"phase"`
	Strategy          string `json:"strategy"`
	AboveHeight       *int   `json:"aboveHeight"`
	ScrollPos         int    `json:"scrollPos"`
	PendingAdjustment *int   `json:"pendingAdjustment"`
	QueuedRecalcs     int    `json:"queuedRecalcs"`
	Rows              int    `json:"rows"`
}

// ScrollTop is the payload of a scroll_top notification.
type ScrollTop struct {
	Top int `json:"top"`
}

// maxLine bounds one request line; set_rows for a long list is the largest.
const maxLine = 10 * 1024 * 1024

// Server handles one host connection.
type Server struct {
	out    *bufio.Writer
	logger *slog.Logger

	strategy scroller.Strategy
	queue    *scroller.Queue
	doc      *document
	sc       *scroller.Scroller
}

// New returns a server writing to out. strategy is the default for attach.
func New(out io.Writer, strategy scroller.Strategy, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		out:      bufio.NewWriter(out),
		logger:   logger,
		strategy: strategy,
		queue:    scroller.NewQueue(),
	}
	s.doc = newDocument(s.notifyScroll)
	s.sc = s.newScroller(strategy, nil)
	return s
}

// Serve reads requests from in until EOF or ctx is done.
func (s *Server) Serve(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	s.logger.Info("sidecar ready", "strategy", s.strategy)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("failed to parse request", "err", err)
			s.write(errorResponse("", CodeParse, fmt.Sprintf("parse error: %v", err)))
			continue
		}
		s.write(s.Handle(req))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read requests: %w", err)
	}
	s.logger.Info("input closed")
	return nil
}

// Handle dispatches one request.
func (s *Server) Handle(req Request) Response {
	switch req.Method {
	case "ping":
		return Response{ID: req.ID, Result: "pong"}
	case "attach":
		return s.handleAttach(req.ID, req.Params)
	case "detach":
		s.sc.Detach()
		return s.ok(req.ID)
	case "set_rows":
		return s.handleSetRows(req.ID, req.Params)
	case "set_attribute":
		return s.handleSetAttribute(req.ID, req.Params)
	case "remove_attribute":
		return s.handleRemoveAttribute(req.ID, req.Params)
	case "scroll":
		return s.handleScroll(req.ID, req.Params)
	case "flush":
		return s.handleFlush(req.ID, req.Params)
	case "state":
		return Response{ID: req.ID, Result: s.state()}
	default:
		return errorResponse(req.ID, CodeUnknownMethod, fmt.Sprintf("unknown method: %s", req.Method))
	}
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

func (s *Server) handleAttach(id string, params json.RawMessage) Response {
	var p AttachParams
	if err := decode(params, &p); err != nil {
		return invalidParams(id, err)
	}
	strategy := s.strategy
	if p.Strategy != "" {
		var err error
		if strategy, err = scroller.ParseStrategy(p.Strategy); err != nil {
			return invalidParams(id, err)
		}
	}
	var matcher scroller.Matcher
	switch {
	case p.Tag != "" && p.Marker != "":
		return errorResponse(id, CodeInvalidParams, "marker and tag are exclusive")
	case p.Tag != "":
		matcher = scroller.TagName(p.Tag)
	case p.Marker != "":
		matcher = scroller.MarkerAttr(p.Marker)
	}

	s.sc.Detach()
	s.sc = s.newScroller(strategy, matcher)
	s.sc.Attach(s.doc)
	return s.ok(id)
}

func (s *Server) handleSetRows(id string, params json.RawMessage) Response {
	var p RowsParams
	if err := decode(params, &p); err != nil {
		return invalidParams(id, err)
	}
	s.doc.setRows(p.Rows)
	return s.ok(id)
}

func (s *Server) handleSetAttribute(id string, params json.RawMessage) Response {
	var p AttributeParams
	if err := decode(params, &p); err != nil {
		return invalidParams(id, err)
	}
	if p.Name == "" || p.Value == nil {
		return errorResponse(id, CodeInvalidParams, "missing required params: name, value")
	}
	s.sc.SetAttribute(p.Name, *p.Value)
	return s.ok(id)
}

func (s *Server) handleRemoveAttribute(id string, params json.RawMessage) Response {
	var p AttributeParams
	if err := decode(params, &p); err != nil {
		return invalidParams(id, err)
	}
	if p.Name == "" {
		return errorResponse(id, CodeInvalidParams, "missing required param: name")
	}
	s.sc.RemoveAttribute(p.Name)
	return s.ok(id)
}

func (s *Server) handleScroll(id string, params json.RawMessage) Response {
	var p ScrollParams
	if err := decode(params, &p); err != nil {
		return invalidParams(id, err)
	}
	s.doc.scrolled(p.Top)
	return s.ok(id)
}

func (s *Server) handleFlush(id string, params json.RawMessage) Response {
	p := FlushParams{Turns: 1}
	if err := decode(params, &p); err != nil {
		return invalidParams(id, err)
	}
	var res FlushResult
	for p.Turns <= 0 || res.Turns < p.Turns {
		n := s.queue.Flush()
		if n == 0 {
			break
		}
		res.Turns++
		res.Tasks += n
	}
	return Response{ID: id, Result: res}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *Server) newScroller(strategy scroller.Strategy, matcher scroller.Matcher) *scroller.Scroller {
	return scroller.New(s.queue, s.doc,
		scroller.WithStrategy(strategy),
		scroller.WithMatcher(matcher),
		scroller.WithLogger(s.logger),
	)
}

func (s *Server) state() StateResult {
	st := s.sc.State()
	return StateResult{
		Phase:             s.sc.Phase().String(),
		Strategy:          s.sc.Strategy().String(),
		AboveHeight:       st.AboveHeight,
		ScrollPos:         st.ScrollPos,
		PendingAdjustment: st.PendingAdjustment,
		QueuedRecalcs:     st.QueuedRecalcs,
		Rows:              len(s.doc.nodes),
	}
}

func (s *Server) notifyScroll(top int) {
	s.logger.Debug("scroll_top", "top", top)
	s.write(Notification{Method: "scroll_top", Params: ScrollTop{Top: top}})
}

func (s *Server) ok(id string) Response {
	return Response{ID: id, Result: "ok"}
}

func (s *Server) write(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to marshal message", "err", err)
		return
	}
	fmt.Fprintf(s.out, "%s\n", data)
	s.out.Flush()
}

func decode(params json.RawMessage, v any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	return json.Unmarshal(params, v)
}

func invalidParams(id string, err error) Response {
	return errorResponse(id, CodeInvalidParams, fmt.Sprintf("invalid params: %v", err))
}

func errorResponse(id string, code int, message string) Response {
	return Response{
		ID:    id,
		Error: &RPCError{Code: code, Message: message},
	}
}
