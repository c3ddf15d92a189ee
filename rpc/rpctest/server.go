// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package rpctest provides a scripted netlab server for testing clients.
package rpctest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/juju/testing"
	gc "gopkg.in/check.v1"
)

// Request is a request received by a Server.
type Request struct {
	ID     string
	Method string
	Params map[string]any
}

// HandlerFunc answers a request on behalf of a Server.
type HandlerFunc func(srv *Server, req Request)

// Server is the far end of an in-memory connection. Requests for methods
// with a registered handler are answered by it; all other requests are
// queued for the test to read with NextRequest.
type Server struct {
	conn     net.Conn
	requests chan Request
	done     chan struct{}

	writeMu sync.Mutex

	mu       sync.Mutex
	handlers map[string]HandlerFunc
	received []string
}

// NewServer returns a running server and the client end of its
// connection.
func NewServer() (*Server, net.Conn) {
	client, server := net.Pipe()
	srv := &Server{
		conn:     server,
		requests: make(chan Request, 100),
		done:     make(chan struct{}),
		handlers: make(map[string]HandlerFunc),
	}
	go srv.loop()
	return srv, client
}

// Handle registers f to answer every request for method.
func (srv *Server) Handle(method string, f HandlerFunc) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.handlers[method] = f
}

// ReplyWith returns a handler that answers with a fixed result.
func ReplyWith(result any) HandlerFunc {
	return func(srv *Server, req Request) {
		_ = srv.Reply(req.ID, result)
	}
}

// Methods returns the method of every request received so far, in order.
func (srv *Server) Methods() []string {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return append([]string(nil), srv.received...)
}

func (srv *Server) loop() {
	defer close(srv.done)
	r := bufio.NewReader(srv.conn)
	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			return
		}
		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()
		var raw struct {
			ID     string         `json:"id"`
			Method string         `json:"method"`
			Params map[string]any `json:"params"`
		}
		if err := dec.Decode(&raw); err != nil {
			return
		}
		req := Request{ID: raw.ID, Method: raw.Method, Params: raw.Params}

		srv.mu.Lock()
		srv.received = append(srv.received, req.Method)
		handler := srv.handlers[req.Method]
		srv.mu.Unlock()
		if handler != nil {
			go handler(srv, req)
			continue
		}
		srv.requests <- req
	}
}

// NextRequest returns the next request that was not answered by a
// handler, waiting up to timeout for it.
func (srv *Server) NextRequest(timeout time.Duration) (Request, error) {
	select {
	case req := <-srv.requests:
		return req, nil
	case <-time.After(timeout):
		return Request{}, errors.Timeoutf("waiting for request")
	}
}

// ExpectRequest asserts that the next unanswered request is for method.
func (srv *Server) ExpectRequest(c *gc.C, method string) Request {
	req, err := srv.NextRequest(testing.LongWait)
	c.Assert(err, gc.IsNil)
	c.Assert(req.Method, gc.Equals, method)
	return req
}

// ExpectNoRequest asserts that no unanswered request arrives for a short
// while.
func (srv *Server) ExpectNoRequest(c *gc.C) {
	req, err := srv.NextRequest(testing.ShortWait)
	if err == nil {
		c.Fatalf("unexpected request %q", req.Method)
	}
}

// Reply sends a successful response to the request with id.
func (srv *Server) Reply(id string, result any) error {
	return srv.send(map[string]any{"id": id, "result": result})
}

// ReplyError sends an error response to the request with id. The detail
// is omitted when empty.
func (srv *Server) ReplyError(id, code, detail string) error {
	return srv.send(map[string]any{"id": id, "error": errorPayload(code, detail)})
}

// Notify sends an event to handle.
func (srv *Server) Notify(handle, event string, params map[string]any) error {
	return srv.send(map[string]any{"handle": handle, "event": event, "params": params})
}

// Complete sends a task completion carrying result to handle.
func (srv *Server) Complete(handle string, result any) error {
	return srv.send(map[string]any{"handle": handle, "params": map[string]any{"result": result}})
}

// Fail sends a task completion carrying an error to handle.
func (srv *Server) Fail(handle, code, detail string) error {
	return srv.send(map[string]any{"handle": handle, "params": map[string]any{"error": errorPayload(code, detail)}})
}

// Send writes line, followed by a line terminator, verbatim.
func (srv *Server) Send(line string) error {
	srv.writeMu.Lock()
	defer srv.writeMu.Unlock()
	_, err := srv.conn.Write([]byte(line + "\n"))
	return errors.Trace(err)
}

// Close closes the server end of the connection and waits for the
// server to stop.
func (srv *Server) Close() error {
	err := srv.conn.Close()
	<-srv.done
	return errors.Trace(err)
}

func (srv *Server) send(msg map[string]any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.Trace(err)
	}
	return srv.Send(string(data))
}

func errorPayload(code, detail string) map[string]any {
	payload := map[string]any{"message": code}
	if detail != "" {
		payload["data"] = map[string]any{"message": detail}
	}
	return payload
}
