// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package jsoncodec frames netlab RPC messages as one JSON object per
// line and applies field coercion to everything it reads.
package jsoncodec

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/juju/netlab/rpc/coerce"
)

var logger = loggo.GetLogger("netlab.rpc.jsoncodec")

// ErrFormat is the cause of every error returned for a line that does not
// form a valid message envelope.
const ErrFormat = errors.ConstError("malformed message")

// ErrEncode is the cause of errors returned when a request's parameters
// cannot be marshalled. Nothing has been written when it is returned.
const ErrEncode = errors.ConstError("cannot encode request")

// DefaultLimit is the maximum length of a single line, in bytes, used when
// no limit is given.
const DefaultLimit = 64 << 20

// Version is the protocol version sent with every request.
const Version = "2.0"

// Request is an outbound call.
type Request struct {
	ID      uuid.UUID `json:"id"`
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  any       `json:"params"`
}

// Message is an inbound line. Exactly one of ID or Handle is set.
type Message struct {
	// ID correlates a response with its request.
	ID *uuid.UUID

	// Handle routes an event or task notification to a subscription.
	Handle *uuid.UUID

	// Event holds the top level "event" member, if any.
	Event    string
	HasEvent bool

	// Result holds the top level "result" member of a response.
	Result    any
	HasResult bool

	// Error holds the raw top level "error" member, or nil.
	Error any

	// Params holds the "params" object of a handle message.
	Params map[string]any

	// Err is set when a field in the message could not be coerced. The
	// envelope is still valid and the message can be routed.
	Err error
}

// Codec reads and writes messages on a connection.
type Codec interface {
	// WriteRequest writes a single request line. It must not be called
	// concurrently.
	WriteRequest(req *Request) error

	// ReadMessage reads the next line. Transport failures are returned
	// as they are; envelope violations have ErrFormat as their cause.
	ReadMessage() (*Message, error)

	// Close closes the underlying connection, unblocking any read.
	Close() error
}

type netCodec struct {
	rwc   io.ReadWriteCloser
	r     *bufio.Reader
	table *coerce.Table
	limit int
}

// NewNet returns a Codec that uses rwc for transport. Inbound values are
// coerced with table; a nil table disables coercion. Lines longer than
// limit bytes are rejected, and a limit of zero selects DefaultLimit.
func NewNet(rwc io.ReadWriteCloser, table *coerce.Table, limit int) Codec {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &netCodec{
		rwc:   rwc,
		r:     bufio.NewReader(rwc),
		table: table,
		limit: limit,
	}
}

// WriteRequest implements Codec.
func (c *netCodec) WriteRequest(req *Request) error {
	out := *req
	if out.JSONRPC == "" {
		out.JSONRPC = Version
	}
	if out.Params == nil {
		out.Params = map[string]any{}
	} else {
		out.Params = coerce.Encode(out.Params)
	}
	data, err := json.Marshal(&out)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrEncode, req.Method, err)
	}
	if logger.IsTraceEnabled() {
		logger.Tracef("-> %s", data)
	}
	data = append(data, '\n')
	if _, err := c.rwc.Write(data); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// ReadMessage implements Codec.
func (c *netCodec) ReadMessage() (*Message, error) {
	line, err := c.readLine()
	if err != nil {
		return nil, err
	}
	if logger.IsTraceEnabled() {
		logger.Tracef("<- %s", line)
	}
	return c.decode(line)
}

// Close implements Codec.
func (c *netCodec) Close() error {
	return c.rwc.Close()
}

func (c *netCodec) readLine() ([]byte, error) {
	var line []byte
	for {
		chunk, err := c.r.ReadSlice('\n')
		if len(line)+len(chunk) > c.limit {
			return nil, errors.Errorf("message exceeds %s limit", humanize.IBytes(uint64(c.limit)))
		}
		line = append(line, chunk...)
		switch err {
		case nil:
			return bytes.TrimRight(line, "\r\n"), nil
		case bufio.ErrBufferFull:
			continue
		case io.EOF:
			if len(bytes.TrimSpace(line)) > 0 {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, io.EOF
		default:
			return nil, err
		}
	}
}

func (c *netCodec) decode(line []byte) (*Message, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Annotatef(ErrFormat, "cannot parse %q: %v", truncate(line), err)
	}
	if raw == nil {
		return nil, errors.Annotatef(ErrFormat, "expected object, got %q", truncate(line))
	}

	msg := &Message{}
	switch {
	case raw["id"] != nil:
		id, err := parseUUID(raw["id"])
		if err != nil {
			return nil, errors.Annotatef(ErrFormat, "invalid id: %v", err)
		}
		msg.ID = &id
	case raw["handle"] != nil:
		handle, err := parseUUID(raw["handle"])
		if err != nil {
			return nil, errors.Annotatef(ErrFormat, "invalid handle: %v", err)
		}
		msg.Handle = &handle
		if _, ok := raw["params"].(map[string]any); !ok {
			return nil, errors.Annotatef(ErrFormat, "message did not contain %q", "params")
		}
	default:
		return nil, errors.Annotatef(ErrFormat, "message did not contain %q or %q", "handle", "id")
	}

	if c.table != nil {
		coerced, err := c.table.Apply(raw)
		if err != nil {
			msg.Err = err
		} else {
			raw = coerced.(map[string]any)
		}
	}

	if ev, ok := raw["event"]; ok {
		msg.HasEvent = true
		msg.Event, _ = ev.(string)
	}
	msg.Result, msg.HasResult = raw["result"]
	msg.Error = raw["error"]
	msg.Params, _ = raw["params"].(map[string]any)
	return msg, nil
}

func parseUUID(v any) (uuid.UUID, error) {
	s, ok := v.(string)
	if !ok {
		return uuid.Nil, errors.Errorf("expected string, got %T", v)
	}
	return uuid.Parse(s)
}

func truncate(line []byte) []byte {
	const n = 80
	if len(line) > n {
		return line[:n]
	}
	return line
}
