package server

import (
	"github.com/muurk/arxinspect/internal/logging"
	"github.com/muurk/arxinspect/internal/packet"
)

// DecodeRequest is the body of POST /api/decode
type DecodeRequest struct {
	Packet string `json:"packet"`
	Layout string `json:"layout,omitempty"` // Overrides the server layout when set
}

// DecodeResponse is the decoded form of one packet, returned by
// /api/decode and sent for every WebSocket message.
type DecodeResponse struct {
	Fields []packet.FieldResult `json:"fields"`
	Mask   string               `json:"mask"`
	Model  string               `json:"model"`
	Active []string             `json:"active"`
	Bytes  int                  `json:"bytes"`
}

// ErrorResponse is returned for requests that could not be decoded
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewDecodeResponse builds the response document for a decoded table.
func NewDecodeResponse(t packet.Table, byteCount int) DecodeResponse {
	active := t.ActiveValues()
	if active == nil {
		active = []string{}
	}
	return DecodeResponse{
		Fields: t,
		Mask:   t.Mask(),
		Model:  t.ModelName(),
		Active: active,
		Bytes:  byteCount,
	}
}

// options returns the server decode options with the layout replaced when
// layoutName is set.
func (s *Server) options(layoutName string) (packet.Options, error) {
	opts := s.config.Options
	if layoutName == "" {
		return opts, nil
	}
	layout, err := packet.LayoutByName(layoutName)
	if err != nil {
		return opts, err
	}
	opts.Layout = layout
	return opts, nil
}

// decodeText decodes a hex packet submitted by a client and records it.
func (s *Server) decodeText(source, remoteAddr, raw string, opts packet.Options) (DecodeResponse, error) {
	data, err := packet.Normalize(raw)
	logging.LogDecode(source, raw, len(data), err)
	if err != nil {
		s.record(source, remoteAddr, raw, nil, nil, err)
		return DecodeResponse{}, err
	}
	return s.decodeBytes(source, remoteAddr, raw, data, opts), nil
}

// decodeBytes decodes raw packet bytes and records them. Byte input never
// fails to decode.
func (s *Server) decodeBytes(source, remoteAddr, raw string, data []byte, opts packet.Options) DecodeResponse {
	logging.LogRawBytes("Packet received", data)
	table := packet.DecodeBytesWith(data, opts)
	s.record(source, remoteAddr, raw, data, table, nil)
	return NewDecodeResponse(table, len(data))
}

func (s *Server) record(source, remoteAddr, raw string, data []byte, t packet.Table, err error) {
	if s.capture == nil {
		return
	}
	s.capture.Record(NewCaptureRecord(source, remoteAddr, raw, data, t, err))
}
