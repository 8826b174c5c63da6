package server

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muurk/arxinspect/internal/logging"
	"github.com/muurk/arxinspect/internal/packet"
)

// CaptureRecord is one submitted packet, written as a JSON line.
type CaptureRecord struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Source     string    `json:"source"`
	RemoteAddr string    `json:"remote_addr"`
	Input      string    `json:"input"`
	PacketHex  string    `json:"packet_hex,omitempty"`
	Bytes      int       `json:"bytes"`
	Model      string    `json:"model,omitempty"`
	Mask       string    `json:"mask,omitempty"`
	Active     []string  `json:"active,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// NewCaptureRecord builds a record for one decode. t is nil when decoding
// failed with err.
func NewCaptureRecord(source, remoteAddr, input string, data []byte, t packet.Table, err error) CaptureRecord {
	rec := CaptureRecord{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		Source:     source,
		RemoteAddr: remoteAddr,
		Input:      input,
		PacketHex:  hex.EncodeToString(data),
		Bytes:      len(data),
	}
	if err != nil {
		rec.Error = err.Error()
		return rec
	}
	rec.Model = t.ModelName()
	rec.Mask = t.Mask()
	rec.Active = t.ActiveValues()
	return rec
}

// Capture appends decoded packets to a JSON Lines file
// (capture-<timestamp>.jsonl) in a directory.
type Capture struct {
	mu   sync.Mutex
	path string
	file *os.File
	enc  *json.Encoder
}

// NewCapture creates dir if needed and opens a new capture file in it.
func NewCapture(dir string) (*Capture, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create capture directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("capture-%s.jsonl", time.Now().Format("20060102-150405")))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}

	logging.Info("Capturing packets", zap.String("file", path))
	return &Capture{path: path, file: f, enc: json.NewEncoder(f)}, nil
}

// Path returns the capture file path.
func (c *Capture) Path() string {
	return c.path
}

// Record appends rec to the capture file. Write errors are logged, not
// returned.
func (c *Capture) Record(rec CaptureRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.file == nil {
		return
	}
	if err := c.enc.Encode(rec); err != nil {
		logging.Error("Failed to write capture record",
			zap.String("file", c.path),
			zap.Error(err),
		)
	}
}

// Close closes the capture file.
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	return err
}

// ReadCapture reads the records of a capture file. Blank lines are skipped.
func ReadCapture(r io.Reader) ([]CaptureRecord, error) {
	var records []CaptureRecord
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRequestBody*4)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec CaptureRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return records, fmt.Errorf("capture line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("failed to read capture: %w", err)
	}
	return records, nil
}
