package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"
)

const lokiFlushInterval = 5 * time.Second

// LokiHandler is a slog.Handler that pushes JSON log lines to Loki / Handler slog qui pousse des lignes JSON vers Loki
// Handlers derived with WithAttrs/WithGroup share one batch and one flush timer.
type LokiHandler struct {
	sink    *lokiSink
	attrs   []slog.Attr
	group   string
	enabled bool
	level   slog.Level
}

// lokiSink owns the batch shared by a handler and its derivatives / Possède le lot partagé
type lokiSink struct {
	url        string
	labels     map[string]string
	client     *http.Client
	batch      []lokiEntry
	mu         sync.Mutex
	batchSize  int
	flushTimer *time.Timer
	errOut     io.Writer
}

type lokiEntry struct {
	timestamp time.Time
	line      string
}

type lokiPushRequest struct {
	Streams []lokiStream `json:"streams"`
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

// NewLokiHandler creates a handler pushing to <url>/loki/api/v1/push / Crée un handler Loki
// labels are static stream labels; batchSize 0 sends every record immediately.
func NewLokiHandler(url string, labels map[string]string, batchSize int, enabled bool, level slog.Level) *LokiHandler {
	if labels == nil {
		labels = make(map[string]string)
	}

	sink := &lokiSink{
		url:       url + "/loki/api/v1/push",
		labels:    labels,
		client:    &http.Client{Timeout: 5 * time.Second},
		batch:     make([]lokiEntry, 0, batchSize),
		batchSize: batchSize,
		errOut:    os.Stderr,
	}

	if batchSize > 0 && enabled {
		sink.flushTimer = time.AfterFunc(lokiFlushInterval, sink.periodicFlush)
	}

	return &LokiHandler{sink: sink, enabled: enabled, level: level}
}

// Enabled reports whether the handler handles records at the given level.
func (h *LokiHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled && level >= h.level
}

// Handle encodes the record as one JSON line / Encode l'enregistrement en une ligne JSON
func (h *LokiHandler) Handle(_ context.Context, r slog.Record) error {
	if !h.enabled {
		return nil
	}

	logData := map[string]any{
		"time":  r.Time.Format(time.RFC3339Nano),
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, a := range h.attrs {
		logData[a.Key] = a.Value.Resolve().Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		logData[h.qualify(a.Key)] = a.Value.Resolve().Any()
		return true
	})

	line, err := json.Marshal(logData)
	if err != nil {
		return fmt.Errorf("failed to marshal log to JSON: %w", err)
	}

	return h.sink.add(lokiEntry{timestamp: r.Time, line: string(line)})
}

// WithAttrs returns a handler that adds attrs to every record / Retourne un handler avec attributs
func (h *LokiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.qualify(a.Key)
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

// WithGroup prefixes later attribute keys with name / Préfixe les clés suivantes par name
func (h *LokiHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = h.qualify(name)
	return &clone
}

// Close flushes pending lines and stops the timer / Vide le lot et arrête le minuteur
func (h *LokiHandler) Close() error {
	return h.sink.close()
}

func (h *LokiHandler) qualify(key string) string {
	if h.group == "" {
		return key
	}
	return h.group + "." + key
}

func (s *lokiSink) add(entry lokiEntry) error {
	s.mu.Lock()
	s.batch = append(s.batch, entry)
	full := s.batchSize == 0 || len(s.batch) >= s.batchSize
	s.mu.Unlock()

	if full {
		return s.flush()
	}
	return nil
}

func (s *lokiSink) flush() error {
	s.mu.Lock()
	if len(s.batch) == 0 {
		s.mu.Unlock()
		return nil
	}
	entries := make([]lokiEntry, len(s.batch))
	copy(entries, s.batch)
	s.batch = s.batch[:0]
	s.mu.Unlock()

	// Loki expects [timestamp_in_nanoseconds, log_line]
	values := make([][]string, len(entries))
	for i, e := range entries {
		values[i] = []string{strconv.FormatInt(e.timestamp.UnixNano(), 10), e.line}
	}

	return s.push(lokiPushRequest{
		Streams: []lokiStream{{Stream: s.labels, Values: values}},
	})
}

// push never fails the caller: a Loki outage must not break request handling
func (s *lokiSink) push(req lokiPushRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal push request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		fmt.Fprintf(s.errOut, "loki push failed: %v\n", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		fmt.Fprintf(s.errOut, "loki returned %d: %s\n", resp.StatusCode, msg)
	}
	return nil
}

func (s *lokiSink) periodicFlush() {
	_ = s.flush()
	if s.flushTimer != nil {
		s.flushTimer.Reset(lokiFlushInterval)
	}
}

func (s *lokiSink) close() error {
	if s.flushTimer != nil {
		s.flushTimer.Stop()
	}
	return s.flush()
}
