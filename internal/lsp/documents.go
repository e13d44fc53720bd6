package lsp

import (
	"errors"
	"fmt"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ErrDocumentNotOpen is returned for requests on documents the client never
// opened.
var ErrDocumentNotOpen = errors.New("document not open")

// document is one version of an open text document.
type document struct {
	uri     protocol.DocumentUri
	version protocol.Integer
	text    string

	convOnce sync.Once
	conv     *positionConverter
}

func (d *document) converter() *positionConverter {
	d.convOnce.Do(func() {
		d.conv = newPositionConverter(d.text)
	})
	return d.conv
}

// documentStore holds the open documents. Documents are replaced, never
// mutated, so a handler can keep using the version it loaded.
type documentStore struct {
	mu   sync.RWMutex
	docs map[protocol.DocumentUri]*document
}

func newDocumentStore() *documentStore {
	return &documentStore{docs: make(map[protocol.DocumentUri]*document)}
}

func (s *documentStore) open(uri protocol.DocumentUri, version protocol.Integer, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = &document{uri: uri, version: version, text: text}
}

func (s *documentStore) get(uri protocol.DocumentUri) (*document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	if !ok {
		return nil, fmt.Errorf("%s: %w", uri, ErrDocumentNotOpen)
	}
	return doc, nil
}

func (s *documentStore) close(uri protocol.DocumentUri) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

func (s *documentStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// change applies content changes in order and stores the result.
func (s *documentStore) change(uri protocol.DocumentUri, version protocol.Integer, changes []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[uri]
	if !ok {
		return fmt.Errorf("%s: %w", uri, ErrDocumentNotOpen)
	}

	text := doc.text
	for _, raw := range changes {
		switch c := raw.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				text = c.Text
				continue
			}
			span := newPositionConverter(text).spanOf(*c.Range)
			text = text[:span.Start] + c.Text + text[span.End:]
		default:
			return fmt.Errorf("%s: unsupported content change %T", uri, raw)
		}
	}

	s.docs[uri] = &document{uri: uri, version: version, text: text}
	return nil
}
