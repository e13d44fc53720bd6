package lsp

import (
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/yacobolo/classlens"
	"github.com/yacobolo/classlens/internal/discovery"
	"github.com/yacobolo/classlens/internal/logging"
	"github.com/yacobolo/classlens/internal/watch"
)

func (s *Server) initialize(
	context *glsp.Context,
	params *protocol.InitializeParams,
) (any, error) {
	log := logging.FromContext(s.ctx)

	capabilities := s.handler.CreateServerCapabilities()
	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		ResolveProvider:   &protocol.True,
		TriggerCharacters: []string{"-", ":"},
	}
	capabilities.HoverProvider = true
	capabilities.ColorProvider = true

	s.mu.Lock()
	first := !s.started
	if first {
		s.started = true
		s.root = workspaceRoot(params)
		if s.root == "" && s.opts.FallbackRoot != "" {
			s.root, _ = discovery.NormalizeRoot(s.opts.FallbackRoot)
		}
	}
	root := s.root
	s.mu.Unlock()

	if first {
		if root == "" {
			log.Info("no workspace root, serving defaults")
			close(s.ready)
		} else {
			s.loadWorkspace(root)
		}
	}

	version := s.opts.Version
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    Name,
			Version: &version,
		},
	}, nil
}

// workspaceRoot returns the directory of the first workspace folder, falling
// back to the deprecated root fields. Unusable roots yield "".
func workspaceRoot(params *protocol.InitializeParams) string {
	var raw string
	switch {
	case len(params.WorkspaceFolders) > 0:
		raw = params.WorkspaceFolders[0].URI
	case params.RootURI != nil:
		raw = *params.RootURI
	case params.RootPath != nil:
		raw = *params.RootPath
	}
	if raw == "" {
		return ""
	}
	root, err := discovery.NormalizeRoot(raw)
	if err != nil {
		return ""
	}
	return root
}

func (s *Server) initialized(
	context *glsp.Context,
	params *protocol.InitializedParams,
) error {
	logging.FromContext(s.ctx).Debug("client initialized")
	return nil
}

func (s *Server) shutdown(context *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return s.Close()
}

func (s *Server) setTrace(
	context *glsp.Context,
	params *protocol.SetTraceParams,
) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(
	context *glsp.Context,
	params *protocol.DidOpenTextDocumentParams,
) error {
	doc := params.TextDocument
	s.docs.open(doc.URI, doc.Version, doc.Text)
	logging.FromContext(s.ctx).Debug("document opened",
		logging.FieldURI, doc.URI, logging.FieldVersion, doc.Version)
	return nil
}

func (s *Server) textDocumentDidChange(
	context *glsp.Context,
	params *protocol.DidChangeTextDocumentParams,
) error {
	doc := params.TextDocument
	return s.docs.change(doc.URI, doc.Version, params.ContentChanges)
}

func (s *Server) textDocumentDidClose(
	context *glsp.Context,
	params *protocol.DidCloseTextDocumentParams,
) error {
	s.docs.close(params.TextDocument.URI)
	return nil
}

func (s *Server) textDocumentCompletion(
	context *glsp.Context,
	params *protocol.CompletionParams,
) (any, error) {
	doc, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	conv := doc.converter()

	completions, err := s.service.Complete(s.ctx, doc.text, conv.offset(params.Position))
	if err != nil {
		return nil, err
	}

	kind := protocol.CompletionItemKindConstant
	items := make([]protocol.CompletionItem, 0, len(completions))
	for i, c := range completions {
		// clients re-sort by label unless told otherwise
		sortText := fmt.Sprintf("%05d", i)
		item := protocol.CompletionItem{
			Label:    c.Label,
			Kind:     &kind,
			SortText: &sortText,
			TextEdit: protocol.TextEdit{
				Range:   conv.rangeOf(c.Span),
				NewText: c.NewText,
			},
			Data: c.Label,
		}
		if c.Detail != "" {
			detail := c.Detail
			item.Detail = &detail
		}
		items = append(items, item)
	}
	return protocol.CompletionList{Items: items}, nil
}

func (s *Server) completionItemResolve(
	context *glsp.Context,
	params *protocol.CompletionItem,
) (*protocol.CompletionItem, error) {
	token := params.Label
	if data, ok := params.Data.(string); ok && data != "" {
		token = data
	}

	if rule, ok := s.service.Resolve(s.ctx, token); ok {
		params.Documentation = cssMarkup(rule.CSS)
	}
	return params, nil
}

func (s *Server) textDocumentHover(
	context *glsp.Context,
	params *protocol.HoverParams,
) (*protocol.Hover, error) {
	doc, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	conv := doc.converter()

	rule, ok, err := s.service.HoverPreview(s.ctx, doc.text, conv.offset(params.Position))
	if err != nil || !ok {
		return nil, err
	}

	rng := conv.rangeOf(rule.Span)
	return &protocol.Hover{
		Contents: cssMarkup(rule.CSS),
		Range:    &rng,
	}, nil
}

func (s *Server) textDocumentColor(
	context *glsp.Context,
	params *protocol.DocumentColorParams,
) ([]protocol.ColorInformation, error) {
	doc, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	conv := doc.converter()

	decorations, err := s.service.ColorsIn(s.ctx, doc.text)
	if err != nil {
		return nil, err
	}

	out := make([]protocol.ColorInformation, 0, len(decorations))
	for _, d := range decorations {
		out = append(out, protocol.ColorInformation{
			Range: conv.rangeOf(d.Span),
			Color: protocol.Color{
				Red:   protocol.Decimal(d.Color.R),
				Green: protocol.Decimal(d.Color.G),
				Blue:  protocol.Decimal(d.Color.B),
				Alpha: protocol.Decimal(d.Color.A),
			},
		})
	}
	return out, nil
}

// textDocumentColorPresentation offers the token under the picked range
// rewritten to the picked color as an arbitrary value.
func (s *Server) textDocumentColorPresentation(
	context *glsp.Context,
	params *protocol.ColorPresentationParams,
) ([]protocol.ColorPresentation, error) {
	doc, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	token := doc.converter().spanOf(params.Range).In(doc.text)
	picked := classlens.Color{
		R: float64(params.Color.Red),
		G: float64(params.Color.Green),
		B: float64(params.Color.Blue),
		A: float64(params.Color.Alpha),
	}

	text, ok := s.service.Recolor(token, picked)
	if !ok {
		return []protocol.ColorPresentation{}, nil
	}
	return []protocol.ColorPresentation{{
		Label:    text,
		TextEdit: &protocol.TextEdit{Range: params.Range, NewText: text},
	}}, nil
}

func (s *Server) workspaceDidChangeWatchedFiles(
	context *glsp.Context,
	params *protocol.DidChangeWatchedFilesParams,
) error {
	root := s.Root()
	if root == "" {
		return nil
	}

	for _, change := range params.Changes {
		if !watch.IsConfigInput(change.URI) {
			continue
		}
		log := logging.FromContext(s.ctx)
		log.Debug("configuration input changed", logging.FieldURI, change.URI)
		go func() {
			if _, err := s.service.Manager().Reload(s.ctx, root); err != nil {
				log.Warn("configuration reload failed", logging.FieldRoot, root, logging.FieldError, err)
			}
		}()
		return nil
	}
	return nil
}

func (s *Server) document(uri protocol.DocumentUri) (*document, bool) {
	doc, err := s.docs.get(uri)
	if err != nil {
		logging.FromContext(s.ctx).Debug("request for unknown document", logging.FieldURI, uri)
		return nil, false
	}
	return doc, true
}

func cssMarkup(css string) protocol.MarkupContent {
	return protocol.MarkupContent{
		Kind:  protocol.MarkupKindMarkdown,
		Value: "```css\n" + css + "\n```",
	}
}
