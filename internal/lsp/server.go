// Package lsp serves classlens over the Language Server Protocol: completion,
// hover previews and color swatches for utility tokens in any document.
package lsp

import (
	"context"
	"sync"
	"time"

	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/yacobolo/classlens"
	"github.com/yacobolo/classlens/internal/logging"
	"github.com/yacobolo/classlens/internal/watch"
)

// Name is the server name reported to clients.
const Name = "classlens"

// Options configures a Server.
type Options struct {
	Version    string        // reported in serverInfo
	Watch      bool          // reload when configuration inputs change on disk
	WatchDelay time.Duration // debounce delay, watch.DefaultDelay when zero
	Debug      bool          // log protocol traffic through commonlog

	// FallbackRoot is used when the client opens no workspace.
	FallbackRoot string
}

// Server adapts a classlens.Service to LSP requests.
type Server struct {
	service *classlens.Service
	opts    Options
	docs    *documentStore
	handler protocol.Handler

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	started bool
	root    string
	watcher *watch.Watcher
	ready   chan struct{} // closed when the initial reload finished
}

// NewServer returns a Server answering requests with svc. ctx carries the
// logger and bounds background reloads.
func NewServer(ctx context.Context, svc *classlens.Service, opts Options) *Server {
	ctx, cancel := context.WithCancel(ctx)
	s := &Server{
		service: svc,
		opts:    opts,
		docs:    newDocumentStore(),
		ctx:     ctx,
		cancel:  cancel,
		ready:   make(chan struct{}),
	}
	s.handler = protocol.Handler{
		Initialize:                     s.initialize,
		Initialized:                    s.initialized,
		Shutdown:                       s.shutdown,
		SetTrace:                       s.setTrace,
		TextDocumentDidOpen:            s.textDocumentDidOpen,
		TextDocumentDidChange:          s.textDocumentDidChange,
		TextDocumentDidClose:           s.textDocumentDidClose,
		TextDocumentCompletion:         s.textDocumentCompletion,
		CompletionItemResolve:          s.completionItemResolve,
		TextDocumentHover:              s.textDocumentHover,
		TextDocumentColor:              s.textDocumentColor,
		TextDocumentColorPresentation:  s.textDocumentColorPresentation,
		WorkspaceDidChangeWatchedFiles: s.workspaceDidChangeWatchedFiles,
	}
	return s
}

// RunStdio serves the client on stdin and stdout until it disconnects.
func (s *Server) RunStdio() error {
	defer s.Close()
	return server.NewServer(&s.handler, Name, s.opts.Debug).RunStdio()
}

// Root returns the workspace root received in initialize.
func (s *Server) Root() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// Close stops background work.
func (s *Server) Close() error {
	s.cancel()

	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()

	if w != nil {
		return w.Close()
	}
	return nil
}

// loadWorkspace reloads the configuration of root in the background and,
// when watching is enabled, starts the watcher on the discovered sources.
// The watcher starts even when the reload fails.
func (s *Server) loadWorkspace(root string) {
	log := logging.FromContext(s.ctx)
	manager := s.service.Manager()

	go func() {
		defer close(s.ready)

		var sources []string
		res := <-manager.ReloadAsync(s.ctx, root)
		if res.Err != nil {
			log.Warn("workspace configuration not loaded, using defaults",
				logging.FieldRoot, root, logging.FieldError, res.Err)
		} else {
			sources = res.Snapshot.Config.Sources
			log.Info("workspace configuration loaded",
				logging.FieldRoot, root,
				logging.FieldVersion, res.Snapshot.Version,
				logging.FieldState, res.Snapshot.State,
				logging.FieldSources, len(sources))
		}

		// A broken configuration is still watched: the root directory is
		// always watched, so fixing the file triggers the next reload.
		if s.opts.Watch {
			s.startWatcher(root, sources)
		}
	}()
}

func (s *Server) startWatcher(root string, sources []string) {
	log := logging.FromContext(s.ctx)

	opts := []watch.Option{}
	if s.opts.WatchDelay > 0 {
		opts = append(opts, watch.WithDelay(s.opts.WatchDelay))
	}
	w, err := watch.New(root, s.service.Manager(), opts...)
	if err != nil {
		log.Warn("configuration watcher not started", logging.FieldRoot, root, logging.FieldError, err)
		return
	}
	if err := w.Start(s.ctx, sources); err != nil {
		log.Warn("configuration watcher not started", logging.FieldRoot, root, logging.FieldError, err)
		_ = w.Close()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		_ = w.Close()
		return
	}
	s.watcher = w
}
