// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package registry

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/ragdesk/internal/api"
	"github.com/jeranaias/ragdesk/internal/notify"
)

// DefaultCollection is used when the collection input is left blank.
const DefaultCollection = "default"

// User-visible notices.
const (
	MsgFetchFailed   = "Failed to fetch documents"
	MsgSelectFile    = "Please select a file"
	MsgInvalidType   = "Only PDF, DOCX, and TXT files are supported"
	MsgUploadFailed  = "Failed to upload document"
	MsgDeleteFailed  = "Failed to delete document"
	MsgDeleteSuccess = "Document deleted successfully"
)

// Backend is the subset of the API client the registry needs.
type Backend interface {
	ListDocuments(ctx context.Context) ([]api.Document, error)
	ListCollections(ctx context.Context) ([]string, error)
	UploadDocument(ctx context.Context, filename string, content io.Reader, collection string) (*api.UploadResponse, error)
	DeleteDocument(ctx context.Context, id api.DocumentID) error
}

// =============================================================================
// MESSAGES
// =============================================================================

// DocumentsLoadedMsg completes LoadDocuments.
type DocumentsLoadedMsg struct {
	Documents []api.Document
	Err       error
}

// CollectionsLoadedMsg completes LoadCollections.
type CollectionsLoadedMsg struct {
	Collections []string
	Err         error
}

// UploadFinishedMsg completes an upload.
type UploadFinishedMsg struct {
	Filename   string
	Collection string
	Response   *api.UploadResponse
	Err        error

	// selected is true when the upload consumed the UI's selected candidate.
	selected bool
}

// DeleteFinishedMsg completes Delete.
type DeleteFinishedMsg struct {
	ID  api.DocumentID
	Err error
}

// =============================================================================
// CHANGE SIGNAL
// =============================================================================

// Signal fans a registry mutation out to every subscribed refresh.
type Signal struct {
	subscribers []func() tea.Cmd
}

// Subscribe registers f to run on every Emit.
func (s *Signal) Subscribe(f func() tea.Cmd) {
	s.subscribers = append(s.subscribers, f)
}

// Emit runs every subscriber once and batches their commands.
func (s *Signal) Emit() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(s.subscribers))
	for _, f := range s.subscribers {
		cmds = append(cmds, f())
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Candidate is a validated file waiting to be uploaded.
type Candidate struct {
	Path string
	Name string
	Size int64
}

// Config holds the registry's collaborators.
type Config struct {
	Backend Backend
	Notices notify.Sink
	Logger  *zap.Logger

	// Context bounds every request; cancel it to abandon in-flight calls.
	Context context.Context

	// MaxFileBytes rejects larger files at selection (0 = unlimited).
	MaxFileBytes int64
}

// Controller owns the cached document and collection lists.
//
// Operations that reach the backend apply their synchronous state change and
// return a tea.Cmd; the result comes back through Update. Every successful
// mutation emits Changed, whose subscribers refetch documents and collections.
type Controller struct {
	backend Backend
	notices notify.Sink
	logger  *zap.Logger
	ctx     context.Context
	maxSize int64

	documents   []api.Document
	collections []string
	loading     int
	uploading   int
	deleting    map[api.DocumentID]bool

	candidate       *Candidate
	collectionInput string

	// Changed is emitted after every successful upload or delete.
	Changed Signal
}

// NewController creates a registry controller. Changed is pre-wired to
// LoadDocuments and LoadCollections.
func NewController(cfg Config) *Controller {
	if cfg.Notices == nil {
		cfg.Notices = notify.Discard
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	c := &Controller{
		backend:         cfg.Backend,
		notices:         cfg.Notices,
		logger:          cfg.Logger.Named("registry"),
		ctx:             cfg.Context,
		maxSize:         cfg.MaxFileBytes,
		documents:       []api.Document{},
		collections:     []string{},
		deleting:        make(map[api.DocumentID]bool),
		collectionInput: DefaultCollection,
	}
	c.Changed.Subscribe(c.LoadDocuments)
	c.Changed.Subscribe(c.LoadCollections)
	return c
}

// =============================================================================
// QUERIES
// =============================================================================

// Documents returns a copy of the cached documents.
func (c *Controller) Documents() []api.Document {
	return append([]api.Document(nil), c.documents...)
}

// Collections returns a copy of the cached collection names.
func (c *Controller) Collections() []string {
	return append([]string(nil), c.collections...)
}

// HasDocuments reports whether at least one document is cached.
func (c *Controller) HasDocuments() bool {
	return len(c.documents) > 0
}

// Document looks a cached document up by id.
func (c *Controller) Document(id api.DocumentID) (api.Document, bool) {
	for _, d := range c.documents {
		if d.ID == id {
			return d, true
		}
	}
	return api.Document{}, false
}

// Loading is true while any document list fetch is in flight.
func (c *Controller) Loading() bool { return c.loading > 0 }

// Uploading is true while any upload is in flight.
func (c *Controller) Uploading() bool { return c.uploading > 0 }

// Deleting reports whether a delete of id is in flight.
func (c *Controller) Deleting(id api.DocumentID) bool { return c.deleting[id] }

// Candidate returns the selected file, or nil.
func (c *Controller) Candidate() *Candidate { return c.candidate }

// CollectionInput returns the collection name typed for the next upload.
func (c *Controller) CollectionInput() string { return c.collectionInput }

// SetCollectionInput sets the collection name for the next upload.
func (c *Controller) SetCollectionInput(name string) { c.collectionInput = name }

// =============================================================================
// FETCHES
// =============================================================================

// LoadDocuments fetches the document list.
func (c *Controller) LoadDocuments() tea.Cmd {
	c.loading++
	ctx := c.ctx
	return func() tea.Msg {
		docs, err := c.backend.ListDocuments(ctx)
		return DocumentsLoadedMsg{Documents: docs, Err: err}
	}
}

// LoadCollections fetches the collection names.
func (c *Controller) LoadCollections() tea.Cmd {
	ctx := c.ctx
	return func() tea.Msg {
		names, err := c.backend.ListCollections(ctx)
		return CollectionsLoadedMsg{Collections: names, Err: err}
	}
}

// Refresh fetches both lists.
func (c *Controller) Refresh() tea.Cmd {
	return tea.Batch(c.LoadDocuments(), c.LoadCollections())
}

// =============================================================================
// MUTATIONS
// =============================================================================

// SelectFile validates path and makes it the upload candidate. An invalid
// selection leaves the previous candidate in place.
func (c *Controller) SelectFile(path string) error {
	cand, err := c.validate(path)
	if err != nil {
		return err
	}
	c.candidate = cand
	return nil
}

// ClearSelection drops the upload candidate.
func (c *Controller) ClearSelection() {
	c.candidate = nil
}

// Upload sends the selected candidate to the collection typed in the
// collection input. Without a candidate it only reports MsgSelectFile.
func (c *Controller) Upload() tea.Cmd {
	if c.candidate == nil {
		notify.Error(c.notices, MsgSelectFile)
		return nil
	}
	return c.upload(*c.candidate, c.collectionInput, true)
}

// UploadFile validates and uploads path without touching the UI selection.
func (c *Controller) UploadFile(path, collection string) (tea.Cmd, error) {
	cand, err := c.validate(path)
	if err != nil {
		return nil, err
	}
	return c.upload(*cand, collection, false), nil
}

// Delete removes a document. The cache is only updated by the refetch that
// follows a successful delete.
func (c *Controller) Delete(id api.DocumentID) tea.Cmd {
	c.deleting[id] = true
	ctx := c.ctx
	c.logger.Debug("deleting document", zap.String("id", id.String()))
	return func() tea.Msg {
		return DeleteFinishedMsg{ID: id, Err: c.backend.DeleteDocument(ctx, id)}
	}
}

func (c *Controller) validate(path string) (*Candidate, error) {
	if strings.TrimSpace(path) == "" {
		notify.Error(c.notices, MsgSelectFile)
		return nil, ErrNoFile
	}
	if err := ValidateFile(path); err != nil {
		notify.Error(c.notices, MsgInvalidType)
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		notify.Error(c.notices, fmt.Sprintf("Cannot read %s", filepath.Base(path)))
		return nil, fmt.Errorf("select file: %w", err)
	}
	if info.IsDir() {
		notify.Error(c.notices, MsgSelectFile)
		return nil, fmt.Errorf("select file: %s is a directory", path)
	}
	if c.maxSize > 0 && info.Size() > c.maxSize {
		notify.Error(c.notices, fmt.Sprintf("%s is larger than %d MB", filepath.Base(path), c.maxSize/(1024*1024)))
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrFileTooLarge)
	}
	return &Candidate{Path: path, Name: filepath.Base(path), Size: info.Size()}, nil
}

func (c *Controller) upload(cand Candidate, collection string, selected bool) tea.Cmd {
	if strings.TrimSpace(collection) == "" {
		collection = DefaultCollection
	}
	c.uploading++
	ctx := c.ctx
	c.logger.Debug("uploading document", zap.String("file", cand.Name), zap.String("collection", collection))
	return func() tea.Msg {
		msg := UploadFinishedMsg{Filename: cand.Name, Collection: collection, selected: selected}
		f, err := os.Open(cand.Path)
		if err != nil {
			msg.Err = err
			return msg
		}
		defer f.Close()
		msg.Response, msg.Err = c.backend.UploadDocument(ctx, cand.Name, f, collection)
		return msg
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update applies a completed registry operation and returns any follow-up
// command. Messages owned by other controllers are ignored.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case DocumentsLoadedMsg:
		if c.loading > 0 {
			c.loading--
		}
		if msg.Err != nil {
			c.logger.Warn("list documents failed", zap.Error(msg.Err))
			if !api.IsCanceled(msg.Err) {
				notify.Error(c.notices, MsgFetchFailed)
			}
			return nil
		}
		c.documents = msg.Documents
		if c.documents == nil {
			c.documents = []api.Document{}
		}
		c.logger.Debug("documents loaded", zap.Int("count", len(c.documents)))

	case CollectionsLoadedMsg:
		if msg.Err != nil {
			// Collections only feed the filter; keep the previous list quietly.
			c.logger.Debug("list collections failed", zap.Error(msg.Err))
			return nil
		}
		c.collections = msg.Collections
		if c.collections == nil {
			c.collections = []string{}
		}

	case UploadFinishedMsg:
		if c.uploading > 0 {
			c.uploading--
		}
		if msg.Err != nil {
			c.logger.Warn("upload failed", zap.String("file", msg.Filename), zap.Error(msg.Err))
			if !api.IsCanceled(msg.Err) {
				notify.Error(c.notices, api.UserMessage(msg.Err, MsgUploadFailed))
			}
			return nil
		}
		notify.Success(c.notices, fmt.Sprintf("%s uploaded successfully! (%d chunks indexed)",
			msg.Response.Filename, msg.Response.Chunks))
		if msg.selected {
			c.candidate = nil
			c.collectionInput = DefaultCollection
		}
		return c.Changed.Emit()

	case DeleteFinishedMsg:
		delete(c.deleting, msg.ID)
		if msg.Err != nil {
			c.logger.Warn("delete failed", zap.String("id", msg.ID.String()), zap.Error(msg.Err))
			if !api.IsCanceled(msg.Err) {
				notify.Error(c.notices, MsgDeleteFailed)
			}
			return nil
		}
		notify.Success(c.notices, MsgDeleteSuccess)
		return c.Changed.Emit()
	}
	return nil
}
