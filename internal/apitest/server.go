// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apitest provides an in-memory backend for tests.
//
// Server implements the same REST surface as the real document backend on
// top of a gin engine, records every request it receives and can be told to
// fail or hang on a given route.
//
// Example:
//
//	srv := apitest.NewServer(t)
//	srv.Seed(api.Document{Filename: "manual.pdf", Collection: "ops"})
//	srv.Fail("POST /api/chat", apitest.Failure{Status: 500, Detail: "LLM offline"})
//	client := api.NewClient(srv.URL)
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jeranaias/ragdesk/internal/api"
)

// Route keys accepted by Fail and Count.
const (
	RouteDocuments   = "GET /api/documents"
	RouteCollections = "GET /api/collections"
	RouteUpload      = "POST /api/documents/upload"
	RouteDelete      = "DELETE /api/documents/:id"
	RouteChat        = "POST /api/chat"
	RoutePrompts     = "GET /api/prompts"
)

// DefaultPrompts is what GET /prompts returns until SetPrompts is called.
var DefaultPrompts = []api.PromptTemplate{
	{Name: "Chat (Default)", Content: ""},
	{Name: "Risk Register", Content: "List every risk mentioned in the documents with its owner."},
}

// Failure describes how a route misbehaves.
type Failure struct {
	// Status is the HTTP status to answer with (default 500).
	Status int
	// Detail, when set, is sent as {"detail": Detail}.
	Detail string
	// Body, when set, is sent raw instead of a detail envelope.
	Body string
	// Hang blocks the request until the client gives up.
	Hang bool
}

// Request is one recorded call.
type Request struct {
	Route    string // "METHOD /pattern", e.g. "DELETE /api/documents/:id"
	Path     string // concrete path
	Header   http.Header
	JSON     map[string]interface{}
	Form     map[string]string
	FileName string
	File     []byte
}

// Server is a fake backend.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	docs     []api.Document
	nextID   int
	chunks   int
	answer   *api.ChatResponse
	prompts  []api.PromptTemplate
	failures map[string]Failure
	requests []Request
}

// NewServer starts a fake backend that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		nextID:   1,
		prompts:  DefaultPrompts,
		failures: make(map[string]Failure),
	}

	r := gin.New()
	// Ids may contain escaped slashes.
	r.UseRawPath = true
	r.UnescapePathValues = true
	r.Use(s.record, s.inject)
	v := r.Group("/api")
	{
		v.GET("/documents", s.listDocuments)
		v.GET("/collections", s.listCollections)
		v.POST("/documents/upload", s.upload)
		v.DELETE("/documents/:id", s.deleteDocument)
		v.POST("/chat", s.chat)
		v.GET("/prompts", s.listPrompts)
	}

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// =============================================================================
// TEST CONTROLS
// =============================================================================

// Seed adds documents. Missing ids are assigned.
func (s *Server) Seed(docs ...api.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		if d.ID == "" {
			d.ID = s.allocID()
		}
		s.docs = append(s.docs, d)
	}
}

// Documents returns the current documents.
func (s *Server) Documents() []api.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.Document(nil), s.docs...)
}

// SetChunks fixes the chunk count reported by uploads (default: one per 512 bytes).
func (s *Server) SetChunks(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = n
}

// SetAnswer fixes the chat answer (default echoes the query).
func (s *Server) SetAnswer(answer string, sources ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sources == nil {
		sources = []string{}
	}
	s.answer = &api.ChatResponse{Answer: answer, Sources: sources}
}

// SetPrompts replaces the prompt list.
func (s *Server) SetPrompts(prompts ...api.PromptTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = prompts
}

// Fail makes route misbehave until Recover is called.
func (s *Server) Fail(route string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = f
}

// Recover clears an injected failure.
func (s *Server) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

// Requests returns every recorded request in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsFor returns the recorded requests for one route.
func (s *Server) RequestsFor(route string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Route == route {
			out = append(out, r)
		}
	}
	return out
}

// Count returns how many times route was called.
func (s *Server) Count(route string) int {
	return len(s.RequestsFor(route))
}

// Reset forgets recorded requests.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

func (s *Server) allocID() api.DocumentID {
	id := api.DocumentID("doc-" + strconv.Itoa(s.nextID))
	s.nextID++
	return id
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

func (s *Server) record(c *gin.Context) {
	raw, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	rec := Request{
		Route:  c.Request.Method + " " + c.FullPath(),
		Path:   c.Request.URL.Path,
		Header: c.Request.Header.Clone(),
	}

	mediaType, params, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
	switch {
	case mediaType == "application/json":
		_ = json.Unmarshal(raw, &rec.JSON)
	case strings.HasPrefix(mediaType, "multipart/"):
		rec.Form = map[string]string{}
		mr := multipart.NewReader(bytes.NewReader(raw), params["boundary"])
		for {
			part, err := mr.NextPart()
			if err != nil {
				break
			}
			data, _ := io.ReadAll(part)
			if part.FileName() != "" {
				rec.FileName = part.FileName()
				rec.File = data
				continue
			}
			rec.Form[part.FormName()] = string(data)
		}
	}

	s.mu.Lock()
	s.requests = append(s.requests, rec)
	s.mu.Unlock()
	c.Next()
}

func (s *Server) inject(c *gin.Context) {
	s.mu.Lock()
	f, ok := s.failures[c.Request.Method+" "+c.FullPath()]
	s.mu.Unlock()
	if !ok {
		c.Next()
		return
	}

	if f.Hang {
		<-c.Request.Context().Done()
		c.Abort()
		return
	}
	status := f.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	switch {
	case f.Body != "":
		c.Data(status, "application/json", []byte(f.Body))
	case f.Detail != "":
		c.JSON(status, gin.H{"detail": f.Detail})
	default:
		c.Status(status)
	}
	c.Abort()
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) listDocuments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"documents": s.Documents()})
}

func (s *Server) listCollections(c *gin.Context) {
	seen := map[string]bool{}
	names := []string{}
	for _, d := range s.Documents() {
		if !seen[d.Collection] {
			seen[d.Collection] = true
			names = append(names, d.Collection)
		}
	}
	sort.Strings(names)
	c.JSON(http.StatusOK, gin.H{"collections": names})
}

func (s *Server) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No file uploaded"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	defer f.Close()
	content, _ := io.ReadAll(f)

	s.mu.Lock()
	doc := api.Document{
		ID:         s.allocID(),
		Filename:   fh.Filename,
		Collection: c.PostForm("collection"),
		FileSize:   int64(len(content)),
	}
	s.docs = append(s.docs, doc)
	chunks := s.chunks
	if chunks == 0 {
		chunks = len(content)/512 + 1
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, api.UploadResponse{Filename: doc.Filename, Chunks: chunks})
}

func (s *Server) deleteDocument(c *gin.Context) {
	id := api.DocumentID(c.Param("id"))

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.docs {
		if d.ID == id {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "Document not found"})
}

func (s *Server) chat(c *gin.Context) {
	var req api.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	answer := s.answer
	s.mu.Unlock()
	if answer == nil {
		answer = &api.ChatResponse{Answer: "Answer to: " + req.Query, Sources: []string{}}
	}
	c.JSON(http.StatusOK, answer)
}

func (s *Server) listPrompts(c *gin.Context) {
	s.mu.Lock()
	prompts := s.prompts
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"prompts": prompts})
}
