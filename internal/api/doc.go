// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the document question-answering backend.
//
// The backend exposes a small REST surface under <root>/api:
//
//	GET    /documents          list indexed documents
//	GET    /collections        list collection names
//	POST   /documents/upload   multipart upload (file, collection)
//	DELETE /documents/{id}     remove a document
//	POST   /chat               ask a question in a session
//	GET    /prompts            list prompt templates
//
// Failed calls return *ClientError. When the backend sent a string "detail"
// it is kept verbatim in ClientError.Detail; UserMessage picks it over a
// caller-provided fallback.
package api
