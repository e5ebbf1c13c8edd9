// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ragdesk/internal/api"
	"github.com/jeranaias/ragdesk/internal/apitest"
	"github.com/jeranaias/ragdesk/internal/app"
	"github.com/jeranaias/ragdesk/internal/chat"
	"github.com/jeranaias/ragdesk/internal/config"
	"github.com/jeranaias/ragdesk/internal/notify"
	"github.com/jeranaias/ragdesk/internal/registry"
)

// =============================================================================
// PARSER TESTS
// =============================================================================

func TestIsCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"/help", true},
		{"/use ops", true},
		{"  /help", true},
		{"hello", false},
		{"hello /help", false},
		{"", false},
		{"/", true},
	}

	for _, tc := range tests {
		if got := IsCommand(tc.input); got != tc.want {
			t.Errorf("IsCommand(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestExtractCommandName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/help", "/help"},
		{"/use safety_manual", "/use"},
		{"  /docs  ", "/docs"},
		{"hello", ""},
	}

	for _, tc := range tests {
		if got := ExtractCommandName(tc.input); got != tc.want {
			t.Errorf("ExtractCommandName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestSplitCommandLine(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"/upload a.pdf ops", []string{"/upload", "a.pdf", "ops"}},
		{`/upload "My Manual.pdf" ops`, []string{"/upload", "My Manual.pdf", "ops"}},
		{`/upload 'it\'s.txt'`, []string{"/upload", "it's.txt"}},
		{`/prompt ""`, []string{"/prompt", ""}},
		{"  /docs   ", []string{"/docs"}},
	}

	for _, tc := range tests {
		if got := splitCommandLine(tc.input); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitCommandLine(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	p := NewParser(NewRegistry())

	res := p.Parse(`/PROMPT Chat (Default)`)
	if !res.IsCommand || res.Command == nil || res.Command.Name != "/prompt" {
		t.Fatalf("unexpected parse: %+v", res)
	}
	if res.RawArgs != "Chat (Default)" {
		t.Errorf("RawArgs = %q", res.RawArgs)
	}

	if res := p.Parse("what is this?"); res.IsCommand {
		t.Error("plain text parsed as command")
	}
	if res := p.Parse("/nope"); res.Command != nil {
		t.Error("unknown command resolved")
	}
}

func TestValidateArgs(t *testing.T) {
	r := NewRegistry()

	err := ValidateArgs(r.Get("/upload"), nil)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Arg != "file" {
		t.Errorf("expected missing file error, got %v", err)
	}

	if err := ValidateArgs(r.Get("/export"), []string{"pdf"}); err == nil {
		t.Error("expected invalid format error")
	}
	if err := ValidateArgs(r.Get("/export"), []string{"MD"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// =============================================================================
// REGISTRY TESTS
// =============================================================================

func TestRegistryAliases(t *testing.T) {
	r := NewRegistry()
	for alias, name := range map[string]string{"/q": "/quit", "/ls": "/docs", "/rm": "/delete", "/?": "/help"} {
		cmd := r.Get(alias)
		if cmd == nil || cmd.Name != name {
			t.Errorf("Get(%q) = %v, want %s", alias, cmd, name)
		}
	}
}

func TestExecute_UnknownSuggests(t *testing.T) {
	r := NewRegistry()
	res := r.Execute(&Context{}, "/coll")
	var unknown *UnknownCommandError
	require.True(t, errors.As(res.Err, &unknown))
	assert.Equal(t, "/collections", unknown.Suggestion)

	res = r.Execute(&Context{}, "hello")
	assert.True(t, errors.Is(res.Err, ErrNotCommand))
}

// =============================================================================
// HANDLER TESTS
// =============================================================================

type fixture struct {
	reg *Registry
	ctx *Context
	app *app.App
	srv *apitest.Server
	rec *notify.Recorder
}

func newFixture(t *testing.T, docs ...api.Document) *fixture {
	t.Helper()
	srv := apitest.NewServer(t)
	srv.Seed(docs...)
	cfg := config.Default()
	cfg.Backend.URL = srv.URL
	rec := &notify.Recorder{}
	a := app.New(app.Options{Config: cfg, Notices: rec})
	t.Cleanup(a.Close)
	a.Drive(a.Init())
	return &fixture{reg: NewRegistry(), ctx: &Context{App: a}, app: a, srv: srv, rec: rec}
}

func (f *fixture) run(input string) Result {
	res := f.reg.Execute(f.ctx, input)
	f.app.Drive(res.Cmd)
	return res
}

func TestUploadCommand(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "My Manual.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	res := f.run(`/upload "` + path + `" ops`)
	require.NoError(t, res.Err)

	docs := f.app.Registry.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, "My Manual.txt", docs[0].Filename)
	assert.Equal(t, "ops", docs[0].Collection)
	assert.Equal(t, []string{"ops"}, f.app.Registry.Collections())
}

func TestUploadCommand_InvalidTypeReported(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "image.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))

	res := f.run("/upload " + path)
	assert.Nil(t, res.Cmd)
	assert.Equal(t, []string{registry.MsgInvalidType}, f.rec.Messages(notify.KindError))
	assert.Zero(t, f.srv.Count(apitest.RouteUpload))
}

func TestDeleteCommand_ByFilename(t *testing.T) {
	f := newFixture(t,
		api.Document{ID: "7", Filename: "a.txt", Collection: "ops"},
		api.Document{ID: "8", Filename: "b.txt", Collection: "ops"},
	)

	f.run("/delete b.txt")

	docs := f.app.Registry.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, api.DocumentID("7"), docs[0].ID)
	assert.Equal(t, []string{registry.MsgDeleteSuccess}, f.rec.Messages(notify.KindSuccess))
}

func TestDeleteCommand_UnknownID(t *testing.T) {
	f := newFixture(t)
	f.run("/delete 99")
	assert.Equal(t, []string{registry.MsgDeleteFailed}, f.rec.Messages(notify.KindError))
}

func TestDocsCommand(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "No documents uploaded yet", f.run("/docs").Output)

	f = newFixture(t, api.Document{ID: "1", Filename: "manual.pdf", Collection: "ops", FileSize: 1536})
	out := f.run("/docs").Output
	assert.Contains(t, out, "manual.pdf")
	assert.Contains(t, out, "1.5 KB")
	assert.True(t, strings.HasSuffix(out, "1 document(s)"))
}

func TestUseCommand(t *testing.T) {
	f := newFixture(t, api.Document{Filename: "a.txt", Collection: "ops"})

	res := f.run("/use ops")
	require.NoError(t, res.Err)
	assert.Equal(t, "ops", f.app.Chat.Collection())

	res = f.run("/use missing")
	assert.Error(t, res.Err)
	assert.Equal(t, "ops", f.app.Chat.Collection())

	f.run("/use ALL")
	assert.Equal(t, chat.AllCollections, f.app.Chat.Collection())

	assert.Equal(t, "Searching: all", f.run("/use").Output)
}

func TestCollectionsCommand_MarksSelection(t *testing.T) {
	f := newFixture(t, api.Document{Filename: "a.txt", Collection: "hr"}, api.Document{Filename: "b.txt", Collection: "ops"})
	f.run("/use ops")
	assert.Equal(t, "  hr\n* ops", f.run("/collections").Output)
}

func TestClearCommand(t *testing.T) {
	f := newFixture(t, api.Document{Filename: "a.txt", Collection: "ops"})
	cmd, err := f.app.Ask("hi")
	require.NoError(t, err)
	f.app.Drive(cmd)
	before := f.app.Chat.SessionID()

	f.run("/clear")

	assert.Empty(t, f.app.Chat.Messages())
	assert.NotEqual(t, before, f.app.Chat.SessionID())
}

func TestPromptCommands(t *testing.T) {
	f := newFixture(t)

	out := f.run("/prompts").Output
	for _, p := range apitest.DefaultPrompts {
		assert.Contains(t, out, p.Name)
	}

	name := apitest.DefaultPrompts[1].Name
	res := f.run("/prompt " + name)
	require.NoError(t, res.Err)
	assert.Equal(t, apitest.DefaultPrompts[1].Content, f.app.Chat.Query())

	assert.Error(t, f.run("/prompt nothing here").Err)
}

func TestRefreshCommand(t *testing.T) {
	f := newFixture(t)
	f.srv.Seed(api.Document{Filename: "late.txt", Collection: "ops"})
	f.srv.SetPrompts(api.PromptTemplate{Name: "New", Content: "x"})

	f.run("/refresh")

	assert.Len(t, f.app.Registry.Documents(), 1)
	require.Len(t, f.app.Prompts.Prompts(), 1)
	assert.Equal(t, "New", f.app.Prompts.Prompts()[0].Name)
}

func TestExportCommand(t *testing.T) {
	f := newFixture(t, api.Document{Filename: "a.txt", Collection: "ops"})
	path := filepath.Join(t.TempDir(), "chat.txt")

	assert.Error(t, f.run("/export txt "+path).Err, "nothing to export yet")

	cmd, err := f.app.Ask("hi")
	require.NoError(t, err)
	f.app.Drive(cmd)

	res := f.run("/export txt " + path)
	require.NoError(t, res.Err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Answer to: hi")
}

func TestHelpAndQuit(t *testing.T) {
	f := newFixture(t)

	out := f.run("/help").Output
	for _, heading := range []string{"Chat:", "Documents:", "Navigation:"} {
		assert.Contains(t, out, heading)
	}
	assert.Contains(t, f.run("/help use").Output, "/use [collection|all]")
	assert.True(t, f.run("/q").Quit)
}

// =============================================================================
// COMPLETION TESTS
// =============================================================================

func TestCompleteCommands(t *testing.T) {
	c := NewCompleter(NewRegistry())

	got := c.Complete("/co")
	require.Len(t, got, 1)
	assert.Equal(t, "/collections", got[0].Value)

	assert.Nil(t, c.Complete("plain text"))
}

func TestCompleteDynamicArgs(t *testing.T) {
	f := newFixture(t, api.Document{ID: "doc-1", Filename: "a.txt", Collection: "ops"})
	c := NewAppCompleter(f.reg, f.app)

	var values []string
	for _, comp := range c.Complete("/use ") {
		values = append(values, comp.Value)
	}
	assert.ElementsMatch(t, []string{"all", "ops"}, values)

	assert.Equal(t, []string{"/delete doc-1"}, c.Lines("/delete d"))
	assert.Equal(t, []string{"/export json"}, c.Lines("/export js"))
}

func TestCompleteFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"report.pdf", "readme.md", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "reviews"), 0o755))

	c := NewCompleter(NewRegistry())
	var values []string
	for _, comp := range c.Complete("/upload " + filepath.Join(dir, "re")) {
		values = append(values, comp.Value)
	}
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "report.pdf"),
		filepath.Join(dir, "reviews") + string(os.PathSeparator),
	}, values, "unsupported readme.md is not offered")
}
