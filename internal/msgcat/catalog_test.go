package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedDefaults(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("status.checkmate", map[string]string{"Winner": "White"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "Checkmate • White wins" {
		t.Fatalf("got %q", got)
	}
	if !c.Has("errors.session_not_found") {
		t.Fatalf("missing error message")
	}
}

func TestMissingKeyAndField(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Render("nope.nothing", nil); err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if _, err := c.Render("status.to_move", map[string]string{}); err == nil {
		t.Fatalf("expected error for missing field")
	}
	if got := c.RenderOr("nope.nothing", nil, "fallback"); got != "fallback" {
		t.Fatalf("RenderOr: %q", got)
	}
	var nilCat *Catalog
	if got := nilCat.RenderOr("status.to_move", nil, "x"); got != "x" {
		t.Fatalf("nil catalog: %q", got)
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.yaml", "status:\n  stalemate: \"Pat\"\n")
	write(t, dir, "notes.txt", "ignored")

	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got, _ := c.Render("status.stalemate", nil); got != "Pat" {
		t.Fatalf("override: %q", got)
	}
	if got, _ := c.Render("status.fifty_move", nil); got != "Draw" {
		t.Fatalf("default kept: %q", got)
	}
}

func TestOverrideDirRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.yaml", "status:\n  stalemate: \"A\"\n")
	write(t, dir, "b.yml", "status:\n  stalemate: \"B\"\n")
	_, err := New(dir)
	if err == nil || !strings.Contains(err.Error(), "duplicate override key") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestOverrideDirRejectsNonStrings(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.yaml", "status:\n  stalemate: 3\n")
	if _, err := New(dir); err == nil {
		t.Fatalf("expected error for non-string leaf")
	}
}

func write(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
