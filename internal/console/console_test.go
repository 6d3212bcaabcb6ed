package console

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/park285/chessboard/internal/adapter/chesspresenter"
	corechess "github.com/park285/chessboard/internal/chess"
	"github.com/park285/chessboard/internal/httpapi"
	"github.com/park285/chessboard/internal/msgcat"
	svc "github.com/park285/chessboard/internal/service/chess"
	"github.com/park285/chessboard/pkg/chessdto"
)

func newRemote(t *testing.T) *httpapi.Client {
	t.Helper()
	service, err := svc.NewService(svc.NewMemoryStore(0), svc.NewPNGBoardRenderer(24), svc.Config{}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	service.SetMoveSelector(corechess.FirstSelector)

	ln := fasthttputil.NewInmemoryListener()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- httpapi.NewServer(service, nil).Serve(ctx, ln) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Errorf("server did not shut down")
		}
	})
	return httpapi.NewClient("http://chess.test",
		httpapi.WithDialer(func(string) (net.Conn, error) { return ln.Dial() }),
		httpapi.WithRetry(1),
	)
}

func newConsole(t *testing.T, remote Remote) (*Console, *bytes.Buffer) {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat: %v", err)
	}
	var out bytes.Buffer
	return New(remote, chesspresenter.NewFormatter(cat), &out, nil), &out
}

func TestConsolePlaysRemoteSession(t *testing.T) {
	ctx := context.Background()
	remote := newRemote(t)
	con, out := newConsole(t, remote)

	if err := con.Start(ctx, chessdto.StartSessionRequest{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !strings.Contains(out.String(), "started. White plays first.") {
		t.Fatalf("start banner:\n%s", out.String())
	}
	id := con.SessionID()

	input := strings.Join([]string{"e2e4", "z9", "promote", "undo", "undo", "end"}, "\n")
	if err := con.Run(ctx, strings.NewReader(input)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"  1. e4",
		"That is not a square on the board.",
		"usage: promote <queen|rook|bishop|knight>",
		"Took back 1 move(s).",
		"There is nothing to take back.",
		"closed.",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
	if _, err := remote.Status(ctx, id); err == nil {
		t.Fatalf("end should close the remote session")
	}
}

func TestConsoleAutoReplyAndAttach(t *testing.T) {
	ctx := context.Background()
	remote := newRemote(t)
	auto := true
	st, err := remote.Start(ctx, chessdto.StartSessionRequest{AutoReply: &auto, PlayAs: "black"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	con, out := newConsole(t, remote)
	if err := con.Attach(ctx, st.SessionID); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if !strings.Contains(out.String(), "Black to move") {
		t.Fatalf("attach view:\n%s", out.String())
	}

	out.Reset()
	if err := con.Exec(ctx, "e7 e5"); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if !strings.Contains(out.String(), "Opponent played") {
		t.Fatalf("expected the opponent reply:\n%s", out.String())
	}
	if err := con.Exec(ctx, "promote Knight"); err != nil {
		t.Fatalf("promote: %v", err)
	}
	if !strings.Contains(out.String(), "Promotion: Knight") {
		t.Fatalf("promotion message:\n%s", out.String())
	}
}

func TestConsoleRequiresSession(t *testing.T) {
	con, _ := newConsole(t, nil)
	if err := con.Run(context.Background(), strings.NewReader("e2")); err == nil {
		t.Fatalf("expected error without a session")
	}
}
