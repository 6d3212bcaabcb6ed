// Package console plays a remote chess-board session from a line-oriented
// terminal: each input line is a square, a move or a command.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/park285/chessboard/internal/adapter/chesspresenter"
	"github.com/park285/chessboard/internal/httpapi"
	"github.com/park285/chessboard/pkg/chessdto"
)

// Remote is the part of httpapi.Client the console drives.
type Remote interface {
	Start(ctx context.Context, req chessdto.StartSessionRequest) (*chessdto.SessionState, error)
	Status(ctx context.Context, id string) (*chessdto.SessionState, error)
	Tap(ctx context.Context, id, square string) (*chessdto.SessionState, error)
	Flip(ctx context.Context, id string) (*chessdto.SessionState, error)
	Undo(ctx context.Context, id string) (*chessdto.SessionState, error)
	Reset(ctx context.Context, id string) (*chessdto.SessionState, error)
	Random(ctx context.Context, id string) (*chessdto.SessionState, error)
	SetPromotion(ctx context.Context, id, piece string) (*chessdto.SessionState, error)
	End(ctx context.Context, id string) error
	BoardPNG(ctx context.Context, id string) ([]byte, error)
}

var (
	errQuit  = errors.New("quit")
	errUsage = errors.New("usage")
)

type Console struct {
	remote Remote
	fmt    *chesspresenter.Formatter
	out    io.Writer
	logger *zap.Logger

	state *chessdto.SessionState
}

func New(remote Remote, f *chesspresenter.Formatter, out io.Writer, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{remote: remote, fmt: f, out: out, logger: logger}
}

// Start opens a new session on the server.
func (c *Console) Start(ctx context.Context, req chessdto.StartSessionRequest) error {
	st, err := c.remote.Start(ctx, req)
	if err != nil {
		return err
	}
	c.state = st
	c.logger.Info("remote_session_start", zap.String("session_id", st.SessionID), zap.String("label", st.Label))
	c.println(c.fmt.Start(st))
	c.show(st)
	return nil
}

// Attach resumes an existing session by id.
func (c *Console) Attach(ctx context.Context, id string) error {
	st, err := c.remote.Status(ctx, id)
	if err != nil {
		return err
	}
	c.state = st
	c.show(st)
	return nil
}

func (c *Console) SessionID() string {
	if c.state == nil {
		return ""
	}
	return c.state.SessionID
}

// Run reads commands until EOF, quit or end. Server-side refusals are
// printed and the loop continues; transport failures stop it.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	if c.state == nil {
		return errors.New("no session: call Start or Attach first")
	}
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := c.Exec(ctx, sc.Text())
		switch {
		case err == nil:
		case errors.Is(err, errQuit):
			return nil
		default:
			var apiErr *httpapi.APIError
			switch {
			case errors.As(err, &apiErr):
				c.println(c.fmt.Error(apiErr.DomainError))
			case errors.Is(err, errUsage):
				c.println(err.Error())
			default:
				return err
			}
		}
	}
	return sc.Err()
}

// Exec runs one input line.
func (c *Console) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	id := c.state.SessionID
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		c.println(c.fmt.Help())
		c.println("commands: <square>, <from><to>, flip, undo, reset, random, promote <piece>, png <file>, status, end, quit")
		return nil
	case "end":
		if err := c.remote.End(ctx, id); err != nil {
			return err
		}
		c.println(c.fmt.Ended(c.state.Label))
		return errQuit
	case "status", "board":
		return c.apply(c.remote.Status(ctx, id))
	case "flip":
		return c.apply(c.remote.Flip(ctx, id))
	case "reset":
		return c.apply(c.remote.Reset(ctx, id))
	case "random":
		return c.apply(c.remote.Random(ctx, id))
	case "undo":
		before := c.state.MoveCount
		st, err := c.remote.Undo(ctx, id)
		if err != nil {
			return err
		}
		c.println(c.fmt.Undo(before - st.MoveCount))
		return c.apply(st, nil)
	case "promote":
		if len(args) != 1 {
			return fmt.Errorf("%w: promote <queen|rook|bishop|knight>", errUsage)
		}
		st, err := c.remote.SetPromotion(ctx, id, args[0])
		if err != nil {
			return err
		}
		c.state = st
		c.println(c.fmt.Promotion(st.Promotion))
		return nil
	case "png":
		if len(args) != 1 {
			return fmt.Errorf("%w: png <file>", errUsage)
		}
		img, err := c.remote.BoardPNG(ctx, id)
		if err != nil {
			return err
		}
		return os.WriteFile(args[0], img, 0o644)
	}

	// e2, "e2 e4" and e2e4 all become taps
	var squares []string
	for _, f := range fields {
		f = strings.ToLower(f)
		if len(f) == 4 {
			squares = append(squares, f[:2], f[2:])
		} else {
			squares = append(squares, f)
		}
	}
	for _, sq := range squares {
		st, err := c.remote.Tap(ctx, id, sq)
		if err != nil {
			return err
		}
		c.state = st
	}
	c.show(c.state)
	return nil
}

func (c *Console) apply(st *chessdto.SessionState, err error) error {
	if err != nil {
		return err
	}
	c.state = st
	c.show(st)
	return nil
}

func (c *Console) show(st *chessdto.SessionState) {
	c.println(c.fmt.Text(st))
}

func (c *Console) println(s string) {
	if s == "" {
		return
	}
	fmt.Fprintln(c.out, s)
}
