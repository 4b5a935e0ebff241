package library

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
)

// Messages shown by the positions screen.
const (
	MsgPositionCreated    = "Position created successfully!"
	MsgPositionUpdated    = "Position updated successfully!"
	MsgPositionDeleted    = "Position deleted successfully!"
	MsgPositionFetchError = "Failed to fetch positions"
	MsgConnectError       = "Error connecting to server"
)

// PositionsScreen lists positions and forwards create, update and delete
// requests. The listing is never patched locally: every successful write is
// followed by a full re-fetch, and a failed call leaves the last listing in
// place.
type PositionsScreen struct {
	client *Client
	logger *slog.Logger

	positions snapshot[[]Position]

	mu      sync.Mutex
	notice  string
	problem string
}

func NewPositionsScreen(client *Client) *PositionsScreen {
	return &PositionsScreen{client: client, logger: client.logger}
}

// Open guards the screen on the stored token and loads the listing.
func (p *PositionsScreen) Open(ctx context.Context) error {
	if _, ok := p.client.tokens.Get(); !ok {
		p.client.nav.Navigate(RouteLogin)
		return ErrUnauthenticated
	}
	return p.Refresh(ctx)
}

// Refresh re-fetches the full listing.
func (p *PositionsScreen) Refresh(ctx context.Context) error {
	ctx, gen := p.positions.begin(ctx)
	list, err := p.client.Positions(ctx)
	if err == nil {
		if !p.positions.commit(gen, list, SourceRemote) {
			return ErrSuperseded
		}
		p.setProblem("")
		return nil
	}

	if !p.positions.finish(gen) {
		return ErrSuperseded
	}
	if IsAuthError(err) || errors.Is(err, context.Canceled) {
		return err
	}
	p.logger.Warn("fetch positions", "err", err)
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		p.setProblem(MsgConnectError)
	} else {
		p.setProblem(MsgPositionFetchError)
	}
	return err
}

// Create adds a position.
func (p *PositionsScreen) Create(ctx context.Context, in PositionInput) error {
	in, err := p.checkInput(in)
	if err != nil {
		return err
	}
	return p.write(ctx, "Failed to create position", MsgPositionCreated, false, func(ctx context.Context) (string, error) {
		return p.client.CreatePosition(ctx, in)
	})
}

// Update replaces the code and name of position id.
func (p *PositionsScreen) Update(ctx context.Context, id int64, in PositionInput) error {
	in, err := p.checkInput(in)
	if err != nil {
		return err
	}
	return p.write(ctx, "Failed to update position", MsgPositionUpdated, true, func(ctx context.Context) (string, error) {
		return p.client.UpdatePosition(ctx, id, in)
	})
}

// Delete removes position id.
func (p *PositionsScreen) Delete(ctx context.Context, id int64) error {
	p.setNotice("", "")
	return p.write(ctx, "Failed to delete position", MsgPositionDeleted, true, func(ctx context.Context) (string, error) {
		return p.client.DeletePosition(ctx, id)
	})
}

func (p *PositionsScreen) checkInput(in PositionInput) (PositionInput, error) {
	p.setNotice("", "")
	if err := ValidatePosition(in); err != nil {
		p.setNotice("", err.Error())
		return in, err
	}
	return PositionInput{Code: strings.TrimSpace(in.Code), Name: strings.TrimSpace(in.Name)}, nil
}

// write runs call and, if it succeeded, re-fetches the listing. useServerMsg
// prefers the message in the response body over okMsg.
func (p *PositionsScreen) write(ctx context.Context, failMsg, okMsg string, useServerMsg bool,
	call func(context.Context) (string, error)) error {
	msg, err := call(ctx)
	if err != nil {
		var netErr *NetworkError
		switch {
		case IsAuthError(err):
			p.setNotice("", err.Error())
		case errors.As(err, &netErr):
			p.setNotice("", MsgConnectError)
		default:
			p.setNotice("", serverMessage(err, failMsg))
		}
		return err
	}

	if !useServerMsg || msg == "" {
		msg = okMsg
	}
	p.setNotice(msg, "")

	if err := p.Refresh(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		p.logger.Warn("refresh after write", "err", err)
	}
	return nil
}

// ValidatePosition requires a code and a name.
func ValidatePosition(in PositionInput) error {
	if strings.TrimSpace(in.Code) == "" {
		return &ValidationError{Message: "Position code is required"}
	}
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Message: "Position name is required"}
	}
	return nil
}

// Positions returns the last fetched listing.
func (p *PositionsScreen) Positions() []Position {
	list, _ := p.positions.get()
	return list
}

// Notice returns the success and error messages of the last action.
func (p *PositionsScreen) Notice() (success, failure string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.notice, p.problem
}

func (p *PositionsScreen) setNotice(success, failure string) {
	p.mu.Lock()
	p.notice, p.problem = success, failure
	p.mu.Unlock()
}

func (p *PositionsScreen) setProblem(msg string) {
	p.mu.Lock()
	p.problem = msg
	p.mu.Unlock()
}
