package library

import (
	"context"
	"errors"
	"sync"
	"unicode/utf8"
)

// FormState is the lifecycle of a login or registration form.
type FormState int

const (
	StateIdle FormState = iota
	StateSubmitting
	StateSuccess
	StateFailed
)

func (s FormState) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Messages shown by the auth forms.
const (
	MsgLoginFailed      = "Login failed"
	MsgNoToken          = "No token received"
	MsgNetworkError     = "Network error. Please try again."
	MsgRegisterFailed   = "Registration failed"
	MsgRegistered       = "Registration successful! Please login."
	MsgPasswordsDiffer  = "Passwords do not match"
	MsgPasswordTooShort = "Password must be at least 6 characters long"
	MsgUsernameTooShort = "Username must be at least 3 characters long"
)

// Registration limits.
const (
	MinPasswordLength = 6
	MinUsernameLength = 3
)

// form holds the state shared by the login and registration forms.
type form struct {
	mu      sync.Mutex
	state   FormState
	message string
}

func (f *form) start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSubmitting {
		return ErrBusy
	}
	f.state, f.message = StateSubmitting, ""
	return nil
}

func (f *form) finish(state FormState, msg string) {
	f.mu.Lock()
	f.state, f.message = state, msg
	f.mu.Unlock()
}

// State returns the current form state.
func (f *form) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Message returns the last error or success text.
func (f *form) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Editable reports whether the form accepts input.
func (f *form) Editable() bool { return f.State() != StateSubmitting }

// LoginForm signs a user in and stores the returned token.
type LoginForm struct {
	form
	client *Client
}

func NewLoginForm(client *Client) *LoginForm {
	return &LoginForm{client: client}
}

// Submit posts the credentials. On success the token is saved and the user
// is sent to the dashboard. A failed login leaves the form editable with a
// message and returns the underlying error.
func (f *LoginForm) Submit(ctx context.Context, username, password string) error {
	if err := f.start(); err != nil {
		return err
	}

	token, err := f.client.Login(ctx, Credentials{Username: username, Password: password})
	if err != nil {
		f.finish(StateFailed, loginMessage(err))
		return err
	}

	f.client.tokens.Save(token)
	f.finish(StateSuccess, "")
	f.client.nav.Navigate(RouteDashboard)
	return nil
}

func loginMessage(err error) string {
	var netErr *NetworkError
	switch {
	case errors.Is(err, ErrNoToken):
		return MsgNoToken
	case errors.As(err, &netErr):
		return MsgNetworkError
	default:
		return serverMessage(err, MsgLoginFailed)
	}
}

// RegisterForm creates an account after validating the input locally.
type RegisterForm struct {
	form
	client *Client
}

func NewRegisterForm(client *Client) *RegisterForm {
	return &RegisterForm{client: client}
}

// ValidateRegistration applies the local checks, in the order the form
// reports them. Lengths count characters, not bytes.
func ValidateRegistration(username, password, confirm string) error {
	switch {
	case password != confirm:
		return &ValidationError{Message: MsgPasswordsDiffer}
	case utf8.RuneCountInString(password) < MinPasswordLength:
		return &ValidationError{Message: MsgPasswordTooShort}
	case utf8.RuneCountInString(username) < MinUsernameLength:
		return &ValidationError{Message: MsgUsernameTooShort}
	}
	return nil
}

// Submit validates and posts the registration. Invalid input never reaches
// the network. On success the user is sent to the login screen.
func (f *RegisterForm) Submit(ctx context.Context, username, password, confirm string) error {
	if err := f.start(); err != nil {
		return err
	}

	if err := ValidateRegistration(username, password, confirm); err != nil {
		f.finish(StateFailed, err.Error())
		return err
	}

	if err := f.client.Register(ctx, Credentials{Username: username, Password: password}); err != nil {
		var netErr *NetworkError
		if errors.As(err, &netErr) {
			f.finish(StateFailed, MsgNetworkError)
		} else {
			f.finish(StateFailed, serverMessage(err, MsgRegisterFailed))
		}
		return err
	}

	f.finish(StateSuccess, MsgRegistered)
	f.client.nav.Navigate(RouteLogin)
	return nil
}
