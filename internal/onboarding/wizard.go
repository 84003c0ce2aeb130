// Package onboarding drives the sign-up wizard: username, credentials, then the profile
// and payout card of the freshly created account.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"creator_support/internal/client"
	"creator_support/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Step is a wizard state
type Step int

const (
	StepUsername Step = iota
	StepCredentials
	StepProfile
	StepPayment
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepUsername:
		return "username"
	case StepCredentials:
		return "credentials"
	case StepProfile:
		return "profile"
	case StepPayment:
		return "payment"
	case StepDone:
		return "done"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// FieldErrors maps a form field to its message
type FieldErrors map[string]string

// ErrInvalid is returned by Next when the current step has field errors
var ErrInvalid = errors.New("onboarding: step has invalid fields")

// ErrFinished is returned by Next once the wizard is done
var ErrFinished = errors.New("onboarding: wizard already finished")

// Backend is the part of the API the wizard talks to; *client.Client satisfies it
type Backend interface {
	CheckUsername(ctx context.Context, username string) (bool, error)
	SignUp(ctx context.Context, in client.SignUpInput) (*client.Session, error)
	CreateProfile(ctx context.Context, in client.ProfileInput) (*domain.Profile, error)
	CreateBankCard(ctx context.Context, in client.BankCardInput) (*domain.BankCard, error)
}

// The step whose form owns each server-reported field
var fieldOwner = map[string]Step{
	"username": StepUsername,
	"email":    StepCredentials,
	"password": StepCredentials,
}

// Wizard is not safe for concurrent use; it models one person filling in the form
type Wizard struct {
	Username    UsernameForm
	Credentials CredentialsForm
	Profile     ProfileForm
	Payment     PaymentForm

	backend  Backend
	validate *validator.Validate
	step     Step
	errors   FieldErrors
	session  *client.Session
}

func New(backend Backend) *Wizard {
	return &Wizard{backend: backend, validate: newValidator(), errors: FieldErrors{}}
}

func (w *Wizard) Step() Step { return w.step }

// Errors returns the field errors of the last Next call
func (w *Wizard) Errors() FieldErrors { return w.errors }

// Session is the account created on submit, nil before
func (w *Wizard) Session() *client.Session { return w.session }

// Back moves to the previous step. Once the account exists the credential steps are
// closed, so Back from the profile step stays put.
func (w *Wizard) Back() {
	w.errors = FieldErrors{}
	switch w.step {
	case StepCredentials:
		w.step = StepUsername
	case StepPayment:
		w.step = StepProfile
	}
}

// Next validates the current step and, when it passes, performs its side effect and advances.
// Field problems return ErrInvalid with Errors filled in; the step may change when the server
// blames a field owned by an earlier step.
func (w *Wizard) Next(ctx context.Context) error {
	w.errors = FieldErrors{}
	switch w.step {
	case StepUsername:
		return w.nextUsername(ctx)
	case StepCredentials:
		return w.submit(ctx)
	case StepProfile:
		return w.nextProfile(ctx)
	case StepPayment:
		return w.nextPayment(ctx)
	}
	return ErrFinished
}

func (w *Wizard) check(form any) bool {
	if err := w.validate.Struct(form); err != nil {
		w.errors = fieldErrors(err)
		return false
	}
	return true
}

func (w *Wizard) nextUsername(ctx context.Context) error {
	w.Username.Username = strings.TrimSpace(w.Username.Username)
	if !w.check(w.Username) {
		return ErrInvalid
	}
	taken, err := w.backend.CheckUsername(ctx, w.Username.Username)
	if err != nil {
		return err
	}
	if taken {
		w.errors["username"] = "Username is already taken"
		return ErrInvalid
	}
	w.step = StepCredentials
	return nil
}

// submit signs up with everything collected so far
func (w *Wizard) submit(ctx context.Context) error {
	w.Credentials.Email = strings.TrimSpace(w.Credentials.Email)
	if !w.check(w.Credentials) {
		return ErrInvalid
	}
	session, err := w.backend.SignUp(ctx, client.SignUpInput{
		Username: w.Username.Username,
		Email:    w.Credentials.Email,
		Password: w.Credentials.Password,
	})
	if err != nil {
		return w.serverError(err)
	}
	w.session = session
	logrus.WithField("username", w.Username.Username).Debug("Onboarding account created")
	w.step = StepProfile
	return nil
}

func (w *Wizard) nextProfile(ctx context.Context) error {
	if !w.check(w.Profile) {
		return ErrInvalid
	}
	_, err := w.backend.CreateProfile(ctx, client.ProfileInput{
		Name:            strings.TrimSpace(w.Profile.Name),
		About:           w.Profile.About,
		AvatarImage:     w.Profile.AvatarImage,
		SocialMediaURL:  w.Profile.SocialMediaURL,
		BackgroundImage: w.Profile.BackgroundImage,
		SuccessMessage:  w.Profile.SuccessMessage,
		UserID:          w.userID(),
	})
	if err != nil {
		return w.serverError(err)
	}
	w.step = StepPayment
	return nil
}

func (w *Wizard) nextPayment(ctx context.Context) error {
	valid := w.check(w.Payment)
	expiry := w.Payment.ExpiryDate()
	if err := w.validate.Var(expiry, "expiry"); err != nil && w.errors["expiryMonth"] == "" && w.errors["expiryYear"] == "" {
		w.errors["expiryDate"] = messages["expiry"]
		valid = false
	}
	if !valid {
		return ErrInvalid
	}
	_, err := w.backend.CreateBankCard(ctx, client.BankCardInput{
		Country:    w.Payment.Country,
		FirstName:  w.Payment.FirstName,
		LastName:   w.Payment.LastName,
		CardNumber: w.Payment.CardNumber,
		ExpiryDate: expiry,
		CVC:        w.Payment.CVC,
		UserID:     w.userID(),
	})
	if err != nil {
		return w.serverError(err)
	}
	w.step = StepDone
	return nil
}

// serverError attaches an API field error to its input, jumping back to the step that owns it
func (w *Wizard) serverError(err error) error {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.Field == "" {
		return err
	}
	w.errors[apiErr.Field] = apiErr.Message
	if owner, ok := fieldOwner[apiErr.Field]; ok && w.session == nil {
		w.step = owner
	}
	return ErrInvalid
}

func (w *Wizard) userID() uint {
	if w.session == nil || w.session.User == nil {
		return 0
	}
	return w.session.User.ID
}
