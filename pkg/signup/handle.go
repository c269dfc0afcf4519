package signup

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jinzhu/copier"
	"github.com/tendant/signup-verify-email/pkg/directory"
	"github.com/tendant/signup-verify-email/pkg/emailvalidator"
	"github.com/tendant/signup-verify-email/pkg/i18n"
	"github.com/tendant/signup-verify-email/pkg/utils"
	"github.com/tendant/signup-verify-email/pkg/view"
)

var (
	ErrMissingEmailValidator = errors.New("signup: an email validator is required")
	ErrMissingDirectory      = errors.New("signup: a directory is required")
	ErrMissingRenderer       = errors.New("signup: a renderer is required")
)

// Outcome is the result of handling a submission.
type Outcome string

const (
	OutcomeInvalidEmail       Outcome = "invalid_email"
	OutcomeProvisioningFailed Outcome = "provisioning_failed"
	OutcomeSuccess            Outcome = "success"
	OutcomeStandard           Outcome = "standard"
)

// StandardSignup handles submissions that are not passwordless.
type StandardSignup interface {
	Signup(w http.ResponseWriter, r *http.Request, sub *Submission)
}

// Handle serves the signup pages. A submission with a login and no password
// creates the user without a credential and emails a reset link; any other
// submission goes to the StandardSignup strategy.
type Handle struct {
	dir       Directory
	validator emailvalidator.EmailValidator
	renderer  view.Renderer
	context   ContextProvider
	standard  StandardSignup
}

type Option func(*Handle)

// NewHandle builds a Handle. WithDirectory, WithEmailValidator and
// WithRenderer are required. Without WithStandardSignup, password signups are
// served by PasswordSignup.
func NewHandle(opts ...Option) (*Handle, error) {
	h := &Handle{}
	for _, opt := range opts {
		opt(h)
	}

	if h.validator == nil {
		return nil, ErrMissingEmailValidator
	}
	if h.dir == nil {
		return nil, ErrMissingDirectory
	}
	if h.renderer == nil {
		return nil, ErrMissingRenderer
	}
	if h.context == nil {
		h.context = RequestContext{Directory: h.dir}
	}
	if h.standard == nil {
		h.standard = &PasswordSignup{
			Directory: h.dir,
			Validator: h.validator,
			Renderer:  h.renderer,
			Context:   h.context,
		}
	}
	return h, nil
}

func WithDirectory(d Directory) Option {
	return func(h *Handle) {
		h.dir = d
	}
}

func WithEmailValidator(v emailvalidator.EmailValidator) Option {
	return func(h *Handle) {
		h.validator = v
	}
}

func WithRenderer(r view.Renderer) Option {
	return func(h *Handle) {
		h.renderer = r
	}
}

func WithContextProvider(p ContextProvider) Option {
	return func(h *Handle) {
		h.context = p
	}
}

func WithStandardSignup(s StandardSignup) Option {
	return func(h *Handle) {
		h.standard = s
	}
}

// Signup serves GET and POST /signup.
func (h *Handle) Signup(w http.ResponseWriter, r *http.Request) {
	h.Handle(w, r, SubmissionFromRequest(r))
}

// Handle dispatches sub to the passwordless path or the standard strategy.
func (h *Handle) Handle(w http.ResponseWriter, r *http.Request, sub *Submission) Outcome {
	if sub.passwordless() {
		return h.PasswordlessSignup(w, r, sub)
	}
	h.standard.Signup(w, r, sub)
	return OutcomeStandard
}

// PasswordlessSignup validates the login, provisions the user and requests a
// password reset in one atomic scope, then renders the outcome.
func (h *Handle) PasswordlessSignup(w http.ResponseWriter, r *http.Request, sub *Submission) Outcome {
	ctx := h.context.SignupContext(w, r, sub)

	if !h.validator.IsValid(sub.Login) {
		ctx["error"] = i18n.MsgInvalidEmail
		h.render(w, r, view.SignupTemplate, ctx)
		return OutcomeInvalidEmail
	}

	if sub.Email == "" {
		sub.Email = sub.Login
	}
	sub.Password = ""
	sub.ConfirmPassword = ""

	var values directory.SignupValues
	if err := copier.Copy(&values, sub); err != nil {
		slog.Error("Failed to copy signup values", "error", err)
		return h.provisioningFailed(w, r, ctx)
	}
	values.Password = ""
	values.Lang, _ = ctx["lang"].(string)

	err := h.dir.Atomic(r.Context(), func(tx Tx) error {
		if _, err := tx.Signup(r.Context(), values, sub.Token); err != nil {
			return err
		}
		return tx.ResetPassword(r.Context(), sub.Login)
	})
	if err != nil {
		logProvisioningError(err, sub.Login)
		return h.provisioningFailed(w, r, ctx)
	}

	slog.Info("Passwordless signup", "login", utils.MaskEmail(sub.Login), "lang", values.Lang)
	delete(ctx, "error")
	ctx["message"] = i18n.MsgCheckInbox
	h.render(w, r, view.ResetPasswordTemplate, ctx)
	return OutcomeSuccess
}

func (h *Handle) provisioningFailed(w http.ResponseWriter, r *http.Request, ctx view.RenderContext) Outcome {
	delete(ctx, "message")
	ctx["error"] = i18n.MsgSomethingWrong
	h.render(w, r, view.SignupTemplate, ctx)
	return OutcomeProvisioningFailed
}

func (h *Handle) render(w http.ResponseWriter, r *http.Request, name string, ctx view.RenderContext) {
	renderPage(h.renderer, w, r, name, ctx)
}

func renderPage(renderer view.Renderer, w http.ResponseWriter, r *http.Request, name string, ctx view.RenderContext) {
	if err := renderer.Render(w, r, name, ctx); err != nil {
		slog.Error("Failed to render page", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// logProvisioningError keeps the detail server side. A taken login is
// expected traffic and logged at warn level.
func logProvisioningError(err error, login string) {
	if errors.Is(err, directory.ErrLoginAlreadyExists) {
		slog.Warn("Signup for an existing login", "login", utils.MaskEmail(login), "error", err)
		return
	}
	slog.Error("Failed to provision passwordless signup", "login", utils.MaskEmail(login), "error", err)
}
