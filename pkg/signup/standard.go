package signup

import (
	"log/slog"
	"net/http"

	"github.com/jinzhu/copier"
	"github.com/tendant/signup-verify-email/pkg/directory"
	"github.com/tendant/signup-verify-email/pkg/emailvalidator"
	"github.com/tendant/signup-verify-email/pkg/i18n"
	"github.com/tendant/signup-verify-email/pkg/utils"
	"github.com/tendant/signup-verify-email/pkg/view"
)

// PasswordSignup is the StandardSignup that creates users with the password
// they typed.
type PasswordSignup struct {
	Directory Directory
	Validator emailvalidator.EmailValidator
	Renderer  view.Renderer
	Context   ContextProvider
}

func (s *PasswordSignup) Signup(w http.ResponseWriter, r *http.Request, sub *Submission) {
	ctx := s.Context.SignupContext(w, r, sub)
	ctx["password_signup"] = true

	if r.Method != http.MethodPost || (sub.Login == "" && sub.Password == "") {
		renderPage(s.Renderer, w, r, view.SignupTemplate, ctx)
		return
	}
	if _, invalid := ctx["invalid_token"]; invalid {
		renderPage(s.Renderer, w, r, view.SignupTemplate, ctx)
		return
	}

	if msg := s.check(sub); msg != "" {
		ctx["error"] = msg
		renderPage(s.Renderer, w, r, view.SignupTemplate, ctx)
		return
	}

	var values directory.SignupValues
	if err := copier.Copy(&values, sub); err != nil {
		slog.Error("Failed to copy signup values", "error", err)
		ctx["error"] = i18n.MsgSomethingWrong
		renderPage(s.Renderer, w, r, view.SignupTemplate, ctx)
		return
	}
	if values.Email == "" {
		values.Email = values.Login
	}
	values.Lang, _ = ctx["lang"].(string)

	err := s.Directory.Atomic(r.Context(), func(tx Tx) error {
		_, err := tx.Signup(r.Context(), values, sub.Token)
		return err
	})
	if err != nil {
		logProvisioningError(err, sub.Login)
		ctx["error"] = i18n.MsgSomethingWrong
		renderPage(s.Renderer, w, r, view.SignupTemplate, ctx)
		return
	}

	slog.Info("Password signup", "login", utils.MaskEmail(sub.Login))
	ctx["message"] = i18n.MsgAccountCreated
	delete(ctx, "password_signup")
	renderPage(s.Renderer, w, r, view.SignupTemplate, ctx)
}

func (s *PasswordSignup) check(sub *Submission) string {
	if sub.Login == "" || sub.Name == "" || sub.Password == "" {
		return i18n.MsgFormNotFilled
	}
	if sub.Password != sub.ConfirmPassword {
		return i18n.MsgPasswordMismatch
	}
	if !s.Validator.IsValid(sub.Login) {
		return i18n.MsgInvalidEmail
	}
	return ""
}
