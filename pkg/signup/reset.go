package signup

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tendant/signup-verify-email/pkg/directory"
	"github.com/tendant/signup-verify-email/pkg/i18n"
	"github.com/tendant/signup-verify-email/pkg/utils"
	"github.com/tendant/signup-verify-email/pkg/view"
)

// ResetPassword serves GET and POST /reset_password: it shows the form of a
// reset link, sets the new password, or sends a new link for a login.
func (h *Handle) ResetPassword(w http.ResponseWriter, r *http.Request) {
	sub := SubmissionFromRequest(r)
	ctx := h.context.ResetContext(w, r, sub)

	switch {
	case r.Method != http.MethodPost:
		h.showReset(w, r, sub, ctx)
	case sub.Token != "":
		h.completeReset(w, r, sub, ctx)
	case sub.Login != "":
		h.requestReset(w, r, sub, ctx)
	default:
		ctx["error"] = i18n.MsgFormNotFilled
		h.render(w, r, view.ResetPasswordTemplate, ctx)
	}
}

func (h *Handle) showReset(w http.ResponseWriter, r *http.Request, sub *Submission, ctx view.RenderContext) {
	if sub.Token != "" {
		info, err := h.dir.ResetInfo(r.Context(), sub.Token)
		if err != nil {
			slog.Warn("Invalid reset token", "error", err)
			delete(ctx, "token")
			ctx["error"] = i18n.MsgInvalidReset
		} else {
			ctx["login"] = info.Login
			ctx["name"] = info.Name
		}
	}
	h.render(w, r, view.ResetPasswordTemplate, ctx)
}

func (h *Handle) completeReset(w http.ResponseWriter, r *http.Request, sub *Submission, ctx view.RenderContext) {
	if sub.Password == "" {
		ctx["error"] = i18n.MsgFormNotFilled
		h.render(w, r, view.ResetPasswordTemplate, ctx)
		return
	}
	if sub.Password != sub.ConfirmPassword {
		ctx["error"] = i18n.MsgPasswordMismatch
		h.render(w, r, view.ResetPasswordTemplate, ctx)
		return
	}

	err := h.dir.Atomic(r.Context(), func(tx Tx) error {
		return tx.CompleteReset(r.Context(), sub.Token, sub.Password)
	})
	switch {
	case errors.Is(err, directory.ErrInvalidResetToken):
		delete(ctx, "token")
		ctx["error"] = i18n.MsgInvalidReset
	case err != nil:
		slog.Error("Failed to set password", "error", err)
		ctx["error"] = i18n.MsgSomethingWrong
	default:
		delete(ctx, "token")
		ctx["message"] = i18n.MsgPasswordSet
	}
	h.render(w, r, view.ResetPasswordTemplate, ctx)
}

// requestReset answers the same way whether or not the login exists.
func (h *Handle) requestReset(w http.ResponseWriter, r *http.Request, sub *Submission, ctx view.RenderContext) {
	err := h.dir.Atomic(r.Context(), func(tx Tx) error {
		return tx.ResetPassword(r.Context(), sub.Login)
	})
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			slog.Info("Reset requested for unknown login", "login", utils.MaskEmail(sub.Login))
		} else {
			slog.Error("Failed to send reset email", "login", utils.MaskEmail(sub.Login), "error", err)
		}
	}
	ctx["message"] = i18n.MsgResetRequested
	h.render(w, r, view.ResetPasswordTemplate, ctx)
}
