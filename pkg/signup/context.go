package signup

import (
	"log/slog"
	"net/http"

	"github.com/tendant/signup-verify-email/pkg/i18n"
	"github.com/tendant/signup-verify-email/pkg/session"
	"github.com/tendant/signup-verify-email/pkg/view"
)

// LangCookie holds the language picked on the website.
const LangCookie = "frontend_lang"

// ContextProvider builds the per-request render context of the signup and
// reset pages.
type ContextProvider interface {
	SignupContext(w http.ResponseWriter, r *http.Request, sub *Submission) view.RenderContext
	ResetContext(w http.ResponseWriter, r *http.Request, sub *Submission) view.RenderContext
}

// RequestContext is the default ContextProvider. It fills in the CSRF token,
// the request language and, for invitation tokens, the invitation prefill.
type RequestContext struct {
	CSRF      *session.CSRF // nil leaves csrf_token empty
	Catalog   *i18n.Catalog
	Directory Directory
}

func (p RequestContext) base(w http.ResponseWriter, r *http.Request, sub *Submission) view.RenderContext {
	ctx := view.RenderContext{
		"login": sub.Login,
		"name":  sub.Name,
		"email": sub.Email,
		"lang":  p.Lang(r, sub),
	}
	if p.CSRF != nil {
		token, err := p.CSRF.Token(w, r)
		if err != nil {
			slog.Error("Failed to issue CSRF token", "error", err)
		}
		ctx["csrf_token"] = token
	}
	return ctx
}

// SignupContext adds the invitation state. An unknown or used token sets
// error to the invalid-token message.
func (p RequestContext) SignupContext(w http.ResponseWriter, r *http.Request, sub *Submission) view.RenderContext {
	ctx := p.base(w, r, sub)
	if sub.Token == "" || p.Directory == nil {
		return ctx
	}

	ctx["token"] = sub.Token
	info, err := p.Directory.SignupInfo(r.Context(), sub.Token)
	if err != nil {
		slog.Warn("Invalid signup token", "error", err)
		ctx["error"] = i18n.MsgInvalidToken
		ctx["invalid_token"] = true
		return ctx
	}
	for key, value := range map[string]string{"name": info.Name, "login": info.Login, "email": info.Email} {
		if current, _ := ctx[key].(string); current == "" {
			ctx[key] = value
		}
	}
	return ctx
}

func (p RequestContext) ResetContext(w http.ResponseWriter, r *http.Request, sub *Submission) view.RenderContext {
	ctx := p.base(w, r, sub)
	if sub.Token != "" {
		ctx["token"] = sub.Token
	}
	return ctx
}

// Lang resolves the request language: a supported submitted lang, then the
// frontend_lang cookie, then Accept-Language, then the catalog default.
func (p RequestContext) Lang(r *http.Request, sub *Submission) string {
	catalog := p.Catalog
	if catalog == nil {
		catalog = i18n.New(i18n.DefaultLang)
	}
	if sub != nil && catalog.Supported(sub.Lang) {
		return sub.Lang
	}
	if cookie, err := r.Cookie(LangCookie); err == nil && catalog.Supported(cookie.Value) {
		return cookie.Value
	}
	return catalog.Match(r.Header.Get("Accept-Language"))
}
