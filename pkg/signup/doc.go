// Package signup serves the signup and reset password pages.
//
// # Overview
//
// A submission with a login and no password takes the passwordless path:
//   - the login must be an email address
//   - the email defaults to the login
//   - the user is created without a password and a reset link is emailed,
//     both in one atomic scope of the Directory
//
// The page then shows one of three results: the invalid address error, a
// generic failure, or the "check your email" confirmation. Failures are not
// detailed to the visitor, so the page does not reveal whether a login
// already exists; the cause is logged.
//
// Submissions with a password go to a StandardSignup, PasswordSignup by
// default.
//
// # Basic Usage
//
//	svc := directory.NewDirectoryService(repo, notificationManager,
//		directory.WithBaseUrl(cfg.BaseUrl),
//		directory.WithAllowUninvited(true),
//	)
//	renderer, err := view.New(catalog)
//	h, err := signup.NewHandle(
//		signup.WithDirectory(signup.NewDirectory(svc)),
//		signup.WithEmailValidator(emailvalidator.New()),
//		signup.WithRenderer(renderer),
//		signup.WithContextProvider(signup.RequestContext{CSRF: csrf, Catalog: catalog, Directory: dir}),
//	)
//	server.R.Mount("/web", h.Router(csrf.Protect, ratelimit.PerIP(limiter)))
//
// # Language
//
// The language given to new users is the submitted lang when supported, then
// the frontend_lang cookie, then the Accept-Language header, then the default
// of the i18n catalog.
package signup
