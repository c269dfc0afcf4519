package signup

import (
	"net/http"

	"github.com/ggicci/httpin"
)

// Submission is a decoded signup or reset form. Fields come from the query
// string on GET and from the form body on POST.
type Submission struct {
	Login           string `in:"form=login"`
	Email           string `in:"form=email"`
	Password        string `in:"form=password"`
	ConfirmPassword string `in:"form=confirm_password"`
	CSRFToken       string `in:"form=csrf_token"`
	Name            string `in:"form=name"`
	Lang            string `in:"form=lang"`
	Token           string `in:"form=token"`
}

// passwordless reports whether the submission carries a login and no password.
func (s *Submission) passwordless() bool {
	return s.Login != "" && s.Password == ""
}

// SubmissionFromRequest returns the submission decoded by httpin, or an empty
// one when the request did not go through the decoder.
func SubmissionFromRequest(r *http.Request) *Submission {
	if sub, ok := r.Context().Value(httpin.Input).(*Submission); ok && sub != nil {
		return sub
	}
	return &Submission{}
}
