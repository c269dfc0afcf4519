package notification

// NoticeType identifies a notification such as "password_reset".
type NoticeType string

const (
	PasswordResetNotice    NoticeType = "password_reset"
	SignupInvitationNotice NoticeType = "signup_invitation"

	ExampleNotice NoticeType = "example"
)

// NoticeTemplate holds the subject and bodies of a notice. Text is a
// text/template source and Html an html/template source, both executed
// against NotificationData.Data.
type NoticeTemplate struct {
	Subject string
	Text    string
	Html    string
}

type NotificationData struct {
	To      string            // Recipient address
	Subject string            // Overrides the template subject when set
	Body    string            // Optional pre-rendered body
	Data    map[string]string // Template values, e.g. "Link"
}

type Notifier interface {
	Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error
}
