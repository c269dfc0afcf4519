package notification

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotificationManager(t *testing.T) {
	nm := NewNotificationManager("http://localhost:3000")
	require.NotNil(t, nm)
	assert.Equal(t, "http://localhost:3000", nm.BaseUrl)
	assert.NotNil(t, nm.notifiers)
	assert.NotNil(t, nm.notificationRegistry)
}

func TestRegisterNotifier(t *testing.T) {
	nm := NewNotificationManager("")
	mockNotifier := &MockNotifier{}

	nm.RegisterNotifier(EmailSystem, mockNotifier)
	assert.Same(t, mockNotifier, nm.notifiers[EmailSystem])

	newMockNotifier := &MockNotifier{}
	nm.RegisterNotifier(EmailSystem, newMockNotifier)
	assert.Same(t, newMockNotifier, nm.notifiers[EmailSystem])
}

func TestRegisterNotification(t *testing.T) {
	nm := NewNotificationManager("")

	tests := []struct {
		name        string
		noticeType  NoticeType
		system      NotificationSystem
		template    NoticeTemplate
		shouldError bool
	}{
		{
			name:       "Valid registration with both Text and Html",
			noticeType: ExampleNotice,
			system:     EmailSystem,
			template:   NoticeTemplate{Subject: "Example Email", Text: "This is an example email", Html: "<p>This is an example email</p>"},
		},
		{
			name:       "Valid registration with Html only",
			noticeType: ExampleNotice,
			system:     EmailSystem,
			template:   NoticeTemplate{Subject: "Example Email", Html: "<p>This is an example email</p>"},
		},
		{
			name:        "Empty notice type",
			system:      EmailSystem,
			template:    NoticeTemplate{Subject: "Example Email", Text: "This is an example email"},
			shouldError: true,
		},
		{
			name:        "Empty system",
			noticeType:  ExampleNotice,
			template:    NoticeTemplate{Subject: "Example Email", Text: "This is an example email"},
			shouldError: true,
		},
		{
			name:        "Empty subject",
			noticeType:  ExampleNotice,
			system:      EmailSystem,
			template:    NoticeTemplate{Text: "This is an example email"},
			shouldError: true,
		},
		{
			name:        "No content",
			noticeType:  ExampleNotice,
			system:      EmailSystem,
			template:    NoticeTemplate{Subject: "Example Email"},
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := nm.RegisterNotification(tt.noticeType, tt.system, tt.template)
			if tt.shouldError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.template, nm.notificationRegistry[tt.noticeType][tt.system])
		})
	}
}

func TestSend(t *testing.T) {
	mockEmailNotifier := &MockNotifier{}
	nm, err := NewNotificationManagerWithOptions("",
		WithNotifier(EmailSystem, mockEmailNotifier),
		WithDefaultTemplates(),
	)
	require.NoError(t, err)

	testData := NotificationData{
		To:   "user@example.com",
		Data: map[string]string{"Link": "http://localhost/web/reset_password?token=abc"},
	}
	require.NoError(t, nm.Send(PasswordResetNotice, testData))

	sent := mockEmailNotifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, testData.To, sent[0].To)
	assert.Equal(t, []NoticeType{PasswordResetNotice}, mockEmailNotifier.SentTypes)
}

func TestSendErrors(t *testing.T) {
	nm := NewNotificationManager("")

	err := nm.Send("unregistered", NotificationData{})
	assert.EqualError(t, err, "no templates registered for notice type: unregistered")

	require.NoError(t, nm.RegisterNotification(ExampleNotice, EmailSystem, NoticeTemplate{Subject: "Example", Html: "<p>x</p>"}))
	err = nm.Send(ExampleNotice, NotificationData{})
	assert.EqualError(t, err, "no notifier registered for system: email")

	failing := &MockNotifier{Err: errors.New("smtp down")}
	nm.RegisterNotifier(EmailSystem, failing)
	err = nm.Send(ExampleNotice, NotificationData{To: "user@example.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, failing.Err)
	assert.Empty(t, failing.Sent())
}

func TestDefaultTemplatesRender(t *testing.T) {
	data := map[string]string{
		"Name":     "Somebody",
		"Login":    "good@example.com",
		"Link":     "http://localhost:3000/web/reset_password?token=abc",
		"ExpireAt": "2026-10-15 10:00 UTC",
	}

	html, err := renderHTML(loadTemplate("templates/email/password_reset.html"), data)
	require.NoError(t, err)
	assert.Contains(t, html, `href="http://localhost:3000/web/reset_password?token=abc"`)
	assert.Contains(t, html, "good@example.com")

	text, err := renderText(loadTemplate("templates/email/password_reset.txt"), data)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "Hello Somebody,"))

	empty, err := renderText("", data)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNewEmailNotifierDoesNotDial(t *testing.T) {
	n, err := NewEmailNotifier(SMTPConfig{Host: "localhost", Port: 1025, From: "noreply@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "localhost", n.SMTPConfig.Host)

	err = n.Send(PasswordResetNotice, NotificationData{}, NoticeTemplate{Subject: "x", Text: "y"})
	assert.EqualError(t, err, "email notification requires 'To' address")
}
