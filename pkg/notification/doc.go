// Package notification sends templated notices, currently by email.
//
// A NotificationManager maps each NoticeType to a NoticeTemplate per
// NotificationSystem and forwards Send calls to the registered Notifier:
//
//	nm, err := notification.NewNotificationManagerWithOptions(baseUrl,
//		notification.WithSMTP(notification.SMTPConfig{
//			Host: "localhost",
//			Port: 1025,
//			From: "noreply@example.com",
//		}),
//		notification.WithDefaultTemplates(),
//	)
//
//	err = nm.Send(notification.PasswordResetNotice, notification.NotificationData{
//		To:   "user@example.com",
//		Data: map[string]string{"Link": link},
//	})
//
// Templates are html/template sources embedded under templates/email. The
// EmailNotifier delivers through github.com/wneessen/go-mail; MockNotifier
// records messages for tests and can be told to fail.
package notification
