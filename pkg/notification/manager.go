package notification

import (
	"errors"
	"fmt"
	"sort"
)

// NotificationSystem represents a delivery channel (e.g. email).
type NotificationSystem string

const (
	EmailSystem NotificationSystem = "email"
)

// NotificationManager manages notifiers and notification templates.
type NotificationManager struct {
	BaseUrl              string
	notifiers            map[NotificationSystem]Notifier
	notificationRegistry map[NoticeType]map[NotificationSystem]NoticeTemplate
}

// NewNotificationManager creates a manager whose links are built from baseUrl.
func NewNotificationManager(baseUrl string) *NotificationManager {
	return &NotificationManager{
		BaseUrl:              baseUrl,
		notifiers:            make(map[NotificationSystem]Notifier),
		notificationRegistry: make(map[NoticeType]map[NotificationSystem]NoticeTemplate),
	}
}

// RegisterNotifier registers a notifier for a specific system.
func (nm *NotificationManager) RegisterNotifier(system NotificationSystem, notifier Notifier) {
	nm.notifiers[system] = notifier
}

// RegisterNotification adds or replaces the template used for noticeType on system.
func (nm *NotificationManager) RegisterNotification(noticeType NoticeType, system NotificationSystem, template NoticeTemplate) error {
	if noticeType == "" || system == "" {
		return fmt.Errorf("invalid input: notice type and system cannot be empty")
	}
	if template.Subject == "" {
		return fmt.Errorf("invalid template for %s: subject cannot be empty", noticeType)
	}
	if template.Text == "" && template.Html == "" {
		return fmt.Errorf("invalid template for %s: text or html body required", noticeType)
	}

	if _, exists := nm.notificationRegistry[noticeType]; !exists {
		nm.notificationRegistry[noticeType] = make(map[NotificationSystem]NoticeTemplate)
	}
	nm.notificationRegistry[noticeType][system] = template
	return nil
}

// Send delivers the notice on every system it has a template for.
func (nm *NotificationManager) Send(noticeType NoticeType, notification NotificationData) error {
	systemTemplates, exists := nm.notificationRegistry[noticeType]
	if !exists || len(systemTemplates) == 0 {
		return fmt.Errorf("no templates registered for notice type: %s", noticeType)
	}

	systems := make([]string, 0, len(systemTemplates))
	for system := range systemTemplates {
		systems = append(systems, string(system))
	}
	sort.Strings(systems)

	var errs []error
	for _, s := range systems {
		system := NotificationSystem(s)
		notifier, exists := nm.notifiers[system]
		if !exists {
			errs = append(errs, fmt.Errorf("no notifier registered for system: %s", system))
			continue
		}
		if err := notifier.Send(noticeType, notification, systemTemplates[system]); err != nil {
			errs = append(errs, fmt.Errorf("send %s via %s: %w", noticeType, system, err))
		}
	}
	return errors.Join(errs...)
}
