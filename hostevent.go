package linkframe

// HostEventType names a lifecycle event delivered by the Frame host.
type HostEventType string

const (
	HostFrameAdded            HostEventType = "frame_added"
	HostFrameAddRejected      HostEventType = "frame_add_rejected"
	HostFrameRemoved          HostEventType = "frame_removed"
	HostNotificationsEnabled  HostEventType = "notifications_enabled"
	HostNotificationsDisabled HostEventType = "notifications_disabled"
	HostPrimaryButtonClicked  HostEventType = "primary_button_clicked"
)

// Valid reports whether t is a known event name.
func (t HostEventType) Valid() bool {
	switch t {
	case HostFrameAdded, HostFrameAddRejected, HostFrameRemoved,
		HostNotificationsEnabled, HostNotificationsDisabled, HostPrimaryButtonClicked:
		return true
	}
	return false
}

// NotificationDetails is the push target the host hands out when
// notifications are enabled.
type NotificationDetails struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

// HostEvent is one lifecycle event from the Frame host.
type HostEvent struct {
	Type         HostEventType        `json:"event"`
	Reason       string               `json:"reason,omitempty"`
	Notification *NotificationDetails `json:"notificationDetails,omitempty"`
}

// HostStatus is what the session knows about its standing with the host.
type HostStatus struct {
	Added                bool
	NotificationsEnabled bool
	Notification         *NotificationDetails
	LastRejection        string
}

// apply folds ev into the status.
func (h *HostStatus) apply(ev HostEvent) {
	switch ev.Type {
	case HostFrameAdded:
		h.Added = true
		h.LastRejection = ""
		if ev.Notification != nil {
			h.NotificationsEnabled = true
			h.Notification = ev.Notification
		}
	case HostFrameAddRejected:
		h.LastRejection = ev.Reason
	case HostFrameRemoved:
		h.Added = false
		h.NotificationsEnabled = false
		h.Notification = nil
	case HostNotificationsEnabled:
		h.NotificationsEnabled = true
		h.Notification = ev.Notification
	case HostNotificationsDisabled:
		h.NotificationsEnabled = false
		h.Notification = nil
	}
}
