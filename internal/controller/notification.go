package controller

// NotificationKind is the banner style.
type NotificationKind int

const (
	NotifySuccess NotificationKind = iota
	NotifyError
)

// Notification is the transient banner. Seq increases with every Notify so a
// dismiss timer can tell whether its banner is still the current one.
type Notification struct {
	Kind    NotificationKind
	Message string
	Seq     uint64
	Visible bool
}

// Notification returns the current banner.
func (c *Controller) Notification() Notification { return c.notification }

// Notify shows a banner, superseding any visible one, and returns its Seq.
func (c *Controller) Notify(kind NotificationKind, msg string) uint64 {
	c.notification = Notification{
		Kind:    kind,
		Message: msg,
		Seq:     c.notification.Seq + 1,
		Visible: true,
	}
	return c.notification.Seq
}

// Dismiss hides the banner if seq is still current. It reports whether the
// banner was hidden.
func (c *Controller) Dismiss(seq uint64) bool {
	if !c.notification.Visible || c.notification.Seq != seq {
		return false
	}
	c.notification.Visible = false
	return true
}
