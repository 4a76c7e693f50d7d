// Package notify delivers user-facing alerts through a deduplicating gateway.
package notify

// Dispatcher shows a notification on the desktop. Delivery is
// fire-and-forget; a returned error is only logged.
type Dispatcher interface {
	Notify(title, message string) error
}

// Sender is what monitors use to raise alerts. *Gateway implements it.
type Sender interface {
	Send(title, message string) bool
}

// Kind names a dispatcher implementation in configuration.
type Kind string

const (
	KindAuto      Kind = "auto"
	KindDBus      Kind = "dbus"
	KindOSAScript Kind = "osascript"
	KindLog       Kind = "log"
)

// IsValid returns whether the kind is known
func (k Kind) IsValid() bool {
	switch k {
	case KindAuto, KindDBus, KindOSAScript, KindLog:
		return true
	default:
		return false
	}
}
