package notify

import (
	"context"
	"time"

	"codeberg.org/mutker/screenwell/internal/errors"
	"github.com/godbus/dbus/v5"
)

const (
	notificationsName   = "org.freedesktop.Notifications"
	notificationsPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	notificationsNotify = notificationsName + ".Notify"

	dbusCallTimeout = 2 * time.Second
	// expireDefault lets the notification server pick the timeout.
	expireDefault = int32(-1)
)

// DBusDispatcher posts notifications to the freedesktop notification
// service on the session bus.
type DBusDispatcher struct {
	conn    *dbus.Conn
	appName string
}

func NewDBusDispatcher(appName string) (*DBusDispatcher, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, errors.New().Wrap(ErrBusUnavailable, err)
	}

	return &DBusDispatcher{conn: conn, appName: appName}, nil
}

func (d *DBusDispatcher) Notify(title, message string) error {
	ctx, cancel := context.WithTimeout(context.Background(), dbusCallTimeout)
	defer cancel()

	obj := d.conn.Object(notificationsName, notificationsPath)
	call := obj.CallWithContext(ctx, notificationsNotify, 0,
		d.appName,
		uint32(0),
		"",
		title,
		message,
		[]string{},
		map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(1))},
		expireDefault,
	)
	if call.Err != nil {
		return errors.New().Wrap(ErrDispatchFailed, call.Err)
	}

	return nil
}
