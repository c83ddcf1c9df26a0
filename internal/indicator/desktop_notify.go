package indicator

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const (
	notifyDest   = "org.freedesktop.Notifications"
	notifyPath   = "/org/freedesktop/Notifications"
	notifyIcon   = "dialog-information"
	busctlBinary = "busctl"
)

// desktopNotify posts a freedesktop notification and returns the server id.
// A non-zero replaceID updates that bubble in place.
func desktopNotify(ctx context.Context, appName string, replaceID uint32, summary string, body string, timeoutMS int) (uint32, error) {
	// Trailing zeros are the empty actions array and hints map.
	out, err := callNotifications(ctx, "Notify", "susssasa{sv}i",
		appName, strconv.FormatUint(uint64(replaceID), 10), notifyIcon, summary, body,
		"0", "0", strconv.Itoa(timeoutMS),
	)
	if err != nil {
		return 0, fmt.Errorf("desktop notify failed: %w", err)
	}
	id, err := parseNotifyReply(out)
	if err != nil {
		return 0, fmt.Errorf("desktop notify %w", err)
	}
	return id, nil
}

// desktopDismiss closes the bubble with id.
func desktopDismiss(ctx context.Context, id uint32) error {
	if _, err := callNotifications(ctx, "CloseNotification", "u", strconv.FormatUint(uint64(id), 10)); err != nil {
		return fmt.Errorf("desktop dismiss failed: %w", err)
	}
	return nil
}

// callNotifications invokes one method on the user-bus notification service.
func callNotifications(ctx context.Context, method string, signature string, args ...string) (string, error) {
	argv := append([]string{"--user", "call", notifyDest, notifyPath, notifyDest, method, signature}, args...)
	out, err := exec.CommandContext(ctx, busctlBinary, argv...).CombinedOutput()
	reply := strings.TrimSpace(string(out))
	if err != nil {
		if reply != "" {
			return "", fmt.Errorf("%w (%s)", err, reply)
		}
		return "", err
	}
	return reply, nil
}

// parseNotifyReply reads busctl's "u <id>" reply.
func parseNotifyReply(reply string) (uint32, error) {
	kind, value, ok := strings.Cut(strings.TrimSpace(reply), " ")
	if !ok || kind != "u" {
		return 0, fmt.Errorf("invalid response: %q", reply)
	}
	id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse id %q: %w", value, err)
	}
	return uint32(id), nil
}
