// Package device turns User-Agent strings into short labels for login audit lines.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// Label returns "Browser on OS" (e.g. "Chrome on macOS"). Mobile agents use
// the platform instead of the OS so phones read as "Safari on iPhone".
func Label(userAgentString string) string {
	if strings.TrimSpace(userAgentString) == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgentString)
	browser, _ := ua.Browser()

	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}

	os := ua.OS()
	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}
	return browser + " on " + os
}

// IsBot reports whether the agent identifies itself as a crawler.
func IsBot(userAgentString string) bool {
	if userAgentString == "" {
		return false
	}
	return useragent.New(userAgentString).Bot()
}
