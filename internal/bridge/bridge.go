package bridge

import (
	"net/url"
	"strings"

	"github.com/reetreev/dashboard/internal/config"
)

// HandoffPayload is what the desktop companion receives after a web login,
// either over its socket or encoded into a deep link.
type HandoffPayload struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Token       string `json:"token"`
}

// DeepLink builds the custom-protocol URL that hands authentication to a
// desktop app launched from the browser.
func DeepLink(protocol string, p HandoffPayload) string {
	params := url.Values{}
	params.Set("uid", p.UID)
	params.Set("email", p.Email)
	params.Set("displayName", p.DisplayName)
	params.Set("token", p.Token)
	return protocol + "://auth-success?" + params.Encode()
}

// DetectPlatform maps a User-Agent header to a download platform key.
// Unrecognized agents return "unknown".
func DetectPlatform(userAgent string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "win"):
		return "windows"
	case strings.Contains(ua, "mac"):
		return "mac"
	case strings.Contains(ua, "linux"):
		return "linux"
	default:
		return "unknown"
	}
}

// DownloadTarget resolves the installer for a platform key. Unknown
// platforms fall back to the Windows build.
func DownloadTarget(cfg config.DesktopConfig, platform string) config.DownloadTarget {
	if target, ok := cfg.Downloads[platform]; ok {
		return target
	}
	return cfg.Downloads["windows"]
}
