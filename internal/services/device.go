package services

import (
	"strings"

	"linkbio/internal/models"

	"github.com/mssola/user_agent"
)

const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"

	unknownLabel      = "Unknown"
	unknownScreenSize = "unknown"
)

// uaRule pairs a predicate over the lower-cased user agent with the label it
// assigns. Rule tables are evaluated top to bottom and the first match wins,
// so the order of each table is part of the classification contract:
// appending a rule never changes how existing agents are labelled unless it
// is inserted above the rule that used to match them.
type uaRule struct {
	label string
	match func(ua string) bool
}

// Device type: mobile > tablet > desktop (default).
var deviceTypeRules = []uaRule{
	{DeviceMobile, containsAny("mobile", "android", "iphone")},
	{DeviceTablet, containsAny("tablet", "ipad")},
}

// OS: Windows > macOS > Linux > Android > iOS. Apple mobile agents carry
// "like Mac OS X" and Android agents carry "Linux", so those two rules
// exclude them explicitly rather than rely on position.
var osRules = []uaRule{
	{"Windows", containsAny("windows")},
	{"macOS", allOf(containsAny("mac"), not(containsAny("iphone", "ipad")))},
	{"Linux", allOf(containsAny("linux"), not(containsAny("android")))},
	{"Android", containsAny("android")},
	{"iOS", containsAny("iphone", "ipad", "ios")},
}

// Browser: Chrome > Firefox > Safari > Edge > Opera. Edge and Opera agents
// also say "chrome"; Chrome excludes "edg" so Edge is reached, Opera agents
// that carry "chrome" are reported as Chrome.
var browserRules = []uaRule{
	{"Chrome", allOf(containsAny("chrome"), not(containsAny("edg")))},
	{"Firefox", containsAny("firefox")},
	{"Safari", allOf(containsAny("safari"), not(containsAny("chrome")))},
	{"Edge", containsAny("edg")},
	{"Opera", containsAny("opera", "opr")},
}

func containsAny(subs ...string) func(string) bool {
	return func(ua string) bool {
		for _, s := range subs {
			if strings.Contains(ua, s) {
				return true
			}
		}
		return false
	}
}

func allOf(preds ...func(string) bool) func(string) bool {
	return func(ua string) bool {
		for _, p := range preds {
			if !p(ua) {
				return false
			}
		}
		return true
	}
}

func not(pred func(string) bool) func(string) bool {
	return func(ua string) bool { return !pred(ua) }
}

func firstMatch(rules []uaRule, ua, fallback string) string {
	for _, r := range rules {
		if r.match(ua) {
			return r.label
		}
	}
	return fallback
}

// ClassifyDevice derives the device record for an event. The rule tables
// alone decide type, OS and browser; the user_agent parser only contributes
// the bot flag and, when it agrees on the browser name, its version.
func ClassifyDevice(userAgent, screenSize string) models.DeviceInfo {
	ua := strings.ToLower(userAgent)

	info := models.DeviceInfo{
		Type:       firstMatch(deviceTypeRules, ua, DeviceDesktop),
		OS:         firstMatch(osRules, ua, unknownLabel),
		Browser:    firstMatch(browserRules, ua, unknownLabel),
		ScreenSize: strings.TrimSpace(screenSize),
	}
	if info.ScreenSize == "" {
		info.ScreenSize = unknownScreenSize
	}

	if userAgent != "" {
		parsed := user_agent.New(userAgent)
		info.Bot = parsed.Bot()
		name, version := parsed.Browser()
		if strings.EqualFold(name, info.Browser) {
			info.BrowserVersion = version
		}
	}

	return info
}
