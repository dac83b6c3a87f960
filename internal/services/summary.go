package services

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"linkbio/internal/models"
)

const (
	TopLinksLimit    = 10
	UnknownLinkTitle = "Unknown Link"
	directReferrer   = "Direct"
)

// LinkStat is one row of the top-links ranking.
//
// Views is the page's total view count, not a per-link figure: page views
// are not attributed to links, so every row repeats the same number and it
// overstates each link's reach. Dashboards rely on it being exactly
// TotalViews.
type LinkStat struct {
	LinkID string `json:"linkId"`
	Title  string `json:"title"`
	Clicks int    `json:"clicks"`
	Views  int    `json:"views"`
}

// AnalyticsSummary is derived from a set of events and never stored.
type AnalyticsSummary struct {
	TotalViews  int `json:"totalViews"`
	TotalClicks int `json:"totalClicks"`
	// UniqueVisitors counts distinct (user agent, country) pairs. It is a
	// fingerprint heuristic, not an identity, and may be off in either
	// direction.
	UniqueVisitors int `json:"uniqueVisitors"`
	// CTR is clicks per hundred views, unrounded.
	CTR      float64    `json:"ctr"`
	TopLinks []LinkStat `json:"topLinks"`
}

// Summarize computes the summary of events, which must all belong to one
// page and be in insertion order. It does not modify events and returns the
// same result for the same input.
func Summarize(events []models.AnalyticsEvent) AnalyticsSummary {
	var totalViews int
	var clicks []*models.AnalyticsEvent
	visitors := make(map[string]struct{})

	for i := range events {
		e := &events[i]
		switch e.EventType {
		case models.EventPageView:
			totalViews++
		case models.EventLinkClick:
			clicks = append(clicks, e)
		}
		if e.UserAgent != "" || e.Geo.Country != "" {
			visitors[e.UserAgent+"\x00"+e.Geo.Country] = struct{}{}
		}
	}

	// Groups keep first-seen order so the stable sort breaks ties by it.
	var order []string
	groups := make(map[string]*LinkStat)
	for _, e := range clicks {
		var id string
		if e.LinkID != nil {
			id = *e.LinkID
		}
		stat, ok := groups[id]
		if !ok {
			title := UnknownLinkTitle
			if e.Link != nil && e.Link.Title != "" {
				title = e.Link.Title
			}
			stat = &LinkStat{LinkID: id, Title: title}
			groups[id] = stat
			order = append(order, id)
		}
		stat.Clicks++
	}

	topLinks := make([]LinkStat, 0, len(order))
	for _, id := range order {
		stat := *groups[id]
		stat.Views = totalViews
		topLinks = append(topLinks, stat)
	}
	sort.SliceStable(topLinks, func(i, j int) bool {
		return topLinks[i].Clicks > topLinks[j].Clicks
	})
	if len(topLinks) > TopLinksLimit {
		topLinks = topLinks[:TopLinksLimit]
	}

	var ctr float64
	if totalViews > 0 {
		ctr = (float64(len(clicks)) / float64(totalViews)) * 100
	}

	return AnalyticsSummary{
		TotalViews:     totalViews,
		TotalClicks:    len(clicks),
		UniqueVisitors: len(visitors),
		CTR:            ctr,
		TopLinks:       topLinks,
	}
}

// Breakdown counts events by the derived device and geo fields and by
// referrer host.
type Breakdown struct {
	Devices   map[string]int `json:"devices"`
	OS        map[string]int `json:"os"`
	Browsers  map[string]int `json:"browsers"`
	Countries map[string]int `json:"countries"`
	Referrers map[string]int `json:"referrers"`
}

func Breakdowns(events []models.AnalyticsEvent) Breakdown {
	b := Breakdown{
		Devices:   make(map[string]int),
		OS:        make(map[string]int),
		Browsers:  make(map[string]int),
		Countries: make(map[string]int),
		Referrers: make(map[string]int),
	}
	for i := range events {
		e := &events[i]
		b.Devices[orUnknown(e.Device.Type)]++
		b.OS[orUnknown(e.Device.OS)]++
		b.Browsers[orUnknown(e.Device.Browser)]++
		b.Countries[orUnknown(e.Geo.Country)]++
		b.Referrers[referrerHost(e.Referrer)]++
	}
	return b
}

// DailyStat holds one local calendar day of views and clicks.
type DailyStat struct {
	Date   string `json:"date"`
	Views  int    `json:"views"`
	Clicks int    `json:"clicks"`
}

// DailySeries buckets events by calendar day in loc, ascending by date.
// Days without events are omitted.
func DailySeries(events []models.AnalyticsEvent, loc *time.Location) []DailyStat {
	if loc == nil {
		loc = time.UTC
	}
	byDay := make(map[string]*DailyStat)
	for i := range events {
		e := &events[i]
		day := e.Timestamp.In(loc).Format("2006-01-02")
		stat, ok := byDay[day]
		if !ok {
			stat = &DailyStat{Date: day}
			byDay[day] = stat
		}
		switch e.EventType {
		case models.EventPageView:
			stat.Views++
		case models.EventLinkClick:
			stat.Clicks++
		}
	}

	series := make([]DailyStat, 0, len(byDay))
	for _, stat := range byDay {
		series = append(series, *stat)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series
}

func orUnknown(s string) string {
	if s == "" {
		return unknownLabel
	}
	return s
}

func referrerHost(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return directReferrer
	}
	u, err := url.Parse(ref)
	if err != nil || u.Hostname() == "" {
		return ref
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
