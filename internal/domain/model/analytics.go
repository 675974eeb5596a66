package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Overview holds the headline visitor counts.
type Overview struct {
	TotalVisitors  int `json:"total_visitors"`
	ActiveToday    int `json:"active_today"`
	TotalPageviews int `json:"total_pageviews"`
}

// DailyStat is the pageview count of one day.
type DailyStat struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// TopPage is a path ranked by pageviews.
type TopPage struct {
	Path  string `json:"path"`
	Views int    `json:"views"`
}

// DashboardStats is the backend-computed analytics aggregate.
type DashboardStats struct {
	Overview   Overview    `json:"overview"`
	DailyStats []DailyStat `json:"daily_stats"`
	TopPages   []TopPage   `json:"top_pages"`
}

// PageView is one recorded page hit of a visitor.
type PageView struct {
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
	Method    string    `json:"method"`
	Referrer  string    `json:"referrer"`
}

// Visitor is one tracked visitor as listed on the admin dashboard.
type Visitor struct {
	ID         int64      `json:"id"`
	SessionKey string     `json:"session_key"`
	RemoteIP   string     `json:"remote_ip"`
	IPAddress  string     `json:"ip_address"`
	IsOnline   bool       `json:"is_online"`
	DeviceType string     `json:"device_type"`
	Location   string     `json:"location"`
	UserAgent  string     `json:"user_agent"`
	FirstVisit time.Time  `json:"first_visit"`
	LastVisit  time.Time  `json:"last_visit"`
	PageViews  []PageView `json:"page_views"`
}

// IP returns whichever address field the backend populated.
func (v Visitor) IP() string {
	if v.RemoteIP != "" {
		return v.RemoteIP
	}
	return v.IPAddress
}

// Device returns the device type or "Unknown".
func (v Visitor) Device() string {
	if v.DeviceType == "" {
		return "Unknown"
	}
	return v.DeviceType
}

// VisitorList decodes either a bare JSON array of visitors or a paginated
// {"results": [...]} envelope.
type VisitorList []Visitor

// UnmarshalJSON implements json.Unmarshaler.
func (l *VisitorList) UnmarshalJSON(data []byte) error {
	var plain []Visitor
	if err := json.Unmarshal(data, &plain); err == nil {
		*l = plain
		return nil
	}

	var page struct {
		Results []Visitor `json:"results"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return fmt.Errorf("decode visitor list: %w", err)
	}
	*l = page.Results
	return nil
}

// TrackEvent is the payload of the page-view tracking call.
// ClientIP identifies the visitor to the backend and travels as a header,
// not in the body.
type TrackEvent struct {
	Path      string `json:"path"`
	Referrer  string `json:"referrer"`
	UserAgent string `json:"user_agent,omitempty"`
	ClientIP  string `json:"-"`
}
