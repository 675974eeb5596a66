// Package pages contains one templ component per routed page.
package pages

import (
	"fmt"
	"strconv"
	"time"

	"github.com/a-h/templ"

	vm "github.com/ericfisherdev/folio/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/folio/internal/domain/model"
)

// skillFallbackGlyph stands in for skills without a known logo.
const skillFallbackGlyph = "◈"

// NotFound renders the 404 page.
func NotFound() templ.Component {
	return Error(vm.ErrorViewModel{
		Status:  404,
		Heading: "Pipeline Deployment Failed.",
		Message: "The resource you are looking for has been de-provisioned or never existed.",
	})
}

func contactButtonLabel(state model.FormState) string {
	switch state {
	case model.FormStateSuccess:
		return "Message Received!"
	case model.FormStateFailure:
		return "Failed. Try Again."
	default:
		return "Send Message"
	}
}

func projectsSummary(data vm.ProjectsViewModel) string {
	s := fmt.Sprintf("Showing %d of %d projects", data.Shown, data.Total)
	if data.Latency != "" {
		s += " · API latency " + data.Latency
	}
	return s
}

func postByline(p vm.BlogCardViewModel) string {
	if p.ReadTime <= 0 {
		return p.Date
	}
	return p.Date + " · " + strconv.Itoa(p.ReadTime) + " min read"
}

func sessionLine(data vm.DashboardViewModel) string {
	s := "Signed in"
	if data.Subject != "" {
		s += " as " + data.Subject
	}
	if !data.ExpiresAt.IsZero() {
		s += " · token expires " + data.ExpiresAt.Local().Format(time.DateTime)
	}
	if !data.Persistent {
		s += " · session is not persisted"
	}
	return s
}

func dayTitle(d vm.DailyViewModel) string {
	return d.Day + ": " + strconv.Itoa(d.Count)
}

// barStyle sizes a chart bar along one axis as a percentage.
func barStyle(axis string, percent int) templ.SafeCSS {
	return templ.SafeCSS(fmt.Sprintf("%s: %d%%", axis, percent))
}

func upDown(ok bool) string {
	if ok {
		return "up"
	}
	return "down"
}

type statusRow struct {
	label, value string
}

// statusRows lists the populated health fields in display order.
func statusRows(data vm.StatusViewModel) []statusRow {
	all := []statusRow{
		{"Latency", data.Latency},
		{"Version", data.Version},
		{"Region", data.Region},
		{"Database", data.Database},
		{"Commit", data.Commit},
	}
	rows := all[:0]
	for _, r := range all {
		if r.value != "" {
			rows = append(rows, r)
		}
	}
	return rows
}
