package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/MKhiriev/resource-sync/internal/service"
	"github.com/MKhiriev/resource-sync/models"
)

const progressBarWidth = 20

// printer renders statuses, outcomes and job state for humans, or as one
// JSON document per line.
type printer struct {
	out   io.Writer
	plain bool
	json  bool
}

func newPrinter(cmd *cli.Command) *printer {
	root := cmd.Root()
	return &printer{
		out:   root.Writer,
		plain: root.Bool("no-color"),
		json:  root.Bool("json"),
	}
}

type statusView struct {
	Kind      string     `json:"kind"`
	Operation string     `json:"operation,omitempty"`
	Total     *int       `json:"total,omitempty"`
	Completed *int       `json:"completed,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Errors    []string   `json:"errors,omitempty"`
}

type stateView struct {
	JobID        string      `json:"job_id"`
	LastStatus   *statusView `json:"last_status,omitempty"`
	LastSyncedAt *time.Time  `json:"last_synced_at,omitempty"`
	Attempts     int         `json:"attempts"`
}

type outcomeView struct {
	Result     string `json:"result"`
	RetryAfter string `json:"retry_after,omitempty"`
}

func newStatusView(s models.SyncJobStatus) statusView {
	v := statusView{Kind: s.Kind.String()}
	switch s.Kind {
	case models.StatusInProgress:
		v.Operation = string(s.Operation)
		completed := s.Completed
		v.Completed = &completed
		if s.HasTotal() {
			total := s.Total
			v.Total = &total
		}
	case models.StatusSucceeded, models.StatusFailed:
		ts := s.Timestamp
		v.Timestamp = &ts
		for _, err := range s.Errors {
			v.Errors = append(v.Errors, err.Error())
		}
	}
	return v
}

func (p *printer) render(style lipgloss.Style, s string) string {
	if p.plain {
		return s
	}
	return style.Render(s)
}

func (p *printer) line(style lipgloss.Style, s string) {
	fmt.Fprintln(p.out, p.render(style, s))
}

func (p *printer) writeJSON(v any) {
	_ = json.NewEncoder(p.out).Encode(v)
}

// status prints one status of a sync run.
func (p *printer) status(s models.SyncJobStatus) {
	if p.json {
		p.writeJSON(newStatusView(s))
		return
	}

	switch s.Kind {
	case models.StatusStarted:
		p.line(titleStyle, "sync started")
	case models.StatusInProgress:
		fmt.Fprintln(p.out, p.progressLine(s))
	case models.StatusSucceeded:
		p.line(successStyle, "sync succeeded at "+s.Timestamp.Format(time.RFC3339))
	case models.StatusFailed:
		p.line(errorStyle, "sync failed at "+s.Timestamp.Format(time.RFC3339))
		for _, err := range s.Errors {
			p.line(errorStyle, "  - "+err.Error())
		}
	}
}

func (p *printer) progressLine(s models.SyncJobStatus) string {
	op := strings.ToLower(string(s.Operation))
	if !s.HasTotal() || s.Total == 0 {
		return fmt.Sprintf("%-8s %d done", op, s.Completed)
	}

	filled := progressBarWidth * s.Completed / s.Total
	if filled > progressBarWidth {
		filled = progressBarWidth
	}
	bar := "[" + strings.Repeat("=", filled) + strings.Repeat(" ", progressBarWidth-filled) + "]"
	return fmt.Sprintf("%-8s %s %d/%d", op, p.render(barStyle, bar), s.Completed, s.Total)
}

func (p *printer) outcome(o service.JobOutcome) {
	if p.json {
		v := outcomeView{Result: o.Result.String()}
		if o.RetryAfter > 0 {
			v.RetryAfter = o.RetryAfter.String()
		}
		p.writeJSON(v)
		return
	}

	style := successStyle
	if o.Result != service.JobSuccess {
		style = errorStyle
	}
	p.line(style, "result: "+o.Result.String())
}

// state prints the persisted state of a job.
func (p *printer) state(st models.SyncJobState) {
	v := stateView{JobID: st.JobID, LastSyncedAt: st.LastSyncedAt, Attempts: st.Attempts}
	if st.LastStatus != nil {
		last := newStatusView(*st.LastStatus)
		v.LastStatus = &last
	}

	if p.json {
		p.writeJSON(v)
		return
	}

	var b strings.Builder
	b.WriteString(p.render(titleStyle, "job "+v.JobID))
	b.WriteString("\nlast status: ")
	if v.LastStatus == nil {
		b.WriteString("none")
	} else {
		b.WriteString(v.LastStatus.Kind)
	}
	b.WriteString("\nlast synced: ")
	if v.LastSyncedAt == nil {
		b.WriteString("never")
	} else {
		b.WriteString(v.LastSyncedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "\nattempts: %d", v.Attempts)
	if v.LastStatus != nil {
		for _, e := range v.LastStatus.Errors {
			b.WriteString("\n")
			b.WriteString(p.render(errorStyle, "  - "+e))
		}
	}

	if p.plain {
		fmt.Fprintln(p.out, b.String())
		return
	}
	fmt.Fprintln(p.out, boxStyle.Render(b.String()))
}
