package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/hamed0406/upmonitor/internal/domain"
	"github.com/hamed0406/upmonitor/internal/status"
	"github.com/hamed0406/upmonitor/internal/view"
)

const timeLayout = "2006-01-02 15:04:05"

func renderList(w io.Writer, snap view.ListSnapshot) {
	switch {
	case snap.Loading:
		fmt.Fprintln(w, "Loading websites…")
		return
	case snap.Empty() && snap.Stale():
		fmt.Fprintf(w, "Could not load websites: %v\n", snap.LastError)
		return
	case snap.Empty():
		fmt.Fprintln(w, "No websites yet. Add one with: dashboard add <url>")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tURL\tRESPONSE\tUPTIME\tLAST CHECKED\tHISTORY\tID")
	for _, ws := range snap.Websites {
		d := ws.Derived
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			d.Current, ws.Website.URL, status.Latency(d), status.Percent(d),
			d.LastCheckedAt.Local().Format(timeLayout), strip(d.Window), ws.Website.ID)
	}
	_ = tw.Flush()
	footer(w, snap.LastSyncedAt, snap.LastError)
}

func renderDetail(w io.Writer, snap view.DetailSnapshot) {
	switch {
	case snap.Loading:
		fmt.Fprintln(w, "Loading website…")
		return
	case snap.NotFound():
		fmt.Fprintln(w, "Website not found.")
		return
	}

	ws := snap.Website
	d := ws.Derived
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "URL\t%s\n", ws.Website.URL)
	fmt.Fprintf(tw, "Status\t%s\n", d.Current)
	fmt.Fprintf(tw, "Response time\t%s\n", status.Latency(d))
	fmt.Fprintf(tw, "Uptime (last %d)\t%s\n", status.UptimeWindow, status.Percent(d))
	fmt.Fprintf(tw, "Last checked\t%s\n", d.LastCheckedAt.Local().Format(timeLayout))
	if !ws.Website.CreatedAt.IsZero() {
		fmt.Fprintf(tw, "Monitoring since\t%s\n", ws.Website.CreatedAt.Local().Format(timeLayout))
	}
	_ = tw.Flush()

	if len(ws.Website.Ticks) == 0 {
		fmt.Fprintln(w, "\nNo checks yet.")
	} else {
		fmt.Fprintf(w, "\nRecent checks (%d)\n", len(ws.Website.Ticks))
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TIME\tSTATUS\tRESPONSE")
		for _, t := range ws.Website.Ticks {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", t.CreatedAt.Local().Format(timeLayout), t.Status, status.TickLatency(t))
		}
		_ = tw.Flush()
	}
	footer(w, snap.LastSyncedAt, snap.LastError)
}

// strip draws the uptime window oldest to newest, one mark per tick.
func strip(window []domain.Tick) string {
	if len(window) == 0 {
		return "-"
	}
	var b strings.Builder
	for i := len(window) - 1; i >= 0; i-- {
		if window[i].Status == domain.TickUp {
			b.WriteString("▲")
		} else {
			b.WriteString("▼")
		}
	}
	return b.String()
}

func footer(w io.Writer, syncedAt time.Time, err error) {
	if err != nil {
		fmt.Fprintf(w, "\n⚠ data may be stale, last refresh failed: %v\n", err)
	}
	if !syncedAt.IsZero() {
		fmt.Fprintf(w, "Updated %s\n", syncedAt.Local().Format(timeLayout))
	}
}
