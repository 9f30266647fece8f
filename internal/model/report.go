package model

import (
	"errors"
	"fmt"
	"io"
	"sort"
)

// ErrNoData reports that zero valid records were aggregated, so the
// average and the timestamp bounds are undefined. Callers surface this
// explicitly instead of rendering sentinel values as if they were data.
var ErrNoData = errors.New("no records aggregated")

// Reports render timestamps without the implied year.
const timestampLayout = "01/02 15:04:05"

// Report is the final merged result set: the overall scope plus one scope
// per distinct host.
type Report struct {
	Overall *Stats
	PerHost map[string]*Stats
	Skipped uint64 // malformed lines dropped across all shards
}

// WriteTab renders the report as a tab-delimited table: header row, the
// Overall row, then one row per host. Hosts are sorted so the same data
// always produces identical bytes regardless of worker count or batch
// size. Returns ErrNoData when the report holds no records.
func (r *Report) WriteTab(w io.Writer) error {
	if r.Overall == nil || r.Overall.Count == 0 {
		return ErrNoData
	}

	if _, err := fmt.Fprintln(w, "Host\tEmergency_Alert\tOldest_Msg\tNewest_Msg\tAvg_Msg_Length"); err != nil {
		return err
	}
	if err := writeRow(w, "Overall", r.Overall); err != nil {
		return err
	}

	hosts := make([]string, 0, len(r.PerHost))
	for host := range r.PerHost {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)

	for _, host := range hosts {
		if err := writeRow(w, host, r.PerHost[host]); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(w io.Writer, scope string, s *Stats) error {
	_, err := fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%.1f\n",
		scope,
		s.Alerts,
		s.Oldest.Format(timestampLayout),
		s.Newest.Format(timestampLayout),
		s.AverageLength(),
	)
	return err
}
