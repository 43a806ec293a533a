package sessions

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grovetools/sessionlog/errors"
	"github.com/grovetools/sessionlog/logging"
	"github.com/sirupsen/logrus"
)

// Policy decides what happens to surplus active records of a group.
type Policy string

const (
	// PolicyDemote rewrites surplus records as completed at the run time.
	PolicyDemote Policy = "demote"
	// PolicyDiscard drops surplus records from the log.
	PolicyDiscard Policy = "discard"
)

// ParsePolicy accepts the policy names used in flags and config.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "demote", "demote_to_completed", "complete":
		return PolicyDemote, nil
	case "discard", "drop":
		return PolicyDiscard, nil
	}
	return "", errors.InvalidInput(fmt.Sprintf("unknown duplicate policy %q (want demote or discard)", s))
}

// TimestampPolicy decides how records whose Started value is unusable are
// ordered inside a group.
type TimestampPolicy string

const (
	// TimestampsOldest orders unusable timestamps after every parsed one.
	TimestampsOldest TimestampPolicy = "oldest"
	// TimestampsNow substitutes the run time for unparseable values, as the
	// legacy scripts did. Missing values still sort oldest.
	TimestampsNow TimestampPolicy = "now"
	// TimestampsStrict aborts the run on a malformed Started value.
	TimestampsStrict TimestampPolicy = "strict"
)

// ParseTimestampPolicy accepts the timestamp policy names used in flags and config.
func ParseTimestampPolicy(s string) (TimestampPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "oldest":
		return TimestampsOldest, nil
	case "now":
		return TimestampsNow, nil
	case "strict":
		return TimestampsStrict, nil
	}
	return "", errors.InvalidInput(fmt.Sprintf("unknown timestamp policy %q (want oldest, now or strict)", s))
}

// Group is the set of active records sharing one identity key, newest first.
type Group struct {
	Key     Key
	Members []Record
}

// Kept returns the representative of the group.
func (g Group) Kept() Record {
	return g.Members[0]
}

// Surplus returns every member except the representative.
func (g Group) Surplus() []Record {
	return g.Members[1:]
}

// NewerFunc reports whether a started after b.
type NewerFunc func(a, b Record) bool

// NewestFirst orders records by Started under the given policy.
func NewestFirst(policy TimestampPolicy, now time.Time) NewerFunc {
	effective := func(r Record) (time.Time, bool) {
		if r.Started.Valid {
			return r.Started.Time, true
		}
		if policy == TimestampsNow && !r.Started.Missing() {
			return now, true
		}
		return time.Time{}, false
	}
	return func(a, b Record) bool {
		ta, okA := effective(a)
		tb, okB := effective(b)
		if okA && okB {
			return ta.After(tb)
		}
		return okA && !okB
	}
}

// GroupActive groups active records by key. Groups come back in order of
// first appearance, members sorted newest first with ties kept in input
// order. Records with an incomplete key are returned as ungrouped.
func GroupActive(active []Record, newer NewerFunc) (groups []Group, ungrouped []Record) {
	index := make(map[Key]int)
	for _, r := range active {
		key := r.Key()
		if !key.Complete() {
			ungrouped = append(ungrouped, r)
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Members = append(groups[i].Members, r)
	}

	for i := range groups {
		members := groups[i].Members
		sort.SliceStable(members, func(a, b int) bool {
			return newer(members[a], members[b])
		})
	}
	return groups, ungrouped
}

// Options configures a Deduplicator.
type Options struct {
	OnDuplicate Policy
	Timestamps  TimestampPolicy
	// Now returns the run time. Defaults to time.Now.
	Now    func() time.Time
	Logger *logrus.Entry
}

// Report summarises one deduplication run.
type Report struct {
	RunID                 string   `json:"run_id"`
	Policy                Policy   `json:"policy"`
	ActiveBefore          int      `json:"active_before"`
	ActiveAfter           int      `json:"active_after"`
	Groups                int      `json:"groups"`
	Ungrouped             int      `json:"ungrouped"`
	Demoted               int      `json:"demoted"`
	Discarded             int      `json:"discarded"`
	Passthrough           int      `json:"passthrough"`
	CompletedTotal        int      `json:"completed_total"`
	UnparseableTimestamps int      `json:"unparseable_timestamps"`
	DemotedRecords        []Record `json:"demoted_records,omitempty"`
	DiscardedRecords      []Record `json:"discarded_records,omitempty"`
}

// Result is the rewritten log plus its report.
type Result struct {
	Output  string
	Report  Report
	Changed bool
}

// Deduplicator removes duplicate active sessions from a sessions log.
type Deduplicator struct {
	policy     Policy
	timestamps TimestampPolicy
	now        func() time.Time
	logger     *logrus.Entry
}

// NewDeduplicator creates a Deduplicator, filling in defaults.
func NewDeduplicator(opts Options) *Deduplicator {
	d := &Deduplicator{
		policy:     opts.OnDuplicate,
		timestamps: opts.Timestamps,
		now:        opts.Now,
		logger:     opts.Logger,
	}
	if d.policy == "" {
		d.policy = PolicyDemote
	}
	if d.timestamps == "" {
		d.timestamps = TimestampsOldest
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.logger == nil {
		d.logger = logging.NewLogger("sessions")
	}
	return d
}

// Policy returns the duplicate policy in effect.
func (d *Deduplicator) Policy() Policy {
	return d.policy
}

// Deduplicate rewrites content so each identity key has one active record.
func (d *Deduplicator) Deduplicate(content string) (*Result, error) {
	now := d.now().UTC()
	report := Report{RunID: uuid.New().String(), Policy: d.policy}
	log := d.logger.WithField("run_id", report.RunID)

	records := ParseRecords(content)
	active, passthrough := Classify(records)
	report.ActiveBefore = len(active)
	report.Passthrough = len(passthrough)

	for _, r := range active {
		if r.Started.Valid {
			continue
		}
		report.UnparseableTimestamps++
		if r.Started.Missing() {
			log.WithField("session", r.Session).Warn("Active session has no Started timestamp")
			continue
		}
		if d.timestamps == TimestampsStrict {
			return nil, errors.MalformedTimestamp("started", r.Started.Raw, r.Session)
		}
		log.WithFields(logrus.Fields{
			"session": r.Session,
			"value":   r.Started.Raw,
			"policy":  d.timestamps,
		}).Warn("Unparseable Started timestamp")
	}

	groups, ungrouped := GroupActive(active, NewestFirst(d.timestamps, now))
	report.Groups = len(groups)
	report.Ungrouped = len(ungrouped)

	byKey := make(map[Key]Group, len(groups))
	for _, g := range groups {
		byKey[g.Key] = g
	}

	var activeBlocks []string
	emitted := make(map[Key]bool, len(groups))
	for _, r := range active {
		key := r.Key()
		if !key.Complete() {
			activeBlocks = append(activeBlocks, Block(r))
			continue
		}
		if emitted[key] {
			continue
		}
		emitted[key] = true
		activeBlocks = append(activeBlocks, Block(byKey[key].Kept()))
	}
	report.ActiveAfter = len(activeBlocks)

	var demotedBlocks []string
	for _, g := range groups {
		for _, r := range g.Surplus() {
			switch d.policy {
			case PolicyDiscard:
				report.DiscardedRecords = append(report.DiscardedRecords, r)
			default:
				demoted := Demote(r, now)
				report.DemotedRecords = append(report.DemotedRecords, demoted)
				demotedBlocks = append(demotedBlocks, Block(demoted))
			}
		}
	}
	report.Demoted = len(report.DemotedRecords)
	report.Discarded = len(report.DiscardedRecords)

	blocks := make([]string, 0, len(records))
	blocks = append(blocks, activeBlocks...)
	blocks = append(blocks, demotedBlocks...)
	for _, r := range passthrough {
		if r.IsCompleted() {
			report.CompletedTotal++
		}
		blocks = append(blocks, Block(r))
	}
	report.CompletedTotal += report.Demoted

	output := Render(blocks)
	log.WithFields(logrus.Fields{
		"active_before": report.ActiveBefore,
		"active_after":  report.ActiveAfter,
		"demoted":       report.Demoted,
		"discarded":     report.Discarded,
	}).Debug("Deduplication finished")

	return &Result{
		Output:  output,
		Report:  report,
		Changed: output != content,
	}, nil
}
