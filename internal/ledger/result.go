package ledger

import "time"

// Status summarizes a pass.
type Status int

const (
	StatusOK      Status = iota // every group written
	StatusPartial               // some groups written, some skipped
	StatusFailed                // no group written
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusPartial:
		return "partial"
	default:
		return "failed"
	}
}

// ExitCode maps the status to a process exit code.
func (s Status) ExitCode() int {
	switch s {
	case StatusOK:
		return 0
	case StatusPartial:
		return 2
	default:
		return 1
	}
}

// Result counts what a pass did.
type Result struct {
	Groups    int // auction houses found in the realm directory
	Succeeded int
	Failed    int
	Realms    int // realms listed in realms.json
	Auctions  int // auctions in written groups
	Duration  time.Duration
}

// Status derives the pass status. An empty realm directory is a success.
func (r Result) Status() Status {
	switch {
	case r.Failed == 0 && r.Succeeded == r.Groups:
		return StatusOK
	case r.Succeeded > 0:
		return StatusPartial
	default:
		return StatusFailed
	}
}
