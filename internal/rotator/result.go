package rotator

// Action is what happened to a token after the operator decided.
type Action int

const (
	ActionNone Action = iota
	ActionRotated
	ActionDeleted
	ActionIgnored
)

func (a Action) String() string {
	switch a {
	case ActionRotated:
		return "rotated"
	case ActionDeleted:
		return "deleted"
	case ActionIgnored:
		return "ignored"
	default:
		return "none"
	}
}

// Outcome is the result of resolving a single token. Changed is true only
// when a new secret was issued that has to be distributed.
type Outcome struct {
	Action  Action
	Changed bool
}

// Result aggregates outcomes over one or more traversals.
type Result struct {
	Changed bool

	Rotated int
	Deleted int
	Ignored int
	// Skipped counts due tokens passed over at an "ignore all" gate.
	Skipped int
}

// Merge combines two results. Changed is or-ed so it never goes back to
// false.
func (r Result) Merge(o Result) Result {
	return Result{
		Changed: r.Changed || o.Changed,
		Rotated: r.Rotated + o.Rotated,
		Deleted: r.Deleted + o.Deleted,
		Ignored: r.Ignored + o.Ignored,
		Skipped: r.Skipped + o.Skipped,
	}
}

// Shown is the number of tokens the operator was asked about.
func (r Result) Shown() int {
	return r.Rotated + r.Deleted + r.Ignored
}

func (r *Result) record(o Outcome) {
	switch o.Action {
	case ActionRotated:
		r.Rotated++
	case ActionDeleted:
		r.Deleted++
	case ActionIgnored:
		r.Ignored++
	}
	if o.Changed {
		r.Changed = true
	}
}
