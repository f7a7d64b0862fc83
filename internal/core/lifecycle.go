package core

// State is the soft-delete lifecycle of reference and planning entities.
type State string

const (
	Active   State = "ACTIVE"
	Inactive State = "INACTIVE"
)

// StateOf maps the stored active flag to a State.
func StateOf(active bool) State {
	if active {
		return Active
	}
	return Inactive
}

func (s State) IsActive() bool { return s == Active }

// Visibility is passed explicitly to every listing query so inactive rows
// never leak into default views by accident.
type Visibility int

const (
	ActiveOnly Visibility = iota
	IncludeInactive
)

// Admits reports whether an entity in state s belongs in a listing.
func (v Visibility) Admits(s State) bool {
	return v == IncludeInactive || s == Active
}

// ParseVisibility reads the ?include_inactive query flag.
func ParseVisibility(flag string) Visibility {
	switch flag {
	case "1", "true", "yes":
		return IncludeInactive
	default:
		return ActiveOnly
	}
}
