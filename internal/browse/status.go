package browse

// StatusKind distinguishes informational notices from failures.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusError
)

// Status is a dismissible, user-visible message.
type Status struct {
	Text string
	Kind StatusKind
}

// IsZero reports whether no status is set
func (s Status) IsZero() bool {
	return s.Text == ""
}

// IsError reports whether the status describes a failure
func (s Status) IsError() bool {
	return s.Kind == StatusError && s.Text != ""
}

func infoStatus(text string) Status {
	return Status{Text: text, Kind: StatusInfo}
}

func errorStatus(text string) Status {
	return Status{Text: text, Kind: StatusError}
}
