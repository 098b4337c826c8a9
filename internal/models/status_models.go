package models

// Status tracks one async collection. The zero value is idle.
type Status struct {
	Loading bool   `json:"loading"`
	Err     string `json:"error,omitempty"`
}

func (s Status) Idle() bool { return !s.Loading && s.Err == "" }
