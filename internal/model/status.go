package model

import "fmt"

// Status is the column a task belongs to.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusDone      Status = "done"
)

// Statuses lists the board columns in display order.
var Statuses = []Status{StatusPending, StatusCompleted, StatusDone}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Index returns the column position of s, or -1 for an unknown status.
func (s Status) Index() int {
	for i, v := range Statuses {
		if v == s {
			return i
		}
	}
	return -1
}

// Next returns the column to the right of s, or s itself at the edge.
func (s Status) Next() Status {
	i := s.Index()
	if i < 0 || i == len(Statuses)-1 {
		return s
	}
	return Statuses[i+1]
}

// Prev returns the column to the left of s, or s itself at the edge.
func (s Status) Prev() Status {
	i := s.Index()
	if i <= 0 {
		return s
	}
	return Statuses[i-1]
}

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}
