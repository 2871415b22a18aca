// Package model defines the domain types used across the application.
package model

import "encoding/json"

// RawResponse is the decoded top-level object returned by the homework API.
// Values are kept raw so that field presence and shape can be validated.
type RawResponse map[string]json.RawMessage

// RawHomework is a single entry of the "homeworks" list, kept raw for the same reason.
type RawHomework map[string]json.RawMessage

// Response field names.
const (
	FieldHomeworks   = "homeworks"
	FieldCurrentDate = "current_date"
)

// Homework field names.
const (
	FieldHomeworkName = "homework_name"
	FieldStatus       = "status"
)

// Status is the review status code of a homework.
type Status string

// Supported statuses.
const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

var verdicts = map[Status]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Verdict returns the human-readable text for the status.
func (s Status) Verdict() (string, bool) {
	v, ok := verdicts[s]
	return v, ok
}

// Homework is a validated homework entry.
type Homework struct {
	Name   string
	Status Status
}
