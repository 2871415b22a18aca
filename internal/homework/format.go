package homework

import (
	"bytes"
	"encoding/json"
	"fmt"

	"homework_bot/internal/failure"
	"homework_bot/internal/model"
)

// Parse extracts the name and status of a homework entry.
// An entry that is not a JSON object is a type mismatch.
func Parse(data json.RawMessage) (model.Homework, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return model.Homework{}, failure.Errorf(failure.KindTypeMismatch, "parse homework", "homework entry is not an object")
	}
	var entry model.RawHomework
	if err := json.Unmarshal(trimmed, &entry); err != nil {
		return model.Homework{}, failure.New(failure.KindTypeMismatch, "parse homework", err)
	}

	name, err := stringField(entry, model.FieldHomeworkName)
	if err != nil {
		return model.Homework{}, err
	}
	status, err := stringField(entry, model.FieldStatus)
	if err != nil {
		return model.Homework{}, err
	}
	return model.Homework{Name: name, Status: model.Status(status)}, nil
}

// Format builds the status-change notification for a homework entry.
func Format(entry json.RawMessage) (string, error) {
	hw, err := Parse(entry)
	if err != nil {
		return "", err
	}
	return Message(hw)
}

// Message renders the notification text for an already parsed homework.
func Message(hw model.Homework) (string, error) {
	verdict, ok := hw.Status.Verdict()
	if !ok {
		return "", failure.Errorf(failure.KindUnknownStatus, "format status",
			"unknown homework status %q", string(hw.Status))
	}
	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", hw.Name, verdict), nil
}

// FailureMessage renders the notification sent when an iteration fails.
func FailureMessage(err error) string {
	return fmt.Sprintf("Сбой в работе программы: %v", err)
}

func stringField(entry model.RawHomework, key string) (string, error) {
	data, ok := entry[key]
	if !ok {
		return "", failure.Errorf(failure.KindMissingField, "parse homework", "missing key %q", key)
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", failure.Errorf(failure.KindTypeMismatch, "parse homework", "%s is not a string", key)
	}
	return s, nil
}
