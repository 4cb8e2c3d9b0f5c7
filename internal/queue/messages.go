package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type MessageKind string

const (
	KindJobAssigned      MessageKind = "job_assigned"
	KindJobStatusChanged MessageKind = "job_status_changed"
)

var (
	ErrInvalidKind    = errors.New("invalid message kind")
	ErrInvalidPayload = errors.New("invalid message payload")
)

// check to see if the kind is a known constant

func (k MessageKind) IsValid() bool {
	switch k {
	case KindJobAssigned, KindJobStatusChanged:
		return true
	default:
		return false
	}
}

// Message is one unit of work on the notification queue. Payloads stay
// ID-based and minimal; the worker does not need to reload anything.
type Message struct {
	ID         string          `json:"id"`
	Kind       MessageKind     `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueuedAt"`
	RequestID  string          `json:"requestId,omitempty"`
}

type JobAssignedPayload struct {
	JobID      string `json:"jobId"`
	ClientName string `json:"clientName"`
	DriverID   string `json:"driverId"`
	DueDate    string `json:"dueDate"`
}

type JobStatusChangedPayload struct {
	JobID     string `json:"jobId"`
	DriverID  string `json:"driverId,omitempty"`
	OldStatus string `json:"oldStatus"`
	NewStatus string `json:"newStatus"`
}

func EncodePayload(k MessageKind, payload any) ([]byte, error) {
	if !k.IsValid() {
		return nil, ErrInvalidKind
	}

	switch k {
	case KindJobAssigned:
		switch payload.(type) {
		case JobAssignedPayload, *JobAssignedPayload:
		default:
			return nil, ErrInvalidPayload
		}

	case KindJobStatusChanged:
		switch payload.(type) {
		case JobStatusChangedPayload, *JobStatusChangedPayload:
		default:
			return nil, ErrInvalidPayload
		}
	}

	b, err := json.Marshal(payload)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	return b, nil
}

// DecodePayload unmarshals msg.Payload into the correct typed payload struct.
func DecodePayload(msg Message) (any, error) {
	if !msg.Kind.IsValid() {
		return nil, ErrInvalidKind
	}
	if len(msg.Payload) == 0 {
		return nil, ErrInvalidPayload
	}

	switch msg.Kind {
	case KindJobAssigned:
		var p JobAssignedPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return p, nil

	case KindJobStatusChanged:
		var p JobStatusChangedPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return p, nil

	default:
		return nil, ErrInvalidKind
	}
}
