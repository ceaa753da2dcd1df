package order

import (
	"strings"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
)

type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusInTransit  Status = "InTransit"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// transitions lists the statuses reachable from each status. A status may
// always move to itself.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusInTransit, StatusDelivered, StatusCancelled},
	StatusProcessing: {StatusInTransit, StatusDelivered, StatusCancelled},
	StatusInTransit:  {StatusDelivered, StatusCancelled},
	StatusDelivered:  nil,
	StatusCancelled:  nil,
}

// Statuses returns every known status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusProcessing, StatusInTransit, StatusDelivered, StatusCancelled}
}

// ParseStatus accepts any casing and the "In-Transit"/"in_transit" spellings.
func ParseStatus(raw string) (Status, error) {
	norm := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.TrimSpace(raw))
	for _, s := range Statuses() {
		if strings.EqualFold(norm, string(s)) {
			return s, nil
		}
	}
	return "", apperr.Invalid("unknown order status " + strings.TrimSpace(raw))
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// CanTransitionTo reports whether next is reachable from s.
func (s Status) CanTransitionTo(next Status) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}
