package reconcile

import (
	"regexp"
	"strconv"
	"strings"
)

// referencePrefix is the convention joining the two systems: StopSuite
// objects carry "shopify_<orderId>" where the order originated in Shopify.
const referencePrefix = "shopify_"

var notesPattern = regexp.MustCompile(`shopify_(\d+)`)

// Resolver extracts a Shopify order id from a completion event. Resolvers
// run in order; the first success wins. Each strategy is independently
// testable because the two systems share no durable foreign key and every
// extraction path has its own failure modes.
type Resolver interface {
	Name() string
	Resolve(event *Event) (int64, bool)
}

// eventReference reads the event-level external_reference field.
type eventReference struct{}

func (eventReference) Name() string { return "event_external_reference" }

func (eventReference) Resolve(event *Event) (int64, bool) {
	return parseReference(event.ExternalReference)
}

// stopReference reads the stop's own external_reference field.
type stopReference struct{}

func (stopReference) Name() string { return "stop_external_reference" }

func (stopReference) Resolve(event *Event) (int64, bool) {
	if event.Stop == nil {
		return 0, false
	}
	return parseReference(event.Stop.ExternalReference)
}

// notesReference pattern-matches the driver-action notes. Last resort: the
// notes are free text written for drivers, not a stable contract.
type notesReference struct{}

func (notesReference) Name() string { return "driver_notes_pattern" }

func (notesReference) Resolve(event *Event) (int64, bool) {
	if event.Stop == nil {
		return 0, false
	}
	for _, action := range event.Stop.DriverActions {
		if m := notesPattern.FindStringSubmatch(action.Notes); m != nil {
			if id, err := strconv.ParseInt(m[1], 10, 64); err == nil {
				return id, true
			}
		}
	}
	return 0, false
}

func parseReference(ref string) (int64, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, false
	}
	ref = strings.TrimPrefix(ref, referencePrefix)
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// defaultResolvers is the production resolution chain, most authoritative
// source first.
func defaultResolvers() []Resolver {
	return []Resolver{eventReference{}, stopReference{}, notesReference{}}
}
