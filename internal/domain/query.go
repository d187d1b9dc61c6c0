package domain

import (
	"context"
	"fmt"
)

// QueryField names a filterable or sortable conference property.
type QueryField string

const (
	FieldCity           QueryField = "CITY"
	FieldTopic          QueryField = "TOPIC"
	FieldMonth          QueryField = "MONTH"
	FieldMaxAttendees   QueryField = "MAX_ATTENDEES"
	FieldSeatsAvailable QueryField = "SEATS_AVAILABLE"
	FieldName           QueryField = "NAME"
)

// QueryOperator is a comparison operator in a conference filter.
type QueryOperator string

const (
	OpEQ   QueryOperator = "EQ"
	OpNE   QueryOperator = "NE"
	OpGT   QueryOperator = "GT"
	OpGTEQ QueryOperator = "GTEQ"
	OpLT   QueryOperator = "LT"
	OpLTEQ QueryOperator = "LTEQ"
)

// QueryFilter is a single field comparison. Value is a string for CITY and
// TOPIC and a number (decimal string accepted) for the numeric fields.
type QueryFilter struct {
	Field    QueryField    `json:"field"`
	Operator QueryOperator `json:"operator"`
	Value    string        `json:"value"`
}

// SortDirection orders query results ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// QuerySort is one sort key of a conference query.
type QuerySort struct {
	Field     QueryField    `json:"field"`
	Direction SortDirection `json:"direction"`
}

// ConferenceQuery is a caller-supplied filter/sort specification. With no
// sort orders, results are ordered by name ascending.
type ConferenceQuery struct {
	Filters    []QueryFilter `json:"filters"`
	SortOrders []QuerySort   `json:"sort_orders"`
}

// Validate checks the query against the known fields and operators.
func (q ConferenceQuery) Validate() error {
	for _, f := range q.Filters {
		switch f.Field {
		case FieldCity, FieldTopic, FieldMonth, FieldMaxAttendees, FieldSeatsAvailable:
		default:
			return fmt.Errorf("%w: unknown filter field %q", ErrInvalidInput, f.Field)
		}
		switch f.Operator {
		case OpEQ, OpNE, OpGT, OpGTEQ, OpLT, OpLTEQ:
		default:
			return fmt.Errorf("%w: unknown operator %q", ErrInvalidInput, f.Operator)
		}
		if f.Field == FieldTopic && f.Operator != OpEQ {
			return fmt.Errorf("%w: topic filters support EQ only", ErrInvalidInput)
		}
		if f.Value == "" {
			return fmt.Errorf("%w: filter value is required", ErrInvalidInput)
		}
	}
	for _, s := range q.SortOrders {
		switch s.Field {
		case FieldCity, FieldMonth, FieldMaxAttendees, FieldSeatsAvailable, FieldName:
		default:
			return fmt.Errorf("%w: unknown sort field %q", ErrInvalidInput, s.Field)
		}
		if s.Direction != SortAsc && s.Direction != SortDesc {
			return fmt.Errorf("%w: sort direction must be ASC or DESC", ErrInvalidInput)
		}
	}
	return nil
}

// QueryService executes filtered and sorted conference listings.
type QueryService interface {
	// QueryConferences runs a caller-supplied query, pre-fetching organizer
	// display names for the results.
	QueryConferences(ctx context.Context, q ConferenceQuery, page PaginationParams) ([]*Conference, error)
	// ConferencesFiltered runs the fixed showcase filter combination.
	ConferencesFiltered(ctx context.Context) ([]*Conference, error)
}

// AnnouncementService produces the "nearly sold out" announcement.
type AnnouncementService interface {
	// Announcement returns the current announcement text, or "" when no
	// conference is nearly sold out.
	Announcement(ctx context.Context) (string, error)
}
