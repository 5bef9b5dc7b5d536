package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	CycleID      ID
	ReportID     ID
	EmployeeID   ID
	InstrumentID ID
)

// Constructors for generated IDs
func NewCycleID() CycleID   { return CycleID(NewID()) }
func NewReportID() ReportID { return ReportID(NewID()) }

// String conversions for domain IDs
func (id CycleID) String() string      { return ID(id).String() }
func (id ReportID) String() string     { return ID(id).String() }
func (id EmployeeID) String() string   { return ID(id).String() }
func (id InstrumentID) String() string { return ID(id).String() }

func parseID(kind, s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%s ID cannot be empty", kind)
	}
	return ID(s), nil
}

// ParseCycleID parses a string into CycleID
func ParseCycleID(s string) (CycleID, error) {
	id, err := parseID("cycle", s)
	return CycleID(id), err
}

// ParseReportID parses a string into ReportID
func ParseReportID(s string) (ReportID, error) {
	id, err := parseID("report", s)
	return ReportID(id), err
}

// ParseInstrumentID parses a string into InstrumentID. Instruments are optional, so an
// empty string yields an empty ID without error.
func ParseInstrumentID(s string) InstrumentID {
	return InstrumentID(strings.TrimSpace(s))
}
