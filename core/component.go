package core

import (
	"fmt"
	"strings"

	"github.com/lifelinesims/lifeline-simulator/model"
)

// componentTypeInfo is the static per-type metadata: which solver-side
// field binds the component to its containing node, and how long a crew
// needs to repair one.
type componentTypeInfo struct {
	SolverField string
	RepairTime  int64 // seconds
}

// domainPrefixes maps the ID prefix (the substring before the first
// underscore) to an infrastructure domain.
var domainPrefixes = map[string]model.Domain{
	"P": model.DomainPower,
	"W": model.DomainWater,
	"T": model.DomainTransportation,
}

// componentTypes holds the per-domain type tables. Both maps are built
// once at process start and never mutated; the registry hands out copies.
var componentTypes = map[model.Domain]map[string]componentTypeInfo{
	model.DomainPower: {
		"MP": {SolverField: "bus", RepairTime: 2 * 3600},       // pump motor
		"G":  {SolverField: "bus", RepairTime: 8 * 3600},       // generator
		"S":  {SolverField: "bus", RepairTime: 6 * 3600},       // substation
		"TL": {SolverField: "from_bus", RepairTime: 4 * 3600},  // transmission line
		"B":  {SolverField: "bus", RepairTime: 3 * 3600},       // bus
	},
	model.DomainWater: {
		"WP":  {SolverField: "start_node", RepairTime: 2 * 3600},     // pump
		"PMA": {SolverField: "start_node", RepairTime: 5 * 3600},     // pipe
		"T":   {SolverField: "connected_node", RepairTime: 6 * 3600}, // tank
		"R":   {SolverField: "connected_node", RepairTime: 8 * 3600}, // reservoir
		"J":   {SolverField: "node", RepairTime: 3 * 3600},           // junction
	},
	model.DomainTransportation: {
		"R": {SolverField: "from_node", RepairTime: 12 * 3600}, // road segment
		"B": {SolverField: "from_node", RepairTime: 24 * 3600}, // bridge
	},
}

// ComponentRegistry resolves component IDs against the static lookup
// tables. It is immutable and safe to share across optimizer trials
// without synchronization.
type ComponentRegistry struct{}

// NewComponentRegistry returns the process-wide registry view.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{}
}

// Describe parses a component ID of the form "<Prefix>_<TypeCode><Index>"
// and returns its domain, type, solver binding field, and repair time.
// It fails with ErrUnknownComponent when the prefix or type code is not
// in the static tables.
func (r *ComponentRegistry) Describe(componentID string) (model.Component, error) {
	prefix, rest, ok := strings.Cut(componentID, "_")
	if !ok || prefix == "" || rest == "" {
		return model.Component{}, fmt.Errorf("%w: malformed ID %q", ErrUnknownComponent, componentID)
	}

	domain, ok := domainPrefixes[prefix]
	if !ok {
		return model.Component{}, fmt.Errorf("%w: unknown domain prefix %q in %q", ErrUnknownComponent, prefix, componentID)
	}

	typeCode := leadingAlpha(rest)
	if typeCode == "" {
		return model.Component{}, fmt.Errorf("%w: missing type code in %q", ErrUnknownComponent, componentID)
	}

	info, ok := componentTypes[domain][typeCode]
	if !ok {
		return model.Component{}, fmt.Errorf("%w: unknown type code %q for domain %s in %q", ErrUnknownComponent, typeCode, domain, componentID)
	}

	return model.Component{
		ID:          componentID,
		Domain:      domain,
		TypeCode:    typeCode,
		SolverField: info.SolverField,
		RepairTime:  info.RepairTime,
	}, nil
}

// leadingAlpha returns the leading run of ASCII letters in s.
func leadingAlpha(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return s[:i]
		}
	}
	return s
}
