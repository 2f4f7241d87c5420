package canvas

import (
	"fmt"
	"time"
)

// Type identifies a canvas template.
type Type string

const (
	TypeBusinessModel  Type = "business_model"
	TypeProduct        Type = "product"
	TypeSocialBusiness Type = "social_business"
)

// Types lists every canvas template.
func Types() []Type {
	return []Type{TypeBusinessModel, TypeProduct, TypeSocialBusiness}
}

// ParseType validates a canvas type name.
func ParseType(s string) (Type, error) {
	for _, t := range Types() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Section is a named block of a canvas.
type Section uint8

const (
	KeyPartners Section = iota
	KeyActivities
	KeyResources
	ValuePropositions
	CustomerRelationships
	Channels
	CustomerSegments
	CostStructure
	RevenueStreams
	TargetGroup
	Needs
	ProductFeatures
	BusinessGoals
	Competitors
	KeyMetrics
	TypeOfIntervention
	Segments
	Surplus
	ImpactMeasures
	sectionCount
)

var sectionNames = [sectionCount]string{
	KeyPartners:           "key_partners",
	KeyActivities:         "key_activities",
	KeyResources:          "key_resources",
	ValuePropositions:     "value_propositions",
	CustomerRelationships: "customer_relationships",
	Channels:              "channels",
	CustomerSegments:      "customer_segments",
	CostStructure:         "cost_structure",
	RevenueStreams:        "revenue_streams",
	TargetGroup:           "target_group",
	Needs:                 "needs",
	ProductFeatures:       "product_features",
	BusinessGoals:         "business_goals",
	Competitors:           "competitors",
	KeyMetrics:            "key_metrics",
	TypeOfIntervention:    "type_of_intervention",
	Segments:              "segments",
	Surplus:               "surplus",
	ImpactMeasures:        "impact_measures",
}

var sectionsByType = map[Type][]Section{
	TypeBusinessModel: {
		KeyPartners, KeyActivities, KeyResources, ValuePropositions,
		CustomerRelationships, Channels, CustomerSegments, CostStructure, RevenueStreams,
	},
	TypeProduct: {
		TargetGroup, Needs, ProductFeatures, BusinessGoals,
		Competitors, KeyMetrics, Channels, CostStructure, RevenueStreams,
	},
	TypeSocialBusiness: {
		KeyPartners, KeyActivities, KeyResources, TypeOfIntervention, Segments,
		ValuePropositions, Channels, CostStructure, Surplus, RevenueStreams, ImpactMeasures,
	},
}

func (s Section) String() string {
	if s < sectionCount {
		return sectionNames[s]
	}
	return fmt.Sprintf("section(%d)", uint8(s))
}

// ParseSection resolves a section by name.
func ParseSection(name string) (Section, error) {
	for i, n := range sectionNames {
		if n == name {
			return Section(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSection, name)
}

// MarshalText encodes the section name, which also makes it usable as a JSON map key.
func (s Section) MarshalText() ([]byte, error) {
	if s >= sectionCount {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSection, uint8(s))
	}
	return []byte(sectionNames[s]), nil
}

// UnmarshalText decodes a section name.
func (s *Section) UnmarshalText(b []byte) error {
	parsed, err := ParseSection(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Sections returns the ordered sections of t, or nil for an unknown type.
func Sections(t Type) []Section {
	return append([]Section(nil), sectionsByType[t]...)
}

// HasSection reports whether s belongs to t.
func HasSection(t Type, s Section) bool {
	for _, candidate := range sectionsByType[t] {
		if candidate == s {
			return true
		}
	}
	return false
}

// ItemStatus tracks how well-evidenced a canvas item is.
type ItemStatus string

const (
	StatusAssumption ItemStatus = "assumption"
	StatusTesting    ItemStatus = "testing"
	StatusValidated  ItemStatus = "validated"
)

// Next cycles assumption -> testing -> validated -> assumption.
func (s ItemStatus) Next() ItemStatus {
	switch s {
	case StatusAssumption:
		return StatusTesting
	case StatusTesting:
		return StatusValidated
	default:
		return StatusAssumption
	}
}

// Item is a single sticky note on a canvas.
type Item struct {
	ID     string     `json:"id"`
	Text   string     `json:"text"`
	Status ItemStatus `json:"status"`
}

// Canvas holds every section of one template for a project.
type Canvas struct {
	ProjectID string             `json:"project_id"`
	Type      Type               `json:"type"`
	Sections  map[Section][]Item `json:"sections"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Empty returns a canvas with every section of t present and empty.
func Empty(projectID string, t Type) *Canvas {
	c := &Canvas{ProjectID: projectID, Type: t, Sections: make(map[Section][]Item)}
	for _, s := range sectionsByType[t] {
		c.Sections[s] = []Item{}
	}
	return c
}

// normalize drops sections foreign to the template and fills missing ones.
func (c *Canvas) normalize() {
	if c.Sections == nil {
		c.Sections = make(map[Section][]Item)
	}
	for s := range c.Sections {
		if !HasSection(c.Type, s) {
			delete(c.Sections, s)
		}
	}
	for _, s := range sectionsByType[c.Type] {
		if c.Sections[s] == nil {
			c.Sections[s] = []Item{}
		}
	}
}

// find locates an item by id.
func (c *Canvas) find(itemID string) (Section, int, bool) {
	for s, items := range c.Sections {
		for i, item := range items {
			if item.ID == itemID {
				return s, i, true
			}
		}
	}
	return 0, 0, false
}
