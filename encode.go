package allocation

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// This file holds the wire form of hierarchies, plans and snapshots. The wire
// structs are local: the domain types stay free of json tags, and the level
// index convention (element 0 of every array is the leaf level) is resolved
// here and nowhere else.

type jlevel struct {
	Name  string `json:"name"`
	Field string `json:"field"`
}

// jslot decodes null and "" as an unspecified slot.
type jslot string

func (s *jslot) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("structural id entries must be strings or null: %w", err)
	}
	*s = jslot(v)
	return nil
}

func toStructuralID(slots []jslot) StructuralID {
	id := make(StructuralID, len(slots))
	for i, s := range slots {
		id[i] = string(s)
	}
	return id
}

func fromStructuralID(id StructuralID) []*string {
	slots := make([]*string, len(id))
	for i := range id {
		if id[i] != "" {
			slots[i] = &id[i]
		}
	}
	return slots
}

// DecodeHierarchy reads a hierarchy structure: an array of {name, field}, leaf level first.
func DecodeHierarchy(r io.Reader) (*Hierarchy, error) {
	var levels []jlevel
	if err := json.NewDecoder(r).Decode(&levels); err != nil {
		return nil, fmt.Errorf("cannot decode hierarchy: %w", err)
	}
	defs := make([]LevelDef, len(levels))
	for i, l := range levels {
		defs[i] = LevelDef{Name: l.Name, Field: l.Field}
	}
	h, err := NewHierarchy(defs...)
	if err != nil {
		return nil, fmt.Errorf("invalid hierarchy: %w", err)
	}
	return h, nil
}

// EncodeHierarchy writes h in the form DecodeHierarchy reads.
func EncodeHierarchy(w io.Writer, h *Hierarchy) error {
	levels := make([]jlevel, 0, h.Size())
	for _, d := range h.Defs() {
		levels = append(levels, jlevel{Name: d.Name, Field: d.Field})
	}
	return json.NewEncoder(w).Encode(levels)
}

type jplanDetail struct {
	StructuralID []jslot `json:"structuralId"`
	Asset        string  `json:"asset,omitempty"`
	CashReserve  bool    `json:"cashReserve"`
	SliceSize    *string `json:"sliceSizePercentage"`
}

type jplan struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Type    string        `json:"type"`
	Details []jplanDetail `json:"details"`
}

// parseID accepts an empty id and returns the nil UUID for it.
func parseID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id, nil
}

// DecodePlan reads an allocation plan. Slice sizes travel as decimal strings
// and are parsed exactly.
func DecodePlan(r io.Reader) (*Plan, error) {
	var jp jplan
	if err := json.NewDecoder(r).Decode(&jp); err != nil {
		return nil, fmt.Errorf("cannot decode plan: %w", err)
	}
	id, err := parseID(jp.ID)
	if err != nil {
		return nil, fmt.Errorf("cannot decode plan %q: %w", jp.Name, err)
	}
	p := &Plan{ID: id, Name: jp.Name, Type: jp.Type, Details: make([]PlannedAllocation, 0, len(jp.Details))}
	for i, d := range jp.Details {
		var size Measure
		if d.SliceSize != nil {
			if size, err = ParseMeasure(*d.SliceSize); err != nil {
				return nil, fmt.Errorf("cannot decode plan %q detail #%d: %w", jp.Name, i, err)
			}
		}
		p.Details = append(p.Details, PlannedAllocation{
			Structure:   toStructuralID(d.StructuralID),
			Asset:       d.Asset,
			CashReserve: d.CashReserve,
			SliceSize:   size,
		})
	}
	return p, nil
}

// EncodePlan writes p in the form DecodePlan reads.
func EncodePlan(w io.Writer, p *Plan) error {
	type jdetail struct {
		StructuralID []*string `json:"structuralId"`
		Asset        string    `json:"asset,omitempty"`
		CashReserve  bool      `json:"cashReserve"`
		SliceSize    *string   `json:"sliceSizePercentage"`
	}
	type jout struct {
		ID      string    `json:"id"`
		Name    string    `json:"name"`
		Type    string    `json:"type"`
		Details []jdetail `json:"details"`
	}
	out := jout{ID: p.ID.String(), Name: p.Name, Type: p.Type, Details: make([]jdetail, 0, len(p.Details))}
	for _, d := range p.Details {
		var size *string
		if d.SliceSize.IsSet() {
			s := d.SliceSize.String()
			size = &s
		}
		out.Details = append(out.Details, jdetail{
			StructuralID: fromStructuralID(d.Structure),
			Asset:        d.Asset,
			CashReserve:  d.CashReserve,
			SliceSize:    size,
		})
	}
	return json.NewEncoder(w).Encode(out)
}

type jposition struct {
	StructuralID   []jslot `json:"structuralId"`
	HierarchicalID []jslot `json:"hierarchicalId"`
	Asset          string  `json:"asset,omitempty"`
	CashReserve    bool    `json:"cashReserve"`
	MarketValue    Measure `json:"marketValue"`
}

type jsnapshot struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Currency  string      `json:"currency"`
	On        string      `json:"on"`
	Positions []jposition `json:"positions"`
}

// DecodeSnapshot reads a portfolio snapshot. Positions may name their
// structural id "hierarchicalId".
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var js jsnapshot
	if err := json.NewDecoder(r).Decode(&js); err != nil {
		return nil, fmt.Errorf("cannot decode snapshot: %w", err)
	}
	id, err := parseID(js.ID)
	if err != nil {
		return nil, fmt.Errorf("cannot decode snapshot %q: %w", js.Name, err)
	}
	s := &Snapshot{ID: id, Name: js.Name, Currency: js.Currency, Positions: make([]ObservedAllocation, 0, len(js.Positions))}
	if js.On != "" {
		if s.On, err = time.Parse(time.DateOnly, js.On); err != nil {
			return nil, fmt.Errorf("cannot decode snapshot %q: invalid date: %w", js.Name, err)
		}
	}
	for i, p := range js.Positions {
		slots := p.StructuralID
		if slots == nil {
			slots = p.HierarchicalID
		} else if p.HierarchicalID != nil {
			return nil, fmt.Errorf("cannot decode snapshot %q position #%d: both structuralId and hierarchicalId are set", js.Name, i)
		}
		s.Positions = append(s.Positions, ObservedAllocation{
			Structure:   toStructuralID(slots),
			Asset:       p.Asset,
			CashReserve: p.CashReserve,
			MarketValue: p.MarketValue,
		})
	}
	return s, nil
}

// EncodeSnapshot writes s in the form DecodeSnapshot reads.
func EncodeSnapshot(w io.Writer, s *Snapshot) error {
	type jpos struct {
		StructuralID []*string `json:"structuralId"`
		Asset        string    `json:"asset,omitempty"`
		CashReserve  bool      `json:"cashReserve"`
		MarketValue  Measure   `json:"marketValue"`
	}
	type jout struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Currency  string `json:"currency"`
		On        string `json:"on,omitempty"`
		Positions []jpos `json:"positions"`
	}
	out := jout{ID: s.ID.String(), Name: s.Name, Currency: s.Currency, Positions: make([]jpos, 0, len(s.Positions))}
	if !s.On.IsZero() {
		out.On = s.On.Format(time.DateOnly)
	}
	for _, p := range s.Positions {
		out.Positions = append(out.Positions, jpos{
			StructuralID: fromStructuralID(p.Structure),
			Asset:        p.Asset,
			CashReserve:  p.CashReserve,
			MarketValue:  p.MarketValue,
		})
	}
	return json.NewEncoder(w).Encode(out)
}
