package allocation

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestDecodeHierarchy(t *testing.T) {
	h, err := DecodeHierarchy(strings.NewReader(`[{"name":"Asset","field":"ticker"},{"name":"Class","field":"class"}]`))
	if err != nil {
		t.Fatalf("DecodeHierarchy() unexpected error: %v", err)
	}
	if h.Size() != 2 || h.Top().Field() != "class" {
		t.Errorf("DecodeHierarchy() = %v, want class on top", h.Defs())
	}

	var buf bytes.Buffer
	if err := EncodeHierarchy(&buf, h); err != nil {
		t.Fatalf("EncodeHierarchy() unexpected error: %v", err)
	}
	again, err := DecodeHierarchy(&buf)
	if err != nil {
		t.Fatalf("DecodeHierarchy() unexpected error: %v", err)
	}
	if diff := cmp.Diff(h.Defs(), again.Defs()); diff != "" {
		t.Errorf("hierarchy changed on a round trip (-want +got):\n%s", diff)
	}

	for _, bad := range []string{`[]`, `[{"name":"Asset"}]`, `{}`, `not json`} {
		if _, err := DecodeHierarchy(strings.NewReader(bad)); err == nil {
			t.Errorf("DecodeHierarchy(%s) expected an error", bad)
		}
	}
}

const planJSON = `{
  "id": "7d444840-9dc0-11d1-b245-5ffdce74fad2",
  "name": "Balanced",
  "type": "TARGET",
  "details": [
    {"structuralId": [null, "Equity"], "cashReserve": false, "sliceSizePercentage": "60"},
    {"structuralId": ["VTI", "Equity"], "asset": "VTI", "cashReserve": false, "sliceSizePercentage": "33.333333333333333333"},
    {"structuralId": ["", "Cash"], "cashReserve": true, "sliceSizePercentage": null}
  ]
}`

func TestDecodePlan(t *testing.T) {
	p, err := DecodePlan(strings.NewReader(planJSON))
	if err != nil {
		t.Fatalf("DecodePlan() unexpected error: %v", err)
	}
	if p.ID != uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2") || p.Name != "Balanced" || p.Type != "TARGET" {
		t.Errorf("DecodePlan() header = %v %q %q", p.ID, p.Name, p.Type)
	}
	if len(p.Details) != 3 {
		t.Fatalf("DecodePlan() got %d details, want 3", len(p.Details))
	}
	if diff := cmp.Diff(id("", "Equity"), p.Details[0].Structure); diff != "" {
		t.Errorf("null slot mismatch (-want +got):\n%s", diff)
	}
	// decimals are kept exactly
	if got := p.Details[1].SliceSize.String(); got != "33.333333333333333333" {
		t.Errorf("SliceSize = %s", got)
	}
	if p.Details[2].SliceSize.IsSet() || !p.Details[2].CashReserve {
		t.Errorf("cash reserve row = %+v", p.Details[2])
	}

	var buf bytes.Buffer
	if err := EncodePlan(&buf, p); err != nil {
		t.Fatalf("EncodePlan() unexpected error: %v", err)
	}
	again, err := DecodePlan(&buf)
	if err != nil {
		t.Fatalf("DecodePlan() unexpected error: %v", err)
	}
	if again.ID != p.ID || len(again.Details) != 3 || !again.Details[1].SliceSize.Equal(p.Details[1].SliceSize) {
		t.Errorf("plan changed on a round trip: %+v", again)
	}
	if diff := cmp.Diff(p.Details[2].Structure, again.Details[2].Structure); diff != "" {
		t.Errorf("structural id changed on a round trip (-want +got):\n%s", diff)
	}
}

func TestDecodePlanErrors(t *testing.T) {
	tests := map[string]string{
		"bad id":         `{"id":"nope","details":[]}`,
		"bad slice size": `{"details":[{"structuralId":["Tech"],"sliceSizePercentage":"ten"}]}`,
		"numeric slot":   `{"details":[{"structuralId":[1]}]}`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodePlan(strings.NewReader(in)); err == nil {
				t.Errorf("DecodePlan() expected an error")
			}
		})
	}
}

func TestDecodeSnapshot(t *testing.T) {
	in := `{
	  "name": "broker",
	  "currency": "EUR",
	  "on": "2025-08-15",
	  "positions": [
	    {"hierarchicalId": ["AAA", "Tech"], "asset": "AAA", "marketValue": 1234.5},
	    {"structuralId": ["BBB", "Tech"], "asset": "BBB", "marketValue": "0.10"},
	    {"structuralId": [null, "Tech"], "marketValue": null}
	  ]
	}`
	s, err := DecodeSnapshot(strings.NewReader(in))
	if err != nil {
		t.Fatalf("DecodeSnapshot() unexpected error: %v", err)
	}
	if s.ID != uuid.Nil || s.Currency != "EUR" || s.On.Format("2006-01-02") != "2025-08-15" {
		t.Errorf("DecodeSnapshot() header = %v %q %v", s.ID, s.Currency, s.On)
	}
	if diff := cmp.Diff(id("AAA", "Tech"), s.Positions[0].Structure); diff != "" {
		t.Errorf("hierarchicalId mismatch (-want +got):\n%s", diff)
	}
	if got := s.Positions[0].MarketValue.String(); got != "1234.5" {
		t.Errorf("MarketValue = %s", got)
	}
	if got := s.Positions[1].MarketValue.String(); got != "0.1" {
		t.Errorf("MarketValue = %s", got)
	}
	if s.Positions[2].MarketValue.IsSet() {
		t.Errorf("null market value decoded as %v", s.Positions[2].MarketValue)
	}

	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, s); err != nil {
		t.Fatalf("EncodeSnapshot() unexpected error: %v", err)
	}
	again, err := DecodeSnapshot(&buf)
	if err != nil {
		t.Fatalf("DecodeSnapshot() unexpected error: %v", err)
	}
	if len(again.Positions) != 3 || !again.Positions[0].MarketValue.Equal(s.Positions[0].MarketValue) || !again.On.Equal(s.On) {
		t.Errorf("snapshot changed on a round trip: %+v", again)
	}

	both := `{"positions":[{"structuralId":["A"],"hierarchicalId":["A"]}]}`
	if _, err := DecodeSnapshot(strings.NewReader(both)); err == nil {
		t.Errorf("DecodeSnapshot() expected an error when both ids are set")
	}
}
