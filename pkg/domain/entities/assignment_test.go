package entities

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAssignedOrder_Validation(t *testing.T) {
	quote := "500.00"
	valid, err := NewAssignedOrder("A1", "ORD-1", "TL-1", Delivery, 2, &quote)
	if err != nil {
		t.Fatalf("Expected valid assignment creation to succeed: %v", err)
	}
	if valid.Type != Delivery {
		t.Errorf("Expected delivery leg, got %s", valid.Type)
	}
	if !valid.QuoteEditable() {
		t.Errorf("Expected unsplit leg to be editable")
	}

	testCases := []struct {
		name         string
		assignmentID string
		orderID      OrderID
		truckloadID  TruckloadID
		legType      AssignmentType
		sequence     int
		expectError  string
	}{
		{"empty assignment id", "", "ORD-1", "TL-1", Pickup, 1, "assignment id cannot be empty"},
		{"empty order id", "A1", "", "TL-1", Pickup, 1, "order id cannot be empty"},
		{"empty truckload id", "A1", "ORD-1", "", Pickup, 1, "truckload id cannot be empty"},
		{"bad leg type", "A1", "ORD-1", "TL-1", AssignmentType(7), 1, "invalid assignment type: 7"},
		{"negative sequence", "A1", "ORD-1", "TL-1", Pickup, -1, "sequence cannot be negative, got -1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewAssignedOrder(tc.assignmentID, tc.orderID, tc.truckloadID, tc.legType, tc.sequence, nil)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestAssignedOrder_SplitLegIsReadOnly(t *testing.T) {
	leg, err := NewAssignedOrder("A1", "ORD-1", "TL-1", Pickup, 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	misc := decimal.NewFromInt(150)
	leg.AssignmentQuote = &misc

	if !leg.IsSplit() {
		t.Error("Expected leg with assignment quote to be split")
	}
	if leg.QuoteEditable() {
		t.Error("Expected split leg quote to be read-only")
	}
	if leg.RawQuote() != "" {
		t.Errorf("Expected empty raw quote, got %q", leg.RawQuote())
	}
}

func TestAssignedOrder_CloneIsDeep(t *testing.T) {
	quote := "400.00"
	misc := decimal.NewFromInt(150)
	original := AssignedOrder{AssignmentID: "A1", OrderID: "ORD-1", FreightQuote: &quote, AssignmentQuote: &misc}

	clone := original.Clone()
	*clone.FreightQuote = "999"
	changed := decimal.NewFromInt(1)
	*clone.AssignmentQuote = changed

	if *original.FreightQuote != "400.00" {
		t.Errorf("Clone shares freight quote with original")
	}
	if !original.AssignmentQuote.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Clone shares assignment quote with original")
	}
}

func TestAssignmentType_TextRoundTrip(t *testing.T) {
	for _, input := range []string{"pickup", "Delivery", " PICKUP "} {
		if _, err := ParseAssignmentType(input); err != nil {
			t.Errorf("Expected %q to parse: %v", input, err)
		}
	}
	if _, err := ParseAssignmentType("drop"); err == nil {
		t.Error("Expected error for unknown leg type")
	}

	data, err := json.Marshal(struct {
		Leg AssignmentType `json:"leg"`
	}{Leg: Delivery})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"leg":"delivery"}` {
		t.Errorf("Expected delivery to marshal as text, got %s", data)
	}

	var decoded struct {
		Leg AssignmentType `json:"leg"`
	}
	if err := json.Unmarshal([]byte(`{"leg":"pickup"}`), &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Leg != Pickup {
		t.Errorf("Expected pickup, got %s", decoded.Leg)
	}
	if Pickup.Opposite() != Delivery || Delivery.Opposite() != Pickup {
		t.Error("Opposite should swap legs")
	}
}
