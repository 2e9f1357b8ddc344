package profile

import (
	"encoding/json"
	"reflect"
	"testing"

	"smartkop/models"
)

func TestDecodeCartArray(t *testing.T) {
	raw := json.RawMessage(`[{"product":"p1","quantity":2},{"product":"p2","quantity":1}]`)
	got, err := decodeCart(raw)
	if err != nil {
		t.Fatal(err)
	}
	want := []models.CartItem{
		{Product: "p1", Quantity: 2},
		{Product: "p2", Quantity: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDecodeCartStringWrappedArray(t *testing.T) {
	raw := json.RawMessage(`"[{\"product\":\"p1\",\"quantity\":3}]"`)
	got, err := decodeCart(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Product != "p1" || got[0].Quantity != 3 {
		t.Fatalf("got %v", got)
	}
}

func TestDecodeCartEmptyReplacesWholesale(t *testing.T) {
	got, err := decodeCart(json.RawMessage(`[]`))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v", got)
	}
}

func TestDecodeCartMissingField(t *testing.T) {
	got, err := decodeCart(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("missing payload should clear the cart, got %v", got)
	}
}

func TestDecodeCartRejectsGarbage(t *testing.T) {
	if _, err := decodeCart(json.RawMessage(`"not json at all"`)); err == nil {
		t.Fatal("expected error for undecodable payload")
	}
	if _, err := decodeCart(json.RawMessage(`42`)); err == nil {
		t.Fatal("expected error for numeric payload")
	}
}
