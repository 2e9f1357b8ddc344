package orders

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"smartkop/apperr"
	"smartkop/models"
)

func sampleOrder() models.Order {
	return models.Order{
		OrderID: "o123",
		OrderItems: []models.OrderItem{
			{Name: "USB cable", Quantity: 2, Price: 9.99, Product: "p1"},
			{Name: "Keyboard", Quantity: 1, Price: 49.0, Product: "p2"},
		},
		ShippingInfo: models.ShippingInfo{
			Address: "1 Main St", City: "Lyon", PostalCode: "69001", Country: "France",
		},
		TotalPrice: 68.98,
		PaidAt:     time.Now(),
		UserID:     "u1",
	}
}

func TestFulfillRejectsDeliveredOrders(t *testing.T) {
	err := canFulfill(models.OrderDelivered)
	if err == nil {
		t.Fatal("delivered order accepted for fulfillment")
	}
	if apperr.KindOf(err) != apperr.AlreadyDelivered {
		t.Fatalf("got %v", err)
	}
}

func TestFulfillAcceptsNonTerminalStatuses(t *testing.T) {
	for _, status := range []string{models.OrderProcessing, models.OrderShipped} {
		if err := canFulfill(status); err != nil {
			t.Errorf("%s: %v", status, err)
		}
	}
}

func TestConfirmationHTMLListsItemsAndAddress(t *testing.T) {
	html := confirmationHTML("Ana", sampleOrder(), "https://shop.example")

	for _, want := range []string{"Ana", "USB cable", "Keyboard", "1 Main St, Lyon 69001, France", "https://shop.example"} {
		if !strings.Contains(html, want) {
			t.Errorf("confirmation mail missing %q", want)
		}
	}
}

func TestOrderWithUserEmbedsOwnerObject(t *testing.T) {
	payload := orderWithUser{
		Order: sampleOrder(),
		User:  userRef{Name: "Ana", Email: "ana@example.com"},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}

	owner, ok := decoded["user"].(map[string]any)
	if !ok {
		t.Fatalf("user field not populated as object: %v", decoded["user"])
	}
	if owner["name"] != "Ana" || owner["email"] != "ana@example.com" {
		t.Fatalf("owner = %v", owner)
	}
	if decoded["_id"] != "o123" {
		t.Fatalf("order id missing: %v", decoded["_id"])
	}
}
