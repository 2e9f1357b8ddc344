package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"smartkop/apperr"
	"smartkop/config"
	"smartkop/db"
	"smartkop/mail"
	"smartkop/middleware"
	"smartkop/models"
	"smartkop/mq"
	"smartkop/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Handler struct {
	Store *db.Store
	Mail  mail.Mailer
	MQ    *mq.Emitter
	Cfg   config.Config
}

// userRef is the populated owner reference returned with a single order.
type userRef struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type orderWithUser struct {
	models.Order
	User userRef `json:"user"`
}

// POST /api/v1/order/new
func (h *Handler) NewOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	user := middleware.UserFrom(r.Context())

	var input struct {
		OrderItems    []models.OrderItem  `json:"orderItems"`
		ShippingInfo  models.ShippingInfo `json:"shippingInfo"`
		ItemsPrice    float64             `json:"itemsPrice"`
		TaxPrice      float64             `json:"taxPrice"`
		ShippingPrice float64             `json:"shippingPrice"`
		TotalPrice    float64             `json:"totalPrice"`
		PaymentInfo   models.PaymentInfo  `json:"paymentInfo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return apperr.Wrap(apperr.Validation, "Invalid input", err)
	}
	if len(input.OrderItems) == 0 {
		return apperr.New(apperr.Validation, "Order must contain at least one item")
	}

	order := models.Order{
		OrderID:       "o" + utils.GenerateRandomString(12),
		OrderItems:    input.OrderItems,
		ShippingInfo:  input.ShippingInfo,
		ItemsPrice:    input.ItemsPrice,
		TaxPrice:      input.TaxPrice,
		ShippingPrice: input.ShippingPrice,
		TotalPrice:    input.TotalPrice,
		PaymentInfo:   input.PaymentInfo,
		OrderStatus:   models.OrderProcessing,
		PaidAt:        time.Now(),
		UserID:        user.UserID,
		CreatedAt:     time.Now(),
	}

	if _, err := h.Store.Orders.InsertOne(r.Context(), order); err != nil {
		return err
	}

	if err := h.Mail.Send(r.Context(), mail.Message{
		To:      user.Email,
		Subject: "SmartKop purchase",
		HTML:    confirmationHTML(user.Name, order, h.Cfg.FrontendURL),
	}); err != nil {
		return err
	}

	go h.MQ.Emit(context.Background(), "order-created", models.Index{
		EntityType: "order", EntityId: order.OrderID,
	})

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"order":   order,
	})
	return nil
}

// GET /api/v1/order/:id
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	order, err := h.findOrder(r.Context(), ps.ByName("id"))
	if err != nil {
		return err
	}

	var owner models.User
	ref := userRef{}
	if err := h.Store.Users.FindOne(r.Context(), bson.M{"userid": order.UserID}).Decode(&owner); err == nil {
		ref = userRef{Name: owner.Name, Email: owner.Email}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"order":   orderWithUser{Order: *order, User: ref},
	})
	return nil
}

// GET /api/v1/orders/me
func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	user := middleware.UserFrom(r.Context())

	cur, err := h.Store.Orders.Find(r.Context(), bson.M{"user": user.UserID})
	if err != nil {
		return err
	}

	orders := []models.Order{}
	if err := cur.All(r.Context(), &orders); err != nil {
		return err
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"orders":  orders,
	})
	return nil
}

// GET /api/v1/admin/orders
func (h *Handler) AllOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	cur, err := h.Store.Orders.Find(r.Context(), bson.M{})
	if err != nil {
		return err
	}

	orders := []models.Order{}
	if err := cur.All(r.Context(), &orders); err != nil {
		return err
	}

	var totalAmount float64
	for _, order := range orders {
		totalAmount += order.TotalPrice
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"totalAmount": totalAmount,
		"orders":      orders,
	})
	return nil
}

// PUT /api/v1/admin/order/:id — fulfillment.
//
// Stock is decremented per line item without a floor check; concurrent
// fulfillments race last-write-wins, matching the store-level behavior this
// service has always had.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	order, err := h.findOrder(r.Context(), ps.ByName("id"))
	if err != nil {
		return err
	}

	if err := canFulfill(order.OrderStatus); err != nil {
		return err
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return apperr.Wrap(apperr.Validation, "Invalid input", err)
	}
	if !utils.Contains([]string{models.OrderProcessing, models.OrderShipped, models.OrderDelivered}, input.Status) {
		return apperr.New(apperr.Validation, "Invalid order status")
	}

	for _, item := range order.OrderItems {
		_, err := h.Store.Products.UpdateOne(r.Context(),
			bson.M{"productid": item.Product},
			bson.M{"$inc": bson.M{"stock": -item.Quantity}},
		)
		if err != nil {
			return err
		}
	}

	now := time.Now()
	_, err = h.Store.Orders.UpdateOne(r.Context(),
		bson.M{"orderid": order.OrderID},
		bson.M{"$set": bson.M{
			"orderStatus": input.Status,
			"deliveredAt": now,
		}},
	)
	if err != nil {
		return err
	}

	go h.MQ.Emit(context.Background(), "order-updated", models.Index{
		EntityType: "order", EntityId: order.OrderID,
	})

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true})
	return nil
}

// DELETE /api/v1/admin/order/:id
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	order, err := h.findOrder(r.Context(), ps.ByName("id"))
	if err != nil {
		return err
	}

	if _, err := h.Store.Orders.DeleteOne(r.Context(), bson.M{"orderid": order.OrderID}); err != nil {
		return err
	}

	go h.MQ.Emit(context.Background(), "order-deleted", models.Index{
		EntityType: "order", EntityId: order.OrderID,
	})

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true})
	return nil
}

// canFulfill reports whether an order may still transition status.
// Delivered is terminal; a delivered order must never reach the stock
// decrement below.
func canFulfill(current string) error {
	if current == models.OrderDelivered {
		return apperr.New(apperr.AlreadyDelivered, "You have already delivered this order")
	}
	return nil
}

func (h *Handler) findOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := h.Store.Orders.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.NotFound, "No order found with this ID")
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func confirmationHTML(name string, order models.Order, frontendURL string) string {
	items := make([]string, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		items = append(items, item.Name)
	}

	ship := order.ShippingInfo
	address := fmt.Sprintf("%s, %s %s, %s", ship.Address, ship.City, ship.PostalCode, ship.Country)

	return fmt.Sprintf(`
	<h3>Congratulations %s!</h3>
	<div>
		We confirm the payment of your order!<br><br>
		Your items: <br><br>
		<p style="color: blue">%s</p><br>
		Delivery to the following address:
		<span style="color: blue">%s</span><br><br>
		You can return to the site by clicking <a href="%s">SmartKop</a>.<br><br>
		See you soon!<br>
		The SmartKop team
	</div>`, name, strings.Join(items, ", "), address, frontendURL)
}
