package products

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"smartkop/apperr"
	"smartkop/assets"
	"smartkop/db"
	"smartkop/middleware"
	"smartkop/models"
	"smartkop/mq"
	"smartkop/query"
	"smartkop/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Results per page for the public product listing. Fixed server-side; a
// client-supplied limit or resPerPage never overrides it.
const resPerPage = 6

type Handler struct {
	Store  *db.Store
	Assets assets.Host
	MQ     *mq.Emitter
}

// GET /api/v1/products?keyword=apple&price[gte]=50&page=2
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	productsCount, err := h.Store.Products.CountDocuments(r.Context(), bson.M{})
	if err != nil {
		return err
	}

	features := query.New(r.URL.Query()).Search().Filter().Paginate(resPerPage)

	var products []models.Product
	filteredProductsCount, err := features.Run(r.Context(), h.Store.Products, &products)
	if err != nil {
		return err
	}
	if products == nil {
		products = []models.Product{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success":               true,
		"productsCount":         productsCount,
		"resPerPage":            resPerPage,
		"filteredProductsCount": filteredProductsCount,
		"products":              products,
	})
	return nil
}

// GET /api/v1/allproducts — filtered but never searched or paginated.
func (h *Handler) GetAllProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	productsCount, err := h.Store.Products.CountDocuments(r.Context(), bson.M{})
	if err != nil {
		return err
	}

	features := query.New(r.URL.Query()).Filter()

	var products []models.Product
	if _, err := features.Run(r.Context(), h.Store.Products, &products); err != nil {
		return err
	}
	if products == nil {
		products = []models.Product{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"productsCount": productsCount,
		"products":      products,
	})
	return nil
}

// GET /api/v1/product/:id
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	var product models.Product
	err := h.Store.Products.FindOne(r.Context(), bson.M{"productid": ps.ByName("id")}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return apperr.New(apperr.NotFound, "Product not found")
	}
	if err != nil {
		return err
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"product": product,
	})
	return nil
}

type productInput struct {
	Name        string          `json:"name"`
	Price       float64         `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Seller      string          `json:"seller"`
	Stock       *int            `json:"stock"`
	Images      json.RawMessage `json:"images"`
}

// POST /api/v1/admin/product/new
func (h *Handler) NewProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	user := middleware.UserFrom(r.Context())

	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return apperr.Wrap(apperr.Validation, "Invalid input", err)
	}
	if err := validateProductInput(input); err != nil {
		return err
	}

	images, err := h.uploadImages(r.Context(), input.Images)
	if err != nil {
		return err
	}

	now := time.Now()
	product := models.Product{
		ProductID:   "p" + utils.GenerateRandomString(12),
		Name:        input.Name,
		Price:       input.Price,
		Description: input.Description,
		Category:    input.Category,
		Seller:      input.Seller,
		Stock:       *input.Stock,
		Images:      images,
		Reviews:     []models.Review{},
		UserID:      user.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := h.Store.Products.InsertOne(r.Context(), product); err != nil {
		return err
	}

	go h.MQ.Emit(context.Background(), "product-created", models.Index{
		EntityType: "product", EntityId: product.ProductID,
	})

	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"product": product,
	})
	return nil
}

// PUT /api/v1/admin/product/:id
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	productID := ps.ByName("id")

	var product models.Product
	err := h.Store.Products.FindOne(r.Context(), bson.M{"productid": productID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return apperr.New(apperr.NotFound, "Product not found")
	}
	if err != nil {
		return err
	}

	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return apperr.Wrap(apperr.Validation, "Invalid input", err)
	}

	update := bson.M{"updatedAt": time.Now()}
	if input.Name != "" {
		update["name"] = input.Name
	}
	if input.Price != 0 {
		update["price"] = input.Price
	}
	if input.Description != "" {
		update["description"] = input.Description
	}
	if input.Category != "" {
		if !utils.Contains(models.Categories, input.Category) {
			return apperr.New(apperr.Validation, "Please select a valid category")
		}
		update["category"] = input.Category
	}
	if input.Seller != "" {
		update["seller"] = input.Seller
	}
	if input.Stock != nil {
		update["stock"] = *input.Stock
	}

	if len(input.Images) > 0 && string(input.Images) != "null" {
		// Release every existing asset before uploading replacements.
		// Individual destroy failures are logged, not fatal.
		for _, img := range product.Images {
			if err := h.Assets.Destroy(r.Context(), img.PublicID); err != nil {
				log.Printf("image destroy failed for %s: %v", img.PublicID, err)
			}
		}

		images, err := h.uploadImages(r.Context(), input.Images)
		if err != nil {
			return err
		}
		update["images"] = images
	}

	_, err = h.Store.Products.UpdateOne(r.Context(),
		bson.M{"productid": productID},
		bson.M{"$set": update},
	)
	if err != nil {
		return err
	}

	// Re-read so the response reflects the applied update.
	if err := h.Store.Products.FindOne(r.Context(), bson.M{"productid": productID}).Decode(&product); err != nil {
		return err
	}

	go h.MQ.Emit(context.Background(), "product-edited", models.Index{
		EntityType: "product", EntityId: productID,
	})

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"product": product,
	})
	return nil
}

// DELETE /api/v1/admin/product/:id
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	productID := ps.ByName("id")

	var product models.Product
	err := h.Store.Products.FindOne(r.Context(), bson.M{"productid": productID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return apperr.New(apperr.NotFound, "Product not found")
	}
	if err != nil {
		return err
	}

	for _, img := range product.Images {
		if err := h.Assets.Destroy(r.Context(), img.PublicID); err != nil {
			log.Printf("image destroy failed for %s: %v", img.PublicID, err)
		}
	}

	if _, err := h.Store.Products.DeleteOne(r.Context(), bson.M{"productid": productID}); err != nil {
		return err
	}

	go h.MQ.Emit(context.Background(), "product-deleted", models.Index{
		EntityType: "product", EntityId: productID,
	})

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product deleted",
	})
	return nil
}

// GET /api/v1/admin/products
func (h *Handler) GetAdminProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	cur, err := h.Store.Products.Find(r.Context(), bson.M{})
	if err != nil {
		return err
	}

	products := []models.Product{}
	if err := cur.All(r.Context(), &products); err != nil {
		return err
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"products": products,
	})
	return nil
}

// uploadImages accepts either a single string or a list of strings, mirroring
// the client's single- vs multi-image payloads, and uploads them one at a
// time.
func (h *Handler) uploadImages(ctx context.Context, raw json.RawMessage) ([]models.Image, error) {
	contents, err := decodeImageList(raw)
	if err != nil {
		return nil, apperr.Wrap(apperr.Validation, "Invalid image data", err)
	}

	images := []models.Image{}
	for _, content := range contents {
		result, err := h.Assets.Upload(ctx, content, "products", 0)
		if err != nil {
			return nil, err
		}
		images = append(images, models.Image{PublicID: result.PublicID, URL: result.URL})
	}
	return images, nil
}

func decodeImageList(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}

	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, err
	}
	return many, nil
}

func validateProductInput(input productInput) error {
	if input.Name == "" || len(input.Name) > 100 {
		return apperr.New(apperr.Validation, "Please enter a product name of at most 100 characters")
	}
	if input.Price <= 0 {
		return apperr.New(apperr.Validation, "Please enter a price")
	}
	if input.Description == "" {
		return apperr.New(apperr.Validation, "Please enter a description")
	}
	if !utils.Contains(models.Categories, input.Category) {
		return apperr.New(apperr.Validation, "Please select a valid category")
	}
	if input.Seller == "" {
		return apperr.New(apperr.Validation, "Please enter a seller name")
	}
	if input.Stock == nil {
		return apperr.New(apperr.Validation, "Please enter a stock count")
	}
	return nil
}
