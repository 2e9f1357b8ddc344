package products

import (
	"context"
	"encoding/json"
	"net/http"

	"smartkop/apperr"
	"smartkop/middleware"
	"smartkop/models"
	"smartkop/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// PUT /api/v1/review
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	user := middleware.UserFrom(r.Context())

	var input struct {
		ProductID string  `json:"productId"`
		Rating    float64 `json:"rating"`
		Comment   string  `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return apperr.Wrap(apperr.Validation, "Invalid input", err)
	}
	if input.Rating < 1 || input.Rating > 5 {
		return apperr.New(apperr.Validation, "Rating must be between 1 and 5")
	}

	var product models.Product
	err := h.Store.Products.FindOne(r.Context(), bson.M{"productid": input.ProductID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return apperr.New(apperr.NotFound, "Product not found")
	}
	if err != nil {
		return err
	}

	review := models.Review{
		ReviewID: utils.GenerateRandomString(16),
		UserID:   user.UserID,
		Name:     user.Name,
		Rating:   input.Rating,
		Comment:  input.Comment,
	}

	reviews := UpsertReview(product.Reviews, review)
	if err := h.saveReviews(r.Context(), input.ProductID, reviews); err != nil {
		return err
	}

	go h.MQ.Emit(context.Background(), "review-added", models.Index{
		EntityType: "review", EntityId: review.ReviewID,
		ItemType: "product", ItemId: input.ProductID,
	})

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true})
	return nil
}

// GET /api/v1/reviews?id=<productId>
func (h *Handler) GetReviews(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	var product models.Product
	err := h.Store.Products.FindOne(r.Context(), bson.M{"productid": r.URL.Query().Get("id")}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return apperr.New(apperr.NotFound, "Product not found")
	}
	if err != nil {
		return err
	}

	reviews := product.Reviews
	if reviews == nil {
		reviews = []models.Review{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"reviews": reviews,
	})
	return nil
}

// DELETE /api/v1/reviews?productId=<productId>&id=<reviewId>
func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	productID := r.URL.Query().Get("productId")
	reviewID := r.URL.Query().Get("id")

	var product models.Product
	err := h.Store.Products.FindOne(r.Context(), bson.M{"productid": productID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return apperr.New(apperr.NotFound, "Product not found")
	}
	if err != nil {
		return err
	}

	reviews := RemoveReview(product.Reviews, reviewID)
	if err := h.saveReviews(r.Context(), productID, reviews); err != nil {
		return err
	}

	go h.MQ.Emit(context.Background(), "review-deleted", models.Index{
		EntityType: "review", EntityId: reviewID,
		ItemType: "product", ItemId: productID,
	})

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true})
	return nil
}

// saveReviews persists the review list with the recomputed count and mean.
func (h *Handler) saveReviews(ctx context.Context, productID string, reviews []models.Review) error {
	_, err := h.Store.Products.UpdateOne(ctx,
		bson.M{"productid": productID},
		bson.M{"$set": bson.M{
			"reviews":      reviews,
			"numOfReviews": len(reviews),
			"ratings":      MeanRating(reviews),
		}},
	)
	return err
}

// UpsertReview overwrites the user's existing review in place, or appends
// when the user has not reviewed yet. At most one review per user survives.
func UpsertReview(reviews []models.Review, review models.Review) []models.Review {
	for i := range reviews {
		if reviews[i].UserID == review.UserID {
			reviews[i].Rating = review.Rating
			reviews[i].Comment = review.Comment
			return reviews
		}
	}
	return append(reviews, review)
}

// RemoveReview drops the review with the given id, if present.
func RemoveReview(reviews []models.Review, reviewID string) []models.Review {
	out := make([]models.Review, 0, len(reviews))
	for _, rev := range reviews {
		if rev.ReviewID != reviewID {
			out = append(out, rev)
		}
	}
	return out
}

// MeanRating is the arithmetic mean of all current ratings; an empty set
// yields 0.
func MeanRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, rev := range reviews {
		sum += rev.Rating
	}
	return sum / float64(len(reviews))
}
