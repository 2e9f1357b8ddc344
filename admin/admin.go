package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"smartkop/apperr"
	"smartkop/assets"
	"smartkop/config"
	"smartkop/db"
	"smartkop/models"
	"smartkop/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Handler struct {
	Store  *db.Store
	Assets assets.Host
	Cfg    config.Config
}

// GET /api/v1/admin/users
func (h *Handler) AllUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	cur, err := h.Store.Users.Find(r.Context(), bson.M{})
	if err != nil {
		return err
	}

	users := []models.User{}
	if err := cur.All(r.Context(), &users); err != nil {
		return err
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"users":   users,
	})
	return nil
}

// GET /api/v1/admin/user/:id
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	user, err := h.findUser(r.Context(), ps.ByName("id"))
	if err != nil {
		return err
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
	return nil
}

// PUT /api/v1/admin/user/:id
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	user, err := h.findUser(r.Context(), ps.ByName("id"))
	if err != nil {
		return err
	}

	var input struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return apperr.Wrap(apperr.Validation, "Invalid input", err)
	}

	update := bson.M{}
	if name := strings.TrimSpace(input.Name); name != "" {
		if len(name) > 30 {
			return apperr.New(apperr.Validation, "Your name cannot exceed 30 characters")
		}
		update["name"] = name
	}
	if email := strings.TrimSpace(input.Email); email != "" {
		if !utils.IsValidEmail(email) {
			return apperr.New(apperr.Validation, "Please enter a valid email address")
		}
		update["email"] = email
	}
	if input.Role != "" {
		if !utils.Contains([]string{models.RoleUser, models.RoleAdmin}, input.Role) {
			return apperr.New(apperr.Validation, "Invalid role")
		}
		update["role"] = input.Role
	}

	if len(update) > 0 {
		_, err = h.Store.Users.UpdateOne(r.Context(),
			bson.M{"userid": user.UserID},
			bson.M{"$set": update},
		)
		if err != nil {
			return err
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true})
	return nil
}

// DELETE /api/v1/admin/user/:id
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	user, err := h.findUser(r.Context(), ps.ByName("id"))
	if err != nil {
		return err
	}

	if user.Avatar.PublicID != "" && user.Avatar.PublicID != h.Cfg.DefaultAvatarID {
		// Stale avatar files are acceptable if removal fails.
		_ = h.Assets.Destroy(r.Context(), user.Avatar.PublicID)
	}

	if _, err := h.Store.Users.DeleteOne(r.Context(), bson.M{"userid": user.UserID}); err != nil {
		return err
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true})
	return nil
}

func (h *Handler) findUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := h.Store.Users.FindOne(ctx, bson.M{"userid": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.NotFound, "No user found with this ID")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
