package profile

import (
	"encoding/json"
	"log"
	"net/http"

	"smartkop/apperr"
	"smartkop/assets"
	"smartkop/auth"
	"smartkop/config"
	"smartkop/db"
	"smartkop/middleware"
	"smartkop/models"
	"smartkop/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	Store  *db.Store
	Assets assets.Host
	Cfg    config.Config
}

// GET /api/v1/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	user := middleware.UserFrom(r.Context())

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
	return nil
}

// PUT /api/v1/password/update
func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	user := middleware.UserFrom(r.Context())

	var input struct {
		OldPassword string `json:"oldPassword"`
		Password    string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return apperr.Wrap(apperr.Validation, "Invalid input", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.OldPassword)); err != nil {
		return apperr.New(apperr.Validation, "Old password is incorrect")
	}
	if len(input.Password) < 6 {
		return apperr.New(apperr.Validation, "Password must be at least 6 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = h.Store.Users.UpdateOne(r.Context(),
		bson.M{"userid": user.UserID},
		bson.M{"$set": bson.M{"password": string(hashed)}},
	)
	if err != nil {
		return err
	}

	user.Password = string(hashed)
	return auth.SendToken(w, user, http.StatusOK, h.Cfg)
}

// PUT /api/v1/me/update
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	user := middleware.UserFrom(r.Context())

	var input struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		Avatar string `json:"avatar"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return apperr.Wrap(apperr.Validation, "Invalid input", err)
	}

	update := bson.M{}
	if input.Name != "" {
		if len(input.Name) > 30 {
			return apperr.New(apperr.Validation, "Please enter a name of at most 30 characters")
		}
		update["name"] = input.Name
	}
	if input.Email != "" {
		if !utils.IsValidEmail(input.Email) {
			return apperr.New(apperr.Validation, "Please enter a valid email address")
		}
		update["email"] = input.Email
	}

	if input.Avatar != "" {
		// Best-effort release of the previous asset before the new upload.
		if user.Avatar.PublicID != "" && user.Avatar.PublicID != h.Cfg.DefaultAvatarID {
			if err := h.Assets.Destroy(r.Context(), user.Avatar.PublicID); err != nil {
				log.Printf("avatar destroy failed for %s: %v", user.UserID, err)
			}
		}
		result, err := h.Assets.Upload(r.Context(), input.Avatar, "avatars", 150)
		if err != nil {
			return err
		}
		update["avatar"] = models.Image{PublicID: result.PublicID, URL: result.URL}
	}

	if len(update) > 0 {
		_, err := h.Store.Users.UpdateOne(r.Context(),
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

// PUT /api/v1/me/update/cart
//
// The client may post the cart either as a JSON array or as a JSON-encoded
// string containing one; both replace the stored cart wholesale.
func (h *Handler) UpdateCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	user := middleware.UserFrom(r.Context())

	var input struct {
		AllCartItems json.RawMessage `json:"allCartItems"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return apperr.Wrap(apperr.Validation, "Invalid input", err)
	}

	cart, err := decodeCart(input.AllCartItems)
	if err != nil {
		return apperr.Wrap(apperr.Validation, "Invalid cart data", err)
	}

	_, err = h.Store.Users.UpdateOne(r.Context(),
		bson.M{"userid": user.UserID},
		bson.M{"$set": bson.M{"cartItems": cart}},
	)
	if err != nil {
		return err
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true})
	return nil
}

func decodeCart(raw json.RawMessage) ([]models.CartItem, error) {
	if len(raw) == 0 {
		return []models.CartItem{}, nil
	}

	var cart []models.CartItem
	if err := json.Unmarshal(raw, &cart); err == nil {
		return cart, nil
	}

	// String-wrapped payload: unwrap, then decode the inner array.
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(encoded), &cart); err != nil {
		return nil, err
	}
	return cart, nil
}
