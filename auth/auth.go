package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"smartkop/apperr"
	"smartkop/assets"
	"smartkop/config"
	"smartkop/db"
	"smartkop/mail"
	"smartkop/models"
	"smartkop/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	Store  *db.Store
	Mail   mail.Mailer
	Assets assets.Host
	Cfg    config.Config
}

// POST /api/v1/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Avatar   string `json:"avatar"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return apperr.Wrap(apperr.Validation, "Invalid input", err)
	}

	if input.Name == "" || len(input.Name) > 30 {
		return apperr.New(apperr.Validation, "Please enter a name of at most 30 characters")
	}
	if !utils.IsValidEmail(input.Email) {
		return apperr.New(apperr.Validation, "Please enter a valid email address")
	}
	if len(input.Password) < 6 {
		return apperr.New(apperr.Validation, "Password must be at least 6 characters")
	}

	avatar := models.Image{
		PublicID: h.Cfg.DefaultAvatarID,
		URL:      h.Cfg.DefaultAvatarURL,
	}
	if input.Avatar != "" {
		result, err := h.Assets.Upload(r.Context(), input.Avatar, "avatars", 150)
		if err != nil {
			return err
		}
		avatar = models.Image{PublicID: result.PublicID, URL: result.URL}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		UserID:    "u" + utils.GenerateRandomString(10),
		Name:      input.Name,
		Email:     input.Email,
		Password:  string(hashed),
		Role:      models.RoleUser,
		Avatar:    avatar,
		CartItems: []models.CartItem{},
		CreatedAt: time.Now(),
	}

	if _, err := h.Store.Users.InsertOne(r.Context(), user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Wrap(apperr.Conflict, "Email already registered", err)
		}
		return err
	}

	if err := h.Mail.Send(r.Context(), mail.Message{
		To:      user.Email,
		Subject: "Welcome to SmartKop",
		HTML:    welcomeHTML(user.Name, h.Cfg.FrontendURL),
	}); err != nil {
		return err
	}

	return SendToken(w, &user, http.StatusOK, h.Cfg)
}

// POST /api/v1/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return apperr.Wrap(apperr.Validation, "Invalid input", err)
	}
	if input.Email == "" || input.Password == "" {
		return apperr.New(apperr.Validation, "Please enter your email and password")
	}

	var user models.User
	err := h.Store.Users.FindOne(r.Context(), bson.M{"email": input.Email}).Decode(&user)
	if err != nil {
		return lookupErr(err, apperr.InvalidCredentials, "Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return apperr.New(apperr.InvalidCredentials, "Invalid email or password")
	}

	return SendToken(w, &user, http.StatusOK, h.Cfg)
}

// GET /api/v1/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	ClearTokenCookie(w, h.Cfg)
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out",
	})
	return nil
}

// POST /api/v1/password/forgot
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	var input struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return apperr.Wrap(apperr.Validation, "Invalid input", err)
	}

	var user models.User
	err := h.Store.Users.FindOne(r.Context(), bson.M{"email": input.Email}).Decode(&user)
	if err != nil {
		return lookupErr(err, apperr.NotFound, "No user found with this email address")
	}

	raw, hashed, expiry, err := GenerateResetToken()
	if err != nil {
		return err
	}

	_, err = h.Store.Users.UpdateOne(r.Context(),
		bson.M{"userid": user.UserID},
		bson.M{"$set": bson.M{
			"resetPasswordToken":  hashed,
			"resetPasswordExpire": expiry,
		}},
	)
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/password/reset/%s", h.Cfg.FrontendURL, raw)
	if err := h.Mail.Send(r.Context(), mail.Message{
		To:      user.Email,
		Subject: "SmartKop password recovery",
		HTML:    resetHTML(resetURL),
	}); err != nil {
		// Roll the issued token back so a stale valid token cannot linger.
		h.clearResetToken(r.Context(), user.UserID)
		return err
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Email sent to: %s", user.Email),
	})
	return nil
}

// PUT /api/v1/password/reset/:token
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	var input struct {
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return apperr.Wrap(apperr.Validation, "Invalid input", err)
	}

	hashed := HashResetToken(ps.ByName("token"))

	var user models.User
	err := h.Store.Users.FindOne(r.Context(), bson.M{
		"resetPasswordToken":  hashed,
		"resetPasswordExpire": bson.M{"$gt": time.Now()},
	}).Decode(&user)
	if err != nil {
		return lookupErr(err, apperr.Validation, "Password reset token is invalid or has expired")
	}

	if input.Password != input.ConfirmPassword {
		return apperr.New(apperr.Validation, "Passwords do not match")
	}
	if len(input.Password) < 6 {
		return apperr.New(apperr.Validation, "Password must be at least 6 characters")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = h.Store.Users.UpdateOne(r.Context(),
		bson.M{"userid": user.UserID},
		bson.M{
			"$set":   bson.M{"password": string(newHash)},
			"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""},
		},
	)
	if err != nil {
		return err
	}

	user.Password = string(newHash)
	return SendToken(w, &user, http.StatusOK, h.Cfg)
}

// lookupErr maps a missing document onto the given taxonomy kind; any other
// store failure passes through unclassified so it renders as Internal, not as
// a credential problem.
func lookupErr(err error, kind apperr.Kind, message string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.New(kind, message)
	}
	return err
}

func (h *Handler) clearResetToken(ctx context.Context, userID string) {
	_, err := h.Store.Users.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""}},
	)
	if err != nil {
		log.Printf("failed to clear reset token for %s: %v", userID, err)
	}
}

func welcomeHTML(name, frontendURL string) string {
	return fmt.Sprintf(`
	<h3>Hello %s,</h3>
	<div>
		Welcome to SmartKop!<br><br>
		This email confirms your registration.<br>
		You can return to the site by clicking <a href="%s">SmartKop</a>.<br><br>
		See you soon!<br>
		The SmartKop team
	</div>`, name, frontendURL)
}

func resetHTML(resetURL string) string {
	return fmt.Sprintf(`
	<h3>Password reset request.</h3>
	<div>
		You can reset your password by clicking <a href="%s">here</a>.<br>
		If you did not make this request you can safely ignore it.<br><br>
		See you soon!<br>
		The SmartKop team
	</div>`, resetURL)
}
