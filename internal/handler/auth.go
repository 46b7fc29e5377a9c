package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KanujanS/LMS/internal/model"
)

type AuthService interface {
	Register(ctx context.Context, input *model.RegisterInput) (*model.User, string, error)
	Login(ctx context.Context, input *model.LoginInput) (*model.User, string, error)
	GetMe(ctx context.Context) (*model.User, error)
}

type AuthHandler struct {
	s AuthService
}

func NewAuthHandler(s AuthService) *AuthHandler {
	return &AuthHandler{s: s}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.With(authMiddleware).Get("/me", h.GetMe)
}

type authResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input model.RegisterInput
	if err := decodeJSON(r, &input); err != nil {
		writeErr(w, err)
		return
	}

	user, token, err := h.s.Register(r.Context(), &input)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input model.LoginInput
	if err := decodeJSON(r, &input); err != nil {
		writeErr(w, err)
		return
	}

	user, token, err := h.s.Login(r.Context(), &input)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.s.GetMe(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*model.User{"user": user})
}
