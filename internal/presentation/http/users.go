package httppresentation

import (
	"net/http"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application/auth"
	domuser "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/user"
)

type registerRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, registerSchema, &req); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	u, err := h.Auth.Register(r.Context(), auth.RegisterInput{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, loginSchema, &req); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	res, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if err := auth.Authorize(principalFrom(r.Context()), domuser.CapUsersRead); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	users, err := h.Auth.Users(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
