package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/middleware"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/account"
)

type AuthHandler struct {
	accounts *account.Accounts
}

func NewAuthHandler(accounts *account.Accounts) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// --------- Requests ---------

type RegisterRequest struct {
	EstablishmentName    string `json:"establishment_name" binding:"required"`
	EstablishmentPhone   string `json:"establishment_phone"`
	EstablishmentAddress string `json:"establishment_address"`
	BusinessLine         *int   `json:"business_line"`
	Timezone             string `json:"timezone"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	session, err := h.accounts.Register(c.Request.Context(), account.RegisterInput{
		EstablishmentName:    req.EstablishmentName,
		EstablishmentPhone:   req.EstablishmentPhone,
		EstablishmentAddress: req.EstablishmentAddress,
		BusinessLine:         req.BusinessLine,
		Timezone:             req.Timezone,
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		Phone:                req.Phone,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, session)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	session, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, session)
}

// GET /api/me
func (h *AuthHandler) Me(c *gin.Context) {
	session, err := h.accounts.Me(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		middleware.UserID(c),
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, session)
}
