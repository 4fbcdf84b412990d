package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mvcardoso/pdv-api/internal/application/service"
	"github.com/mvcardoso/pdv-api/internal/presentation/http/dto/response"
	"github.com/mvcardoso/pdv-api/pkg/pagination"
)

// RegisterHandler handles cash-register session HTTP requests
type RegisterHandler struct {
	registerService *service.RegisterService
}

// NewRegisterHandler creates a new register handler
func NewRegisterHandler(registerService *service.RegisterService) *RegisterHandler {
	return &RegisterHandler{registerService: registerService}
}

// Current returns the operator's open session, if any
func (h *RegisterHandler) Current(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	session, err := h.registerService.GetCurrentSession(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if session == nil {
		response.OK(c, "Register is closed", gin.H{"open": false})
		return
	}

	response.OK(c, "Register session retrieved", gin.H{"open": true, "session": session})
}

// Open opens a new register session
func (h *RegisterHandler) Open(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		OpeningAmount float64 `json:"opening_amount"`
		Notes         *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	session, err := h.registerService.OpenSession(c.Request.Context(), &service.OpenSessionInput{
		UserID:        *userID,
		OpeningAmount: int64(req.OpeningAmount*100 + 0.5),
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Register opened successfully", session)
}

// Close closes the operator's open session
func (h *RegisterHandler) Close(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		DeclaredAmount float64 `json:"declared_amount"`
		Notes          *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	session, err := h.registerService.CloseSession(c.Request.Context(), &service.CloseSessionInput{
		UserID:         *userID,
		DeclaredAmount: int64(req.DeclaredAmount*100 + 0.5),
		Notes:          req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Register closed successfully", session)
}

// Balance returns the expected drawer amount of the open session
func (h *RegisterHandler) Balance(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	balance, err := h.registerService.CurrentBalance(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Balance retrieved successfully", balance)
}

// Get returns a session with its movement ledger
func (h *RegisterHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	session, err := h.registerService.GetSession(c.Request.Context(), *userID, id, IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Register session retrieved", session)
}

// List lists the operator's sessions
func (h *RegisterHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	var startDate, endDate *time.Time
	if s := c.Query("start_date"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			startDate = &t
		}
	}
	if s := c.Query("end_date"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			e := t.Add(24*time.Hour - time.Second)
			endDate = &e
		}
	}

	result, err := h.registerService.ListSessions(c.Request.Context(), *userID, params, startDate, endDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Register sessions retrieved", result)
}

// ListMovements returns the cash ledger of the open session
func (h *RegisterHandler) ListMovements(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	movements, err := h.registerService.ListMovements(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Movements retrieved successfully", movements)
}

// AddMovement records a manual cash in/out (suprimento / sangria)
func (h *RegisterHandler) AddMovement(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Amount      float64 `json:"amount" binding:"required"`
		Out         bool    `json:"out"`
		Description string  `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	movement, err := h.registerService.AddManualMovement(c.Request.Context(), &service.ManualMovementInput{
		UserID:      *userID,
		Amount:      int64(req.Amount*100 + 0.5),
		Out:         req.Out,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Movement recorded successfully", movement)
}
