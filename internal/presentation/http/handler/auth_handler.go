package handler

import (
	"github.com/ezequiel-pelliza/cajaclara/internal/application/service"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/enum"
	"github.com/ezequiel-pelliza/cajaclara/internal/presentation/http/dto/request"
	"github.com/ezequiel-pelliza/cajaclara/internal/presentation/http/dto/response"
	"github.com/ezequiel-pelliza/cajaclara/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

var allAreas = []string{enum.AreaPOS, enum.AreaCatalog, enum.AreaExpenses, enum.AreaHistory, enum.AreaDashboard}

// AuthHandler handles PIN sign-in
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login exchanges a PIN for a role token
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.PinLoginRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		PIN:        req.PIN,
		TerminalID: req.TerminalID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Signed in", out)
}

// Me describes the authenticated operator and the areas it may open
func (h *AuthHandler) Me(c *gin.Context) {
	role, _ := middleware.GetRole(c)
	areas := make([]string, 0, len(allAreas))
	for _, a := range allAreas {
		if role.CanAccess(a) {
			areas = append(areas, a)
		}
	}
	response.OK(c, "Current operator", gin.H{
		"role":        role,
		"terminal_id": middleware.GetTerminalID(c),
		"areas":       areas,
	})
}
