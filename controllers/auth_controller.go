package controllers

import (
	"net/http"
	"strings"

	"rental-backend/middleware"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AuthController struct {
	UserSvc *services.UserService
}

func NewAuthController(svc *services.UserService) *AuthController {
	return &AuthController{UserSvc: svc}
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordPayload struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (ctrl *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	username := strings.TrimSpace(payload.Username)
	if username == "" || payload.Password == "" {
		utils.JSONError(c, http.StatusBadRequest, "username and password required")
		return
	}

	user, err := ctrl.UserSvc.GetByUsername(username)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !user.IsActive {
		utils.JSONError(c, http.StatusUnauthorized, "account disabled")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)) != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := utils.GenerateAccessToken(user.ID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to generate token")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":        user.ID,
			"full_name": user.FullName,
			"username":  user.Username,
		},
	})
}

func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	var payload changePasswordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := ctrl.UserSvc.ChangePassword(middleware.ActorID(c), payload.OldPassword, payload.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"changed": true})
}

func (ctrl *AuthController) Me(c *gin.Context) {
	user, err := ctrl.UserSvc.GetByID(middleware.ActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	perms, err := ctrl.UserSvc.PermissionsForUser(user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"user": user, "permissions": perms})
}
