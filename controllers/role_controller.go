package controllers

import (
	"net/http"
	"strings"

	"rental-backend/models"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

type RoleController struct {
	UserSvc *services.UserService
}

func NewRoleController(svc *services.UserService) *RoleController {
	return &RoleController{UserSvc: svc}
}

type rolePermissionsPayload struct {
	Permissions []string `json:"permissions"`
}

type roleMemberResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

var defaultActionsByModule = map[string][]string{
	"rentalManagement":    {"view", "create", "edit", "return", "export"},
	"vehicleManagement":   {"view", "create", "edit", "delete", "editStatus"},
	"customerList":        {"view", "create", "edit", "delete", "export"},
	"accounting":          {"view", "create", "delete", "reports"},
	"userManagement":      {"view", "create", "delete"},
	"rolesAndPermissions": {"view", "create", "edit", "delete"},
}

func buildDefaultPermissions() map[string]map[string]bool {
	permMap := map[string]map[string]bool{}
	for module, actions := range defaultActionsByModule {
		permMap[module] = map[string]bool{}
		for _, action := range actions {
			permMap[module][action] = false
		}
	}
	return permMap
}

type roleResponse struct {
	ID          uint                       `json:"id"`
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Permissions map[string]map[string]bool `json:"permissions"`
	Members     []roleMemberResponse       `json:"members"`
}

func (ctrl *RoleController) Index(c *gin.Context) {
	roles, err := ctrl.UserSvc.GetRoles()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	responses := make([]roleResponse, 0, len(roles))
	for _, role := range roles {
		permMap := buildDefaultPermissions()
		for _, perm := range role.Permissions {
			parts := strings.Split(perm.Permission, ".")
			if len(parts) != 2 {
				continue
			}
			module, action := parts[0], parts[1]
			if _, ok := permMap[module]; !ok {
				permMap[module] = map[string]bool{}
			}
			permMap[module][action] = true
		}

		members := make([]roleMemberResponse, 0, len(role.Members))
		for _, user := range role.Members {
			members = append(members, roleMemberResponse{
				ID:       user.ID,
				Name:     user.FullName,
				Username: user.Username,
			})
		}

		responses = append(responses, roleResponse{
			ID:          role.ID,
			Name:        role.Name,
			Description: role.Description,
			Permissions: permMap,
			Members:     members,
		})
	}

	utils.JSONSuccess(c, http.StatusOK, responses)
}

type createRolePayload struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

func (ctrl *RoleController) Create(c *gin.Context) {
	var payload createRolePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	role := models.Role{Name: payload.Name, Description: payload.Description}
	if err := ctrl.UserSvc.CreateRole(&role); err != nil {
		respondServiceError(c, err)
		return
	}
	if len(payload.Permissions) > 0 {
		if err := ctrl.UserSvc.ReplaceRolePermissions(role.ID, payload.Permissions); err != nil {
			respondServiceError(c, err)
			return
		}
	}
	utils.JSONSuccess(c, http.StatusCreated, role)
}

func (ctrl *RoleController) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctrl.UserSvc.DeleteRole(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

type assignMemberPayload struct {
	UserID uint `json:"user_id" binding:"required"`
}

func (ctrl *RoleController) AssignMember(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload assignMemberPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if err := ctrl.UserSvc.AssignRole(payload.UserID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"assigned": true})
}

func (ctrl *RoleController) UpdatePermissions(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload rolePermissionsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if err := ctrl.UserSvc.ReplaceRolePermissions(id, payload.Permissions); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"updated": true})
}
