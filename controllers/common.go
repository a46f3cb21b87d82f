package controllers

import (
	"net/http"
	"strconv"

	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondServiceError maps the service error taxonomy onto HTTP responses.
// Unexpected errors get logged with context and a generic message, the
// details stay server-side.
func respondServiceError(c *gin.Context, err error) {
	if ve, ok := services.AsValidation(err); ok {
		utils.JSONFieldErrors(c, http.StatusBadRequest, ve.Fields)
		return
	}
	if nf, ok := services.AsNotFound(err); ok {
		utils.JSONError(c, http.StatusNotFound, nf.Error())
		return
	}
	if ae, ok := services.AsAuthorization(err); ok {
		utils.JSONError(c, http.StatusForbidden, ae.Error())
		return
	}

	logrus.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).WithError(err).Error("request handling failed")
	utils.JSONError(c, http.StatusInternalServerError, "something went wrong, please try again")
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}
