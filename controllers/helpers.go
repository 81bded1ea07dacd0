package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kovaikural/kural/middleware"
	"github.com/kovaikural/kural/models"
)

// getUserID reads the authenticated user id set by the auth middleware.
func getUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(middleware.CtxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func getRole(c *gin.Context) string {
	return c.GetString(middleware.CtxRole)
}

func isAdmin(c *gin.Context) bool {
	return getRole(c) == models.RoleAdmin
}

// parsePagination reads page/limit query params with sane bounds.
func parsePagination(pageStr, limitStr string) (page, limit, offset int) {
	page, _ = strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(limitStr)
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit, (page - 1) * limit
}

// parseUintParam parses a numeric path parameter.
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
