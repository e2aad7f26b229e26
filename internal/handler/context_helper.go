package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-mailroom/mailroom-api/internal/models"
	"github.com/campus-mailroom/mailroom-api/internal/query"
	appErrors "github.com/campus-mailroom/mailroom-api/pkg/errors"
	"github.com/campus-mailroom/mailroom-api/pkg/response"
)

// bindJSON decodes the body into dest, answering 400 on malformed input.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

func badQuery(err error, param string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, fmt.Sprintf("invalid %s: %v", param, err))
}

func dateRange(c *gin.Context) (start, end *time.Time, err error) {
	if start, err = query.ParseDate(c.Query("startDate"), query.StartOfDay); err != nil {
		return nil, nil, badQuery(err, "startDate")
	}
	if end, err = query.ParseDate(c.Query("endDate"), query.EndOfDay); err != nil {
		return nil, nil, badQuery(err, "endDate")
	}
	return start, end, nil
}

func packageFilterFromQuery(c *gin.Context) (models.PackageFilter, error) {
	filter := models.PackageFilter{
		Params:    query.FromValues(c.Request.URL.Query()),
		StudentID: strings.TrimSpace(c.Query("studentId")),
		Search:    strings.TrimSpace(c.Query("search")),
	}
	status, err := models.ParsePackageStatus(c.Query("status"))
	if err != nil {
		return filter, badQuery(err, "status")
	}
	filter.Status = status
	if filter.StartDate, filter.EndDate, err = dateRange(c); err != nil {
		return filter, err
	}
	return filter, nil
}

func userFilterFromQuery(c *gin.Context) (models.UserFilter, error) {
	filter := models.UserFilter{
		Params: query.FromValues(c.Request.URL.Query()),
		Search: strings.TrimSpace(c.Query("search")),
	}
	role, err := models.ParseUserRole(c.Query("role"))
	if err != nil {
		return filter, badQuery(err, "role")
	}
	filter.Role = role
	return filter, nil
}

func orderFilterFromQuery(c *gin.Context) (models.OrderFilter, error) {
	filter := models.OrderFilter{
		Params:      query.FromValues(c.Request.URL.Query()),
		UserID:      strings.TrimSpace(c.Query("userId")),
		ProfessorID: strings.TrimSpace(c.Query("professorId")),
		Search:      strings.TrimSpace(c.Query("search")),
	}
	status, err := models.ParseOrderStatus(c.Query("status"))
	if err != nil {
		return filter, badQuery(err, "status")
	}
	filter.Status = status
	if filter.StartDate, filter.EndDate, err = dateRange(c); err != nil {
		return filter, err
	}
	return filter, nil
}
