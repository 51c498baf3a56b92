package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/crimestats-backend-go/internal/loader"
	"github.com/jengzang/crimestats-backend-go/internal/models"
	"github.com/jengzang/crimestats-backend-go/internal/repository"
	"github.com/jengzang/crimestats-backend-go/internal/service"
	"github.com/jengzang/crimestats-backend-go/pkg/response"
)

// fail maps store and service errors onto the response envelope.
func fail(c *gin.Context, message string, err error) {
	_ = c.Error(err)
	response.FromError(c, message, err,
		response.Is(repository.ErrStoreUnavailable, http.StatusServiceUnavailable),
		response.Is(service.ErrNoData, http.StatusNotFound),
		response.Is(loader.ErrMissingColumn, http.StatusBadRequest),
	)
}

// queryDistricts reads the repeated district parameter. An absent parameter
// yields nil (all districts); blank values are dropped, so "district="
// selects nothing.
func queryDistricts(c *gin.Context) []string {
	values, ok := c.GetQueryArray("district")
	if !ok {
		return nil
	}
	districts := []string{}
	for _, v := range values {
		for _, d := range strings.Split(v, ",") {
			if d = strings.TrimSpace(d); d != "" {
				districts = append(districts, d)
			}
		}
	}
	return districts
}

// parseStart reads a lower bound given as YYYY-MM-DD or YYYY-MM.
func parseStart(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	ym, err := models.ParseYearMonth(value)
	if err != nil {
		return time.Time{}, err
	}
	return ym.Start(), nil
}

// parseEnd reads an inclusive upper bound: a date covers the whole day, a
// month the whole month.
func parseEnd(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.Add(24*time.Hour - time.Second), nil
	}
	ym, err := models.ParseYearMonth(value)
	if err != nil {
		return time.Time{}, err
	}
	return ym.End(), nil
}
