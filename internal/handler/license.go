package handler // license handlers manage driver-license records

import (
	"net/http" // http provides status code constants
	"strings"  // strings offers trimming utilities
	"time"     // time parses the license dates

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/fleet-yard-manager/internal/model"      // model holds the domain entities
	"github.com/iliyamo/fleet-yard-manager/internal/repository" // repository holds the data access layer
)

// LicenseHandler exposes CRUD endpoints for driver licenses.
type LicenseHandler struct {
	Licenses *repository.LicenseRepo
}

// NewLicenseHandler constructs a LicenseHandler.
func NewLicenseHandler(licenses *repository.LicenseRepo) *LicenseHandler {
	return &LicenseHandler{Licenses: licenses}
}

// parseLicenseDate accepts the plain YYYY-MM-DD form licenses carry.
func parseLicenseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(raw))
}

// Create handles POST /v1/licenses and registers a license record.
func (h *LicenseHandler) Create(c echo.Context) error {
	var body struct {
		DriverName         string `json:"driver_name"`
		RegistrationNumber string `json:"registration_number"`
		Category           string `json:"category"`
		IssuedAt           string `json:"issued_at"`
		ExpiresAt          string `json:"expires_at"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	issued, err := parseLicenseDate(body.IssuedAt)
	if err != nil {
		return respondError(c, repository.ErrInvalidInput)
	}
	expires, err := parseLicenseDate(body.ExpiresAt)
	if err != nil {
		return respondError(c, repository.ErrInvalidInput)
	}
	license := &model.License{
		DriverName:         strings.TrimSpace(body.DriverName),
		RegistrationNumber: strings.TrimSpace(body.RegistrationNumber),
		Category:           strings.ToUpper(strings.TrimSpace(body.Category)),
		IssuedAt:           issued,
		ExpiresAt:          expires,
	}
	if err := h.Licenses.Create(c.Request().Context(), license); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, license)
}

// List handles GET /v1/licenses. Query parameters narrow the result:
// driver (name substring), category, expired=true, expiring=true.
func (h *LicenseHandler) List(c echo.Context) error {
	f := &repository.LicenseFilter{
		DriverName:   c.QueryParam("driver"),
		Category:     strings.ToUpper(c.QueryParam("category")),
		ExpiredOnly:  c.QueryParam("expired") == "true",
		ExpiringOnly: c.QueryParam("expiring") == "true",
	}
	items, err := h.Licenses.List(c.Request().Context(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// GetByNumber handles GET /v1/licenses/:number.
func (h *LicenseHandler) GetByNumber(c echo.Context) error {
	license, err := h.Licenses.GetByNumber(c.Request().Context(), c.Param("number"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, license)
}

// Update handles PUT /v1/licenses/:number. The registration number is
// immutable and only identifies the record.
func (h *LicenseHandler) Update(c echo.Context) error {
	license, err := h.Licenses.GetByNumber(c.Request().Context(), c.Param("number"))
	if err != nil {
		return respondError(c, err)
	}
	var body struct {
		DriverName *string `json:"driver_name"`
		Category   *string `json:"category"`
		IssuedAt   *string `json:"issued_at"`
		ExpiresAt  *string `json:"expires_at"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if body.DriverName != nil {
		license.DriverName = strings.TrimSpace(*body.DriverName)
	}
	if body.Category != nil {
		license.Category = strings.ToUpper(strings.TrimSpace(*body.Category))
	}
	if body.IssuedAt != nil {
		issued, err := parseLicenseDate(*body.IssuedAt)
		if err != nil {
			return respondError(c, repository.ErrInvalidInput)
		}
		license.IssuedAt = issued
	}
	if body.ExpiresAt != nil {
		expires, err := parseLicenseDate(*body.ExpiresAt)
		if err != nil {
			return respondError(c, repository.ErrInvalidInput)
		}
		license.ExpiresAt = expires
	}
	if err := h.Licenses.Update(c.Request().Context(), license); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, license)
}

// Delete handles DELETE /v1/licenses/:number.
func (h *LicenseHandler) Delete(c echo.Context) error {
	if err := h.Licenses.Delete(c.Request().Context(), c.Param("number")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
