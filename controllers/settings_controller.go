package controllers

import (
	"net/http"

	"library-backend/services"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	Settings *services.SettingsService
}

func NewSettingsController(svc *services.SettingsService) *SettingsController {
	return &SettingsController{Settings: svc}
}

type publicSettings struct {
	MaxBookingDuration int    `json:"maxBookingDuration"`
	MaxAdvanceDays     int    `json:"maxAdvanceDays"`
	LibraryName        string `json:"libraryName"`
	SupportEmail       string `json:"supportEmail"`
}

// GetSettings handles GET /api/settings. Public: the student booking page
// needs maxBookingDuration and maxAdvanceDays to build its form. The
// registration access codes are not part of the public view.
func (sc *SettingsController) GetSettings(c *gin.Context) {
	settings, err := sc.Settings.Get()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, publicSettings{
		MaxBookingDuration: settings.MaxBookingDuration,
		MaxAdvanceDays:     settings.MaxAdvanceDays,
		LibraryName:        settings.LibraryName,
		SupportEmail:       settings.SupportEmail,
	})
}

// GetFullSettings handles GET /api/settings/full (admin): the whole row,
// access codes included.
func (sc *SettingsController) GetFullSettings(c *gin.Context) {
	settings, err := sc.Settings.Get()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/settings (admin). Partial update: omitted
// fields keep their value. Changes apply to the next validation, never
// retroactively.
func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	var payload services.UpdateSettingsInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "details": err.Error()})
		return
	}

	settings, err := sc.Settings.Update(payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
