package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"homeclean-backend/internal/middleware"
	"homeclean-backend/internal/models"
	"homeclean-backend/internal/services"
)

// ProfileFetcher reads profile rows as the calling user. supabase.Client
// implements it over PostgREST.
type ProfileFetcher interface {
	FetchProfiles(accessToken, userID string) ([]models.Profile, error)
}

type ProfilesHandler struct {
	fetcher  ProfileFetcher
	accounts *services.AccountService
}

func NewProfilesHandler(fetcher ProfileFetcher, accounts *services.AccountService) *ProfilesHandler {
	return &ProfilesHandler{fetcher: fetcher, accounts: accounts}
}

// GetProfile godoc
// @Summary     Fetch the caller's profile rows
// @Description Reads through PostgREST with the caller's own token so row level security applies.
// @Tags        profile
// @Produce     json
// @Security    Bearer
// @Success     200 {array} models.Profile
// @Failure     401 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /profile [get]
func (h *ProfilesHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	token := c.GetString(middleware.AuthTokenKey)
	if token == "" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "missing access token"})
		return
	}

	profiles, err := h.fetcher.FetchProfiles(token, userID.String())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "failed to fetch profile",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// SaveProfile godoc
// @Summary     Create or update the caller's profile
// @Description role defaults to user_metadata.role from the access token when omitted.
// @Tags        profile
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.ProfileRequest true "Profile"
// @Success     200 {object} models.Profile
// @Failure     400 {object} models.ErrorResponse
// @Router      /profile [put]
func (h *ProfilesHandler) SaveProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.ProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	// Sign-up stores the chosen role in the token's user metadata
	if req.Role == "" {
		req.Role = models.Role(c.GetString(middleware.UserRoleKey))
	}

	profile, err := h.accounts.SaveProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// AcceptTerms godoc
// @Summary     Record terms acceptance
// @Tags        profile
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.Profile
// @Failure     404 {object} models.ErrorResponse
// @Router      /profile/terms [post]
func (h *ProfilesHandler) AcceptTerms(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	profile, err := h.accounts.AcceptTerms(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetWorkPreferences godoc
// @Summary     Get the caller's work preferences
// @Tags        profile
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.WorkPreference
// @Failure     404 {object} models.ErrorResponse
// @Router      /profile/work-preferences [get]
func (h *ProfilesHandler) GetWorkPreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	prefs, err := h.accounts.GetWorkPreference(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// SaveWorkPreferences godoc
// @Summary     Save the caller's work preferences
// @Tags        profile
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.WorkPreferenceRequest true "Preferences"
// @Success     200 {object} models.WorkPreference
// @Failure     400 {object} models.ErrorResponse
// @Router      /profile/work-preferences [put]
func (h *ProfilesHandler) SaveWorkPreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.WorkPreferenceRequest
	if !bindJSON(c, &req) {
		return
	}

	prefs, err := h.accounts.SaveWorkPreference(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// GetBankAccount godoc
// @Summary     Get the caller's payout account, masked
// @Tags        profile
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.BankAccountResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /profile/bank-account [get]
func (h *ProfilesHandler) GetBankAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	account, err := h.accounts.GetBankAccount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// SaveBankAccount godoc
// @Summary     Save the caller's payout account
// @Description BSB must be 6 digits and the account number 6 to 10 digits.
// @Tags        profile
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.BankAccountRequest true "Bank account"
// @Success     200 {object} models.BankAccountResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /profile/bank-account [put]
func (h *ProfilesHandler) SaveBankAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.BankAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.accounts.SaveBankAccount(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}
