package handler

import (
	"errors"
	"net/http"

	"github.com/RimBin/yakiwood-shop-sub002/internal/model"
	"github.com/RimBin/yakiwood-shop-sub002/internal/pricing"
	"github.com/RimBin/yakiwood-shop-sub002/internal/pricing/dto"
	"github.com/RimBin/yakiwood-shop-sub002/pkg/auth"
	"github.com/RimBin/yakiwood-shop-sub002/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PricingHandler struct {
	uc        pricing.UseCase
	jwtSecret string
	logger    logger.ZapLogger
}

func NewPricingHandler(uc pricing.UseCase, jwtSecret string, log logger.ZapLogger) *PricingHandler {
	return &PricingHandler{uc: uc, jwtSecret: jwtSecret, logger: log}
}

func (h *PricingHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/pricing/quote", h.QuoteConfiguration)
	r.POST("/pricing/lock", h.LockQuote)
	r.POST("/pricing/redeem", h.RedeemQuote)
}

func (h *PricingHandler) QuoteConfiguration(c *gin.Context) {
	var input dto.QuoteConfigurationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	quote, err := h.uc.QuoteConfiguration(c.Request.Context(), &input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *PricingHandler) LockQuote(c *gin.Context) {
	var input dto.LockQuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// A valid bearer token contributes the role discount; anonymous carts
	// are priced without one.
	claims, err := auth.FromAuthorizationHeader(c.GetHeader("Authorization"), h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	if claims != nil {
		input.Role = claims.Role
	}

	locked, err := h.uc.LockQuote(c.Request.Context(), &input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, locked)
}

type redeemBody struct {
	QuoteToken string `json:"quote_token"`
}

func (h *PricingHandler) RedeemQuote(c *gin.Context) {
	var body redeemBody
	if err := c.ShouldBindJSON(&body); err != nil || body.QuoteToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quote_token is required"})
		return
	}

	redeemed, err := h.uc.RedeemQuote(c.Request.Context(), body.QuoteToken)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, redeemed)
}

func (h *PricingHandler) writeError(c *gin.Context, err error) {
	var validation *model.ValidationError
	var noMatch *model.NoPriceMatchError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &noMatch):
		// A catalog gap: the configuration is unavailable, never guessed.
		c.JSON(http.StatusNotFound, gin.H{"error": "no price found for this configuration"})
	case errors.Is(err, model.ErrQuoteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "quote not found"})
	case errors.Is(err, model.ErrQuoteExpired):
		c.JSON(http.StatusGone, gin.H{"error": "quote expired, please re-price the cart"})
	case errors.Is(err, model.ErrQuoteAlreadyRedeemed):
		c.JSON(http.StatusConflict, gin.H{"error": "quote already redeemed"})
	case errors.Is(err, model.ErrDuplicateLockRequest):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		h.logger.Error("pricing request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to calculate pricing"})
	}
}
