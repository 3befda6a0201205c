package delivery

import (
	"errors"
	"net/http"
	"strconv"

	authdomain "fyndflip-backend/internal/auth/domain"
	"fyndflip-backend/internal/listing/domain"
	"fyndflip-backend/internal/listing/usecase"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	listings usecase.ListingUsecase
}

func NewListingHandler(listings usecase.ListingUsecase) *ListingHandler {
	return &ListingHandler{listings: listings}
}

type listingRequest struct {
	Title       string  `json:"title" binding:"required,min=5"`
	Description string  `json:"description"`
	Category    string  `json:"category" binding:"required"`
	Condition   string  `json:"condition"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Location    string  `json:"location"`
	Status      string  `json:"status"`
}

func (h *ListingHandler) Create(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing := toListing(&req)
	if err := h.listings.Create(user.ID, listing); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create listing"})
		return
	}
	c.JSON(http.StatusCreated, listing)
}

func (h *ListingHandler) Get(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	listing, err := h.listings.Get(user.ID, c.Param("id"))
	if err != nil {
		c.JSON(statusForListingError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *ListingHandler) List(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	var status *domain.ListingStatus
	if s := c.Query("status"); s != "" {
		st := domain.ListingStatus(s)
		status = &st
	}

	listings, total, err := h.listings.List(user.ID, status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list listings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings, "total": total})
}

func (h *ListingHandler) Update(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing := toListing(&req)
	listing.ID = c.Param("id")
	if err := h.listings.Update(user.ID, listing); err != nil {
		c.JSON(statusForListingError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "listing updated"})
}

func (h *ListingHandler) Delete(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	if err := h.listings.Delete(user.ID, c.Param("id")); err != nil {
		c.JSON(statusForListingError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "listing deleted"})
}

func toListing(req *listingRequest) *domain.Listing {
	return &domain.Listing{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Condition:   domain.Condition(req.Condition),
		Price:       req.Price,
		Location:    req.Location,
		Status:      domain.ListingStatus(req.Status),
	}
}

func statusForListingError(err error) int {
	switch {
	case errors.Is(err, domain.ErrListingNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func mustUser(c *gin.Context) *authdomain.User {
	if v, ok := c.Get("user"); ok {
		if user, ok := v.(*authdomain.User); ok {
			return user
		}
	}
	c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
	c.Abort()
	return nil
}
