// Package api serves the menu, search, share links and order composition
// over HTTP.
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"menu-bot/metrics"
	"menu-bot/models"
	"menu-bot/services"
)

type Handler struct {
	store      *services.CatalogStore
	dispatcher *services.Dispatcher
	shareURL   string
}

// NewHandler builds the handlers. The dispatcher only composes orders here
// (no opener); the client opens the returned URL itself.
func NewHandler(store *services.CatalogStore, orderCfg services.OrderConfig, shareURL string) *Handler {
	return &Handler{
		store:      store,
		dispatcher: services.NewDispatcher(orderCfg, nil),
		shareURL:   shareURL,
	}
}

func langParam(c *gin.Context) (models.Language, bool) {
	raw := c.Query("lang")
	if raw == "" {
		return models.DefaultLanguage, true
	}
	l, err := models.ParseLanguage(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return l, true
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetMenu returns the whole catalog.
func (h *Handler) GetMenu(c *gin.Context) {
	m := h.store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"count": services.CountItems(m.Categories),
		"menu":  m,
	})
}

// SearchMenu filters by ?category= and ?q=.
func (h *Handler) SearchMenu(c *gin.Context) {
	l, ok := langParam(c)
	if !ok {
		return
	}
	metrics.Searches.WithLabelValues("http").Inc()
	cats := services.FilterCategories(h.store.Categories(), c.Query("category"), c.Query("q"), l)
	c.JSON(http.StatusOK, gin.H{
		"count":      services.CountItems(cats),
		"categories": cats,
	})
}

func (h *Handler) GetContacts(c *gin.Context) {
	address := h.store.Address()
	c.JSON(http.StatusOK, gin.H{
		"contacts": h.store.Contacts(),
		"address":  address,
		"maps_url": services.MapsURL(address),
		"phone":    h.store.RestaurantPhone(h.dispatcher.Config().FallbackPhone),
	})
}

// GetShareLinks shares ?url=, or the configured public URL.
func (h *Handler) GetShareLinks(c *gin.Context) {
	page := strings.TrimSpace(c.Query("url"))
	if page == "" {
		page = h.shareURL
	}
	if page == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}
	c.JSON(http.StatusOK, services.BuildShareLinks(page, h.dispatcher.Config().RestaurantName))
}

type ComposeOrderRequest struct {
	Items []struct {
		ID       string `json:"id" binding:"required"`
		Quantity int    `json:"quantity" binding:"required,min=1,max=99"`
	} `json:"items" binding:"required,min=1,dive"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Lang          string `json:"lang"`
}

// ComposeOrder turns a client-side cart into the order message and
// deep-link. Items no longer on the menu are dropped and listed.
func (h *Handler) ComposeOrder(c *gin.Context) {
	var req ComposeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.OrdersRejected.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart := services.NewCart()
	dropped := []string{}
	for _, ri := range req.Items {
		item, ok := h.store.Item(ri.ID)
		if !ok {
			dropped = append(dropped, ri.ID)
			continue
		}
		if cart.Quantity(item.ID) == 0 {
			cart.AddItem(item)
			ri.Quantity--
		}
		cart.UpdateQuantity(item.ID, ri.Quantity)
	}
	if cart.IsEmpty() {
		metrics.OrdersRejected.WithLabelValues("empty_cart").Inc()
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "cart is empty", "dropped": dropped})
		return
	}

	order, err := h.dispatcher.Compose(cart, h.store.Contacts(), models.OrderRequest{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Lang:          models.Language(strings.ToLower(strings.TrimSpace(req.Lang))),
	})
	if err != nil {
		reason := "invalid"
		if errors.Is(err, services.ErrCustomerNameRequired) {
			reason = "name_required"
		}
		metrics.OrdersRejected.WithLabelValues(reason).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	metrics.OrdersDispatched.WithLabelValues("http").Inc()
	c.JSON(http.StatusOK, gin.H{"order": order, "dropped": dropped})
}
