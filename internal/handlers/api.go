package handlers

import (
	"net/http"

	"order-dashboard/internal/models"
	"order-dashboard/internal/services"

	"github.com/gin-gonic/gin"
)

// @Summary Dashboard summary
// @Description Active member and address counts, the order count and the newest orders
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.DashboardSummary}
// @Failure 401 {object} ErrorResponse
// @Router /dashboard [get]
func (h *Handler) APIDashboard(c *gin.Context) {
	summary, err := h.services.Dashboard.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, summary)
}

// @Summary List members
// @Tags members
// @Produce json
// @Param q query string false "Name or email contains"
// @Param active query bool false "Active flag"
// @Param limit query int false "Maximum results"
// @Param offset query int false "Results to skip"
// @Success 200 {object} models.APIResponse{data=[]models.Member}
// @Failure 400 {object} ErrorResponse
// @Router /members [get]
func (h *Handler) APIListMembers(c *gin.Context) {
	var filters models.SearchFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		respondBadRequest(c, err)
		return
	}

	members, err := h.services.Members.ListMembers(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, members)
}

// @Summary Get member
// @Tags members
// @Produce json
// @Param id path int true "Member ID"
// @Success 200 {object} models.APIResponse{data=models.Member}
// @Failure 404 {object} ErrorResponse
// @Router /members/{id} [get]
func (h *Handler) APIGetMember(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	member, err := h.services.Members.GetMember(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, member)
}

// @Summary Create member
// @Tags members
// @Accept json
// @Produce json
// @Param member body services.MemberRequest true "Member"
// @Success 201 {object} models.APIResponse{data=models.Member}
// @Failure 400 {object} ErrorResponse
// @Router /members [post]
func (h *Handler) APICreateMember(c *gin.Context) {
	var req services.MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	member, err := h.services.Members.CreateMember(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, member)
}

// @Summary Update member
// @Description Omitting isActive keeps the current flag
// @Tags members
// @Accept json
// @Produce json
// @Param id path int true "Member ID"
// @Param member body services.MemberRequest true "Member"
// @Success 200 {object} models.APIResponse{data=models.Member}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /members/{id} [put]
func (h *Handler) APIUpdateMember(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req services.MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	member, err := h.services.Members.UpdateMember(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, member)
}

// @Summary List shipping addresses
// @Tags shipping
// @Produce json
// @Param q query string false "Label, recipient or member name contains"
// @Param member query int false "Member ID"
// @Param active query bool false "Active flag"
// @Success 200 {object} models.APIResponse{data=[]models.ShippingAddress}
// @Router /shipping-addresses [get]
func (h *Handler) APIListAddresses(c *gin.Context) {
	var filters models.SearchFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		respondBadRequest(c, err)
		return
	}

	addresses, err := h.services.ShippingAddresses.ListAddresses(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, addresses)
}

// @Summary Get shipping address
// @Tags shipping
// @Produce json
// @Param id path int true "Address ID"
// @Success 200 {object} models.APIResponse{data=models.ShippingAddress}
// @Failure 404 {object} ErrorResponse
// @Router /shipping-addresses/{id} [get]
func (h *Handler) APIGetAddress(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	address, err := h.services.ShippingAddresses.GetAddress(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, address)
}

// @Summary Create shipping address
// @Tags shipping
// @Accept json
// @Produce json
// @Param address body services.ShippingAddressRequest true "Address"
// @Success 201 {object} models.APIResponse{data=models.ShippingAddress}
// @Failure 400 {object} ErrorResponse
// @Router /shipping-addresses [post]
func (h *Handler) APICreateAddress(c *gin.Context) {
	var req services.ShippingAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	address, err := h.services.ShippingAddresses.CreateAddress(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, address)
}

// @Summary Update shipping address
// @Tags shipping
// @Accept json
// @Produce json
// @Param id path int true "Address ID"
// @Param address body services.ShippingAddressRequest true "Address"
// @Success 200 {object} models.APIResponse{data=models.ShippingAddress}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /shipping-addresses/{id} [put]
func (h *Handler) APIUpdateAddress(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req services.ShippingAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	address, err := h.services.ShippingAddresses.UpdateAddress(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, address)
}

// @Summary List orders
// @Description Newest first
// @Tags orders
// @Produce json
// @Param status query string false "Status" Enums(受付, 対応中, 完了, キャンセル)
// @Param member query int false "Member ID"
// @Param q query string false "Member name or memo contains"
// @Success 200 {object} models.APIResponse{data=[]models.Order}
// @Failure 400 {object} ErrorResponse
// @Router /orders [get]
func (h *Handler) APIListOrders(c *gin.Context) {
	var filters models.SearchFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		respondBadRequest(c, err)
		return
	}

	orders, err := h.services.Orders.ListOrders(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, orders)
}

// @Summary Order form choices
// @Description Active members, active addresses and statuses an order may use
// @Tags orders
// @Produce json
// @Success 200 {object} models.APIResponse{data=services.OrderChoices}
// @Router /orders/choices [get]
func (h *Handler) APIOrderChoices(c *gin.Context) {
	choices, err := h.services.Orders.Choices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, choices)
}

// @Summary Get order
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.APIResponse{data=models.Order}
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [get]
func (h *Handler) APIGetOrder(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	order, err := h.services.Orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, order)
}

// @Summary Create order
// @Description The member and the address must be active and the address must belong to the member
// @Tags orders
// @Accept json
// @Produce json
// @Param order body services.OrderRequest true "Order"
// @Success 201 {object} models.APIResponse{data=models.Order}
// @Failure 400 {object} ErrorResponse
// @Router /orders [post]
func (h *Handler) APICreateOrder(c *gin.Context) {
	var req services.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	order, err := h.services.Orders.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, order)
}

// @Summary Change order status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param status body services.OrderStatusRequest true "New status"
// @Success 200 {object} models.APIResponse{data=models.Order}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id}/status [patch]
func (h *Handler) APIUpdateOrderStatus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req services.OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	order, err := h.services.Orders.UpdateOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, order)
}
