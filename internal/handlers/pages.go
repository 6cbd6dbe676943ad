package handlers

import (
	"net/http"

	"order-dashboard/internal/models"
	"order-dashboard/internal/services"

	"github.com/gin-gonic/gin"
)

// Home shows the dashboard figures and recent orders
func (h *Handler) Home(c *gin.Context) {
	summary, err := h.services.Dashboard.Summary(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "home.html", pageData(c, gin.H{"summary": summary}))
}

// OrderList lists orders newest first, optionally filtered by status
func (h *Handler) OrderList(c *gin.Context) {
	status := models.OrderStatus(c.Query("status"))
	if !status.Valid() {
		status = ""
	}

	orders, err := h.services.Orders.ListOrders(c.Request.Context(), models.SearchFilters{Status: string(status)})
	if err != nil {
		renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "order_list.html", pageData(c, gin.H{
		"orders":   orders,
		"status":   status,
		"statuses": models.OrderStatuses(),
	}))
}

// OrderNew shows an empty order form
func (h *Handler) OrderNew(c *gin.Context) {
	h.renderOrderForm(c, &services.OrderRequest{Status: models.StatusReceived}, nil)
}

// OrderCreate places the submitted order
func (h *Handler) OrderCreate(c *gin.Context) {
	var req services.OrderRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderOrderForm(c, &req, map[string]string{"member": "正しく選択してください。"})
		return
	}

	if _, err := h.services.Orders.CreateOrder(c.Request.Context(), &req); err != nil {
		if fields := models.FieldErrors(err); fields != nil {
			h.renderOrderForm(c, &req, fields)
			return
		}
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/orders/")
}

func (h *Handler) renderOrderForm(c *gin.Context, form *services.OrderRequest, errs map[string]string) {
	choices, err := h.services.Orders.Choices(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "order_form.html", pageData(c, gin.H{
		"form":    form,
		"choices": choices,
		"errors":  errs,
	}))
}

// MemberList lists members by name, optionally filtered by ?q=
func (h *Handler) MemberList(c *gin.Context) {
	q := c.Query("q")
	members, err := h.services.Members.ListMembers(c.Request.Context(), models.SearchFilters{Query: q})
	if err != nil {
		renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "member_list.html", pageData(c, gin.H{"members": members, "q": q}))
}

// MemberNew shows an empty member form
func (h *Handler) MemberNew(c *gin.Context) {
	renderMemberForm(c, 0, &services.MemberRequest{}, true, nil)
}

// MemberCreate registers the submitted member
func (h *Handler) MemberCreate(c *gin.Context) {
	req := bindMember(c)
	if _, err := h.services.Members.CreateMember(c.Request.Context(), req); err != nil {
		if fields := models.FieldErrors(err); fields != nil {
			renderMemberForm(c, 0, req, *req.IsActive, fields)
			return
		}
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/members/")
}

// MemberEdit shows the form for an existing member
func (h *Handler) MemberEdit(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		renderError(c, err)
		return
	}
	member, err := h.services.Members.GetMember(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}

	form := &services.MemberRequest{Name: member.Name, Email: member.Email, Phone: member.Phone}
	renderMemberForm(c, id, form, member.IsActive, nil)
}

// MemberUpdate saves the submitted member
func (h *Handler) MemberUpdate(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		renderError(c, err)
		return
	}

	req := bindMember(c)
	if _, err := h.services.Members.UpdateMember(c.Request.Context(), id, req); err != nil {
		if fields := models.FieldErrors(err); fields != nil {
			renderMemberForm(c, id, req, *req.IsActive, fields)
			return
		}
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/members/")
}

func bindMember(c *gin.Context) *services.MemberRequest {
	return &services.MemberRequest{
		Name:     c.PostForm("name"),
		Email:    c.PostForm("email"),
		Phone:    c.PostForm("phone"),
		IsActive: checkbox(c, "is_active"),
	}
}

func renderMemberForm(c *gin.Context, id int64, form *services.MemberRequest, active bool, errs map[string]string) {
	action := "/members/new/"
	if id > 0 {
		action = "/members/" + c.Param("id") + "/edit/"
	}
	c.HTML(http.StatusOK, "member_form.html", pageData(c, gin.H{
		"member_id": id,
		"action":    action,
		"form":      form,
		"active":    active,
		"errors":    errs,
	}))
}

// ShippingList lists addresses by label, optionally filtered by ?q= or ?member=
func (h *Handler) ShippingList(c *gin.Context) {
	var filters models.SearchFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		filters = models.SearchFilters{}
	}

	addresses, err := h.services.ShippingAddresses.ListAddresses(c.Request.Context(), filters)
	if err != nil {
		renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "shipping_list.html", pageData(c, gin.H{"addresses": addresses, "q": filters.Query}))
}

// ShippingNew shows an empty address form
func (h *Handler) ShippingNew(c *gin.Context) {
	h.renderAddressForm(c, 0, &services.ShippingAddressRequest{}, true, nil)
}

// ShippingCreate registers the submitted address
func (h *Handler) ShippingCreate(c *gin.Context) {
	req := bindAddress(c)
	if _, err := h.services.ShippingAddresses.CreateAddress(c.Request.Context(), req); err != nil {
		if fields := models.FieldErrors(err); fields != nil {
			h.renderAddressForm(c, 0, req, *req.IsActive, fields)
			return
		}
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/shipping/")
}

// ShippingEdit shows the form for an existing address
func (h *Handler) ShippingEdit(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		renderError(c, err)
		return
	}
	address, err := h.services.ShippingAddresses.GetAddress(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}

	form := &services.ShippingAddressRequest{
		MemberID:      address.MemberID,
		Label:         address.Label,
		PostalCode:    address.PostalCode,
		Address1:      address.Address1,
		Address2:      address.Address2,
		RecipientName: address.RecipientName,
		Phone:         address.Phone,
	}
	h.renderAddressForm(c, id, form, address.IsActive, nil)
}

// ShippingUpdate saves the submitted address
func (h *Handler) ShippingUpdate(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		renderError(c, err)
		return
	}

	req := bindAddress(c)
	if _, err := h.services.ShippingAddresses.UpdateAddress(c.Request.Context(), id, req); err != nil {
		if fields := models.FieldErrors(err); fields != nil {
			h.renderAddressForm(c, id, req, *req.IsActive, fields)
			return
		}
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/shipping/")
}

func bindAddress(c *gin.Context) *services.ShippingAddressRequest {
	var req services.ShippingAddressRequest
	if err := c.ShouldBind(&req); err != nil {
		// an unparsable member id is reported by validation as a missing member
		req.MemberID = 0
	}
	req.IsActive = checkbox(c, "is_active")
	return &req
}

func (h *Handler) renderAddressForm(c *gin.Context, id int64, form *services.ShippingAddressRequest, active bool, errs map[string]string) {
	members, err := h.services.ShippingAddresses.MemberChoices(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}

	action := "/shipping/new/"
	if id > 0 {
		action = "/shipping/" + c.Param("id") + "/edit/"
	}
	c.HTML(http.StatusOK, "shipping_form.html", pageData(c, gin.H{
		"address_id": id,
		"action":     action,
		"form":       form,
		"members":    members,
		"active":     active,
		"errors":     errs,
	}))
}
