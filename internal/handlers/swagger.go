package handlers

// @title Order Dashboard API
// @version 1.0
// @description Back-office API for members, shipping addresses and orders

// @BasePath /api/v1

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name dashboard_session
// @description Session cookie set by /auth/login

// @tag.name auth
// @tag.description Staff sign-in

// @tag.name dashboard
// @tag.description Home page figures

// @tag.name members
// @tag.description Member management

// @tag.name shipping
// @tag.description Shipping address management

// @tag.name orders
// @tag.description Order placement and status
