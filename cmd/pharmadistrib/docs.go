package main

// @title PharmaDistrib API
// @version 1.0
// @description Pharmaceutical distribution platform: catalogue, cart, orders, logistics, quality, compliance and finance.

// @contact.name API Support

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey UserID
// @in header
// @name X-User-ID
// @description Identifier of the acting user

// @tag.name Products
// @tag.description Catalogue and stock alerts

// @tag.name Cart
// @tag.description Pharmacy cart and checkout

// @tag.name Orders
// @tag.description Role-scoped order history

// @tag.name Payments
// @tag.description Mock card payments

// @tag.name Insights
// @tag.description Dashboards, finance, search and exports
