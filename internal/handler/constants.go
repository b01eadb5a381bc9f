// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteSuffixDelete is the suffix for delete routes.
	RouteSuffixDelete = "/delete"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteParamSlug is the slug parameter pattern.
	RouteParamSlug = "/{slug}"

	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteBlog is the public blog route.
	RouteBlog = "/blog"
	// RoutePortfolio is the portfolio route.
	RoutePortfolio = "/portfolio"
	// RouteServices is the public services route.
	RouteServices = "/services"
	// RouteContact is the contact form route.
	RouteContact = "/kontakt"
	// RouteHealth is the health check route.
	RouteHealth = "/health"
	// RouteContactNotification is the JSON contact notification endpoint.
	RouteContactNotification = "/api/contact-notification"

	// RouteAdminNewPost is the post creation route below /admin/blog.
	RouteAdminNewPost = "/neuer-artikel"
	// RouteAdminHero is the hero copy route below /admin/homepage.
	RouteAdminHero = "/hero"
	// RouteAdminImageType is the image upload route below /admin/homepage.
	RouteAdminImageType = "/{type}"
	// RouteAdminVerify is the gate status route below /admin.
	RouteAdminVerify = "/api/verify"
)

// Redirect URL constants for HTTP redirects.
const (
	redirectAdmin         = "/admin"
	redirectLogin         = "/login"
	redirectAdminBlog     = "/admin/blog"
	redirectAdminNewPost  = "/admin/blog/neuer-artikel"
	redirectAdminHomepage = "/admin/homepage"
	redirectAdminHero     = "/admin/homepage/hero"
	redirectAdminServices = "/admin/services"
	redirectContact       = "/kontakt"
)

// Template names.
const (
	tmplHome         = "public/home"
	tmplPortfolio    = "public/portfolio"
	tmplBlog         = "public/blog"
	tmplPost         = "public/post"
	tmplServices     = "public/services"
	tmplContact      = "public/contact"
	tmplNotFound     = "public/not_found"
	tmplLogin        = "auth/login"
	tmplDashboard    = "admin/dashboard"
	tmplBlogList     = "admin/blog_list"
	tmplBlogForm     = "admin/blog_form"
	tmplHomepage     = "admin/homepage"
	tmplHero         = "admin/hero"
	tmplServiceList  = "admin/services_list"
	tmplServiceForm  = "admin/service_form"
	tmplActivityList = "admin/activity"
)
