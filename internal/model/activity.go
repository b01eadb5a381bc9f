// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Activity log contexts.
const (
	ActivityContextPublic = "public"
	ActivityContextAdmin  = "admin"
	ActivityContextSystem = "system"
)

// Activity log actions.
const (
	ActionUserLogin                = "user_login"
	ActionUserLoginFailed          = "user_login_failed"
	ActionUserLogout               = "user_logout"
	ActionAccessDenied             = "admin_access_denied"
	ActionHomepageImageUploaded    = "homepage_image_uploaded"
	ActionHomepageImageUploadError = "homepage_image_upload_failed"
	ActionHeroSaved                = "homepage_hero_content_saved"
	ActionHeroSaveFailed           = "homepage_hero_content_save_failed"
	ActionPostCreated              = "post_created"
	ActionPostUpdated              = "post_updated"
	ActionPostDeleted              = "post_deleted"
	ActionServiceCreated           = "service_created"
	ActionServiceUpdated           = "service_updated"
	ActionServiceDeleted           = "service_deleted"
	ActionContactSubmitted         = "contact_form_submitted"
	ActionContactFailed            = "contact_form_failed"
	ActionSystemWarning            = "system_warning"
	ActionSystemError              = "system_error"
)

// Entity types recorded with activity log entries.
const (
	EntityHomepageImage = "homepage_image"
	EntityHeroContent   = "homepage_hero_content"
	EntityPost          = "post"
	EntityService       = "service"
	EntityUser          = "user"
	EntityContact       = "contact_request"
)
