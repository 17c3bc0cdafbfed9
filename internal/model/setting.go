package model

import "time"

// AppSetting is a key-value pair of site configuration shown on public pages.
type AppSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Well-known setting keys.
const (
	SettingCollegeName    = "college_name"
	SettingContactEmail   = "contact_email"
	SettingAdmissionsOpen = "admissions_open"
)

// UpdateSettingsRequest is the payload for bulk updating settings.
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required"`
}
