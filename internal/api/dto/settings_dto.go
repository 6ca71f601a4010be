package dto

import "github.com/tellerdesk/support-portal/internal/domain"

// SettingsRequest is the full settings document. Omitted groups reset to zero values.
type SettingsRequest struct {
	Notifications domain.NotificationSettings  `json:"notifications"`
	Contact       domain.ContactSettings       `json:"contact"`
	BusinessHours domain.BusinessHoursSettings `json:"businessHours"`
	Security      domain.SecuritySettings      `json:"security"`
}

// Settings converts the payload into the domain document.
func (r SettingsRequest) Settings() domain.Settings {
	return domain.Settings{
		Notifications: r.Notifications,
		Contact:       r.Contact,
		BusinessHours: r.BusinessHours,
		Security:      r.Security,
	}
}
