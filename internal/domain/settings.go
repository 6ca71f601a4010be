package domain

import "time"

// Settings is the per-user preference document. It is replaced wholesale on update.
type Settings struct {
	UserID        string                `json:"userId"`
	Notifications NotificationSettings  `json:"notifications"`
	Contact       ContactSettings       `json:"contact"`
	BusinessHours BusinessHoursSettings `json:"businessHours"`
	Security      SecuritySettings      `json:"security"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

type NotificationSettings struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	Push  bool `json:"push"`
}

type ContactSettings struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type BusinessHoursSettings struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Timezone string `json:"timezone"`
}

type SecuritySettings struct {
	TwoFactorAuth bool `json:"twoFactorAuth"`
}
