package model

// TelegramUser is the identity confirmed by the Telegram login surface.
type TelegramUser struct {
	ID           int64  `json:"id" binding:"required"`
	FirstName    string `json:"first_name" binding:"required,max=256"`
	LastName     string `json:"last_name,omitempty" binding:"max=256"`
	Username     string `json:"username,omitempty" binding:"max=64"`
	PhotoURL     string `json:"photo_url,omitempty" binding:"omitempty,url"`
	IsPremium    bool   `json:"is_premium,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	AuthDate     int64  `json:"auth_date,omitempty"`
}

// Valid reports whether the identity carries the fields every flow relies on.
func (u *TelegramUser) Valid() bool {
	return u != nil && u.ID != 0 && u.FirstName != ""
}

// Handle returns "@username" or an empty string.
func (u *TelegramUser) Handle() string {
	if u.Username == "" {
		return ""
	}
	return "@" + u.Username
}

// FullName joins first and last name.
func (u *TelegramUser) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
