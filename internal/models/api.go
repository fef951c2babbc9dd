package models

import "time"

// DTO HTTP-слоя. Поля запросов валидируются в service,
// здесь только форма JSON.

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RevokeRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// TokenPairResponse — ответ операций, выпускающих пару токенов.
type TokenPairResponse struct {
	AccountID       string `json:"account_id"`
	AccessToken     string `json:"access_token"`
	RefreshToken    string `json:"refresh_token"`
	AccessExpiresAt int64  `json:"access_expires_at"`
}

// ProfileResponse — ответ /auth/me.
type ProfileResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Status      string     `json:"status"`
	IsAdmin     bool       `json:"is_admin"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// ResultResponse — ответ операций без полезной нагрузки (revoke/logout/смена пароля).
type ResultResponse struct {
	Result bool `json:"result"`
}

// ProfileFromAccount собирает ProfileResponse из доменной модели.
func ProfileFromAccount(a *Account) ProfileResponse {
	return ProfileResponse{
		ID:          a.ID.String(),
		Name:        a.Name,
		Email:       a.Email,
		Status:      string(a.Status),
		IsAdmin:     a.IsAdmin,
		CreatedAt:   a.CreatedAt,
		LastLoginAt: a.LastLoginAt,
	}
}

// TokenPairFromDomain собирает TokenPairResponse из пары токенов.
func TokenPairFromDomain(tp *TokenPair, accountID string) TokenPairResponse {
	return TokenPairResponse{
		AccountID:       accountID,
		AccessToken:     tp.AccessToken,
		RefreshToken:    tp.RefreshToken,
		AccessExpiresAt: tp.AccessExpiresAt.Unix(),
	}
}
