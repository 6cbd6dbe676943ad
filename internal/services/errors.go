package services

import (
	"errors"

	"order-dashboard/internal/models"
)

// ErrInvalidCredentials is returned for any failed sign-in
var ErrInvalidCredentials = errors.New("invalid credentials")

// Form messages shared by services
const (
	msgInvalidChoice = "正しく選択してください。"
	msgEmailTaken    = "このメールアドレスは既に登録されています。"
	msgForeignAddr   = "選択した会員の配送先ではありません。"
	msgUsernameTaken = "このユーザー名は既に使われています。"
)

func fieldError(field, message string, value any) error {
	return models.ValidationErrors{{Field: field, Message: message, Value: value}}
}

func boolValue(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
