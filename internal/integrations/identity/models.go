package identity

import (
	"fmt"
	"strings"
)

// UserInfo профиль пользователя от провайдера идентификации
type UserInfo struct {
	Subject   string
	Email     string
	FirstName string
	LastName  string
	Phone     *string
	Roles     []string
}

// userInfoPayload ответ userinfo endpoint
// Набор полей зависит от настроек провайдера, поэтому разбираем в map
type userInfoPayload map[string]interface{}

func (p userInfoPayload) toUserInfo() (*UserInfo, error) {
	sub := p.str("sub")
	if sub == "" {
		return nil, fmt.Errorf("%w: missing sub", ErrInvalidResponse)
	}

	info := &UserInfo{
		Subject:   sub,
		Email:     p.str("email"),
		FirstName: p.str("given_name"),
		LastName:  p.str("family_name"),
	}

	// Некоторые провайдеры отдают только name
	if info.FirstName == "" && info.LastName == "" {
		if name := strings.TrimSpace(p.str("name")); name != "" {
			parts := strings.SplitN(name, " ", 2)
			info.FirstName = parts[0]
			if len(parts) == 2 {
				info.LastName = parts[1]
			}
		}
	}

	if phone := p.str("phone_number"); phone != "" {
		info.Phone = &phone
	}

	info.Roles = p.roles()

	return info, nil
}

func (p userInfoPayload) str(key string) string {
	v, ok := p[key].(string)
	if !ok {
		return ""
	}
	return v
}

// roles достает роли из realm_access.roles или roles
func (p userInfoPayload) roles() []string {
	if realm, ok := p["realm_access"].(map[string]interface{}); ok {
		if roles := stringList(realm["roles"]); len(roles) > 0 {
			return roles
		}
	}
	return stringList(p["roles"])
}

func stringList(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}

	result := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			result = append(result, s)
		}
	}
	return result
}
