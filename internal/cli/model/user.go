package model

// UserProfile: профиль пользователя в том виде, в каком его отдаёт API.
// Поля не интерпретируются клиентом, только хранятся и показываются.
type UserProfile struct {
	DateDat     string `json:"peDateDat"`
	UpdateDat   string `json:"peUpdateDat"`
	HKey        string `json:"hkey"`
	Sex         string `json:"peSexStr"`
	Name        string `json:"peNameStr"`
	PasswordStr string `json:"pePasswordStr"`
	RKey        string `json:"rkey"`
	Login       string `json:"peLoginStr"`
}

// LoginResult is the payload returned by POST /login.
type LoginResult struct {
	Message      string        `json:"message"`
	UserInfo     []UserProfile `json:"userInfo"`
	Token        string        `json:"token"`
	ForwardedFor string        `json:"x-forwarded-for"`
	SourceIP     string        `json:"sourceIp"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
