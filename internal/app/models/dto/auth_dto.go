package dto

// LoginForm is the body of POST /login
type LoginForm struct {
	Email string `form:"email"`
	Senha string `form:"senha"`
}
