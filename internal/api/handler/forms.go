package handler

// RegisterForm is the self-registration form.
type RegisterForm struct {
	Email           string `form:"Email"           validate:"required,email"`
	Password        string `form:"Password"        validate:"required,min=6,max=100"`
	ConfirmPassword string `form:"ConfirmPassword" validate:"eqfield=Password"`
}

// AddUserForm is the admin form for creating an account with a chosen role.
type AddUserForm struct {
	Email        string `form:"Email"        validate:"required,email"`
	Password     string `form:"Password"     validate:"required,min=6,max=100"`
	SelectedRole string `form:"SelectedRole" validate:"required,oneof=admin normal"`
}

type LoginForm struct {
	Email      string `form:"Email"      validate:"required,email"`
	Password   string `form:"Password"   validate:"required"`
	RememberMe bool   `form:"RememberMe"`
}
