package domain

const (
	RoleCaixa    = "caixa"
	RoleMotoboy  = "motoboy"
	RoleGerencia = "gerencia"
	RoleChefe    = "chefe"
)

// User is the session identity; it only labels who performed an action
type User struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
}

// Public strips the stored credential before the user leaves the service layer
func (u User) Public() User {
	u.Password = ""
	return u
}
