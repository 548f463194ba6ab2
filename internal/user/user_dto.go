package user

type CreateUserRequest struct {
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password"`
	FirstName  string  `json:"first_name" binding:"required"`
	LastName   string  `json:"last_name" binding:"required"`
	Role       string  `json:"role" binding:"required,oneof=ROLE_ADMIN ROLE_MANAGER ROLE_EMPLOYEE"`
	ManagerID  *string `json:"manager_id"`
	HireDate   *string `json:"hire_date"`
	Department string  `json:"department"`
	JobTitle   string  `json:"job_title"`
}

type UpdateUserRequest struct {
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password"`
	FirstName  string  `json:"first_name" binding:"required"`
	LastName   string  `json:"last_name" binding:"required"`
	Role       string  `json:"role" binding:"required,oneof=ROLE_ADMIN ROLE_MANAGER ROLE_EMPLOYEE"`
	ManagerID  *string `json:"manager_id"`
	HireDate   *string `json:"hire_date"`
	Department string  `json:"department"`
	JobTitle   string  `json:"job_title"`
	IsActive   *bool   `json:"is_active"`
}

type UserResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	FullName   string  `json:"full_name"`
	Role       string  `json:"role"`
	ManagerID  *string `json:"manager_id,omitempty"`
	IsActive   bool    `json:"is_active"`
	HireDate   *string `json:"hire_date,omitempty"`
	Department string  `json:"department,omitempty"`
	JobTitle   string  `json:"job_title,omitempty"`
}
