package project

type ProjectRequest struct {
	Name                string   `json:"name" binding:"required"`
	ClientID            string   `json:"client_id" binding:"required,uuid"`
	DefaultBillableRate string   `json:"default_billable_rate" binding:"required"`
	Status              string   `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
	EmployeeIDs         []string `json:"employee_ids"`
}

type ProjectResponse struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	ClientID            string   `json:"client_id"`
	ClientName          string   `json:"client_name,omitempty"`
	DefaultBillableRate string   `json:"default_billable_rate"`
	Status              string   `json:"status"`
	EmployeeIDs         []string `json:"employee_ids,omitempty"`
}
