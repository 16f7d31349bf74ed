package handler

import "github.com/wastemap/platform-api/internal/core/domain"

// --- Request / Response types ---

type createUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
	Role     string `json:"role"     validate:"required,oneof=citizen worker admin superadmin"`
}

type updateUserRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"  validate:"omitempty,email"`
	Phone  *string `json:"phone"`
	Role   *string `json:"role"   validate:"omitempty,oneof=citizen worker admin superadmin"`
	TeamID *string `json:"team_id"`
}

type listUsersResponse struct {
	Users []*domain.Account `json:"users"`
	Total int               `json:"total"`
}

type createTeamRequest struct {
	Name      string   `json:"name" validate:"required"`
	MemberIDs []string `json:"member_ids"`
	LeaderID  string   `json:"leader_id"`
}

type updateTeamRequest struct {
	Name      *string  `json:"name"`
	MemberIDs []string `json:"member_ids"`
	LeaderID  *string  `json:"leader_id"`
	Status    *string  `json:"status" validate:"omitempty,oneof=active inactive"`
}

type listTeamsResponse struct {
	Teams []*domain.Team `json:"teams"`
	Total int            `json:"total"`
}
