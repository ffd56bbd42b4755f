// Package mapper holds the pure entity/DTO conversion functions. A nil or
// malformed input here is a configuration defect, not a per-request fault,
// so failures carry the mapping error code and the boundary reports them
// as server-side configuration errors.
package mapper

import (
	"errors"
	"strings"

	"github.com/devworkshop/usersvc/internal/dto"
	apperrors "github.com/devworkshop/usersvc/internal/errors"
	"github.com/devworkshop/usersvc/internal/model"
)

// ToUserResponse converts a persisted user into its outbound shape.
// The password hash never crosses this boundary.
func ToUserResponse(user *model.User) (*dto.UserResponse, error) {
	if user == nil {
		return nil, apperrors.WrapError(apperrors.ErrMapping, errNilEntity)
	}

	return &dto.UserResponse{
		UserID:    user.UserID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		RoleID:    user.RoleID,
		TeamID:    user.TeamID,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}, nil
}

// ToUserResponses converts a slice of users, preserving repository order.
func ToUserResponses(users []model.User) ([]dto.UserResponse, error) {
	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		response, err := ToUserResponse(&users[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *response)
	}
	return responses, nil
}

// FromCreateRequest builds a partially-populated entity from a creation
// request. The service overwrites email, password hash, role and all
// timestamps before persisting.
func FromCreateRequest(req *dto.CreateUserRequest) (*model.User, error) {
	if req == nil {
		return nil, apperrors.WrapError(apperrors.ErrMapping, errNilRequest)
	}

	return &model.User{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     req.Email,
		TeamID:    req.TeamID,
	}, nil
}

var (
	errNilEntity  = errors.New("nil user entity")
	errNilRequest = errors.New("nil create request")
)
