package converter

import (
	dto "haunted_slot/internal/api/dto/auth"
	"haunted_slot/internal/model"
)

func RegisterRequestToUserModel(req *dto.RegisterRequest) *model.User {
	return &model.User{
		Name:     req.Name,
		Login:    req.Login,
		Password: req.Password,
	}
}
