package validator

import (
	"context"

	"github.com/ihsan-khan/library-management-system/internal/model"
	"github.com/ihsan-khan/library-management-system/internal/store"
)

func ValidateMemberCreateRequest(ctx context.Context, s *store.Store, form *model.MemberForm) (*model.MemberCreate, error) {
	trimForm(form)
	errs := validateForm(form)

	if !errs.Has("email") {
		exists, err := s.MemberExists(ctx, form.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			errs.Add("email", "Member with this Email already exists.")
		}
	}

	if err := errs.errOrNil(); err != nil {
		return nil, err
	}
	return &model.MemberCreate{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Phone:     form.Phone,
		Address:   form.Address,
	}, nil
}
