package validator

import (
	"context"
	"strconv"
	"time"

	"github.com/ihsan-khan/library-management-system/internal/model"
	"github.com/ihsan-khan/library-management-system/internal/store"
)

// ValidateLoanIssueRequest checks the issue-loan form for today.
// A missing due date defaults to today plus loanPeriodDays.
func ValidateLoanIssueRequest(ctx context.Context, s *store.Store, form *model.LoanForm, today string, loanPeriodDays int) (*model.LoanCreate, error) {
	trimForm(form)
	errs := validateForm(form)
	create := &model.LoanCreate{DueDate: form.DueDate}

	if !errs.Has("book") {
		book, err := s.GetBook(ctx, &model.FindBook{Slug: &form.Book})
		if err != nil {
			return nil, err
		}
		// Slugs can be numeric, so an ID is only tried when no slug matches.
		if book == nil {
			if id, convErr := strconv.Atoi(form.Book); convErr == nil {
				if book, err = s.GetBook(ctx, &model.FindBook{ID: &id}); err != nil {
					return nil, err
				}
			}
		}
		switch {
		case book == nil:
			errs.Add("book", "Select a valid book.")
		case !book.IsAvailable():
			errs.Add("book", "No copies of this book are available.")
		default:
			create.BookID = book.ID
		}
	}

	if !errs.Has("member") {
		memberID, _ := strconv.Atoi(form.Member)
		member, err := s.GetMember(ctx, &model.FindMember{ID: &memberID})
		if err != nil {
			return nil, err
		}
		if member == nil {
			errs.Add("member", "Select a valid member.")
		} else {
			create.MemberID = member.ID
		}
	}

	if !errs.Has("due_date") {
		if create.DueDate == "" {
			issued, err := time.Parse(model.DateLayout, today)
			if err != nil {
				return nil, err
			}
			create.DueDate = model.FormatDate(issued.AddDate(0, 0, loanPeriodDays))
		}
		if create.DueDate < today {
			errs.Add("due_date", "Due date cannot be before the issue date.")
		}
	}

	if err := errs.errOrNil(); err != nil {
		return nil, err
	}
	return create, nil
}

// ValidateLoanReturnRequest returns the id of the active loan the form names.
func ValidateLoanReturnRequest(ctx context.Context, s *store.Store, form *model.LoanReturnForm) (int, error) {
	trimForm(form)
	errs := validateForm(form)
	if err := errs.errOrNil(); err != nil {
		return 0, err
	}

	loanID, _ := strconv.Atoi(form.Loan)
	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return 0, err
	}
	switch {
	case loan == nil:
		errs.Add("loan", "Select a valid loan.")
	case !loan.IsActive():
		errs.Add("loan", "This loan has already been returned.")
	}

	if err := errs.errOrNil(); err != nil {
		return 0, err
	}
	return loanID, nil
}
