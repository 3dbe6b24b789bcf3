// internal/app/features/beneficiaries/form.go
package beneficiaries

import (
	"strconv"
	"strings"

	"github.com/sila-platform/siladesk/internal/app/system/htmlsanitize"
	"github.com/sila-platform/siladesk/internal/app/system/inputval"
)

// Form is the create/edit form for a beneficiary. Numeric fields stay
// strings until submit; the payload builders apply the defaults the
// backend expects (family size 1, income 0).
type Form struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string

	NationalID    string
	Phone         string
	Address       string
	City          string
	Region        string
	DateOfBirth   string
	FamilySize    string
	MonthlyIncome string
	SpecialNeeds  string
}

// Validate collects per-field validation errors. create requires the
// account fields (email shape, password length); edits never touch the
// account credentials so those checks are skipped.
func (f Form) Validate(create bool) inputval.ValidationErrors {
	errs := inputval.ValidationErrors{}
	errs.Require("first_name", f.FirstName, "First name is required")
	errs.Require("last_name", f.LastName, "Last name is required")
	errs.Require("national_id", f.NationalID, "National ID is required")
	if create {
		errs.Require("email", f.Email, "Email is required")
		errs.Email("email", f.Email, "Enter a valid email address")
		errs.Require("password", f.Password, "Password is required")
		errs.MinLen("password", f.Password, 8, "Password must be at least 8 characters")
	}
	return errs
}

// CreatePayload builds the POST body. The username is included only when
// set and different from the email's local part; otherwise the backend
// derives it.
func (f Form) CreatePayload() map[string]any {
	user := map[string]any{
		"email":      f.Email,
		"password":   f.Password,
		"first_name": f.FirstName,
		"last_name":  f.LastName,
	}
	local, _, _ := strings.Cut(f.Email, "@")
	if f.Username != "" && f.Username != local {
		user["username"] = f.Username
	}
	p := f.detailPayload()
	p["user"] = user
	return p
}

// UpdatePayload builds the PUT body. Account credentials are never
// updated here, only the name.
func (f Form) UpdatePayload() map[string]any {
	p := f.detailPayload()
	p["user"] = map[string]any{
		"first_name": f.FirstName,
		"last_name":  f.LastName,
	}
	return p
}

func (f Form) detailPayload() map[string]any {
	familySize, err := strconv.Atoi(f.FamilySize)
	if err != nil || familySize < 1 {
		familySize = 1
	}
	income, err := strconv.ParseFloat(f.MonthlyIncome, 64)
	if err != nil {
		income = 0
	}
	return map[string]any{
		"national_id":    f.NationalID,
		"phone":          f.Phone,
		"address":        f.Address,
		"city":           f.City,
		"region":         f.Region,
		"date_of_birth":  f.DateOfBirth,
		"family_size":    familySize,
		"monthly_income": income,
		"special_needs":  htmlsanitize.Sanitize(f.SpecialNeeds),
	}
}

// FormFrom seeds an edit form from an existing beneficiary. Timestamps on
// the birth date are trimmed to the date part.
func FormFrom(b Beneficiary) Form {
	dob, _, _ := strings.Cut(b.DateOfBirth, "T")
	familySize := ""
	if b.FamilySize > 0 {
		familySize = strconv.Itoa(b.FamilySize)
	}
	income := ""
	if b.MonthlyIncome != 0 {
		income = strconv.FormatFloat(b.MonthlyIncome, 'f', -1, 64)
	}
	return Form{
		Username:      b.User.Username,
		Email:         b.User.Email,
		FirstName:     b.User.FirstName,
		LastName:      b.User.LastName,
		NationalID:    b.NationalID,
		Phone:         b.Phone,
		Address:       b.Address,
		City:          b.City,
		Region:        b.Region,
		DateOfBirth:   dob,
		FamilySize:    familySize,
		MonthlyIncome: income,
		SpecialNeeds:  b.SpecialNeeds,
	}
}
