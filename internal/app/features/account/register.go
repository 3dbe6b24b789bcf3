// internal/app/features/account/register.go
package account

import (
	"context"
	"io"
	"net/http"

	"github.com/sila-platform/siladesk/internal/app/system/inputval"
	"github.com/sila-platform/siladesk/internal/app/system/transport"
)

// Registration endpoints.
const (
	RegisterCharityPath  = "/charities/register/"
	RegisterMinistryPath = "/ministries/register/"
)

// CharityTypeOther is the charity type requiring a custom description.
const CharityTypeOther = "OTHER"

// Upload is a document attached to a registration.
type Upload struct {
	Filename string
	Content  io.Reader
}

// CharityForm is the charity registration application. Both documents are
// mandatory; the submission goes up as multipart form data.
type CharityForm struct {
	OrganizationName   string
	RegistrationNumber string
	IssuingAuthority   string
	CharityType        string
	CustomCharityType  string
	Email              string
	Phone              string
	Address            string
	AdminName          string
	Password           string
	ConfirmPassword    string
	LicenseCertificate *Upload
	AdminIDDocument    *Upload
}

// Validate collects per-field validation errors.
func (f CharityForm) Validate() inputval.ValidationErrors {
	errs := inputval.ValidationErrors{}
	errs.Require("organization_name", f.OrganizationName, "Organization name is required")
	errs.Require("registration_number", f.RegistrationNumber, "Registration number is required")
	errs.Require("issuing_authority", f.IssuingAuthority, "Issuing authority is required")
	errs.Require("email", f.Email, "Email is required")
	errs.Email("email", f.Email, "Email is invalid")
	errs.Require("phone", f.Phone, "Phone is required")
	errs.Require("address", f.Address, "Address is required")
	errs.Require("admin_name", f.AdminName, "Admin name is required")
	if f.CharityType == CharityTypeOther {
		errs.Require("custom_charity_type", f.CustomCharityType, "Please specify the charity type")
	}
	errs.Require("password", f.Password, "Password is required")
	errs.MinLen("password", f.Password, 8, "Password must be at least 8 characters")
	errs.Match("confirm_password", f.Password, f.ConfirmPassword, "Passwords do not match")
	if f.LicenseCertificate == nil {
		errs["license_certificate"] = "License certificate is required"
	}
	if f.AdminIDDocument == nil {
		errs["admin_id_document"] = "Admin ID document is required"
	}
	return errs
}

func (f CharityForm) payload() (*transport.FormPayload, error) {
	p := transport.NewFormPayload()
	fields := map[string]string{
		"organization_name":   f.OrganizationName,
		"registration_number": f.RegistrationNumber,
		"issuing_authority":   f.IssuingAuthority,
		"charity_type":        f.CharityType,
		"custom_charity_type": f.CustomCharityType,
		"email":               f.Email,
		"phone":               f.Phone,
		"address":             f.Address,
		"admin_name":          f.AdminName,
		"password":            f.Password,
	}
	for name, value := range fields {
		if err := p.SetField(name, value); err != nil {
			return nil, err
		}
	}
	if err := p.AddFile("license_certificate", f.LicenseCertificate.Filename, f.LicenseCertificate.Content); err != nil {
		return nil, err
	}
	if err := p.AddFile("admin_id_document", f.AdminIDDocument.Filename, f.AdminIDDocument.Content); err != nil {
		return nil, err
	}
	return p, nil
}

// RegisterCharity validates and submits a charity registration. Validation
// failures block submission without a network call. Approval is a backend
// workflow; success here only means the application was accepted.
func (s *Service) RegisterCharity(ctx context.Context, f CharityForm) error {
	if errs := f.Validate(); !errs.Ok() {
		return errs
	}
	payload, err := f.payload()
	if err != nil {
		return err
	}
	_, err = s.api.Do(ctx, http.MethodPost, RegisterCharityPath, payload)
	return err
}

// MinistryForm is the ministry registration application.
type MinistryForm struct {
	MinistryName          string
	MinistryEmail         string
	ContactNumber         string
	MinistryCode          string
	ResponsiblePersonName string
	Position              string
	Password              string
	ConfirmPassword       string
	AuthorizationDocument *Upload
}

// Validate collects per-field validation errors.
func (f MinistryForm) Validate() inputval.ValidationErrors {
	errs := inputval.ValidationErrors{}
	errs.Require("ministry_name", f.MinistryName, "Ministry name is required")
	errs.Require("ministry_email", f.MinistryEmail, "Email is required")
	errs.Email("ministry_email", f.MinistryEmail, "Email is invalid")
	errs.Require("contact_number", f.ContactNumber, "Contact number is required")
	errs.Require("ministry_code", f.MinistryCode, "Ministry code is required")
	errs.Require("responsible_person_name", f.ResponsiblePersonName, "Responsible person name is required")
	errs.Require("position", f.Position, "Position is required")
	errs.Require("password", f.Password, "Password is required")
	errs.MinLen("password", f.Password, 8, "Password must be at least 8 characters")
	errs.Match("confirm_password", f.Password, f.ConfirmPassword, "Passwords do not match")
	if f.AuthorizationDocument == nil {
		errs["authorization_document"] = "Authorization document is required"
	}
	return errs
}

func (f MinistryForm) payload() (*transport.FormPayload, error) {
	p := transport.NewFormPayload()
	fields := map[string]string{
		"ministry_name":           f.MinistryName,
		"ministry_email":          f.MinistryEmail,
		"contact_number":          f.ContactNumber,
		"ministry_code":           f.MinistryCode,
		"responsible_person_name": f.ResponsiblePersonName,
		"position":                f.Position,
		"password":                f.Password,
	}
	for name, value := range fields {
		if err := p.SetField(name, value); err != nil {
			return nil, err
		}
	}
	if err := p.AddFile("authorization_document", f.AuthorizationDocument.Filename, f.AuthorizationDocument.Content); err != nil {
		return nil, err
	}
	return p, nil
}

// RegisterMinistry validates and submits a ministry registration.
func (s *Service) RegisterMinistry(ctx context.Context, f MinistryForm) error {
	if errs := f.Validate(); !errs.Ok() {
		return errs
	}
	payload, err := f.payload()
	if err != nil {
		return err
	}
	_, err = s.api.Do(ctx, http.MethodPost, RegisterMinistryPath, payload)
	return err
}
