package usecase

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/safepick/internal/domain/errors"
	"github.com/polkiloo/safepick/internal/domain/model"
)

const (
	minNameLength     = 3
	maxNameLength     = 100
	minPasswordLength = 12
)

var (
	cedulaPattern = regexp.MustCompile(`^\d{8,13}$`)
	phonePattern  = regexp.MustCompile(`^[+]?[(]?[0-9]{1,4}[)]?[-\s.]?[(]?[0-9]{1,4}[)]?[-\s.]?[0-9]{1,9}$`)
	codePattern   = regexp.MustCompile(`^\d{6}$`)
	chatPattern   = regexp.MustCompile(`^-?\d{1,20}$`)
)

// CreateOrderInput is the guardian request for a new withdrawal order.
type CreateOrderInput struct {
	ChildID string
	Picker  model.PickerInfo
}

// RegisterInput describes a new account.
type RegisterInput struct {
	Email          string
	Password       string
	Name           string
	Role           model.Role
	Cedula         string
	Phone          string
	TelegramChatID string
}

// ChildInput describes a child registered by a guardian.
type ChildInput struct {
	Name   string
	Grade  string
	School string
}

// ValidatePickerInfo normalizes and checks picker fields.
func ValidatePickerInfo(in model.PickerInfo) (model.PickerInfo, error) {
	out := model.PickerInfo{
		Name:         strings.TrimSpace(in.Name),
		Cedula:       strings.TrimSpace(in.Cedula),
		Phone:        strings.TrimSpace(in.Phone),
		Relationship: model.Relationship(strings.ToLower(strings.TrimSpace(string(in.Relationship)))),
	}

	if err := validateName("picker.name", out.Name); err != nil {
		return model.PickerInfo{}, err
	}
	if !cedulaPattern.MatchString(out.Cedula) {
		return model.PickerInfo{}, domainErrors.NewValidationError("picker.cedula", "must be 8 to 13 digits")
	}
	if !phonePattern.MatchString(out.Phone) {
		return model.PickerInfo{}, domainErrors.NewValidationError("picker.phone", "invalid phone number")
	}
	if !out.Relationship.Valid() {
		return model.PickerInfo{}, domainErrors.NewValidationError("picker.relationship", "unknown relationship")
	}
	return out, nil
}

// ValidateCreateOrder checks the child reference and picker data.
func ValidateCreateOrder(in CreateOrderInput) (CreateOrderInput, error) {
	childID, err := validateUUID("childId", in.ChildID)
	if err != nil {
		return CreateOrderInput{}, err
	}
	picker, err := ValidatePickerInfo(in.Picker)
	if err != nil {
		return CreateOrderInput{}, err
	}
	return CreateOrderInput{ChildID: childID, Picker: picker}, nil
}

// ValidatePickerLogin checks the shape of picker login fields.
func ValidatePickerLogin(cedula, code string) (string, string, error) {
	cedula = strings.TrimSpace(cedula)
	code = strings.TrimSpace(code)
	if !cedulaPattern.MatchString(cedula) {
		return "", "", domainErrors.NewValidationError("cedula", "must be 8 to 13 digits")
	}
	if !codePattern.MatchString(code) {
		return "", "", domainErrors.NewValidationError("code", "must be 6 digits")
	}
	return cedula, code, nil
}

// ValidateRegistration checks account fields and password strength.
func ValidateRegistration(in RegisterInput) (RegisterInput, error) {
	out := RegisterInput{
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		Password:       in.Password,
		Name:           strings.TrimSpace(in.Name),
		Role:           model.Role(strings.ToUpper(strings.TrimSpace(string(in.Role)))),
		Cedula:         strings.TrimSpace(in.Cedula),
		Phone:          strings.TrimSpace(in.Phone),
		TelegramChatID: strings.TrimSpace(in.TelegramChatID),
	}
	if out.Role == "" {
		out.Role = model.RoleParent
	}

	addr, err := mail.ParseAddress(out.Email)
	if err != nil || addr.Address != out.Email {
		return RegisterInput{}, domainErrors.NewValidationError("email", "invalid email address")
	}
	if err := validatePassword(out.Password); err != nil {
		return RegisterInput{}, err
	}
	if err := validateName("name", out.Name); err != nil {
		return RegisterInput{}, err
	}
	if !out.Role.Valid() {
		return RegisterInput{}, domainErrors.NewValidationError("role", "unknown role")
	}
	if out.Cedula != "" && !cedulaPattern.MatchString(out.Cedula) {
		return RegisterInput{}, domainErrors.NewValidationError("cedula", "must be 8 to 13 digits")
	}
	if out.Phone != "" && !phonePattern.MatchString(out.Phone) {
		return RegisterInput{}, domainErrors.NewValidationError("phone", "invalid phone number")
	}
	if out.TelegramChatID != "" && !chatPattern.MatchString(out.TelegramChatID) {
		return RegisterInput{}, domainErrors.NewValidationError("telegramChatId", "must be numeric")
	}
	return out, nil
}

// ValidateChild checks child fields.
func ValidateChild(in ChildInput) (ChildInput, error) {
	out := ChildInput{
		Name:   strings.TrimSpace(in.Name),
		Grade:  strings.TrimSpace(in.Grade),
		School: strings.TrimSpace(in.School),
	}
	if err := validateName("name", out.Name); err != nil {
		return ChildInput{}, err
	}
	if utf8.RuneCountInString(out.Grade) > maxNameLength {
		return ChildInput{}, domainErrors.NewValidationError("grade", "too long")
	}
	if utf8.RuneCountInString(out.School) > maxNameLength {
		return ChildInput{}, domainErrors.NewValidationError("school", "too long")
	}
	return out, nil
}

func validateName(field, name string) error {
	n := utf8.RuneCountInString(name)
	if n < minNameLength || n > maxNameLength {
		return domainErrors.NewValidationError(field, "must be 3 to 100 characters")
	}
	return nil
}

func validateUUID(field, value string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return "", domainErrors.NewValidationError(field, "must be a UUID")
	}
	return id.String(), nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return domainErrors.NewValidationError("password", "must be at least 12 characters")
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return domainErrors.NewValidationError("password", "needs upper and lower case letters, a digit and a special character")
	}
	return nil
}
