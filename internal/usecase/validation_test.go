package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/safepick/internal/domain/errors"
	"github.com/polkiloo/safepick/internal/domain/model"
)

func validPicker() model.PickerInfo {
	return model.PickerInfo{
		Name:         "Maria Lopez",
		Cedula:       "12345678",
		Phone:        "+58 414 1234567",
		Relationship: model.RelationshipAunt,
	}
}

func TestValidatePickerInfo(t *testing.T) {
	in := validPicker()
	in.Name = "  Maria Lopez "
	in.Relationship = " Aunt "
	out, err := ValidatePickerInfo(in)
	require.NoError(t, err)
	assert.Equal(t, "Maria Lopez", out.Name)
	assert.Equal(t, model.RelationshipAunt, out.Relationship)

	cases := []struct {
		name   string
		mutate func(*model.PickerInfo)
		field  string
	}{
		{"short name", func(p *model.PickerInfo) { p.Name = "Al" }, "picker.name"},
		{"cedula letters", func(p *model.PickerInfo) { p.Cedula = "12ab5678" }, "picker.cedula"},
		{"cedula short", func(p *model.PickerInfo) { p.Cedula = "1234567" }, "picker.cedula"},
		{"cedula long", func(p *model.PickerInfo) { p.Cedula = "12345678901234" }, "picker.cedula"},
		{"phone", func(p *model.PickerInfo) { p.Phone = "call me" }, "picker.phone"},
		{"relationship", func(p *model.PickerInfo) { p.Relationship = "neighbour" }, "picker.relationship"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPicker()
			tc.mutate(&p)
			_, err := ValidatePickerInfo(p)
			var vErr *domainErrors.ValidationError
			require.True(t, errors.As(err, &vErr), "expected validation error, got %v", err)
			assert.Equal(t, tc.field, vErr.Field)
			assert.ErrorIs(t, err, domainErrors.ErrValidation)
		})
	}
}

func TestValidateCreateOrder(t *testing.T) {
	in := CreateOrderInput{ChildID: "6F9619FF-8B86-D011-B42D-00C04FC964FF", Picker: validPicker()}
	out, err := ValidateCreateOrder(in)
	require.NoError(t, err)
	assert.Equal(t, "6f9619ff-8b86-d011-b42d-00c04fc964ff", out.ChildID)

	in.ChildID = "child-1"
	_, err = ValidateCreateOrder(in)
	assert.ErrorIs(t, err, domainErrors.ErrValidation)
}

func TestValidatePickerLogin(t *testing.T) {
	_, _, err := ValidatePickerLogin("12345678", "012345")
	require.NoError(t, err)

	for _, tc := range []struct{ cedula, code string }{
		{"1234", "012345"},
		{"12345678", "12345"},
		{"12345678", "12a456"},
		{"12345678", "1234567"},
	} {
		_, _, err := ValidatePickerLogin(tc.cedula, tc.code)
		assert.ErrorIs(t, err, domainErrors.ErrValidation, "%+v", tc)
	}
}

func TestValidateRegistration(t *testing.T) {
	base := RegisterInput{Email: " Ana@Example.com ", Password: "Sup3r-Secret!x", Name: "Ana Perez"}
	out, err := ValidateRegistration(base)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", out.Email)
	assert.Equal(t, model.RoleParent, out.Role)

	cases := map[string]func(*RegisterInput){
		"email":          func(in *RegisterInput) { in.Email = "not-an-email" },
		"password":       func(in *RegisterInput) { in.Password = "alllowercase123!" },
		"name":           func(in *RegisterInput) { in.Name = "A" },
		"role":           func(in *RegisterInput) { in.Role = model.RolePicker },
		"cedula":         func(in *RegisterInput) { in.Cedula = "12" },
		"phone":          func(in *RegisterInput) { in.Phone = "phone" },
		"telegramChatId": func(in *RegisterInput) { in.TelegramChatID = "@ana" },
	}
	for field, mutate := range cases {
		in := base
		mutate(&in)
		_, err := ValidateRegistration(in)
		var vErr *domainErrors.ValidationError
		require.True(t, errors.As(err, &vErr), "expected %s validation error, got %v", field, err)
		assert.Equal(t, field, vErr.Field)
	}

	short := base
	short.Password = "Sh0rt!"
	_, err = ValidateRegistration(short)
	assert.ErrorIs(t, err, domainErrors.ErrValidation)
}

func TestValidateChild(t *testing.T) {
	_, err := ValidateChild(ChildInput{Name: "Luis", Grade: "3A"})
	require.NoError(t, err)
	_, err = ValidateChild(ChildInput{Name: "  "})
	assert.ErrorIs(t, err, domainErrors.ErrValidation)
}
