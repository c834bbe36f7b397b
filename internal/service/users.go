package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/akhaled-dev/restodesk/internal/models"
	"github.com/akhaled-dev/restodesk/internal/rpc"
)

// ErrPasscodeHashing is returned when the backend cannot hash a passcode.
var ErrPasscodeHashing = errors.New("فشل في تشفير كود المرور")

// UserInput carries the editable fields of an employee record.
type UserInput struct {
	Username                string
	FullName                string
	NationalNumber          string
	Email                   string
	Phone                   string
	IsActive                bool
	ShiftID                 string
	ReferenceImage          string
	FrontIDImage            string
	BackIDImage             string
	FeeshImage              string
	MedicalCertificateImage string
	BaseSalary              float64
	OfficialOffDaysPerMonth int
}

// Users manages employee records.
type Users struct {
	rpc rpc.Caller
}

// NewUsers constructs the users service over a gateway.
func NewUsers(caller rpc.Caller) *Users {
	return &Users{rpc: caller}
}

// All returns every employee.
func (s *Users) All(ctx context.Context) ([]models.User, error) {
	data, callErr := s.rpc.Call(ctx, "users_get", nil)
	if callErr != nil {
		return nil, callErr
	}
	return decodeList[models.User]("users_get", data)
}

// ByID returns one employee, or nil when the id is unknown.
func (s *Users) ByID(ctx context.Context, id string) (*models.User, error) {
	data, callErr := s.rpc.Call(ctx, "users_get_by_id", map[string]any{"_id": id})
	if callErr != nil {
		return nil, callErr
	}
	return decodeObject[models.User]("users_get_by_id", data)
}

// Create inserts a new employee. A non-blank passcode is hashed by the
// backend before being stored; the hashing algorithm is opaque here.
func (s *Users) Create(ctx context.Context, in UserInput, passcode string) error {
	params := s.params(in)
	if strings.TrimSpace(passcode) != "" {
		hashed, err := s.hashPasscode(ctx, passcode)
		if err != nil {
			return err
		}
		params["_passcode"] = hashed
	}
	_, callErr := s.rpc.Call(ctx, "users_insert", params)
	if callErr != nil {
		return callErr
	}
	return nil
}

// Update rewrites an employee record. A blank passcode keeps the stored one.
func (s *Users) Update(ctx context.Context, id string, in UserInput, passcode string) error {
	params := s.params(in)
	params["_id"] = id
	if strings.TrimSpace(passcode) != "" {
		hashed, err := s.hashPasscode(ctx, passcode)
		if err != nil {
			return err
		}
		params["_passcode"] = hashed
	}
	_, callErr := s.rpc.Call(ctx, "users_update", params)
	if callErr != nil {
		return callErr
	}
	return nil
}

// AssignShift moves an employee to a shift; empty shiftID unassigns.
func (s *Users) AssignShift(ctx context.Context, userID, shiftID string) error {
	params := map[string]any{"_id": userID}
	if shiftID == "" {
		params["_shift_id"] = nil
	} else {
		params["_shift_id"] = shiftID
	}
	_, callErr := s.rpc.Call(ctx, "users_update", params)
	if callErr != nil {
		return callErr
	}
	return nil
}

// Delete removes an employee. Referential-integrity rejections come back
// as an *rpc.Error classified by IsForeignKeyViolation.
func (s *Users) Delete(ctx context.Context, id string) error {
	_, callErr := s.rpc.Call(ctx, "users_delete", map[string]any{"_id": id})
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *Users) hashPasscode(ctx context.Context, passcode string) (string, error) {
	data, callErr := s.rpc.Call(ctx, "hash_passcode_for_storage", map[string]any{
		"p_passcode": strings.TrimSpace(passcode),
	})
	if callErr != nil {
		return "", ErrPasscodeHashing
	}
	var hashed string
	if err := json.Unmarshal(data, &hashed); err != nil || hashed == "" {
		return "", ErrPasscodeHashing
	}
	return hashed, nil
}

func (s *Users) params(in UserInput) map[string]any {
	return map[string]any{
		"_username":                    strings.TrimSpace(in.Username),
		"_full_name":                   strings.TrimSpace(in.FullName),
		"_national_number":             nullable(in.NationalNumber),
		"_email":                       nullable(in.Email),
		"_phone":                       nullable(in.Phone),
		"_is_active":                   in.IsActive,
		"_shift_id":                    nullable(in.ShiftID),
		"_reference_image":             nullable(in.ReferenceImage),
		"_front_id_image":              nullable(in.FrontIDImage),
		"_back_id_image":               nullable(in.BackIDImage),
		"_feesh_image":                 nullable(in.FeeshImage),
		"_medical_certificate_image":   nullable(in.MedicalCertificateImage),
		"_base_salary":                 in.BaseSalary,
		"_official_off_days_per_month": in.OfficialOffDaysPerMonth,
	}
}

// nullable sends empty strings as SQL nulls.
func nullable(v string) any {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return v
}
