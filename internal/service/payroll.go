package service

import (
	"context"
	"errors"
	"strings"

	"github.com/akhaled-dev/restodesk/internal/models"
	"github.com/akhaled-dev/restodesk/internal/rpc"
)

// Domain validation failures caught before any call is issued.
var (
	ErrMissingUser      = errors.New("الرجاء اختيار الموظف")
	ErrMissingAmount    = errors.New("المبلغ يجب أن يكون أكبر من صفر")
	ErrMissingReason    = errors.New("يرجى إدخال السبب")
	ErrNoSalaryData     = errors.New("لا توجد بيانات متاحة للحساب")
	ErrMissingDateRange = errors.New("يرجى تحديد فترة الحساب")
)

// AdjustmentInput is a payroll addition or deduction before submission.
type AdjustmentInput struct {
	UserID    string
	Amount    float64
	Reason    string
	CreatedBy string
}

func (in AdjustmentInput) validate() error {
	if in.UserID == "" {
		return ErrMissingUser
	}
	if in.Amount <= 0 {
		return ErrMissingAmount
	}
	if strings.TrimSpace(in.Reason) == "" {
		return ErrMissingReason
	}
	return nil
}

// Payroll manages salary additions/deductions and fetches the
// server-computed salary aggregates.
type Payroll struct {
	rpc rpc.Caller
}

func NewPayroll(caller rpc.Caller) *Payroll {
	return &Payroll{rpc: caller}
}

func (s *Payroll) Deductions(ctx context.Context) ([]models.Deduction, error) {
	data, callErr := s.rpc.Call(ctx, "deductions_get", nil)
	if callErr != nil {
		return nil, callErr
	}
	return decodeList[models.Deduction]("deductions_get", data)
}

func (s *Payroll) DeductionByID(ctx context.Context, id string) (*models.Deduction, error) {
	data, callErr := s.rpc.Call(ctx, "deductions_get_by_id", map[string]any{"_id": id})
	if callErr != nil {
		return nil, callErr
	}
	return decodeObject[models.Deduction]("deductions_get_by_id", data)
}

func (s *Payroll) CreateDeduction(ctx context.Context, in AdjustmentInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	_, callErr := s.rpc.Call(ctx, "deductions_insert", adjustmentParams(in))
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *Payroll) UpdateDeduction(ctx context.Context, id string, in AdjustmentInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	params := adjustmentParams(in)
	params["_id"] = id
	_, callErr := s.rpc.Call(ctx, "deductions_update", params)
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *Payroll) DeleteDeduction(ctx context.Context, id string) error {
	_, callErr := s.rpc.Call(ctx, "deductions_delete", map[string]any{"_id": id})
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *Payroll) Additions(ctx context.Context) ([]models.Addition, error) {
	data, callErr := s.rpc.Call(ctx, "additions_get", nil)
	if callErr != nil {
		return nil, callErr
	}
	return decodeList[models.Addition]("additions_get", data)
}

func (s *Payroll) AdditionByID(ctx context.Context, id string) (*models.Addition, error) {
	data, callErr := s.rpc.Call(ctx, "additions_get_by_id", map[string]any{"_id": id})
	if callErr != nil {
		return nil, callErr
	}
	return decodeObject[models.Addition]("additions_get_by_id", data)
}

func (s *Payroll) CreateAddition(ctx context.Context, in AdjustmentInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	_, callErr := s.rpc.Call(ctx, "additions_insert", adjustmentParams(in))
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *Payroll) UpdateAddition(ctx context.Context, id string, in AdjustmentInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	params := adjustmentParams(in)
	params["_id"] = id
	_, callErr := s.rpc.Call(ctx, "additions_update", params)
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *Payroll) DeleteAddition(ctx context.Context, id string) error {
	_, callErr := s.rpc.Call(ctx, "additions_delete", map[string]any{"_id": id})
	if callErr != nil {
		return callErr
	}
	return nil
}

// MonthlySalary fetches the server-computed salary for one month.
func (s *Payroll) MonthlySalary(ctx context.Context, userID string, year, month int) (*models.SalaryBreakdown, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	data, callErr := s.rpc.Call(ctx, "calculate_monthly_salary", map[string]any{
		"p_user_id": userID,
		"p_year":    year,
		"p_month":   month,
	})
	if callErr != nil {
		return nil, callErr
	}
	breakdown, err := decodeObject[models.SalaryBreakdown]("calculate_monthly_salary", data)
	if err != nil {
		return nil, err
	}
	if breakdown == nil {
		return nil, ErrNoSalaryData
	}
	return breakdown, nil
}

// InstantSalaryInput parameterizes an ad-hoc salary calculation.
type InstantSalaryInput struct {
	UserID         string
	StartDate      string
	EndDate        string
	BaseSalary     float64
	AllowedOffDays int
	ShiftHours     float64
}

// InstantSalary fetches the server-computed salary for an arbitrary
// date range with override inputs.
func (s *Payroll) InstantSalary(ctx context.Context, in InstantSalaryInput) (*models.SalaryBreakdown, error) {
	if in.UserID == "" {
		return nil, ErrMissingUser
	}
	if in.StartDate == "" || in.EndDate == "" {
		return nil, ErrMissingDateRange
	}
	data, callErr := s.rpc.Call(ctx, "calculate_instant_salary", map[string]any{
		"p_user_id":          in.UserID,
		"p_start_date":       in.StartDate,
		"p_end_date":         in.EndDate,
		"p_base_salary":      in.BaseSalary,
		"p_allowed_off_days": in.AllowedOffDays,
		"p_shift_hours":      in.ShiftHours,
	})
	if callErr != nil {
		return nil, callErr
	}
	breakdown, err := decodeObject[models.SalaryBreakdown]("calculate_instant_salary", data)
	if err != nil {
		return nil, err
	}
	if breakdown == nil {
		return nil, ErrNoSalaryData
	}
	return breakdown, nil
}

// MonthlyAttendanceByDays fetches the per-day attendance report feeding
// the monthly employee report.
func (s *Payroll) MonthlyAttendanceByDays(ctx context.Context, userID string, year, month int) ([]models.AttendanceDay, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	data, callErr := s.rpc.Call(ctx, "get_monthly_attendance_by_days", map[string]any{
		"p_user_id": userID,
		"p_year":    year,
		"p_month":   month,
	})
	if callErr != nil {
		return nil, callErr
	}
	return decodeList[models.AttendanceDay]("get_monthly_attendance_by_days", data)
}

func adjustmentParams(in AdjustmentInput) map[string]any {
	return map[string]any{
		"_user_id":    in.UserID,
		"_amount":     in.Amount,
		"_reason":     strings.TrimSpace(in.Reason),
		"_created_by": nullable(in.CreatedBy),
	}
}
