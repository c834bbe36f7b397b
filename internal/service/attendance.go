package service

import (
	"context"

	"github.com/akhaled-dev/restodesk/internal/models"
	"github.com/akhaled-dev/restodesk/internal/rpc"
)

// AttendanceTypes manages the attendance-kind lookup table.
type AttendanceTypes struct {
	rpc rpc.Caller
}

func NewAttendanceTypes(caller rpc.Caller) *AttendanceTypes {
	return &AttendanceTypes{rpc: caller}
}

func (s *AttendanceTypes) All(ctx context.Context) ([]models.AttendanceType, error) {
	data, callErr := s.rpc.Call(ctx, "attendance_types_get", nil)
	if callErr != nil {
		return nil, callErr
	}
	return decodeList[models.AttendanceType]("attendance_types_get", data)
}

func (s *AttendanceTypes) ByID(ctx context.Context, id string) (*models.AttendanceType, error) {
	data, callErr := s.rpc.Call(ctx, "attendance_types_get_by_id", map[string]any{"_id": id})
	if callErr != nil {
		return nil, callErr
	}
	return decodeObject[models.AttendanceType]("attendance_types_get_by_id", data)
}

func (s *AttendanceTypes) Create(ctx context.Context, name, description string) error {
	_, callErr := s.rpc.Call(ctx, "attendance_types_insert", map[string]any{
		"_name":        name,
		"_description": nullable(description),
	})
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *AttendanceTypes) Update(ctx context.Context, id, name, description string) error {
	_, callErr := s.rpc.Call(ctx, "attendance_types_update", map[string]any{
		"_id":          id,
		"_name":        name,
		"_description": nullable(description),
	})
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *AttendanceTypes) Delete(ctx context.Context, id string) error {
	_, callErr := s.rpc.Call(ctx, "attendance_types_delete", map[string]any{"_id": id})
	if callErr != nil {
		return callErr
	}
	return nil
}

// AttendanceRecordInput carries the editable fields of one entry.
type AttendanceRecordInput struct {
	UserID           string
	BranchID         string
	AttendanceTypeID string
	CheckIn          string
	CheckOut         string
	Note             string
}

// Attendance manages check-in/check-out records. The monthly aggregation
// itself runs server-side; this only fetches its output.
type Attendance struct {
	rpc rpc.Caller
}

func NewAttendance(caller rpc.Caller) *Attendance {
	return &Attendance{rpc: caller}
}

// MonthlyRecords returns a user's raw attendance rows for one month.
func (s *Attendance) MonthlyRecords(ctx context.Context, userID string, year, month int) ([]models.AttendanceRecord, error) {
	data, callErr := s.rpc.Call(ctx, "get_monthly_attendance_records", map[string]any{
		"p_user_id": userID,
		"p_year":    year,
		"p_month":   month,
	})
	if callErr != nil {
		return nil, callErr
	}
	return decodeList[models.AttendanceRecord]("get_monthly_attendance_records", data)
}

func (s *Attendance) Create(ctx context.Context, in AttendanceRecordInput) error {
	_, callErr := s.rpc.Call(ctx, "attendance_records_insert", s.params(in))
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *Attendance) Update(ctx context.Context, id string, in AttendanceRecordInput) error {
	params := s.params(in)
	params["_id"] = id
	_, callErr := s.rpc.Call(ctx, "attendance_records_update", params)
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *Attendance) Delete(ctx context.Context, id string) error {
	_, callErr := s.rpc.Call(ctx, "attendance_records_delete", map[string]any{"_id": id})
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *Attendance) params(in AttendanceRecordInput) map[string]any {
	return map[string]any{
		"_user_id":            in.UserID,
		"_branch_id":          nullable(in.BranchID),
		"_attendance_type_id": nullable(in.AttendanceTypeID),
		"_check_in":           nullable(in.CheckIn),
		"_check_out":          nullable(in.CheckOut),
		"_note":               nullable(in.Note),
	}
}
