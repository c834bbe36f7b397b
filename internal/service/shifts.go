package service

import (
	"context"

	"github.com/akhaled-dev/restodesk/internal/models"
	"github.com/akhaled-dev/restodesk/internal/rpc"
)

// ShiftInput carries the editable fields of a shift definition.
type ShiftInput struct {
	Name                 string
	StartTime            string
	DurationHours        float64
	CheckinGraceMinutes  int
	CheckoutGraceMinutes int
}

// Shifts manages working-hours definitions.
type Shifts struct {
	rpc rpc.Caller
}

func NewShifts(caller rpc.Caller) *Shifts {
	return &Shifts{rpc: caller}
}

func (s *Shifts) All(ctx context.Context) ([]models.Shift, error) {
	data, callErr := s.rpc.Call(ctx, "shifts_get", nil)
	if callErr != nil {
		return nil, callErr
	}
	return decodeList[models.Shift]("shifts_get", data)
}

func (s *Shifts) ByID(ctx context.Context, id string) (*models.Shift, error) {
	data, callErr := s.rpc.Call(ctx, "shifts_get_by_id", map[string]any{"_id": id})
	if callErr != nil {
		return nil, callErr
	}
	return decodeObject[models.Shift]("shifts_get_by_id", data)
}

func (s *Shifts) Create(ctx context.Context, in ShiftInput) error {
	_, callErr := s.rpc.Call(ctx, "shifts_insert", s.params(in))
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *Shifts) Update(ctx context.Context, id string, in ShiftInput) error {
	params := s.params(in)
	params["_id"] = id
	_, callErr := s.rpc.Call(ctx, "shifts_update", params)
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *Shifts) Delete(ctx context.Context, id string) error {
	_, callErr := s.rpc.Call(ctx, "shifts_delete", map[string]any{"_id": id})
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *Shifts) params(in ShiftInput) map[string]any {
	return map[string]any{
		"_name":                   in.Name,
		"_start_time":             in.StartTime,
		"_duration_hours":         in.DurationHours,
		"_checkin_grace_minutes":  in.CheckinGraceMinutes,
		"_checkout_grace_minutes": in.CheckoutGraceMinutes,
	}
}
