package service

import (
	"context"

	"github.com/akhaled-dev/restodesk/internal/models"
	"github.com/akhaled-dev/restodesk/internal/rpc"
)

// RequestStatuses manages the workflow-status lookup table.
type RequestStatuses struct {
	rpc rpc.Caller
}

func NewRequestStatuses(caller rpc.Caller) *RequestStatuses {
	return &RequestStatuses{rpc: caller}
}

func (s *RequestStatuses) All(ctx context.Context) ([]models.RequestStatus, error) {
	data, callErr := s.rpc.Call(ctx, "request_statuses_get", nil)
	if callErr != nil {
		return nil, callErr
	}
	return decodeList[models.RequestStatus]("request_statuses_get", data)
}

func (s *RequestStatuses) ByID(ctx context.Context, id string) (*models.RequestStatus, error) {
	data, callErr := s.rpc.Call(ctx, "request_statuses_get_by_id", map[string]any{"_id": id})
	if callErr != nil {
		return nil, callErr
	}
	return decodeObject[models.RequestStatus]("request_statuses_get_by_id", data)
}

func (s *RequestStatuses) Create(ctx context.Context, code, nameAr string) error {
	_, callErr := s.rpc.Call(ctx, "request_statuses_insert", map[string]any{
		"_code":    code,
		"_name_ar": nameAr,
	})
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *RequestStatuses) Update(ctx context.Context, id, code, nameAr string) error {
	_, callErr := s.rpc.Call(ctx, "request_statuses_update", map[string]any{
		"_id":      id,
		"_code":    code,
		"_name_ar": nameAr,
	})
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *RequestStatuses) Delete(ctx context.Context, id string) error {
	_, callErr := s.rpc.Call(ctx, "request_statuses_delete", map[string]any{"_id": id})
	if callErr != nil {
		return callErr
	}
	return nil
}
