package service

import (
	"context"

	"github.com/akhaled-dev/restodesk/internal/models"
	"github.com/akhaled-dev/restodesk/internal/rpc"
)

// BranchInput carries the editable fields of a branch.
type BranchInput struct {
	Name      string
	Address   string
	Latitude  *float64
	Longitude *float64
}

// Branches manages branch records.
type Branches struct {
	rpc rpc.Caller
}

func NewBranches(caller rpc.Caller) *Branches {
	return &Branches{rpc: caller}
}

func (s *Branches) All(ctx context.Context) ([]models.Branch, error) {
	data, callErr := s.rpc.Call(ctx, "branches_get", nil)
	if callErr != nil {
		return nil, callErr
	}
	return decodeList[models.Branch]("branches_get", data)
}

func (s *Branches) ByID(ctx context.Context, id string) (*models.Branch, error) {
	data, callErr := s.rpc.Call(ctx, "branches_get_by_id", map[string]any{"_id": id})
	if callErr != nil {
		return nil, callErr
	}
	return decodeObject[models.Branch]("branches_get_by_id", data)
}

func (s *Branches) Create(ctx context.Context, in BranchInput) error {
	_, callErr := s.rpc.Call(ctx, "branches_insert", s.params(in))
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *Branches) Update(ctx context.Context, id string, in BranchInput) error {
	params := s.params(in)
	params["_id"] = id
	_, callErr := s.rpc.Call(ctx, "branches_update", params)
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *Branches) Delete(ctx context.Context, id string) error {
	_, callErr := s.rpc.Call(ctx, "branches_delete", map[string]any{"_id": id})
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *Branches) params(in BranchInput) map[string]any {
	return map[string]any{
		"_name":      in.Name,
		"_address":   nullable(in.Address),
		"_latitude":  in.Latitude,
		"_longitude": in.Longitude,
	}
}
