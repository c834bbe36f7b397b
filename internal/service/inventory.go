package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/akhaled-dev/restodesk/internal/models"
	"github.com/akhaled-dev/restodesk/internal/rpc"
)

// Transfer validation failures caught before any call is issued.
var (
	ErrMissingBranches = errors.New("يرجى اختيار الفرع المصدر والفرع الهدف")
	ErrSameBranch      = errors.New("لا يمكن أن يكون الفرع المصدر والهدف متطابقين")
	ErrMissingItem     = errors.New("يرجى اختيار الصنف")
	ErrInvalidQuantity = errors.New("الكمية يجب أن تكون أكبر من صفر")
)

// InventoryItems manages the shared stock-keeping catalogue.
type InventoryItems struct {
	rpc rpc.Caller
}

func NewInventoryItems(caller rpc.Caller) *InventoryItems {
	return &InventoryItems{rpc: caller}
}

func (s *InventoryItems) All(ctx context.Context) ([]models.InventoryItem, error) {
	data, callErr := s.rpc.Call(ctx, "inventory_items_get", nil)
	if callErr != nil {
		return nil, callErr
	}
	return decodeList[models.InventoryItem]("inventory_items_get", data)
}

func (s *InventoryItems) ByID(ctx context.Context, id string) (*models.InventoryItem, error) {
	data, callErr := s.rpc.Call(ctx, "inventory_items_get_by_id", map[string]any{"_id": id})
	if callErr != nil {
		return nil, callErr
	}
	return decodeObject[models.InventoryItem]("inventory_items_get_by_id", data)
}

func (s *InventoryItems) Create(ctx context.Context, name, unit, description string) error {
	_, callErr := s.rpc.Call(ctx, "inventory_items_insert", map[string]any{
		"_name":        name,
		"_unit":        unit,
		"_description": nullable(description),
	})
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *InventoryItems) Update(ctx context.Context, id, name, unit, description string) error {
	_, callErr := s.rpc.Call(ctx, "inventory_items_update", map[string]any{
		"_id":          id,
		"_name":        name,
		"_unit":        unit,
		"_description": nullable(description),
	})
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *InventoryItems) Delete(ctx context.Context, id string) error {
	_, callErr := s.rpc.Call(ctx, "inventory_items_delete", map[string]any{"_id": id})
	if callErr != nil {
		return callErr
	}
	return nil
}

// TransferInput describes one stock movement between branches.
type TransferInput struct {
	SourceBranchID string
	TargetBranchID string
	ItemID         string
	Quantity       float64
	Note           string
}

func (in TransferInput) validate() error {
	if in.SourceBranchID == "" || in.TargetBranchID == "" {
		return ErrMissingBranches
	}
	if in.SourceBranchID == in.TargetBranchID {
		return ErrSameBranch
	}
	if in.ItemID == "" {
		return ErrMissingItem
	}
	if in.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// BranchInventory manages per-branch stock levels, movements and the
// transaction audit trail.
type BranchInventory struct {
	rpc rpc.Caller
}

func NewBranchInventory(caller rpc.Caller) *BranchInventory {
	return &BranchInventory{rpc: caller}
}

func (s *BranchInventory) All(ctx context.Context) ([]models.BranchInventory, error) {
	data, callErr := s.rpc.Call(ctx, "branch_inventory_get", nil)
	if callErr != nil {
		return nil, callErr
	}
	return decodeList[models.BranchInventory]("branch_inventory_get", data)
}

func (s *BranchInventory) ByBranch(ctx context.Context, branchID string) ([]models.BranchInventory, error) {
	data, callErr := s.rpc.Call(ctx, "branch_inventory_get_by_branch", map[string]any{"_branch_id": branchID})
	if callErr != nil {
		return nil, callErr
	}
	return decodeList[models.BranchInventory]("branch_inventory_get_by_branch", data)
}

func (s *BranchInventory) Create(ctx context.Context, branchID, itemID string, quantity float64) error {
	_, callErr := s.rpc.Call(ctx, "branch_inventory_insert", map[string]any{
		"_branch_id": branchID,
		"_item_id":   itemID,
		"_quantity":  quantity,
	})
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *BranchInventory) Update(ctx context.Context, id string, quantity float64) error {
	_, callErr := s.rpc.Call(ctx, "branch_inventory_update", map[string]any{
		"_id":       id,
		"_quantity": quantity,
	})
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *BranchInventory) Delete(ctx context.Context, id string) error {
	_, callErr := s.rpc.Call(ctx, "branch_inventory_delete", map[string]any{"_id": id})
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *BranchInventory) Transactions(ctx context.Context) ([]models.InventoryTransaction, error) {
	data, callErr := s.rpc.Call(ctx, "inventory_transactions_get", nil)
	if callErr != nil {
		return nil, callErr
	}
	return decodeList[models.InventoryTransaction]("inventory_transactions_get", data)
}

func (s *BranchInventory) TransactionsByBranch(ctx context.Context, branchID string) ([]models.InventoryTransaction, error) {
	data, callErr := s.rpc.Call(ctx, "inventory_transactions_get_by_branch", map[string]any{"_branch_id": branchID})
	if callErr != nil {
		return nil, callErr
	}
	return decodeList[models.InventoryTransaction]("inventory_transactions_get_by_branch", data)
}

func (s *BranchInventory) TransactionsByItem(ctx context.Context, itemID string) ([]models.InventoryTransaction, error) {
	data, callErr := s.rpc.Call(ctx, "inventory_transactions_get_by_item", map[string]any{"_item_id": itemID})
	if callErr != nil {
		return nil, callErr
	}
	return decodeList[models.InventoryTransaction]("inventory_transactions_get_by_item", data)
}

// transferReply is the status envelope the transfer function answers with.
type transferReply struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// TransferStock moves stock between two branches in one server-side
// transaction. The backend answers a status envelope rather than raising
// an error; a non-success status is surfaced with the server message
// verbatim.
func (s *BranchInventory) TransferStock(ctx context.Context, in TransferInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	data, callErr := s.rpc.Call(ctx, "inventory_transfer_stock", map[string]any{
		"_source_branch_id": in.SourceBranchID,
		"_target_branch_id": in.TargetBranchID,
		"_item_id":          in.ItemID,
		"_quantity":         in.Quantity,
		"_note":             nullable(in.Note),
	})
	if callErr != nil {
		return callErr
	}

	reply, err := decodeObject[transferReply]("inventory_transfer_stock", data)
	if err != nil {
		return err
	}
	if reply != nil && reply.Status != "" && reply.Status != "success" {
		return fmt.Errorf("%s", reply.Message)
	}
	return nil
}
