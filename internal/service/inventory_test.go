package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTransfer() TransferInput {
	return TransferInput{
		SourceBranchID: "b1",
		TargetBranchID: "b2",
		ItemID:         "i1",
		Quantity:       5,
	}
}

func TestTransferStockValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*TransferInput)
		wantErr error
	}{
		{name: "missing source", mutate: func(in *TransferInput) { in.SourceBranchID = "" }, wantErr: ErrMissingBranches},
		{name: "missing target", mutate: func(in *TransferInput) { in.TargetBranchID = "" }, wantErr: ErrMissingBranches},
		{name: "same branch", mutate: func(in *TransferInput) { in.TargetBranchID = in.SourceBranchID }, wantErr: ErrSameBranch},
		{name: "missing item", mutate: func(in *TransferInput) { in.ItemID = "" }, wantErr: ErrMissingItem},
		{name: "zero quantity", mutate: func(in *TransferInput) { in.Quantity = 0 }, wantErr: ErrInvalidQuantity},
		{name: "negative quantity", mutate: func(in *TransferInput) { in.Quantity = -3 }, wantErr: ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := newFakeCaller()
			in := validTransfer()
			tt.mutate(&in)

			err := NewBranchInventory(caller).TransferStock(context.Background(), in)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, caller.calls, "no call may be issued for invalid input")
		})
	}
}

func TestTransferStockSuccess(t *testing.T) {
	caller := newFakeCaller()
	caller.reply("inventory_transfer_stock", `{"status":"success","message":"تم النقل بنجاح"}`)

	err := NewBranchInventory(caller).TransferStock(context.Background(), validTransfer())
	require.NoError(t, err)

	params := caller.params["inventory_transfer_stock"]
	assert.Equal(t, "b1", params["_source_branch_id"])
	assert.Equal(t, "b2", params["_target_branch_id"])
	assert.Equal(t, "i1", params["_item_id"])
	assert.Equal(t, float64(5), params["_quantity"])
	assert.Nil(t, params["_note"])
}

func TestTransferStockServerRejection(t *testing.T) {
	caller := newFakeCaller()
	caller.reply("inventory_transfer_stock", `{"status":"error","message":"الكمية المتاحة غير كافية"}`)

	err := NewBranchInventory(caller).TransferStock(context.Background(), validTransfer())
	require.Error(t, err)
	assert.Equal(t, "الكمية المتاحة غير كافية", err.Error())
}

func TestBranchInventoryByBranch(t *testing.T) {
	caller := newFakeCaller()
	caller.reply("branch_inventory_get_by_branch", `[{"id":"bi1","branch_id":"b1","item_id":"i1","quantity":12.5}]`)

	rows, err := NewBranchInventory(caller).ByBranch(context.Background(), "b1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 12.5, rows[0].Quantity)
	assert.Equal(t, "b1", caller.params["branch_inventory_get_by_branch"]["_branch_id"])
}

func TestInventoryItemsNullReplies(t *testing.T) {
	caller := newFakeCaller()

	items, err := NewInventoryItems(caller).All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}
