package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhaled-dev/restodesk/internal/rpc"
)

// fakeCaller is an in-memory Caller with canned replies keyed by
// function name. It records every call for shape assertions.
type fakeCaller struct {
	replies map[string]json.RawMessage
	faults  map[string]*rpc.Error
	calls   []string
	params  map[string]map[string]any
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{
		replies: make(map[string]json.RawMessage),
		faults:  make(map[string]*rpc.Error),
		params:  make(map[string]map[string]any),
	}
}

func (f *fakeCaller) reply(fn, body string) {
	f.replies[fn] = json.RawMessage(body)
}

func (f *fakeCaller) fail(fn string, callErr *rpc.Error) {
	f.faults[fn] = callErr
}

func (f *fakeCaller) Call(_ context.Context, fn string, params map[string]any) (json.RawMessage, *rpc.Error) {
	f.calls = append(f.calls, fn)
	f.params[fn] = params
	if callErr, ok := f.faults[fn]; ok {
		return nil, callErr
	}
	if body, ok := f.replies[fn]; ok {
		return body, nil
	}
	return json.RawMessage(`null`), nil
}

func TestDecodeListShapes(t *testing.T) {
	type row struct {
		ID string `json:"id"`
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "array", body: `[{"id":"a"},{"id":"b"}]`, want: 2},
		{name: "bare object", body: `{"id":"a"}`, want: 1},
		{name: "null", body: `null`, want: 0},
		{name: "empty array", body: `[]`, want: 0},
		{name: "wrapped by function name", body: `[{"rows_get":[{"id":"a"}]}]`, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := decodeList[row]("rows_get", json.RawMessage(tt.body))
			require.NoError(t, err)
			assert.Len(t, items, tt.want)
		})
	}
}

func TestDecodeObjectShapes(t *testing.T) {
	type row struct {
		ID string `json:"id"`
	}

	t.Run("bare object", func(t *testing.T) {
		v, err := decodeObject[row]("rows_get_by_id", json.RawMessage(`{"id":"a"}`))
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, "a", v.ID)
	})

	t.Run("one element array", func(t *testing.T) {
		v, err := decodeObject[row]("rows_get_by_id", json.RawMessage(`[{"id":"a"}]`))
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, "a", v.ID)
	})

	t.Run("wrapped by function name", func(t *testing.T) {
		v, err := decodeObject[row]("rows_get_by_id", json.RawMessage(`[{"rows_get_by_id":{"id":"a"}}]`))
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, "a", v.ID)
	})

	t.Run("null yields nil", func(t *testing.T) {
		v, err := decodeObject[row]("rows_get_by_id", json.RawMessage(`null`))
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("empty array yields nil", func(t *testing.T) {
		v, err := decodeObject[row]("rows_get_by_id", json.RawMessage(`[]`))
		require.NoError(t, err)
		assert.Nil(t, v)
	})
}
