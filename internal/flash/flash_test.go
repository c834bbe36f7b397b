package flash

import (
	"testing"

	"github.com/akhaled-dev/restodesk/internal/kvstore"
	"github.com/stretchr/testify/assert"
)

func TestConsumeIsOneShot(t *testing.T) {
	f := New(kvstore.NewMemStore())
	f.Set("تم الحذف بنجاح", Success)

	first := f.Consume()
	if assert.NotNil(t, first) {
		assert.Equal(t, "تم الحذف بنجاح", first.Message)
		assert.Equal(t, Success, first.Type)
	}

	assert.Nil(t, f.Consume(), "second consume must return nil")
}

func TestConsumeEmpty(t *testing.T) {
	f := New(kvstore.NewMemStore())
	assert.Nil(t, f.Consume())
}

func TestSetReplacesPending(t *testing.T) {
	f := New(kvstore.NewMemStore())
	f.Set("first", Info)
	f.Set("second", Warning)

	got := f.Consume()
	if assert.NotNil(t, got) {
		assert.Equal(t, "second", got.Message)
		assert.Equal(t, Warning, got.Type)
	}
}

func TestClear(t *testing.T) {
	f := New(kvstore.NewMemStore())
	f.Set("pending", Error)
	f.Clear()
	assert.Nil(t, f.Consume())
}

func TestConsumeCorruptPayload(t *testing.T) {
	store := kvstore.NewMemStore()
	store.Set("app_flash_message", "not-json")

	f := New(store)
	assert.Nil(t, f.Consume())
	// corrupt value was still cleared
	_, ok := store.Get("app_flash_message")
	assert.False(t, ok)
}
