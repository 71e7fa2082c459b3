package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shop/internal/domain/model"
)

func Test_withBackoff_成功するまでリトライする(t *testing.T) {
	calls := 0
	err := withBackoff(3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func Test_withBackoff_試行回数を超えたら最後のエラーを返す(t *testing.T) {
	calls := 0
	err := withBackoff(3, time.Millisecond, func() error {
		calls++
		return errors.New("permanent")
	})
	assert.EqualError(t, err, "permanent")
	assert.Equal(t, 3, calls)
}

func Test_SideEffectDispatcher_nilでも落ちない(t *testing.T) {
	var d *SideEffectDispatcher
	d.OrderSettled(model.Order{ID: 1}, nil, "a@example.com")
	d.OrderCancelled(model.Order{ID: 1}, "a@example.com")
}
