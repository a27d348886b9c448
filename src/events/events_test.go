package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatch(t *testing.T) {
	t.Run("delivers to every listener once", func(t *testing.T) {
		r := NewRegistry()
		var got []string
		r.Subscribe("thing.happened", func(ctx context.Context, payload any) {
			got = append(got, "a:"+payload.(string))
		})
		r.Subscribe("thing.happened", func(ctx context.Context, payload any) {
			got = append(got, "b:"+payload.(string))
		})

		r.Dispatch(context.Background(), "thing.happened", "x")
		assert.Equal(t, []string{"a:x", "b:x"}, got)
	})
	t.Run("no listeners is fine", func(t *testing.T) {
		r := NewRegistry()
		r.Dispatch(context.Background(), "nobody.cares", 42)
	})
	t.Run("unrelated events are not delivered", func(t *testing.T) {
		r := NewRegistry()
		calls := 0
		r.Subscribe("a", func(ctx context.Context, payload any) { calls++ })
		r.Dispatch(context.Background(), "b", nil)
		assert.Equal(t, 0, calls)
	})
	t.Run("a panicking listener does not take down the rest", func(t *testing.T) {
		r := NewRegistry()
		calls := 0
		r.Subscribe("e", func(ctx context.Context, payload any) { panic("listener bug") })
		r.Subscribe("e", func(ctx context.Context, payload any) { calls++ })

		assert.NotPanics(t, func() {
			r.Dispatch(context.Background(), "e", nil)
		})
		assert.Equal(t, 1, calls)
	})
}
