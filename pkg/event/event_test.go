package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFireOrder(t *testing.T) {
	b := NewBus()
	var got []string
	b.Listen(SalePosted, func(p interface{}) { got = append(got, "a:"+p.(string)) })
	b.Listen(SalePosted, func(p interface{}) { got = append(got, "b:"+p.(string)) })
	b.Listen(SaleCancelled, func(interface{}) { got = append(got, "never") })

	b.Fire(SalePosted, "S1")
	assert.Equal(t, []string{"a:S1", "b:S1"}, got)
}

func TestFireAsync(t *testing.T) {
	b := NewBus()
	var wg sync.WaitGroup
	wg.Add(2)
	b.Listen(UserLoggedIn, func(interface{}) { wg.Done() })
	b.Listen(UserLoggedIn, func(interface{}) { wg.Done() })
	b.FireAsync(UserLoggedIn, nil)
	wg.Wait()
}

func TestNilBus(t *testing.T) {
	var b *Bus
	assert.NotPanics(t, func() { b.Fire(SalePosted, nil) })
}
