package resource

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type widget struct{ Name string }

func widgetResource(w *widget) Map { return Map{"name": w.Name} }

func TestCollectionNeverNil(t *testing.T) {
	out := Collection[widget](nil, widgetResource)
	assert.NotNil(t, out)
	assert.Empty(t, out)

	out = Collection([]widget{{"a"}, {"b"}}, widgetResource)
	assert.Equal(t, []Map{{"name": "a"}, {"name": "b"}}, out)
}

func TestItemNil(t *testing.T) {
	assert.Nil(t, Item[widget](nil, widgetResource))
	assert.Equal(t, Map{"name": "x"}, Item(&widget{"x"}, widgetResource))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "2.50", Money(decimal.RequireFromString("2.5")))
	assert.Equal(t, "0.00", Money(decimal.Zero))
}
