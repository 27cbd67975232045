package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagesNeverBelowOne(t *testing.T) {
	assert.Equal(t, 1, Pages(0, 10))
	assert.Equal(t, 1, Pages(-5, 10))
	assert.Equal(t, 1, Pages(10, 10))
	assert.Equal(t, 2, Pages(11, 10))
	assert.Equal(t, 3, Pages(25, 10))
	assert.Equal(t, 25, Pages(25, 1))
}

func TestPagerFilterChangeResetsPage(t *testing.T) {
	p := NewPager(10)
	p.SetPage(4)
	assert.Equal(t, 4, p.Page())

	p.SetFilter(Filter{Status: "pending"})
	assert.Equal(t, 1, p.Page())

	p.SetPage(3)
	p.SetFilter(Filter{Status: "pending"})
	assert.Equal(t, 3, p.Page(), "unchanged filter keeps the page")
}

func TestPagerLimitChangeResetsPage(t *testing.T) {
	p := NewPager(10)
	p.SetPage(5)

	p.SetLimit(10)
	assert.Equal(t, 5, p.Page(), "unchanged limit keeps the page")

	p.SetLimit(50)
	assert.Equal(t, 1, p.Page())
	assert.Equal(t, 50, p.Limit())
}

func TestPagerClamp(t *testing.T) {
	p := NewPager(10)
	p.SetPage(9)
	p.Clamp(3)
	assert.Equal(t, 3, p.Page())

	p.Clamp(0)
	assert.Equal(t, 1, p.Page())
}

func TestPagerDefaults(t *testing.T) {
	p := NewPager(0)
	assert.Equal(t, 1, p.Page())
	assert.Equal(t, 20, p.Limit())

	p.SetPage(-2)
	assert.Equal(t, 1, p.Page())
}
