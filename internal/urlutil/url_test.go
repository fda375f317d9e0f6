package urlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodePercentEncoding(t *testing.T) {
	got := Decode("%7E %C3%A3 %E2%88%80", false)
	assert.Equal(t, "~ ã ∀", got)
}

func TestDecodePlusOnlyWhenRequested(t *testing.T) {
	assert.Equal(t, "a b", Decode("a+b", true))
	assert.Equal(t, "a+b", Decode("a+b", false))
}

func TestParseDecomposesAllComponents(t *testing.T) {
	p := Parse("http://u:p@h:80/x?k1=v1&k2=v+2#f")
	assert.Equal(t, "http", p.Scheme)
	assert.Equal(t, "u:p", p.UserInfo)
	assert.Equal(t, "h", p.Host)
	assert.Equal(t, "80", p.Port)
	assert.Equal(t, "/x", p.Path)
	assert.Equal(t, "f", p.Fragment)
	assert.Equal(t, "v1", p.Params["k1"])
	assert.Equal(t, "v 2", p.Params["k2"])
}

func TestParseDuplicateQueryKeysLastWins(t *testing.T) {
	p := Parse("http://h/?k=a&k=b")
	assert.Equal(t, "b", p.Params["k"])
}

func TestParseWithoutSchemeOrQuery(t *testing.T) {
	p := Parse("h/x")
	assert.Equal(t, "h", p.Host)
	assert.Equal(t, "/x", p.Path)
}
