package keypaths

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathStringUsesNoneSentinel(t *testing.T) {
	var p Path
	assert.Equal(t, None, p.String())
	assert.Equal(t, `C:\Users`, SetPath(`C:\Users`).String())
}

func TestValidateRequiresDrivePrefix(t *testing.T) {
	good := Profile{
		Name:  "p1",
		Drive: SetPath(`C:\`),
		User:  SetPath(`C:\Users\alice`),
	}
	assert.NoError(t, good.Validate())

	bad := Profile{
		Name:  "p2",
		Drive: SetPath(`C:\`),
		User:  SetPath(`D:\Users\alice`),
	}
	assert.Error(t, bad.Validate(), "expected error for path not prefixed by drive")
}

func TestValidateSkipsPrefixCheckWhenDriveUnset(t *testing.T) {
	p := Profile{Name: "p3", User: SetPath(`/home/alice`)}
	assert.NoError(t, p.Validate())
}
