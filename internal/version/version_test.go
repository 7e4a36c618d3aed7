package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	info := Info()
	assert.True(t, strings.HasPrefix(info, Version), info)
	if info != Version {
		assert.Regexp(t, `^dev \([0-9a-f]{1,12}\)$`, info)
	}
}
