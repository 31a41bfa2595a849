package configcrunch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathInRepoBareAndAbsoluteIgnoreBase(t *testing.T) {
	logical, ok := pathInRepo("a/b", true, "/c")
	assert.True(t, ok)
	assert.Equal(t, "c", logical)

	logical, ok = pathInRepo("", false, "c")
	assert.True(t, ok)
	assert.Equal(t, "c", logical)
}

func TestPathInRepoDotSlashJoinsAgainstBaseDir(t *testing.T) {
	logical, ok := pathInRepo("a/b", true, "./c")
	assert.True(t, ok)
	assert.Equal(t, "a/c", logical)
}

func TestPathInRepoDotDotSlashClimbsAndCanEscape(t *testing.T) {
	logical, ok := pathInRepo("a/b/c", true, "../d")
	assert.True(t, ok)
	assert.Equal(t, "a/d", logical)

	_, ok = pathInRepo("a", true, "../../escaped")
	assert.False(t, ok)
}

func TestPathInRepoDotDotSlashWithNoBase(t *testing.T) {
	_, ok := pathInRepo("", false, "../escaped")
	assert.False(t, ok)
}

func TestEscapesAllRoots(t *testing.T) {
	assert.True(t, escapesAllRoots(".."))
	assert.True(t, escapesAllRoots("../x"))
	assert.True(t, escapesAllRoots("./x"))
	assert.False(t, escapesAllRoots("x/y"))
}
