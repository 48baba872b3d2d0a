package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbsoluteResolvesRelativeAgainstBase(t *testing.T) {
	assert.Equal(t, "/src/foo.c", Absolute("/src", "foo.c"))
	assert.Equal(t, "/abs/foo.c", Absolute("/src", "/abs/foo.c"))
}

func TestIsSubpath(t *testing.T) {
	assert.True(t, IsSubpath("/build", "/build/sub/file.o"))
	assert.True(t, IsSubpath("/build", "/build"))
	assert.False(t, IsSubpath("/build", "/other/file.o"))
	assert.False(t, IsSubpath("/build", "/buildx/file.o"))
}

func TestIsBasenameRejectsSeparators(t *testing.T) {
	assert.True(t, IsBasename("out.txt"))
	assert.False(t, IsBasename("sub/out.txt"))
}

func TestExecutableFormPrependsDotSlash(t *testing.T) {
	assert.Equal(t, "./prog", ExecutableForm("prog"))
	assert.Equal(t, "/abs/prog", ExecutableForm("/abs/prog"))
	assert.Equal(t, "dir/prog", ExecutableForm("dir/prog"))
}

func TestRelativeTo(t *testing.T) {
	assert.Equal(t, "sub/file.o", RelativeTo("/build", "/build/sub/file.o"))
}
