package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootIsConstant(t *testing.T) {
	svc := New()
	assert.Equal(t, "Hello World from FastAPI!", svc.Root().Message)
	assert.Equal(t, svc.Root(), svc.Root())
}

func TestHelloInterpolatesNameVerbatim(t *testing.T) {
	svc := New()
	names := []string{"Ada", "", " ", "Zoë", "世界", "<script>", "%s", "a, b"}
	for _, name := range names {
		assert.Equal(t, "Hello, "+name+" from FastAPI!", svc.Hello(name).Message, "name %q", name)
	}
}

func TestHelloDefaultName(t *testing.T) {
	assert.Equal(t, "Hello, World from FastAPI!", New().Hello(DefaultName).Message)
}
