package namer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixed_Title(t *testing.T) {
	assert.Equal(t, DefaultTitle, Default().Title(context.Background(), "История"))
	assert.Equal(t, DefaultTitle, Fixed("").Title(context.Background(), "История"))
	assert.Equal(t, "Синий платочек", Fixed("Синий платочек").Title(context.Background(), ""))
}
