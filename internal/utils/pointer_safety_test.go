package utils_test

import (
	"testing"

	"github.com/jrsteele09/traveline-backoffice/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestPtr(t *testing.T) {
	v := 7
	p := utils.Ptr(v)
	require.Equal(t, 7, *p)

	*p = 8
	require.Equal(t, 7, v, "Ptr must point at a copy")
}
