package middleware

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeCallPassesErrorsThrough(t *testing.T) {
	want := errors.New("boom")
	err := SafeCall(func() error { return want })
	assert.ErrorIs(t, err, want)
	assert.False(t, IsPanic(err))
}

func TestSafeCallRecovers(t *testing.T) {
	err := SafeCall(func() error {
		var m map[string]int
		m["x"] = 1
		return nil
	})
	require.Error(t, err)
	assert.True(t, IsPanic(err))

	var p *PanicError
	require.ErrorAs(t, err, &p)
	assert.NotEmpty(t, p.Stack)
}

func TestSafeCallWithResult(t *testing.T) {
	got, err := SafeCallWithResult(func() ([]string, error) {
		return []string{"a"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)

	got, err = SafeCallWithResult(func() ([]string, error) {
		panic("index out of range")
	})
	assert.Nil(t, got)
	assert.True(t, IsPanic(err))
	assert.EqualError(t, err, "panic: index out of range")
}

func TestRecoverWithContext(t *testing.T) {
	var recovered any
	RecoverWithContext(func() { panic(42) }, func(r any, _ []byte) { recovered = r })
	assert.Equal(t, 42, recovered)

	assert.NotPanics(t, func() { Recover(func() { panic("x") }) })
}
