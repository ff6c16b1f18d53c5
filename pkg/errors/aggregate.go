package errors

import (
	"github.com/hashicorp/go-multierror"
)

// multiErrorAdapter wraps hashicorp/go-multierror so AggregateError can
// embed it without exposing the library type directly in the public API.
type multiErrorAdapter struct {
	inner *multierror.Error
}

func newMultiErrorAdapter() *multiErrorAdapter {
	return &multiErrorAdapter{inner: &multierror.Error{}}
}

func (m *multiErrorAdapter) Append(err error) {
	m.inner = multierror.Append(m.inner, err)
}

func (m *multiErrorAdapter) Len() int {
	if m.inner == nil {
		return 0
	}
	return len(m.inner.Errors)
}

func (m *multiErrorAdapter) Error() string {
	return m.inner.Error()
}

func (m *multiErrorAdapter) Errors() []error {
	return m.inner.Errors
}
