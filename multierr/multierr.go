// Package multierr collects errors from operations that should keep
// going after individual failures.
package multierr

import "strings"

type Err []error

func (me Err) Error() string {
	var builder strings.Builder
	for _, err := range me {
		builder.WriteString("\n")
		builder.WriteString(err.Error())
	}
	return builder.String()
}

func (me Err) Len() int {
	return len(me)
}

func (me *Err) Add(err error) {
	*me = append(*me, err)
}

// Or returns the collected errors, or nil when there are none.
func (me Err) Or() error {
	if len(me) == 0 {
		return nil
	}
	return me
}
