// Package output provides output formatting for kvs.
package output

import "io"

// YAMLFormatter is the Formatter for the yaml format. It performs no
// YAML encoding.
type YAMLFormatter struct{}

// Format writes nothing to w and returns nil.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	return nil
}
