package logger

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ComponentLogger tags every entry with a component name and accepts
// alternating key/value pairs after the message.
type ComponentLogger struct {
	component string
}

// WithComponent returns a logger scoped to the named component
func WithComponent(name string) *ComponentLogger {
	return &ComponentLogger{component: name}
}

func (c *ComponentLogger) entry(kv []interface{}) *logrus.Entry {
	fields := logrus.Fields{"component": c.component}
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 < len(kv) {
			fields[key] = kv[i+1]
		} else {
			fields[key] = "(missing)"
		}
	}
	return current().WithFields(fields)
}

func (c *ComponentLogger) Debug(msg string, kv ...interface{}) { c.entry(kv).Debug(msg) }
func (c *ComponentLogger) Info(msg string, kv ...interface{})  { c.entry(kv).Info(msg) }
func (c *ComponentLogger) Warn(msg string, kv ...interface{})  { c.entry(kv).Warn(msg) }
func (c *ComponentLogger) Error(msg string, kv ...interface{}) { c.entry(kv).Error(msg) }
