package logger

import (
	"slices"
	"sync"

	"github.com/stretchr/testify/mock"
)

// MockLogger records log calls for assertions with testify's mock package.
//
// Debug, Info, Warn, Error and Fatal are mock calls with the message as the first argument
// and the key-value slice as the second, so tests set expectations per message:
//
//	m.On("Warn", "suunto: unknown event", mock.Anything).Once()
//
// Level, SetLevel and With are plain state and never need expectations. With returns the
// same mock, so calls made through a child logger are asserted on the parent.
type MockLogger struct {
	mock.Mock

	mu     sync.Mutex
	level  Level
	fields []any
}

var _ Logger = (*MockLogger)(nil)

func NewMockLogger() *MockLogger {
	return &MockLogger{level: DebugLevel}
}

// Ignore accepts any number of calls to the given log methods, e.g. Ignore("Debug", "Info").
func (m *MockLogger) Ignore(methods ...string) *MockLogger {
	for _, method := range methods {
		m.On(method, mock.Anything, mock.Anything).Maybe()
	}

	return m
}

func (m *MockLogger) Debug(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Info(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Warn(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Error(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

// Fatal records the call; unlike a real logger it does not exit.
func (m *MockLogger) Fatal(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) SetLevel(level Level) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.level = level
}

func (m *MockLogger) Level() Level {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.level
}

// With appends keyValues to Fields and returns m.
func (m *MockLogger) With(keyValues ...any) Logger {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fields = append(m.fields, keyValues...)

	return m
}

// Fields returns the key-value pairs added through With.
func (m *MockLogger) Fields() []any {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.fields)
}
