package dc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Status
	}{
		{"nil", nil, StatusSuccess},
		{"invalid args", ErrInvalidArgs, StatusInvalidArgs},
		{"wrapped timeout", fmt.Errorf("uwatec: read answer: %w", ErrTimeout), StatusTimeout},
		{"wrapped protocol", fmt.Errorf("%w: unexpected answer 0x02", ErrProtocol), StatusProtocol},
		{"data format", ErrDataFormat, StatusDataFormat},
		{"unsupported", ErrUnsupported, StatusUnsupported},
		{"no memory", ErrNoMemory, StatusNoMemory},
		{"io", ErrIO, StatusIO},
		{"foreign", errors.New("boom"), StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "data format error", StatusDataFormat.String())
	assert.Equal(t, "unknown error", Status(99).String())
}
