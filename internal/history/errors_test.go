package history

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageError_Message(t *testing.T) {
	err := writeError("save", errors.New("disk full"))
	assert.Equal(t, "STORAGE_WRITE: save: disk full", err.Error())
}

func TestStorageError_Classification(t *testing.T) {
	engine := errors.New("engine failure")

	tests := []struct {
		name              string
		err               error
		open, read, write bool
	}{
		{"open", openError("initialize", engine), true, false, false},
		{"read", readError("list", engine), false, true, false},
		{"write", writeError("delete", engine), false, false, true},
		{"wrapped", fmt.Errorf("caller: %w", readError("get", engine)), false, true, false},
		{"plain", engine, false, false, false},
		{"nil", nil, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.open, IsOpenError(tt.err))
			assert.Equal(t, tt.read, IsReadError(tt.err))
			assert.Equal(t, tt.write, IsWriteError(tt.err))
		})
	}
}

func TestStorageError_UnwrapsEngineError(t *testing.T) {
	engine := errors.New("engine failure")
	err := readError("list", engine)
	assert.True(t, errors.Is(err, engine))
}
