package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-divelog/internal/config"
	"github.com/arloliu/go-divelog/irda"
	"github.com/arloliu/go-divelog/irda/irdatest"
	"github.com/arloliu/go-divelog/uwatec/smart/smarttest"
)

func le32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

// uwatecDive builds one dive of a Uwatec Smart memory image.
func uwatecDive(timestamp uint32, body ...byte) []byte {
	dive := []byte{0xA5, 0xA5, 0x5A, 0x5A}
	dive = append(dive, le32(uint32(12+len(body)))...) //nolint:gosec
	dive = append(dive, le32(timestamp)...)

	return append(dive, body...)
}

// uwatecSocket simulates a Uwatec Smart device holding memory.
func uwatecSocket(memory []byte) *irdatest.Socket {
	return smarttest.NewSimulator(memory).Socket()
}

// runCmd executes divedump with args and returns stdout and stderr.
func runCmd(t *testing.T, a *app, args ...string) (string, string, error) {
	t.Helper()

	if a == nil {
		a = &app{newOpener: linkOpener}
	}

	cmd := newAppCmd(a)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

// socketApp returns an app whose download talks to s.
func socketApp(s *irdatest.Socket) *app {
	return &app{newOpener: func(config.LinkConfig) (irda.Opener, error) {
		return s.Opener(), nil
	}}
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}
