package smart

import "sync/atomic"

// DeviceMetrics contains atomic counters for a Uwatec Smart device.
// They can be exported as the value of a prometheus CounterFunc.
type DeviceMetrics struct {
	// CommandCount indicates the number of commands sent.
	CommandCount atomic.Uint64
	// BytesSent indicates the number of command bytes written to the link.
	BytesSent atomic.Uint64
	// BytesReceived indicates the number of bytes read from the link.
	BytesReceived atomic.Uint64
	// ChunkCount indicates the number of data chunks read during dumps.
	ChunkCount atomic.Uint64
	// DumpCount indicates the number of successful dumps.
	DumpCount atomic.Uint64
	// ErrorCount indicates the number of failed transfers.
	ErrorCount atomic.Uint64
}

func (m *DeviceMetrics) incCommandCount(size int) {
	m.CommandCount.Add(1)
	m.BytesSent.Add(uint64(size))
}

func (m *DeviceMetrics) addBytesReceived(n int) {
	m.BytesReceived.Add(uint64(n))
}

func (m *DeviceMetrics) incChunkCount() {
	m.ChunkCount.Add(1)
}

func (m *DeviceMetrics) incDumpCount() {
	m.DumpCount.Add(1)
}

func (m *DeviceMetrics) incErrorCount() {
	m.ErrorCount.Add(1)
}
