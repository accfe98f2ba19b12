package logger

import (
	"os"
	"sync"
	"testing"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	os.Setenv("VV_LOG_FOLDER", os.TempDir())
	InitLogger(logging.ERROR)
	os.Exit(m.Run())
}

func TestGetLogsLimit(t *testing.T) {
	for i := 0; i < 5; i++ {
		Warningf("limit entry %d", i)
	}

	logs := GetLogs(2, "DEBUG")
	assert.Len(t, logs, 2)
}

func TestGetLogsLevelFilter(t *testing.T) {
	Debug("chatty entry")
	Error("failed entry")

	logs := GetLogs(maxLogBufferSize, "ERROR")
	assert.NotEmpty(t, logs)
	for _, line := range logs {
		assert.NotContains(t, line, "chatty entry")
	}
}

func TestConcurrentLogging(t *testing.T) {
	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				Warningf("worker %d entry %d", g, i)
				GetLogs(10, "DEBUG")
			}
		}(g)
	}
	wg.Wait()

	assert.Len(t, GetLogs(10, "DEBUG"), 10)
}
