package pool

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetTimer_Fires(t *testing.T) {
	timer := GetTimer(20 * time.Millisecond)
	defer PutTimer(timer)

	select {
	case <-timer.C:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestPutTimer_RecycledTimerHasNoStaleTick(t *testing.T) {
	first := GetTimer(5 * time.Millisecond)
	time.Sleep(20 * time.Millisecond) // let it expire without reading C
	PutTimer(first)

	begin := time.Now()
	second := GetTimer(100 * time.Millisecond)
	defer PutTimer(second)

	tick := <-second.C
	assert.GreaterOrEqual(t, tick.Sub(begin), 90*time.Millisecond)
}

func TestTimerPool_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			timer := GetTimer(5 * time.Millisecond)
			defer PutTimer(timer)
			<-timer.C
		}()
	}
	wg.Wait()
}
