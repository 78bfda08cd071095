package goroutine

import (
	"sync"
	"testing"
	"time"
)

func TestAssertNoLeaks_NoLeak(t *testing.T) {
	AssertNoLeaks(t)

	done := make(chan struct{})
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(done)
	}()
	<-done
}

func TestAssertNoLeaks_StoppedWorker(t *testing.T) {
	AssertNoLeaks(t)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
			case <-stop:
				return
			}
		}
	}()

	close(stop)
	wg.Wait()
}
