package atomicfloat

import (
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAdd(t *testing.T) {
	Convey("When multiple writers add to the value concurrently", t, func() {
		f := New(0)
		numOps := 3000
		numWriters := 2

		wg := sync.WaitGroup{}
		wg.Add(numWriters)
		adder := func() {
			for i := 0; i < numOps; i++ {
				for {
					if _, ok := f.Add(1.0); ok {
						break
					}
				}
			}
			wg.Done()
		}

		for i := 0; i < numWriters; i++ {
			go adder()
		}
		wg.Wait()

		So(f.Load(), ShouldEqual, float64(numOps*numWriters))
	})
}
