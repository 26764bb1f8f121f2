package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/scoutboard/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("When recording a new candidate ID", func() {
			seen := d.SeenAndRecord(ctx, "cand-1")

			Convey("Then it is reported as new", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And recording it again reports a duplicate", func() {
				So(d.SeenAndRecord(ctx, "cand-1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When unrecording an ID", func() {
			d.SeenAndRecord(ctx, "cand-2")
			d.Unrecord(ctx, "cand-2")

			Convey("Then it can be recorded again", func() {
				So(d.SeenAndRecord(ctx, "cand-2"), ShouldBeFalse)
			})
		})

		Convey("When unrecording an unknown ID", func() {
			d.Unrecord(ctx, "never-seen")

			Convey("Then the size is untouched", func() {
				So(d.Size(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a bounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))

		Convey("When more IDs arrive than it can hold", func() {
			for i := 0; i < 5; i++ {
				So(d.SeenAndRecord(ctx, fmt.Sprintf("cand-%d", i)), ShouldBeFalse)
			}

			Convey("Then the oldest IDs were evicted first", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "cand-0"), ShouldBeFalse) // evicted, so new again
				So(d.SeenAndRecord(ctx, "cand-4"), ShouldBeTrue)  // newest survives
			})
		})

		Convey("When an ID is unrecorded before eviction would hit it", func() {
			d.SeenAndRecord(ctx, "a")
			d.SeenAndRecord(ctx, "b")
			d.SeenAndRecord(ctx, "c")
			d.Unrecord(ctx, "a")
			d.SeenAndRecord(ctx, "d")
			d.SeenAndRecord(ctx, "e") // forces eviction past a's stale slot

			Convey("Then eviction skips the stale slot and drops the next oldest", func() {
				So(d.SeenAndRecord(ctx, "b"), ShouldBeFalse) // b was evicted
				So(d.SeenAndRecord(ctx, "c"), ShouldBeTrue)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))

		Convey("Then nothing is ever evicted", func() {
			for i := 0; i < 200; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("cand-%d", i))
			}
			So(d.Size(), ShouldEqual, 200)
			So(d.SeenAndRecord(ctx, "cand-0"), ShouldBeTrue)
		})
	})

	Convey("Given concurrent writers", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("Then exactly one writer wins each ID", func() {
			const writers = 16
			var mu sync.Mutex
			newCount := 0
			var wg sync.WaitGroup
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if !d.SeenAndRecord(ctx, "contested") {
						mu.Lock()
						newCount++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()
			So(newCount, ShouldEqual, 1)
			So(d.Size(), ShouldEqual, 1)
		})
	})
}
