package queue_test

import (
	"context"
	"testing"
	"time"

	queue "github.com/okian/scout/internal/adapters/mq/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEnqueueDequeue(t *testing.T) {
	Convey("Given an in-memory job queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		ctx := context.Background()

		Convey("When a job is enqueued", func() {
			ok := q.Enqueue(ctx, queue.Job{JobID: "job-1"})

			Convey("Then it is accepted and counted", func() {
				So(ok, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 1)
			})

			Convey("Then a consumer receives it", func() {
				consumeCtx, cancel := context.WithTimeout(ctx, time.Second)
				defer cancel()

				job := <-q.Dequeue(consumeCtx)
				So(job.JobID, ShouldEqual, "job-1")
			})
		})

		Convey("When the queue fills up", func() {
			for i := 0; i < 4; i++ {
				So(q.Enqueue(ctx, queue.Job{JobID: "fill"}), ShouldBeTrue)
			}

			Convey("Then further enqueues are rejected", func() {
				So(q.Enqueue(ctx, queue.Job{JobID: "overflow"}), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 4)
			})
		})

		Convey("When the enqueue context is cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			for i := 0; i < 4; i++ {
				q.Enqueue(ctx, queue.Job{JobID: "fill"})
			}

			So(q.Enqueue(cancelled, queue.Job{JobID: "late"}), ShouldBeFalse)
		})
	})
}

func TestQueueClose(t *testing.T) {
	Convey("Given a queue with one pending job", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		ctx := context.Background()
		So(q.Enqueue(ctx, queue.Job{JobID: "pending"}), ShouldBeTrue)

		Convey("When the queue is closed", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then it reports closed and rejects new jobs", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, queue.Job{JobID: "late"}), ShouldBeFalse)
			})

			Convey("Then closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})

			Convey("Then consumers drain the pending job and see the channel close", func() {
				out := q.Dequeue(ctx)

				job, open := <-out
				So(open, ShouldBeTrue)
				So(job.JobID, ShouldEqual, "pending")

				_, open = <-out
				So(open, ShouldBeFalse)
			})
		})
	})
}
