package controllers_test

import (
	"context"
	"errors"
	"time"

	"github.com/killallgit/madchat/pkg/chat"
	"github.com/killallgit/madchat/pkg/controllers"
	"github.com/killallgit/madchat/pkg/stream"
	"github.com/killallgit/madchat/pkg/testutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("StreamOpener", func() {
	var (
		server     *testutil.AnswerServer
		controller *controllers.Controller
		ctx        context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		server = testutil.NewAnswerServer("X is Y.", "Z follows.")
		server.SetChunkSize(2)
		controller = controllers.NewController(controllers.StreamOpener(stream.NewClient(server.Endpoint())))
	})

	AfterEach(func() {
		server.Close()
	})

	waitIdle := func() {
		waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		Expect(controller.Wait(waitCtx)).To(Succeed())
	}

	It("should stream answers from a live endpoint and carry history", func() {
		Expect(controller.Submit(ctx, "What is X?")).To(Succeed())
		waitIdle()

		Expect(controller.Err()).NotTo(HaveOccurred())
		Expect(controller.History()).To(Equal([]chat.HistoryPair{{Question: "What is X?", Answer: "X is Y."}}))

		Expect(controller.Submit(ctx, "And then?")).To(Succeed())
		waitIdle()

		requests := server.Requests()
		Expect(requests).To(HaveLen(2))
		Expect(requests[1].Question).To(Equal("And then?"))
		Expect(requests[1].History).To(Equal([]chat.HistoryPair{{Question: "What is X?", Answer: "X is Y."}}))

		snapshot := controller.Snapshot()
		Expect(snapshot.Exchanges[len(snapshot.Exchanges)-1].Text).To(Equal("Z follows."))
	})

	It("should return to idle with the question unanswered when the stream drops", func() {
		server.SetFailAfter(1)

		Expect(controller.Submit(ctx, "What is X?")).To(Succeed())
		waitIdle()

		snapshot := controller.Snapshot()
		Expect(errors.Is(snapshot.Err, stream.ErrTransportFailure)).To(BeTrue())
		Expect(snapshot.HasPending).To(BeFalse())
		Expect(snapshot.Exchanges[len(snapshot.Exchanges)-1].Text).To(Equal("What is X?"))
		Expect(controller.History()).To(BeEmpty())
	})
})
