package chat_test

import (
	"github.com/killallgit/madchat/pkg/chat"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const greeting = "Hi, I'm the Mäd AI assistant. How can I help?"

var _ = Describe("Transcript", func() {
	var transcript *chat.Transcript

	BeforeEach(func() {
		transcript = chat.NewTranscript(greeting)
	})

	Describe("NewTranscript", func() {
		It("should start with only the greeting and nothing pending", func() {
			exchanges := transcript.Exchanges()
			Expect(exchanges).To(HaveLen(1))
			Expect(exchanges[0].Role).To(Equal(chat.RoleAssistant))
			Expect(exchanges[0].Text).To(Equal(greeting))

			_, ok := transcript.Pending()
			Expect(ok).To(BeFalse())
			Expect(transcript.LastUser()).To(Equal(-1))
		})

		It("should allow an empty transcript without a greeting", func() {
			Expect(chat.NewTranscript("").Len()).To(Equal(0))
		})
	})

	Describe("AppendUser", func() {
		It("should append the trimmed question", func() {
			Expect(transcript.AppendUser("  What is Mäd?  ")).To(BeTrue())

			exchanges := transcript.Exchanges()
			Expect(exchanges).To(HaveLen(2))
			Expect(exchanges[1].Role).To(Equal(chat.RoleUser))
			Expect(exchanges[1].Text).To(Equal("What is Mäd?"))
			Expect(transcript.LastUser()).To(Equal(1))
		})

		It("should ignore blank input", func() {
			Expect(transcript.AppendUser("   \n ")).To(BeFalse())
			Expect(transcript.Len()).To(Equal(1))
		})
	})

	Describe("pending answer", func() {
		It("should accumulate tokens in arrival order", func() {
			transcript.BeginPending()
			text, ok := transcript.Pending()
			Expect(ok).To(BeTrue())
			Expect(text).To(BeEmpty())

			Expect(transcript.AppendToken("Hel")).To(Succeed())
			Expect(transcript.AppendToken("lo")).To(Succeed())
			Expect(transcript.AppendToken("")).To(Succeed())
			Expect(transcript.AppendToken(" world")).To(Succeed())

			text, _ = transcript.Pending()
			Expect(text).To(Equal("Hello world"))
			Expect(transcript.PendingFragments()).To(Equal(4))
		})

		It("should reject tokens when nothing is pending", func() {
			Expect(transcript.AppendToken("late")).To(MatchError(chat.ErrNoPending))
			Expect(transcript.Len()).To(Equal(1))
		})

		It("should commit the pending answer exactly once", func() {
			transcript.AppendUser("Q")
			transcript.BeginPending()
			Expect(transcript.AppendToken("A")).To(Succeed())

			exchange, ok := transcript.CommitPending()
			Expect(ok).To(BeTrue())
			Expect(exchange.Role).To(Equal(chat.RoleAssistant))
			Expect(exchange.Text).To(Equal("A"))

			_, ok = transcript.Pending()
			Expect(ok).To(BeFalse())

			_, ok = transcript.CommitPending()
			Expect(ok).To(BeFalse())
			Expect(transcript.Len()).To(Equal(3))
		})

		It("should commit an empty answer when no tokens arrived", func() {
			transcript.AppendUser("Q")
			transcript.BeginPending()

			exchange, ok := transcript.CommitPending()
			Expect(ok).To(BeTrue())
			Expect(exchange.Text).To(BeEmpty())
		})

		It("should discard the pending answer without committing", func() {
			transcript.AppendUser("Q")
			transcript.BeginPending()
			Expect(transcript.AppendToken("partial")).To(Succeed())

			Expect(transcript.DiscardPending()).To(BeTrue())
			Expect(transcript.DiscardPending()).To(BeFalse())
			Expect(transcript.Len()).To(Equal(2))
			Expect(transcript.AppendToken("late")).To(MatchError(chat.ErrNoPending))
		})

		It("should restart an in-flight answer on BeginPending", func() {
			transcript.BeginPending()
			Expect(transcript.AppendToken("stale")).To(Succeed())
			transcript.BeginPending()

			text, ok := transcript.Pending()
			Expect(ok).To(BeTrue())
			Expect(text).To(BeEmpty())
			Expect(transcript.PendingFragments()).To(BeZero())
		})
	})

	Describe("Exchanges", func() {
		It("should return a copy callers cannot mutate", func() {
			exchanges := transcript.Exchanges()
			exchanges[0].Text = "changed"

			Expect(transcript.Exchanges()[0].Text).To(Equal(greeting))
		})
	})
})
