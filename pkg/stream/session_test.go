package stream_test

import (
	"errors"
	"math/rand"
	"strings"

	"github.com/killallgit/agentchat/pkg/chat"
	"github.com/killallgit/agentchat/pkg/protocol"
	"github.com/killallgit/agentchat/pkg/stream"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func frame(raw string) protocol.Event {
	return protocol.Decode([]byte(raw))
}

var _ = Describe("Session", func() {
	var (
		transcript *chat.Transcript
		session    *stream.Session
	)

	BeforeEach(func() {
		transcript = chat.NewTranscript()
		session = stream.NewSession(transcript)
	})

	Describe("Initial state", func() {
		It("should start idle with no partial content", func() {
			Expect(session.State()).To(Equal(stream.StateIdle))
			Expect(session.IsStreaming()).To(BeFalse())
			Expect(session.Partial()).To(BeEmpty())
			Expect(session.PartialText()).To(BeEmpty())

			_, ok := session.Stats()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Streaming a response", func() {
		It("should commit a streamed greeting as one agent message", func() {
			Expect(session.Apply(frame(`{"status":"thinking"}`)).Outcome).To(Equal(stream.OutcomeStarted))
			Expect(session.IsStreaming()).To(BeTrue())

			Expect(session.Apply(frame(`{"chunk":{"content":"Hel","content_type":"text"}}`)).Outcome).To(Equal(stream.OutcomeChunk))
			Expect(session.PartialText()).To(Equal("Hel"))
			Expect(transcript.Len()).To(Equal(0))

			session.Apply(frame(`{"chunk":{"content":"lo","content_type":"text"}}`))
			Expect(session.PartialText()).To(Equal("Hello"))

			result := session.Apply(frame(`{"status":"complete"}`))
			Expect(result.Outcome).To(Equal(stream.OutcomeCommitted))
			Expect(result.Message).NotTo(BeNil())
			Expect(result.Message.Text()).To(Equal("Hello"))
			Expect(result.Message.IsAgent()).To(BeTrue())

			Expect(session.State()).To(Equal(stream.StateIdle))
			Expect(transcript.Len()).To(Equal(1))
			last, _ := transcript.Last()
			Expect(last.Text()).To(Equal("Hello"))
		})

		It("should keep markdown chunk kinds in the committed message", func() {
			session.Apply(frame(`{"status":"thinking"}`))
			session.Apply(frame(`{"chunk":{"content":"# Title\n","content_type":"md"}}`))
			session.Apply(frame(`{"chunk":{"content":"plain","content_type":"text"}}`))
			session.Apply(frame(`{"status":"complete"}`))

			last, ok := transcript.Last()
			Expect(ok).To(BeTrue())
			Expect(last.Content).To(HaveLen(2))
			Expect(last.Content[0].Kind).To(Equal(chat.KindMarkdown))
			Expect(last.Content[1].Kind).To(Equal(chat.KindText))
		})

		It("should preserve chunk order for arbitrary sequences", func() {
			rng := rand.New(rand.NewSource(42))
			for round := 0; round < 50; round++ {
				t := chat.NewTranscript()
				s := stream.NewSession(t)
				s.Apply(protocol.StatusEvent{Status: protocol.StatusThinking})

				var want strings.Builder
				n := rng.Intn(20)
				for i := 0; i < n; i++ {
					piece := strings.Repeat(string(rune('a'+rng.Intn(26))), rng.Intn(4)+1)
					want.WriteString(piece)
					s.Apply(protocol.ChunkEvent{Block: chat.TextBlock(piece)})
				}
				s.Apply(protocol.StatusEvent{Status: protocol.StatusComplete})

				if n == 0 {
					Expect(t.Len()).To(Equal(0))
					continue
				}
				last, ok := t.Last()
				Expect(ok).To(BeTrue())
				Expect(last.Text()).To(Equal(want.String()))
			}
		})

		It("should start implicitly when a chunk arrives while idle", func() {
			result := session.Apply(frame(`{"chunk":{"content":"surprise"}}`))
			Expect(result.Outcome).To(Equal(stream.OutcomeChunk))
			Expect(session.IsStreaming()).To(BeTrue())

			session.Apply(frame(`{"status":"complete"}`))
			last, _ := transcript.Last()
			Expect(last.Text()).To(Equal("surprise"))
		})

		It("should reset the buffer on a second thinking", func() {
			session.Apply(frame(`{"status":"thinking"}`))
			session.Apply(frame(`{"chunk":{"content":"stale"}}`))

			result := session.Apply(frame(`{"status":"thinking"}`))
			Expect(result.Outcome).To(Equal(stream.OutcomeStarted))
			Expect(result.Dropped).To(Equal(1))
			Expect(session.PartialText()).To(BeEmpty())

			session.Apply(frame(`{"chunk":{"content":"fresh"}}`))
			session.Apply(frame(`{"status":"complete"}`))

			Expect(transcript.Len()).To(Equal(1))
			last, _ := transcript.Last()
			Expect(last.Text()).To(Equal("fresh"))
		})
	})

	Describe("Ending a stream", func() {
		It("should discard the buffer on error without touching the transcript", func() {
			transcript.AppendUser("question")

			session.Apply(frame(`{"status":"thinking"}`))
			session.Apply(frame(`{"chunk":{"content":"partial","content_type":"text"}}`))

			result := session.Apply(frame(`{"status":"error"}`))
			Expect(result.Outcome).To(Equal(stream.OutcomeDiscarded))
			Expect(errors.Is(result.Err, stream.ErrStreamAborted)).To(BeTrue())
			Expect(result.Dropped).To(Equal(1))
			Expect(result.Message).To(BeNil())

			Expect(session.State()).To(Equal(stream.StateIdle))
			Expect(session.Partial()).To(BeEmpty())
			Expect(transcript.Len()).To(Equal(1))
		})

		It("should ignore complete while idle", func() {
			result := session.Apply(frame(`{"status":"complete"}`))
			Expect(result.Outcome).To(Equal(stream.OutcomeIgnored))
			Expect(result.Changed()).To(BeFalse())
			Expect(transcript.Len()).To(Equal(0))
		})

		It("should ignore error while idle", func() {
			result := session.Apply(frame(`{"status":"error"}`))
			Expect(result.Outcome).To(Equal(stream.OutcomeIgnored))
			Expect(result.Err).To(BeNil())
		})

		It("should commit nothing for an empty stream", func() {
			session.Apply(frame(`{"status":"thinking"}`))
			result := session.Apply(frame(`{"status":"complete"}`))

			Expect(result.Outcome).To(Equal(stream.OutcomeEnded))
			Expect(result.Message).To(BeNil())
			Expect(session.State()).To(Equal(stream.StateIdle))
			Expect(transcript.Len()).To(Equal(0))
		})
	})

	Describe("Full messages", func() {
		It("should append directly while idle", func() {
			result := session.Apply(frame(`{"type":"plan","content":"1. search","content_type":"md"}`))
			Expect(result.Outcome).To(Equal(stream.OutcomeAppended))
			Expect(result.Message.Content[0].Kind).To(Equal(chat.KindMarkdown))
			Expect(transcript.Len()).To(Equal(1))
		})

		It("should append directly without disturbing an open stream", func() {
			session.Apply(frame(`{"status":"thinking"}`))
			session.Apply(frame(`{"chunk":{"content":"still going"}}`))
			session.Apply(frame(`{"type":"findings","content":"found it"}`))

			Expect(session.IsStreaming()).To(BeTrue())
			Expect(session.PartialText()).To(Equal("still going"))
			Expect(transcript.Len()).To(Equal(1))

			session.Apply(frame(`{"status":"complete"}`))
			msgs := transcript.Messages()
			Expect(msgs).To(HaveLen(2))
			Expect(msgs[0].Text()).To(Equal("found it"))
			Expect(msgs[1].Text()).To(Equal("still going"))
		})
	})

	Describe("Events outside the state machine", func() {
		It("should ignore notices and malformed frames", func() {
			session.Apply(frame(`{"status":"thinking"}`))
			session.Apply(frame(`{"chunk":{"content":"kept"}}`))

			Expect(session.Apply(frame(`{"type":"error","content":"tool failed"}`)).Outcome).To(Equal(stream.OutcomeIgnored))
			Expect(session.Apply(frame(`not json`)).Outcome).To(Equal(stream.OutcomeIgnored))

			Expect(session.IsStreaming()).To(BeTrue())
			Expect(session.PartialText()).To(Equal("kept"))
		})
	})

	Describe("Stats", func() {
		It("should track chunk count and content length", func() {
			session.Apply(frame(`{"status":"thinking"}`))
			session.Apply(frame(`{"chunk":{"content":"abc"}}`))
			session.Apply(frame(`{"chunk":{"content":"de"}}`))

			stats, ok := session.Stats()
			Expect(ok).To(BeTrue())
			Expect(stats.ChunkCount).To(Equal(2))
			Expect(stats.ContentLength).To(Equal(5))
			Expect(stats.StartTime.IsZero()).To(BeFalse())
			Expect(stats.LastUpdate).NotTo(BeTemporally("<", stats.StartTime))
			Expect(stats.Duration).To(BeNumerically(">=", 0))
		})

		It("should be unavailable once the stream ends", func() {
			session.Apply(frame(`{"status":"thinking"}`))
			session.Apply(frame(`{"status":"complete"}`))
			_, ok := session.Stats()
			Expect(ok).To(BeFalse())
		})
	})
})
