package chat_test

import (
	"bytes"

	"github.com/killallgit/agentchat/pkg/chat"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Transcript", func() {
	var transcript *chat.Transcript

	BeforeEach(func() {
		transcript = chat.NewTranscript()
	})

	It("should start empty", func() {
		Expect(transcript.IsEmpty()).To(BeTrue())
		Expect(transcript.Messages()).To(BeEmpty())
		_, ok := transcript.Last()
		Expect(ok).To(BeFalse())
	})

	It("should preserve append order", func() {
		transcript.AppendUser("first")
		transcript.AppendAgent([]chat.ContentBlock{chat.TextBlock("second")})
		transcript.AppendUser("third")

		msgs := transcript.Messages()
		Expect(msgs).To(HaveLen(3))
		Expect(msgs[0].Text()).To(Equal("first"))
		Expect(msgs[1].Text()).To(Equal("second"))
		Expect(msgs[2].Text()).To(Equal("third"))
		Expect(msgs[0].Timestamp).To(BeTemporally("<=", msgs[2].Timestamp))
	})

	It("should hand out snapshots that cannot mutate stored messages", func() {
		transcript.AppendAgent([]chat.ContentBlock{chat.TextBlock("original")})

		snap := transcript.Messages()
		snap[0].Content[0].Text = "changed"

		last, ok := transcript.Last()
		Expect(ok).To(BeTrue())
		Expect(last.Text()).To(Equal("original"))
	})

	It("should clear to empty", func() {
		transcript.AppendUser("hello")
		transcript.AppendAgent([]chat.ContentBlock{chat.TextBlock("hi")})

		transcript.Clear()

		Expect(transcript.Len()).To(Equal(0))
		Expect(transcript.Messages()).To(BeEmpty())
	})

	It("should filter by role", func() {
		transcript.AppendUser("q1")
		transcript.AppendAgent([]chat.ContentBlock{chat.TextBlock("a1")})
		transcript.AppendUser("q2")

		Expect(transcript.MessagesByRole(chat.RoleUser)).To(HaveLen(2))
		Expect(transcript.MessagesByRole(chat.RoleAgent)).To(HaveLen(1))
	})

	It("should notify append hooks in order", func() {
		var seen []string
		transcript.OnAppend(func(m chat.Message) { seen = append(seen, string(m.Role)+":"+m.Text()) })
		transcript.OnAppend(nil)

		transcript.AppendUser("ping")
		transcript.AppendAgent([]chat.ContentBlock{chat.TextBlock("pong")})

		Expect(seen).To(Equal([]string{"user:ping", "agent:pong"}))
	})

	Describe("Export", func() {
		It("should round-trip through YAML", func() {
			transcript.AppendUser("hello")
			transcript.AppendAgent([]chat.ContentBlock{chat.MarkdownBlock("# Plan")})

			var buf bytes.Buffer
			Expect(chat.Export(&buf, "client-1", transcript.Messages())).To(Succeed())
			Expect(buf.String()).To(ContainSubstring("kind: markdown"))

			snap, err := chat.LoadSnapshot(&buf)
			Expect(err).ToNot(HaveOccurred())
			Expect(snap.ClientID).To(Equal("client-1"))
			Expect(snap.Messages).To(HaveLen(2))
			Expect(snap.Messages[1].Role).To(Equal(chat.RoleAgent))
			Expect(snap.Messages[1].Content[0]).To(Equal(chat.MarkdownBlock("# Plan")))
		})
	})
})
