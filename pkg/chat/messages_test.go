package chat_test

import (
	"time"

	"github.com/killallgit/agentchat/pkg/chat"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Messages", func() {
	Describe("NewBlock", func() {
		DescribeTable("maps content_type to a block kind",
			func(contentType string, kind chat.BlockKind) {
				block := chat.NewBlock("# Step 1", contentType)
				Expect(block.Kind).To(Equal(kind))
				Expect(block.Text).To(Equal("# Step 1"))
			},
			Entry("md is markdown", "md", chat.KindMarkdown),
			Entry("plain is text", "plain", chat.KindText),
			Entry("text is text", "text", chat.KindText),
			Entry("empty is text", "", chat.KindText),
			Entry("MD is case-sensitive", "MD", chat.KindText),
			Entry("markdown spelled out is text", "markdown", chat.KindText),
		)
	})

	Describe("NewUserMessage", func() {
		It("should keep the text as a single text block", func() {
			msg := chat.NewUserMessage("  Hello World  ")

			Expect(msg.Role).To(Equal(chat.RoleUser))
			Expect(msg.IsUser()).To(BeTrue())
			Expect(msg.Content).To(HaveLen(1))
			Expect(msg.Content[0]).To(Equal(chat.TextBlock("  Hello World  ")))
			Expect(msg.Timestamp).To(BeTemporally("~", time.Now(), time.Second))
		})
	})

	Describe("NewAgentMessage", func() {
		It("should copy the blocks it is given", func() {
			blocks := []chat.ContentBlock{chat.TextBlock("Hello "), chat.MarkdownBlock("**world**")}
			msg := chat.NewAgentMessage(blocks)

			blocks[0].Text = "mutated"

			Expect(msg.IsAgent()).To(BeTrue())
			Expect(msg.Text()).To(Equal("Hello **world**"))
			Expect(msg.Content[1].IsMarkdown()).To(BeTrue())
		})

		It("should report empty content", func() {
			Expect(chat.NewAgentMessage(nil).IsEmpty()).To(BeTrue())
			Expect(chat.NewAgentMessage([]chat.ContentBlock{chat.TextBlock("  \n")}).IsEmpty()).To(BeTrue())
		})
	})

	Describe("Blocks", func() {
		It("should return a copy", func() {
			msg := chat.NewAgentMessage([]chat.ContentBlock{chat.TextBlock("a")})
			blocks := msg.Blocks()
			blocks[0].Text = "b"
			Expect(msg.Text()).To(Equal("a"))
		})
	})
})
