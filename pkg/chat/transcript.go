package chat

// AppendHook observes every message appended to a transcript
type AppendHook func(Message)

// Transcript is the ordered, append-only history of finalized messages.
// It is owned by a single UI loop and is not safe for concurrent use.
type Transcript struct {
	messages []Message
	hooks    []AppendHook
}

func NewTranscript() *Transcript {
	return &Transcript{messages: make([]Message, 0)}
}

// OnAppend registers a hook called after each append
func (t *Transcript) OnAppend(hook AppendHook) {
	if hook != nil {
		t.hooks = append(t.hooks, hook)
	}
}

// AppendUser records a locally submitted user message
func (t *Transcript) AppendUser(text string) Message {
	return t.add(NewUserMessage(text))
}

// AppendAgent records a finalized agent message built from blocks
func (t *Transcript) AppendAgent(blocks []ContentBlock) Message {
	return t.add(NewAgentMessage(blocks))
}

func (t *Transcript) add(msg Message) Message {
	t.messages = append(t.messages, msg)
	for _, hook := range t.hooks {
		hook(msg.clone())
	}
	return msg.clone()
}

// Clear drops every message
func (t *Transcript) Clear() {
	t.messages = make([]Message, 0)
}

// Messages returns a snapshot safe to hand to renderers
func (t *Transcript) Messages() []Message {
	result := make([]Message, len(t.messages))
	for i, m := range t.messages {
		result[i] = m.clone()
	}
	return result
}

func (t *Transcript) Len() int {
	return len(t.messages)
}

func (t *Transcript) IsEmpty() bool {
	return len(t.messages) == 0
}

// Last returns the most recent message
func (t *Transcript) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1].clone(), true
}

// MessagesByRole filters the snapshot by author
func (t *Transcript) MessagesByRole(role Role) []Message {
	var result []Message
	for _, m := range t.messages {
		if m.Role == role {
			result = append(result, m.clone())
		}
	}
	return result
}
