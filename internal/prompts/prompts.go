// Package prompts assembles the role-tagged message lists sent to the LLM
// gateway. Each builder emits one system message, the full prior history
// (no truncation; the whole transcript is resent every turn), then the new
// user input.
package prompts

import (
	"fmt"
	"strings"

	"debatefightclub-backend/internal/llm"
	"debatefightclub-backend/internal/models"
)

// --- Debate ---

const debateStancePrompt = `You are an expert debater arguing %s the following topic. Your arguments should be:
- Clear, concise, and compelling
- Based on logic and evidence
- Respectful but persuasive
- Limited to 2-3 sentences for pacing

Topic: %s`

// DebateContext carries everything needed to prompt one debate turn.
type DebateContext struct {
	Topic            string
	PreviousMessages []models.DebateMessage
	UserInterruption string
}

// BuildDebateMessages produces the message list for one pro or con turn.
func BuildDebateMessages(speaker models.Speaker, ctx DebateContext) []llm.Message {
	stance := "FOR"
	if speaker == models.SpeakerCon {
		stance = "AGAINST"
	}
	systemPrompt := fmt.Sprintf(debateStancePrompt, stance, ctx.Topic)

	var transcript strings.Builder
	for i, msg := range ctx.PreviousMessages {
		if i > 0 {
			transcript.WriteString("\n")
		}
		transcript.WriteString(strings.ToUpper(string(msg.Speaker)))
		transcript.WriteString(": ")
		transcript.WriteString(msg.Message)
	}
	history := transcript.String()
	if history == "" {
		history = "Starting the debate..."
	}

	userPrompt := fmt.Sprintf("Previous debate:\n%s\n\nProvide your %s argument now:", history, strings.ToUpper(string(speaker)))
	if ctx.UserInterruption != "" {
		userPrompt = fmt.Sprintf("The user interrupted with: %q\n\nRespond to their point while maintaining your %s position, then continue the debate. Keep it to 2-3 sentences.", ctx.UserInterruption, strings.ToUpper(string(speaker)))
	}

	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: userPrompt},
	}
}

// --- Sandbox personalities ---

// PersonalityPrompt returns the persona system prompt for a sandbox
// personality tag. The boolean reports whether the tag is known.
func PersonalityPrompt(personality string) (string, bool) {
	p, ok := personalityPrompts[personality]
	return p, ok
}

var personalityPrompts = map[string]string{
	"supportive_friend":  "You are a warm, supportive friend who listens empathetically and offers encouragement. Be genuine, caring, and always have the user's best interests in mind.",
	"wise_mentor":        "You are a wise mentor with years of experience. Offer thoughtful guidance, share wisdom, and help the user see situations from different perspectives.",
	"patient_teacher":    "You are a patient teacher who explains concepts clearly and thoroughly. Break down complex ideas, use examples, and ensure understanding.",
	"devils_advocate":    "You are a thoughtful devil's advocate who challenges assumptions respectfully. Ask probing questions and present alternative viewpoints to help the user think critically.",
	"motivational_coach": "You are an energetic motivational coach who inspires action and builds confidence. Be enthusiastic, positive, and help the user overcome obstacles.",
	"calm_therapist":     "You are a calm, empathetic therapist. Listen deeply, validate feelings, and help the user explore their thoughts and emotions in a safe space.",
}

// --- Dojo scenarios ---

// Scenario is a fixed negotiation/conflict situation with its framing prompt.
type Scenario struct {
	ID           string
	Title        string
	Description  string
	SystemPrompt string
}

// Scenarios returns the fixed dojo scenario catalog in display order.
func Scenarios() []Scenario {
	return dojoScenarios
}

// ScenarioByID looks up a scenario by its tag.
func ScenarioByID(id string) (Scenario, bool) {
	for _, s := range dojoScenarios {
		if s.ID == id {
			return s, true
		}
	}
	return Scenario{}, false
}

var dojoScenarios = []Scenario{
	{
		ID:           "salary_negotiation",
		Title:        "Salary Negotiation",
		Description:  "Practice negotiating a salary increase with your boss",
		SystemPrompt: "You are a skeptical but fair boss. The employee is asking for a raise. Be realistic, ask tough questions, but be open to negotiation. Evaluate their arguments and respond professionally.",
	},
	{
		ID:           "job_interview",
		Title:        "Job Interview",
		Description:  "Practice answering tough interview questions",
		SystemPrompt: "You are an experienced interviewer conducting a job interview. Ask probing questions, listen carefully to responses, and evaluate the candidate's fit. Be professional but challenging.",
	},
	{
		ID:           "breakup_conversation",
		Title:        "Breakup Conversation",
		Description:  "Practice having a difficult breakup conversation",
		SystemPrompt: "You are someone in a relationship. The other person wants to have a serious conversation. Listen empathetically, respond honestly, and navigate this difficult conversation with maturity and care.",
	},
	{
		ID:           "difficult_feedback",
		Title:        "Difficult Feedback",
		Description:  "Practice giving or receiving critical feedback",
		SystemPrompt: "You are a manager or colleague receiving/giving difficult feedback. Be constructive, specific, and professional. Help the person understand the feedback and work toward improvement.",
	},
	{
		ID:           "conflict_resolution",
		Title:        "Conflict Resolution",
		Description:  "Practice resolving a workplace conflict",
		SystemPrompt: "You are involved in a workplace conflict. Listen to the other person's perspective, express your concerns clearly, and work toward finding common ground and a solution.",
	},
	{
		ID:           "client_complaint",
		Title:        "Client Complaint",
		Description:  "Practice handling an upset client",
		SystemPrompt: "You are a client who is upset about a service or product. Express your concerns clearly, listen to solutions, and evaluate whether the company is addressing your needs adequately.",
	},
}

// scoringRubric is appended to every dojo system prompt. It is a textual
// contract with the model; the parser in services degrades to defaults when
// the model ignores it.
const scoringRubric = `
After responding to the user's message, evaluate their response on a scale of 1-100 based on:
- Clarity and articulation (20 points)
- Emotional intelligence and empathy (20 points)
- Assertiveness and confidence (20 points)
- Problem-solving approach (20 points)
- Professional tone and language (20 points)

Provide your response first, then on a new line write "SCORE: X" where X is 1-100.
Then provide brief feedback on what they did well and what could be improved.`

// BuildConversationMessages produces a persona/scenario message list:
// system prompt, prior history (two-role schema), then the new user input.
func BuildConversationMessages(systemPrompt string, history []models.HistoryMessage, userMessage string) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	for _, h := range history {
		role := llm.RoleUser
		if h.Role == llm.RoleAssistant {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: h.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: userMessage})
	return messages
}

// BuildDojoMessages is BuildConversationMessages with the scenario framing
// plus the scoring rubric as the system prompt.
func BuildDojoMessages(scenario Scenario, history []models.HistoryMessage, userMessage string) []llm.Message {
	return BuildConversationMessages(scenario.SystemPrompt+"\n"+scoringRubric, history, userMessage)
}
